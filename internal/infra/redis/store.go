package redis

import (
	"context"
	"errors"

	"cgf-quiz/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Store keeps each record as a plain string value under prefix+key.
// Records never expire.
type Store struct {
	client *redis.Client
	prefix string
}

func NewStore(client *redis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrRecordNotFound
	}
	return value, err
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, s.key(key), value, 0).Err()
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

func (s *Store) key(key string) string {
	return s.prefix + key
}
