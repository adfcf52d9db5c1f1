package memory

import (
	"context"
	"sync"

	"cgf-quiz/internal/domain"
)

// Store is an in-memory implementation of app.Store, useful for tests and demos.
type Store struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func NewStore() *Store {
	return &Store{
		records: make(map[string][]byte),
	}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.records[key]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return append([]byte(nil), value...), nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = append([]byte(nil), value...)
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}

// Keys reports the stored keys.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.records))
	for k := range s.records {
		keys = append(keys, k)
	}
	return keys
}
