package app_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"cgf-quiz/internal/app"
	"cgf-quiz/internal/infra/memory"
)

var errDiskFull = errors.New("disk full")

// failingStore wraps a memory store and fails reads or writes on demand.
type failingStore struct {
	*memory.Store
	failGet bool
	failSet bool
}

func (s *failingStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s.failGet {
		return nil, errDiskFull
	}
	return s.Store.Get(ctx, key)
}

func (s *failingStore) Set(ctx context.Context, key string, value []byte) error {
	if s.failSet {
		return errDiskFull
	}
	return s.Store.Set(ctx, key, value)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stepClock advances by step on every call.
func stepClock(start time.Time, step time.Duration) func() time.Time {
	current := start.Add(-step)
	return func() time.Time {
		current = current.Add(step)
		return current
	}
}

func intPtr(i int) *int { return &i }

func newTestController(store app.Store) *app.Controller {
	ctrl := app.NewControllerWithClock(store, discardLogger(),
		stepClock(time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC), 30*time.Second))
	if err := ctrl.Open(context.Background()); err != nil {
		panic(err)
	}
	return ctrl
}
