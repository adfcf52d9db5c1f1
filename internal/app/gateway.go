package app

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"cgf-quiz/internal/domain"
)

// Store abstracts the durable key-value medium (sqlite, Redis, Postgres, memory).
// Records are read and written whole.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

const (
	QuestionsKey = "cgf-quiz-questions"
	ResultsKey   = "cgf-quiz-results"

	quarantineSuffix = "-quarantine"
)

// Gateway serializes the question and result collections to a Store and
// validates every element it reads back.
type Gateway struct {
	store  Store
	logger *slog.Logger
}

func NewGateway(store Store, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{store: store, logger: logger}
}

// LoadQuestions returns the stored questions. found is false when the record
// has never been written.
func (g *Gateway) LoadQuestions(ctx context.Context) (questions []domain.Question, found bool, err error) {
	found, err = loadValidated(ctx, g, QuestionsKey, &questions, func(q domain.Question) error {
		return q.Validate()
	})
	return questions, found, err
}

func (g *Gateway) SaveQuestions(ctx context.Context, questions []domain.Question) error {
	return g.save(ctx, QuestionsKey, questions)
}

// LoadResults returns the stored results, empty when none were written.
func (g *Gateway) LoadResults(ctx context.Context) ([]domain.Result, error) {
	var results []domain.Result
	_, err := loadValidated(ctx, g, ResultsKey, &results, func(r domain.Result) error {
		return r.Validate()
	})
	return results, err
}

func (g *Gateway) SaveResults(ctx context.Context, results []domain.Result) error {
	return g.save(ctx, ResultsKey, results)
}

// DeleteQuestions drops the persisted question record.
func (g *Gateway) DeleteQuestions(ctx context.Context) error {
	return g.delete(ctx, QuestionsKey)
}

// Clear removes every record the gateway owns.
func (g *Gateway) Clear(ctx context.Context) error {
	for _, key := range []string{QuestionsKey, ResultsKey, QuestionsKey + quarantineSuffix, ResultsKey + quarantineSuffix} {
		if err := g.delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func (g *Gateway) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return &domain.PersistenceError{Op: "encode", Key: key, Err: err}
	}
	if err := g.store.Set(ctx, key, data); err != nil {
		g.logger.ErrorContext(ctx, "save failed", "key", key, "error", err)
		return &domain.PersistenceError{Op: "save", Key: key, Err: err}
	}
	g.logger.DebugContext(ctx, "record saved", "key", key, "bytes", len(data))
	return nil
}

func (g *Gateway) delete(ctx context.Context, key string) error {
	if err := g.store.Delete(ctx, key); err != nil {
		return &domain.PersistenceError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

// loadValidated decodes a JSON array element by element. Elements that do not
// decode or fail check are dropped and written to the key's quarantine record.
func loadValidated[T any](ctx context.Context, g *Gateway, key string, out *[]T, check func(T) error) (bool, error) {
	data, err := g.store.Get(ctx, key)
	if errors.Is(err, domain.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, &domain.PersistenceError{Op: "load", Key: key, Err: err}
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return true, &domain.PersistenceError{Op: "decode", Key: key, Err: err}
	}

	items := make([]T, 0, len(raw))
	var rejected []json.RawMessage
	for i, elem := range raw {
		var item T
		elemErr := json.Unmarshal(elem, &item)
		if elemErr == nil {
			elemErr = check(item)
		}
		if elemErr != nil {
			g.logger.WarnContext(ctx, "quarantined malformed record", "key", key, "position", i, "error", elemErr)
			rejected = append(rejected, elem)
			continue
		}
		items = append(items, item)
	}
	if len(rejected) > 0 {
		if qerr := g.quarantine(ctx, key, rejected); qerr != nil {
			g.logger.WarnContext(ctx, "quarantine write failed", "key", key, "error", qerr)
		} else if serr := g.save(ctx, key, items); serr != nil {
			g.logger.WarnContext(ctx, "rewriting record without quarantined entries failed", "key", key, "error", serr)
		}
	}
	*out = items
	return true, nil
}

// quarantine appends rejected to the key's quarantine record.
func (g *Gateway) quarantine(ctx context.Context, key string, rejected []json.RawMessage) error {
	qkey := key + quarantineSuffix
	var held []json.RawMessage
	data, err := g.store.Get(ctx, qkey)
	switch {
	case errors.Is(err, domain.ErrRecordNotFound):
	case err != nil:
		return &domain.PersistenceError{Op: "load", Key: qkey, Err: err}
	default:
		if derr := json.Unmarshal(data, &held); derr != nil {
			g.logger.WarnContext(ctx, "quarantine record unreadable, keeping it as one entry", "key", qkey, "error", derr)
			held = nil
			if json.Valid(data) {
				held = []json.RawMessage{data}
			}
		}
	}
	return g.save(ctx, qkey, append(held, rejected...))
}
