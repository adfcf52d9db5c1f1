package app

import (
	"context"
	"log/slog"

	"cgf-quiz/internal/domain"
)

// ResultLog is the append-only history of completed results, oldest first.
type ResultLog struct {
	gateway *Gateway
	logger  *slog.Logger
	results []domain.Result
}

func NewResultLog(gateway *Gateway, logger *slog.Logger) *ResultLog {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResultLog{gateway: gateway, logger: logger}
}

// Load reads persisted results; a failed read starts from an empty log.
func (l *ResultLog) Load(ctx context.Context) {
	results, err := l.gateway.LoadResults(ctx)
	if err != nil {
		l.logger.ErrorContext(ctx, "loading results failed, starting empty", "error", err)
		results = nil
	}
	l.results = results
	l.logger.InfoContext(ctx, "results loaded", "count", len(l.results))
}

// Append adds r to the end of the log and persists it.
func (l *ResultLog) Append(ctx context.Context, r domain.Result) error {
	l.results = append(l.results, r.Clone())
	return l.gateway.SaveResults(ctx, l.results)
}

func (l *ResultLog) Latest() (domain.Result, bool) {
	if len(l.results) == 0 {
		return domain.Result{}, false
	}
	return l.results[len(l.results)-1].Clone(), true
}

// Recent returns up to n results, most recent first.
func (l *ResultLog) Recent(n int) []domain.Result {
	if n <= 0 {
		return []domain.Result{}
	}
	if n > len(l.results) {
		n = len(l.results)
	}
	out := make([]domain.Result, 0, n)
	for i := len(l.results) - 1; i >= len(l.results)-n; i-- {
		out = append(out, l.results[i].Clone())
	}
	return out
}

// All returns every result in chronological order.
func (l *ResultLog) All() []domain.Result {
	out := make([]domain.Result, len(l.results))
	for i, r := range l.results {
		out[i] = r.Clone()
	}
	return out
}

func (l *ResultLog) Len() int {
	return len(l.results)
}

// Clear empties the log and persists the empty collection.
func (l *ResultLog) Clear(ctx context.Context) error {
	l.results = nil
	return l.gateway.SaveResults(ctx, []domain.Result{})
}
