package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"cgf-quiz/internal/app"
	"cgf-quiz/internal/domain"
)

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := Open(filepath.Join(t.TempDir(), "data", "quiz.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	if _, err := store.Get(ctx, app.ResultsKey); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := store.Set(ctx, app.ResultsKey, []byte(`[]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, app.ResultsKey, []byte(`[{"id":"a"}]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := store.Get(ctx, app.ResultsKey)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `[{"id":"a"}]` {
		t.Fatalf("unexpected value %s", got)
	}
	if err := store.Delete(ctx, app.ResultsKey); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, app.ResultsKey); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestQuestionsSurviveReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "quiz.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctrl := app.NewController(store, nil)
	if err := ctrl.Open(ctx); err != nil {
		t.Fatalf("controller open: %v", err)
	}
	correct := 0
	out := ctrl.AddQuestion(ctx, domain.QuestionInput{
		Text:     "Which badge colour grants Red Zone access?",
		Category: "Red Zone Security",
		Answers:  []string{"Blue", "Green"},
		Correct:  &correct,
	})
	if !out.OK || out.Warning != "" {
		t.Fatalf("add failed: %+v", out)
	}
	store.Close()

	store, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()
	reopened := app.NewController(store, nil)
	if err := reopened.Open(ctx); err != nil {
		t.Fatalf("controller reopen: %v", err)
	}
	if got := reopened.Snapshot().QuestionCount; got != 11 {
		t.Fatalf("expected 11 questions after reopen, got %d", got)
	}
}
