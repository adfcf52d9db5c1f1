package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"time"

	"cgf-quiz/internal/domain"
)

// QuestionBank is the in-memory question collection, persisted through a Gateway
// after every mutation.
type QuestionBank struct {
	gateway   *Gateway
	logger    *slog.Logger
	now       func() time.Time
	questions []domain.Question
	lastID    int64
}

func NewQuestionBank(gateway *Gateway, logger *slog.Logger) *QuestionBank {
	return NewQuestionBankWithClock(gateway, logger, time.Now)
}

// NewQuestionBankWithClock allows deterministic ids in tests.
func NewQuestionBankWithClock(gateway *Gateway, logger *slog.Logger, now func() time.Time) *QuestionBank {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuestionBank{gateway: gateway, logger: logger, now: now}
}

// Load reads persisted questions. A missing record seeds and persists the
// default set; a read or decode failure falls back to the defaults without
// returning an error.
func (b *QuestionBank) Load(ctx context.Context) []domain.Question {
	questions, found, err := b.gateway.LoadQuestions(ctx)
	switch {
	case err != nil:
		b.logger.ErrorContext(ctx, "loading questions failed, using defaults", "error", err)
		b.replace(domain.DefaultQuestions())
	case !found:
		b.replace(domain.DefaultQuestions())
		if err := b.persist(ctx); err != nil {
			b.logger.WarnContext(ctx, "persisting default questions failed", "error", err)
		}
	default:
		b.replace(questions)
	}
	b.logger.InfoContext(ctx, "questions loaded", "count", len(b.questions))
	return b.All()
}

// All returns a copy of every question in bank order.
func (b *QuestionBank) All() []domain.Question {
	return domain.CloneQuestions(b.questions)
}

func (b *QuestionBank) Len() int {
	return len(b.questions)
}

// Categories lists distinct categories sorted, prefixed with AllCategories.
func (b *QuestionBank) Categories() []string {
	seen := make(map[string]struct{}, len(b.questions))
	var cats []string
	for _, q := range b.questions {
		if _, ok := seen[q.Category]; ok {
			continue
		}
		seen[q.Category] = struct{}{}
		cats = append(cats, q.Category)
	}
	sort.Strings(cats)
	return append([]string{domain.AllCategories}, cats...)
}

// FilterByCategory returns a copy of the matching questions in bank order.
func (b *QuestionBank) FilterByCategory(category string) []domain.Question {
	out := make([]domain.Question, 0, len(b.questions))
	for _, q := range b.questions {
		if category == domain.AllCategories || q.Category == category {
			out = append(out, q.Clone())
		}
	}
	return out
}

// IndexesOf returns the bank index of every question matching category, in order.
func (b *QuestionBank) IndexesOf(category string) []int {
	idx := make([]int, 0, len(b.questions))
	for i, q := range b.questions {
		if category == domain.AllCategories || q.Category == category {
			idx = append(idx, i)
		}
	}
	return idx
}

// Add validates input and appends a new question. Validation failures leave the
// bank untouched. A PersistenceError means the question was added in memory only.
func (b *QuestionBank) Add(ctx context.Context, in domain.QuestionInput) (domain.Question, error) {
	in, blank := normalizeInput(in)
	if err := validateInput(in, blank); err != nil {
		return domain.Question{}, err
	}
	q := domain.Question{
		ID:       b.nextID(),
		Text:     in.Text,
		Answers:  in.Answers,
		Correct:  *in.Correct,
		Category: in.Category,
	}
	b.questions = append(b.questions, q)
	return q.Clone(), b.persist(ctx)
}

// Delete removes the question at index of the unfiltered collection.
func (b *QuestionBank) Delete(ctx context.Context, index int) (domain.Question, error) {
	if index < 0 || index >= len(b.questions) {
		return domain.Question{}, &domain.OutOfRangeError{What: "question", Index: index, Len: len(b.questions)}
	}
	removed := b.questions[index]
	b.questions = append(b.questions[:index:index], b.questions[index+1:]...)
	return removed, b.persist(ctx)
}

// ImportMerge appends every candidate with fresh ids, or none of them if any
// candidate is malformed.
func (b *QuestionBank) ImportMerge(ctx context.Context, candidates []domain.ImportCandidate) (int, error) {
	accepted := make([]domain.Question, 0, len(candidates))
	for i, c := range candidates {
		q, err := candidateQuestion(i, c)
		if err != nil {
			return 0, err
		}
		accepted = append(accepted, q)
	}
	for i := range accepted {
		accepted[i].ID = b.nextID()
	}
	b.questions = append(b.questions, accepted...)
	b.logger.InfoContext(ctx, "questions imported", "count", len(accepted))
	return len(accepted), b.persist(ctx)
}

// ResetToDefaults discards persisted and in-memory questions and reseeds.
func (b *QuestionBank) ResetToDefaults(ctx context.Context) error {
	if err := b.gateway.DeleteQuestions(ctx); err != nil {
		b.logger.WarnContext(ctx, "deleting persisted questions failed", "error", err)
	}
	b.replace(domain.DefaultQuestions())
	return b.persist(ctx)
}

// Export renders the full collection as indented JSON.
func (b *QuestionBank) Export() ([]byte, error) {
	return json.MarshalIndent(b.questions, "", "  ")
}

// ParseImport decodes an import file into candidates. The payload must be a
// JSON array; an element of the wrong shape rejects the whole file.
func ParseImport(data []byte) ([]domain.ImportCandidate, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return nil, &domain.ImportFormatError{Position: -1, Message: "expected a JSON array of questions"}
	}
	candidates := make([]domain.ImportCandidate, len(raw))
	for i, elem := range raw {
		if err := json.Unmarshal(elem, &candidates[i]); err != nil {
			return nil, &domain.ImportFormatError{Position: i, Message: "expected an object with text, answers and correct"}
		}
	}
	return candidates, nil
}

func (b *QuestionBank) replace(qs []domain.Question) {
	b.questions = domain.CloneQuestions(qs)
	for _, q := range b.questions {
		if q.ID > b.lastID {
			b.lastID = q.ID
		}
	}
}

// nextID is timestamp-derived and strictly above every id issued or present.
func (b *QuestionBank) nextID() int64 {
	id := b.now().UnixMilli()
	if id <= b.lastID {
		id = b.lastID + 1
	}
	b.lastID = id
	return id
}

func (b *QuestionBank) persist(ctx context.Context) error {
	return b.gateway.SaveQuestions(ctx, b.questions)
}
