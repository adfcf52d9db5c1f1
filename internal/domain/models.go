package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// AllCategories is the category filter meaning "no filter".
const AllCategories = "all"

// Unanswered marks a question slot the user never answered.
const Unanswered = -1

// DefaultImportCategory is assigned to imported questions that carry no category.
const DefaultImportCategory = "Uncategorized"

// Question models an MCQ question with exactly one correct answer.
type Question struct {
	ID       int64    `json:"id"`
	Text     string   `json:"text"`
	Answers  []string `json:"answers"`
	Correct  int      `json:"correct"`
	Category string   `json:"category"`
}

// Clone returns a deep copy so snapshots never share the answers slice.
func (q Question) Clone() Question {
	c := q
	c.Answers = append([]string(nil), q.Answers...)
	return c
}

// Validate checks the stored-question invariants.
func (q Question) Validate() error {
	switch {
	case strings.TrimSpace(q.Text) == "":
		return NewValidationError("text", "is required", q.Text)
	case strings.TrimSpace(q.Category) == "":
		return NewValidationError("category", "is required", q.Category)
	case len(q.Answers) < 2:
		return NewValidationError("answers", "must have at least 2 answers", len(q.Answers))
	case q.Correct < 0 || q.Correct >= len(q.Answers):
		return NewValidationError("correct", fmt.Sprintf("must be between 0 and %d", len(q.Answers)-1), q.Correct)
	}
	return nil
}

// CloneQuestions deep-copies a question list.
func CloneQuestions(qs []Question) []Question {
	out := make([]Question, len(qs))
	for i, q := range qs {
		out[i] = q.Clone()
	}
	return out
}

// QuestionInput carries the admin form fields for a new question.
// Field order matters: validation reports the first failing field in this order.
type QuestionInput struct {
	Text     string   `json:"text" validate:"required"`
	Category string   `json:"category" validate:"required"`
	Answers  []string `json:"answers" validate:"min=2"`
	Correct  *int     `json:"correct" validate:"required,gte=0"`
}

// ImportCandidate is one element of an import file before validation.
type ImportCandidate struct {
	Text     string    `json:"text"`
	Answers  *[]string `json:"answers"`
	Correct  *int      `json:"correct"`
	Category string    `json:"category"`
}

// Result is the immutable scored record of one completed session.
type Result struct {
	ID         string     `json:"id"`
	Date       time.Time  `json:"date"`
	Score      int        `json:"score"`
	Total      int        `json:"total"`
	Percentage int        `json:"percentage"`
	Duration   int64      `json:"duration"` // milliseconds
	Category   string     `json:"category"`
	Answers    []int      `json:"answers"`
	Questions  []Question `json:"questions"`
}

// Elapsed returns the session duration.
func (r Result) Elapsed() time.Duration {
	return time.Duration(r.Duration) * time.Millisecond
}

// Validate checks a stored result is self-consistent.
func (r Result) Validate() error {
	if r.Total <= 0 {
		return NewValidationError("total", "must be positive", r.Total)
	}
	if r.Score < 0 || r.Score > r.Total {
		return NewValidationError("score", "must be between 0 and total", r.Score)
	}
	if len(r.Answers) != r.Total || len(r.Questions) != r.Total {
		return NewValidationError("answers", "must have one entry per question", len(r.Answers))
	}
	if r.Duration < 0 {
		return NewValidationError("duration", "must not be negative", r.Duration)
	}
	for _, q := range r.Questions {
		if err := q.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy of the result.
func (r Result) Clone() Result {
	c := r
	c.Answers = append([]int(nil), r.Answers...)
	c.Questions = CloneQuestions(r.Questions)
	return c
}

// ReviewItem pairs a presented question with the answer given.
type ReviewItem struct {
	Question Question `json:"question"`
	Chosen   int      `json:"chosen"`
	Correct  bool     `json:"correct"`
}

// Review lists the result's questions alongside the user's answers.
func (r Result) Review() []ReviewItem {
	items := make([]ReviewItem, 0, len(r.Questions))
	for i, q := range r.Questions {
		chosen := Unanswered
		if i < len(r.Answers) {
			chosen = r.Answers[i]
		}
		items = append(items, ReviewItem{
			Question: q.Clone(),
			Chosen:   chosen,
			Correct:  chosen == q.Correct,
		})
	}
	return items
}

// Percentage rounds score/total to a whole percent. total must be positive.
func Percentage(score, total int) (int, error) {
	if total <= 0 {
		return 0, ErrEmptySession
	}
	return int(math.Round(float64(score) * 100 / float64(total))), nil
}
