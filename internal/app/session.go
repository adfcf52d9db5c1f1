package app

import (
	"time"

	"cgf-quiz/internal/domain"
	"github.com/google/uuid"
)

// SessionState is the quiz session lifecycle position.
type SessionState string

const (
	StateUnconfigured SessionState = "unconfigured"
	StateConfigured   SessionState = "configured"
	StateInProgress   SessionState = "in_progress"
	StateCompleted    SessionState = "completed"
)

// Session is one attempt at a filtered set of questions. It is not safe for
// concurrent use; the Controller serializes access.
type Session struct {
	state     SessionState
	category  string
	questions []domain.Question
	current   int
	answers   []int
	startedAt time.Time
	endedAt   time.Time
	now       func() time.Time
	newID     func() string
}

func NewSession() *Session {
	return NewSessionWithClock(time.Now)
}

// NewSessionWithClock allows deterministic timestamps in tests.
func NewSessionWithClock(now func() time.Time) *Session {
	return &Session{
		state: StateUnconfigured,
		now:   now,
		newID: uuid.NewString,
	}
}

func (s *Session) State() SessionState { return s.state }

func (s *Session) Category() string { return s.category }

// Configure selects the category filter. Allowed until the quiz starts.
func (s *Session) Configure(category string) error {
	if s.state != StateUnconfigured && s.state != StateConfigured {
		return domain.ErrInvalidTransition
	}
	s.category = category
	s.state = StateConfigured
	return nil
}

// Start freezes the given questions into the session. An empty set leaves the
// session Configured.
func (s *Session) Start(questions []domain.Question) error {
	if s.state != StateConfigured {
		return domain.ErrInvalidTransition
	}
	if len(questions) == 0 {
		return &domain.EmptyCategoryError{Category: s.category}
	}
	s.questions = domain.CloneQuestions(questions)
	s.answers = make([]int, len(questions))
	for i := range s.answers {
		s.answers[i] = domain.Unanswered
	}
	s.current = 0
	s.startedAt = s.now()
	s.state = StateInProgress
	return nil
}

// SelectAnswer records choice for the current question, replacing any earlier one.
func (s *Session) SelectAnswer(choice int) error {
	if s.state != StateInProgress {
		return domain.ErrNoActiveSession
	}
	if n := len(s.questions[s.current].Answers); choice < 0 || choice >= n {
		return &domain.OutOfRangeError{What: "answer", Index: choice, Len: n}
	}
	s.answers[s.current] = choice
	return nil
}

// Advance moves to the next question; a no-op on the last one.
func (s *Session) Advance() error {
	if s.state != StateInProgress {
		return domain.ErrNoActiveSession
	}
	if s.current < len(s.questions)-1 {
		s.current++
	}
	return nil
}

// Retreat moves to the previous question; a no-op on the first one.
func (s *Session) Retreat() error {
	if s.state != StateInProgress {
		return domain.ErrNoActiveSession
	}
	if s.current > 0 {
		s.current--
	}
	return nil
}

// Submit scores the session and returns its Result. The session is terminal afterwards.
func (s *Session) Submit() (domain.Result, error) {
	if s.state != StateInProgress {
		return domain.Result{}, domain.ErrNoActiveSession
	}
	score := 0
	for i, q := range s.questions {
		if s.answers[i] == q.Correct {
			score++
		}
	}
	pct, err := domain.Percentage(score, len(s.questions))
	if err != nil {
		return domain.Result{}, err
	}

	s.endedAt = s.now()
	s.state = StateCompleted

	elapsed := s.endedAt.Sub(s.startedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	return domain.Result{
		ID:         s.newID(),
		Date:       s.endedAt,
		Score:      score,
		Total:      len(s.questions),
		Percentage: pct,
		Duration:   elapsed.Milliseconds(),
		Category:   s.category,
		Answers:    append([]int(nil), s.answers...),
		Questions:  domain.CloneQuestions(s.questions),
	}, nil
}

// SessionView is a read-only snapshot for display.
type SessionView struct {
	State     SessionState     `json:"state"`
	Category  string           `json:"category"`
	Index     int              `json:"index"`
	Total     int              `json:"total"`
	Question  *domain.Question `json:"question,omitempty"`
	Selected  int              `json:"selected"`
	Answered  int              `json:"answered"`
	IsFirst   bool             `json:"isFirst"`
	IsLast    bool             `json:"isLast"`
	StartedAt time.Time        `json:"startedAt,omitzero"`
}

// View snapshots the session. The current question is only exposed while in progress.
func (s *Session) View() SessionView {
	v := SessionView{
		State:    s.state,
		Category: s.category,
		Index:    s.current,
		Total:    len(s.questions),
		Selected: domain.Unanswered,
	}
	if s.state != StateInProgress {
		return v
	}
	q := s.questions[s.current].Clone()
	v.Question = &q
	v.Selected = s.answers[s.current]
	for _, a := range s.answers {
		if a != domain.Unanswered {
			v.Answered++
		}
	}
	v.IsFirst = s.current == 0
	v.IsLast = s.current == len(s.questions)-1
	v.StartedAt = s.startedAt
	return v
}
