package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cgf-quiz/internal/domain"
)

// DefaultHistoryLimit bounds the history view when no limit is configured.
const DefaultHistoryLimit = 5

// Controller owns the question bank, the result log and the current session,
// and maps user actions onto them. Calls must not interleave; callers that
// serve several clients serialize access.
type Controller struct {
	gateway       *Gateway
	bank          *QuestionBank
	results       *ResultLog
	session       *Session
	adminCategory string
	historyLimit  int
	logger        *slog.Logger
	now           func() time.Time
}

func NewController(store Store, logger *slog.Logger) *Controller {
	return NewControllerWithClock(store, logger, time.Now)
}

// NewControllerWithClock allows deterministic timestamps in tests.
func NewControllerWithClock(store Store, logger *slog.Logger, now func() time.Time) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	gateway := NewGateway(store, logger)
	return &Controller{
		gateway:       gateway,
		bank:          NewQuestionBankWithClock(gateway, logger, now),
		results:       NewResultLog(gateway, logger),
		adminCategory: domain.AllCategories,
		historyLimit:  DefaultHistoryLimit,
		logger:        logger,
		now:           now,
	}
}

// SetHistoryLimit changes the default number of results History returns.
func (c *Controller) SetHistoryLimit(n int) {
	if n > 0 {
		c.historyLimit = n
	}
}

// Open loads questions, then results. Load failures degrade to defaults and
// are logged; only cancellation of ctx is returned.
func (c *Controller) Open(ctx context.Context) error {
	c.bank.Load(ctx)
	if err := ctx.Err(); err != nil {
		return err
	}
	c.results.Load(ctx)
	return ctx.Err()
}

// Outcome describes the result of one action for the presentation layer.
type Outcome struct {
	Action   string         `json:"action"`
	OK       bool           `json:"ok"`
	Warning  string         `json:"warning,omitempty"`
	Failure  *Failure       `json:"failure,omitempty"`
	Result   *domain.Result `json:"result,omitempty"`
	Imported int            `json:"imported,omitempty"`
	State    State          `json:"state"`
}

// Failure is a tagged error.
type Failure struct {
	Kind     string `json:"kind"`
	Message  string `json:"message"`
	Field    string `json:"field,omitempty"`
	Position *int   `json:"position,omitempty"`
}

// State is the display snapshot returned with every outcome.
type State struct {
	Categories    []string       `json:"categories"`
	QuestionCount int            `json:"questionCount"`
	AdminCategory string         `json:"adminCategory"`
	Session       *SessionView   `json:"session,omitempty"`
	LatestResult  *domain.Result `json:"latestResult,omitempty"`
	ResultCount   int            `json:"resultCount"`
}

// AdminEntry is one row of the filtered admin list. Position is what the user
// sees; BankIndex is the question's index in the unfiltered collection.
type AdminEntry struct {
	Position  int             `json:"position"`
	BankIndex int             `json:"bankIndex"`
	Question  domain.Question `json:"question"`
}

func (c *Controller) Snapshot() State {
	st := State{
		Categories:    c.bank.Categories(),
		QuestionCount: c.bank.Len(),
		AdminCategory: c.adminCategory,
		ResultCount:   c.results.Len(),
	}
	if c.session != nil {
		v := c.session.View()
		st.Session = &v
	}
	if latest, ok := c.results.Latest(); ok {
		st.LatestResult = &latest
	}
	return st
}

// ChooseCategory configures a quiz on category. A finished session is replaced.
func (c *Controller) ChooseCategory(category string) Outcome {
	if c.session == nil || c.session.State() == StateCompleted {
		c.session = NewSessionWithClock(c.now)
	}
	return c.finish("chooseCategory", c.session.Configure(category))
}

// StartQuiz freezes the configured category's questions into the session.
func (c *Controller) StartQuiz() Outcome {
	if c.session == nil {
		return c.finish("startQuiz", domain.ErrInvalidTransition)
	}
	return c.finish("startQuiz", c.session.Start(c.bank.FilterByCategory(c.session.Category())))
}

func (c *Controller) Answer(choice int) Outcome {
	if c.session == nil {
		return c.finish("answer", domain.ErrNoActiveSession)
	}
	return c.finish("answer", c.session.SelectAnswer(choice))
}

func (c *Controller) Next() Outcome {
	if c.session == nil {
		return c.finish("next", domain.ErrNoActiveSession)
	}
	return c.finish("next", c.session.Advance())
}

func (c *Controller) Previous() Outcome {
	if c.session == nil {
		return c.finish("previous", domain.ErrNoActiveSession)
	}
	return c.finish("previous", c.session.Retreat())
}

// Submit scores the session and appends the result to the log.
func (c *Controller) Submit(ctx context.Context) Outcome {
	if c.session == nil {
		return c.finish("submit", domain.ErrNoActiveSession)
	}
	result, err := c.session.Submit()
	if err != nil {
		return c.finish("submit", err)
	}
	c.logger.InfoContext(ctx, "quiz submitted",
		"category", result.Category, "score", result.Score, "total", result.Total, "percentage", result.Percentage)
	out := c.finish("submit", c.results.Append(ctx, result))
	out.Result = &result
	return out
}

// Retake replaces the session with a fresh one configured on the previous
// category, or on the latest result's category after a restart.
func (c *Controller) Retake() Outcome {
	var category string
	switch {
	case c.session != nil && c.session.State() == StateCompleted:
		category = c.session.Category()
	case c.session == nil:
		latest, ok := c.results.Latest()
		if !ok {
			return c.finish("retake", domain.ErrInvalidTransition)
		}
		category = latest.Category
	default:
		return c.finish("retake", domain.ErrInvalidTransition)
	}
	c.session = NewSessionWithClock(c.now)
	return c.finish("retake", c.session.Configure(category))
}

// History returns up to n results most recent first; n <= 0 uses the configured limit.
func (c *Controller) History(n int) []domain.Result {
	if n <= 0 {
		n = c.historyLimit
	}
	return c.results.Recent(n)
}

// AllResults returns the full log in chronological order.
func (c *Controller) AllResults() []domain.Result {
	return c.results.All()
}

// Review pairs the latest result's questions with the answers given.
func (c *Controller) Review() ([]domain.ReviewItem, bool) {
	latest, ok := c.results.Latest()
	if !ok {
		return nil, false
	}
	return latest.Review(), true
}

func (c *Controller) AddQuestion(ctx context.Context, in domain.QuestionInput) Outcome {
	q, err := c.bank.Add(ctx, in)
	if err == nil || domain.Kind(err) == domain.KindPersistence {
		c.logger.InfoContext(ctx, "question added", "id", q.ID, "category", q.Category)
	}
	return c.finish("addQuestion", err)
}

// FilterQuestions sets the admin list filter.
func (c *Controller) FilterQuestions(category string) Outcome {
	c.adminCategory = category
	return c.finish("filterQuestions", nil)
}

// AdminView lists the questions matching the admin filter with their bank index.
func (c *Controller) AdminView() []AdminEntry {
	indexes := c.bank.IndexesOf(c.adminCategory)
	all := c.bank.All()
	entries := make([]AdminEntry, len(indexes))
	for pos, idx := range indexes {
		entries[pos] = AdminEntry{Position: pos, BankIndex: idx, Question: all[idx]}
	}
	return entries
}

// DeleteQuestion deletes by position in the filtered admin list.
func (c *Controller) DeleteQuestion(ctx context.Context, position int) Outcome {
	idx, err := c.bankIndex(position)
	if err != nil {
		return c.finish("deleteQuestion", err)
	}
	removed, err := c.bank.Delete(ctx, idx)
	if err == nil || domain.Kind(err) == domain.KindPersistence {
		c.logger.InfoContext(ctx, "question deleted", "id", removed.ID, "position", position, "index", idx)
	}
	return c.finish("deleteQuestion", err)
}

func (c *Controller) bankIndex(position int) (int, error) {
	indexes := c.bank.IndexesOf(c.adminCategory)
	if position < 0 || position >= len(indexes) {
		return 0, &domain.OutOfRangeError{What: "question", Index: position, Len: len(indexes)}
	}
	return indexes[position], nil
}

// ImportQuestions merges a JSON import file into the bank, all or nothing.
func (c *Controller) ImportQuestions(ctx context.Context, data []byte) Outcome {
	candidates, err := ParseImport(data)
	if err != nil {
		return c.finish("importQuestions", err)
	}
	n, err := c.bank.ImportMerge(ctx, candidates)
	out := c.finish("importQuestions", err)
	if out.OK {
		out.Imported = n
	}
	return out
}

// ExportQuestions renders the whole collection as pretty-printed JSON.
func (c *Controller) ExportQuestions() ([]byte, error) {
	return c.bank.Export()
}

// ExportFilename is the suggested download name for an export taken at t.
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("cgf-quiz-questions-%s.json", t.Format("2006-01-02"))
}

// ResetQuestions reseeds the bank with the default questions.
func (c *Controller) ResetQuestions(ctx context.Context) Outcome {
	return c.finish("resetQuestions", c.bank.ResetToDefaults(ctx))
}

// ClearAll wipes questions, results and the session. Both confirmations are required.
func (c *Controller) ClearAll(ctx context.Context, confirmed, reconfirmed bool) Outcome {
	if !confirmed || !reconfirmed {
		return c.finish("clearAll", domain.ErrClearNotConfirmed)
	}
	var errs []error
	if err := c.gateway.Clear(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := c.bank.ResetToDefaults(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := c.results.Clear(ctx); err != nil {
		errs = append(errs, err)
	}
	c.session = nil
	c.adminCategory = domain.AllCategories
	c.logger.WarnContext(ctx, "all data cleared")
	return c.finish("clearAll", errors.Join(errs...))
}

// finish turns err into an Outcome. Persistence write failures still count as
// success since the in-memory change stands.
func (c *Controller) finish(action string, err error) Outcome {
	out := Outcome{Action: action, OK: err == nil}
	if err != nil {
		kind := domain.Kind(err)
		if kind == domain.KindPersistence {
			out.OK = true
			out.Warning = "changes could not be saved: " + err.Error()
		} else {
			f := &Failure{Kind: kind, Message: err.Error()}
			var ve *domain.ValidationError
			if errors.As(err, &ve) {
				f.Field = ve.Field
			}
			var ie *domain.ImportFormatError
			if errors.As(err, &ie) && ie.Position >= 0 {
				pos := ie.Position
				f.Position = &pos
			}
			out.Failure = f
		}
	}
	out.State = c.Snapshot()
	return out
}
