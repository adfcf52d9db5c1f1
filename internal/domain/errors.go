package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrRecordNotFound is returned by stores when a key has never been written.
	ErrRecordNotFound = errors.New("record not found")
	// ErrNoActiveSession is returned when a quiz action arrives with no quiz in progress.
	ErrNoActiveSession = errors.New("no quiz in progress")
	// ErrInvalidTransition indicates an action not allowed in the session's current state.
	ErrInvalidTransition = errors.New("action not allowed in current quiz state")
	// ErrEmptySession guards score computation against a session with no questions.
	ErrEmptySession = errors.New("session has no questions")
	// ErrClearNotConfirmed is returned when clear-all lacks either confirmation.
	ErrClearNotConfirmed = errors.New("clear all data requires two confirmations")
)

// ValidationError reports the first malformed field of a question.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// EmptyCategoryError is returned when starting a quiz whose filter matches nothing.
type EmptyCategoryError struct {
	Category string
}

func (e *EmptyCategoryError) Error() string {
	return fmt.Sprintf("no questions available in category %q", e.Category)
}

// OutOfRangeError reports an index outside a collection's bounds.
type OutOfRangeError struct {
	What  string
	Index int
	Len   int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s index %d out of range [0,%d)", e.What, e.Index, e.Len)
}

// ImportFormatError rejects an import payload. Position is -1 when the payload
// itself is malformed, otherwise the 0-based element index.
type ImportFormatError struct {
	Position int
	Message  string
}

func (e *ImportFormatError) Error() string {
	if e.Position < 0 {
		return "invalid import file: " + e.Message
	}
	return fmt.Sprintf("invalid import file: question %d: %s", e.Position+1, e.Message)
}

// PersistenceError wraps a store read or write failure.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Failure kinds reported to the presentation layer.
const (
	KindValidation      = "validation"
	KindEmptyCategory   = "empty_category"
	KindOutOfRange      = "out_of_range"
	KindImportFormat    = "import_format"
	KindPersistence     = "persistence"
	KindInvalidState    = "invalid_state"
	KindConfirmRequired = "confirmation_required"
	KindInternal        = "internal"
)

// Kind maps an error to its failure tag.
func Kind(err error) string {
	var (
		validation *ValidationError
		empty      *EmptyCategoryError
		outOfRange *OutOfRangeError
		importErr  *ImportFormatError
		persist    *PersistenceError
	)
	switch {
	case errors.As(err, &validation):
		return KindValidation
	case errors.As(err, &empty):
		return KindEmptyCategory
	case errors.As(err, &outOfRange):
		return KindOutOfRange
	case errors.As(err, &importErr):
		return KindImportFormat
	case errors.As(err, &persist):
		return KindPersistence
	case errors.Is(err, ErrNoActiveSession), errors.Is(err, ErrInvalidTransition):
		return KindInvalidState
	case errors.Is(err, ErrClearNotConfirmed):
		return KindConfirmRequired
	}
	return KindInternal
}
