package app

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"cgf-quiz/internal/domain"
	"github.com/go-playground/validator/v10"
)

var inputValidator = newInputValidator()

func newInputValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// normalizeInput trims every field and drops blank answers, as the admin form
// does. Correct is remapped to its position among the kept answers; blank
// reports whether it pointed at a dropped one.
func normalizeInput(in domain.QuestionInput) (out domain.QuestionInput, blank bool) {
	out = domain.QuestionInput{
		Text:     strings.TrimSpace(in.Text),
		Category: strings.TrimSpace(in.Category),
		Correct:  in.Correct,
	}
	for i, a := range in.Answers {
		selected := in.Correct != nil && *in.Correct == i
		if a = strings.TrimSpace(a); a == "" {
			blank = blank || selected
			continue
		}
		if selected {
			pos := len(out.Answers)
			out.Correct = &pos
		}
		out.Answers = append(out.Answers, a)
	}
	return out, blank
}

// validateInput returns the first violation in field order, or nil. blank
// means the selected answer was empty.
func validateInput(in domain.QuestionInput, blank bool) error {
	if err := inputValidator.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return domain.NewValidationError(fe.Field(), fieldMessage(fe), fe.Value())
		}
		return err
	}
	if blank {
		return domain.NewValidationError("correct", "the selected answer is empty", *in.Correct)
	}
	if *in.Correct >= len(in.Answers) {
		return domain.NewValidationError("correct", fmt.Sprintf("must be less than %d", len(in.Answers)), *in.Correct)
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if fe.Field() == "correct" {
			return "a correct answer must be selected"
		}
		return "is required"
	case "min":
		return fmt.Sprintf("must have at least %s non-empty answers", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	default:
		return fmt.Sprintf("validation failed for rule '%s'", fe.Tag())
	}
}

// candidateQuestion checks one import element and converts it to a question
// with no id assigned.
func candidateQuestion(pos int, c domain.ImportCandidate) (domain.Question, error) {
	switch {
	case strings.TrimSpace(c.Text) == "":
		return domain.Question{}, &domain.ImportFormatError{Position: pos, Message: "text is required"}
	case c.Answers == nil:
		return domain.Question{}, &domain.ImportFormatError{Position: pos, Message: "answers must be an array"}
	case c.Correct == nil:
		return domain.Question{}, &domain.ImportFormatError{Position: pos, Message: "correct must be a number"}
	}
	category := strings.TrimSpace(c.Category)
	if category == "" {
		category = domain.DefaultImportCategory
	}
	q := domain.Question{
		Text:     strings.TrimSpace(c.Text),
		Answers:  append([]string(nil), (*c.Answers)...),
		Correct:  *c.Correct,
		Category: category,
	}
	if err := q.Validate(); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return domain.Question{}, &domain.ImportFormatError{Position: pos, Message: ve.Field + " " + ve.Message}
		}
		return domain.Question{}, &domain.ImportFormatError{Position: pos, Message: err.Error()}
	}
	return q, nil
}
