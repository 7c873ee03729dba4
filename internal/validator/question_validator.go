package validator

import (
	"fmt"
	"strings"

	"github.com/SAP-F-2025/interview-prep-service/internal/models"
)

const (
	MinPoints        = 1
	MaxPoints        = 100
	MinTimeAllocated = 30
	MaxTimeAllocated = 3600
	MaxOptions       = 10
)

// QuestionValidator checks the question bank invariants: closed-form kinds
// carry a well-typed correct answer and no keywords, free-text kinds carry
// keywords and no correct answer.
type QuestionValidator struct{}

func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateQuestion collects every rule the question breaks.
func (v *QuestionValidator) ValidateQuestion(q *models.Question) error {
	var errs ValidationErrors
	add := func(field, rule, msg string, value interface{}) {
		errs = append(errs, ValidationError{Field: field, Message: msg, Value: value, Rule: rule})
	}

	if strings.TrimSpace(q.Prompt) == "" {
		add("prompt", "required", "is required", nil)
	}
	if strings.TrimSpace(q.Category) == "" {
		add("category", "required", "is required", nil)
	}
	if !q.Difficulty.IsValid() {
		add("difficulty", "difficulty", "must be beginner, intermediate or advanced", q.Difficulty)
	}
	if q.Points < MinPoints || q.Points > MaxPoints {
		add("points", "points_range", fmt.Sprintf("must be between %d and %d", MinPoints, MaxPoints), q.Points)
	}
	if q.TimeAllocated < MinTimeAllocated || q.TimeAllocated > MaxTimeAllocated {
		add("time_allocated", "time_allocation",
			fmt.Sprintf("must be between %d and %d seconds", MinTimeAllocated, MaxTimeAllocated), q.TimeAllocated)
	}

	switch {
	case q.Kind.IsClosedForm():
		errs = append(errs, v.validateClosedForm(q)...)
	case q.Kind.IsFreeText():
		errs = append(errs, v.validateFreeText(q)...)
	default:
		add("kind", "question_kind", "unsupported question kind", q.Kind)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *QuestionValidator) validateClosedForm(q *models.Question) ValidationErrors {
	var errs ValidationErrors
	if len(q.ExpectedKeywords) > 0 {
		errs = append(errs, ValidationError{Field: "expected_keywords", Rule: "excluded", Message: "is only allowed for free-text questions"})
	}
	if !q.Kind.HasOptions() && len(q.Options) > 0 {
		errs = append(errs, ValidationError{Field: "options", Rule: "excluded", Message: fmt.Sprintf("are not allowed for %s questions", q.Kind)})
	}
	if q.CorrectAnswer == nil || strings.TrimSpace(*q.CorrectAnswer) == "" {
		return append(errs, ValidationError{Field: "correct_answer", Rule: "required", Message: "is required for closed-form questions"})
	}

	answer := normalize(*q.CorrectAnswer)
	switch q.Kind {
	case models.KindTrueFalse:
		if answer != "true" && answer != "false" {
			errs = append(errs, ValidationError{Field: "correct_answer", Rule: "boolean", Message: "must be true or false", Value: *q.CorrectAnswer})
		}
	case models.KindMultipleChoice:
		errs = append(errs, validateOptions(q.Options, answer)...)
	}
	return errs
}

func validateOptions(options []string, answer string) ValidationErrors {
	var errs ValidationErrors
	if len(options) < 2 || len(options) > MaxOptions {
		errs = append(errs, ValidationError{
			Field:   "options",
			Rule:    "options_count",
			Message: fmt.Sprintf("must have between 2 and %d options", MaxOptions),
			Value:   len(options),
		})
	}

	seen := make(map[string]bool, len(options))
	for _, opt := range options {
		n := normalize(opt)
		if n == "" {
			errs = append(errs, ValidationError{Field: "options", Rule: "required", Message: "option text cannot be empty"})
			continue
		}
		if seen[n] {
			errs = append(errs, ValidationError{Field: "options", Rule: "unique", Message: "options must be unique", Value: opt})
		}
		seen[n] = true
	}
	if len(options) > 0 && !seen[answer] {
		errs = append(errs, ValidationError{Field: "correct_answer", Rule: "oneof", Message: "must match one of the options", Value: answer})
	}
	return errs
}

func (v *QuestionValidator) validateFreeText(q *models.Question) ValidationErrors {
	var errs ValidationErrors
	if q.CorrectAnswer != nil {
		errs = append(errs, ValidationError{Field: "correct_answer", Rule: "excluded", Message: "is only allowed for closed-form questions"})
	}
	if len(q.Options) > 0 {
		errs = append(errs, ValidationError{Field: "options", Rule: "excluded", Message: "are only allowed for choice questions"})
	}
	if len(q.ExpectedKeywords) == 0 {
		errs = append(errs, ValidationError{Field: "expected_keywords", Rule: "required", Message: "is required for free-text questions"})
	}
	for _, kw := range q.ExpectedKeywords {
		if strings.TrimSpace(kw) == "" {
			errs = append(errs, ValidationError{Field: "expected_keywords", Rule: "required", Message: "keywords cannot be empty"})
			break
		}
	}
	return errs
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
