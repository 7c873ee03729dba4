package errors

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

func (pe *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", pe.Field, pe.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// NewValidationErrorWithRule creates a new validation error with rule
func NewValidationErrorWithRule(field, message, rule string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
		Rule:    rule,
	}
}

// ToValidationErrors converts validator.ValidationErrors to our custom type.
// Errors that already are ValidationErrors pass through.
func ToValidationErrors(err error) ValidationErrors {
	var out ValidationErrors

	var own ValidationErrors
	if errors.As(err, &own) {
		return own
	}

	var validatorErr validator.ValidationErrors
	if errors.As(err, &validatorErr) {
		for _, fe := range validatorErr {
			out = append(out, ValidationError{
				Field:   fe.Field(),
				Message: getErrorMessage(fe),
				Value:   fe.Value(),
				Rule:    fe.Tag(),
			})
		}
	}

	return out
}

// getErrorMessage returns user-friendly error messages
func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", err.Param())
	case "uuid":
		return "must be a valid UUID"

	// Custom validators
	case "question_kind":
		return "must be a valid question kind (behavioral, technical, situational, system-design, essay, multiple-choice, true-false, fill-blank, coding)"
	case "difficulty":
		return "must be beginner, intermediate or advanced"
	case "session_variant":
		return "must be interview or test"
	case "completion_reason":
		return "must be completed, abandoned or timeout"
	case "analytics_window":
		return "must be 7, 30 or 90"
	case "points_range":
		return "must be between 1 and 100"
	case "time_allocation":
		return "must be between 30 and 3600 seconds"

	default:
		return fmt.Sprintf("validation failed for rule '%s'", err.Tag())
	}
}
