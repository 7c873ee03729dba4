package services

import (
	"errors"

	apperrors "github.com/SAP-F-2025/interview-prep-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	ErrValidationFailed = errors.New("validation failed")

	// Not found
	ErrSessionNotFound      = errors.New("session not found")
	ErrQuestionNotFound     = errors.New("question not found")
	ErrNoQuestionsAvailable = errors.New("no questions available for category and difficulty")
	ErrUserNotFound         = errors.New("user not found")

	// Invalid state
	ErrSessionNotActive        = errors.New("session is not in progress")
	ErrSessionAlreadyTerminal  = errors.New("session already reached a terminal status")
	ErrInvalidCompletionReason = errors.New("completion reason is not allowed for this session")

	ErrRateLimited = errors.New("too many requests")
)

type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

// ===== ERROR HELPERS =====

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrNoQuestionsAvailable) ||
		errors.Is(err, ErrUserNotFound)
}

// IsInvalidState checks if the operation does not fit the session status
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrSessionNotActive) ||
		errors.Is(err, ErrSessionAlreadyTerminal) ||
		errors.Is(err, ErrInvalidCompletionReason)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	var ve apperrors.ValidationErrors
	if errors.As(err, &ve) {
		return true
	}
	var single *apperrors.ValidationError
	return errors.As(err, &single)
}

// ReasonCode maps an error to the stable code returned to callers.
func ReasonCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSessionNotFound):
		return "session_not_found"
	case errors.Is(err, ErrQuestionNotFound):
		return "question_not_found"
	case errors.Is(err, ErrNoQuestionsAvailable):
		return "no_questions_available"
	case errors.Is(err, ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, ErrSessionNotActive):
		return "session_not_active"
	case errors.Is(err, ErrSessionAlreadyTerminal):
		return "session_already_terminal"
	case errors.Is(err, ErrInvalidCompletionReason):
		return "invalid_completion_reason"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case IsValidation(err):
		return "validation_failed"
	default:
		return "internal_error"
	}
}
