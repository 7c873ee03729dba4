package validator

import (
	"errors"
	"reflect"
	"strings"

	apperrors "github.com/SAP-F-2025/interview-prep-service/internal/errors"
	"github.com/SAP-F-2025/interview-prep-service/internal/models"
	"github.com/go-playground/validator/v10"
)

type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// AnalyticsWindows are the trailing windows, in days, analytics accepts.
var AnalyticsWindows = []int{7, 30, 90}

// Validator combines struct tag validation with the question bank rules.
type Validator struct {
	structValidator   *validator.Validate
	questionValidator *QuestionValidator
}

func New() *Validator {
	structValidator := validator.New()
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:   structValidator,
		questionValidator: NewQuestionValidator(),
	}
}

// Validate checks struct tags and returns ValidationErrors on failure.
func (v *Validator) Validate(s interface{}) error {
	err := v.structValidator.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return apperrors.ToValidationErrors(fieldErrs)
	}
	return err
}

func (v *Validator) Question() *QuestionValidator {
	return v.questionValidator
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_kind", validateQuestionKind)
	validate.RegisterValidation("difficulty", validateDifficulty)
	validate.RegisterValidation("session_variant", validateSessionVariant)
	validate.RegisterValidation("completion_reason", validateCompletionReason)
	validate.RegisterValidation("analytics_window", validateAnalyticsWindow)

	// Report json field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateQuestionKind(fl validator.FieldLevel) bool {
	return models.QuestionKind(fl.Field().String()).IsValid()
}

func validateDifficulty(fl validator.FieldLevel) bool {
	return models.Difficulty(fl.Field().String()).IsValid()
}

func validateSessionVariant(fl validator.FieldLevel) bool {
	return models.SessionVariant(fl.Field().String()).IsValid()
}

func validateCompletionReason(fl validator.FieldLevel) bool {
	return models.CompletionReason(fl.Field().String()).IsValid()
}

func validateAnalyticsWindow(fl validator.FieldLevel) bool {
	days := int(fl.Field().Int())
	for _, w := range AnalyticsWindows {
		if w == days {
			return true
		}
	}
	return false
}
