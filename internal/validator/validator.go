package validator

import (
	"reflect"
	"strings"

	"github.com/SAP-F-2025/questionnaire-analytics/internal/analytics"
	apperrors "github.com/SAP-F-2025/questionnaire-analytics/internal/errors"
	"github.com/SAP-F-2025/questionnaire-analytics/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator combines struct tag validation with questionnaire schema rules
type Validator struct {
	structValidator        *validator.Validate
	questionnaireValidator *QuestionnaireValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	// Register all custom validators once
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:        structValidator,
		questionnaireValidator: NewQuestionnaireValidator(),
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate performs complete validation. Questionnaires additionally go
// through the schema rules once their tags pass.
func (v *Validator) Validate(s interface{}) error {
	if err := v.ValidateStruct(s); err != nil {
		if errs := apperrors.ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}

	if q, ok := s.(*models.Questionnaire); ok {
		if errs := v.questionnaireValidator.ValidateSchema(q.Questions); len(errs) > 0 {
			return errs
		}
	}

	return nil
}

// Questionnaire returns the questionnaire schema validator
func (v *Validator) Questionnaire() *QuestionnaireValidator {
	return v.questionnaireValidator
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_type", validateQuestionType)
	validate.RegisterValidation("export_format", validateExportFormat)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateQuestionType(fl validator.FieldLevel) bool {
	return models.QuestionType(fl.Field().String()).IsKnown()
}

func validateExportFormat(fl validator.FieldLevel) bool {
	_, err := analytics.ParseExportFormat(fl.Field().String())
	return err == nil
}
