package validator

import (
	"fmt"
	"strings"

	"github.com/SAP-F-2025/questionnaire-analytics/internal/errors"
	"github.com/SAP-F-2025/questionnaire-analytics/internal/models"
)

// QuestionnaireValidator checks the rules a question schema must satisfy
// before any analytics run against it.
type QuestionnaireValidator struct{}

func NewQuestionnaireValidator() *QuestionnaireValidator {
	return &QuestionnaireValidator{}
}

// ValidateSchema reports every rule violation in the question list:
//   - indices are non-negative and unique
//   - types are known
//   - choice-based questions declare non-empty, distinct options
//   - other questions declare no options
func (v *QuestionnaireValidator) ValidateSchema(questions []models.Question) errors.ValidationErrors {
	var errs errors.ValidationErrors

	if len(questions) == 0 {
		return append(errs, *errors.NewRuleError("questions", "required", nil))
	}

	seen := make(map[int]bool, len(questions))
	for i, q := range questions {
		field := fmt.Sprintf("questions[%d]", i)

		if q.Index < 0 {
			errs = append(errs, *errors.NewValidationErrorWithRule(field+".index", errors.RuleMessage("min", "0"), "min", q.Index))
		} else if seen[q.Index] {
			errs = append(errs, *errors.NewRuleError(field+".index", "unique_index", q.Index))
		}
		seen[q.Index] = true

		if strings.TrimSpace(q.Text) == "" {
			errs = append(errs, *errors.NewRuleError(field+".text", "required", q.Text))
		}

		if !q.Type.IsKnown() {
			errs = append(errs, *errors.NewRuleError(field+".type", "question_type", string(q.Type)))
			continue
		}

		errs = append(errs, v.validateOptions(field, q)...)
	}

	return errs
}

// ValidateQuestionnaire validates the schema of a stored questionnaire
func (v *QuestionnaireValidator) ValidateQuestionnaire(q *models.Questionnaire) error {
	if q == nil {
		return fmt.Errorf("questionnaire cannot be nil")
	}
	if strings.TrimSpace(q.Title) == "" || len(q.Title) > 200 {
		return errors.ValidationErrors{*errors.NewRuleError("title", "questionnaire_title", q.Title)}
	}
	if errs := v.ValidateSchema(q.Questions); len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *QuestionnaireValidator) validateOptions(field string, q models.Question) errors.ValidationErrors {
	var errs errors.ValidationErrors

	if !q.Type.IsChoiceBased() {
		if len(q.Options) > 0 {
			errs = append(errs, *errors.NewRuleError(field+".options", "options_forbidden", q.Options))
		}
		return errs
	}

	if len(q.Options) == 0 {
		return append(errs, *errors.NewRuleError(field+".options", "options_required", nil))
	}

	seen := make(map[string]bool, len(q.Options))
	for j, option := range q.Options {
		optionField := fmt.Sprintf("%s.options[%d]", field, j)
		if strings.TrimSpace(option) == "" {
			errs = append(errs, *errors.NewRuleError(optionField, "required", option))
			continue
		}
		if seen[option] {
			errs = append(errs, *errors.NewRuleError(optionField, "unique_option", option))
		}
		seen[option] = true
	}

	return errs
}
