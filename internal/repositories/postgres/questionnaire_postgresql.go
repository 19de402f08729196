package postgres

import (
	"context"

	"github.com/SAP-F-2025/questionnaire-analytics/internal/models"
	"github.com/SAP-F-2025/questionnaire-analytics/internal/repositories"
	"gorm.io/gorm"
)

type QuestionnairePostgreSQL struct {
	db *gorm.DB
}

func NewQuestionnairePostgreSQL(db *gorm.DB) repositories.QuestionnaireRepository {
	return &QuestionnairePostgreSQL{db: db}
}

func (q *QuestionnairePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Questionnaire, error) {
	var questionnaire models.Questionnaire
	if err := getDB(q.db, tx).WithContext(ctx).First(&questionnaire, id).Error; err != nil {
		return nil, mapError(err, "questionnaire %d", id)
	}
	return &questionnaire, nil
}

// IsOwner checks if a user is the owner of a questionnaire
func (q *QuestionnairePostgreSQL) IsOwner(ctx context.Context, tx *gorm.DB, questionnaireID uint, userID string) (bool, error) {
	var questionnaire models.Questionnaire
	err := getDB(q.db, tx).WithContext(ctx).
		Select("id", "created_by").
		First(&questionnaire, questionnaireID).Error
	if err != nil {
		return false, mapError(err, "questionnaire %d", questionnaireID)
	}
	return questionnaire.CreatedBy == userID, nil
}
