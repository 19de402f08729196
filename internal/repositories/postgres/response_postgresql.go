package postgres

import (
	"context"

	"github.com/SAP-F-2025/questionnaire-analytics/internal/models"
	"github.com/SAP-F-2025/questionnaire-analytics/internal/repositories"
	"gorm.io/gorm"
)

type ResponsePostgreSQL struct {
	db *gorm.DB
}

func NewResponsePostgreSQL(db *gorm.DB) repositories.ResponseRepository {
	return &ResponsePostgreSQL{db: db}
}

func (r *ResponsePostgreSQL) GetByQuestionnaire(ctx context.Context, tx *gorm.DB, questionnaireID uint, filters repositories.ResponseFilters) ([]models.Response, error) {
	query := getDB(r.db, tx).WithContext(ctx).
		Where("questionnaire_id = ?", questionnaireID)

	if filters.SubmittedOnly {
		query = query.Where("submitted_at IS NOT NULL")
	}
	if filters.StartedFrom != nil {
		query = query.Where("started_at >= ?", *filters.StartedFrom)
	}
	if filters.StartedTo != nil {
		query = query.Where("started_at < ?", *filters.StartedTo)
	}

	var responses []models.Response
	if err := paginate(query.Order("id ASC"), filters.Limit, filters.Offset).Find(&responses).Error; err != nil {
		return nil, mapError(err, "failed to load responses for questionnaire %d", questionnaireID)
	}
	return responses, nil
}
