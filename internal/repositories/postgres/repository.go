package postgres

import (
	"context"

	"github.com/SAP-F-2025/questionnaire-analytics/internal/repositories"
	"gorm.io/gorm"
)

type Repository struct {
	db            *gorm.DB
	questionnaire repositories.QuestionnaireRepository
	response      repositories.ResponseRepository
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &Repository{
		db:            db,
		questionnaire: NewQuestionnairePostgreSQL(db),
		response:      NewResponsePostgreSQL(db),
	}
}

func (r *Repository) Questionnaire() repositories.QuestionnaireRepository {
	return r.questionnaire
}

func (r *Repository) Response() repositories.ResponseRepository {
	return r.response
}

// WithTransaction runs fn inside a database transaction; pass tx to repository calls
func (r *Repository) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}
