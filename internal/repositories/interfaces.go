package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/SAP-F-2025/questionnaire-analytics/internal/models"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("record not found")

// ===== SHARED FILTER STRUCTS =====

type ResponseFilters struct {
	SubmittedOnly bool       `json:"submitted_only"`
	StartedFrom   *time.Time `json:"started_from"`
	StartedTo     *time.Time `json:"started_to"`
	Limit         int        `json:"limit"`
	Offset        int        `json:"offset"`
}

// ===== REPOSITORIES =====

// Every method accepts an optional transaction; a nil tx runs on the
// repository's own connection.

type QuestionnaireRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Questionnaire, error)

	// IsOwner reports whether userID created the questionnaire. A missing
	// questionnaire is ErrNotFound.
	IsOwner(ctx context.Context, tx *gorm.DB, questionnaireID uint, userID string) (bool, error)
}

type ResponseRepository interface {
	// GetByQuestionnaire returns the snapshot of a questionnaire's responses ordered by id
	GetByQuestionnaire(ctx context.Context, tx *gorm.DB, questionnaireID uint, filters ResponseFilters) ([]models.Response, error)
}

// Repository aggregates every repository behind one connection
type Repository interface {
	Questionnaire() QuestionnaireRepository
	Response() ResponseRepository
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}
