package analytics

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SAP-F-2025/questionnaire-analytics/internal/models"
)

type ExportFormat string

const FormatJSON ExportFormat = "json"

var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseExportFormat accepts only the structured json format; an empty selector
// defaults to it.
func ParseExportFormat(format string) (ExportFormat, error) {
	normalized := strings.ToLower(strings.TrimSpace(format))
	switch normalized {
	case "", string(FormatJSON):
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

type ExportRow struct {
	ResponseID     uint           `json:"response_id"`
	UserID         uint           `json:"user_id"`
	StartedAt      *string        `json:"started_at"`
	SubmittedAt    *string        `json:"submitted_at"`
	CompletionTime *float64       `json:"completion_time"`
	Answers        models.Answers `json:"answers"`
}

// BuildExport flattens the snapshot into export rows. The format is checked
// before any row is produced.
func BuildExport(responses []models.Response, format string) ([]ExportRow, error) {
	if _, err := ParseExportFormat(format); err != nil {
		return nil, err
	}

	rows := make([]ExportRow, 0, len(responses))
	for i := range responses {
		r := &responses[i]
		answers := r.Answers
		if answers == nil {
			answers = models.Answers{}
		}
		rows = append(rows, ExportRow{
			ResponseID:     r.ID,
			UserID:         r.UserID,
			StartedAt:      formatTimestamp(r.StartedAt),
			SubmittedAt:    formatTimestamp(r.SubmittedAt),
			CompletionTime: r.CompletionTime,
			Answers:        answers,
		})
	}
	return rows, nil
}

func formatTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
