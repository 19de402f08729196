package services

import (
	"context"
	"log/slog"

	"github.com/SAP-F-2025/questionnaire-analytics/internal/events"
)

// CacheInvalidator drops cached analytics when a new response arrives for a
// questionnaire. Its Handle method plugs into events.ResponseConsumer.
type CacheInvalidator struct {
	analytics AnalyticsService
	logger    *slog.Logger
}

func NewCacheInvalidator(analytics AnalyticsService, logger *slog.Logger) *CacheInvalidator {
	return &CacheInvalidator{
		analytics: analytics,
		logger:    logger,
	}
}

func (c *CacheInvalidator) Handle(ctx context.Context, event *events.ResponseSubmittedEvent) error {
	if err := c.analytics.InvalidateQuestionnaire(ctx, event.QuestionnaireID); err != nil {
		return err
	}

	c.logger.Info("Invalidated analytics after response submission",
		"questionnaire_id", event.QuestionnaireID,
		"response_id", event.ResponseID)
	return nil
}
