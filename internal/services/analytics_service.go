package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/questionnaire-analytics/internal/analytics"
	"github.com/SAP-F-2025/questionnaire-analytics/internal/cache"
	"github.com/SAP-F-2025/questionnaire-analytics/internal/events"
	"github.com/SAP-F-2025/questionnaire-analytics/internal/models"
	"github.com/SAP-F-2025/questionnaire-analytics/internal/repositories"
	"github.com/SAP-F-2025/questionnaire-analytics/internal/validator"
	"gorm.io/gorm"
)

// AnalyticsService serves the analytics views of a questionnaire to its owner
type AnalyticsService interface {
	GetQuestionnaireStatistics(ctx context.Context, questionnaireID uint, userID string) (*analytics.Statistics, error)
	GetResponseAnalytics(ctx context.Context, questionnaireID uint, userID string) (*analytics.ResponseAnalytics, error)
	GetSummary(ctx context.Context, questionnaireID uint, userID string) (*analytics.Summary, error)
	Export(ctx context.Context, questionnaireID uint, userID string, format string) (*ExportResult, error)

	// InvalidateQuestionnaire drops every cached view of the questionnaire
	InvalidateQuestionnaire(ctx context.Context, questionnaireID uint) error
}

type AnalyticsServiceConfig struct {
	CacheTTL time.Duration
}

type analyticsService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	publisher events.EventPublisher
	validator *validator.Validator
	logger    *slog.Logger
	opLogger  *ServiceLogger
	config    AnalyticsServiceConfig
}

// NewAnalyticsService builds the service. cache and publisher may be nil, in
// which case every view is computed fresh and no events are emitted.
func NewAnalyticsService(
	repo repositories.Repository,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	validator *validator.Validator,
	logger *slog.Logger,
	config AnalyticsServiceConfig,
) AnalyticsService {
	return &analyticsService{
		repo:      repo,
		cache:     cacheService,
		publisher: publisher,
		validator: validator,
		logger:    logger,
		opLogger: NewServiceLogger(logger, LogConfig{
			Service:       "analytics",
			Component:     "analytics_service",
			EnableMetrics: true,
		}),
		config: config,
	}
}

// ===== DATA STRUCTURES =====

type ExportResult struct {
	QuestionnaireID uint                   `json:"questionnaire_id"`
	Format          analytics.ExportFormat `json:"format"`
	Rows            []analytics.ExportRow  `json:"rows"`
	GeneratedAt     time.Time              `json:"generated_at"`
}

// ===== VIEWS =====

func (s *analyticsService) GetQuestionnaireStatistics(ctx context.Context, questionnaireID uint, userID string) (result *analytics.Statistics, err error) {
	start := time.Now()
	defer func() {
		s.opLogger.LogOperation(ctx, "get_questionnaire_statistics", userID, questionnaireID, time.Since(start), err)
	}()

	if err := s.authorize(ctx, questionnaireID, userID, "read_statistics"); err != nil {
		return nil, err
	}

	var stats analytics.Statistics
	key := cache.AnalyticsKey(questionnaireID, cache.ViewStatistics)
	if s.fromCache(ctx, key, &stats) {
		return &stats, nil
	}

	questionnaire, responses, err := s.loadSchemaAndSnapshot(ctx, questionnaireID)
	if err != nil {
		return nil, err
	}

	stats = analytics.BuildStatistics(questionnaire.Schema(), responses)
	s.toCache(ctx, key, stats)

	return &stats, nil
}

func (s *analyticsService) GetResponseAnalytics(ctx context.Context, questionnaireID uint, userID string) (result *analytics.ResponseAnalytics, err error) {
	start := time.Now()
	defer func() {
		s.opLogger.LogOperation(ctx, "get_response_analytics", userID, questionnaireID, time.Since(start), err)
	}()

	// the response view is schema-free, so a malformed schema does not block it
	if err := s.authorize(ctx, questionnaireID, userID, "read_analytics"); err != nil {
		return nil, err
	}

	var view analytics.ResponseAnalytics
	key := cache.AnalyticsKey(questionnaireID, cache.ViewAnalytics)
	if s.fromCache(ctx, key, &view) {
		return &view, nil
	}

	responses, err := s.loadSnapshot(ctx, nil, questionnaireID)
	if err != nil {
		return nil, err
	}

	view = analytics.BuildResponseAnalytics(responses)
	s.toCache(ctx, key, view)

	return &view, nil
}

func (s *analyticsService) GetSummary(ctx context.Context, questionnaireID uint, userID string) (result *analytics.Summary, err error) {
	start := time.Now()
	metrics := PerformanceMetrics{}
	defer func() {
		metrics.TotalDuration = time.Since(start)
		s.opLogger.LogOperation(ctx, "get_summary", userID, questionnaireID, metrics.TotalDuration, err)
		if err == nil {
			s.opLogger.LogPerformanceMetrics(ctx, "get_summary", metrics)
		}
	}()

	if err := s.authorize(ctx, questionnaireID, userID, "read_summary"); err != nil {
		return nil, err
	}

	var summary analytics.Summary
	key := cache.AnalyticsKey(questionnaireID, cache.ViewSummary)
	if s.fromCache(ctx, key, &summary) {
		metrics.CacheHit = true
		s.publishSummary(ctx, questionnaireID, userID, summary, true)
		return &summary, nil
	}

	dbStart := time.Now()
	questionnaire, responses, err := s.loadSchemaAndSnapshot(ctx, questionnaireID)
	if err != nil {
		return nil, err
	}
	metrics.DatabaseDuration = time.Since(dbStart)
	metrics.ResponsesLoaded = len(responses)

	computeStart := time.Now()
	summary = analytics.BuildSummary(questionnaire.Schema(), responses)
	metrics.ComputeDuration = time.Since(computeStart)

	s.toCache(ctx, key, summary)
	s.publishSummary(ctx, questionnaireID, userID, summary, false)

	return &summary, nil
}

func (s *analyticsService) Export(ctx context.Context, questionnaireID uint, userID string, format string) (result *ExportResult, err error) {
	start := time.Now()
	defer func() {
		s.opLogger.LogOperation(ctx, "export", userID, questionnaireID, time.Since(start), err)
	}()

	exportFormat, err := analytics.ParseExportFormat(format)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, questionnaireID, userID, "export"); err != nil {
		return nil, err
	}

	responses, err := s.loadSnapshot(ctx, nil, questionnaireID)
	if err != nil {
		return nil, err
	}

	rows, err := analytics.BuildExport(responses, string(exportFormat))
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewExportGeneratedEvent(events.ExportGeneratedEvent{
		QuestionnaireID: questionnaireID,
		RequestedBy:     userID,
		Format:          string(exportFormat),
		RowCount:        len(rows),
	}))

	return &ExportResult{
		QuestionnaireID: questionnaireID,
		Format:          exportFormat,
		Rows:            rows,
		GeneratedAt:     time.Now().UTC(),
	}, nil
}

func (s *analyticsService) InvalidateQuestionnaire(ctx context.Context, questionnaireID uint) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.DeletePattern(ctx, cache.QuestionnairePattern(questionnaireID)); err != nil {
		return fmt.Errorf("failed to invalidate analytics cache for questionnaire %d: %w", questionnaireID, err)
	}
	s.logger.Debug("Analytics cache invalidated", "questionnaire_id", questionnaireID)
	return nil
}

// ===== HELPERS =====

// authorize checks the caller owns the questionnaire
func (s *analyticsService) authorize(ctx context.Context, questionnaireID uint, userID string, action string) error {
	if userID == "" {
		return ErrUnauthorized
	}

	owned, err := s.repo.Questionnaire().IsOwner(ctx, nil, questionnaireID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrQuestionnaireNotFound
		}
		return fmt.Errorf("failed to check questionnaire owner: %w", err)
	}

	if !owned {
		permErr := NewPermissionError(userID, questionnaireID, "questionnaire", action, "not owner")
		s.opLogger.LogPermissionDenied(ctx, action, permErr)
		return permErr
	}

	return nil
}

// loadSchemaAndSnapshot reads the questionnaire and its responses in one
// transaction so the schema matches the snapshot it is applied to
func (s *analyticsService) loadSchemaAndSnapshot(ctx context.Context, questionnaireID uint) (*models.Questionnaire, []models.Response, error) {
	var (
		questionnaire *models.Questionnaire
		responses     []models.Response
	)

	err := s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		questionnaire, err = s.repo.Questionnaire().GetByID(ctx, tx, questionnaireID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrQuestionnaireNotFound
			}
			return fmt.Errorf("failed to get questionnaire: %w", err)
		}
		if err := s.validateSchema(questionnaire); err != nil {
			return err
		}

		responses, err = s.loadSnapshot(ctx, tx, questionnaireID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	return questionnaire, responses, nil
}

// validateSchema rejects stored schemas that break the question rules
func (s *analyticsService) validateSchema(questionnaire *models.Questionnaire) error {
	if s.validator == nil {
		return nil
	}
	err := s.validator.Questionnaire().ValidateQuestionnaire(questionnaire)
	if err == nil {
		return nil
	}

	var validationErrs ValidationErrors
	if errors.As(err, &validationErrs) {
		return NewBusinessRuleError("questionnaire_schema", "stored questionnaire schema is invalid", map[string]interface{}{
			"questionnaire_id": questionnaire.ID,
			"errors":           validationErrs,
		})
	}
	return err
}

func (s *analyticsService) loadSnapshot(ctx context.Context, tx *gorm.DB, questionnaireID uint) ([]models.Response, error) {
	responses, err := s.repo.Response().GetByQuestionnaire(ctx, tx, questionnaireID, repositories.ResponseFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to load responses: %w", err)
	}
	return responses, nil
}

func (s *analyticsService) fromCache(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	if err := s.cache.Get(ctx, key, dest); err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("Failed to read analytics cache", "key", key, "error", err)
		}
		return false
	}
	return true
}

func (s *analyticsService) toCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.config.CacheTTL); err != nil {
		s.logger.Warn("Failed to write analytics cache", "key", key, "error", err)
	}
}

func (s *analyticsService) publishSummary(ctx context.Context, questionnaireID uint, userID string, summary analytics.Summary, cached bool) {
	s.publish(ctx, events.NewSummaryGeneratedEvent(events.SummaryGeneratedEvent{
		QuestionnaireID:    questionnaireID,
		RequestedBy:        userID,
		TotalResponses:     summary.ResponseMetrics.TotalResponses,
		CompletedResponses: summary.ResponseMetrics.CompletedResponses,
		CompletionRate:     summary.ResponseMetrics.CompletionRate,
		Cached:             cached,
	}))
}

func (s *analyticsService) publish(ctx context.Context, event *events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish analytics event",
			"event_type", event.Type,
			"event_id", event.ID,
			"error", err)
	}
}
