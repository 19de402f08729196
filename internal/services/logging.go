package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ServiceLogger provides structured logging for service layer operations
type ServiceLogger struct {
	logger *slog.Logger
	config LogConfig
}

type LogConfig struct {
	Service       string
	Component     string
	EnableMetrics bool
}

func NewServiceLogger(logger *slog.Logger, config LogConfig) *ServiceLogger {
	return &ServiceLogger{
		logger: logger.With("service", config.Service, "component", config.Component),
		config: config,
	}
}

// ===== OPERATION LOGGING =====

// LogOperation records one service call. Expected failures (validation,
// permission, not found) log below error level.
func (l *ServiceLogger) LogOperation(ctx context.Context, operation string, userID string, questionnaireID uint, duration time.Duration, err error) {
	level := slog.LevelInfo
	status := "success"

	if err != nil {
		level = slog.LevelError
		status = "error"

		switch {
		case IsValidation(err) || IsBusinessRule(err):
			level = slog.LevelWarn
			status = "validation_error"
		case IsUnauthorized(err):
			level = slog.LevelWarn
			status = "unauthorized"
		case IsNotFound(err):
			status = "not_found"
		}
	}

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("user_id", userID),
		slog.Uint64("questionnaire_id", uint64(questionnaireID)),
		slog.String("status", status),
		slog.Duration("duration", duration),
	}

	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))

		var validationErrs ValidationErrors
		var businessErr *BusinessRuleError
		var permErr *PermissionError
		switch {
		case errors.As(err, &validationErrs):
			attrs = append(attrs, slog.Int("validation_errors_count", len(validationErrs)))
		case errors.As(err, &businessErr):
			attrs = append(attrs, slog.String("business_rule", businessErr.Rule))
		case errors.As(err, &permErr):
			attrs = append(attrs, slog.String("permission_action", permErr.Action))
		}
	}

	l.logger.LogAttrs(ctx, level, fmt.Sprintf("%s operation %s", operation, status), attrs...)
}

func (l *ServiceLogger) LogPermissionDenied(ctx context.Context, operation string, permError *PermissionError) {
	l.logger.LogAttrs(ctx, slog.LevelWarn, "Permission denied",
		slog.String("operation", operation),
		slog.String("user_id", permError.UserID),
		slog.Uint64("resource_id", uint64(permError.ResourceID)),
		slog.String("resource_type", permError.Resource),
		slog.String("action", permError.Action),
		slog.String("reason", permError.Reason),
	)
}

// ===== PERFORMANCE LOGGING =====

type PerformanceMetrics struct {
	TotalDuration    time.Duration `json:"total_duration"`
	DatabaseDuration time.Duration `json:"database_duration"`
	ComputeDuration  time.Duration `json:"compute_duration"`
	ResponsesLoaded  int           `json:"responses_loaded"`
	CacheHit         bool          `json:"cache_hit"`
}

func (l *ServiceLogger) LogPerformanceMetrics(ctx context.Context, operation string, metrics PerformanceMetrics) {
	if !l.config.EnableMetrics {
		return
	}

	l.logger.LogAttrs(ctx, slog.LevelDebug, "Performance metrics",
		slog.String("operation", operation),
		slog.Duration("total_duration", metrics.TotalDuration),
		slog.Duration("db_duration", metrics.DatabaseDuration),
		slog.Duration("compute_duration", metrics.ComputeDuration),
		slog.Int("responses_loaded", metrics.ResponsesLoaded),
		slog.Bool("cache_hit", metrics.CacheHit),
	)
}
