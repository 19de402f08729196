package services

import (
	"log/slog"

	"github.com/SAP-F-2025/questionnaire-analytics/internal/cache"
	"github.com/SAP-F-2025/questionnaire-analytics/internal/events"
	"github.com/SAP-F-2025/questionnaire-analytics/internal/repositories"
	"github.com/SAP-F-2025/questionnaire-analytics/internal/validator"
)

// ServiceManager exposes every service to the transport layer
type ServiceManager interface {
	Analytics() AnalyticsService
	CacheInvalidator() *CacheInvalidator
}

type ServiceDependencies struct {
	Repository repositories.Repository
	Cache      cache.CacheService
	Publisher  events.EventPublisher
	Validator  *validator.Validator
	Logger     *slog.Logger
	Analytics  AnalyticsServiceConfig
}

type serviceManager struct {
	analytics        AnalyticsService
	cacheInvalidator *CacheInvalidator
}

func NewServiceManager(deps ServiceDependencies) ServiceManager {
	analyticsService := NewAnalyticsService(
		deps.Repository,
		deps.Cache,
		deps.Publisher,
		deps.Validator,
		deps.Logger,
		deps.Analytics,
	)

	return &serviceManager{
		analytics:        analyticsService,
		cacheInvalidator: NewCacheInvalidator(analyticsService, deps.Logger),
	}
}

func (sm *serviceManager) Analytics() AnalyticsService {
	return sm.analytics
}

func (sm *serviceManager) CacheInvalidator() *CacheInvalidator {
	return sm.cacheInvalidator
}
