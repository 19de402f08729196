package handlers

import (
	"net/http"
	"time"

	"github.com/SAP-F-2025/questionnaire-analytics/internal/services"
	"github.com/SAP-F-2025/questionnaire-analytics/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	analyticsHandler *AnalyticsHandler
	auth             gin.HandlerFunc
}

// NewHandlerManager wires every handler. auth guards the /api/v1 group.
func NewHandlerManager(
	serviceManager services.ServiceManager,
	auth gin.HandlerFunc,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		analyticsHandler: NewAnalyticsHandler(serviceManager.Analytics(), logger),
		auth:             auth,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	if hm.auth != nil {
		v1.Use(hm.auth)
	}
	{
		questionnaires := v1.Group("/questionnaires")
		{
			questionnaires.GET("/:id/statistics", hm.analyticsHandler.GetQuestionnaireStatistics)
		}

		responses := v1.Group("/responses")
		{
			responses.GET("/questionnaire/:id/analytics", hm.analyticsHandler.GetResponseAnalytics)
		}

		analytics := v1.Group("/analytics")
		{
			analytics.GET("/questionnaire/:id/summary", hm.analyticsHandler.GetSummary)
			analytics.GET("/questionnaire/:id/export", hm.analyticsHandler.Export)
		}
	}
}

// NewRouter builds the gin engine with the logging middleware stack
func NewRouter(hm *HandlerManager, logger utils.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))
	router.Use(utils.ContextLogger(logger))

	hm.SetupRoutes(router)
	return router
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"service":   "questionnaire-analytics",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
