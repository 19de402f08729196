package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/questionnaire-analytics/internal/services"
	"github.com/SAP-F-2025/questionnaire-analytics/internal/utils"
	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	BaseHandler
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService services.AnalyticsService, logger utils.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		BaseHandler:      NewBaseHandler(logger),
		analyticsService: analyticsService,
	}
}

// GetQuestionnaireStatistics returns the schema-bound statistics of a questionnaire
// @Summary Get questionnaire statistics
// @Tags analytics
// @Produce json
// @Param id path uint true "Questionnaire ID"
// @Success 200 {object} analytics.Statistics
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /questionnaires/{id}/statistics [get]
func (h *AnalyticsHandler) GetQuestionnaireStatistics(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Getting questionnaire statistics", "questionnaire_id", id)

	stats, err := h.analyticsService.GetQuestionnaireStatistics(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetResponseAnalytics returns the schema-free response analytics
// @Summary Get response analytics
// @Tags analytics
// @Produce json
// @Param id path uint true "Questionnaire ID"
// @Success 200 {object} analytics.ResponseAnalytics
// @Router /responses/questionnaire/{id}/analytics [get]
func (h *AnalyticsHandler) GetResponseAnalytics(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Getting response analytics", "questionnaire_id", id)

	view, err := h.analyticsService.GetResponseAnalytics(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetSummary returns the operator summary of a questionnaire
// @Summary Get summary statistics
// @Tags analytics
// @Produce json
// @Param id path uint true "Questionnaire ID"
// @Success 200 {object} analytics.Summary
// @Router /analytics/questionnaire/{id}/summary [get]
func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Getting questionnaire summary", "questionnaire_id", id)

	summary, err := h.analyticsService.GetSummary(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	if summary.IsEmpty() {
		c.JSON(http.StatusOK, EmptyResponse{Message: "No responses available"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Export returns the flattened response rows
// @Summary Export questionnaire responses
// @Tags analytics
// @Produce json
// @Param id path uint true "Questionnaire ID"
// @Param format query string false "Export format (json)"
// @Success 200 {array} analytics.ExportRow
// @Failure 400 {object} ErrorResponse
// @Router /analytics/questionnaire/{id}/export [get]
func (h *AnalyticsHandler) Export(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	format := c.DefaultQuery("format", "json")
	h.LogRequest(c, "Exporting questionnaire responses", "questionnaire_id", id, "format", format)

	result, err := h.analyticsService.Export(c.Request.Context(), id, userID, format)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	if len(result.Rows) == 0 {
		c.JSON(http.StatusOK, EmptyResponse{Message: "No data to export"})
		return
	}

	c.Header("Content-Disposition", "inline; filename=\"questionnaire-responses.json\"")
	c.JSON(http.StatusOK, result.Rows)
}

func (h *AnalyticsHandler) requireUser(c *gin.Context) (string, bool) {
	userID := getUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return "", false
	}
	return userID, true
}
