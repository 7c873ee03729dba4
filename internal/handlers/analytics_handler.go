package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/interview-prep-service/internal/services"
	"github.com/SAP-F-2025/interview-prep-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const defaultAnalyticsWindow = 30

type AnalyticsHandler struct {
	BaseHandler
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService services.AnalyticsService, logger utils.Logger, debug bool) *AnalyticsHandler {
	return &AnalyticsHandler{
		BaseHandler:      NewBaseHandler(logger, debug),
		analyticsService: analyticsService,
	}
}

// GetAnalytics returns the caller's dashboard for ?window=7|30|90
// @Router /analytics [get]
func (h *AnalyticsHandler) GetAnalytics(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	window, ok := getIntQuery(c, "window", defaultAnalyticsWindow)
	if !ok {
		return
	}

	report, err := h.analyticsService.GetAnalytics(h.ctx(c), userID, window)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
