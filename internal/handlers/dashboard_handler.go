package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
)

type DashboardHandler struct {
	BaseHandler
	service services.DashboardService
}

func NewDashboardHandler(service services.DashboardService, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== DASHBOARD ENDPOINTS =====

// StudentDashboard returns enrollment counts, progress, recent activity and mood streak
// @Summary Student dashboard
// @Tags dashboard
// @Produce json
// @Success 200 {object} models.StudentDashboard
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /students/me/dashboard [get]
func (h *DashboardHandler) StudentDashboard(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Getting student dashboard")

	dashboard, err := h.service.Student(c.Request.Context(), actor.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// EducatorDashboard returns course totals, average rating and enrollments per course
// @Summary Educator dashboard
// @Tags dashboard
// @Produce json
// @Success 200 {object} models.EducatorDashboard
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /educator/dashboard [get]
func (h *DashboardHandler) EducatorDashboard(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Getting educator dashboard")

	dashboard, err := h.service.Educator(c.Request.Context(), actor.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}
