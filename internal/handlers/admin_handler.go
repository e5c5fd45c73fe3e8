package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
	"github.com/SAP-F-2025/learning-service/internal/validator"
)

type AdminHandler struct {
	BaseHandler
	adminService  services.AdminService
	exportService services.ExportService
}

func NewAdminHandler(adminService services.AdminService, exportService services.ExportService, logger utils.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler:   NewBaseHandler(logger),
		adminService:  adminService,
		exportService: exportService,
	}
}

// ListUsers lists users with optional filtering
// @Summary List users
// @Tags admin
// @Produce json
// @Param role query string false "student, educator or admin"
// @Param active query bool false "Filter by active flag"
// @Param search query string false "Name or email"
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 10, max: 100)"
// @Success 200 {object} models.PaginatedResponse
// @Failure 400 {object} ErrorResponse "Bad request"
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var params services.UserListParams
	if !h.bindQuery(c, &params) {
		return
	}

	resp, err := h.adminService.ListUsers(c.Request.Context(), &params)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateRole changes a user's role; admins cannot change their own
// @Router /admin/users/{id}/role [put]
func (h *AdminHandler) UpdateRole(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.parseStringIDParam(c, "id")
	if !ok {
		return
	}
	var req validator.UpdateRoleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Updating user role", "target_user_id", id, "role", req.Role)

	user, err := h.adminService.UpdateRole(c.Request.Context(), actor, id, req.Role)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// @Router /admin/users/{id}/status [put]
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.parseStringIDParam(c, "id")
	if !ok {
		return
	}
	var req validator.UpdateUserStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if req.IsActive == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Validation failed", Details: "is_active is required"})
		return
	}

	user, err := h.adminService.UpdateStatus(c.Request.Context(), actor, id, *req.IsActive)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// @Router /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.parseStringIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.adminService.DeleteUser(c.Request.Context(), actor, id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "User deleted successfully"})
}

// @Router /admin/educators/{id}/verify [put]
func (h *AdminHandler) VerifyEducator(c *gin.Context) {
	id, ok := h.parseStringIDParam(c, "id")
	if !ok {
		return
	}
	verified := true
	if c.Request.ContentLength > 0 {
		var req validator.VerifyEducatorRequest
		if !h.bindJSON(c, &req) {
			return
		}
		if req.Verified != nil {
			verified = *req.Verified
		}
	}

	profile, err := h.adminService.VerifyEducator(c.Request.Context(), id, verified)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Stats returns platform totals
// @Summary Platform statistics
// @Tags admin
// @Produce json
// @Success 200 {object} models.AdminStats
// @Router /admin/stats [get]
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.adminService.Stats(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Activity lists the activity log, newest first
// @Router /admin/activity [get]
func (h *AdminHandler) Activity(c *gin.Context) {
	var params services.ActivityListParams
	if !h.bindQuery(c, &params) {
		return
	}

	resp, err := h.adminService.Activity(c.Request.Context(), &params)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExportEnrollments downloads every enrollment as xlsx
// @Router /admin/enrollments/export [get]
func (h *AdminHandler) ExportEnrollments(c *gin.Context) {
	file, err := h.exportService.AllEnrollments(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	writeExport(c, file)
}
