package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learning-service/internal/ai"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
	"github.com/SAP-F-2025/learning-service/internal/validator"
)

type ErrorResponse = models.ErrorResponse
type SuccessResponse = models.SuccessResponse

// Context keys set by the auth middleware
const (
	ctxUserID   = "user_id"
	ctxUserRole = "user_role"
)

// BaseHandler carries what every handler needs: a logger and the shared
// request helpers
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.GetLogger(c, h.logger).Debug(msg, args...)
}

func (h BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	utils.GetLogger(c, h.logger).ErrorErr(msg, err, args...)
}

// actor returns the authenticated caller; it writes a 401 when there is none
func (h BaseHandler) actor(c *gin.Context) (services.Actor, bool) {
	a, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return services.Actor{}, false
	}
	return a, true
}

// optionalActor returns the caller when the optional auth middleware found one
func (h BaseHandler) optionalActor(c *gin.Context) *services.Actor {
	if a, ok := actorFromContext(c); ok {
		return &a
	}
	return nil
}

func actorFromContext(c *gin.Context) (services.Actor, bool) {
	userID := c.GetString(ctxUserID)
	if userID == "" {
		return services.Actor{}, false
	}
	role, _ := c.Get(ctxUserRole)
	r, _ := role.(models.UserRole)
	return services.Actor{UserID: userID, Role: r}, true
}

func (h BaseHandler) parseIDParam(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "must be a positive integer",
		})
		return 0, false
	}
	return uint(id), true
}

func (h BaseHandler) parseStringIDParam(c *gin.Context, param string) (string, bool) {
	id := strings.TrimSpace(c.Param(param))
	if id == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "ID cannot be empty",
		})
		return "", false
	}
	return id, true
}

func (h BaseHandler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return false
	}
	return true
}

func (h BaseHandler) bindQuery(c *gin.Context, params any) bool {
	if err := c.ShouldBindQuery(params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid query parameters",
			Details: err.Error(),
		})
		return false
	}
	return true
}

func (h BaseHandler) pageParams(c *gin.Context) (models.PageParams, bool) {
	var p models.PageParams
	if !h.bindQuery(c, &p) {
		return p, false
	}
	return p.Normalize(), true
}

// handleServiceError maps service errors onto HTTP responses. Anything
// unrecognised is attached to the context for ErrorMiddleware.
func (h BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	var businessRuleError *services.BusinessRuleError
	if errors.As(err, &businessRuleError) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: businessRuleError.Message,
			Details: map[string]interface{}{
				"rule":    businessRuleError.Rule,
				"context": businessRuleError.Context,
			},
		})
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied",
			Details: map[string]interface{}{
				"resource": permissionError.Resource,
				"action":   permissionError.Action,
				"reason":   permissionError.Reason,
			},
		})
		return
	}

	if status, ok := statusFor(err); ok {
		if status >= http.StatusInternalServerError {
			h.LogError(c, err, "Upstream dependency failed")
		}
		c.JSON(status, ErrorResponse{Message: publicMessage(err)})
		return
	}

	_ = c.Error(err)
}

var errorStatuses = []struct {
	err    error
	status int
}{
	{services.ErrUserNotFound, http.StatusNotFound},
	{services.ErrProfileNotFound, http.StatusNotFound},
	{services.ErrCourseNotFound, http.StatusNotFound},
	{services.ErrEnrollmentNotFound, http.StatusNotFound},
	{services.ErrReviewNotFound, http.StatusNotFound},
	{services.ErrMoodNotFound, http.StatusNotFound},
	{services.ErrDiscussionNotFound, http.StatusNotFound},
	{services.ErrSessionNotFound, http.StatusNotFound},

	{services.ErrEmailTaken, http.StatusConflict},
	{services.ErrAlreadyEnrolled, http.StatusConflict},
	{services.ErrAlreadyReviewed, http.StatusConflict},
	{services.ErrMoodAlreadyLogged, http.StatusConflict},
	{services.ErrCourseHasEnrollments, http.StatusConflict},

	{services.ErrInvalidCredentials, http.StatusUnauthorized},
	{services.ErrUnauthenticated, http.StatusUnauthorized},
	{services.ErrAccountInactive, http.StatusForbidden},
	{services.ErrInvalidResetToken, http.StatusBadRequest},

	{services.ErrLessonNotFound, http.StatusBadRequest},
	{services.ErrInvalidDateRange, http.StatusBadRequest},

	{ai.ErrAIUnavailable, http.StatusBadGateway},
	{ai.ErrAIInvalidResponse, http.StatusBadGateway},

	{services.ErrAINotConfigured, http.StatusServiceUnavailable},
	{services.ErrStorageNotConfigured, http.StatusServiceUnavailable},
	{services.ErrSSONotConfigured, http.StatusServiceUnavailable},
	{services.ErrDocumentsNotConfigured, http.StatusServiceUnavailable},
}

func statusFor(err error) (int, bool) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status, true
		}
	}
	return 0, false
}

// publicMessage hides wrapped upstream detail for AI failures
func publicMessage(err error) string {
	switch {
	case errors.Is(err, ai.ErrAIUnavailable):
		return ai.ErrAIUnavailable.Error()
	case errors.Is(err, ai.ErrAIInvalidResponse):
		return ai.ErrAIInvalidResponse.Error()
	case errors.Is(err, services.ErrUnauthenticated):
		return services.ErrUnauthenticated.Error()
	}
	return err.Error()
}
