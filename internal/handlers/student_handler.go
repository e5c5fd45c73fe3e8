package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
)

// StudentHandler serves enrollment, progress and recommendations
type StudentHandler struct {
	BaseHandler
	enrollmentService     services.EnrollmentService
	recommendationService services.RecommendationService
}

func NewStudentHandler(
	enrollmentService services.EnrollmentService,
	recommendationService services.RecommendationService,
	logger utils.Logger,
) *StudentHandler {
	return &StudentHandler{
		BaseHandler:           NewBaseHandler(logger),
		enrollmentService:     enrollmentService,
		recommendationService: recommendationService,
	}
}

// ===== ENROLLMENT ENDPOINTS =====

// Enroll enrolls the current student in a published course
// @Summary Enroll in course
// @Tags enrollment
// @Produce json
// @Param id path uint true "Course ID"
// @Success 201 {object} models.Enrollment
// @Failure 404 {object} ErrorResponse "Course not found or not published"
// @Failure 409 {object} ErrorResponse "Already enrolled"
// @Router /courses/{id}/enroll [post]
func (h *StudentHandler) Enroll(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	courseID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	h.LogRequest(c, "Enrolling in course", "course_id", courseID)

	enrollment, err := h.enrollmentService.Enroll(c.Request.Context(), actor.UserID, courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, enrollment)
}

// Drop marks the enrollment as dropped
// @Router /courses/{id}/enroll [delete]
func (h *StudentHandler) Drop(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	courseID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	enrollment, err := h.enrollmentService.Drop(c.Request.Context(), actor.UserID, courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, enrollment)
}

// MyCourses lists the student's enrollments with course summaries
// @Summary List my courses
// @Tags enrollment
// @Produce json
// @Param status query string false "active, completed or dropped"
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 10, max: 100)"
// @Success 200 {object} models.PaginatedResponse
// @Router /students/me/courses [get]
func (h *StudentHandler) MyCourses(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var params services.EnrollmentListParams
	if !h.bindQuery(c, &params) {
		return
	}

	resp, err := h.enrollmentService.ListMine(c.Request.Context(), actor.UserID, &params)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateProgress marks a lesson completed or not completed
// @Summary Update lesson progress
// @Tags enrollment
// @Accept json
// @Produce json
// @Param id path uint true "Course ID"
// @Param progress body services.ProgressRequest true "Lesson progress"
// @Success 200 {object} models.Enrollment
// @Failure 400 {object} ErrorResponse "Unknown lesson"
// @Failure 404 {object} ErrorResponse "Not enrolled"
// @Router /students/me/courses/{id}/progress [put]
func (h *StudentHandler) UpdateProgress(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	courseID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.ProgressRequest
	if !h.bindJSON(c, &req) {
		return
	}

	enrollment, err := h.enrollmentService.UpdateProgress(c.Request.Context(), actor.UserID, courseID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, enrollment)
}

// ===== RECOMMENDATIONS =====

// Recommendations returns AI-matched courses, falling back to popular ones
// @Summary Course recommendations
// @Tags recommendations
// @Produce json
// @Param limit query int false "Number of courses (default: 6, max: 20)"
// @Success 200 {object} services.RecommendationResponse
// @Router /students/me/recommendations [get]
func (h *StudentHandler) Recommendations(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid limit", Details: err.Error()})
		return
	}

	resp, err := h.recommendationService.Recommend(c.Request.Context(), actor.UserID, limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
