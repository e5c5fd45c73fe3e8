package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
)

type ReviewHandler struct {
	BaseHandler
	reviewService services.ReviewService
}

func NewReviewHandler(reviewService services.ReviewService, logger utils.Logger) *ReviewHandler {
	return &ReviewHandler{
		BaseHandler:   NewBaseHandler(logger),
		reviewService: reviewService,
	}
}

// CreateReview reviews a course the caller is enrolled in
// @Summary Review course
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path uint true "Course ID"
// @Param review body services.CreateReviewRequest true "Rating and comment"
// @Success 201 {object} models.Review
// @Failure 403 {object} ErrorResponse "Not enrolled"
// @Failure 409 {object} ErrorResponse "Already reviewed"
// @Router /courses/{id}/reviews [post]
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	courseID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.CreateReviewRequest
	if !h.bindJSON(c, &req) {
		return
	}

	review, err := h.reviewService.Create(c.Request.Context(), actor.UserID, courseID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

// @Router /courses/{id}/reviews [get]
func (h *ReviewHandler) ListCourseReviews(c *gin.Context) {
	courseID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	page, ok := h.pageParams(c)
	if !ok {
		return
	}

	resp, err := h.reviewService.ListByCourse(c.Request.Context(), courseID, page)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Router /reviews/{id} [put]
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateReviewRequest
	if !h.bindJSON(c, &req) {
		return
	}

	review, err := h.reviewService.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

// @Router /reviews/{id} [delete]
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.reviewService.Delete(c.Request.Context(), actor, id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Review deleted successfully"})
}
