package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
)

type DiscussionHandler struct {
	BaseHandler
	discussionService services.DiscussionService
}

func NewDiscussionHandler(discussionService services.DiscussionService, logger utils.Logger) *DiscussionHandler {
	return &DiscussionHandler{
		BaseHandler:       NewBaseHandler(logger),
		discussionService: discussionService,
	}
}

// ListCourseDiscussions lists a course's threads, pinned first
// @Summary List discussions
// @Tags discussions
// @Produce json
// @Param id path uint true "Course ID"
// @Success 200 {object} models.PaginatedResponse
// @Failure 403 {object} ErrorResponse "Not a course member"
// @Router /courses/{id}/discussions [get]
func (h *DiscussionHandler) ListCourseDiscussions(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	courseID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	page, ok := h.pageParams(c)
	if !ok {
		return
	}

	resp, err := h.discussionService.ListByCourse(c.Request.Context(), actor, courseID, page)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Router /courses/{id}/discussions [post]
func (h *DiscussionHandler) CreateDiscussion(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	courseID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.CreateDiscussionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	discussion, err := h.discussionService.Create(c.Request.Context(), actor, courseID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, discussion)
}

// @Router /discussions/{id} [get]
func (h *DiscussionHandler) GetDiscussion(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.parseStringIDParam(c, "id")
	if !ok {
		return
	}

	discussion, err := h.discussionService.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, discussion)
}

// @Router /discussions/{id}/replies [post]
func (h *DiscussionHandler) Reply(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.parseStringIDParam(c, "id")
	if !ok {
		return
	}
	var req services.CreateReplyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	discussion, err := h.discussionService.Reply(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, discussion)
}

// @Router /discussions/{id} [delete]
func (h *DiscussionHandler) DeleteDiscussion(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.parseStringIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.discussionService.Delete(c.Request.Context(), actor, id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Discussion deleted successfully"})
}

type pinRequest struct {
	Pinned *bool `json:"pinned"`
}

// PinDiscussion pins a thread; the body {"pinned": false} unpins it
// @Router /discussions/{id}/pin [post]
func (h *DiscussionHandler) PinDiscussion(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.parseStringIDParam(c, "id")
	if !ok {
		return
	}

	pinned := true
	if c.Request.ContentLength > 0 {
		var req pinRequest
		if !h.bindJSON(c, &req) {
			return
		}
		if req.Pinned != nil {
			pinned = *req.Pinned
		}
	}

	discussion, err := h.discussionService.SetPinned(c.Request.Context(), actor, id, pinned)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, discussion)
}
