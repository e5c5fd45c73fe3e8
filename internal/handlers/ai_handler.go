package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
)

// AIHandler serves content generation and wellness counseling
type AIHandler struct {
	BaseHandler
	contentService    services.AIContentService
	counselingService services.CounselingService
}

func NewAIHandler(contentService services.AIContentService, counselingService services.CounselingService, logger utils.Logger) *AIHandler {
	return &AIHandler{
		BaseHandler:       NewBaseHandler(logger),
		contentService:    contentService,
		counselingService: counselingService,
	}
}

// ===== CONTENT GENERATION =====

// CourseOutline generates modules and lessons for a topic
// @Summary Generate course outline
// @Tags ai
// @Accept json
// @Produce json
// @Param request body services.CourseOutlineRequest true "Topic and level"
// @Success 200 {object} ai.CourseOutline
// @Failure 502 {object} ErrorResponse "AI upstream failure"
// @Failure 503 {object} ErrorResponse "AI not configured"
// @Router /ai/course-outline [post]
func (h *AIHandler) CourseOutline(c *gin.Context) {
	var req services.CourseOutlineRequest
	if !h.bindJSON(c, &req) {
		return
	}

	outline, err := h.contentService.CourseOutline(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, outline)
}

// @Router /ai/course-description [post]
func (h *AIHandler) CourseDescription(c *gin.Context) {
	var req services.CourseDescriptionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	desc, err := h.contentService.CourseDescription(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, desc)
}

// Quiz generates multiple choice questions for a topic or a course
// @Router /ai/quiz [post]
func (h *AIHandler) Quiz(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req services.QuizRequest
	if !h.bindJSON(c, &req) {
		return
	}

	quiz, err := h.contentService.Quiz(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

// Thumbnail generates and stores a course image
// @Router /ai/thumbnail [post]
func (h *AIHandler) Thumbnail(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req services.ThumbnailRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Generating thumbnail", "course_id", req.CourseID)

	resp, err := h.contentService.Thumbnail(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ===== COUNSELING =====

// @Router /ai/counseling/sessions [post]
func (h *AIHandler) CreateSession(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req services.CounselingSessionRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}

	session, err := h.counselingService.CreateSession(c.Request.Context(), actor.UserID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// @Router /ai/counseling/sessions [get]
func (h *AIHandler) ListSessions(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	sessions, err := h.counselingService.ListSessions(c.Request.Context(), actor.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// @Router /ai/counseling/sessions/{id} [get]
func (h *AIHandler) GetSession(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.parseStringIDParam(c, "id")
	if !ok {
		return
	}

	session, err := h.counselingService.GetSession(c.Request.Context(), actor.UserID, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// SendMessage appends a message and returns the counselor's reply
// @Summary Send counseling message
// @Tags ai
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param message body services.CounselingMessageRequest true "Message"
// @Success 200 {object} services.CounselingReply
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /ai/counseling/sessions/{id}/messages [post]
func (h *AIHandler) SendMessage(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.parseStringIDParam(c, "id")
	if !ok {
		return
	}
	var req services.CounselingMessageRequest
	if !h.bindJSON(c, &req) {
		return
	}

	reply, err := h.counselingService.SendMessage(c.Request.Context(), actor.UserID, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}
