package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
)

type MoodHandler struct {
	BaseHandler
	moodService services.MoodService
}

func NewMoodHandler(moodService services.MoodService, logger utils.Logger) *MoodHandler {
	return &MoodHandler{
		BaseHandler: NewBaseHandler(logger),
		moodService: moodService,
	}
}

// CreateMood logs today's mood, or the mood of a past day
// @Summary Log mood
// @Tags moods
// @Accept json
// @Produce json
// @Param mood body services.CreateMoodRequest true "Mood entry"
// @Success 201 {object} models.MoodEntry
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already logged for that day"
// @Router /moods [post]
func (h *MoodHandler) CreateMood(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req services.CreateMoodRequest
	if !h.bindJSON(c, &req) {
		return
	}

	entry, err := h.moodService.Create(c.Request.Context(), actor.UserID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// @Router /moods/{id} [put]
func (h *MoodHandler) UpdateMood(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateMoodRequest
	if !h.bindJSON(c, &req) {
		return
	}

	entry, err := h.moodService.Update(c.Request.Context(), actor.UserID, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// @Router /moods/{id} [delete]
func (h *MoodHandler) DeleteMood(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.moodService.Delete(c.Request.Context(), actor.UserID, id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Mood entry deleted successfully"})
}

// ListMoods returns the caller's entries, newest day first
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Router /moods [get]
func (h *MoodHandler) ListMoods(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var params services.MoodListParams
	if !h.bindQuery(c, &params) {
		return
	}

	entries, err := h.moodService.List(c.Request.Context(), actor.UserID, &params)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// TodayMood returns today's entry; mood is null when nothing is logged yet
// @Router /moods/today [get]
func (h *MoodHandler) TodayMood(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	entry, err := h.moodService.Today(c.Request.Context(), actor.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logged": entry != nil, "mood": entry})
}

// MoodStats summarizes the last N days
// @Summary Mood statistics
// @Tags moods
// @Produce json
// @Param days query int false "Window in days (default: 30)"
// @Success 200 {object} models.MoodStats
// @Router /moods/stats [get]
func (h *MoodHandler) MoodStats(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	days, err := strconv.Atoi(c.DefaultQuery("days", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid days", Details: err.Error()})
		return
	}

	stats, err := h.moodService.Stats(c.Request.Context(), actor.UserID, days)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
