package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
)

type ProfileHandler struct {
	BaseHandler
	profileService services.ProfileService
}

func NewProfileHandler(profileService services.ProfileService, logger utils.Logger) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    NewBaseHandler(logger),
		profileService: profileService,
	}
}

// GetStudentProfile returns the caller's student profile
// @Summary Get student profile
// @Tags onboarding
// @Produce json
// @Success 200 {object} models.StudentProfile
// @Failure 401 {object} ErrorResponse
// @Router /students/me/profile [get]
func (h *ProfileHandler) GetStudentProfile(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetStudentProfile(c.Request.Context(), actor.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateStudentProfile updates the fields present in the body
// @Summary Update student profile
// @Tags onboarding
// @Accept json
// @Produce json
// @Param profile body services.StudentProfileRequest true "Profile fields"
// @Success 200 {object} models.StudentProfile
// @Failure 400 {object} ErrorResponse
// @Router /students/me/profile [put]
func (h *ProfileHandler) UpdateStudentProfile(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req services.StudentProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}

	profile, err := h.profileService.UpdateStudentProfile(c.Request.Context(), actor.UserID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// CompleteStudentOnboarding finishes the onboarding wizard
// @Router /students/me/onboarding [post]
func (h *ProfileHandler) CompleteStudentOnboarding(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Completing student onboarding")

	profile, err := h.profileService.CompleteStudentOnboarding(c.Request.Context(), actor.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// @Router /educators/me/profile [get]
func (h *ProfileHandler) GetEducatorProfile(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetEducatorProfile(c.Request.Context(), actor.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// @Router /educators/me/profile [put]
func (h *ProfileHandler) UpdateEducatorProfile(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req services.EducatorProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}

	profile, err := h.profileService.UpdateEducatorProfile(c.Request.Context(), actor.UserID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// @Router /educators/me/onboarding [post]
func (h *ProfileHandler) CompleteEducatorOnboarding(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Completing educator onboarding")

	profile, err := h.profileService.CompleteEducatorOnboarding(c.Request.Context(), actor.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetPublicEducator returns an educator's public profile and published courses
// @Summary Public educator profile
// @Tags onboarding
// @Produce json
// @Param id path string true "Educator ID"
// @Success 200 {object} services.PublicEducatorResponse
// @Failure 404 {object} ErrorResponse
// @Router /educators/{id} [get]
func (h *ProfileHandler) GetPublicEducator(c *gin.Context) {
	id, ok := h.parseStringIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.profileService.GetPublicEducator(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
