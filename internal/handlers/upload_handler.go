package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
)

// UploadHandler stores files validated by ImageUpload
type UploadHandler struct {
	BaseHandler
	uploadService services.UploadService
}

func NewUploadHandler(uploadService services.UploadService, logger utils.Logger) *UploadHandler {
	return &UploadHandler{
		BaseHandler:   NewBaseHandler(logger),
		uploadService: uploadService,
	}
}

// UploadImage stores an image and returns its URL
// @Summary Upload image
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "jpeg, png, webp or gif up to 5 MiB"
// @Success 201 {object} services.UploadResponse
// @Failure 413 {object} ErrorResponse
// @Failure 415 {object} ErrorResponse
// @Router /uploads/images [post]
func (h *UploadHandler) UploadImage(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	file, ok := uploadedFile(c)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "file is required"})
		return
	}

	resp, err := h.uploadService.UploadImage(c.Request.Context(), actor.UserID, file)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// @Router /users/me/avatar [put]
func (h *UploadHandler) UpdateAvatar(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	file, ok := uploadedFile(c)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "file is required"})
		return
	}

	user, err := h.uploadService.UpdateAvatar(c.Request.Context(), actor.UserID, file)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
