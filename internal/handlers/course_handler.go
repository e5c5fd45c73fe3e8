package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
	"github.com/SAP-F-2025/learning-service/internal/validator"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type CourseHandler struct {
	BaseHandler
	courseService services.CourseService
	exportService services.ExportService
}

func NewCourseHandler(courseService services.CourseService, exportService services.ExportService, logger utils.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler:   NewBaseHandler(logger),
		courseService: courseService,
		exportService: exportService,
	}
}

// ListCourses lists published courses
// @Summary List courses
// @Description Catalog with category, level, search, rating and price filters
// @Tags courses
// @Produce json
// @Param category query string false "Category"
// @Param level query string false "beginner, intermediate or advanced"
// @Param search query string false "Full text search"
// @Param sort query string false "newest, popular, rating, price"
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 10, max: 100)"
// @Success 200 {object} models.PaginatedResponse
// @Failure 400 {object} ErrorResponse
// @Router /courses [get]
func (h *CourseHandler) ListCourses(c *gin.Context) {
	var params services.CourseListParams
	if !h.bindQuery(c, &params) {
		return
	}

	resp, err := h.courseService.List(c.Request.Context(), &params)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetCourse returns a course; drafts are visible to the owner and admins only
// @Summary Get course
// @Tags courses
// @Produce json
// @Param id path uint true "Course ID"
// @Success 200 {object} services.CourseResponse
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id} [get]
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	course, err := h.courseService.GetByID(c.Request.Context(), id, h.optionalActor(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// @Router /courses/categories [get]
func (h *CourseHandler) Categories(c *gin.Context) {
	categories, err := h.courseService.Categories(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// CreateCourse creates a draft course owned by the caller
// @Summary Create course
// @Tags educator
// @Accept json
// @Produce json
// @Param course body services.CreateCourseRequest true "Course data"
// @Success 201 {object} models.Course
// @Failure 400 {object} ErrorResponse
// @Router /educator/courses [post]
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req services.CreateCourseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	course, err := h.courseService.Create(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, course)
}

// @Router /educator/courses/{id} [put]
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateCourseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	course, err := h.courseService.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// DeleteCourse removes a course that has no enrollments
// @Router /educator/courses/{id} [delete]
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.courseService.Delete(c.Request.Context(), actor, id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Course deleted successfully"})
}

// @Router /educator/courses/{id}/publish [post]
func (h *CourseHandler) PublishCourse(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	h.LogRequest(c, "Publishing course", "course_id", id)

	course, err := h.courseService.Publish(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// @Router /educator/courses/{id}/archive [post]
func (h *CourseHandler) ArchiveCourse(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	course, err := h.courseService.Archive(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// MyCourses lists the caller's courses in every status
// @Router /educator/courses [get]
func (h *CourseHandler) MyCourses(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var params services.CourseListParams
	if !h.bindQuery(c, &params) {
		return
	}

	resp, err := h.courseService.ListByEducator(c.Request.Context(), actor.UserID, &params)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CourseStudents lists the enrollments of an owned course
// @Router /educator/courses/{id}/students [get]
func (h *CourseHandler) CourseStudents(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	var params services.EnrollmentListParams
	if !h.bindQuery(c, &params) {
		return
	}

	resp, err := h.courseService.Students(c.Request.Context(), actor, id, &params)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExportCourse downloads the enrolled students' progress as xlsx
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Router /educator/courses/{id}/export [get]
func (h *CourseHandler) ExportCourse(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	file, err := h.exportService.CourseEnrollments(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	writeExport(c, file)
}

// AdminListCourses lists courses in any status
// @Router /admin/courses [get]
func (h *CourseHandler) AdminListCourses(c *gin.Context) {
	var params services.CourseListParams
	if !h.bindQuery(c, &params) {
		return
	}

	resp, err := h.courseService.AdminList(c.Request.Context(), &params)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Router /admin/courses/{id}/status [put]
func (h *CourseHandler) AdminUpdateStatus(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	var req validator.CourseStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	course, err := h.courseService.UpdateStatus(c.Request.Context(), actor, id, req.Status)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

func writeExport(c *gin.Context, file *services.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, xlsxContentType, file.Content)
}
