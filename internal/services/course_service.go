package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/events"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/SAP-F-2025/learning-service/internal/utils"
	"github.com/SAP-F-2025/learning-service/internal/validator"
)

const (
	defaultCourseLanguage = "English"
	// upper bound of ids taken from the search index for one catalog query
	searchHitLimit = 500
)

type courseService struct {
	deps *Dependencies
}

func NewCourseService(deps *Dependencies) CourseService {
	return &courseService{deps: deps}
}

// ===== CATALOG =====

// List returns published courses only; results are cached per filter set
func (s *courseService) List(ctx context.Context, params *CourseListParams) (*models.PaginatedResponse, error) {
	if params == nil {
		params = &CourseListParams{}
	}
	if err := validate(s.deps.Validator, params); err != nil {
		return nil, err
	}

	published := *params
	published.Status = models.CoursePublished

	return cached(ctx, s.deps.Cache, s.deps.Cache.Course, cache.CourseListKey(hashKey(published)), cache.CourseCacheConfig.TTL,
		func() (*models.PaginatedResponse, error) {
			return s.list(ctx, &published, "")
		})
}

func (s *courseService) GetByID(ctx context.Context, id uint, actor *Actor) (*CourseResponse, error) {
	course, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	canEdit := actor != nil && actor.CanManage(course.EducatorID)
	if course.Status != models.CoursePublished && !canEdit {
		return nil, ErrCourseNotFound
	}

	resp := &CourseResponse{Course: course, CanEdit: canEdit}
	if actor != nil {
		enrollment, err := s.deps.Repo.Enrollment().GetByUserAndCourse(ctx, actor.UserID, id)
		switch {
		case err == nil:
			resp.IsEnrolled = enrollment.Status != models.EnrollmentDropped
		case !isNotFound(err):
			return nil, fmt.Errorf("failed to check enrollment: %w", err)
		}
	}
	return resp, nil
}

// load reads a course through the detail cache; only published courses are cached
func (s *courseService) load(ctx context.Context, id uint) (*models.Course, error) {
	key := cache.CourseDetailKey(id)

	var hit models.Course
	if err := s.deps.Cache.Course.Get(ctx, key, &hit); err == nil {
		return &hit, nil
	}

	course, err := s.deps.Repo.Course().GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, ErrCourseNotFound)
	}

	if course.Status == models.CoursePublished {
		if err := s.deps.Cache.Course.Set(ctx, key, course, cache.CourseCacheConfig.TTL); err != nil {
			s.deps.Logger.Warn("Failed to cache course", "course_id", id, utils.Err(err))
		}
	}
	return course, nil
}

func (s *courseService) Categories(ctx context.Context) ([]string, error) {
	return cached(ctx, s.deps.Cache, s.deps.Cache.Course, "categories", cache.CourseCacheConfig.TTL,
		func() ([]string, error) {
			return s.deps.Repo.Course().Categories(ctx)
		})
}

// ===== EDUCATOR MANAGEMENT =====

func (s *courseService) Create(ctx context.Context, actor Actor, req *CreateCourseRequest) (*models.Course, error) {
	if err := validate(s.deps.Validator, req); err != nil {
		return nil, err
	}
	if errs := s.deps.Validator.GetBusinessValidator().ValidateModules(req.Modules); len(errs) > 0 {
		return nil, errs
	}

	course := &models.Course{
		Title:        strings.TrimSpace(req.Title),
		Description:  strings.TrimSpace(req.Description),
		Category:     strings.TrimSpace(req.Category),
		Level:        req.Level,
		Price:        req.Price,
		Language:     strings.TrimSpace(req.Language),
		Tags:         datatypes.JSONSlice[string](trimAll(req.Tags)),
		ThumbnailURL: req.ThumbnailURL,
		Modules:      buildModules(req.Modules),
		Status:       models.CourseDraft,
		EducatorID:   actor.UserID,
	}
	if course.Language == "" {
		course.Language = defaultCourseLanguage
	}

	if err := s.deps.Repo.Course().Create(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.deps.Logger.Info("Course created", "course_id", course.ID, "educator_id", actor.UserID)
	s.afterWrite(ctx, actor, course, events.CourseCreated)
	return course, nil
}

func (s *courseService) Update(ctx context.Context, actor Actor, id uint, req *UpdateCourseRequest) (*models.Course, error) {
	if err := validate(s.deps.Validator, req); err != nil {
		return nil, err
	}

	course, err := s.owned(ctx, actor, id, "update")
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		course.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		course.Description = strings.TrimSpace(*req.Description)
	}
	if req.Category != nil {
		course.Category = strings.TrimSpace(*req.Category)
	}
	if req.Level != nil {
		course.Level = *req.Level
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if req.Language != nil {
		course.Language = strings.TrimSpace(*req.Language)
	}
	if req.Tags != nil {
		course.Tags = datatypes.JSONSlice[string](trimAll(req.Tags))
	}
	if req.ThumbnailURL != nil {
		course.ThumbnailURL = req.ThumbnailURL
	}
	if req.Modules != nil {
		if errs := s.deps.Validator.GetBusinessValidator().ValidateModules(req.Modules); len(errs) > 0 {
			return nil, errs
		}
		course.Modules = buildModules(req.Modules)
	}

	// a listed course must stay publishable
	if course.Status == models.CoursePublished {
		if errs := s.deps.Validator.GetBusinessValidator().ValidateCourseForPublish(course); len(errs) > 0 {
			return nil, errs
		}
	}

	if err := s.deps.Repo.Course().Update(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	s.afterWrite(ctx, actor, course, events.CourseUpdated)
	return course, nil
}

func (s *courseService) Delete(ctx context.Context, actor Actor, id uint) error {
	course, err := s.owned(ctx, actor, id, "delete")
	if err != nil {
		return err
	}

	count, err := s.deps.Repo.Enrollment().CountByCourse(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count enrollments: %w", err)
	}
	if count > 0 {
		return ErrCourseHasEnrollments
	}

	if err := s.deps.Repo.Course().Delete(ctx, id); err != nil {
		return orNotFound(err, ErrCourseNotFound)
	}

	s.deps.Logger.Info("Course deleted", "course_id", id, "user_id", actor.UserID)
	cache.InvalidateCourseCache(ctx, s.deps.Cache, id)
	if s.deps.Search != nil {
		if err := s.deps.Search.DeleteCourse(ctx, id); err != nil {
			s.deps.Logger.Warn("Failed to remove course from search index", "course_id", id, utils.Err(err))
		}
	}
	publish(ctx, s.deps, events.CourseDeleted, actor.UserID, "course", uintID(id), map[string]interface{}{
		"title":       course.Title,
		"educator_id": course.EducatorID,
	})
	return nil
}

func (s *courseService) Publish(ctx context.Context, actor Actor, id uint) (*models.Course, error) {
	return s.transition(ctx, actor, id, models.CoursePublished)
}

func (s *courseService) Archive(ctx context.Context, actor Actor, id uint) (*models.Course, error) {
	return s.transition(ctx, actor, id, models.CourseArchived)
}

// UpdateStatus is the admin override of the course lifecycle
func (s *courseService) UpdateStatus(ctx context.Context, actor Actor, id uint, status models.CourseStatus) (*models.Course, error) {
	if err := validate(s.deps.Validator, &validator.CourseStatusRequest{Status: status}); err != nil {
		return nil, err
	}
	return s.transition(ctx, actor, id, status)
}

func (s *courseService) transition(ctx context.Context, actor Actor, id uint, status models.CourseStatus) (*models.Course, error) {
	course, err := s.owned(ctx, actor, id, "change status of")
	if err != nil {
		return nil, err
	}

	if errs := s.deps.Validator.GetBusinessValidator().ValidateStatusTransition(course, status); len(errs) > 0 {
		return nil, errs
	}

	course.Status = status
	if status == models.CoursePublished && course.PublishedAt == nil {
		now := s.deps.now()
		course.PublishedAt = &now
	}

	if err := s.deps.Repo.Course().Update(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to update course status: %w", err)
	}

	eventType := events.CourseUpdated
	switch status {
	case models.CoursePublished:
		eventType = events.CoursePublished
	case models.CourseArchived:
		eventType = events.CourseArchived
	}

	s.deps.Logger.Info("Course status changed", "course_id", id, "status", status, "user_id", actor.UserID)
	s.afterWrite(ctx, actor, course, eventType)
	return course, nil
}

func (s *courseService) ListByEducator(ctx context.Context, educatorID string, params *CourseListParams) (*models.PaginatedResponse, error) {
	if params == nil {
		params = &CourseListParams{}
	}
	if err := validate(s.deps.Validator, params); err != nil {
		return nil, err
	}
	return s.list(ctx, params, educatorID)
}

func (s *courseService) Students(ctx context.Context, actor Actor, id uint, params *EnrollmentListParams) (*models.PaginatedResponse, error) {
	if params == nil {
		params = &EnrollmentListParams{}
	}
	if err := validate(s.deps.Validator, params); err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, actor, id, "view students of"); err != nil {
		return nil, err
	}

	page := pageOf(params.Page, params.Size)
	filters := repositories.EnrollmentFilters{Limit: page.Size, Offset: page.Offset()}
	if params.Status != "" {
		filters.Status = &params.Status
	}

	enrollments, total, err := s.deps.Repo.Enrollment().ListByCourse(ctx, id, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list course students: %w", err)
	}
	return models.NewPaginatedResponse(enrollments, len(enrollments), total, page), nil
}

func (s *courseService) SetThumbnail(ctx context.Context, actor Actor, id uint, url string) (*models.Course, error) {
	course, err := s.owned(ctx, actor, id, "update")
	if err != nil {
		return nil, err
	}

	course.ThumbnailURL = &url
	if err := s.deps.Repo.Course().Update(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to set thumbnail: %w", err)
	}

	s.afterWrite(ctx, actor, course, events.CourseUpdated)
	return course, nil
}

// ===== ADMIN =====

func (s *courseService) AdminList(ctx context.Context, params *CourseListParams) (*models.PaginatedResponse, error) {
	if params == nil {
		params = &CourseListParams{}
	}
	if err := validate(s.deps.Validator, params); err != nil {
		return nil, err
	}
	return s.list(ctx, params, "")
}

// ===== HELPERS =====

// owned loads a course bypassing the cache and checks the actor may manage it
func (s *courseService) owned(ctx context.Context, actor Actor, id uint, action string) (*models.Course, error) {
	course, err := s.deps.Repo.Course().GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, ErrCourseNotFound)
	}
	if !actor.CanManage(course.EducatorID) {
		return nil, NewPermissionError(actor.UserID, id, "course", action, "only the course educator can do this")
	}
	return course, nil
}

func (s *courseService) list(ctx context.Context, params *CourseListParams, educatorID string) (*models.PaginatedResponse, error) {
	page := pageOf(params.Page, params.Size)
	filters := repositories.CourseFilters{
		Category:   strings.TrimSpace(params.Category),
		MinRating:  params.MinRating,
		MinPrice:   params.MinPrice,
		MaxPrice:   params.MaxPrice,
		EducatorID: educatorID,
		Limit:      page.Size,
		Offset:     page.Offset(),
	}
	if params.Level != "" {
		level := models.CourseLevel(params.Level)
		filters.Level = &level
	}
	if params.Status != "" {
		status := params.Status
		filters.Status = &status
	}
	filters.SortBy, filters.SortOrder = courseSort(params.Sort)

	if q := strings.TrimSpace(params.Search); q != "" {
		s.applySearch(ctx, &filters, q)
	}

	courses, total, err := s.deps.Repo.Course().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return models.NewPaginatedResponse(courses, len(courses), total, page), nil
}

// applySearch restricts the query to index hits, or falls back to a substring match
func (s *courseService) applySearch(ctx context.Context, filters *repositories.CourseFilters, q string) {
	if s.deps.Search != nil {
		ids, err := s.deps.Search.Search(ctx, q, searchHitLimit)
		if err == nil {
			if ids == nil {
				ids = []uint{}
			}
			filters.IDs = ids
			return
		}
		s.deps.Logger.Warn("Course search index failed, using database search", utils.Err(err))
	}
	filters.Search = q
}

func courseSort(sort string) (string, string) {
	switch sort {
	case "popular":
		return "enrollment_count", "desc"
	case "rating":
		return "average_rating", "desc"
	case "price":
		return "price", "asc"
	case "price_desc":
		return "price", "desc"
	default:
		return "created_at", "desc"
	}
}

// afterWrite keeps the cache and the search index in step and emits the course event
func (s *courseService) afterWrite(ctx context.Context, actor Actor, course *models.Course, eventType events.EventType) {
	cache.InvalidateCourseCache(ctx, s.deps.Cache, course.ID)
	s.syncIndex(ctx, course)
	publish(ctx, s.deps, eventType, actor.UserID, "course", uintID(course.ID), map[string]interface{}{
		"title":       course.Title,
		"status":      course.Status,
		"educator_id": course.EducatorID,
	})
}

// syncIndex keeps only published courses searchable
func (s *courseService) syncIndex(ctx context.Context, course *models.Course) {
	if s.deps.Search == nil {
		return
	}
	var err error
	if course.Status == models.CoursePublished {
		err = s.deps.Search.IndexCourse(ctx, course)
	} else {
		err = s.deps.Search.DeleteCourse(ctx, course.ID)
	}
	if err != nil {
		s.deps.Logger.Warn("Failed to sync course search index", "course_id", course.ID, utils.Err(err))
	}
}

// buildModules copies the request tree, assigning ids to new modules and lessons
func buildModules(reqs []validator.ModuleRequest) datatypes.JSONSlice[models.Module] {
	modules := make([]models.Module, 0, len(reqs))
	for _, m := range reqs {
		module := models.Module{
			ID:          idOrNew(m.ID),
			Title:       strings.TrimSpace(m.Title),
			Description: strings.TrimSpace(m.Description),
			Lessons:     make([]models.Lesson, 0, len(m.Lessons)),
		}
		for _, l := range m.Lessons {
			module.Lessons = append(module.Lessons, models.Lesson{
				ID:              idOrNew(l.ID),
				Title:           strings.TrimSpace(l.Title),
				Content:         l.Content,
				VideoURL:        l.VideoURL,
				DurationMinutes: l.DurationMinutes,
			})
		}
		modules = append(modules, module)
	}
	return modules
}

func idOrNew(id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return uuid.NewString()
}
