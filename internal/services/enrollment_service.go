package services

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/events"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
)

type enrollmentService struct {
	deps *Dependencies
}

func NewEnrollmentService(deps *Dependencies) EnrollmentService {
	return &enrollmentService{deps: deps}
}

// Enroll joins a published course. A dropped enrollment is reactivated with its progress intact.
func (s *enrollmentService) Enroll(ctx context.Context, userID string, courseID uint) (*models.Enrollment, error) {
	course, err := s.deps.Repo.Course().GetByID(ctx, courseID)
	if err != nil {
		return nil, orNotFound(err, ErrCourseNotFound)
	}
	if course.Status != models.CoursePublished {
		return nil, NewBusinessRuleError("course_not_published", "only published courses accept enrollments",
			map[string]interface{}{"course_id": courseID, "status": course.Status})
	}

	now := s.deps.now()
	existing, err := s.deps.Repo.Enrollment().GetByUserAndCourse(ctx, userID, courseID)
	switch {
	case err == nil && existing.Status != models.EnrollmentDropped:
		return nil, ErrAlreadyEnrolled
	case err != nil && !isNotFound(err):
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}

	enrollment := existing
	err = s.deps.Repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if enrollment != nil {
			enrollment.Status = models.EnrollmentActive
			if enrollment.Progress >= 100 {
				enrollment.Status = models.EnrollmentCompleted
			}
			enrollment.EnrolledAt = now
			enrollment.LastAccessedAt = &now
			if err := tx.Enrollment().Update(ctx, enrollment); err != nil {
				return err
			}
		} else {
			enrollment = &models.Enrollment{
				UserID:           userID,
				CourseID:         courseID,
				Status:           models.EnrollmentActive,
				CompletedLessons: []string{},
				EnrolledAt:       now,
				LastAccessedAt:   &now,
			}
			if err := tx.Enrollment().Create(ctx, enrollment); err != nil {
				return err
			}
		}
		return tx.Course().IncrementEnrollmentCount(ctx, courseID, 1)
	})
	if isDuplicate(err) {
		return nil, ErrAlreadyEnrolled
	}
	if err != nil {
		return nil, fmt.Errorf("failed to enroll: %w", err)
	}

	s.deps.Logger.Info("Student enrolled", "user_id", userID, "course_id", courseID)
	cache.InvalidateCourseCache(ctx, s.deps.Cache, courseID)
	cache.InvalidateRecommendations(ctx, s.deps.Cache, userID)
	publish(ctx, s.deps, events.EnrollmentCreated, userID, "course", uintID(courseID), map[string]interface{}{
		"enrollment_id": enrollment.ID,
		"course_title":  course.Title,
	})

	enrollment.Course = course
	return enrollment, nil
}

func (s *enrollmentService) Drop(ctx context.Context, userID string, courseID uint) (*models.Enrollment, error) {
	enrollment, err := s.deps.Repo.Enrollment().GetByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, orNotFound(err, ErrEnrollmentNotFound)
	}
	if enrollment.Status == models.EnrollmentDropped {
		return enrollment, nil
	}

	enrollment.Status = models.EnrollmentDropped
	err = s.deps.Repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Enrollment().Update(ctx, enrollment); err != nil {
			return err
		}
		return tx.Course().IncrementEnrollmentCount(ctx, courseID, -1)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to drop enrollment: %w", err)
	}

	cache.InvalidateCourseCache(ctx, s.deps.Cache, courseID)
	cache.InvalidateRecommendations(ctx, s.deps.Cache, userID)
	publish(ctx, s.deps, events.EnrollmentDropped, userID, "course", uintID(courseID), map[string]interface{}{
		"enrollment_id": enrollment.ID,
		"progress":      enrollment.Progress,
	})
	return enrollment, nil
}

func (s *enrollmentService) ListMine(ctx context.Context, userID string, params *EnrollmentListParams) (*models.PaginatedResponse, error) {
	if params == nil {
		params = &EnrollmentListParams{}
	}
	if err := validate(s.deps.Validator, params); err != nil {
		return nil, err
	}

	page := pageOf(params.Page, params.Size)
	filters := repositories.EnrollmentFilters{Limit: page.Size, Offset: page.Offset()}
	if params.Status != "" {
		filters.Status = &params.Status
	}

	enrollments, total, err := s.deps.Repo.Enrollment().ListByUser(ctx, userID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	return models.NewPaginatedResponse(enrollments, len(enrollments), total, page), nil
}

// UpdateProgress marks one lesson and recomputes progress against the current course content
func (s *enrollmentService) UpdateProgress(ctx context.Context, userID string, courseID uint, req *ProgressRequest) (*models.Enrollment, error) {
	if err := validate(s.deps.Validator, req); err != nil {
		return nil, err
	}

	enrollment, err := s.deps.Repo.Enrollment().GetByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, orNotFound(err, ErrEnrollmentNotFound)
	}
	if enrollment.Status == models.EnrollmentDropped {
		return nil, NewBusinessRuleError("enrollment_dropped", "re-enroll before tracking progress",
			map[string]interface{}{"course_id": courseID})
	}

	course, err := s.deps.Repo.Course().GetByID(ctx, courseID)
	if err != nil {
		return nil, orNotFound(err, ErrCourseNotFound)
	}
	if !course.HasLesson(req.LessonID) {
		return nil, ErrLessonNotFound
	}

	wasCompleted := enrollment.Status == models.EnrollmentCompleted
	enrollment.MarkLesson(course, req.LessonID, *req.Completed, s.deps.now())

	if err := s.deps.Repo.Enrollment().Update(ctx, enrollment); err != nil {
		return nil, fmt.Errorf("failed to save progress: %w", err)
	}

	if !wasCompleted && enrollment.Status == models.EnrollmentCompleted {
		s.deps.Logger.Info("Course completed", "user_id", userID, "course_id", courseID)
		publish(ctx, s.deps, events.EnrollmentCompleted, userID, "course", uintID(courseID), map[string]interface{}{
			"enrollment_id": enrollment.ID,
			"course_title":  course.Title,
		})
	}
	return enrollment, nil
}
