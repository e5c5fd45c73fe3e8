package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/events"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
)

type reviewService struct {
	deps *Dependencies
}

func NewReviewService(deps *Dependencies) ReviewService {
	return &reviewService{deps: deps}
}

// Create stores a review; the course rating aggregate is recomputed in the same transaction
func (s *reviewService) Create(ctx context.Context, userID string, courseID uint, req *CreateReviewRequest) (*models.Review, error) {
	if err := validate(s.deps.Validator, req); err != nil {
		return nil, err
	}

	if _, err := s.deps.Repo.Course().GetByID(ctx, courseID); err != nil {
		return nil, orNotFound(err, ErrCourseNotFound)
	}

	enrollment, err := s.deps.Repo.Enrollment().GetByUserAndCourse(ctx, userID, courseID)
	if err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}
	if enrollment == nil || enrollment.Status == models.EnrollmentDropped {
		return nil, NewPermissionError(userID, courseID, "course", "review", "only enrolled students can review a course")
	}

	if _, err := s.deps.Repo.Review().GetByUserAndCourse(ctx, userID, courseID); err == nil {
		return nil, ErrAlreadyReviewed
	} else if !isNotFound(err) {
		return nil, fmt.Errorf("failed to check review: %w", err)
	}

	review := &models.Review{
		UserID:   userID,
		CourseID: courseID,
		Rating:   req.Rating,
		Comment:  strings.TrimSpace(req.Comment),
	}
	err = s.deps.Repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		return tx.Review().Create(ctx, review)
	})
	if isDuplicate(err) {
		return nil, ErrAlreadyReviewed
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	cache.InvalidateCourseCache(ctx, s.deps.Cache, courseID)
	publish(ctx, s.deps, events.ReviewCreated, userID, "course", uintID(courseID), map[string]interface{}{
		"review_id": review.ID,
		"rating":    review.Rating,
	})
	return review, nil
}

func (s *reviewService) Update(ctx context.Context, actor Actor, id uint, req *UpdateReviewRequest) (*models.Review, error) {
	if err := validate(s.deps.Validator, req); err != nil {
		return nil, err
	}

	review, err := s.authored(ctx, actor, id, "update")
	if err != nil {
		return nil, err
	}

	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.Comment != nil {
		review.Comment = strings.TrimSpace(*req.Comment)
	}

	err = s.deps.Repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		return tx.Review().Update(ctx, review)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}

	cache.InvalidateCourseCache(ctx, s.deps.Cache, review.CourseID)
	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, actor Actor, id uint) error {
	review, err := s.authored(ctx, actor, id, "delete")
	if err != nil {
		return err
	}

	err = s.deps.Repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		return tx.Review().Delete(ctx, review)
	})
	if err != nil {
		return orNotFound(err, ErrReviewNotFound)
	}

	cache.InvalidateCourseCache(ctx, s.deps.Cache, review.CourseID)
	return nil
}

func (s *reviewService) ListByCourse(ctx context.Context, courseID uint, params models.PageParams) (*models.PaginatedResponse, error) {
	if _, err := s.deps.Repo.Course().GetByID(ctx, courseID); err != nil {
		return nil, orNotFound(err, ErrCourseNotFound)
	}

	page := params.Normalize()
	reviews, total, err := s.deps.Repo.Review().ListByCourse(ctx, courseID, page.Size, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return models.NewPaginatedResponse(reviews, len(reviews), total, page), nil
}

// authored loads a review the actor wrote, or any review for admins
func (s *reviewService) authored(ctx context.Context, actor Actor, id uint, action string) (*models.Review, error) {
	review, err := s.deps.Repo.Review().GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, ErrReviewNotFound)
	}
	if !actor.CanManage(review.UserID) {
		return nil, NewPermissionError(actor.UserID, id, "review", action, "only the author can do this")
	}
	return review, nil
}
