package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
)

type reviewPostgreSQL struct {
	db *gorm.DB
}

func NewReviewPostgreSQL(db *gorm.DB) repositories.ReviewRepository {
	return &reviewPostgreSQL{db: db}
}

func (r *reviewPostgreSQL) Create(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(review).Error; err != nil {
		return handleDBError(err, "create review")
	}
	return nil
}

func (r *reviewPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).Preload("User").First(&review, id).Error; err != nil {
		return nil, handleDBError(err, "get review by id")
	}
	return &review, nil
}

func (r *reviewPostgreSQL) GetByUserAndCourse(ctx context.Context, userID string, courseID uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&review).Error; err != nil {
		return nil, handleDBError(err, "get review")
	}
	return &review, nil
}

func (r *reviewPostgreSQL) Update(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Omit("User").Save(review).Error; err != nil {
		return handleDBError(err, "update review")
	}
	return nil
}

// Delete takes the loaded review so the AfterDelete hook knows its course
func (r *reviewPostgreSQL) Delete(ctx context.Context, review *models.Review) error {
	result := r.db.WithContext(ctx).Delete(review)
	if result.Error != nil {
		return handleDBError(result.Error, "delete review")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "delete review")
	}
	return nil
}

func (r *reviewPostgreSQL) ListByCourse(ctx context.Context, courseID uint, limit, offset int) ([]*models.Review, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Review{}).Where("course_id = ?", courseID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count reviews")
	}

	var reviews []*models.Review
	if err := ApplyPaginationAndSort(query.Preload("User"), "created_at", "desc", limit, offset, nil).
		Find(&reviews).Error; err != nil {
		return nil, 0, handleDBError(err, "list reviews")
	}
	return reviews, total, nil
}
