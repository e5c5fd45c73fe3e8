package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
)

type coursePostgreSQL struct {
	db *gorm.DB
}

func NewCoursePostgreSQL(db *gorm.DB) repositories.CourseRepository {
	return &coursePostgreSQL{db: db}
}

// ===== BASIC CRUD OPERATIONS =====

func (r *coursePostgreSQL) Create(ctx context.Context, course *models.Course) error {
	if err := r.db.WithContext(ctx).Omit("Educator").Create(course).Error; err != nil {
		return handleDBError(err, "create course")
	}
	return nil
}

func (r *coursePostgreSQL) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).
		Preload("Educator").
		First(&course, id).Error; err != nil {
		return nil, handleDBError(err, "get course by id")
	}
	return &course, nil
}

func (r *coursePostgreSQL) Update(ctx context.Context, course *models.Course) error {
	// aggregates are owned by review hooks and enrollment counters
	if err := r.db.WithContext(ctx).
		Omit("Educator", "average_rating", "review_count", "enrollment_count").
		Save(course).Error; err != nil {
		return handleDBError(err, "update course")
	}
	return nil
}

func (r *coursePostgreSQL) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Course{}, id)
	if result.Error != nil {
		return handleDBError(result.Error, "delete course")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "delete course")
	}
	return nil
}

// ===== QUERY OPERATIONS =====

func (r *coursePostgreSQL) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	var courses []*models.Course
	var total int64

	query := applyCourseFilters(r.db.WithContext(ctx).Model(&models.Course{}), filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count courses")
	}

	query = ApplyPaginationAndSort(query.Preload("Educator"), filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset, courseSortColumns)
	if err := query.Find(&courses).Error; err != nil {
		return nil, 0, handleDBError(err, "list courses")
	}

	return courses, total, nil
}

// Categories lists the distinct categories of published courses
func (r *coursePostgreSQL) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := r.db.WithContext(ctx).Model(&models.Course{}).
		Where("status = ?", models.CoursePublished).
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error; err != nil {
		return nil, handleDBError(err, "list categories")
	}
	return categories, nil
}

// FindByHints matches published courses against AI supplied categories and keywords
func (r *coursePostgreSQL) FindByHints(ctx context.Context, q repositories.RecommendationQuery) ([]*models.Course, error) {
	categoryRe := regexAlternation(q.Categories)
	keywordRe := regexAlternation(q.Keywords)
	if categoryRe == "" && keywordRe == "" {
		return nil, nil
	}

	query := r.db.WithContext(ctx).Model(&models.Course{}).
		Where("status = ?", models.CoursePublished)

	match := r.db.Where("1 = 0")
	if categoryRe != "" {
		match = match.Or("category ~* ?", categoryRe)
	}
	if keywordRe != "" {
		match = match.Or("title ~* ?", keywordRe).
			Or("description ~* ?", keywordRe).
			Or("tags::text ~* ?", keywordRe)
	}
	query = query.Where(match)

	if q.Level != nil {
		query = query.Where("level = ?", *q.Level)
	}
	if len(q.ExcludeIDs) > 0 {
		query = query.Where("id NOT IN ?", q.ExcludeIDs)
	}

	var courses []*models.Course
	if err := query.
		Order("average_rating DESC").
		Order("enrollment_count DESC").
		Limit(q.Limit).
		Find(&courses).Error; err != nil {
		return nil, handleDBError(err, "find courses by hints")
	}
	return courses, nil
}

// Popular returns published courses by enrollment count then rating
func (r *coursePostgreSQL) Popular(ctx context.Context, excludeIDs []uint, limit int) ([]*models.Course, error) {
	query := r.db.WithContext(ctx).Model(&models.Course{}).
		Where("status = ?", models.CoursePublished)
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}

	var courses []*models.Course
	if err := query.
		Order("enrollment_count DESC").
		Order("average_rating DESC").
		Order("id ASC").
		Limit(limit).
		Find(&courses).Error; err != nil {
		return nil, handleDBError(err, "list popular courses")
	}
	return courses, nil
}

func (r *coursePostgreSQL) IncrementEnrollmentCount(ctx context.Context, id uint, delta int) error {
	err := r.db.WithContext(ctx).Model(&models.Course{}).
		Where("id = ?", id).
		UpdateColumn("enrollment_count", gorm.Expr("GREATEST(enrollment_count + ?, 0)", delta)).Error
	return handleDBError(err, "update enrollment count")
}
