package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
)

type enrollmentPostgreSQL struct {
	db *gorm.DB
}

func NewEnrollmentPostgreSQL(db *gorm.DB) repositories.EnrollmentRepository {
	return &enrollmentPostgreSQL{db: db}
}

// ===== BASIC CRUD OPERATIONS =====

func (r *enrollmentPostgreSQL) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if err := r.db.WithContext(ctx).Omit("User", "Course").Create(enrollment).Error; err != nil {
		return handleDBError(err, "create enrollment")
	}
	return nil
}

func (r *enrollmentPostgreSQL) GetByUserAndCourse(ctx context.Context, userID string, courseID uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error; err != nil {
		return nil, handleDBError(err, "get enrollment")
	}
	return &enrollment, nil
}

func (r *enrollmentPostgreSQL) Update(ctx context.Context, enrollment *models.Enrollment) error {
	if err := r.db.WithContext(ctx).Omit("User", "Course").Save(enrollment).Error; err != nil {
		return handleDBError(err, "update enrollment")
	}
	return nil
}

// ===== QUERY OPERATIONS =====

func (r *enrollmentPostgreSQL) ListByUser(ctx context.Context, userID string, filters repositories.EnrollmentFilters) ([]*models.Enrollment, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Enrollment{}).Where("user_id = ?", userID)
	return r.list(query.Preload("Course"), filters, "list enrollments by user")
}

func (r *enrollmentPostgreSQL) ListByCourse(ctx context.Context, courseID uint, filters repositories.EnrollmentFilters) ([]*models.Enrollment, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Enrollment{}).Where("course_id = ?", courseID)
	return r.list(query.Preload("User"), filters, "list enrollments by course")
}

func (r *enrollmentPostgreSQL) list(query *gorm.DB, filters repositories.EnrollmentFilters, op string) ([]*models.Enrollment, int64, error) {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, op)
	}

	query = query.Order("enrolled_at DESC").Order("id DESC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var enrollments []*models.Enrollment
	if err := query.Find(&enrollments).Error; err != nil {
		return nil, 0, handleDBError(err, op)
	}
	return enrollments, total, nil
}

// CourseIDsByUser returns every course the user has an enrollment row for, dropped included
func (r *enrollmentPostgreSQL) CourseIDsByUser(ctx context.Context, userID string) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("user_id = ?", userID).
		Pluck("course_id", &ids).Error; err != nil {
		return nil, handleDBError(err, "list enrolled course ids")
	}
	return ids, nil
}

func (r *enrollmentPostgreSQL) CountByCourse(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("course_id = ?", courseID).
		Count(&count).Error; err != nil {
		return 0, handleDBError(err, "count enrollments")
	}
	return count, nil
}

// ExportRows flattens enrollments with student and course columns, optionally for one course
func (r *enrollmentPostgreSQL) ExportRows(ctx context.Context, courseID *uint) ([]models.EnrollmentExportRow, error) {
	query := r.db.WithContext(ctx).
		Table("enrollments e").
		Select(`e.id AS enrollment_id, u.id AS student_id, u.name AS student_name, u.email AS student_email,
			c.id AS course_id, c.title AS course_title, e.status, e.progress,
			COALESCE(jsonb_array_length(e.completed_lessons), 0) AS completed_count,
			e.enrolled_at, e.completed_at`).
		Joins("JOIN users u ON u.id = e.user_id").
		Joins("JOIN courses c ON c.id = e.course_id AND c.deleted_at IS NULL")
	if courseID != nil {
		query = query.Where("e.course_id = ?", *courseID)
	}

	var rows []models.EnrollmentExportRow
	if err := query.Order("c.id ASC").Order("e.enrolled_at ASC").Scan(&rows).Error; err != nil {
		return nil, handleDBError(err, "export enrollments")
	}
	return rows, nil
}
