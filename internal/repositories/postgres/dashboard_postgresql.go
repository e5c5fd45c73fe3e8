package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
)

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) repositories.DashboardRepository {
	return &dashboardRepository{db: db}
}

// ===== EDUCATOR DASHBOARD =====

func (r *dashboardRepository) EducatorDashboard(ctx context.Context, educatorID string) (*models.EducatorDashboard, error) {
	var totals struct {
		TotalCourses     int64
		PublishedCourses int64
		TotalReviews     int64
		RatedSum         float64
	}
	if err := r.db.WithContext(ctx).Model(&models.Course{}).
		Select(`COUNT(*) AS total_courses,
			COUNT(*) FILTER (WHERE status = ?) AS published_courses,
			COALESCE(SUM(review_count), 0) AS total_reviews,
			COALESCE(SUM(average_rating * review_count), 0) AS rated_sum`, models.CoursePublished).
		Where("educator_id = ?", educatorID).
		Scan(&totals).Error; err != nil {
		return nil, handleDBError(err, "aggregate educator courses")
	}

	var students int64
	if err := r.db.WithContext(ctx).
		Table("enrollments e").
		Joins("JOIN courses c ON c.id = e.course_id AND c.deleted_at IS NULL").
		Where("c.educator_id = ?", educatorID).
		Distinct("e.user_id").
		Count(&students).Error; err != nil {
		return nil, handleDBError(err, "count educator students")
	}

	stats, err := r.CourseStats(ctx, educatorID)
	if err != nil {
		return nil, err
	}

	dashboard := &models.EducatorDashboard{
		TotalCourses:     totals.TotalCourses,
		PublishedCourses: totals.PublishedCourses,
		TotalStudents:    students,
		TotalReviews:     totals.TotalReviews,
		Courses:          stats,
	}
	// review-weighted mean across the educator's courses
	if totals.TotalReviews > 0 {
		dashboard.AverageRating = models.RoundRating(totals.RatedSum / float64(totals.TotalReviews))
	}
	return dashboard, nil
}

func (r *dashboardRepository) CourseStats(ctx context.Context, educatorID string) ([]models.CourseEnrollmentStat, error) {
	stats := []models.CourseEnrollmentStat{}
	if err := r.db.WithContext(ctx).
		Table("courses c").
		Select(`c.id AS course_id, c.title, c.status, c.average_rating,
			COUNT(e.id) AS enrollment_count,
			COUNT(e.id) FILTER (WHERE e.status = ?) AS completed_count,
			COALESCE(AVG(e.progress), 0) AS average_progress`, models.EnrollmentCompleted).
		Joins("LEFT JOIN enrollments e ON e.course_id = c.id").
		Where("c.educator_id = ? AND c.deleted_at IS NULL", educatorID).
		Group("c.id, c.title, c.status, c.average_rating").
		Order("c.created_at DESC").
		Scan(&stats).Error; err != nil {
		return nil, handleDBError(err, "aggregate course stats")
	}

	for i := range stats {
		stats[i].AverageProgress = models.RoundRating(stats[i].AverageProgress)
	}
	return stats, nil
}

// ===== STUDENT DASHBOARD =====

func (r *dashboardRepository) StudentStats(ctx context.Context, userID string) (*repositories.StudentEnrollmentStats, error) {
	var stats repositories.StudentEnrollmentStats
	if err := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Select(`COUNT(*) FILTER (WHERE status = ?) AS active,
			COUNT(*) FILTER (WHERE status = ?) AS completed,
			COUNT(*) FILTER (WHERE status = ?) AS dropped,
			COALESCE(AVG(progress) FILTER (WHERE status <> ?), 0) AS average_progress`,
			models.EnrollmentActive, models.EnrollmentCompleted, models.EnrollmentDropped, models.EnrollmentDropped).
		Where("user_id = ?", userID).
		Scan(&stats).Error; err != nil {
		return nil, handleDBError(err, "aggregate student enrollments")
	}
	stats.AverageProgress = models.RoundRating(stats.AverageProgress)
	return &stats, nil
}

// ===== ADMIN STATS =====

func (r *dashboardRepository) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	stats := &models.AdminStats{
		UsersByRole:     make(map[models.UserRole]int64),
		CoursesByStatus: make(map[models.CourseStatus]int64),
		GeneratedAt:     time.Now().UTC(),
	}

	var roles []struct {
		Role  models.UserRole
		Count int64
	}
	if err := r.db.WithContext(ctx).Model(&models.User{}).
		Select("role, COUNT(*) AS count").
		Group("role").
		Scan(&roles).Error; err != nil {
		return nil, handleDBError(err, "count users by role")
	}
	for _, row := range roles {
		stats.UsersByRole[row.Role] = row.Count
	}

	var statuses []struct {
		Status models.CourseStatus
		Count  int64
	}
	if err := r.db.WithContext(ctx).Model(&models.Course{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&statuses).Error; err != nil {
		return nil, handleDBError(err, "count courses by status")
	}
	for _, row := range statuses {
		stats.CoursesByStatus[row.Status] = row.Count
	}

	var enrollments struct {
		Total     int64
		Completed int64
	}
	if err := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Select("COUNT(*) AS total, COUNT(*) FILTER (WHERE status = ?) AS completed", models.EnrollmentCompleted).
		Scan(&enrollments).Error; err != nil {
		return nil, handleDBError(err, "count enrollments")
	}
	stats.TotalEnrollments = enrollments.Total
	stats.Completions = enrollments.Completed

	var reviews struct {
		Total int64
		Avg   float64
	}
	if err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("COUNT(*) AS total, COALESCE(AVG(rating), 0) AS avg").
		Scan(&reviews).Error; err != nil {
		return nil, handleDBError(err, "aggregate reviews")
	}
	stats.TotalReviews = reviews.Total
	stats.AverageRating = models.RoundRating(reviews.Avg)

	return stats, nil
}
