package repositories

import (
	"context"

	"github.com/SAP-F-2025/learning-service/internal/models"
)

// StudentEnrollmentStats summarizes a student's enrollments
type StudentEnrollmentStats struct {
	Active          int64   `json:"active"`
	Completed       int64   `json:"completed"`
	Dropped         int64   `json:"dropped"`
	AverageProgress float64 `json:"average_progress"`
}

// DashboardRepository interface for dashboard analytics operations
type DashboardRepository interface {
	EducatorDashboard(ctx context.Context, educatorID string) (*models.EducatorDashboard, error)
	CourseStats(ctx context.Context, educatorID string) ([]models.CourseEnrollmentStat, error)
	StudentStats(ctx context.Context, userID string) (*StudentEnrollmentStats, error)
	AdminStats(ctx context.Context) (*models.AdminStats, error)
}
