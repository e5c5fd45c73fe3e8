package services

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/SAP-F-2025/learning-service/internal/utils"
)

const (
	recentActivityLimit = 10
	recentCoursesLimit  = 5
)

type dashboardService struct {
	deps *Dependencies
}

func NewDashboardService(deps *Dependencies) DashboardService {
	return &dashboardService{deps: deps}
}

// Educator aggregates the educator's courses; cached until a course or review changes
func (s *dashboardService) Educator(ctx context.Context, educatorID string) (*models.EducatorDashboard, error) {
	return cached(ctx, s.deps.Cache, s.deps.Cache.Stats, "educator:"+educatorID, cache.StatsCacheConfig.TTL,
		func() (*models.EducatorDashboard, error) {
			dashboard, err := s.deps.Repo.Dashboard().EducatorDashboard(ctx, educatorID)
			if err != nil {
				return nil, fmt.Errorf("failed to build educator dashboard: %w", err)
			}
			return dashboard, nil
		})
}

func (s *dashboardService) Student(ctx context.Context, userID string) (*models.StudentDashboard, error) {
	stats, err := s.deps.Repo.Dashboard().StudentStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load enrollment stats: %w", err)
	}

	recent, _, err := s.deps.Repo.Enrollment().ListByUser(ctx, userID, repositories.EnrollmentFilters{Limit: recentCoursesLimit})
	if err != nil {
		return nil, fmt.Errorf("failed to load recent courses: %w", err)
	}

	streak, err := moodStreak(ctx, s.deps, userID)
	if err != nil {
		return nil, err
	}

	today, err := s.deps.Repo.Mood().GetByUserAndDate(ctx, userID, s.deps.now())
	if err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("failed to load today's mood: %w", err)
	}

	dashboard := &models.StudentDashboard{
		ActiveCourses:    stats.Active,
		CompletedCourses: stats.Completed,
		DroppedCourses:   stats.Dropped,
		AverageProgress:  stats.AverageProgress,
		MoodStreak:       streak,
		TodayMood:        today,
		RecentCourses:    recent,
		RecentActivity:   []*models.ActivityLog{},
	}
	if dashboard.RecentCourses == nil {
		dashboard.RecentCourses = []*models.Enrollment{}
	}

	// the activity log is best effort; a mongo outage must not hide the dashboard
	if s.deps.Documents != nil {
		activity, _, err := s.deps.Documents.Activity().List(ctx, repositories.ActivityFilters{UserID: userID, Limit: recentActivityLimit})
		if err != nil {
			s.deps.Logger.Warn("Failed to load recent activity", "user_id", userID, utils.Err(err))
		} else if activity != nil {
			dashboard.RecentActivity = activity
		}
	}
	return dashboard, nil
}
