package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateCourseCache drops the cached detail of a course, every cached catalog page,
// and aggregates that depend on it
func InvalidateCourseCache(ctx context.Context, cm *CacheManager, courseID uint) {
	if !cm.Enabled() {
		return
	}
	SafeDelete(ctx, cm.Course, CourseDetailKey(courseID))
	SafeInvalidatePattern(ctx, cm.Course, "list:*")
	SafeInvalidatePattern(ctx, cm.Course, "categories*")
	SafeInvalidatePattern(ctx, cm.Stats, "*")
}

// InvalidateRecommendations drops a student's cached recommendations
func InvalidateRecommendations(ctx context.Context, cm *CacheManager, userID string) {
	if !cm.Enabled() {
		return
	}
	SafeInvalidatePattern(ctx, cm.Recommendation, userID+":*")
}

func CourseDetailKey(courseID uint) string {
	return fmt.Sprintf("id:%d", courseID)
}

func CourseListKey(hash string) string {
	return "list:" + hash
}

func RecommendationKey(userID string, limit int) string {
	return fmt.Sprintf("%s:%d", userID, limit)
}
