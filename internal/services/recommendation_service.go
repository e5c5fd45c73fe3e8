package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/SAP-F-2025/learning-service/internal/ai"
	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/SAP-F-2025/learning-service/internal/utils"
)

const (
	DefaultRecommendationLimit = 6
	MaxRecommendationLimit     = 20
)

type recommendationService struct {
	deps *Dependencies
}

func NewRecommendationService(deps *Dependencies) RecommendationService {
	return &recommendationService{deps: deps}
}

// Recommend asks the model for categories and keywords that fit the student's profile and
// matches them against published courses. Any failure along the way, or an empty match,
// falls back to the most popular courses.
func (s *recommendationService) Recommend(ctx context.Context, userID string, limit int) (*RecommendationResponse, error) {
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}
	if limit > MaxRecommendationLimit {
		limit = MaxRecommendationLimit
	}

	return cached(ctx, s.deps.Cache, s.deps.Cache.Recommendation, cache.RecommendationKey(userID, limit), cache.RecommendationCacheConfig.TTL,
		func() (*RecommendationResponse, error) {
			return s.recommend(ctx, userID, limit)
		})
}

func (s *recommendationService) recommend(ctx context.Context, userID string, limit int) (*RecommendationResponse, error) {
	enrolled, err := s.deps.Repo.Enrollment().CourseIDsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load enrollments: %w", err)
	}

	courses, err := s.fromAI(ctx, userID, enrolled, limit)
	if err != nil {
		s.deps.Logger.Warn("AI recommendation failed, using popular courses", "user_id", userID, utils.Err(err))
	}
	if err == nil && len(courses) > 0 {
		return &RecommendationResponse{Source: RecommendationSourceAI, Courses: courses}, nil
	}

	popular, err := s.deps.Repo.Course().Popular(ctx, enrolled, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load popular courses: %w", err)
	}
	if popular == nil {
		popular = []*models.Course{}
	}
	return &RecommendationResponse{Source: RecommendationSourcePopular, Courses: popular}, nil
}

func (s *recommendationService) fromAI(ctx context.Context, userID string, exclude []uint, limit int) ([]*models.Course, error) {
	if s.deps.AI == nil {
		return nil, ErrAINotConfigured
	}

	profile, err := s.deps.Repo.StudentProfile().GetByUserID(ctx, userID)
	if err != nil {
		return nil, orNotFound(err, ErrProfileNotFound)
	}

	var hints ai.RecommendationHints
	if err := s.deps.AI.ChatJSON(ctx, ai.RecommendationPrompt(profile), &hints); err != nil {
		return nil, err
	}

	return s.deps.Repo.Course().FindByHints(ctx, repositories.RecommendationQuery{
		Categories: hints.Categories,
		Keywords:   hints.Keywords,
		Level:      parseLevel(hints.Level),
		ExcludeIDs: exclude,
		Limit:      limit,
	})
}

// parseLevel ignores anything that is not a known course level
func parseLevel(s string) *models.CourseLevel {
	level := models.CourseLevel(strings.ToLower(strings.TrimSpace(s)))
	switch level {
	case models.LevelBeginner, models.LevelIntermediate, models.LevelAdvanced:
		return &level
	}
	return nil
}
