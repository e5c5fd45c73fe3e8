package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/datatypes"

	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
)

const publicEducatorCourseLimit = 50

type profileService struct {
	deps *Dependencies
}

func NewProfileService(deps *Dependencies) ProfileService {
	return &profileService{deps: deps}
}

// ===== STUDENT PROFILE =====

func (s *profileService) GetStudentProfile(ctx context.Context, userID string) (*models.StudentProfile, error) {
	profile, err := s.deps.Repo.StudentProfile().GetByUserID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return &models.StudentProfile{UserID: userID}, nil
		}
		return nil, err
	}
	return profile, nil
}

func (s *profileService) UpdateStudentProfile(ctx context.Context, userID string, req *StudentProfileRequest) (*models.StudentProfile, error) {
	if err := validate(s.deps.Validator, req); err != nil {
		return nil, err
	}

	profile, err := s.GetStudentProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Interests != nil {
		profile.Interests = datatypes.JSONSlice[string](trimAll(req.Interests))
	}
	if req.LearningGoals != nil {
		profile.LearningGoals = datatypes.JSONSlice[string](trimAll(req.LearningGoals))
	}
	if req.EducationLevel != nil {
		profile.EducationLevel = strings.TrimSpace(*req.EducationLevel)
	}
	if req.LearningStyle != nil {
		profile.LearningStyle = *req.LearningStyle
	}
	if req.WeeklyHours != nil {
		profile.WeeklyHours = *req.WeeklyHours
	}

	if err := s.deps.Repo.StudentProfile().Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save student profile: %w", err)
	}

	// recommendations are derived from the profile
	cache.InvalidateRecommendations(ctx, s.deps.Cache, userID)
	return profile, nil
}

func (s *profileService) CompleteStudentOnboarding(ctx context.Context, userID string) (*models.StudentProfile, error) {
	profile, err := s.GetStudentProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if errs := s.deps.Validator.GetBusinessValidator().ValidateStudentOnboarding(profile); len(errs) > 0 {
		return nil, errs
	}

	profile.OnboardingCompleted = true
	if err := s.deps.Repo.StudentProfile().Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to complete onboarding: %w", err)
	}
	cache.InvalidateRecommendations(ctx, s.deps.Cache, userID)
	return profile, nil
}

// ===== EDUCATOR PROFILE =====

func (s *profileService) GetEducatorProfile(ctx context.Context, userID string) (*models.EducatorProfile, error) {
	profile, err := s.deps.Repo.EducatorProfile().GetByUserID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return &models.EducatorProfile{UserID: userID}, nil
		}
		return nil, err
	}
	return profile, nil
}

func (s *profileService) UpdateEducatorProfile(ctx context.Context, userID string, req *EducatorProfileRequest) (*models.EducatorProfile, error) {
	if err := validate(s.deps.Validator, req); err != nil {
		return nil, err
	}

	profile, err := s.GetEducatorProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Headline != nil {
		profile.Headline = strings.TrimSpace(*req.Headline)
	}
	if req.Bio != nil {
		profile.Bio = strings.TrimSpace(*req.Bio)
	}
	if req.Expertise != nil {
		profile.Expertise = datatypes.JSONSlice[string](trimAll(req.Expertise))
	}
	if req.Qualifications != nil {
		profile.Qualifications = datatypes.JSONSlice[string](trimAll(req.Qualifications))
	}
	if req.YearsOfExperience != nil {
		profile.YearsOfExperience = *req.YearsOfExperience
	}
	if req.Website != nil {
		profile.Website = req.Website
	}
	if req.SocialLinks != nil {
		links := make(datatypes.JSONMap, len(req.SocialLinks))
		for k, v := range req.SocialLinks {
			links[k] = v
		}
		profile.SocialLinks = links
	}

	if err := s.deps.Repo.EducatorProfile().Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save educator profile: %w", err)
	}
	return profile, nil
}

func (s *profileService) CompleteEducatorOnboarding(ctx context.Context, userID string) (*models.EducatorProfile, error) {
	profile, err := s.GetEducatorProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if errs := s.deps.Validator.GetBusinessValidator().ValidateEducatorOnboarding(profile); len(errs) > 0 {
		return nil, errs
	}

	profile.OnboardingCompleted = true
	if err := s.deps.Repo.EducatorProfile().Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to complete onboarding: %w", err)
	}
	return profile, nil
}

// GetPublicEducator returns what any visitor may see about an educator
func (s *profileService) GetPublicEducator(ctx context.Context, educatorID string) (*PublicEducatorResponse, error) {
	user, err := s.deps.Repo.User().GetByID(ctx, educatorID)
	if err != nil {
		return nil, orNotFound(err, ErrUserNotFound)
	}
	if user.Role != models.RoleEducator || !user.IsActive {
		return nil, ErrUserNotFound
	}

	profile, err := s.GetEducatorProfile(ctx, educatorID)
	if err != nil {
		return nil, err
	}

	published := models.CoursePublished
	courses, _, err := s.deps.Repo.Course().List(ctx, repositories.CourseFilters{
		EducatorID: educatorID,
		Status:     &published,
		Limit:      publicEducatorCourseLimit,
		SortBy:     "published_at",
		SortOrder:  "desc",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list educator courses: %w", err)
	}

	summaries := make([]models.CourseSummary, 0, len(courses))
	for _, c := range courses {
		summaries = append(summaries, c.Summary())
	}

	return &PublicEducatorResponse{
		Educator: user.Summary(),
		Profile:  profile,
		Courses:  summaries,
	}, nil
}

func trimAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if t := strings.TrimSpace(item); t != "" {
			out = append(out, t)
		}
	}
	return out
}
