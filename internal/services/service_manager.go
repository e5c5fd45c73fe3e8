package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/learning-service/internal/ai"
	"github.com/SAP-F-2025/learning-service/internal/auth"
	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/events"
	"github.com/SAP-F-2025/learning-service/internal/mailer"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/SAP-F-2025/learning-service/internal/validator"
)

// Dependencies are the collaborators shared by every service.
// Documents, AI, Storage, Search and Identity are nil when the integration is not configured.
type Dependencies struct {
	Repo      repositories.Repository
	Documents repositories.DocumentStore
	Cache     *cache.CacheManager
	Publisher events.EventPublisher
	AI        ai.Client
	Storage   repositories.ObjectStorage
	Search    repositories.CourseSearchIndex
	Identity  repositories.IdentityProvider
	Mailer    mailer.Sender
	JWT       *auth.JWTManager
	Validator *validator.Validator
	Logger    *slog.Logger

	// FrontendURL prefixes links sent by email
	FrontendURL string

	Now func() time.Time
}

func (d *Dependencies) now() time.Time {
	if d.Now != nil {
		return d.Now().UTC()
	}
	return time.Now().UTC()
}

func (d *Dependencies) requireDocuments() error {
	if d.Documents == nil {
		return ErrDocumentsNotConfigured
	}
	return nil
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	deps *Dependencies

	authService           AuthService
	profileService        ProfileService
	courseService         CourseService
	enrollmentService     EnrollmentService
	recommendationService RecommendationService
	reviewService         ReviewService
	moodService           MoodService
	discussionService     DiscussionService
	aiContentService      AIContentService
	counselingService     CounselingService
	uploadService         UploadService
	adminService          AdminService
	exportService         ExportService
	dashboardService      DashboardService
}

// NewServiceManager wires every service over the shared dependencies
func NewServiceManager(deps *Dependencies) ServiceManager {
	if deps.Cache == nil {
		deps.Cache = cache.NewCacheManager(nil)
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}

	courseService := NewCourseService(deps)
	sm := &serviceManager{
		deps:                  deps,
		authService:           NewAuthService(deps),
		profileService:        NewProfileService(deps),
		courseService:         courseService,
		enrollmentService:     NewEnrollmentService(deps),
		recommendationService: NewRecommendationService(deps),
		reviewService:         NewReviewService(deps),
		moodService:           NewMoodService(deps),
		discussionService:     NewDiscussionService(deps),
		aiContentService:      NewAIContentService(deps, courseService),
		counselingService:     NewCounselingService(deps),
		uploadService:         NewUploadService(deps),
		adminService:          NewAdminService(deps),
		exportService:         NewExportService(deps),
		dashboardService:      NewDashboardService(deps),
	}

	deps.Logger.Info("Service manager initialized",
		"ai_enabled", deps.AI != nil,
		"storage_enabled", deps.Storage != nil,
		"search_enabled", deps.Search != nil,
		"sso_enabled", deps.Identity != nil,
		"cache_enabled", deps.Cache.Enabled())

	return sm
}

func (sm *serviceManager) Auth() AuthService                     { return sm.authService }
func (sm *serviceManager) Profile() ProfileService               { return sm.profileService }
func (sm *serviceManager) Course() CourseService                 { return sm.courseService }
func (sm *serviceManager) Enrollment() EnrollmentService         { return sm.enrollmentService }
func (sm *serviceManager) Recommendation() RecommendationService { return sm.recommendationService }
func (sm *serviceManager) Review() ReviewService                 { return sm.reviewService }
func (sm *serviceManager) Mood() MoodService                     { return sm.moodService }
func (sm *serviceManager) Discussion() DiscussionService         { return sm.discussionService }
func (sm *serviceManager) AIContent() AIContentService           { return sm.aiContentService }
func (sm *serviceManager) Counseling() CounselingService         { return sm.counselingService }
func (sm *serviceManager) Upload() UploadService                 { return sm.uploadService }
func (sm *serviceManager) Admin() AdminService                   { return sm.adminService }
func (sm *serviceManager) Export() ExportService                 { return sm.exportService }
func (sm *serviceManager) Dashboard() DashboardService           { return sm.dashboardService }

// HealthCheck pings every backing store; a nil entry means healthy
func (sm *serviceManager) HealthCheck(ctx context.Context) map[string]error {
	checks := map[string]error{
		"postgres": sm.deps.Repo.Ping(ctx),
	}
	if sm.deps.Documents != nil {
		checks["mongo"] = sm.deps.Documents.Ping(ctx)
	}
	if sm.deps.Cache.Enabled() {
		checks["redis"] = sm.deps.Cache.HealthCheck(ctx)
	}
	if sm.deps.Storage != nil {
		checks["minio"] = sm.deps.Storage.Ping(ctx)
	}
	return checks
}

// Shutdown closes the event publisher and every store
func (sm *serviceManager) Shutdown(ctx context.Context) error {
	var firstErr error
	record := func(name string, err error) {
		if err == nil {
			return
		}
		sm.deps.Logger.Error("Failed to shut down dependency", "dependency", name, "error", err)
		if firstErr == nil {
			firstErr = fmt.Errorf("shutdown %s: %w", name, err)
		}
	}

	if sm.deps.Publisher != nil {
		record("publisher", sm.deps.Publisher.Close())
	}
	if sm.deps.Documents != nil {
		record("mongo", sm.deps.Documents.Close(ctx))
	}
	record("postgres", sm.deps.Repo.Close())

	return firstErr
}
