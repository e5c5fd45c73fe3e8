package repositories

import (
	"context"
	"errors"
	"io"

	"github.com/SAP-F-2025/learning-service/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// Repository groups the relational repositories
type Repository interface {
	// Identity domain
	User() UserRepository
	StudentProfile() StudentProfileRepository
	EducatorProfile() EducatorProfileRepository

	// Catalog domain
	Course() CourseRepository
	Enrollment() EnrollmentRepository
	Review() ReviewRepository

	// Wellbeing domain
	Mood() MoodRepository

	// Dashboard domain
	Dashboard() DashboardRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// DocumentStore groups the mongo-backed repositories
type DocumentStore interface {
	Discussion() DiscussionRepository
	Activity() ActivityRepository
	Counseling() CounselingRepository

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	// Initialize repositories with database connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Health check for all repositories
	HealthCheck(ctx context.Context) error

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}

// ===== EXTERNAL STORES =====

// ObjectStorage stores uploaded and generated media
type ObjectStorage interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// CourseSearchIndex is an optional full-text index of published courses
type CourseSearchIndex interface {
	IndexCourse(ctx context.Context, course *models.Course) error
	DeleteCourse(ctx context.Context, id uint) error
	Search(ctx context.Context, query string, limit int) ([]uint, error)
}

// ExternalIdentity is the user profile returned by an SSO provider
type ExternalIdentity struct {
	Subject   string
	Email     string
	Name      string
	AvatarURL string
	// Role is a hint from the provider; callers never grant admin from it
	Role models.UserRole
}

// IdentityProvider exchanges an OAuth authorization code for a user identity
type IdentityProvider interface {
	AuthCodeURL(state, redirectURI string) string
	Exchange(ctx context.Context, code, state string) (*ExternalIdentity, error)
}
