package repositories

import (
	"context"
	"time"

	"github.com/SAP-F-2025/learning-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type CourseFilters struct {
	Category   string               `json:"category"`
	Level      *models.CourseLevel  `json:"level"`
	Search     string               `json:"search"`
	IDs        []uint               `json:"ids"` // restrict to these ids, e.g. search index hits
	MinRating  *float64             `json:"min_rating"`
	MinPrice   *float64             `json:"min_price"`
	MaxPrice   *float64             `json:"max_price"`
	Status     *models.CourseStatus `json:"status"`
	EducatorID string               `json:"educator_id"`
	Limit      int                  `json:"limit"`
	Offset     int                  `json:"offset"`
	SortBy     string               `json:"sort_by"`    // "created_at", "enrollment_count", "average_rating", "price", "title"
	SortOrder  string               `json:"sort_order"` // "asc", "desc"
}

// RecommendationQuery is derived from the AI reply; every term is matched case-insensitively
type RecommendationQuery struct {
	Categories []string
	Keywords   []string
	Level      *models.CourseLevel
	ExcludeIDs []uint
	Limit      int
}

type EnrollmentFilters struct {
	Status *models.EnrollmentStatus `json:"status"`
	Limit  int                      `json:"limit"`
	Offset int                      `json:"offset"`
}

type MoodFilters struct {
	From  *time.Time
	To    *time.Time
	Limit int
}

type UserFilters struct {
	Role     *models.UserRole `json:"role"`
	IsActive *bool            `json:"is_active"`
	Query    string           `json:"query"` // name or email
	Limit    int              `json:"limit"`
	Offset   int              `json:"offset"`
}

type ActivityFilters struct {
	UserID string `json:"user_id"`
	Action string `json:"action"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

// ===== RELATIONAL REPOSITORIES =====

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByResetTokenHash(ctx context.Context, hash string, now time.Time) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type StudentProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.StudentProfile, error)
	Upsert(ctx context.Context, profile *models.StudentProfile) error
}

type EducatorProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.EducatorProfile, error)
	Upsert(ctx context.Context, profile *models.EducatorProfile) error
}

type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id uint) (*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filters CourseFilters) ([]*models.Course, int64, error)
	Categories(ctx context.Context) ([]string, error)
	FindByHints(ctx context.Context, query RecommendationQuery) ([]*models.Course, error)
	Popular(ctx context.Context, excludeIDs []uint, limit int) ([]*models.Course, error)
	IncrementEnrollmentCount(ctx context.Context, id uint, delta int) error
}

type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	GetByUserAndCourse(ctx context.Context, userID string, courseID uint) (*models.Enrollment, error)
	Update(ctx context.Context, enrollment *models.Enrollment) error
	ListByUser(ctx context.Context, userID string, filters EnrollmentFilters) ([]*models.Enrollment, int64, error)
	ListByCourse(ctx context.Context, courseID uint, filters EnrollmentFilters) ([]*models.Enrollment, int64, error)
	CourseIDsByUser(ctx context.Context, userID string) ([]uint, error)
	CountByCourse(ctx context.Context, courseID uint) (int64, error)
	ExportRows(ctx context.Context, courseID *uint) ([]models.EnrollmentExportRow, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id uint) (*models.Review, error)
	GetByUserAndCourse(ctx context.Context, userID string, courseID uint) (*models.Review, error)
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, review *models.Review) error
	ListByCourse(ctx context.Context, courseID uint, limit, offset int) ([]*models.Review, int64, error)
}

type MoodRepository interface {
	Create(ctx context.Context, entry *models.MoodEntry) error
	GetByID(ctx context.Context, id uint) (*models.MoodEntry, error)
	GetByUserAndDate(ctx context.Context, userID string, day time.Time) (*models.MoodEntry, error)
	Update(ctx context.Context, entry *models.MoodEntry) error
	Delete(ctx context.Context, entry *models.MoodEntry) error
	ListByUser(ctx context.Context, userID string, filters MoodFilters) ([]*models.MoodEntry, error)
}

// ===== DOCUMENT REPOSITORIES =====

type DiscussionRepository interface {
	Create(ctx context.Context, discussion *models.Discussion) error
	GetByID(ctx context.Context, id string) (*models.Discussion, error)
	ListByCourse(ctx context.Context, courseID uint, limit, offset int) ([]*models.Discussion, int64, error)
	AddReply(ctx context.Context, id string, reply models.DiscussionReply) error
	SetPinned(ctx context.Context, id string, pinned bool) error
	Delete(ctx context.Context, id string) error
}

type ActivityRepository interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
	List(ctx context.Context, filters ActivityFilters) ([]*models.ActivityLog, int64, error)
}

type CounselingRepository interface {
	Create(ctx context.Context, session *models.CounselingSession) error
	GetByID(ctx context.Context, id string) (*models.CounselingSession, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.CounselingSession, error)
	AppendMessages(ctx context.Context, id string, messages ...models.ChatMessage) error
}
