package services

import (
	"context"
	"io"
	"time"

	"github.com/SAP-F-2025/learning-service/internal/ai"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/validator"
)

// ===== REQUEST DTOs =====

// Use validator request types
type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest
type ForgotPasswordRequest = validator.ForgotPasswordRequest
type ResetPasswordRequest = validator.ResetPasswordRequest
type ChangePasswordRequest = validator.ChangePasswordRequest

type StudentProfileRequest = validator.StudentProfileRequest
type EducatorProfileRequest = validator.EducatorProfileRequest

type CreateCourseRequest = validator.CourseCreateRequest
type UpdateCourseRequest = validator.CourseUpdateRequest
type CourseListParams = validator.CourseListParams

type ProgressRequest = validator.ProgressRequest
type EnrollmentListParams = validator.EnrollmentListParams

type CreateReviewRequest = validator.ReviewCreateRequest
type UpdateReviewRequest = validator.ReviewUpdateRequest

type CreateMoodRequest = validator.MoodCreateRequest
type UpdateMoodRequest = validator.MoodUpdateRequest
type MoodListParams = validator.MoodListParams

type CreateDiscussionRequest = validator.DiscussionCreateRequest
type CreateReplyRequest = validator.ReplyCreateRequest

type CourseOutlineRequest = validator.CourseOutlineRequest
type CourseDescriptionRequest = validator.CourseDescriptionRequest
type QuizRequest = validator.QuizRequest
type ThumbnailRequest = validator.ThumbnailRequest
type CounselingSessionRequest = validator.CounselingSessionRequest
type CounselingMessageRequest = validator.CounselingMessageRequest

type UserListParams = validator.UserListParams
type ActivityListParams = validator.ActivityListParams

// UploadedFile is an already validated upload
type UploadedFile struct {
	Reader      io.Reader
	Size        int64
	ContentType string
	Extension   string
}

// ===== RESPONSE DTOs =====

type AuthResult struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

type MeResponse struct {
	User                *models.User            `json:"user"`
	OnboardingCompleted bool                    `json:"onboarding_completed"`
	StudentProfile      *models.StudentProfile  `json:"student_profile,omitempty"`
	EducatorProfile     *models.EducatorProfile `json:"educator_profile,omitempty"`
}

type PublicEducatorResponse struct {
	Educator models.UserSummary      `json:"educator"`
	Profile  *models.EducatorProfile `json:"profile"`
	Courses  []models.CourseSummary  `json:"courses"`
}

type CourseResponse struct {
	*models.Course
	CanEdit    bool `json:"can_edit"`
	IsEnrolled bool `json:"is_enrolled"`
}

type RecommendationResponse struct {
	Source  string           `json:"source"`
	Courses []*models.Course `json:"courses"`
}

const (
	RecommendationSourceAI      = "ai"
	RecommendationSourcePopular = "popular"
)

type ThumbnailResponse struct {
	URL      string `json:"url"`
	CourseID *uint  `json:"course_id,omitempty"`
}

type CounselingReply struct {
	SessionID string             `json:"session_id"`
	Message   models.ChatMessage `json:"message"`
	Reply     models.ChatMessage `json:"reply"`
}

type UploadResponse struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// ExportFile is a generated spreadsheet
type ExportFile struct {
	Filename string
	Content  []byte
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResult, error)
	Me(ctx context.Context, userID string) (*MeResponse, error)
	ForgotPassword(ctx context.Context, req *ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req *ResetPasswordRequest) error
	ChangePassword(ctx context.Context, userID string, req *ChangePasswordRequest) error

	// Token verification for the auth middleware
	Authenticate(ctx context.Context, token string) (*Actor, error)

	// Single sign-on
	SSOEnabled() bool
	SSOLoginURL(state, redirectURI string) (string, error)
	SSOCallback(ctx context.Context, code, state string) (*AuthResult, error)
}

type ProfileService interface {
	GetStudentProfile(ctx context.Context, userID string) (*models.StudentProfile, error)
	UpdateStudentProfile(ctx context.Context, userID string, req *StudentProfileRequest) (*models.StudentProfile, error)
	CompleteStudentOnboarding(ctx context.Context, userID string) (*models.StudentProfile, error)

	GetEducatorProfile(ctx context.Context, userID string) (*models.EducatorProfile, error)
	UpdateEducatorProfile(ctx context.Context, userID string, req *EducatorProfileRequest) (*models.EducatorProfile, error)
	CompleteEducatorOnboarding(ctx context.Context, userID string) (*models.EducatorProfile, error)

	GetPublicEducator(ctx context.Context, educatorID string) (*PublicEducatorResponse, error)
}

type CourseService interface {
	// Catalog
	List(ctx context.Context, params *CourseListParams) (*models.PaginatedResponse, error)
	GetByID(ctx context.Context, id uint, actor *Actor) (*CourseResponse, error)
	Categories(ctx context.Context) ([]string, error)

	// Educator management
	Create(ctx context.Context, actor Actor, req *CreateCourseRequest) (*models.Course, error)
	Update(ctx context.Context, actor Actor, id uint, req *UpdateCourseRequest) (*models.Course, error)
	Delete(ctx context.Context, actor Actor, id uint) error
	Publish(ctx context.Context, actor Actor, id uint) (*models.Course, error)
	Archive(ctx context.Context, actor Actor, id uint) (*models.Course, error)
	ListByEducator(ctx context.Context, educatorID string, params *CourseListParams) (*models.PaginatedResponse, error)
	Students(ctx context.Context, actor Actor, id uint, params *EnrollmentListParams) (*models.PaginatedResponse, error)
	SetThumbnail(ctx context.Context, actor Actor, id uint, url string) (*models.Course, error)

	// Admin
	AdminList(ctx context.Context, params *CourseListParams) (*models.PaginatedResponse, error)
	UpdateStatus(ctx context.Context, actor Actor, id uint, status models.CourseStatus) (*models.Course, error)
}

type EnrollmentService interface {
	Enroll(ctx context.Context, userID string, courseID uint) (*models.Enrollment, error)
	Drop(ctx context.Context, userID string, courseID uint) (*models.Enrollment, error)
	ListMine(ctx context.Context, userID string, params *EnrollmentListParams) (*models.PaginatedResponse, error)
	UpdateProgress(ctx context.Context, userID string, courseID uint, req *ProgressRequest) (*models.Enrollment, error)
}

type RecommendationService interface {
	Recommend(ctx context.Context, userID string, limit int) (*RecommendationResponse, error)
}

type ReviewService interface {
	Create(ctx context.Context, userID string, courseID uint, req *CreateReviewRequest) (*models.Review, error)
	Update(ctx context.Context, actor Actor, id uint, req *UpdateReviewRequest) (*models.Review, error)
	Delete(ctx context.Context, actor Actor, id uint) error
	ListByCourse(ctx context.Context, courseID uint, params models.PageParams) (*models.PaginatedResponse, error)
}

type MoodService interface {
	Create(ctx context.Context, userID string, req *CreateMoodRequest) (*models.MoodEntry, error)
	Update(ctx context.Context, userID string, id uint, req *UpdateMoodRequest) (*models.MoodEntry, error)
	Delete(ctx context.Context, userID string, id uint) error
	List(ctx context.Context, userID string, params *MoodListParams) ([]*models.MoodEntry, error)
	Today(ctx context.Context, userID string) (*models.MoodEntry, error)
	Stats(ctx context.Context, userID string, days int) (*models.MoodStats, error)
}

type DiscussionService interface {
	ListByCourse(ctx context.Context, actor Actor, courseID uint, params models.PageParams) (*models.PaginatedResponse, error)
	Create(ctx context.Context, actor Actor, courseID uint, req *CreateDiscussionRequest) (*models.Discussion, error)
	Get(ctx context.Context, actor Actor, id string) (*models.Discussion, error)
	Reply(ctx context.Context, actor Actor, id string, req *CreateReplyRequest) (*models.Discussion, error)
	Delete(ctx context.Context, actor Actor, id string) error
	SetPinned(ctx context.Context, actor Actor, id string, pinned bool) (*models.Discussion, error)
}

type AIContentService interface {
	CourseOutline(ctx context.Context, req *CourseOutlineRequest) (*ai.CourseOutline, error)
	CourseDescription(ctx context.Context, req *CourseDescriptionRequest) (*ai.CourseDescription, error)
	Quiz(ctx context.Context, actor Actor, req *QuizRequest) (*ai.Quiz, error)
	Thumbnail(ctx context.Context, actor Actor, req *ThumbnailRequest) (*ThumbnailResponse, error)
}

type CounselingService interface {
	CreateSession(ctx context.Context, userID string, req *CounselingSessionRequest) (*models.CounselingSession, error)
	ListSessions(ctx context.Context, userID string) ([]*models.CounselingSession, error)
	GetSession(ctx context.Context, userID, id string) (*models.CounselingSession, error)
	SendMessage(ctx context.Context, userID, id string, req *CounselingMessageRequest) (*CounselingReply, error)
}

type UploadService interface {
	UploadImage(ctx context.Context, userID string, file UploadedFile) (*UploadResponse, error)
	UpdateAvatar(ctx context.Context, userID string, file UploadedFile) (*models.User, error)
}

type AdminService interface {
	ListUsers(ctx context.Context, params *UserListParams) (*models.PaginatedResponse, error)
	UpdateRole(ctx context.Context, actor Actor, userID string, role models.UserRole) (*models.User, error)
	UpdateStatus(ctx context.Context, actor Actor, userID string, active bool) (*models.User, error)
	DeleteUser(ctx context.Context, actor Actor, userID string) error
	VerifyEducator(ctx context.Context, educatorID string, verified bool) (*models.EducatorProfile, error)
	Stats(ctx context.Context) (*models.AdminStats, error)
	Activity(ctx context.Context, params *ActivityListParams) (*models.PaginatedResponse, error)
}

type ExportService interface {
	CourseEnrollments(ctx context.Context, actor Actor, courseID uint) (*ExportFile, error)
	AllEnrollments(ctx context.Context) (*ExportFile, error)
}

type DashboardService interface {
	Educator(ctx context.Context, educatorID string) (*models.EducatorDashboard, error)
	Student(ctx context.Context, userID string) (*models.StudentDashboard, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Auth() AuthService
	Profile() ProfileService
	Course() CourseService
	Enrollment() EnrollmentService
	Recommendation() RecommendationService
	Review() ReviewService
	Mood() MoodService
	Discussion() DiscussionService
	AIContent() AIContentService
	Counseling() CounselingService
	Upload() UploadService
	Admin() AdminService
	Export() ExportService
	Dashboard() DashboardService

	// Health and lifecycle
	HealthCheck(ctx context.Context) map[string]error
	Shutdown(ctx context.Context) error
}
