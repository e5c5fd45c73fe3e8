package validator

import "github.com/SAP-F-2025/learning-service/internal/models"

// ===== AUTH =====

type RegisterRequest struct {
	Name     string          `json:"name" validate:"required,not_blank,max=100"`
	Email    string          `json:"email" validate:"required,email,max=255"`
	Password string          `json:"password" validate:"required,password"`
	Role     models.UserRole `json:"role" validate:"required,signup_role"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required,len=64,hexadecimal"`
	Password string `json:"password" validate:"required,password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,password,nefield=CurrentPassword"`
}

// ===== PROFILES =====

// StudentProfileRequest updates only the fields that are present
type StudentProfileRequest struct {
	Interests      []string              `json:"interests" validate:"omitempty,max=20,dive,not_blank,max=50"`
	LearningGoals  []string              `json:"learning_goals" validate:"omitempty,max=10,dive,not_blank,max=200"`
	EducationLevel *string               `json:"education_level" validate:"omitempty,max=50"`
	LearningStyle  *models.LearningStyle `json:"learning_style" validate:"omitempty,learning_style"`
	WeeklyHours    *int                  `json:"weekly_hours" validate:"omitempty,min=1,max=80"`
}

type EducatorProfileRequest struct {
	Headline          *string           `json:"headline" validate:"omitempty,max=200"`
	Bio               *string           `json:"bio" validate:"omitempty,max=5000"`
	Expertise         []string          `json:"expertise" validate:"omitempty,max=20,dive,not_blank,max=50"`
	Qualifications    []string          `json:"qualifications" validate:"omitempty,max=20,dive,not_blank,max=200"`
	YearsOfExperience *int              `json:"years_of_experience" validate:"omitempty,min=0,max=60"`
	Website           *string           `json:"website" validate:"omitempty,url"`
	SocialLinks       map[string]string `json:"social_links" validate:"omitempty,max=10,dive,url"`
}

// ===== COURSES =====

type LessonRequest struct {
	ID              string `json:"id" validate:"omitempty,max=64"`
	Title           string `json:"title" validate:"required,not_blank,max=200"`
	Content         string `json:"content" validate:"omitempty,max=20000"`
	VideoURL        string `json:"video_url" validate:"omitempty,url"`
	DurationMinutes int    `json:"duration_minutes" validate:"omitempty,min=0,max=600"`
}

type ModuleRequest struct {
	ID          string          `json:"id" validate:"omitempty,max=64"`
	Title       string          `json:"title" validate:"required,not_blank,max=200"`
	Description string          `json:"description" validate:"omitempty,max=2000"`
	Lessons     []LessonRequest `json:"lessons" validate:"omitempty,max=100,dive"`
}

type CourseCreateRequest struct {
	Title        string             `json:"title" validate:"required,not_blank,max=200"`
	Description  string             `json:"description" validate:"omitempty,max=10000"`
	Category     string             `json:"category" validate:"required,not_blank,max=100"`
	Level        models.CourseLevel `json:"level" validate:"required,course_level"`
	Price        float64            `json:"price" validate:"gte=0"`
	Language     string             `json:"language" validate:"omitempty,max=50"`
	Tags         []string           `json:"tags" validate:"omitempty,max=15,dive,not_blank,max=50"`
	ThumbnailURL *string            `json:"thumbnail_url" validate:"omitempty,url"`
	Modules      []ModuleRequest    `json:"modules" validate:"omitempty,max=50,dive"`
}

type CourseUpdateRequest struct {
	Title        *string             `json:"title" validate:"omitempty,not_blank,max=200"`
	Description  *string             `json:"description" validate:"omitempty,max=10000"`
	Category     *string             `json:"category" validate:"omitempty,not_blank,max=100"`
	Level        *models.CourseLevel `json:"level" validate:"omitempty,course_level"`
	Price        *float64            `json:"price" validate:"omitempty,gte=0"`
	Language     *string             `json:"language" validate:"omitempty,max=50"`
	Tags         []string            `json:"tags" validate:"omitempty,max=15,dive,not_blank,max=50"`
	ThumbnailURL *string             `json:"thumbnail_url" validate:"omitempty,url"`
	Modules      []ModuleRequest     `json:"modules" validate:"omitempty,max=50,dive"`
}

type CourseStatusRequest struct {
	Status models.CourseStatus `json:"status" validate:"required,course_status"`
}

type CourseListParams struct {
	Category  string              `form:"category" validate:"omitempty,max=100"`
	Level     string              `form:"level" validate:"omitempty,course_level"`
	Search    string              `form:"search" validate:"omitempty,max=200"`
	MinRating *float64            `form:"min_rating" validate:"omitempty,min=0,max=5"`
	MinPrice  *float64            `form:"min_price" validate:"omitempty,gte=0"`
	MaxPrice  *float64            `form:"max_price" validate:"omitempty,gte=0"`
	Sort      string              `form:"sort" validate:"omitempty,oneof=newest popular rating price price_desc"`
	Status    models.CourseStatus `form:"status" validate:"omitempty,course_status"`
	Page      int                 `form:"page" validate:"omitempty,min=1"`
	Size      int                 `form:"size" validate:"omitempty,min=1,max=100"`
}

// ===== ENROLLMENT =====

type ProgressRequest struct {
	LessonID  string `json:"lesson_id" validate:"required,max=64"`
	Completed *bool  `json:"completed" validate:"required"`
}

type EnrollmentListParams struct {
	Status models.EnrollmentStatus `form:"status" validate:"omitempty,oneof=active completed dropped"`
	Page   int                     `form:"page" validate:"omitempty,min=1"`
	Size   int                     `form:"size" validate:"omitempty,min=1,max=100"`
}

// ===== REVIEWS =====

type ReviewCreateRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"omitempty,max=2000"`
}

type ReviewUpdateRequest struct {
	Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,max=2000"`
}

// ===== MOODS =====

type MoodCreateRequest struct {
	Mood      models.MoodType `json:"mood" validate:"required,mood_type"`
	Intensity int             `json:"intensity" validate:"required,min=1,max=10"`
	Note      string          `json:"note" validate:"omitempty,max=2000"`
	Tags      []string        `json:"tags" validate:"omitempty,max=10,dive,not_blank,max=30"`
	Date      string          `json:"date" validate:"omitempty,calendar_date,not_future_date"`
}

type MoodUpdateRequest struct {
	Mood      *models.MoodType `json:"mood" validate:"omitempty,mood_type"`
	Intensity *int             `json:"intensity" validate:"omitempty,min=1,max=10"`
	Note      *string          `json:"note" validate:"omitempty,max=2000"`
	Tags      []string         `json:"tags" validate:"omitempty,max=10,dive,not_blank,max=30"`
}

type MoodListParams struct {
	From string `form:"from" validate:"omitempty,calendar_date"`
	To   string `form:"to" validate:"omitempty,calendar_date"`
}

// ===== DISCUSSIONS =====

type DiscussionCreateRequest struct {
	Title string `json:"title" validate:"required,not_blank,max=200"`
	Body  string `json:"body" validate:"required,not_blank,max=10000"`
}

type ReplyCreateRequest struct {
	Body string `json:"body" validate:"required,not_blank,max=5000"`
}

// ===== AI =====

type CourseOutlineRequest struct {
	Topic       string             `json:"topic" validate:"required,not_blank,max=200"`
	Level       models.CourseLevel `json:"level" validate:"required,course_level"`
	ModuleCount int                `json:"module_count" validate:"omitempty,min=1,max=12"`
}

type CourseDescriptionRequest struct {
	Title    string             `json:"title" validate:"required,not_blank,max=200"`
	Category string             `json:"category" validate:"omitempty,max=100"`
	Level    models.CourseLevel `json:"level" validate:"omitempty,course_level"`
	Keywords []string           `json:"keywords" validate:"omitempty,max=15,dive,max=50"`
}

type QuizRequest struct {
	Topic         string `json:"topic" validate:"required_without=CourseID,omitempty,not_blank,max=200"`
	CourseID      *uint  `json:"course_id" validate:"required_without=Topic"`
	QuestionCount int    `json:"question_count" validate:"omitempty,min=1,max=20"`
	Difficulty    string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
}

type ThumbnailRequest struct {
	CourseID *uint  `json:"course_id" validate:"required_without=Prompt"`
	Prompt   string `json:"prompt" validate:"required_without=CourseID,omitempty,not_blank,max=1000"`
}

type CounselingSessionRequest struct {
	Title string `json:"title" validate:"omitempty,max=200"`
}

type CounselingMessageRequest struct {
	Message string `json:"message" validate:"required,not_blank,max=4000"`
}

// ===== ADMIN =====

type UserListParams struct {
	Role   models.UserRole `form:"role" validate:"omitempty,user_role"`
	Active *bool           `form:"active"`
	Search string          `form:"search" validate:"omitempty,max=200"`
	Page   int             `form:"page" validate:"omitempty,min=1"`
	Size   int             `form:"size" validate:"omitempty,min=1,max=100"`
}

type UpdateRoleRequest struct {
	Role models.UserRole `json:"role" validate:"required,user_role"`
}

type UpdateUserStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type VerifyEducatorRequest struct {
	Verified *bool `json:"verified" validate:"required"`
}

type ActivityListParams struct {
	UserID string `form:"user_id" validate:"omitempty,max=36"`
	Action string `form:"action" validate:"omitempty,max=100"`
	Page   int    `form:"page" validate:"omitempty,min=1"`
	Size   int    `form:"size" validate:"omitempty,min=1,max=100"`
}
