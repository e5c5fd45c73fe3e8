package models

import "time"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ===== PAGINATION =====

type PageParams struct {
	Page int `form:"page" json:"page"`
	Size int `form:"size" json:"size"`
}

// Normalize clamps page to >= 1 and size to (0, MaxPageSize]
func (p PageParams) Normalize() PageParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

func (p PageParams) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Size
}

type PaginatedResponse struct {
	Content          interface{} `json:"content"`
	TotalElements    int64       `json:"total_elements"`
	TotalPages       int         `json:"total_pages"`
	Size             int         `json:"size"`
	Page             int         `json:"page"`
	First            bool        `json:"first"`
	Last             bool        `json:"last"`
	NumberOfElements int         `json:"number_of_elements"`
	Empty            bool        `json:"empty"`
}

func NewPaginatedResponse(content interface{}, count int, total int64, params PageParams) *PaginatedResponse {
	p := params.Normalize()
	totalPages := int((total + int64(p.Size) - 1) / int64(p.Size))
	return &PaginatedResponse{
		Content:          content,
		TotalElements:    total,
		TotalPages:       totalPages,
		Size:             p.Size,
		Page:             p.Page,
		First:            p.Page == 1,
		Last:             p.Page >= totalPages,
		NumberOfElements: count,
		Empty:            count == 0,
	}
}

// ===== STATISTICS DTOs =====

type MoodStats struct {
	Days             int              `json:"days"`
	TotalEntries     int              `json:"total_entries"`
	Distribution     map[MoodType]int `json:"distribution"`
	AverageIntensity float64          `json:"average_intensity"`
	CurrentStreak    int              `json:"current_streak"`
	MostFrequentMood *MoodType        `json:"most_frequent_mood"`
}

type CourseEnrollmentStat struct {
	CourseID        uint    `json:"course_id"`
	Title           string  `json:"title"`
	Status          string  `json:"status"`
	EnrollmentCount int64   `json:"enrollment_count"`
	CompletedCount  int64   `json:"completed_count"`
	AverageProgress float64 `json:"average_progress"`
	AverageRating   float64 `json:"average_rating"`
}

type EducatorDashboard struct {
	TotalCourses     int64                  `json:"total_courses"`
	PublishedCourses int64                  `json:"published_courses"`
	TotalStudents    int64                  `json:"total_students"`
	TotalReviews     int64                  `json:"total_reviews"`
	AverageRating    float64                `json:"average_rating"`
	Courses          []CourseEnrollmentStat `json:"courses"`
}

type StudentDashboard struct {
	ActiveCourses    int64          `json:"active_courses"`
	CompletedCourses int64          `json:"completed_courses"`
	DroppedCourses   int64          `json:"dropped_courses"`
	AverageProgress  float64        `json:"average_progress"`
	MoodStreak       int            `json:"mood_streak"`
	TodayMood        *MoodEntry     `json:"today_mood"`
	RecentActivity   []*ActivityLog `json:"recent_activity"`
	RecentCourses    []*Enrollment  `json:"recent_courses"`
}

type AdminStats struct {
	UsersByRole      map[UserRole]int64     `json:"users_by_role"`
	CoursesByStatus  map[CourseStatus]int64 `json:"courses_by_status"`
	TotalEnrollments int64                  `json:"total_enrollments"`
	Completions      int64                  `json:"completions"`
	TotalReviews     int64                  `json:"total_reviews"`
	AverageRating    float64                `json:"average_rating"`
	GeneratedAt      time.Time              `json:"generated_at"`
}

// ===== EXPORT ROWS =====

type EnrollmentExportRow struct {
	EnrollmentID   uint             `json:"enrollment_id"`
	StudentID      string           `json:"student_id"`
	StudentName    string           `json:"student_name"`
	StudentEmail   string           `json:"student_email"`
	CourseID       uint             `json:"course_id"`
	CourseTitle    string           `json:"course_title"`
	Status         EnrollmentStatus `json:"status"`
	Progress       int              `json:"progress"`
	CompletedCount int              `json:"completed_count"`
	EnrolledAt     time.Time        `json:"enrolled_at"`
	CompletedAt    *time.Time       `json:"completed_at"`
}

// ===== RESPONSE ENVELOPES =====

type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
