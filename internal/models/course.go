package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CourseStatus string

const (
	CourseDraft     CourseStatus = "draft"
	CoursePublished CourseStatus = "published"
	CourseArchived  CourseStatus = "archived"
)

type CourseLevel string

const (
	LevelBeginner     CourseLevel = "beginner"
	LevelIntermediate CourseLevel = "intermediate"
	LevelAdvanced     CourseLevel = "advanced"
)

type Course struct {
	ID           uint                        `json:"id" gorm:"primaryKey"`
	Title        string                      `json:"title" gorm:"not null;size:200;index"`
	Description  string                      `json:"description" gorm:"type:text"`
	Category     string                      `json:"category" gorm:"not null;size:100;index"`
	Level        CourseLevel                 `json:"level" gorm:"size:20;default:beginner;index"`
	Price        float64                     `json:"price" gorm:"default:0"`
	Language     string                      `json:"language" gorm:"size:50;default:English"`
	Tags         datatypes.JSONSlice[string] `json:"tags" gorm:"type:jsonb"`
	ThumbnailURL *string                     `json:"thumbnail_url" gorm:"size:1000"`
	Modules      datatypes.JSONSlice[Module] `json:"modules" gorm:"type:jsonb"`
	Status       CourseStatus                `json:"status" gorm:"size:20;default:draft;index"`

	// Aggregates maintained by hooks and enrollment writes
	AverageRating   float64 `json:"average_rating" gorm:"default:0"`
	ReviewCount     int     `json:"review_count" gorm:"default:0"`
	EnrollmentCount int     `json:"enrollment_count" gorm:"default:0"`

	EducatorID  string     `json:"educator_id" gorm:"not null;index;size:36"`
	PublishedAt *time.Time `json:"published_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Educator *UserSummary `json:"educator,omitempty" gorm:"foreignKey:EducatorID"`
}

func (Course) TableName() string {
	return "courses"
}

// Module groups lessons; stored as a JSON document inside the course row
type Module struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Lessons     []Lesson `json:"lessons"`
}

type Lesson struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Content         string `json:"content,omitempty"`
	VideoURL        string `json:"video_url,omitempty"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
}

// LessonIDs returns every lesson id in module order
func (c *Course) LessonIDs() []string {
	var ids []string
	for _, m := range c.Modules {
		for _, l := range m.Lessons {
			ids = append(ids, l.ID)
		}
	}
	return ids
}

func (c *Course) HasLesson(lessonID string) bool {
	for _, id := range c.LessonIDs() {
		if id == lessonID {
			return true
		}
	}
	return false
}

func (c *Course) TotalLessons() int {
	return len(c.LessonIDs())
}

type CourseSummary struct {
	ID            uint        `json:"id"`
	Title         string      `json:"title"`
	Category      string      `json:"category"`
	Level         CourseLevel `json:"level"`
	ThumbnailURL  *string     `json:"thumbnail_url,omitempty"`
	AverageRating float64     `json:"average_rating"`
	EducatorID    string      `json:"educator_id"`
}

func (c *Course) Summary() CourseSummary {
	return CourseSummary{
		ID:            c.ID,
		Title:         c.Title,
		Category:      c.Category,
		Level:         c.Level,
		ThumbnailURL:  c.ThumbnailURL,
		AverageRating: c.AverageRating,
		EducatorID:    c.EducatorID,
	}
}
