package models

import (
	"math"
	"time"

	"gorm.io/datatypes"
)

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentDropped   EnrollmentStatus = "dropped"
)

type Enrollment struct {
	ID               uint                        `json:"id" gorm:"primaryKey"`
	UserID           string                      `json:"user_id" gorm:"not null;size:36;uniqueIndex:idx_enrollment_user_course"`
	CourseID         uint                        `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course;index"`
	Status           EnrollmentStatus            `json:"status" gorm:"size:20;default:active;index"`
	Progress         int                         `json:"progress" gorm:"default:0"`
	CompletedLessons datatypes.JSONSlice[string] `json:"completed_lessons" gorm:"type:jsonb"`

	EnrolledAt     time.Time  `json:"enrolled_at"`
	LastAccessedAt *time.Time `json:"last_accessed_at"`
	CompletedAt    *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User   *User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Course *Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// MarkLesson records a lesson as completed or not and recomputes progress against
// the course's current lesson list. Lessons no longer in the course are dropped.
func (e *Enrollment) MarkLesson(course *Course, lessonID string, completed bool, now time.Time) {
	done := make(map[string]bool, len(e.CompletedLessons)+1)
	for _, id := range e.CompletedLessons {
		done[id] = true
	}
	if completed {
		done[lessonID] = true
	} else {
		delete(done, lessonID)
	}

	ordered := make([]string, 0, len(done))
	for _, id := range course.LessonIDs() {
		if done[id] {
			ordered = append(ordered, id)
		}
	}
	e.CompletedLessons = ordered
	total := course.TotalLessons()
	e.Progress = ProgressPercent(len(ordered), total)
	e.LastAccessedAt = &now

	switch {
	case total > 0 && len(ordered) >= total:
		if e.Status != EnrollmentCompleted {
			e.Status = EnrollmentCompleted
			e.CompletedAt = &now
		}
	case e.Status == EnrollmentCompleted:
		e.Status = EnrollmentActive
		e.CompletedAt = nil
	}
}

// ProgressPercent rounds done/total to a percentage. Only a fully completed
// course reaches 100.
func ProgressPercent(done, total int) int {
	if total <= 0 || done <= 0 {
		return 0
	}
	if done >= total {
		return 100
	}
	return min(int(math.Round(float64(done)*100/float64(total))), 99)
}
