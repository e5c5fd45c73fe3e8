package models

import (
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"
)

type Review struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	UserID   string `json:"user_id" gorm:"not null;size:36;uniqueIndex:idx_review_user_course"`
	CourseID uint   `json:"course_id" gorm:"not null;uniqueIndex:idx_review_user_course;index"`
	Rating   int    `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment  string `json:"comment" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *UserSummary `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (Review) TableName() string {
	return "reviews"
}

// AfterSave keeps courses.average_rating and courses.review_count in step with the reviews table
func (r *Review) AfterSave(tx *gorm.DB) error {
	return RecomputeCourseRating(tx, r.CourseID)
}

func (r *Review) AfterDelete(tx *gorm.DB) error {
	return RecomputeCourseRating(tx, r.CourseID)
}

func RecomputeCourseRating(tx *gorm.DB, courseID uint) error {
	if courseID == 0 {
		return nil
	}
	db := tx.Session(&gorm.Session{NewDB: true})

	var agg struct {
		Avg   float64
		Count int64
	}
	if err := db.Model(&Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("course_id = ?", courseID).
		Scan(&agg).Error; err != nil {
		return fmt.Errorf("failed to aggregate ratings: %w", err)
	}

	return db.Model(&Course{}).Where("id = ?", courseID).Updates(map[string]interface{}{
		"average_rating": RoundRating(agg.Avg),
		"review_count":   agg.Count,
	}).Error
}

func RoundRating(v float64) float64 {
	return math.Round(v*100) / 100
}

// AverageRating is the in-memory counterpart of RecomputeCourseRating
func AverageRating(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return RoundRating(float64(sum) / float64(len(ratings)))
}
