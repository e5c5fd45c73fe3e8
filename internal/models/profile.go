package models

import (
	"time"

	"gorm.io/datatypes"
)

type LearningStyle string

const (
	StyleVisual      LearningStyle = "visual"
	StyleAuditory    LearningStyle = "auditory"
	StyleReading     LearningStyle = "reading"
	StyleKinesthetic LearningStyle = "kinesthetic"
)

type StudentProfile struct {
	UserID              string                      `json:"user_id" gorm:"primaryKey;size:36"`
	Interests           datatypes.JSONSlice[string] `json:"interests" gorm:"type:jsonb"`
	LearningGoals       datatypes.JSONSlice[string] `json:"learning_goals" gorm:"type:jsonb"`
	EducationLevel      string                      `json:"education_level" gorm:"size:50"`
	LearningStyle       LearningStyle               `json:"learning_style" gorm:"size:20"`
	WeeklyHours         int                         `json:"weekly_hours" gorm:"default:0"`
	OnboardingCompleted bool                        `json:"onboarding_completed" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (StudentProfile) TableName() string {
	return "student_profiles"
}

type EducatorProfile struct {
	UserID              string                      `json:"user_id" gorm:"primaryKey;size:36"`
	Headline            string                      `json:"headline" gorm:"size:200"`
	Bio                 string                      `json:"bio" gorm:"type:text"`
	Expertise           datatypes.JSONSlice[string] `json:"expertise" gorm:"type:jsonb"`
	Qualifications      datatypes.JSONSlice[string] `json:"qualifications" gorm:"type:jsonb"`
	YearsOfExperience   int                         `json:"years_of_experience" gorm:"default:0"`
	Website             *string                     `json:"website" gorm:"size:500"`
	SocialLinks         datatypes.JSONMap           `json:"social_links" gorm:"type:jsonb"`
	OnboardingCompleted bool                        `json:"onboarding_completed" gorm:"default:false"`
	IsVerified          bool                        `json:"is_verified" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (EducatorProfile) TableName() string {
	return "educator_profiles"
}
