package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleStudent  UserRole = "student"
	RoleEducator UserRole = "educator"
	RoleAdmin    UserRole = "admin"
)

func (r UserRole) IsValid() bool {
	switch r {
	case RoleStudent, RoleEducator, RoleAdmin:
		return true
	}
	return false
}

type AuthProvider string

const (
	ProviderLocal   AuthProvider = "local"
	ProviderCasdoor AuthProvider = "casdoor"
)

type User struct {
	ID           string   `json:"id" gorm:"primaryKey;size:36"`
	Name         string   `json:"name" gorm:"not null;size:100"`
	Email        string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string   `json:"-" gorm:"size:255"`
	Role         UserRole `json:"role" gorm:"not null;size:20;default:student;index"`

	// Profile info
	AvatarURL *string `json:"avatar_url" gorm:"size:500"`

	// Status
	IsActive    bool         `json:"is_active" gorm:"default:true"`
	Provider    AuthProvider `json:"provider" gorm:"size:20;default:local"`
	LastLoginAt *time.Time   `json:"last_login_at"`

	// Password reset, only the SHA-256 of the token is stored
	ResetTokenHash    *string    `json:"-" gorm:"size:64;index"`
	ResetTokenExpires *time.Time `json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// UserSummary is the public projection embedded in other responses. It reads
// from the users table so relations preload only these columns.
type UserSummary struct {
	ID        string  `json:"id" gorm:"primaryKey"`
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

func (UserSummary) TableName() string {
	return "users"
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, AvatarURL: u.AvatarURL}
}
