package services

import (
	"errors"
	"fmt"
)

// ===== SENTINEL ERRORS =====

var (
	// Not found
	ErrUserNotFound       = errors.New("user not found")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrReviewNotFound     = errors.New("review not found")
	ErrMoodNotFound       = errors.New("mood entry not found")
	ErrDiscussionNotFound = errors.New("discussion not found")
	ErrSessionNotFound    = errors.New("counseling session not found")

	// Conflicts
	ErrEmailTaken           = errors.New("email is already registered")
	ErrAlreadyEnrolled      = errors.New("already enrolled in this course")
	ErrAlreadyReviewed      = errors.New("course already reviewed")
	ErrMoodAlreadyLogged    = errors.New("mood already logged for this day")
	ErrCourseHasEnrollments = errors.New("course has enrollments")

	// Authentication
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrAccountInactive    = errors.New("account is deactivated")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")

	// Request level
	ErrLessonNotFound   = errors.New("lesson does not belong to this course")
	ErrInvalidDateRange = errors.New("from must not be after to")

	// Optional integrations
	ErrAINotConfigured        = errors.New("AI features are not configured")
	ErrStorageNotConfigured   = errors.New("object storage is not configured")
	ErrSSONotConfigured       = errors.New("single sign-on is not configured")
	ErrDocumentsNotConfigured = errors.New("document store is not configured")
)

// ===== TYPED ERRORS =====

// PermissionError reports an action the caller is not allowed to perform
type PermissionError struct {
	UserID     string
	ResourceID interface{}
	Resource   string
	Action     string
	Reason     string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %s cannot %s %s %v: %s", e.UserID, e.Action, e.Resource, e.ResourceID, e.Reason)
}

func NewPermissionError(userID string, resourceID interface{}, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// BusinessRuleError reports a request that is well formed but violates a domain rule
type BusinessRuleError struct {
	Rule    string
	Message string
	Context map[string]interface{}
}

func (e *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule %s violated: %s", e.Rule, e.Message)
}

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{Rule: rule, Message: message, Context: context}
}
