package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventSource  = "learning-service"
	EventVersion = "1.0"
)

type EventType string

const (
	UserRegistered      EventType = "user.registered"
	UserLoggedIn        EventType = "user.logged_in"
	UserPasswordReset   EventType = "user.password_reset"
	CourseCreated       EventType = "course.created"
	CourseUpdated       EventType = "course.updated"
	CoursePublished     EventType = "course.published"
	CourseArchived      EventType = "course.archived"
	CourseDeleted       EventType = "course.deleted"
	EnrollmentCreated   EventType = "enrollment.created"
	EnrollmentCompleted EventType = "enrollment.completed"
	EnrollmentDropped   EventType = "enrollment.dropped"
	ReviewCreated       EventType = "review.created"
	MoodLogged          EventType = "mood.logged"
)

// Event is the envelope published for every domain change
type Event struct {
	ID         string                 `json:"id"`
	Type       EventType              `json:"type"`
	Source     string                 `json:"source"`
	Version    string                 `json:"version"`
	Timestamp  time.Time              `json:"timestamp"`
	UserID     string                 `json:"user_id"`
	EntityType string                 `json:"entity_type"`
	EntityID   string                 `json:"entity_id,omitempty"`
	Data       map[string]interface{} `json:"data,omitempty"`
}

func NewEvent(eventType EventType, userID, entityType, entityID string, data map[string]interface{}) *Event {
	return &Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Source:     EventSource,
		Version:    EventVersion,
		Timestamp:  time.Now().UTC(),
		UserID:     userID,
		EntityType: entityType,
		EntityID:   entityID,
		Data:       data,
	}
}
