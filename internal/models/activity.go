package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ActivityLog struct {
	ID         primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	EventID    string                 `bson:"event_id" json:"event_id"`
	UserID     string                 `bson:"user_id" json:"user_id"`
	Action     string                 `bson:"action" json:"action"`
	EntityType string                 `bson:"entity_type" json:"entity_type"`
	EntityID   string                 `bson:"entity_id,omitempty" json:"entity_id,omitempty"`
	Metadata   map[string]interface{} `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt  time.Time              `bson:"created_at" json:"created_at"`
}
