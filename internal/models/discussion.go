package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Discussion is a course thread stored in mongo with its replies embedded
type Discussion struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CourseID   uint               `bson:"course_id" json:"course_id"`
	AuthorID   string             `bson:"author_id" json:"author_id"`
	AuthorName string             `bson:"author_name" json:"author_name"`
	Title      string             `bson:"title" json:"title"`
	Body       string             `bson:"body" json:"body"`
	Replies    []DiscussionReply  `bson:"replies" json:"replies"`
	IsPinned   bool               `bson:"is_pinned" json:"is_pinned"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}

type DiscussionReply struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	AuthorID   string             `bson:"author_id" json:"author_id"`
	AuthorName string             `bson:"author_name" json:"author_name"`
	Body       string             `bson:"body" json:"body"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
