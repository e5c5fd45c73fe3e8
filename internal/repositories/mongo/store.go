package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/SAP-F-2025/learning-service/internal/repositories"
)

// DocumentStore implements repositories.DocumentStore over one mongo database
type DocumentStore struct {
	client *mongo.Client
	db     *mongo.Database

	discussion repositories.DiscussionRepository
	activity   repositories.ActivityRepository
	counseling repositories.CounselingRepository
}

func NewDocumentStore(client *mongo.Client, db *mongo.Database) *DocumentStore {
	return &DocumentStore{
		client:     client,
		db:         db,
		discussion: NewDiscussionMongo(db),
		activity:   NewActivityMongo(db),
		counseling: NewCounselingMongo(db),
	}
}

func (s *DocumentStore) Discussion() repositories.DiscussionRepository { return s.discussion }

func (s *DocumentStore) Activity() repositories.ActivityRepository { return s.activity }

func (s *DocumentStore) Counseling() repositories.CounselingRepository { return s.counseling }

// EnsureIndexes creates the indexes the queries above rely on
func (s *DocumentStore) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		discussionsCollection: {
			{Keys: bson.D{{Key: "course_id", Value: 1}, {Key: "is_pinned", Value: -1}, {Key: "created_at", Value: -1}}},
		},
		activityCollection: {
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{
				Keys: bson.D{{Key: "event_id", Value: 1}},
				Options: options.Index().SetUnique(true).
					SetPartialFilterExpression(bson.M{"event_id": bson.M{"$gt": ""}}),
			},
		},
		counselingCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "updated_at", Value: -1}}},
		},
	}

	for name, models := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}

func (s *DocumentStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *DocumentStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ repositories.DocumentStore = (*DocumentStore)(nil)
