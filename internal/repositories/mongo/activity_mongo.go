package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
)

type activityMongo struct {
	coll *mongo.Collection
}

func NewActivityMongo(db *mongo.Database) repositories.ActivityRepository {
	return &activityMongo{coll: db.Collection(activityCollection)}
}

// Create is idempotent per event id so redelivered messages are not logged twice
func (r *activityMongo) Create(ctx context.Context, entry *models.ActivityLog) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.EventID == "" {
		_, err := r.coll.InsertOne(ctx, entry)
		return handleMongoError(err, "create activity log")
	}

	_, err := r.coll.UpdateOne(ctx,
		bson.M{"event_id": entry.EventID},
		bson.M{"$setOnInsert": entry},
		options.Update().SetUpsert(true),
	)
	return handleMongoError(err, "create activity log")
}

func (r *activityMongo) List(ctx context.Context, filters repositories.ActivityFilters) ([]*models.ActivityLog, int64, error) {
	filter := bson.M{}
	if filters.UserID != "" {
		filter["user_id"] = filters.UserID
	}
	if filters.Action != "" {
		filter["action"] = filters.Action
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, handleMongoError(err, "count activity")
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(filters.Offset))
	if filters.Limit > 0 {
		opts.SetLimit(int64(filters.Limit))
	}

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, handleMongoError(err, "list activity")
	}
	defer cursor.Close(ctx)

	logs := []*models.ActivityLog{}
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, 0, handleMongoError(err, "decode activity")
	}
	return logs, total, nil
}
