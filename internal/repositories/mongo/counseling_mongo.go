package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
)

type counselingMongo struct {
	coll *mongo.Collection
}

func NewCounselingMongo(db *mongo.Database) repositories.CounselingRepository {
	return &counselingMongo{coll: db.Collection(counselingCollection)}
}

func (r *counselingMongo) Create(ctx context.Context, session *models.CounselingSession) error {
	if session.ID.IsZero() {
		session.ID = primitive.NewObjectID()
	}
	if session.Messages == nil {
		session.Messages = []models.ChatMessage{}
	}
	_, err := r.coll.InsertOne(ctx, session)
	return handleMongoError(err, "create counseling session")
}

func (r *counselingMongo) GetByID(ctx context.Context, id string) (*models.CounselingSession, error) {
	oid, err := objectID(id, "get counseling session")
	if err != nil {
		return nil, err
	}

	var session models.CounselingSession
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&session); err != nil {
		return nil, handleMongoError(err, "get counseling session")
	}
	return &session, nil
}

// ListByUser returns session headers without transcripts, most recently active first
func (r *counselingMongo) ListByUser(ctx context.Context, userID string, limit int) ([]*models.CounselingSession, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetProjection(bson.M{"messages": 0})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, handleMongoError(err, "list counseling sessions")
	}
	defer cursor.Close(ctx)

	sessions := []*models.CounselingSession{}
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, handleMongoError(err, "decode counseling sessions")
	}
	return sessions, nil
}

func (r *counselingMongo) AppendMessages(ctx context.Context, id string, messages ...models.ChatMessage) error {
	oid, err := objectID(id, "append counseling messages")
	if err != nil {
		return err
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$push": bson.M{"messages": bson.M{"$each": messages}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return handleMongoError(err, "append counseling messages")
	}
	return matchedOrNotFound(res, "append counseling messages")
}
