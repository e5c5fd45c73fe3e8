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

type discussionMongo struct {
	coll *mongo.Collection
}

func NewDiscussionMongo(db *mongo.Database) repositories.DiscussionRepository {
	return &discussionMongo{coll: db.Collection(discussionsCollection)}
}

func (r *discussionMongo) Create(ctx context.Context, discussion *models.Discussion) error {
	if discussion.Replies == nil {
		discussion.Replies = []models.DiscussionReply{}
	}
	if discussion.ID.IsZero() {
		discussion.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, discussion)
	return handleMongoError(err, "create discussion")
}

func (r *discussionMongo) GetByID(ctx context.Context, id string) (*models.Discussion, error) {
	oid, err := objectID(id, "get discussion")
	if err != nil {
		return nil, err
	}

	var discussion models.Discussion
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&discussion); err != nil {
		return nil, handleMongoError(err, "get discussion")
	}
	return &discussion, nil
}

// ListByCourse returns pinned threads first, then newest
func (r *discussionMongo) ListByCourse(ctx context.Context, courseID uint, limit, offset int) ([]*models.Discussion, int64, error) {
	filter := bson.M{"course_id": courseID}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, handleMongoError(err, "count discussions")
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "is_pinned", Value: -1}, {Key: "created_at", Value: -1}}).
		SetSkip(int64(offset))
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, handleMongoError(err, "list discussions")
	}
	defer cursor.Close(ctx)

	discussions := []*models.Discussion{}
	if err := cursor.All(ctx, &discussions); err != nil {
		return nil, 0, handleMongoError(err, "decode discussions")
	}
	return discussions, total, nil
}

func (r *discussionMongo) AddReply(ctx context.Context, id string, reply models.DiscussionReply) error {
	oid, err := objectID(id, "add reply")
	if err != nil {
		return err
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$push": bson.M{"replies": reply},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return handleMongoError(err, "add reply")
	}
	return matchedOrNotFound(res, "add reply")
}

func (r *discussionMongo) SetPinned(ctx context.Context, id string, pinned bool) error {
	oid, err := objectID(id, "pin discussion")
	if err != nil {
		return err
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"is_pinned": pinned, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return handleMongoError(err, "pin discussion")
	}
	return matchedOrNotFound(res, "pin discussion")
}

func (r *discussionMongo) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id, "delete discussion")
	if err != nil {
		return err
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return handleMongoError(err, "delete discussion")
	}
	if res.DeletedCount == 0 {
		return handleMongoError(mongo.ErrNoDocuments, "delete discussion")
	}
	return nil
}
