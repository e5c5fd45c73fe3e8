package mongo

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/SAP-F-2025/learning-service/internal/repositories"
)

const (
	discussionsCollection = "discussions"
	activityCollection    = "activity_logs"
	counselingCollection  = "counseling_sessions"
)

// handleMongoError maps driver errors onto repository sentinels
func handleMongoError(err error, operation string) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%s failed: %w", operation, repositories.ErrNotFound)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s failed: %w", operation, repositories.ErrDuplicate)
	}
	return fmt.Errorf("%s failed: %w", operation, err)
}

// objectID parses a hex id; malformed ids are reported as not found
func objectID(id, operation string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%s failed: %w", operation, repositories.ErrNotFound)
	}
	return oid, nil
}

func matchedOrNotFound(res *mongo.UpdateResult, operation string) error {
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s failed: %w", operation, repositories.ErrNotFound)
	}
	return nil
}
