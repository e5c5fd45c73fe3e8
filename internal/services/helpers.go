package services

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/events"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/SAP-F-2025/learning-service/internal/utils"
	"github.com/SAP-F-2025/learning-service/internal/validator"
)

// orNotFound replaces a repository miss with the service level sentinel
func orNotFound(err error, target error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return target
	}
	return err
}

func isNotFound(err error) bool {
	return errors.Is(err, repositories.ErrNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, repositories.ErrDuplicate)
}

func validate(v *validator.Validator, req interface{}) error {
	if err := v.Validate(req); err != nil {
		return err
	}
	return nil
}

func pageOf(page, size int) models.PageParams {
	return models.PageParams{Page: page, Size: size}.Normalize()
}

func uintID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// hashKey derives a stable cache key from any JSON-serializable value
func hashKey(v interface{}) string {
	data, _ := json.Marshal(v)
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}

// publish emits a domain event without failing the caller
func publish(ctx context.Context, d *Dependencies, eventType events.EventType, userID, entityType, entityID string, data map[string]interface{}) {
	events.PublishSafe(ctx, d.Publisher, d.Logger, events.NewEvent(eventType, userID, entityType, entityID, data))
}

// background runs fn detached from the request lifetime
func background(ctx context.Context, logger *slog.Logger, name string, timeout time.Duration, fn func(ctx context.Context) error) {
	bg := context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(bg, timeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			logger.Warn("Background task failed", "task", name, utils.Err(err))
		}
	}()
}

// cached runs fetch through the cache-aside helper when redis is attached
func cached[T any](ctx context.Context, cm *cache.CacheManager, helper *cache.CacheHelper, key string, ttl time.Duration, fetch func() (T, error)) (T, error) {
	if !cm.Enabled() {
		return fetch()
	}
	return cache.GetOrLoad(ctx, helper, key, ttl, fetch)
}
