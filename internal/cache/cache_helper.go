package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache errors
var (
	ErrCacheNotAvailable = errors.New("cache not available")
	ErrCacheNotFound     = errors.New("cache not found")
)

const scanBatch = 100

// CacheConfig defines the key namespace and lifetime of one kind of cached data
type CacheConfig struct {
	TTL    time.Duration
	Prefix string
}

var (
	// Published course detail, catalog pages and categories
	CourseCacheConfig = CacheConfig{TTL: 5 * time.Minute, Prefix: "course:"}

	// Per-student recommendation results
	RecommendationCacheConfig = CacheConfig{TTL: 10 * time.Minute, Prefix: "recommendation:"}

	// Admin and dashboard aggregates
	StatsCacheConfig = CacheConfig{TTL: 5 * time.Minute, Prefix: "stats:"}

	// Role and active flag looked up on every authenticated request
	UserCacheConfig = CacheConfig{TTL: 5 * time.Minute, Prefix: "user:"}
)

// CacheHelper stores JSON values under one key prefix. A helper without a
// client reads as a miss and silently drops writes.
type CacheHelper struct {
	client *redis.Client
	config CacheConfig
}

func NewCacheHelper(client *redis.Client, config CacheConfig) *CacheHelper {
	return &CacheHelper{client: client, config: config}
}

func (c *CacheHelper) key(key string) string {
	return c.config.Prefix + key
}

func (c *CacheHelper) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return ErrCacheNotAvailable
	}

	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheNotFound
	}
	if err != nil {
		return fmt.Errorf("cache get: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("cache decode: %w", err)
	}
	return nil
}

// Set stores value for ttl, or for the helper default when ttl is zero
func (c *CacheHelper) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = c.config.TTL
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(key), data, ttl).Err()
}

func (c *CacheHelper) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil || len(keys) == 0 {
		return nil
	}

	full := make([]string, len(keys))
	for i, key := range keys {
		full[i] = c.key(key)
	}
	return c.client.Del(ctx, full...).Err()
}

// InvalidatePattern deletes every key under the prefix matching pattern.
// The SCAN walk finishes before anything is deleted so the cursor never skips keys.
func (c *CacheHelper) InvalidatePattern(ctx context.Context, pattern string) error {
	if c.client == nil {
		return nil
	}

	var keys []string
	iter := c.client.Scan(ctx, 0, c.key(pattern), scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache scan %q: %w", pattern, err)
	}

	for start := 0; start < len(keys); start += scanBatch {
		end := min(start+scanBatch, len(keys))
		if err := c.client.Del(ctx, keys[start:end]...).Err(); err != nil {
			return fmt.Errorf("cache delete: %w", err)
		}
	}
	return nil
}

// GetOrLoad returns the cached value for key, or calls load and caches its
// result. Cache failures never fail the call; load errors are returned as is.
func GetOrLoad[T any](ctx context.Context, c *CacheHelper, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	var out T
	err := c.Get(ctx, key, &out)
	if err == nil {
		return out, nil
	}
	if !errors.Is(err, ErrCacheNotFound) && !errors.Is(err, ErrCacheNotAvailable) {
		slog.WarnContext(ctx, "Cache read failed, loading from source", "error", err, "prefix", c.config.Prefix)
	}

	out, err = load()
	if err != nil {
		return out, err
	}
	if err := c.Set(ctx, key, out, ttl); err != nil {
		slog.WarnContext(ctx, "Cache write failed", "error", err, "prefix", c.config.Prefix)
	}
	return out, nil
}

// CacheManager groups the helpers used by the services
type CacheManager struct {
	client *redis.Client

	Course         *CacheHelper
	Recommendation *CacheHelper
	Stats          *CacheHelper
	User           *CacheHelper
}

// NewCacheManager builds every helper over client; a nil client disables caching
func NewCacheManager(client *redis.Client) *CacheManager {
	return &CacheManager{
		client:         client,
		Course:         NewCacheHelper(client, CourseCacheConfig),
		Recommendation: NewCacheHelper(client, RecommendationCacheConfig),
		Stats:          NewCacheHelper(client, StatsCacheConfig),
		User:           NewCacheHelper(client, UserCacheConfig),
	}
}

// Enabled reports whether a redis client is attached
func (cm *CacheManager) Enabled() bool {
	return cm != nil && cm.client != nil
}

func (cm *CacheManager) HealthCheck(ctx context.Context) error {
	if !cm.Enabled() {
		return ErrCacheNotAvailable
	}
	if err := cm.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("cache health check failed: %w", err)
	}
	return nil
}
