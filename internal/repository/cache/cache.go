// Package cache keeps fetched collection rows in Redis under versioned keys.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/imscloud/ims/internal/domain/fields"
	"github.com/imscloud/ims/internal/domain/models"
)

const (
	versionKey = "ims:rows:version"
	keyPrefix  = "ims:rows"
)

// RowSource is the backing source wrapped by the cache.
type RowSource interface {
	FetchRows(ctx context.Context, collection models.Collection) ([]fields.Row, error)
}

// CachedSource serves rows from Redis and falls back to the wrapped source on a miss.
// A nil Redis client disables caching.
type CachedSource struct {
	next   RowSource
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedSource wraps next with a Redis cache.
func NewCachedSource(next RowSource, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedSource{next: next, client: client, ttl: ttl, logger: logger}
}

// Version returns the current cache version, initialising when missing.
func (c *CachedSource) Version(ctx context.Context) (int64, error) {
	if c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, versionKey).Int64()
	if err == redis.Nil {
		if err := c.client.SetNX(ctx, versionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return c.client.Get(ctx, versionKey).Int64()
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// BuildKey composes the cache key of collection with the current version.
func (c *CachedSource) BuildKey(ctx context.Context, collection models.Collection) (string, error) {
	ver, err := c.Version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%d", strings.Join([]string{keyPrefix, string(collection)}, ":"), ver), nil
}

// FetchRows returns cached rows or loads and stores them. Redis failures are logged and
// the wrapped source is used directly.
func (c *CachedSource) FetchRows(ctx context.Context, collection models.Collection) ([]fields.Row, error) {
	if c.client == nil {
		return c.next.FetchRows(ctx, collection)
	}

	key, err := c.BuildKey(ctx, collection)
	if err != nil {
		c.logger.Warn("cache unavailable", zap.String("collection", string(collection)), zap.Error(err))
		return c.next.FetchRows(ctx, collection)
	}

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var rows []fields.Row
		if err := json.Unmarshal(payload, &rows); err == nil {
			c.logger.Debug("cache hit", zap.String("key", key))
			return rows, nil
		}
		c.logger.Warn("discarding corrupt cache entry", zap.String("key", key))
	} else if err != redis.Nil {
		c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}

	rows, err := c.next.FetchRows(ctx, collection)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("encode %s rows: %w", collection, err)
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	return rows, nil
}

// Invalidate bumps the cache version so every cached collection is refetched.
func (c *CachedSource) Invalidate(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	if err := c.client.Incr(ctx, versionKey).Err(); err != nil {
		return fmt.Errorf("bump cache version: %w", err)
	}
	return nil
}
