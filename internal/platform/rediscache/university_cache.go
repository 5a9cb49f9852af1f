// Package rediscache implements the catalog cache on Redis. The full
// university catalog is stored as one JSON value under a single key; the
// university service invalidates it on every write, so a populated entry
// is never stale.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/choosemycollege/cmc-core/internal/domain"
	"github.com/choosemycollege/cmc-core/internal/service"
)

var _ service.CatalogCache = (*UniversityCache)(nil)

// catalogKey is the Redis key holding the serialized catalog.
const catalogKey = "university:catalog"

// DefaultTTL bounds how long a catalog entry survives without
// invalidation. Invalidation on write is the primary freshness mechanism;
// the TTL only limits the damage of a missed invalidation.
const DefaultTTL = 10 * time.Minute

// ErrConnection is returned by Ping when Redis is unreachable.
var ErrConnection = errors.New("rediscache: connection failed")

// UniversityCache implements service.CatalogCache on a Redis client.
// Cache failures are never fatal: a failed read is a miss, a failed write
// is logged and dropped. The database remains the source of truth.
type UniversityCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewUniversityCache creates a UniversityCache. A non-positive ttl uses
// DefaultTTL.
func NewUniversityCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *UniversityCache {
	if client == nil {
		panic("rediscache: client cannot be nil")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UniversityCache{
		client: client,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "university_cache")),
	}
}

// Ping checks that Redis is reachable.
func (c *UniversityCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return nil
}

// Get returns the cached catalog and whether the cache was populated.
func (c *UniversityCache) Get(ctx context.Context) ([]*domain.University, bool) {
	data, err := c.client.Get(ctx, catalogKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("catalog cache read failed",
				slog.String("error", err.Error()))
		}
		return nil, false
	}

	var universities []*domain.University
	if err := json.Unmarshal(data, &universities); err != nil {
		// An undecodable entry is dropped so the next read repopulates it.
		c.logger.Warn("catalog cache entry undecodable, dropping",
			slog.String("error", err.Error()))
		c.Invalidate(ctx)
		return nil, false
	}
	return universities, true
}

// Set replaces the cached catalog.
func (c *UniversityCache) Set(ctx context.Context, universities []*domain.University) {
	data, err := json.Marshal(universities)
	if err != nil {
		c.logger.Warn("catalog cache serialization failed",
			slog.String("error", err.Error()))
		return
	}
	if err := c.client.Set(ctx, catalogKey, data, c.ttl).Err(); err != nil {
		c.logger.Warn("catalog cache write failed",
			slog.String("error", err.Error()))
	}
}

// Invalidate drops the cached catalog.
func (c *UniversityCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, catalogKey).Err(); err != nil {
		c.logger.Warn("catalog cache invalidation failed",
			slog.String("error", err.Error()))
	}
}
