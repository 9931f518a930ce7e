// Package cache provides the TTL result cache used by the read services.
//
// The cache is populate-on-miss only: writes to the database never evict
// entries, so readers may observe stale data until the TTL elapses. Two
// concurrent misses on the same key may both query and both write; the
// queries are deterministic, so last write wins without inconsistency.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"northwind-service/pkg/config"
)

// Cache stores JSON-encoded values under string keys with a per-entry TTL.
type Cache interface {
	// Get unmarshals the entry for key into dest and reports whether a live
	// entry was found.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	// Set stores value under key for the given TTL, replacing any previous
	// entry.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// New selects a cache backend from configuration: a Redis-backed cache when an
// address is configured, otherwise the in-process memory cache.
func New(ctx context.Context, cfg *config.CacheConfig) (Cache, error) {
	if cfg.RedisAddr == "" {
		return NewMemory(), nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, err
	}

	return NewRedis(client), nil
}
