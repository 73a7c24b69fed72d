package metadata

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/goalmate/amatta/internal/logger"
)

const cacheKeyPrefix = "ogmeta:"

// RedisCache stores previews in Redis with a TTL. Misses and errors look
// identical to callers; a broken cache only costs re-fetches.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisCache wraps an existing Redis client as a preview cache.
func NewRedisCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	return &RedisCache{client: client, ttl: ttl, log: log}
}

// Get returns the cached preview for url, if any.
func (c *RedisCache) Get(ctx context.Context, url string) (Preview, bool) {
	data, err := c.client.Get(ctx, cacheKeyPrefix+url).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Debug("metadata_cache_get_failed",
				zap.String("url", logger.SanitizeURL(url)),
				zap.String("error", logger.SanitizeError(err)),
			)
		}
		return Preview{}, false
	}
	var p Preview
	if err := json.Unmarshal(data, &p); err != nil {
		return Preview{}, false
	}
	return p, true
}

// Set stores the preview for url.
func (c *RedisCache) Set(ctx context.Context, url string, p Preview) {
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKeyPrefix+url, data, c.ttl).Err(); err != nil {
		c.log.Debug("metadata_cache_set_failed",
			zap.String("url", logger.SanitizeURL(url)),
			zap.String("error", logger.SanitizeError(err)),
		)
	}
}
