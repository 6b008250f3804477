package services

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

// CacheInvalidator signals that publicly cached pages depending on comment
// counts must be recomputed. Invalidation is best-effort and never returns
// an error to the caller.
type CacheInvalidator interface {
	// InvalidateProfile drops cached pages under one user's public handle
	InvalidateProfile(ctx context.Context, nickname string)
	// InvalidateGalleries drops the cross-entity gallery caches, used for
	// admin-owned entities that have no per-nickname partition
	InvalidateGalleries(ctx context.Context)
}

type redisCacheInvalidator struct {
	client *redis.Client
}

// NewRedisCacheInvalidator creates a CacheInvalidator backed by Redis
func NewRedisCacheInvalidator(client *redis.Client) CacheInvalidator {
	return &redisCacheInvalidator{client: client}
}

func (c *redisCacheInvalidator) InvalidateProfile(ctx context.Context, nickname string) {
	if nickname == "" {
		c.InvalidateGalleries(ctx)
		return
	}
	c.deleteByPattern(ctx, "page:profile:"+nickname+":*")
}

func (c *redisCacheInvalidator) InvalidateGalleries(ctx context.Context) {
	c.deleteByPattern(ctx, "page:gallery:*")
}

// deleteByPattern walks matching keys with SCAN (never KEYS) and deletes them
func (c *redisCacheInvalidator) deleteByPattern(ctx context.Context, pattern string) {
	var cursor uint64
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			log.Printf("Cache invalidator: scan %q failed: %v", pattern, err)
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				log.Printf("Cache invalidator: delete of %d keys failed: %v", len(keys), err)
			}
		}
		cursor = nextCursor
		if cursor == 0 {
			return
		}
	}
}

type noopCacheInvalidator struct{}

// NewNoopCacheInvalidator creates a CacheInvalidator for deployments without
// Redis; pages are then rendered uncached and nothing needs invalidating
func NewNoopCacheInvalidator() CacheInvalidator {
	return &noopCacheInvalidator{}
}

func (noopCacheInvalidator) InvalidateProfile(ctx context.Context, nickname string) {}
func (noopCacheInvalidator) InvalidateGalleries(ctx context.Context)                {}
