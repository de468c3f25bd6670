package cache

import (
	"context"
	"time"
)

// TTLCache overrides the TTL of every Set on the wrapped cache.
type TTLCache struct {
	Cache
	ttl time.Duration
}

// WithTTL returns c with all writes using ttl. A non-positive ttl returns c
// unchanged, so stage defaults apply.
func WithTTL(c Cache, ttl time.Duration) Cache {
	if ttl <= 0 {
		return c
	}
	return &TTLCache{Cache: c, ttl: ttl}
}

// Set stores data with the configured TTL, ignoring ttl.
func (c *TTLCache) Set(ctx context.Context, key string, data []byte, _ time.Duration) error {
	return c.Cache.Set(ctx, key, data, c.ttl)
}
