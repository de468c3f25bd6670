package cache

import (
	"context"
	"time"
)

// NullCache stores nothing. Every lookup misses, so the pipeline recomputes
// rules, frames and layouts on each run. It backs --no-cache, the "none"
// backend and a file cache whose directory cannot be resolved.
type NullCache struct {
	reason string
}

// NewNullCache returns a cache that never stores anything.
func NewNullCache() Cache {
	return &NullCache{}
}

// Disabled returns a NullCache that records why caching is off.
func Disabled(reason string) *NullCache {
	return &NullCache{reason: reason}
}

// Reason reports why caching was disabled, or "" when no reason was given.
func (c *NullCache) Reason() string { return c.reason }

func (c *NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (c *NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (c *NullCache) Delete(context.Context, string) error { return nil }

func (c *NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
