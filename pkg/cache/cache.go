// Package cache stores computed frames and layouts so identical requests are
// answered without recomputation.
//
// Backends implement [Cache]; key construction lives in [Keyer] so the CLI,
// the HTTP server and tests agree on the key space. Available backends:
//
//   - [NullCache]: caching disabled
//   - [MemoryCache]: process-local map, used by the server and tests
//   - [FileCache]: JSON files under a directory, used by the CLI
//   - [RedisCache]: shared cache for server deployments
package cache

import (
	"context"
	"time"
)

// =============================================================================
// Interfaces
// =============================================================================

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A ttl of zero means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer builds cache keys for the pipeline stages.
type Keyer interface {
	// RulesKey identifies the compiled rules of a schema/values pair.
	RulesKey(schemaHash, valuesHash string) string

	// FrameKey identifies a calculated frame.
	FrameKey(payloadHash string, opts FrameKeyOpts) string

	// LayoutKey identifies a complete layout result.
	LayoutKey(requestHash string, opts LayoutKeyOpts) string
}

// =============================================================================
// Key Options
// =============================================================================

// FrameKeyOpts are the frame inputs that do not live in the payload.
type FrameKeyOpts struct {
	ContentW float64 `json:"content_w"`
	ContentH float64 `json:"content_h"`
}

// LayoutKeyOpts are the layout switches folded into the key in addition to
// the request hash.
type LayoutKeyOpts struct {
	NUp            bool `json:"n_up"`
	Variants       int  `json:"variants"`
	HeadToHead     bool `json:"head_to_head"`
	ReserveGripper bool `json:"reserve_gripper"`
	Marks          bool `json:"marks"`
}

// =============================================================================
// TTLs
// =============================================================================

const (
	// TTLRules is the lifetime of compiled rules.
	TTLRules = 24 * time.Hour

	// TTLFrame is the lifetime of calculated frames.
	TTLFrame = 24 * time.Hour

	// TTLLayout is the lifetime of layout results.
	TTLLayout = 7 * 24 * time.Hour
)

// =============================================================================
// DefaultKeyer
// =============================================================================

// DefaultKeyer builds unprefixed, hash-based keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// RulesKey returns "rules:<hash>".
func (DefaultKeyer) RulesKey(schemaHash, valuesHash string) string {
	return hashKey(StageRules, schemaHash, valuesHash)
}

// FrameKey returns "frame:<hash>".
func (DefaultKeyer) FrameKey(payloadHash string, opts FrameKeyOpts) string {
	return hashKey(StageFrame, payloadHash, opts)
}

// LayoutKey returns "layout:<hash>".
func (DefaultKeyer) LayoutKey(requestHash string, opts LayoutKeyOpts) string {
	return hashKey(StageLayout, requestHash, opts)
}

var _ Keyer = DefaultKeyer{}
