package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments can
// share one Redis instance without seeing each other's entries.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "impose:staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// RulesKey generates a prefixed key for compiled rules.
func (k *ScopedKeyer) RulesKey(schemaHash, valuesHash string) string {
	return k.prefix + k.inner.RulesKey(schemaHash, valuesHash)
}

// FrameKey generates a prefixed key for frame caching.
func (k *ScopedKeyer) FrameKey(payloadHash string, opts FrameKeyOpts) string {
	return k.prefix + k.inner.FrameKey(payloadHash, opts)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(requestHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(requestHash, opts)
}
