package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

var errPermanent = errors.New("permanent")

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestDisabledCache(t *testing.T) {
	c := Disabled("--no-cache")
	if c.Reason() != "--no-cache" {
		t.Errorf("Reason() = %q", c.Reason())
	}
	if err := c.Set(context.Background(), "layout:abc", []byte("{}"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if _, hit, _ := c.Get(context.Background(), "layout:abc"); hit {
		t.Error("disabled cache should never hit")
	}
	if r := NewNullCache().(*NullCache).Reason(); r != "" {
		t.Errorf("plain null cache reason = %q", r)
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Fatal("empty cache should miss")
	}

	src := []byte("frame")
	if err := c.Set(ctx, "k", src, 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	src[0] = 'X'

	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit {
		t.Fatalf("Get = %v, %v", hit, err)
	}
	if string(data) != "frame" {
		t.Errorf("Set should copy data, got %q", data)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len after Delete = %d", c.Len())
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "k", []byte("v"), time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Fatal("entry should be live")
	}

	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry should have expired")
	}
	if c.Len() != 0 {
		t.Error("expired entry should be dropped")
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "a", []byte("1"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Set(ctx, "b", []byte("2"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	data, hit, err := c.Get(ctx, "a")
	if err != nil || !hit || string(data) != "1" {
		t.Fatalf("Get(a) = %q, %v, %v", data, hit, err)
	}

	if err := c.Set(ctx, "c", []byte("3"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "b"); hit {
		t.Error("Clear should remove entries")
	}
}

func TestStageOf(t *testing.T) {
	tests := []struct{ key, want string }{
		{"rules:ab12", StageRules},
		{"frame:ab12", StageFrame},
		{"impose/v1.2.0:layout:ab12", StageLayout},
		{DefaultKeyer{}.LayoutKey("h", LayoutKeyOpts{}), StageLayout},
		{"plain", stageOther},
		{"scope:unknown:ab12", stageOther},
	}
	for _, tt := range tests {
		if got := StageOf(tt.key); got != tt.want {
			t.Errorf("StageOf(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestFileCacheStages(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	keyer := NewScopedKeyer(NewDefaultKeyer(), "impose/dev:")
	rules := keyer.RulesKey("s", "v")
	frame := keyer.FrameKey("p", FrameKeyOpts{})
	layout := keyer.LayoutKey("r", LayoutKeyOpts{})
	for _, k := range []string{rules, frame, layout} {
		if err := c.Set(ctx, k, []byte(`{}`), 0); err != nil {
			t.Fatalf("Set(%s): %v", k, err)
		}
	}

	stats, err := c.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	want := map[string]int{StageRules: 1, StageFrame: 1, StageLayout: 1}
	if len(stats) != len(want) {
		t.Errorf("Stats() = %v, want %v", stats, want)
	}
	for stage, n := range want {
		if stats[stage] != n {
			t.Errorf("Stats()[%s] = %d, want %d", stage, stats[stage], n)
		}
	}

	n, err := c.Clear(StageLayout)
	if err != nil || n != 1 {
		t.Fatalf("Clear(layout) = %d, %v", n, err)
	}
	if _, hit, _ := c.Get(ctx, layout); hit {
		t.Error("layout entry should be gone")
	}
	if _, hit, _ := c.Get(ctx, frame); !hit {
		t.Error("frame entry should survive clearing layouts")
	}
}

func TestFileCacheEmptyDir(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	stats, err := c.Stats()
	if err != nil || len(stats) != 0 {
		t.Errorf("Stats() on empty cache = %v, %v", stats, err)
	}
	if n, err := c.Clear(); err != nil || n != 0 {
		t.Errorf("Clear() on empty cache = %d, %v", n, err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestHashJSONMapOrder(t *testing.T) {
	a, err := HashJSON(map[string]any{"safe_top": 3, "safe_left": 2})
	if err != nil {
		t.Fatal(err)
	}
	b, _ := HashJSON(map[string]any{"safe_left": 2, "safe_top": 3})
	if a != b {
		t.Error("HashJSON should not depend on map order")
	}
	if _, err := HashJSON(func() {}); err == nil {
		t.Error("HashJSON should reject unencodable values")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	rk := k.RulesKey("schema", "values")
	if !strings.HasPrefix(rk, "rules:") {
		t.Errorf("RulesKey unexpected: %s", rk)
	}
	if rk == k.RulesKey("schema", "other") {
		t.Error("Different values should produce different keys")
	}

	fk1 := k.FrameKey("p", FrameKeyOpts{ContentW: 10, ContentH: 10})
	fk2 := k.FrameKey("p", FrameKeyOpts{ContentW: 10, ContentH: 20})
	if fk1 == fk2 {
		t.Error("Different FrameKeyOpts should produce different keys")
	}

	lk1 := k.LayoutKey("req", LayoutKeyOpts{NUp: true, Variants: 1})
	lk2 := k.LayoutKey("req", LayoutKeyOpts{NUp: true, Variants: 2})
	if lk1 == lk2 {
		t.Error("Different LayoutKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(lk1, "layout:") {
		t.Errorf("LayoutKey unexpected: %s", lk1)
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "impose:test:")

	key := scoped.LayoutKey("req", LayoutKeyOpts{})
	if !strings.HasPrefix(key, "impose:test:layout:") {
		t.Errorf("ScopedKeyer LayoutKey should be prefixed: %s", key)
	}
	if !strings.HasPrefix(scoped.FrameKey("p", FrameKeyOpts{}), "impose:test:frame:") {
		t.Error("ScopedKeyer FrameKey should be prefixed")
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.RulesKey("s", "v")
	if key != "prefix:"+NewDefaultKeyer().RulesKey("s", "v") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(ErrNetwork)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if IsRetryable(errPermanent) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should call once: %d", calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return errPermanent
	})
	if err != errPermanent {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("Should retry once: %d", calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

func TestWithTTL(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryCache()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	inner.now = func() time.Time { return now }

	if got := WithTTL(inner, 0); got != Cache(inner) {
		t.Error("WithTTL(0) should return the cache unchanged")
	}

	c := WithTTL(inner, time.Minute)
	if err := c.Set(ctx, "k", []byte("v"), 24*time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry should expire after the overriding TTL")
	}
}

func TestRetryPolicyAttempts(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name   string
		policy RetryPolicy
		want   int
	}{
		{"three attempts", RetryPolicy{Attempts: 3, Delay: time.Millisecond}, 3},
		{"single attempt", RetryPolicy{Attempts: 1}, 1},
		{"zero means one", RetryPolicy{}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := tt.policy.Do(ctx, func() error {
				calls++
				return Retryable(ErrNetwork)
			})
			if !errors.Is(err, ErrNetwork) {
				t.Errorf("Do() = %v, want ErrNetwork", err)
			}
			if calls != tt.want {
				t.Errorf("calls = %d, want %d", calls, tt.want)
			}
		})
	}
}
