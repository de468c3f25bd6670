package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/impose/pkg/cache"
	"github.com/matzehuels/impose/pkg/frame"
	"github.com/matzehuels/impose/pkg/geom"
	"github.com/matzehuels/impose/pkg/grid"
	"github.com/matzehuels/impose/pkg/margin"
	"github.com/matzehuels/impose/pkg/observability"
	"github.com/matzehuels/impose/pkg/rules"
	"github.com/matzehuels/impose/pkg/schema"
	"github.com/matzehuels/impose/pkg/values"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so caching behaves the same everywhere.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete frame → layout pipeline with caching.
func (r *Runner) Execute(ctx context.Context, req Request) (*Result, error) {
	r.applyLogger(&req)
	if err := req.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	result := &Result{}
	flags, warnings := ParseFlags(req.Payload.RawValues)
	result.Flags = flags
	for _, w := range warnings {
		r.Logger.Warn(w)
	}

	// Stage 1: Frame
	frameStart := time.Now()
	f, content, frameHit, err := r.FrameWithCacheInfo(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("frame: %w", err)
	}
	result.Frame = f
	result.Content = content
	result.Stats.FrameTime = time.Since(frameStart)
	result.Stats.RuleCount = len(f.Rules)
	result.CacheInfo.FrameHit = frameHit

	if content.Width > 0 && content.Height > 0 {
		fit, err := f.Fit(content.Size())
		if err == nil {
			result.Fit = &fit
		}
	}

	r.Logger.Info("calculated frame",
		"finish", fmt.Sprintf("%.2fx%.2fpt", f.Finish.W, f.Finish.H),
		"print", fmt.Sprintf("%.2fx%.2fpt", f.Print.W, f.Print.H),
		"rules", len(f.Rules),
		"auto", f.IsAutoSize,
		"duration", result.Stats.FrameTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	layout, layoutHit, err := r.LayoutWithCacheInfo(ctx, req, f, flags)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	layout.Warnings = append(layout.Warnings, warnings...)
	result.Layout = layout
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Copies = len(layout.Placements)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"mode", layout.Mode,
		"copies", len(layout.Placements),
		"grid", fmt.Sprintf("%dx%d", layout.Cols, layout.Rows),
		"marks", len(layout.Marks),
		"duration", result.Stats.LayoutTime)

	return result, nil
}

// FrameWithCacheInfo calculates the frame with caching and returns cache hit
// info alongside the aggregated content bounds.
func (r *Runner) FrameWithCacheInfo(ctx context.Context, req Request) (frame.Frame, geom.Bounds, bool, error) {
	r.applyLogger(&req)
	if err := req.ValidateForFrame(); err != nil {
		return frame.Frame{}, geom.Bounds{}, false, err
	}
	content, err := ContentBounds(req)
	if err != nil {
		return frame.Frame{}, geom.Bounds{}, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnFrameStart(ctx, req.SchemaID)
	start := time.Now()

	payloadHash, err := cache.HashJSON(req.Payload)
	if err != nil {
		return frame.Frame{}, content, false, fmt.Errorf("hash payload: %w", err)
	}
	key := r.Keyer.FrameKey(payloadHash, cache.FrameKeyOpts{ContentW: content.Width, ContentH: content.Height})

	var f frame.Frame
	if !req.Refresh && r.load(ctx, cache.StageFrame, key, &f) {
		hooks.OnFrameComplete(ctx, req.SchemaID, len(f.Rules), time.Since(start), nil)
		return f, content, true, nil
	}

	f, err = CalculateFrame(req, content)
	hooks.OnFrameComplete(ctx, req.SchemaID, len(f.Rules), time.Since(start), err)
	if err != nil {
		return frame.Frame{}, content, false, err
	}
	r.store(ctx, cache.StageFrame, key, f, cache.TTLFrame)
	return f, content, false, nil
}

// Frame is a convenience wrapper that calls FrameWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Frame(ctx context.Context, req Request) (frame.Frame, error) {
	f, _, _, err := r.FrameWithCacheInfo(ctx, req)
	return f, err
}

// LayoutWithCacheInfo imposes a calculated frame with caching and returns
// cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, req Request, f frame.Frame, flags Flags) (Layout, bool, error) {
	r.applyLogger(&req)
	if err := req.ValidateForLayout(); err != nil {
		return Layout{}, false, err
	}

	hooks := observability.Pipeline()
	mode := flags.Mode()
	hooks.OnLayoutStart(ctx, mode)
	start := time.Now()

	requestHash, err := cache.HashJSON(layoutInputs{
		Frame:     f,
		Flags:     flags,
		Sheet:     req.Sheet,
		RawValues: req.Payload.RawValues,
		SpacingMM: req.SpacingMM,
	})
	if err != nil {
		return Layout{}, false, fmt.Errorf("hash request: %w", err)
	}
	key := r.Keyer.LayoutKey(requestHash, cache.LayoutKeyOpts{
		NUp:            flags.NUp,
		Variants:       req.Variants,
		HeadToHead:     flags.HeadToHead,
		ReserveGripper: req.ReserveGripper,
		Marks:          flags.DrawMarks,
	})

	var out Layout
	if !req.Refresh && r.load(ctx, cache.StageLayout, key, &out) {
		hooks.OnLayoutComplete(ctx, mode, len(out.Placements), time.Since(start), nil)
		return out, true, nil
	}

	out, err = Impose(req, f, flags)
	hooks.OnLayoutComplete(ctx, mode, len(out.Placements), time.Since(start), err)
	if err != nil {
		return Layout{}, false, err
	}
	r.store(ctx, cache.StageLayout, key, out, cache.TTLLayout)
	return out, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, req Request, f frame.Frame, flags Flags) (Layout, error) {
	out, _, err := r.LayoutWithCacheInfo(ctx, req, f, flags)
	return out, err
}

// CompileRulesWithCacheInfo compiles rules with caching and returns cache hit
// info. A nil schema selects the default preset.
func (r *Runner) CompileRulesWithCacheInfo(ctx context.Context, s *schema.Schema, v values.Values) ([]margin.Rule, bool, error) {
	if s == nil {
		def, err := schema.Lookup(schema.DefaultPreset)
		if err != nil {
			return nil, false, err
		}
		s = def
	} else if err := schema.Validate(s); err != nil {
		return nil, false, err
	}

	schemaHash, err := cache.HashJSON(s)
	if err != nil {
		return nil, false, fmt.Errorf("hash schema: %w", err)
	}
	valuesHash, err := cache.HashJSON(v)
	if err != nil {
		return nil, false, fmt.Errorf("hash values: %w", err)
	}
	key := r.Keyer.RulesKey(schemaHash, valuesHash)

	var out []margin.Rule
	if r.load(ctx, cache.StageRules, key, &out) {
		return out, true, nil
	}
	out = rules.Compile(s, v, rules.WithLogger(r.Logger))
	r.store(ctx, cache.StageRules, key, out, cache.TTLRules)
	return out, false, nil
}

// CompileRules is a convenience wrapper that calls CompileRulesWithCacheInfo
// and discards the cache hit info.
func (r *Runner) CompileRules(ctx context.Context, s *schema.Schema, v values.Values) ([]margin.Rule, error) {
	out, _, err := r.CompileRulesWithCacheInfo(ctx, s, v)
	return out, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// layoutInputs is everything besides the key options that a layout
// depends on.
type layoutInputs struct {
	Frame     frame.Frame   `json:"frame"`
	Flags     Flags         `json:"flags"`
	Sheet     geom.Rect     `json:"sheet"`
	RawValues values.Values `json:"rawValues"`
	SpacingMM grid.Spacing  `json:"spacingMM"`
}

// load reads key into v. Backend errors and undecodable entries count as a
// miss.
func (r *Runner) load(ctx context.Context, keyType, key string, v any) bool {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache read failed", "type", keyType, "err", err)
	}
	if err != nil || !hit || json.Unmarshal(data, v) != nil {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return true
}

// store writes v under key. Failures are logged and otherwise ignored.
func (r *Runner) store(ctx context.Context, keyType, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		r.Logger.Debug("cache encode failed", "type", keyType, "err", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on the request if not already set.
func (r *Runner) applyLogger(req *Request) {
	if req.Logger == nil {
		req.Logger = r.Logger
	}
}
