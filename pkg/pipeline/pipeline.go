// Package pipeline runs a complete imposition: rule compilation, margin
// resolution, frame calculation, sheet sizing and grid layout.
//
// The CLI and the HTTP server both go through this package so that they
// agree on defaults, validation and caching.
//
// # Stages
//
//  1. Frame: compile rules from the schema and raw values, resolve margins
//     and compute the yield frame (finish and printable area).
//  2. Layout: size the sheet, then either tile the frame across it (N-Up)
//     or anchor a single copy, and compute guides and trim marks.
//
// Each stage can be run on its own and is cached independently.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Request{
//	    SchemaID: "standard_imposition",
//	    Payload: frame.Payload{
//	        Geometry:  frame.Geometry{Finish: geom.Size{W: 90, H: 54}},
//	        RawValues: values.Values{"opt_n_up": true, "safe_top": 3},
//	    },
//	    Sheet: geom.RectFromTopLeft(0, 0, 907.09, 1360.63),
//	})
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/impose/pkg/errors"
	"github.com/matzehuels/impose/pkg/frame"
	"github.com/matzehuels/impose/pkg/geom"
	"github.com/matzehuels/impose/pkg/grid"
	"github.com/matzehuels/impose/pkg/guides"
	"github.com/matzehuels/impose/pkg/schema"
	"github.com/matzehuels/impose/pkg/sheet"
	"github.com/matzehuels/impose/pkg/units"
	"github.com/matzehuels/impose/pkg/values"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// MaxVariants bounds the number of artwork variants in one layout.
	MaxVariants = 64

	// MaxContentItems bounds the number of content rectangles in a request.
	MaxContentItems = 10000
)

// Layout modes.
const (
	ModeNUp    = "n-up"
	ModeSingle = "single"
)

// DefaultSheet is the sheet used when a request has none: the default sheet
// size with its top-left corner at the origin.
func DefaultSheet() geom.Rect {
	return geom.RectFromTopLeft(0, 0, units.MMToPt(sheet.DefaultWidthMM), units.MMToPt(sheet.DefaultHeightMM))
}

// =============================================================================
// Request
// =============================================================================

// Request is one imposition job. It supports JSON serialization for API
// requests.
type Request struct {
	// SchemaID names a builtin preset used when Payload carries neither a
	// schema nor precompiled rules.
	SchemaID string        `json:"schemaId,omitempty"`
	Payload  frame.Payload `json:"payload"`

	// Content holds the visible bounds of the selected artwork items.
	Content []geom.Rect `json:"content,omitempty"`

	// Sheet is the current artboard. The zero rectangle selects
	// [DefaultSheet].
	Sheet geom.Rect `json:"sheet"`

	// Variants is the number of distinct artworks distributed over the
	// grid rows. Values below 1 mean 1.
	Variants int `json:"variants,omitempty"`

	// SpacingMM is the gap between grid cells, in millimeters.
	SpacingMM grid.Spacing `json:"spacingMM,omitempty"`

	// ReserveGripper makes the sheet margins shrink the area available to
	// the grid. By default they are drawn as guides only.
	ReserveGripper bool `json:"reserveGripper,omitempty"`

	// Refresh bypasses cached results.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks the request and fills in defaults.
// This method is idempotent.
func (r *Request) ValidateAndSetDefaults() error {
	if r.validated {
		return nil
	}
	if err := r.ValidateForFrame(); err != nil {
		return err
	}
	if err := r.ValidateForLayout(); err != nil {
		return err
	}
	r.validated = true
	return nil
}

// ValidateForFrame resolves the schema and the finish size.
func (r *Request) ValidateForFrame() error {
	if r.Logger == nil {
		r.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if r.Payload.Schema == nil && len(r.Payload.Rules) == 0 {
		id := r.SchemaID
		if id == "" {
			id = schema.DefaultPreset
		}
		s, err := schema.Lookup(id)
		if err != nil {
			return err
		}
		r.Payload.Schema = s
		r.SchemaID = id
	} else if r.Payload.Schema != nil {
		if err := schema.Validate(r.Payload.Schema); err != nil {
			return err
		}
		if r.SchemaID == "" {
			r.SchemaID = r.Payload.Schema.ID
		}
	}

	if r.Payload.Schema != nil {
		r.Payload.RawValues = withDefaults(r.Payload.Schema, r.Payload.RawValues)
	}

	if len(r.Content) > MaxContentItems {
		return errors.New(errors.ErrCodeInvalidInput, "too many content items (max %d, got %d)", MaxContentItems, len(r.Content))
	}

	finish := r.Payload.Geometry.Finish
	if !finish.Positive() {
		finish = geom.Size{
			W: r.Payload.RawValues.Float("finish_w", 0),
			H: r.Payload.RawValues.Float("finish_h", 0),
		}
		if finish.Positive() {
			r.Payload.Geometry.Finish = finish
		}
	}
	if !r.Payload.Geometry.Finish.Positive() && len(r.Content) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no content selected and no finish size given")
	}
	return nil
}

// ValidateForLayout checks the layout switches and applies defaults.
func (r *Request) ValidateForLayout() error {
	if r.Logger == nil {
		r.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if r.Variants < 1 {
		r.Variants = 1
	}
	if err := errors.ValidateCount("variants", r.Variants, MaxVariants); err != nil {
		return err
	}
	if err := errors.ValidateDimension("spacing x", r.SpacingMM.X); err != nil {
		return err
	}
	if err := errors.ValidateDimension("spacing y", r.SpacingMM.Y); err != nil {
		return err
	}
	if r.Sheet.Width() <= 0 || r.Sheet.Height() <= 0 {
		r.Sheet = DefaultSheet()
	}
	return nil
}

// withDefaults overlays raw on the schema's field defaults, so that flags
// and sheet settings the user never touched take their declared default.
func withDefaults(s *schema.Schema, raw values.Values) values.Values {
	out := values.Values(s.Defaults())
	for k, v := range raw {
		out[k] = v
	}
	return out
}

// =============================================================================
// Result
// =============================================================================

// Layout is the sheet-level outcome of a run.
type Layout struct {
	Mode string `json:"mode"`

	Sheet sheet.Geometry `json:"sheet"`
	// SheetResized reports that the sheet was resized from ab_w/ab_h.
	SheetResized bool `json:"sheetResized"`
	// Gripper holds the sheet margins in points.
	Gripper grid.Gripper `json:"gripper"`

	// Cell is the footprint of one copy in points. In single mode with a
	// custom rotation it is the rotated bounding box.
	Cell        geom.Size `json:"cell"`
	RotateAngle float64   `json:"rotateAngle,omitempty"`

	Cols          int              `json:"cols"`
	Rows          int              `json:"rows"`
	Placements    []grid.Placement `json:"placements"`
	VariantCounts []int            `json:"variantCounts,omitempty"`

	// Anchor is the top-left corner of the single copy.
	Anchor *geom.Point `json:"anchor,omitempty"`

	YieldGuides guides.Yield  `json:"yieldGuides"`
	SheetGuides []guides.Line `json:"sheetGuides,omitempty"`
	Marks       []guides.Line `json:"marks,omitempty"`

	Warnings []string `json:"warnings,omitempty"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Content is the aggregated bounds of the request content.
	Content geom.Bounds `json:"content"`

	Frame frame.Frame `json:"frame"`

	// Fit is the content scaling for the frame; nil without content.
	Fit *frame.Fit `json:"fit,omitempty"`

	Flags  Flags  `json:"flags"`
	Layout Layout `json:"layout"`

	Stats     Stats     `json:"stats"`
	CacheInfo CacheInfo `json:"cacheInfo"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	RuleCount  int           `json:"ruleCount"`
	Copies     int           `json:"copies"`
	FrameTime  time.Duration `json:"frameTime"`
	LayoutTime time.Duration `json:"layoutTime"`
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	FrameHit  bool `json:"frameHit"`
	LayoutHit bool `json:"layoutHit"`
}
