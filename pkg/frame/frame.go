package frame

import (
	"github.com/matzehuels/impose/pkg/errors"
	"github.com/matzehuels/impose/pkg/geom"
	"github.com/matzehuels/impose/pkg/margin"
	"github.com/matzehuels/impose/pkg/rules"
	"github.com/matzehuels/impose/pkg/schema"
	"github.com/matzehuels/impose/pkg/units"
	"github.com/matzehuels/impose/pkg/values"
)

// ResizeMode selects how content is scaled into the printable area.
type ResizeMode string

const (
	// Preserve scales uniformly so content fits inside the printable area.
	Preserve ResizeMode = "preserve"
	// Fill scales each axis independently to cover the printable area.
	Fill ResizeMode = "fill"
)

// ParseResizeMode maps raw input to a mode. Anything but "fill" preserves.
func ParseResizeMode(s string) ResizeMode {
	if ResizeMode(s) == Fill {
		return Fill
	}
	return Preserve
}

// Geometry carries the explicit finish size in millimeters. A zero or
// negative dimension means "detect from content".
type Geometry struct {
	Finish geom.Size `json:"finish"`
}

// Payload is everything the frame needs from the configuration layer.
// When Rules is non-empty it is used as is; otherwise rules are compiled
// from Schema and RawValues.
type Payload struct {
	Geometry  Geometry       `json:"geometry"`
	RawValues values.Values  `json:"rawValues"`
	Schema    *schema.Schema `json:"schema,omitempty"`
	Rules     []margin.Rule  `json:"rules,omitempty"`
}

// Frame is the computed yield frame. Finish and Print are in points;
// Margins stay in millimeters for display.
type Frame struct {
	Finish     geom.Size      `json:"finish"`
	Print      geom.Size      `json:"print"`
	Margins    margin.Margins `json:"margins"`
	Rules      []margin.Rule  `json:"rules"`
	IsAutoSize bool           `json:"isAutoSize"`
	ResizeMode ResizeMode     `json:"resizeMode"`
}

// Calculate builds the frame for p. content is the bounding box of the
// artwork in page units and is only consulted for auto-sizing.
func Calculate(p Payload, content geom.Bounds, opts ...rules.Option) Frame {
	f := Frame{ResizeMode: ParseResizeMode(p.RawValues.String("resize_mode", string(Preserve)))}

	if p.Geometry.Finish.Positive() {
		f.Finish = units.SizeToPt(p.Geometry.Finish)
	} else {
		f.IsAutoSize = true
		f.Finish = content.Size()
	}

	if len(p.Rules) > 0 {
		f.Rules = append([]margin.Rule(nil), p.Rules...)
	} else {
		f.Rules = rules.Compile(p.Schema, p.RawValues, opts...)
	}
	f.Margins = margin.Resolve(f.Rules)

	pad := f.Padding()
	f.Print = geom.Size{
		W: f.Finish.W - pad.Horizontal(),
		H: f.Finish.H - pad.Vertical(),
	}
	return f
}

// Padding returns the resolved margins in points.
func (f Frame) Padding() margin.Margins {
	return f.Margins.Scale(units.PointsPerMM)
}

// Placement is the absolute position of one frame on the page.
type Placement struct {
	Finish geom.Rect `json:"finish"`
	Print  geom.Rect `json:"print"`
}

// AbsoluteBounds positions the frame so that its finish rectangle is
// centered on (cx, cy), and returns both rectangles. The print rectangle is
// inset from the finish rectangle's top-left corner by the left and top
// margins.
func (f Frame) AbsoluteBounds(cx, cy float64) Placement {
	finish := geom.RectFromCenter(cx, cy, f.Finish)
	pad := f.Padding()
	return Placement{
		Finish: finish,
		Print:  geom.RectFromTopLeft(finish.Left+pad.Left, finish.Top-pad.Top, f.Print.W, f.Print.H),
	}
}

// Feasible reports whether the printable area is non-degenerate.
func (f Frame) Feasible() bool {
	return f.Print.W > 0 && f.Print.H > 0
}

// Check returns an [errors.ErrCodeFrameInfeasible] error when the margins
// leave no printable area, and nil otherwise.
func (f Frame) Check() error {
	if f.Feasible() {
		return nil
	}
	return errors.New(errors.ErrCodeFrameInfeasible,
		"margins (%s mm) leave no printable area in a %.2fx%.2f mm finish (print %.2fx%.2f mm)",
		f.Margins, units.PtToMM(f.Finish.W), units.PtToMM(f.Finish.H),
		units.PtToMM(f.Print.W), units.PtToMM(f.Print.H))
}
