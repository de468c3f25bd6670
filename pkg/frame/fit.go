package frame

import (
	"math"

	"github.com/matzehuels/impose/pkg/errors"
	"github.com/matzehuels/impose/pkg/geom"
)

// Fit describes how to scale content into the printable area.
type Fit struct {
	ScaleX  float64 `json:"scaleX"`
	ScaleY  float64 `json:"scaleY"`
	Skipped bool    `json:"skipped"`
}

// Fit computes the scale factors that bring content of the given size into
// the printable area. Auto-sized frames are skipped with unit scale.
//
// Preserve uses the smaller of the two ratios on both axes; Fill uses each
// ratio on its own axis.
func (f Frame) Fit(content geom.Size) (Fit, error) {
	if f.IsAutoSize {
		return Fit{ScaleX: 1, ScaleY: 1, Skipped: true}, nil
	}
	if content.W <= 0 || content.H <= 0 {
		return Fit{}, errors.New(errors.ErrCodeInvalidValue, "invalid content dimensions %.2fx%.2f", content.W, content.H)
	}
	if err := f.Check(); err != nil {
		return Fit{}, err
	}

	rw := f.Print.W / content.W
	rh := f.Print.H / content.H
	if f.ResizeMode == Fill {
		return Fit{ScaleX: rw, ScaleY: rh}, nil
	}
	r := math.Min(rw, rh)
	return Fit{ScaleX: r, ScaleY: r}, nil
}

// SafeCenter returns the center of the printable area relative to the
// center of the finish rectangle.
func (f Frame) SafeCenter() geom.Point {
	pad := f.Padding()
	top := f.Finish.H/2 - pad.Top
	left := -f.Finish.W/2 + pad.Left
	return geom.Point{X: left + f.Print.W/2, Y: top - f.Print.H/2}
}

// CenterOffset returns the translation that moves content with the given
// bounds (relative to the finish center) onto the printable area's center.
func (f Frame) CenterOffset(content geom.Bounds) geom.Point {
	safe := f.SafeCenter()
	r := content.Rect()
	return geom.Point{X: safe.X - r.CenterX(), Y: safe.Y - r.CenterY()}
}
