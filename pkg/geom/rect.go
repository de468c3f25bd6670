package geom

import (
	"encoding/json"
	"fmt"
	"math"
)

// Rect is an axis-aligned rectangle in page units. Y increases upward.
type Rect struct {
	Left, Top     float64
	Right, Bottom float64
}

// RectFromTopLeft builds a rectangle from its top-left corner and extents.
func RectFromTopLeft(left, top, w, h float64) Rect {
	return Rect{Left: left, Top: top, Right: left + w, Bottom: top - h}
}

// RectFromCenter builds a rectangle of the given size centered on (cx, cy).
func RectFromCenter(cx, cy float64, s Size) Rect {
	return RectFromTopLeft(cx-s.W/2, cy+s.H/2, s.W, s.H)
}

// Width returns the horizontal span of the rectangle.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height returns the vertical span of the rectangle.
func (r Rect) Height() float64 { return r.Top - r.Bottom }

// CenterX returns the horizontal center point of the rectangle.
func (r Rect) CenterX() float64 { return (r.Left + r.Right) / 2 }

// CenterY returns the vertical center point of the rectangle.
func (r Rect) CenterY() float64 { return (r.Bottom + r.Top) / 2 }

// Center returns the center point of the rectangle.
func (r Rect) Center() Point { return Point{X: r.CenterX(), Y: r.CenterY()} }

// Size returns the rectangle's extents.
func (r Rect) Size() Size { return Size{W: r.Width(), H: r.Height()} }

// Inset shrinks the rectangle by the given per-edge amounts. Negative
// amounts grow it. The result is not normalized: insets larger than the
// rectangle produce negative extents.
func (r Rect) Inset(top, bottom, left, right float64) Rect {
	return Rect{
		Left:   r.Left + left,
		Top:    r.Top - top,
		Right:  r.Right - right,
		Bottom: r.Bottom + bottom,
	}
}

// Array returns the host representation [left, top, right, bottom].
func (r Rect) Array() [4]float64 {
	return [4]float64{r.Left, r.Top, r.Right, r.Bottom}
}

// RectFromArray converts the host representation [left, top, right, bottom].
func RectFromArray(a [4]float64) Rect {
	return Rect{Left: a[0], Top: a[1], Right: a[2], Bottom: a[3]}
}

// MarshalJSON encodes the rectangle as [left, top, right, bottom].
func (r Rect) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Array())
}

// UnmarshalJSON decodes a [left, top, right, bottom] array.
func (r *Rect) UnmarshalJSON(data []byte) error {
	var a []float64
	if err := json.Unmarshal(data, &a); err != nil {
		return fmt.Errorf("rect: %w", err)
	}
	if len(a) != 4 {
		return fmt.Errorf("rect: want 4 values [left, top, right, bottom], got %d", len(a))
	}
	*r = Rect{Left: a[0], Top: a[1], Right: a[2], Bottom: a[3]}
	return nil
}

// String formats the rectangle for logs.
func (r Rect) String() string {
	return fmt.Sprintf("[%.2f %.2f %.2f %.2f]", r.Left, r.Top, r.Right, r.Bottom)
}

// Union returns the smallest rectangle containing every input rectangle.
// The second return value is false when rects is empty.
func Union(rects ...Rect) (Rect, bool) {
	if len(rects) == 0 {
		return Rect{}, false
	}
	u := Rect{
		Left:   math.Inf(1),
		Top:    math.Inf(-1),
		Right:  math.Inf(-1),
		Bottom: math.Inf(1),
	}
	for _, r := range rects {
		u.Left = math.Min(u.Left, r.Left)
		u.Bottom = math.Min(u.Bottom, r.Bottom)
		u.Right = math.Max(u.Right, r.Right)
		u.Top = math.Max(u.Top, r.Top)
	}
	return u, true
}
