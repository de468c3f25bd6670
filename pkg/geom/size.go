package geom

import "math"

// Size is a width/height pair.
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Positive reports whether both extents are strictly positive.
func (s Size) Positive() bool { return s.W > 0 && s.H > 0 }

// Rotated returns the extents of the axis-aligned bounding box of a
// rectangle of size s rotated by deg degrees around its center.
func (s Size) Rotated(deg float64) Size {
	rad := deg * math.Pi / 180
	sin, cos := math.Abs(math.Sin(rad)), math.Abs(math.Cos(rad))
	return Size{
		W: s.W*cos + s.H*sin,
		H: s.W*sin + s.H*cos,
	}
}

// Point is a position in page units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Bounds is a content bounding box given as a top-left anchor plus extents.
type Bounds struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Size returns the extents of the bounds.
func (b Bounds) Size() Size { return Size{W: b.Width, H: b.Height} }

// Rect converts the bounds to a rectangle.
func (b Bounds) Rect() Rect { return RectFromTopLeft(b.Left, b.Top, b.Width, b.Height) }

// BoundsOf converts a rectangle to top-left anchored bounds.
func BoundsOf(r Rect) Bounds {
	return Bounds{Left: r.Left, Top: r.Top, Width: r.Width(), Height: r.Height()}
}
