package grid

import (
	"math"

	"github.com/matzehuels/impose/pkg/geom"
)

// eps absorbs floating point error in the capacity division, so that an
// exact fit such as (100+5)/(30+5) is not truncated to 2.
const eps = 1e-9

// Spacing is the gap between adjacent cells, in page units.
type Spacing struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Gripper is the per-edge clearance reserved at the sheet edges, in page
// units.
type Gripper struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
}

// Uniform returns a gripper with the same clearance on every edge.
func Uniform(v float64) Gripper {
	return Gripper{Top: v, Bottom: v, Left: v, Right: v}
}

// IsZero reports whether no clearance is reserved.
func (g Gripper) IsZero() bool { return g == Gripper{} }

// Placement is one grid cell that receives a copy.
type Placement struct {
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	VariantIndex int     `json:"variantIndex"`
	Row          int     `json:"row"`
	Col          int     `json:"col"`
	Rotation     int     `json:"rotation"`
}

// Params are the inputs of a layout.
type Params struct {
	Sheet      geom.Rect
	Cell       geom.Size
	Variants   int
	Spacing    Spacing
	Gripper    Gripper
	HeadToHead bool
}

// Result is a computed layout together with the intermediate geometry.
type Result struct {
	Cols, Rows     int
	RowsPerVariant int
	// Usable is the sheet minus the gripper.
	Usable geom.Rect
	// Bounds is the footprint of the grid, centered in Usable. It is the
	// zero rectangle when nothing fits.
	Bounds     geom.Rect
	Placements []Placement
}

// Empty reports whether no copy fits.
func (r Result) Empty() bool { return len(r.Placements) == 0 }

// Layout returns one placement per grid cell, row-major. An empty slice
// means the cell does not fit on the usable area even once.
func Layout(sheet geom.Rect, cell geom.Size, variants int, spacing Spacing, gripper Gripper, headToHead bool) []Placement {
	return Plan(Params{
		Sheet:      sheet,
		Cell:       cell,
		Variants:   variants,
		Spacing:    spacing,
		Gripper:    gripper,
		HeadToHead: headToHead,
	}).Placements
}

// Plan computes the full layout for p. Variants below 1 are treated as 1.
func Plan(p Params) Result {
	usable := p.Sheet.Inset(p.Gripper.Top, p.Gripper.Bottom, p.Gripper.Left, p.Gripper.Right)
	res := Result{
		Usable: usable,
		Cols:   Capacity(usable.Width(), p.Cell.W, p.Spacing.X),
		Rows:   Capacity(usable.Height(), p.Cell.H, p.Spacing.Y),
	}
	if res.Cols <= 0 || res.Rows <= 0 {
		res.Cols, res.Rows = 0, 0
		return res
	}

	variants := max(p.Variants, 1)
	res.RowsPerVariant = res.Rows / variants

	gridW := float64(res.Cols)*p.Cell.W + float64(res.Cols-1)*p.Spacing.X
	gridH := float64(res.Rows)*p.Cell.H + float64(res.Rows-1)*p.Spacing.Y
	res.Bounds = geom.RectFromCenter(usable.CenterX(), usable.CenterY(), geom.Size{W: gridW, H: gridH})

	res.Placements = make([]Placement, 0, res.Cols*res.Rows)
	for r := 0; r < res.Rows; r++ {
		for c := 0; c < res.Cols; c++ {
			res.Placements = append(res.Placements, Placement{
				X:            res.Bounds.Left + float64(c)*(p.Cell.W+p.Spacing.X) + p.Cell.W/2,
				Y:            res.Bounds.Top - float64(r)*(p.Cell.H+p.Spacing.Y) - p.Cell.H/2,
				VariantIndex: VariantFor(r, c, res.Rows, variants),
				Row:          r,
				Col:          c,
				Rotation:     RotationFor(r, p.HeadToHead),
			})
		}
	}
	return res
}

// Capacity returns how many cells of size cell, separated by spacing, fit
// in length usable. Non-positive cell sizes and lengths yield 0.
func Capacity(usable, cell, spacing float64) int {
	if cell <= 0 || usable <= 0 || cell+spacing <= 0 {
		return 0
	}
	n := math.Floor((usable+spacing)/(cell+spacing) + eps)
	if n < 0 {
		return 0
	}
	return int(n)
}

// VariantFor returns the variant shown at (row, col) in a grid of rows rows
// with the given number of variants, using the balanced stack with mixed
// footer distribution.
func VariantFor(row, col, rows, variants int) int {
	if variants <= 1 {
		return 0
	}
	perVariant := rows / variants
	if perVariant > 0 && row < perVariant*variants {
		return min(row/perVariant, variants-1)
	}
	return col % variants
}

// RotationFor returns 180 for odd rows when head-to-head is on, else 0.
func RotationFor(row int, headToHead bool) int {
	if headToHead && row%2 != 0 {
		return 180
	}
	return 0
}

// VariantCounts returns how many placements show each variant.
func VariantCounts(placements []Placement, variants int) []int {
	counts := make([]int, max(variants, 1))
	for _, p := range placements {
		if p.VariantIndex >= 0 && p.VariantIndex < len(counts) {
			counts[p.VariantIndex]++
		}
	}
	return counts
}
