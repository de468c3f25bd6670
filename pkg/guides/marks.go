package guides

import (
	"fmt"
	"math"
	"sort"

	"github.com/matzehuels/impose/pkg/geom"
	"github.com/matzehuels/impose/pkg/grid"
	"github.com/matzehuels/impose/pkg/sheet"
	"github.com/matzehuels/impose/pkg/units"
)

// MarkOptions configures trim marks. Lengths are millimeters, weight is
// points.
type MarkOptions struct {
	LengthMM float64 `json:"lengthMM"`
	OffsetMM float64 `json:"offsetMM"`
	Weight   float64 `json:"weight"`
	// Hybrid strokes the outer half of each mark solid and the rest dashed.
	Hybrid bool `json:"hybrid"`
}

// Defaults for [MarkOptions].
const (
	DefaultMarkLengthMM = 5
	DefaultMarkOffsetMM = 1
	DefaultMarkWeight   = 0.5
)

// SetMarkDefaults fills zero fields of o.
func SetMarkDefaults(o *MarkOptions) {
	if o.LengthMM <= 0 {
		o.LengthMM = DefaultMarkLengthMM
	}
	if o.OffsetMM <= 0 {
		o.OffsetMM = DefaultMarkOffsetMM
	}
	if o.Weight <= 0 {
		o.Weight = DefaultMarkWeight
	}
}

// TrimMarks returns cut marks at the sheet edges for every interior cut line
// of the grid. The outermost cut on each axis is skipped, as are cuts that
// fall outside the sheet.
//
// Marks always run from the sheet edge inwards for top and left marks and
// from the inside out to the edge for bottom and right marks, so that with
// hybrid dashes the solid end is on the same side of every sheet.
func TrimMarks(g sheet.Geometry, placements []grid.Placement, cell geom.Size, o MarkOptions) []Line {
	if len(placements) == 0 {
		return nil
	}
	SetMarkDefaults(&o)

	var xs, ys []float64
	for _, p := range placements {
		xs = append(xs, p.X-cell.W/2, p.X+cell.W/2)
		ys = append(ys, p.Y+cell.H/2, p.Y-cell.H/2)
	}
	xs = interior(xs)
	ys = interior(ys)

	length := units.MMToPt(o.LengthMM)
	offset := units.MMToPt(o.OffsetMM)
	left, right := g.Left, g.Left+g.W
	top, bottom := g.Top, g.Top-g.H

	var dashes []float64
	if o.Hybrid {
		dashes = []float64{length / 2, 2, 2, 2}
	}
	var lines []Line
	add := func(name string, from, to geom.Point) {
		lines = append(lines, Line{
			Name:   name,
			Kind:   KindMark,
			From:   from,
			To:     to,
			Weight: o.Weight,
			Dashes: dashes,
		})
	}

	for i, x := range xs {
		if x <= left || x >= right {
			continue
		}
		add(fmt.Sprintf("Mark_top_%d", i+1), geom.Point{X: x, Y: top - offset}, geom.Point{X: x, Y: top - offset - length})
		add(fmt.Sprintf("Mark_bottom_%d", i+1), geom.Point{X: x, Y: bottom + offset + length}, geom.Point{X: x, Y: bottom + offset})
	}
	for i, y := range ys {
		if y >= top || y <= bottom {
			continue
		}
		add(fmt.Sprintf("Mark_left_%d", i+1), geom.Point{X: left + offset, Y: y}, geom.Point{X: left + offset + length, Y: y})
		add(fmt.Sprintf("Mark_right_%d", i+1), geom.Point{X: right - offset - length, Y: y}, geom.Point{X: right - offset, Y: y})
	}
	return lines
}

// interior deduplicates coordinates at 0.01pt resolution, sorts them and
// drops the smallest and largest.
func interior(vs []float64) []float64 {
	seen := make(map[int64]float64, len(vs))
	for _, v := range vs {
		k := int64(math.Round(v * 100))
		if _, ok := seen[k]; !ok {
			seen[k] = v
		}
	}
	out := make([]float64, 0, len(seen))
	for _, v := range seen {
		out = append(out, v)
	}
	sort.Float64s(out)
	if len(out) >= 2 {
		out = out[1 : len(out)-1]
	}
	return out
}
