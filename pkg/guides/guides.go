// Package guides computes the guide and mark geometry that the drawing layer
// strokes: yield guides inside each copy, sheet margin guides and trim marks.
//
// Yield guides are relative to the center of the yield container. Sheet
// guides and trim marks are absolute page coordinates.
package guides

import (
	"github.com/matzehuels/impose/pkg/frame"
	"github.com/matzehuels/impose/pkg/geom"
	"github.com/matzehuels/impose/pkg/grid"
	"github.com/matzehuels/impose/pkg/margin"
	"github.com/matzehuels/impose/pkg/sheet"
	"github.com/matzehuels/impose/pkg/units"
)

// Kind tells the drawing layer how to stroke a line.
type Kind string

const (
	// KindGuide is a non-printing guide.
	KindGuide Kind = "guide"
	// KindBorder is a visible K100 stroke.
	KindBorder Kind = "border"
	// KindMark is a printed trim mark.
	KindMark Kind = "mark"
)

// BorderWeight is the stroke weight of borders and sheet guides, in points.
const BorderWeight = 0.5

// Line is a single two-point path.
type Line struct {
	Name   string     `json:"name"`
	Kind   Kind       `json:"kind"`
	From   geom.Point `json:"from"`
	To     geom.Point `json:"to"`
	Weight float64    `json:"weight,omitempty"`
	Dashes []float64  `json:"dashes,omitempty"`
}

// Yield holds the guides drawn inside one yield container.
type Yield struct {
	// SafeZone is the printable area rectangle.
	SafeZone geom.Rect `json:"safeZone"`
	Lines    []Line    `json:"lines"`
}

// SafeZoneName is the name of the printable area guide.
const SafeZoneName = "Guide_Safe_Zone"

// ForYield returns the guides of one yield: the printable area and, for each
// rule, a guide line at the rule's own offset from its edge. Rules that ask
// for a border also get a visible stroke on the same path.
func ForYield(f frame.Frame) Yield {
	pad := f.Padding()
	halfW, halfH := f.Finish.W/2, f.Finish.H/2

	y := Yield{
		SafeZone: geom.RectFromTopLeft(-halfW+pad.Left, halfH-pad.Top, f.Print.W, f.Print.H),
	}
	for _, r := range f.Rules {
		if r.Value <= 0 {
			continue
		}
		v := units.MMToPt(r.Value)
		var from, to geom.Point
		switch r.Edge {
		case margin.Top:
			from, to = geom.Point{X: -halfW, Y: halfH - v}, geom.Point{X: halfW, Y: halfH - v}
		case margin.Bottom:
			from, to = geom.Point{X: -halfW, Y: -halfH + v}, geom.Point{X: halfW, Y: -halfH + v}
		case margin.Left:
			from, to = geom.Point{X: -halfW + v, Y: halfH}, geom.Point{X: -halfW + v, Y: -halfH}
		case margin.Right:
			from, to = geom.Point{X: halfW - v, Y: halfH}, geom.Point{X: halfW - v, Y: -halfH}
		default:
			continue
		}
		y.Lines = append(y.Lines, Line{Name: "Guide_" + r.ID, Kind: KindGuide, From: from, To: to})
		if r.DrawBorder {
			b := Line{Name: "Border_" + r.ID, Kind: KindBorder, From: from, To: to, Weight: BorderWeight}
			if r.BorderStyle == margin.Dashed {
				b.Dashes = []float64{3, 2}
			}
			y.Lines = append(y.Lines, b)
		}
	}
	return y
}

// ForSheet returns one guide per non-zero gripper edge, across the full
// sheet.
func ForSheet(g sheet.Geometry, grip grid.Gripper) []Line {
	left, right := g.Left, g.Left+g.W
	top, bottom := g.Top, g.Top-g.H

	var lines []Line
	add := func(name string, from, to geom.Point) {
		lines = append(lines, Line{Name: "Guide_" + name, Kind: KindGuide, From: from, To: to, Weight: BorderWeight})
	}
	if grip.Top > 0 {
		add("sheet_m_top", geom.Point{X: left, Y: top - grip.Top}, geom.Point{X: right, Y: top - grip.Top})
	}
	if grip.Bottom > 0 {
		add("sheet_m_bot", geom.Point{X: left, Y: bottom + grip.Bottom}, geom.Point{X: right, Y: bottom + grip.Bottom})
	}
	if grip.Left > 0 {
		add("sheet_m_left", geom.Point{X: left + grip.Left, Y: top}, geom.Point{X: left + grip.Left, Y: bottom})
	}
	if grip.Right > 0 {
		add("sheet_m_right", geom.Point{X: right - grip.Right, Y: top}, geom.Point{X: right - grip.Right, Y: bottom})
	}
	return lines
}
