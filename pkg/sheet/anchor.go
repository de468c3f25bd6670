package sheet

import (
	"fmt"

	"github.com/matzehuels/impose/pkg/geom"
)

// Alignment is a 9-way position on the sheet: the first letter is the
// vertical position (t, m, b), the second the horizontal one (l, c, r).
type Alignment string

const (
	TopLeft      Alignment = "tl"
	TopCenter    Alignment = "tc"
	TopRight     Alignment = "tr"
	MiddleLeft   Alignment = "ml"
	MiddleCenter Alignment = "mc"
	MiddleRight  Alignment = "mr"
	BottomLeft   Alignment = "bl"
	BottomCenter Alignment = "bc"
	BottomRight  Alignment = "br"
)

// Alignments returns all alignments in reading order.
func Alignments() []Alignment {
	return []Alignment{TopLeft, TopCenter, TopRight, MiddleLeft, MiddleCenter, MiddleRight, BottomLeft, BottomCenter, BottomRight}
}

// ParseAlignment validates an alignment token.
func ParseAlignment(s string) (Alignment, error) {
	for _, a := range Alignments() {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown alignment %q", s)
}

// Anchor returns the top-left corner at which an item of the given size is
// placed for alignment a. The raw sheet bounds are used; gripper clearance
// does not move single placements. Malformed alignments behave as
// [TopLeft].
func Anchor(g Geometry, item geom.Size, a Alignment) geom.Point {
	if len(a) != 2 {
		a = TopLeft
	}
	left, right := g.Left, g.Left+g.W
	top, bottom := g.Top, g.Top-g.H

	var p geom.Point
	switch a[1] {
	case 'l':
		p.X = left
	case 'r':
		p.X = right - item.W
	default:
		p.X = left + (g.W-item.W)/2
	}
	switch a[0] {
	case 't':
		p.Y = top
	case 'b':
		p.Y = bottom + item.H
	default:
		p.Y = bottom + item.H + (g.H-item.H)/2
	}
	return p
}

// Place returns the rectangle an item of the given size occupies when
// anchored with a.
func Place(g Geometry, item geom.Size, a Alignment) geom.Rect {
	p := Anchor(g, item, a)
	return geom.RectFromTopLeft(p.X, p.Y, item.W, item.H)
}
