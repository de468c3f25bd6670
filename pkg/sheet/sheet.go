// Package sheet derives the physical sheet geometry and the sheet-level
// inputs of a layout: size, gripper clearance and single-copy alignment.
package sheet

import (
	"fmt"
	"sort"
	"strings"

	"github.com/matzehuels/impose/pkg/geom"
	"github.com/matzehuels/impose/pkg/grid"
	"github.com/matzehuels/impose/pkg/units"
	"github.com/matzehuels/impose/pkg/values"
)

// Default sheet size in millimeters, used for a dimension that is missing
// when the other one is given.
const (
	DefaultWidthMM  = 320
	DefaultHeightMM = 480
)

// Geometry is a sheet rectangle with its derived extents, in page units.
type Geometry struct {
	Rect geom.Rect `json:"rect"`
	W    float64   `json:"w"`
	H    float64   `json:"h"`
	Left float64   `json:"left"`
	Top  float64   `json:"top"`
}

// Current derives the geometry of an existing sheet rectangle.
func Current(r geom.Rect) Geometry {
	return Geometry{Rect: r, W: r.Width(), H: r.Height(), Left: r.Left, Top: r.Top}
}

// Expand resizes r to w x h points, keeping its top-left corner fixed.
func Expand(r geom.Rect, w, h float64) Geometry {
	return Current(geom.RectFromTopLeft(r.Left, r.Top, w, h))
}

// FromValues resizes r from the raw sheet size fields ab_w and ab_h
// (millimeters). When neither is a positive number r is returned unchanged
// and resized is false. A missing dimension falls back to the default.
func FromValues(r geom.Rect, v values.Values) (g Geometry, resized bool) {
	w := v.Float("ab_w", 0)
	h := v.Float("ab_h", 0)
	if w <= 0 && h <= 0 {
		return Current(r), false
	}
	if w <= 0 {
		w = DefaultWidthMM
	}
	if h <= 0 {
		h = DefaultHeightMM
	}
	return Expand(r, units.MMToPt(w), units.MMToPt(h)), true
}

// GripperFromValues reads the sheet margins sheet_m_top, sheet_m_bot,
// sheet_m_left and sheet_m_right (millimeters) and returns them in points.
// Missing or invalid values are 0.
func GripperFromValues(v values.Values) grid.Gripper {
	return grid.Gripper{
		Top:    units.MMToPt(max(v.Float("sheet_m_top", 0), 0)),
		Bottom: units.MMToPt(max(v.Float("sheet_m_bot", 0), 0)),
		Left:   units.MMToPt(max(v.Float("sheet_m_left", 0), 0)),
		Right:  units.MMToPt(max(v.Float("sheet_m_right", 0), 0)),
	}
}

// PaperSizes lists the named sheet sizes in millimeters.
var PaperSizes = map[string]geom.Size{
	"a4":   {W: 210, H: 297},
	"a3":   {W: 420, H: 297},
	"sra3": {W: 450, H: 320},
}

// Paper looks up a named paper size (case-insensitive), in millimeters.
func Paper(name string) (geom.Size, error) {
	s, ok := PaperSizes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		names := make([]string, 0, len(PaperSizes))
		for n := range PaperSizes {
			names = append(names, n)
		}
		sort.Strings(names)
		return geom.Size{}, fmt.Errorf("unknown paper size %q (known: %s)", name, strings.Join(names, ", "))
	}
	return s, nil
}
