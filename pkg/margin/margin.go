package margin

import (
	"fmt"
	"strings"
)

// =============================================================================
// Edge
// =============================================================================

// Edge identifies one side of a rectangle.
type Edge int

const (
	Top Edge = iota
	Bottom
	Left
	Right
)

// EdgeAll is the binding token that expands a single field into one rule
// per edge. It is not a valid [Edge] value.
const EdgeAll = "all"

var edgeNames = [...]string{"top", "bottom", "left", "right"}

// Edges returns all four edges in canonical order.
func Edges() []Edge { return []Edge{Top, Bottom, Left, Right} }

func (e Edge) String() string {
	if e < Top || e > Right {
		return fmt.Sprintf("edge(%d)", int(e))
	}
	return edgeNames[e]
}

// Valid reports whether e is one of the four edges.
func (e Edge) Valid() bool { return e >= Top && e <= Right }

// ParseEdge parses "top", "bottom", "left" or "right" (case-insensitive).
func ParseEdge(s string) (Edge, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top":
		return Top, nil
	case "bottom":
		return Bottom, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return 0, fmt.Errorf("unknown edge %q", s)
}

func (e Edge) MarshalText() ([]byte, error) {
	if !e.Valid() {
		return nil, fmt.Errorf("invalid edge %d", int(e))
	}
	return []byte(e.String()), nil
}

func (e *Edge) UnmarshalText(b []byte) error {
	v, err := ParseEdge(string(b))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// =============================================================================
// Classification
// =============================================================================

// Classification is the precedence tier of a rule.
type Classification int

const (
	Baseline Classification = iota
	Structural
	Additive
	Absolute
)

var classificationNames = [...]string{"BASELINE", "STRUCTURAL", "ADDITIVE", "ABSOLUTE"}

// Classifications returns every classification in precedence order.
func Classifications() []Classification {
	return []Classification{Baseline, Structural, Additive, Absolute}
}

func (c Classification) String() string {
	if !c.Valid() {
		return fmt.Sprintf("classification(%d)", int(c))
	}
	return classificationNames[c]
}

// Valid reports whether c is a known classification.
func (c Classification) Valid() bool { return c >= Baseline && c <= Absolute }

// ParseClassification parses a classification token (case-insensitive).
func ParseClassification(s string) (Classification, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BASELINE":
		return Baseline, nil
	case "STRUCTURAL":
		return Structural, nil
	case "ADDITIVE":
		return Additive, nil
	case "ABSOLUTE":
		return Absolute, nil
	}
	return 0, fmt.Errorf("unknown classification %q", s)
}

func (c Classification) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid classification %d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *Classification) UnmarshalText(b []byte) error {
	v, err := ParseClassification(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// =============================================================================
// BorderStyle
// =============================================================================

// BorderStyle is the stroke style of a visible margin border.
type BorderStyle string

const (
	Solid  BorderStyle = "solid"
	Dashed BorderStyle = "dashed"
)

// ParseBorderStyle maps raw input to a style. Anything other than "solid"
// is dashed.
func ParseBorderStyle(s string) BorderStyle {
	if strings.EqualFold(strings.TrimSpace(s), string(Solid)) {
		return Solid
	}
	return Dashed
}

// =============================================================================
// Rule and Margins
// =============================================================================

// Rule is one compiled margin requirement on a single edge. Value is in
// millimeters and always positive for rules produced by the compiler.
type Rule struct {
	ID          string         `json:"id"`
	Edge        Edge           `json:"edge"`
	Value       float64        `json:"val"`
	Type        Classification `json:"type"`
	DrawBorder  bool           `json:"drawBorder"`
	BorderStyle BorderStyle    `json:"borderStyle,omitempty"`
}

func (r Rule) String() string {
	return fmt.Sprintf("%s %s %s %gmm", r.ID, r.Edge, r.Type, r.Value)
}

// Margins holds one resolved value per edge, in millimeters.
type Margins struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
}

// Get returns the margin on edge e.
func (m Margins) Get(e Edge) float64 {
	switch e {
	case Top:
		return m.Top
	case Bottom:
		return m.Bottom
	case Left:
		return m.Left
	case Right:
		return m.Right
	}
	return 0
}

// With returns a copy of m with edge e set to v.
func (m Margins) With(e Edge, v float64) Margins {
	switch e {
	case Top:
		m.Top = v
	case Bottom:
		m.Bottom = v
	case Left:
		m.Left = v
	case Right:
		m.Right = v
	}
	return m
}

// Horizontal returns left + right.
func (m Margins) Horizontal() float64 { return m.Left + m.Right }

// Vertical returns top + bottom.
func (m Margins) Vertical() float64 { return m.Top + m.Bottom }

// Scale returns m with every edge multiplied by f. Used for mm to pt.
func (m Margins) Scale(f float64) Margins {
	return Margins{Top: m.Top * f, Bottom: m.Bottom * f, Left: m.Left * f, Right: m.Right * f}
}

func (m Margins) String() string {
	return fmt.Sprintf("top=%g bottom=%g left=%g right=%g", m.Top, m.Bottom, m.Left, m.Right)
}
