package schema

import (
	"slices"
	"sort"

	"github.com/matzehuels/impose/pkg/margin"
)

// Layout is the presentation shape of a section.
type Layout string

const (
	LayoutMatrix Layout = "matrix"
	LayoutStack  Layout = "stack"
	LayoutGrid2  Layout = "grid-2"
)

// Schema is a configuration document.
type Schema struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Version     string    `json:"version,omitempty" yaml:"version,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Sections    []Section `json:"sections" yaml:"sections"`
}

// Section groups fields or matrix rows under a title.
type Section struct {
	ID       string   `json:"id" yaml:"id"`
	Title    string   `json:"title,omitempty" yaml:"title,omitempty"`
	Layout   Layout   `json:"layout,omitempty" yaml:"layout,omitempty"`
	Semantic string   `json:"semantic,omitempty" yaml:"semantic,omitempty"`
	Headers  []string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Fields   []Field  `json:"fields,omitempty" yaml:"fields,omitempty"`
	Rows     []Row    `json:"rows,omitempty" yaml:"rows,omitempty"`
}

// IsMatrix reports whether the section holds rows.
func (s Section) IsMatrix() bool {
	return s.Layout == LayoutMatrix || len(s.Rows) > 0
}

// Row is one line of a matrix section. Fields is keyed by column, which for
// margin matrices is an edge name.
type Row struct {
	ID             string           `json:"id" yaml:"id"`
	Label          string           `json:"label,omitempty" yaml:"label,omitempty"`
	Classification string           `json:"classification,omitempty" yaml:"classification,omitempty"`
	Fields         map[string]Field `json:"fields" yaml:"fields"`
	BorderControl  *BorderControl   `json:"borderControl,omitempty" yaml:"borderControl,omitempty" toml:"borderControl"`
}

// BorderControl describes the border toggle of a row. The toggle and style
// are always read from {row.id}_draw_border and {row.id}_border_style; ID and
// StyleID are older aliases consulted only when those keys are absent.
type BorderControl struct {
	ID      string `json:"id" yaml:"id"`
	Label   string `json:"label,omitempty" yaml:"label,omitempty"`
	Default bool   `json:"default,omitempty" yaml:"default,omitempty"`
	StyleID string `json:"styleId,omitempty" yaml:"styleId,omitempty" toml:"styleId"`
}

// Field is a single input.
type Field struct {
	ID          string   `json:"id" yaml:"id"`
	Label       string   `json:"label,omitempty" yaml:"label,omitempty"`
	Type        string   `json:"type,omitempty" yaml:"type,omitempty"`
	Placeholder string   `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Note        string   `json:"note,omitempty" yaml:"note,omitempty"`
	Semantic    string   `json:"semantic,omitempty" yaml:"semantic,omitempty"`
	Step        float64  `json:"step,omitempty" yaml:"step,omitempty"`
	Default     any      `json:"default,omitempty" yaml:"default,omitempty"`
	Protected   bool     `json:"protected,omitempty" yaml:"protected,omitempty"`
	Disabled    bool     `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	Options     []Option `json:"options,omitempty" yaml:"options,omitempty"`
	Binding     *Binding `json:"binding,omitempty" yaml:"binding,omitempty"`
}

// Option is one choice of a select field.
type Option struct {
	Value string `json:"val" yaml:"val" toml:"val"`
	Text  string `json:"txt" yaml:"txt" toml:"txt"`
}

// Bound reports whether the field is an explicit rule source.
func (f Field) Bound() bool {
	return f.Binding != nil && !f.Binding.Disabled
}

// Columns returns the row's column keys in display order: left, right, top,
// bottom, then any other keys sorted.
func (r Row) Columns() []string {
	order := []string{"left", "right", "top", "bottom"}
	cols := make([]string, 0, len(r.Fields))
	for _, k := range order {
		if _, ok := r.Fields[k]; ok {
			cols = append(cols, k)
		}
	}
	var rest []string
	for k := range r.Fields {
		if !slices.Contains(order, k) {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(cols, rest...)
}

// BindingFor returns the effective binding of the cell in column col.
// An explicit binding (including an explicit false) is returned as is. A
// missing binding is inferred from the row classification and the column
// key. The row itself is never modified.
func (r Row) BindingFor(col string) *Binding {
	f, ok := r.Fields[col]
	if !ok {
		return nil
	}
	if f.Binding != nil {
		return f.Binding
	}
	return &Binding{Classification: r.Classification, Edge: col}
}

// DrawBorderKey returns the raw value key that toggles this row's border.
func (r Row) DrawBorderKey() string {
	return r.ID + "_draw_border"
}

// BorderStyleKey returns the raw value key holding this row's border style.
func (r Row) BorderStyleKey() string {
	return r.ID + "_border_style"
}

// DrawBorderKey returns the raw value key that toggles the border of rules
// from the section's flat fields.
func (s Section) DrawBorderKey() string {
	return s.ID + "_draw_border"
}

// BorderStyleKey returns the raw value key holding the border style of rules
// from the section's flat fields.
func (s Section) BorderStyleKey() string {
	return s.ID + "_border_style"
}

// Field finds a field by id anywhere in the schema.
func (s *Schema) Field(id string) (Field, bool) {
	for _, sec := range s.Sections {
		for _, f := range sec.Fields {
			if f.ID == id {
				return f, true
			}
		}
		for _, row := range sec.Rows {
			for _, f := range row.Fields {
				if f.ID == id {
					return f, true
				}
			}
		}
	}
	return Field{}, false
}

// Section finds a section by id.
func (s *Schema) Section(id string) (Section, bool) {
	for _, sec := range s.Sections {
		if sec.ID == id {
			return sec, true
		}
	}
	return Section{}, false
}

// Defaults returns the declared default of every field that has one, keyed
// by field id. Border controls are not included; their default applies only
// when no border key is set.
func (s *Schema) Defaults() map[string]any {
	out := make(map[string]any)
	for _, sec := range s.Sections {
		for _, f := range sec.Fields {
			if f.Default != nil {
				out[f.ID] = f.Default
			}
		}
		for _, row := range sec.Rows {
			for _, f := range row.Fields {
				if f.Default != nil {
					out[f.ID] = f.Default
				}
			}
		}
	}
	return out
}

// Clone returns a deep copy of s.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	out := *s
	out.Sections = make([]Section, len(s.Sections))
	for i, sec := range s.Sections {
		out.Sections[i] = sec.clone()
	}
	return &out
}

func (s Section) clone() Section {
	out := s
	out.Headers = slices.Clone(s.Headers)
	if s.Fields != nil {
		out.Fields = make([]Field, len(s.Fields))
		for i, f := range s.Fields {
			out.Fields[i] = f.clone()
		}
	}
	if s.Rows != nil {
		out.Rows = make([]Row, len(s.Rows))
		for i, r := range s.Rows {
			out.Rows[i] = r.clone()
		}
	}
	return out
}

func (r Row) clone() Row {
	out := r
	if r.Fields != nil {
		out.Fields = make(map[string]Field, len(r.Fields))
		for k, f := range r.Fields {
			out.Fields[k] = f.clone()
		}
	}
	if r.BorderControl != nil {
		bc := *r.BorderControl
		out.BorderControl = &bc
	}
	return out
}

func (f Field) clone() Field {
	out := f
	out.Options = slices.Clone(f.Options)
	if f.Binding != nil {
		b := *f.Binding
		out.Binding = &b
	}
	return out
}

// Annotate returns a copy of s in which every matrix cell without an
// explicit binding carries its inferred binding. s is not modified.
func Annotate(s *Schema) *Schema {
	out := s.Clone()
	for i := range out.Sections {
		for j := range out.Sections[i].Rows {
			row := &out.Sections[i].Rows[j]
			for col, f := range row.Fields {
				if f.Binding == nil {
					f.Binding = row.BindingFor(col)
					row.Fields[col] = f
				}
			}
		}
	}
	return out
}

// edgeToken reports whether tok is a usable static edge: one of the four
// edges or the "all" expansion token.
func edgeToken(tok string) bool {
	if tok == margin.EdgeAll {
		return true
	}
	_, err := margin.ParseEdge(tok)
	return err == nil
}
