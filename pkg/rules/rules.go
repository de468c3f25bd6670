// Package rules compiles a schema and raw input values into margin rules.
//
// [Compile] walks every section of a schema. Flat fields contribute only
// when they carry an explicit binding. Matrix cells contribute through their
// effective binding (see [schema.Row.BindingFor]), so a cell without a
// binding inherits the row classification and its column edge, while an
// explicit `binding: false` keeps it out.
//
// For each contributing field the raw value is parsed as a number, falling
// back to the field default and then to 0. Only positive values become
// rules. An "all" edge expands into four rules named "{id}_{edge}". Rules
// from a matrix row carry that row's border toggle and style, read from
// {row.id}_draw_border and {row.id}_border_style. Rules from flat fields read
// the same keys under the section id.
//
// Compilation is pure. The schema and values are never modified.
package rules

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/impose/pkg/margin"
	"github.com/matzehuels/impose/pkg/schema"
	"github.com/matzehuels/impose/pkg/values"
)

// Option configures [Compile].
type Option func(*compiler)

// WithLogger reports skipped fields at debug level.
func WithLogger(l *log.Logger) Option {
	return func(c *compiler) { c.logger = l }
}

type compiler struct {
	values values.Values
	logger *log.Logger
	rules  []margin.Rule
}

type border struct {
	draw  bool
	style margin.BorderStyle
}

// Compile returns the rules described by s for the raw values v, in schema
// order. A nil schema yields no rules.
func Compile(s *schema.Schema, v values.Values, opts ...Option) []margin.Rule {
	c := &compiler{values: v}
	for _, opt := range opts {
		opt(c)
	}
	if s == nil {
		return nil
	}

	for _, sec := range s.Sections {
		if len(sec.Fields) > 0 {
			b := c.readBorder(sec.DrawBorderKey(), sec.BorderStyleKey(), nil)
			for _, f := range sec.Fields {
				if !f.Bound() {
					continue
				}
				c.field(f, f.Binding, b)
			}
		}
		for _, row := range sec.Rows {
			b := c.readBorder(row.DrawBorderKey(), row.BorderStyleKey(), row.BorderControl)
			for _, col := range row.Columns() {
				binding := row.BindingFor(col)
				if binding == nil || binding.Disabled {
					continue
				}
				c.field(row.Fields[col], binding, b)
			}
		}
	}
	return c.rules
}

// readBorder reads a border toggle and style. The canonical keys win; a
// border control's alias keys are consulted only when they are absent, and
// its default applies when neither is set.
func (c *compiler) readBorder(drawKey, styleKey string, bc *schema.BorderControl) border {
	b := border{style: margin.Dashed}
	switch {
	case c.values.Has(drawKey):
		b.draw = c.values.Bool(drawKey)
	case bc != nil && bc.ID != "" && c.values.Has(bc.ID):
		b.draw = c.values.Bool(bc.ID)
	case bc != nil:
		b.draw = bc.Default
	}

	style := c.values.String(styleKey, "")
	if style == "" && bc != nil && bc.StyleID != "" {
		style = c.values.String(bc.StyleID, "")
	}
	if style != "" {
		b.style = margin.ParseBorderStyle(style)
	}
	return b
}

func (c *compiler) field(f schema.Field, b *schema.Binding, bd border) {
	if b.Classification == "" {
		c.debug("skipping field without classification", "field", f.ID)
		return
	}
	cls, err := margin.ParseClassification(b.Classification)
	if err != nil {
		c.debug("skipping field", "field", f.ID, "err", err)
		return
	}

	val := c.value(f)
	if val <= 0 {
		return
	}

	tok := b.Edge
	if b.EdgeDynamic {
		src := b.EdgeSource
		if src == "" {
			src = f.ID + "_edge"
		}
		tok = c.values.String(src, b.Edge)
	}

	if tok == margin.EdgeAll {
		for _, e := range margin.Edges() {
			c.emit(f.ID+"_"+e.String(), e, val, cls, bd)
		}
		return
	}
	edge, err := margin.ParseEdge(tok)
	if err != nil {
		c.debug("skipping field with unusable edge", "field", f.ID, "edge", tok)
		return
	}
	c.emit(f.ID, edge, val, cls, bd)
}

func (c *compiler) value(f schema.Field) float64 {
	if v, ok := values.ParseFloat(c.values[f.ID]); ok {
		return v
	}
	if v, ok := values.ParseFloat(f.Default); ok {
		return v
	}
	return 0
}

func (c *compiler) emit(id string, e margin.Edge, val float64, cls margin.Classification, bd border) {
	c.rules = append(c.rules, margin.Rule{
		ID:          id,
		Edge:        e,
		Value:       val,
		Type:        cls,
		DrawBorder:  bd.draw,
		BorderStyle: bd.style,
	})
}

func (c *compiler) debug(msg string, kv ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, kv...)
	}
}
