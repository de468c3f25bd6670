package schema

import (
	"github.com/google/uuid"

	"github.com/matzehuels/impose/pkg/errors"
	"github.com/matzehuels/impose/pkg/margin"
	"github.com/matzehuels/impose/pkg/values"
)

// FieldSpec describes a field to create with [NewField].
type FieldSpec struct {
	Label string
	Type  string
	// Default is parsed as a number; anything else becomes 0.
	Default any
	// Classification, when set, makes the field a rule source.
	Classification string
	// Edge is an edge name, "all", or [EdgeDynamic].
	Edge string
}

// NewField builds a field definition with a generated id.
func NewField(spec FieldSpec) Field {
	f := Field{
		ID:    "dynamic_" + uuid.NewString(),
		Label: spec.Label,
		Type:  spec.Type,
	}
	if f.Type == "" {
		f.Type = "number"
	}
	def, _ := values.ParseFloat(spec.Default)
	f.Default = def

	if spec.Classification != "" {
		if spec.Edge == EdgeDynamic {
			f.Binding = &Binding{Classification: spec.Classification, EdgeDynamic: true}
		} else {
			f.Binding = &Binding{Classification: spec.Classification, Edge: spec.Edge}
		}
	}
	return f
}

// AddField returns a copy of s with f added to section sectionID.
//
// Flat sections get f appended. Matrix sections get a new row "row_{f.ID}"
// with one field per edge, ids "{f.ID}_{edge}", each bound to its edge. The
// row classification is taken from f's binding, or ADDITIVE.
func AddField(s *Schema, sectionID string, f Field) (*Schema, error) {
	if _, ok := s.Field(f.ID); ok {
		return nil, errors.New(errors.ErrCodeInvalidSchema, "field %q already exists", f.ID)
	}

	out := s.Clone()
	for i := range out.Sections {
		sec := &out.Sections[i]
		if sec.ID != sectionID {
			continue
		}
		if !sec.IsMatrix() {
			sec.Fields = append(sec.Fields, f.clone())
			return out, nil
		}

		classification := margin.Additive.String()
		if f.Bound() && f.Binding.Classification != "" {
			classification = f.Binding.Classification
		}
		row := Row{
			ID:             "row_" + f.ID,
			Label:          f.Label,
			Classification: classification,
			Fields:         make(map[string]Field, 4),
		}
		def := f.Default
		if def == nil {
			def = 0.0
		}
		for _, e := range []margin.Edge{margin.Left, margin.Right, margin.Top, margin.Bottom} {
			row.Fields[e.String()] = Field{
				ID:      f.ID + "_" + e.String(),
				Type:    f.Type,
				Default: def,
				Binding: &Binding{Classification: classification, Edge: e.String()},
			}
		}
		sec.Rows = append(sec.Rows, row)
		return out, nil
	}
	return nil, errors.New(errors.ErrCodeSectionNotFound, "section %q not found", sectionID)
}

// RemoveField returns a copy of s without the first field whose id is
// fieldID, and whether such a field existed. Matrix rows keep their other
// cells even when the last one is removed.
func RemoveField(s *Schema, fieldID string) (*Schema, bool) {
	out := s.Clone()
	for i := range out.Sections {
		sec := &out.Sections[i]
		for j, f := range sec.Fields {
			if f.ID == fieldID {
				sec.Fields = append(sec.Fields[:j], sec.Fields[j+1:]...)
				return out, true
			}
		}
		for _, row := range sec.Rows {
			for _, col := range row.Columns() {
				if row.Fields[col].ID == fieldID {
					delete(row.Fields, col)
					return out, true
				}
			}
		}
	}
	return out, false
}
