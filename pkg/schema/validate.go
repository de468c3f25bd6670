package schema

import (
	"fmt"
	"strings"

	"github.com/matzehuels/impose/pkg/errors"
	"github.com/matzehuels/impose/pkg/margin"
)

// Validate checks that s is a usable document. It requires an id, a name
// and at least one section, well-formed unique field ids, and known
// classification and edge tokens on every effective binding. All problems
// are reported together in one [errors.ErrCodeInvalidSchema] error.
func Validate(s *Schema) error {
	if s == nil {
		return errors.New(errors.ErrCodeInvalidSchema, "schema is nil")
	}

	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if s.ID == "" {
		add("missing id")
	} else if err := errors.ValidateID("schema", s.ID); err != nil {
		add("%s", errors.UserMessage(err))
	}
	if strings.TrimSpace(s.Name) == "" {
		add("missing name")
	}
	if len(s.Sections) == 0 {
		add("no sections")
	}

	seen := make(map[string]bool)
	checkField := func(where string, f Field, b *Binding) {
		if err := errors.ValidateID("field", f.ID); err != nil {
			add("%s: %s", where, errors.UserMessage(err))
			return
		}
		if seen[f.ID] {
			add("%s: duplicate field id %q", where, f.ID)
		}
		seen[f.ID] = true
		if b == nil || b.Disabled || b.Classification == "" {
			return
		}
		if _, err := margin.ParseClassification(b.Classification); err != nil {
			add("%s: field %q: %v", where, f.ID, err)
		}
		switch {
		case b.Edge != "" && !edgeToken(b.Edge):
			add("%s: field %q: unknown edge %q", where, f.ID, b.Edge)
		case b.Edge == "" && !b.EdgeDynamic:
			add("%s: field %q: binding has no edge", where, f.ID)
		}
	}

	for i, sec := range s.Sections {
		where := fmt.Sprintf("section %d", i)
		if sec.ID == "" {
			add("%s: missing id", where)
		} else {
			where = fmt.Sprintf("section %q", sec.ID)
		}
		for _, f := range sec.Fields {
			checkField(where, f, f.Binding)
		}
		for j, row := range sec.Rows {
			rowWhere := fmt.Sprintf("%s row %d", where, j)
			if row.ID == "" {
				add("%s: missing id", rowWhere)
			} else {
				rowWhere = fmt.Sprintf("%s row %q", where, row.ID)
			}
			for _, col := range row.Columns() {
				f := row.Fields[col]
				b := row.BindingFor(col)
				if f.Binding == nil {
					if row.Classification == "" {
						add("%s: column %q: cannot infer binding without a row classification", rowWhere, col)
						continue
					}
					if _, err := margin.ParseEdge(col); err != nil {
						add("%s: column %q is not an edge", rowWhere, col)
						continue
					}
				}
				checkField(rowWhere, f, b)
			}
		}
	}

	if len(problems) > 0 {
		return errors.New(errors.ErrCodeInvalidSchema, "%s", strings.Join(problems, "; "))
	}
	return nil
}
