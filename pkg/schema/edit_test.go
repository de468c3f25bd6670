package schema

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/impose/pkg/errors"
)

func TestNewField(t *testing.T) {
	f := NewField(FieldSpec{Label: "Spine", Default: "4.5", Classification: "STRUCTURAL", Edge: EdgeDynamic})
	assert.True(t, strings.HasPrefix(f.ID, "dynamic_"))
	assert.Equal(t, "number", f.Type)
	assert.Equal(t, 4.5, f.Default)
	assert.Equal(t, &Binding{Classification: "STRUCTURAL", EdgeDynamic: true}, f.Binding)

	g := NewField(FieldSpec{Label: "Trim", Default: "abc", Classification: "ADDITIVE", Edge: "top"})
	assert.Equal(t, 0.0, g.Default)
	assert.Equal(t, &Binding{Classification: "ADDITIVE", Edge: "top"}, g.Binding)
	assert.NotEqual(t, f.ID, g.ID)

	h := NewField(FieldSpec{Label: "Note", Type: "text"})
	assert.Nil(t, h.Binding)
	assert.Equal(t, "text", h.Type)
}

func TestAddFieldFlat(t *testing.T) {
	s := mustPreset(t, "perfect_bound")
	before := s.Clone()

	f := Field{ID: "glue", Binding: &Binding{Classification: "ADDITIVE", Edge: "left"}}
	out, err := AddField(s, "sec_binding", f)
	require.NoError(t, err)

	if diff := cmp.Diff(before, s); diff != "" {
		t.Errorf("AddField mutated its input:\n%s", diff)
	}
	got, ok := out.Field("glue")
	require.True(t, ok)
	assert.Equal(t, f, got)
	require.NoError(t, Validate(out))
}

func TestAddFieldMatrix(t *testing.T) {
	s := mustPreset(t, DefaultPreset)

	f := Field{ID: "creep", Label: "Creep", Type: "number", Default: 0.5}
	out, err := AddField(s, "sec_margins", f)
	require.NoError(t, err)

	sec, ok := out.Section("sec_margins")
	require.True(t, ok)
	row := sec.Rows[len(sec.Rows)-1]
	assert.Equal(t, "row_creep", row.ID)
	assert.Equal(t, "ADDITIVE", row.Classification)
	assert.Equal(t, []string{"left", "right", "top", "bottom"}, row.Columns())
	for _, col := range row.Columns() {
		cell := row.Fields[col]
		assert.Equal(t, "creep_"+col, cell.ID)
		assert.Equal(t, 0.5, cell.Default)
		assert.Equal(t, &Binding{Classification: "ADDITIVE", Edge: col}, cell.Binding)
	}

	orig, _ := s.Section("sec_margins")
	assert.Len(t, orig.Rows, 1)
	require.NoError(t, Validate(out))
}

func TestAddFieldMatrixUsesBindingClassification(t *testing.T) {
	s := mustPreset(t, DefaultPreset)
	f := Field{ID: "spine", Binding: &Binding{Classification: "STRUCTURAL", Edge: "left"}}

	out, err := AddField(s, "sec_margins", f)
	require.NoError(t, err)
	sec, _ := out.Section("sec_margins")
	assert.Equal(t, "STRUCTURAL", sec.Rows[len(sec.Rows)-1].Classification)
}

func TestAddFieldErrors(t *testing.T) {
	s := mustPreset(t, DefaultPreset)

	_, err := AddField(s, "sec_nope", Field{ID: "x"})
	assert.True(t, errors.Is(err, errors.ErrCodeSectionNotFound))

	_, err = AddField(s, "sec_options", Field{ID: "opt_n_up"})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidSchema))
}

func TestRemoveField(t *testing.T) {
	s := mustPreset(t, DefaultPreset)
	before := s.Clone()

	out, ok := RemoveField(s, "opt_k100")
	require.True(t, ok)
	_, found := out.Field("opt_k100")
	assert.False(t, found)

	out, ok = RemoveField(out, "safe_top")
	require.True(t, ok)
	sec, _ := out.Section("sec_margins")
	assert.NotContains(t, sec.Rows[0].Fields, "top")
	assert.Len(t, sec.Rows[0].Fields, 3)

	_, ok = RemoveField(out, "missing")
	assert.False(t, ok)

	if diff := cmp.Diff(before, s); diff != "" {
		t.Errorf("RemoveField mutated its input:\n%s", diff)
	}
}

func mustPreset(t *testing.T, id string) *Schema {
	t.Helper()
	s, err := Lookup(id)
	require.NoError(t, err)
	return s
}
