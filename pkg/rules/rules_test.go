package rules

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/impose/pkg/margin"
	"github.com/matzehuels/impose/pkg/schema"
	"github.com/matzehuels/impose/pkg/values"
)

func preset(t *testing.T, id string) *schema.Schema {
	t.Helper()
	s, err := schema.Lookup(id)
	require.NoError(t, err)
	return s
}

func TestCompileStandardPreset(t *testing.T) {
	s := preset(t, schema.DefaultPreset)
	v := values.Values{
		"safe_top":             "5",
		"safe_bottom":          3,
		"safe_left":            "",
		"safe_right":           "0",
		"sheet_m_top":          "12",
		"row_safe_draw_border": "on",
		"ab_w":                 "320",
	}

	got := Compile(s, v)
	want := []margin.Rule{
		{ID: "safe_top", Edge: margin.Top, Value: 5, Type: margin.Baseline, DrawBorder: true, BorderStyle: margin.Dashed},
		{ID: "safe_bottom", Edge: margin.Bottom, Value: 3, Type: margin.Baseline, DrawBorder: true, BorderStyle: margin.Dashed},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Compile() mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileDoesNotMutateSchema(t *testing.T) {
	s := preset(t, "perfect_bound")
	before := s.Clone()

	Compile(s, values.Values{"safe_top": 4, "trim_left": 1})
	Compile(s, values.Values{"safe_top": 4, "trim_left": 1})

	if diff := cmp.Diff(before, s); diff != "" {
		t.Errorf("Compile mutated schema (-before +after):\n%s", diff)
	}
	sec, _ := s.Section("sec_margins")
	assert.Nil(t, sec.Rows[0].Fields["top"].Binding)
}

func TestCompileInfersMatrixBindings(t *testing.T) {
	s := preset(t, "perfect_bound")
	got := Compile(s, values.Values{"trim_left": "1.5", "safe_top": "4"})

	byID := make(map[string]margin.Rule)
	for _, r := range got {
		byID[r.ID] = r
	}

	// row_safe cells default to 3 and infer BASELINE from the row.
	for _, id := range []string{"safe_left", "safe_right", "safe_bottom"} {
		require.Contains(t, byID, id)
		assert.Equal(t, 3.0, byID[id].Value, id)
		assert.Equal(t, margin.Baseline, byID[id].Type, id)
	}
	assert.Equal(t, 4.0, byID["safe_top"].Value)
	assert.Equal(t, margin.Top, byID["safe_top"].Edge)

	require.Contains(t, byID, "trim_left")
	assert.Equal(t, margin.Additive, byID["trim_left"].Type)
	assert.Equal(t, margin.Left, byID["trim_left"].Edge)
	assert.NotContains(t, byID, "trim_right")
}

func TestCompileDynamicEdge(t *testing.T) {
	s := preset(t, "perfect_bound")

	tests := []struct {
		name string
		v    values.Values
		want margin.Edge
	}{
		{"fallback to static edge", values.Values{"spine": 6}, margin.Left},
		{"edge from values", values.Values{"spine": 6, "spine_edge": "right"}, margin.Right},
		{"blank edge falls back", values.Values{"spine": 6, "spine_edge": " "}, margin.Left},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var spine []margin.Rule
			for _, r := range Compile(s, tt.v) {
				if r.ID == "spine" {
					spine = append(spine, r)
				}
			}
			require.Len(t, spine, 1)
			assert.Equal(t, tt.want, spine[0].Edge)
			assert.Equal(t, margin.Structural, spine[0].Type)
			assert.Equal(t, 6.0, spine[0].Value)
		})
	}
}

func TestCompileDynamicEdgeSource(t *testing.T) {
	s := &schema.Schema{ID: "x", Name: "x", Sections: []schema.Section{{
		ID: "sec",
		Fields: []schema.Field{{
			ID:      "gutter",
			Binding: &schema.Binding{Classification: "ADDITIVE", EdgeDynamic: true, EdgeSource: "which_side"},
		}},
	}}}

	got := Compile(s, values.Values{"gutter": 2, "which_side": "bottom"})
	require.Len(t, got, 1)
	assert.Equal(t, margin.Bottom, got[0].Edge)

	assert.Empty(t, Compile(s, values.Values{"gutter": 2}), "no edge source and no fallback")
}

func TestCompileAllExpands(t *testing.T) {
	s := preset(t, "perfect_bound")
	got := Compile(s, values.Values{"quiet_zone": "2", "safe_top": "-1", "safe_left": 0, "safe_right": 0, "safe_bottom": 0})

	want := []margin.Rule{
		{ID: "quiet_zone_top", Edge: margin.Top, Value: 2, Type: margin.Additive, BorderStyle: margin.Dashed},
		{ID: "quiet_zone_bottom", Edge: margin.Bottom, Value: 2, Type: margin.Additive, BorderStyle: margin.Dashed},
		{ID: "quiet_zone_left", Edge: margin.Left, Value: 2, Type: margin.Additive, BorderStyle: margin.Dashed},
		{ID: "quiet_zone_right", Edge: margin.Right, Value: 2, Type: margin.Additive, BorderStyle: margin.Dashed},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Compile() mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileValueFallbacks(t *testing.T) {
	s := &schema.Schema{ID: "x", Name: "x", Sections: []schema.Section{{
		ID: "sec",
		Fields: []schema.Field{
			{ID: "a", Default: 4, Binding: &schema.Binding{Classification: "BASELINE", Edge: "top"}},
			{ID: "b", Default: "2.5", Binding: &schema.Binding{Classification: "BASELINE", Edge: "top"}},
			{ID: "c", Binding: &schema.Binding{Classification: "BASELINE", Edge: "top"}},
			{ID: "d", Default: 9, Binding: &schema.Binding{Classification: "BASELINE", Edge: "top"}},
		},
	}}}

	got := Compile(s, values.Values{"a": "not a number", "c": "abc", "d": "1"})
	vals := make(map[string]float64)
	for _, r := range got {
		vals[r.ID] = r.Value
	}
	assert.Equal(t, map[string]float64{"a": 4, "b": 2.5, "d": 1}, vals)
}

func TestCompileRowBorders(t *testing.T) {
	s := &schema.Schema{ID: "x", Name: "x", Sections: []schema.Section{{
		ID:     "sec",
		Layout: schema.LayoutMatrix,
		Rows: []schema.Row{
			{ID: "row_a", Classification: "BASELINE", Fields: map[string]schema.Field{"top": {ID: "a_top"}}},
			{ID: "row_b", Classification: "ADDITIVE", Fields: map[string]schema.Field{"top": {ID: "b_top"}}},
		},
	}}}

	got := Compile(s, values.Values{
		"a_top": 2, "b_top": 1,
		"row_a_draw_border": true, "row_a_border_style": "solid",
		"row_b_draw_border": "off",
	})
	require.Len(t, got, 2)
	assert.True(t, got[0].DrawBorder)
	assert.Equal(t, margin.Solid, got[0].BorderStyle)
	assert.False(t, got[1].DrawBorder)
	assert.Equal(t, margin.Dashed, got[1].BorderStyle)
}

func TestCompilePresetRowBorderKeys(t *testing.T) {
	s := preset(t, schema.DefaultPreset)

	got := Compile(s, values.Values{
		"safe_top":              3,
		"row_safe_draw_border":  "on",
		"row_safe_border_style": "solid",
	})
	require.Len(t, got, 1)
	assert.Equal(t, "safe_top", got[0].ID)
	assert.True(t, got[0].DrawBorder)
	assert.Equal(t, margin.Solid, got[0].BorderStyle)
}

func TestCompileBorderControlFallback(t *testing.T) {
	row := schema.Row{
		ID:             "row_a",
		Classification: "BASELINE",
		Fields:         map[string]schema.Field{"top": {ID: "a_top"}},
		BorderControl:  &schema.BorderControl{ID: "a_border", StyleID: "a_style", Default: true},
	}
	s := &schema.Schema{ID: "x", Name: "x", Sections: []schema.Section{{
		ID:     "sec",
		Layout: schema.LayoutMatrix,
		Rows:   []schema.Row{row},
	}}}

	tests := []struct {
		name  string
		v     values.Values
		draw  bool
		style margin.BorderStyle
	}{
		{"control default", values.Values{"a_top": 1}, true, margin.Dashed},
		{"alias keys", values.Values{"a_top": 1, "a_border": "off", "a_style": "solid"}, false, margin.Solid},
		{"row keys win", values.Values{"a_top": 1, "a_border": "on", "a_style": "dashed", "row_a_draw_border": "off", "row_a_border_style": "solid"}, false, margin.Solid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compile(s, tt.v)
			require.Len(t, got, 1)
			assert.Equal(t, tt.draw, got[0].DrawBorder)
			assert.Equal(t, tt.style, got[0].BorderStyle)
		})
	}
}

func TestCompileSectionBorders(t *testing.T) {
	s := &schema.Schema{ID: "x", Name: "x", Sections: []schema.Section{{
		ID: "sec_trim",
		Fields: []schema.Field{
			{ID: "trim", Binding: &schema.Binding{Classification: "ADDITIVE", Edge: "all"}},
		},
	}}}

	got := Compile(s, values.Values{"trim": 2, "sec_trim_draw_border": "on", "sec_trim_border_style": "solid"})
	require.Len(t, got, 4)
	for _, r := range got {
		assert.True(t, r.DrawBorder, r.ID)
		assert.Equal(t, margin.Solid, r.BorderStyle, r.ID)
	}

	got = Compile(s, values.Values{"trim": 2})
	require.Len(t, got, 4)
	assert.False(t, got[0].DrawBorder)
	assert.Equal(t, margin.Dashed, got[0].BorderStyle)
}

func TestCompileSkipsUnusableBindings(t *testing.T) {
	s := &schema.Schema{ID: "x", Name: "x", Sections: []schema.Section{{
		ID: "sec",
		Fields: []schema.Field{
			{ID: "no_class", Binding: &schema.Binding{Edge: "top"}},
			{ID: "bad_class", Binding: &schema.Binding{Classification: "PREFERRED", Edge: "top"}},
			{ID: "bad_edge", Binding: &schema.Binding{Classification: "BASELINE", Edge: "middle"}},
			{ID: "off", Binding: schema.Off()},
			{ID: "unbound"},
		},
	}}}
	v := values.Values{"no_class": 1, "bad_class": 1, "bad_edge": 1, "off": 1, "unbound": 1}

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	assert.Empty(t, Compile(s, v, WithLogger(logger)))
	out := buf.String()
	assert.True(t, strings.Contains(out, "no_class"))
	assert.True(t, strings.Contains(out, "bad_class"))
	assert.True(t, strings.Contains(out, "bad_edge"))
}

func TestCompileNilSchema(t *testing.T) {
	assert.Nil(t, Compile(nil, values.Values{"a": 1}))
}

func TestCompileFeedsResolver(t *testing.T) {
	s := preset(t, "perfect_bound")
	rules := Compile(s, values.Values{
		"safe_left":  3,
		"spine":      7,
		"quiet_zone": 1,
		"trim_left":  0.5,
	})
	m := margin.Resolve(rules)

	// left: max(safe 3, spine 7) + quiet 1 + trim 0.5
	assert.Equal(t, 8.5, m.Left)
	// other edges: safe default 3 + quiet 1
	assert.Equal(t, 4.0, m.Top)
	assert.Equal(t, 4.0, m.Right)
	assert.Equal(t, 4.0, m.Bottom)
}
