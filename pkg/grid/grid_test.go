package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/impose/pkg/geom"
)

func TestCapacity(t *testing.T) {
	tests := []struct {
		name                  string
		usable, cell, spacing float64
		want                  int
	}{
		{"exact fit", 100, 30, 5, 3},
		{"just short", 94, 30, 5, 2},
		{"no spacing", 100, 25, 0, 4},
		{"single cell", 30, 30, 5, 1},
		{"too small", 29, 30, 5, 0},
		{"zero usable", 0, 30, 5, 0},
		{"negative usable", -10, 30, 5, 0},
		{"zero cell", 100, 0, 5, 0},
		{"float noise", 0.3, 0.1, 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Capacity(tt.usable, tt.cell, tt.spacing); got != tt.want {
				t.Errorf("Capacity(%v, %v, %v) = %d, want %d", tt.usable, tt.cell, tt.spacing, got, tt.want)
			}
		})
	}
}

func TestVariantFor(t *testing.T) {
	t.Run("balanced", func(t *testing.T) {
		// 6 rows, 2 variants: rows 0-2 variant 0, rows 3-5 variant 1.
		want := []int{0, 0, 0, 1, 1, 1}
		for r, v := range want {
			for c := 0; c < 3; c++ {
				assert.Equal(t, v, VariantFor(r, c, 6, 2), "row %d col %d", r, c)
			}
		}
	})

	t.Run("footer", func(t *testing.T) {
		// 7 rows, 2 variants: row 6 alternates by column.
		for r := 0; r < 6; r++ {
			assert.Equal(t, r/3, VariantFor(r, 0, 7, 2))
		}
		assert.Equal(t, 0, VariantFor(6, 0, 7, 2))
		assert.Equal(t, 1, VariantFor(6, 1, 7, 2))
		assert.Equal(t, 0, VariantFor(6, 2, 7, 2))
	})

	t.Run("more variants than rows", func(t *testing.T) {
		for r := 0; r < 2; r++ {
			for c := 0; c < 5; c++ {
				assert.Equal(t, c%3, VariantFor(r, c, 2, 3))
			}
		}
	})

	t.Run("single variant", func(t *testing.T) {
		assert.Equal(t, 0, VariantFor(4, 7, 5, 1))
		assert.Equal(t, 0, VariantFor(4, 7, 5, 0))
	})
}

func TestRotationFor(t *testing.T) {
	want := []int{0, 180, 0, 180}
	for r, rot := range want {
		assert.Equal(t, rot, RotationFor(r, true))
		assert.Equal(t, 0, RotationFor(r, false))
	}
}

func TestLayoutCentersGrid(t *testing.T) {
	// 100 x 50 sheet, top-left at origin, 30 x 20 cells, 5 spacing.
	sheet := geom.Rect{Left: 0, Top: 50, Right: 100, Bottom: 0}
	got := Layout(sheet, geom.Size{W: 30, H: 20}, 1, Spacing{X: 5, Y: 5}, Gripper{}, false)

	// 3 cols (100 exactly), 2 rows (45 of 50).
	require.Len(t, got, 6)

	// Vertical footprint is 45, centered in 50: grid top at 47.5.
	want := []Placement{
		{X: 15, Y: 37.5, Row: 0, Col: 0},
		{X: 50, Y: 37.5, Row: 0, Col: 1},
		{X: 85, Y: 37.5, Row: 0, Col: 2},
		{X: 15, Y: 12.5, Row: 1, Col: 0},
		{X: 50, Y: 12.5, Row: 1, Col: 1},
		{X: 85, Y: 12.5, Row: 1, Col: 2},
	}
	for i := range want {
		assert.InDelta(t, want[i].X, got[i].X, 1e-9, "x %d", i)
		assert.InDelta(t, want[i].Y, got[i].Y, 1e-9, "y %d", i)
		assert.Equal(t, want[i].Row, got[i].Row)
		assert.Equal(t, want[i].Col, got[i].Col)
	}
}

func TestPlanGripper(t *testing.T) {
	sheet := geom.Rect{Left: 0, Top: 100, Right: 100, Bottom: 0}
	res := Plan(Params{
		Sheet:    sheet,
		Cell:     geom.Size{W: 40, H: 40},
		Variants: 1,
		Gripper:  Gripper{Top: 20, Left: 10},
	})

	assert.Equal(t, geom.Rect{Left: 10, Top: 80, Right: 100, Bottom: 0}, res.Usable)
	assert.Equal(t, 2, res.Cols)
	assert.Equal(t, 2, res.Rows)
	// Grid 80 x 80 centered on the usable center (55, 40).
	assert.Equal(t, geom.Rect{Left: 15, Top: 80, Right: 95, Bottom: 0}, res.Bounds)
	assert.InDelta(t, 35, res.Placements[0].X, 1e-9)
	assert.InDelta(t, 60, res.Placements[0].Y, 1e-9)

	uniform := Plan(Params{Sheet: sheet, Cell: geom.Size{W: 40, H: 40}, Variants: 1, Gripper: Uniform(15)})
	assert.Equal(t, 1, uniform.Cols)
	assert.Equal(t, 1, uniform.Rows)
	assert.InDelta(t, 50, uniform.Placements[0].X, 1e-9)
	assert.InDelta(t, 50, uniform.Placements[0].Y, 1e-9)
}

func TestLayoutDistributionAndRotation(t *testing.T) {
	// 3 cols x 7 rows of 10 x 10 cells.
	sheet := geom.Rect{Left: 0, Top: 70, Right: 30, Bottom: 0}
	res := Plan(Params{Sheet: sheet, Cell: geom.Size{W: 10, H: 10}, Variants: 2, HeadToHead: true})

	require.Equal(t, 3, res.Cols)
	require.Equal(t, 7, res.Rows)
	assert.Equal(t, 3, res.RowsPerVariant)
	require.Len(t, res.Placements, 21)

	for _, p := range res.Placements {
		switch {
		case p.Row < 3:
			assert.Equal(t, 0, p.VariantIndex)
		case p.Row < 6:
			assert.Equal(t, 1, p.VariantIndex)
		default:
			assert.Equal(t, p.Col%2, p.VariantIndex)
		}
		assert.Equal(t, RotationFor(p.Row, true), p.Rotation)
	}
	assert.Equal(t, []int{11, 10}, VariantCounts(res.Placements, 2))
}

func TestLayoutHeadToHeadFourRows(t *testing.T) {
	sheet := geom.Rect{Left: 0, Top: 40, Right: 10, Bottom: 0}
	got := Layout(sheet, geom.Size{W: 10, H: 10}, 1, Spacing{}, Gripper{}, true)
	require.Len(t, got, 4)
	assert.Equal(t, []int{0, 180, 0, 180}, []int{got[0].Rotation, got[1].Rotation, got[2].Rotation, got[3].Rotation})
}

func TestLayoutEmpty(t *testing.T) {
	sheet := geom.Rect{Left: 0, Top: 100, Right: 100, Bottom: 0}
	tests := []struct {
		name    string
		cell    geom.Size
		gripper Gripper
	}{
		{"too wide", geom.Size{W: 101, H: 10}, Gripper{}},
		{"too tall", geom.Size{W: 10, H: 101}, Gripper{}},
		{"gripper eats sheet", geom.Size{W: 10, H: 10}, Uniform(60)},
		{"zero cell", geom.Size{}, Gripper{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Plan(Params{Sheet: sheet, Cell: tt.cell, Variants: 2, Gripper: tt.gripper})
			assert.True(t, res.Empty())
			assert.Empty(t, res.Placements)
			assert.Zero(t, res.Cols)
			assert.Zero(t, res.Rows)
		})
	}
}

func TestLayoutDeterministic(t *testing.T) {
	sheet := geom.Rect{Left: -50, Top: 320, Right: 400, Bottom: -10}
	a := Layout(sheet, geom.Size{W: 85, H: 55}, 3, Spacing{X: 2, Y: 3}, Uniform(5), true)
	b := Layout(sheet, geom.Size{W: 85, H: 55}, 3, Spacing{X: 2, Y: 3}, Uniform(5), true)
	assert.Equal(t, a, b)
}
