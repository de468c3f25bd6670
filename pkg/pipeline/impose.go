package pipeline

import (
	"github.com/matzehuels/impose/pkg/errors"
	"github.com/matzehuels/impose/pkg/frame"
	"github.com/matzehuels/impose/pkg/geom"
	"github.com/matzehuels/impose/pkg/grid"
	"github.com/matzehuels/impose/pkg/guides"
	"github.com/matzehuels/impose/pkg/rules"
	"github.com/matzehuels/impose/pkg/sheet"
	"github.com/matzehuels/impose/pkg/units"
	"github.com/matzehuels/impose/pkg/values"
)

// ContentBounds aggregates the request content. A request without content
// yields zero bounds.
func ContentBounds(req Request) (geom.Bounds, error) {
	if len(req.Content) == 0 {
		return geom.Bounds{}, nil
	}
	return frame.ContentBounds(req.Content...)
}

// CalculateFrame runs the frame stage without caching. The request must
// have passed [Request.ValidateForFrame]. A frame whose margins leave no
// printable area is an error unless it was auto-sized.
func CalculateFrame(req Request, content geom.Bounds) (frame.Frame, error) {
	f := frame.Calculate(req.Payload, content, rules.WithLogger(req.Logger))
	if !f.IsAutoSize {
		if err := f.Check(); err != nil {
			return frame.Frame{}, err
		}
	}
	return f, nil
}

// Impose runs the layout stage for a calculated frame without caching. The
// request must have passed [Request.ValidateForLayout].
func Impose(req Request, f frame.Frame, flags Flags) (Layout, error) {
	raw := req.Payload.RawValues
	if raw == nil {
		raw = values.Values{}
	}
	g, resized := sheet.FromValues(req.Sheet, raw)
	grip := sheet.GripperFromValues(raw)

	out := Layout{
		Mode:         flags.Mode(),
		Sheet:        g,
		SheetResized: resized,
		Gripper:      grip,
		Cell:         f.Finish,
		YieldGuides:  guides.ForYield(f),
		SheetGuides:  guides.ForSheet(g, grip),
	}

	if flags.NUp {
		p := grid.Params{
			Sheet:      g.Rect,
			Cell:       f.Finish,
			Variants:   req.Variants,
			Spacing:    grid.Spacing{X: units.MMToPt(req.SpacingMM.X), Y: units.MMToPt(req.SpacingMM.Y)},
			HeadToHead: flags.HeadToHead,
		}
		if req.ReserveGripper {
			p.Gripper = grip
		}
		plan := grid.Plan(p)
		if plan.Empty() {
			return Layout{}, &errors.FitError{
				CellW:   f.Finish.W,
				CellH:   f.Finish.H,
				UsableW: plan.Usable.Width(),
				UsableH: plan.Usable.Height(),
			}
		}
		out.Cols, out.Rows = plan.Cols, plan.Rows
		out.Placements = plan.Placements
		out.VariantCounts = grid.VariantCounts(plan.Placements, max(req.Variants, 1))
	} else {
		cell := f.Finish
		if flags.CustomRotate && flags.RotateAngle != 0 {
			cell = cell.Rotated(flags.RotateAngle)
			out.RotateAngle = flags.RotateAngle
		}
		out.Cell = cell
		a := sheet.Anchor(g, cell, flags.Align)
		out.Anchor = &a
		out.Cols, out.Rows = 1, 1
		out.Placements = []grid.Placement{{X: a.X + cell.W/2, Y: a.Y - cell.H/2}}
	}

	if flags.DrawMarks {
		cuts := grid.Layout(g.Rect, f.Finish, 1, grid.Spacing{}, grid.Gripper{}, false)
		out.Marks = guides.TrimMarks(g, cuts, f.Finish, flags.Marks)
	}
	return out, nil
}
