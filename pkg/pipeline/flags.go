package pipeline

import (
	"fmt"

	"github.com/matzehuels/impose/pkg/frame"
	"github.com/matzehuels/impose/pkg/guides"
	"github.com/matzehuels/impose/pkg/sheet"
	"github.com/matzehuels/impose/pkg/values"
)

// Flags are the imposition switches of a request, parsed once from the raw
// values.
type Flags struct {
	NUp        bool `json:"nUp"`
	HeadToHead bool `json:"headToHead"`
	SymbolMode bool `json:"symbolMode"`
	Cleanup    bool `json:"cleanup"`
	K100       bool `json:"k100"`
	DrawMarks  bool `json:"drawMarks"`

	CustomRotate bool    `json:"customRotate"`
	RotateAngle  float64 `json:"rotateAngle"`

	Align      sheet.Alignment    `json:"align"`
	Marks      guides.MarkOptions `json:"marks"`
	ResizeMode frame.ResizeMode   `json:"resizeMode"`
}

// ParseFlags reads the switches from v. Problems that have a sensible
// fallback are returned as warnings instead of errors.
func ParseFlags(v values.Values) (Flags, []string) {
	f := Flags{
		NUp:          v.Bool("opt_n_up"),
		HeadToHead:   v.Bool("opt_layout_head_to_head"),
		SymbolMode:   v.Bool("opt_symbol_mode"),
		Cleanup:      v.Bool("opt_cleanup"),
		K100:         v.Bool("opt_k100"),
		DrawMarks:    v.Bool("opt_draw_marks"),
		CustomRotate: v.Bool("opt_custom_rotate"),
		RotateAngle:  v.Float("custom_rotate_angle", 0),
		Marks: guides.MarkOptions{
			LengthMM: v.Float("mark_len", guides.DefaultMarkLengthMM),
			Weight:   v.Float("mark_weight", guides.DefaultMarkWeight),
			Hybrid:   v.Bool("mark_style_hybrid"),
		},
		ResizeMode: frame.ParseResizeMode(v.String("resize_mode", string(frame.Preserve))),
	}
	guides.SetMarkDefaults(&f.Marks)

	var warnings []string
	raw := v.String("align_position", string(sheet.TopLeft))
	a, err := sheet.ParseAlignment(raw)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("%v, using %q", err, sheet.TopLeft))
		a = sheet.TopLeft
	}
	f.Align = a
	if !f.CustomRotate {
		f.RotateAngle = 0
	}
	return f, warnings
}

// Mode returns the layout mode selected by the flags.
func (f Flags) Mode() string {
	if f.NUp {
		return ModeNUp
	}
	return ModeSingle
}
