package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/impose/pkg/geom"
	"github.com/matzehuels/impose/pkg/grid"
	"github.com/matzehuels/impose/pkg/pipeline"
	"github.com/matzehuels/impose/pkg/schema"
	"github.com/matzehuels/impose/pkg/sheet"
	"github.com/matzehuels/impose/pkg/units"
	"github.com/matzehuels/impose/pkg/values"
)

// requestFlags are the job inputs shared by layout, frame and margins.
// Flags override whatever a request file supplies.
type requestFlags struct {
	preset         string
	schemaFile     string
	valuesFile     string
	set            []string
	finish         string
	sheet          string
	content        []string
	variants       int
	spacing        string
	reserveGripper bool
	noCache        bool
	refresh        bool
}

// registerSchema adds the flags that select a schema and its raw values.
func (f *requestFlags) registerSchema(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.preset, "preset", "p", "", "builtin schema id (default: "+schema.DefaultPreset+")")
	fl.StringVar(&f.schemaFile, "schema", "", "schema file (.json, .yaml, .toml)")
	fl.StringVar(&f.valuesFile, "values", "", "raw values file (.json, .yaml, .toml)")
	fl.StringArrayVarP(&f.set, "set", "s", nil, "raw value as key=value (repeatable)")
	fl.BoolVar(&f.noCache, "no-cache", false, "disable caching")

	_ = cmd.RegisterFlagCompletionFunc("preset", completePresetIDs)
	_ = cmd.MarkFlagFilename("schema", "json", "yaml", "yml", "toml")
	_ = cmd.MarkFlagFilename("values", "json", "yaml", "yml", "toml")
}

// register adds every request flag.
func (f *requestFlags) register(cmd *cobra.Command) {
	f.registerSchema(cmd)
	fl := cmd.Flags()
	fl.StringVarP(&f.finish, "finish", "f", "", "finish size in mm, e.g. 90x54")
	fl.StringVar(&f.sheet, "sheet", "", "current sheet as WxH in mm or a paper name (a4, a3, sra3)")
	fl.StringArrayVar(&f.content, "content", nil, "content item in points as left,top,width,height (repeatable)")
	fl.IntVar(&f.variants, "variants", 0, "number of artwork variants")
	fl.StringVar(&f.spacing, "spacing", "", "gap between copies in mm, e.g. 3x3")
	fl.BoolVar(&f.reserveGripper, "reserve-gripper", false, "keep copies out of the sheet margins")
	fl.BoolVar(&f.refresh, "refresh", false, "ignore cached results")

	_ = cmd.RegisterFlagCompletionFunc("sheet", completePaperSizes)
}

// request builds the pipeline request from an optional request file plus
// the flags.
func (f *requestFlags) request(file string) (pipeline.Request, error) {
	var req pipeline.Request
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return req, fmt.Errorf("read request %s: %w", file, err)
		}
		if err := json.Unmarshal(data, &req); err != nil {
			return req, fmt.Errorf("parse request %s: %w", file, err)
		}
	}

	if f.preset != "" {
		req.SchemaID = f.preset
	}
	if f.schemaFile != "" {
		s, err := f.loadSchema()
		if err != nil {
			return req, err
		}
		req.Payload.Schema = s
	}

	raw, err := f.rawValues(req.Payload.RawValues)
	if err != nil {
		return req, err
	}
	req.Payload.RawValues = raw

	if f.finish != "" {
		size, err := parseSize(f.finish)
		if err != nil {
			return req, fmt.Errorf("--finish: %w", err)
		}
		req.Payload.Geometry.Finish = size
	}
	if f.sheet != "" {
		size, err := parseSheet(f.sheet)
		if err != nil {
			return req, fmt.Errorf("--sheet: %w", err)
		}
		req.Sheet = geom.RectFromTopLeft(0, 0, units.MMToPt(size.W), units.MMToPt(size.H))
	}
	for _, c := range f.content {
		r, err := parseRect(c)
		if err != nil {
			return req, fmt.Errorf("--content: %w", err)
		}
		req.Content = append(req.Content, r)
	}
	if f.variants > 0 {
		req.Variants = f.variants
	}
	if f.spacing != "" {
		size, err := parseSize(f.spacing)
		if err != nil {
			return req, fmt.Errorf("--spacing: %w", err)
		}
		req.SpacingMM = grid.Spacing{X: size.W, Y: size.H}
	}
	if f.reserveGripper {
		req.ReserveGripper = true
	}
	if f.refresh {
		req.Refresh = true
	}
	return req, nil
}

// loadSchema returns the schema selected by --schema or --preset. Without
// either it returns nil, which selects the default preset downstream.
func (f *requestFlags) loadSchema() (*schema.Schema, error) {
	if f.schemaFile != "" {
		return schema.LoadFile(f.schemaFile)
	}
	if f.preset != "" {
		return schema.Lookup(f.preset)
	}
	return nil, nil
}

// rawValues overlays --values and then --set on base.
func (f *requestFlags) rawValues(base values.Values) (values.Values, error) {
	raw := base.Clone()
	if f.valuesFile != "" {
		fromFile, err := readValues(f.valuesFile)
		if err != nil {
			return nil, err
		}
		for k, v := range fromFile {
			raw[k] = v
		}
	}
	for _, kv := range f.set {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid --set %q: want key=value", kv)
		}
		raw[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return raw, nil
}

// readValues decodes a flat key/value document.
func readValues(path string) (values.Values, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read values %s: %w", path, err)
	}
	out := map[string]any{}
	format, err := schema.FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	switch format {
	case schema.FormatJSON:
		err = json.Unmarshal(data, &out)
	case schema.FormatYAML:
		err = yaml.Unmarshal(data, &out)
	case schema.FormatTOML:
		err = toml.Unmarshal(data, &out)
	}
	if err != nil {
		return nil, fmt.Errorf("parse values %s: %w", filepath.Base(path), err)
	}
	return values.Values(out), nil
}

// parseSize parses "WxH" into a size. Both parts must be non-negative.
func parseSize(s string) (geom.Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return geom.Size{}, fmt.Errorf("invalid size %q: want WxH", s)
	}
	fw, okW := values.ParseFloat(w)
	fh, okH := values.ParseFloat(h)
	if !okW || !okH || fw < 0 || fh < 0 {
		return geom.Size{}, fmt.Errorf("invalid size %q: want WxH", s)
	}
	return geom.Size{W: fw, H: fh}, nil
}

// parseSheet accepts either "WxH" or a named paper size.
func parseSheet(s string) (geom.Size, error) {
	if strings.ContainsAny(s, "xX") {
		if size, err := parseSize(s); err == nil {
			return size, nil
		}
	}
	return sheet.Paper(s)
}

// parseRect parses "left,top,width,height".
func parseRect(s string) (geom.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return geom.Rect{}, fmt.Errorf("invalid rect %q: want left,top,width,height", s)
	}
	var n [4]float64
	for i, p := range parts {
		f, ok := values.ParseFloat(p)
		if !ok {
			return geom.Rect{}, fmt.Errorf("invalid rect %q: %q is not a number", s, p)
		}
		n[i] = f
	}
	if n[2] <= 0 || n[3] <= 0 {
		return geom.Rect{}, fmt.Errorf("invalid rect %q: width and height must be positive", s)
	}
	return geom.RectFromTopLeft(n[0], n[1], n[2], n[3]), nil
}
