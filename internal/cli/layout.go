package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/impose/pkg/pipeline"
)

// layoutCommand creates the layout command that runs a complete imposition.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		in         requestFlags
		output     string
		asJSON     bool
		placements bool
	)

	cmd := &cobra.Command{
		Use:   "layout [request.json]",
		Short: "Impose copies of a frame onto a press sheet",
		Long: `Impose copies of a frame onto a press sheet.

The layout command compiles the margin rules of a schema, computes the yield
frame and then either tiles it across the sheet (N-Up) or anchors a single
copy. The job comes from an optional request.json and/or flags; flags win.

The result (frame, placements, guides and trim marks) is written as JSON with
-o, or to stdout with --json.

Results are cached for faster subsequent runs.`,
		Example: `  impose layout --finish 90x54
  impose layout -p standard_imposition -f 90x54 -s safe_top=3 -s opt_layout_head_to_head=true
  impose layout job.json --variants 2 -o job.imposed.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var file string
			if len(args) == 1 {
				file = args[0]
			}
			return c.runLayout(cmd.Context(), file, in, output, asJSON, placements)
		},
	}

	in.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file for the JSON result")
	cmd.Flags().BoolVar(&asJSON, "json", false, "write the JSON result to stdout instead of a summary")
	cmd.Flags().BoolVar(&placements, "placements", false, "print a table of all placements")

	return cmd
}

// runLayout builds the request, runs the pipeline and writes output.
func (c *CLI) runLayout(ctx context.Context, file string, in requestFlags, output string, asJSON, placements bool) error {
	req, err := in.request(file)
	if err != nil {
		return err
	}
	req.Logger = loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, in.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var spinner *Spinner
	if !asJSON {
		spinner = newSpinnerWithContext(ctx, "Compiling margin rules...")
		defer followStages(spinner)()
		spinner.Start()
	}

	res, err := runner.Execute(ctx, req)
	if err != nil {
		if spinner != nil {
			spinner.StopWithError("Layout failed")
		}
		return err
	}
	if spinner != nil {
		spinner.Stop()
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	outputPath := output
	if outputPath == "" && file != "" {
		outputPath = strings.TrimSuffix(file, filepath.Ext(file)) + ".imposed.json"
	}
	if outputPath != "" {
		if err := writeJSONFile(outputPath, res); err != nil {
			return fmt.Errorf("write output %s: %w", outputPath, err)
		}
	}

	printLayoutSummary(res)
	if outputPath != "" {
		printFile(outputPath)
	}
	if placements {
		printNewline()
		fmt.Println(placementTable(res.Layout))
	}
	printStats(res.Stats.RuleCount, res.Stats.Copies, res.CacheInfo.FrameHit && res.CacheInfo.LayoutHit)
	if outputPath == "" {
		printNewline()
		printNextStep("Save the result", appName+" layout ... -o result.json")
	}
	return nil
}

// printLayoutSummary prints the key figures of a run.
func printLayoutSummary(res *pipeline.Result) {
	l := res.Layout
	if l.Mode == pipeline.ModeNUp {
		printSuccess("Imposed %d copies (%d x %d)", len(l.Placements), l.Cols, l.Rows)
	} else {
		printSuccess("Imposed a single copy")
	}
	printKeyValue("Mode", l.Mode)
	printKeyValue("Sheet", formatSizeMM(l.Sheet.Rect.Size()))
	printKeyValue("Finish", formatSizeMM(res.Frame.Finish))
	printKeyValue("Print", formatSizeMM(res.Frame.Print))
	printKeyValue("Cell", formatSizeMM(l.Cell))
	printKeyValue("Margins", res.Frame.Margins.String())
	if l.RotateAngle != 0 {
		printKeyValue("Rotation", strconv.FormatFloat(l.RotateAngle, 'g', -1, 64)+"°")
	}
	if len(l.VariantCounts) > 1 {
		counts := make([]string, len(l.VariantCounts))
		for i, n := range l.VariantCounts {
			counts[i] = strconv.Itoa(n)
		}
		printKeyValue("Variants", strings.Join(counts, " / "))
	}
	if len(l.Marks) > 0 {
		printKeyValue("Marks", strconv.Itoa(len(l.Marks)))
	}
	for _, w := range l.Warnings {
		printWarning("%s", w)
	}
}

// placementTable renders the placements of l, one row per copy.
func placementTable(l pipeline.Layout) string {
	t := newTable("#", "Row", "Col", "Variant", "X (mm)", "Y (mm)", "Rot")
	for i, p := range l.Placements {
		t.Row(
			strconv.Itoa(i+1),
			strconv.Itoa(p.Row),
			strconv.Itoa(p.Col),
			strconv.Itoa(p.VariantIndex+1),
			formatMM(p.X),
			formatMM(p.Y),
			strconv.Itoa(p.Rotation),
		)
	}
	return t.Render()
}

// writeJSONFile writes v as indented JSON.
func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
