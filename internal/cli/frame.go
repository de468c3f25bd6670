package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/impose/pkg/frame"
	"github.com/matzehuels/impose/pkg/geom"
	"github.com/matzehuels/impose/pkg/guides"
)

// frameResult is the JSON output of the frame command.
type frameResult struct {
	Frame   frame.Frame  `json:"frame"`
	Content geom.Bounds  `json:"content"`
	Fit     *frame.Fit   `json:"fit,omitempty"`
	Guides  guides.Yield `json:"guides"`
	Cached  bool         `json:"cached"`
}

// frameCommand creates the frame command that computes only the yield frame.
func (c *CLI) frameCommand() *cobra.Command {
	var (
		in     requestFlags
		output string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "frame [request.json]",
		Short: "Compute the yield frame without imposing it",
		Long: `Compute the yield frame without imposing it.

The frame is the finish size plus the resolved margins on each edge. When no
finish size is given it is detected from --content.`,
		Example: `  impose frame -f 90x54 -s safe_top=3 -s safe_left=2
  impose frame --content 0,200,255,153`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var file string
			if len(args) == 1 {
				file = args[0]
			}
			return c.runFrame(cmd.Context(), file, in, output, asJSON)
		},
	}

	in.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file for the JSON result")
	cmd.Flags().BoolVar(&asJSON, "json", false, "write the JSON result to stdout instead of a summary")

	return cmd
}

// runFrame builds the request and computes its frame.
func (c *CLI) runFrame(ctx context.Context, file string, in requestFlags, output string, asJSON bool) error {
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

	prog := newProgress(c.Logger)
	f, content, cached, err := runner.FrameWithCacheInfo(ctx, req)
	if err != nil {
		return err
	}
	prog.done("Frame calculated")

	out := frameResult{Frame: f, Content: content, Guides: guides.ForYield(f), Cached: cached}
	if content.Size().Positive() {
		fit, err := f.Fit(content.Size())
		if err != nil {
			return err
		}
		out.Fit = &fit
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	if output != "" {
		if err := writeJSONFile(output, out); err != nil {
			return fmt.Errorf("write output %s: %w", output, err)
		}
	}

	printSuccess("Frame calculated")
	printKeyValue("Finish", formatSizeMM(f.Finish))
	printKeyValue("Print", formatSizeMM(f.Print))
	printKeyValue("Margins", f.Margins.String())
	if f.IsAutoSize {
		printKeyValue("Auto-size", string(f.ResizeMode))
	}
	if out.Fit != nil {
		printKeyValue("Scale", fmt.Sprintf("%.4f x %.4f", out.Fit.ScaleX, out.Fit.ScaleY))
	}
	if output != "" {
		printFile(output)
	}
	printStats(len(f.Rules), 0, cached)
	return nil
}
