package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/matzehuels/impose/pkg/margin"
)

// marginsResult is the JSON output of the margins command.
type marginsResult struct {
	Rules   []margin.Rule       `json:"rules"`
	Margins margin.Margins      `json:"margins"`
	Explain []margin.EdgeReport `json:"explain"`
}

// marginsCommand creates the margins command that shows how rules resolve.
func (c *CLI) marginsCommand() *cobra.Command {
	var (
		in     requestFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "margins",
		Short: "Compile margin rules and explain each edge",
		Long: `Compile margin rules and explain each edge.

Every edge resolves to the largest baseline or structural rule plus the sum
of additive rules, unless an absolute rule overrides it.`,
		Example: `  impose margins -p perfect_bound -s safe_top=3 -s trim_top=2 -s spine=6
  impose margins --schema my_schema.yaml --values job.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runMargins(cmd.Context(), in, asJSON)
		},
	}

	in.registerSchema(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "write the JSON result to stdout instead of tables")

	return cmd
}

// runMargins compiles and resolves the rules of the selected schema.
func (c *CLI) runMargins(ctx context.Context, in requestFlags, asJSON bool) error {
	s, err := in.loadSchema()
	if err != nil {
		return err
	}
	raw, err := in.rawValues(nil)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, in.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	rules, cached, err := runner.CompileRulesWithCacheInfo(ctx, s, raw)
	if err != nil {
		return err
	}
	out := marginsResult{Rules: rules, Margins: margin.Resolve(rules), Explain: margin.Explain(rules)}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(rules) == 0 {
		printInfo("No active margin rules")
	} else {
		fmt.Println(rulesTable(rules))
	}
	fmt.Println(explainTable(out.Explain))
	printStats(len(rules), 0, cached)
	return nil
}

// rulesTable renders compiled rules.
func rulesTable(rules []margin.Rule) string {
	t := newTable("Rule", "Edge", "Type", "mm", "Border")
	for _, r := range rules {
		border := ""
		if r.DrawBorder {
			border = string(r.BorderStyle)
			if border == "" {
				border = string(margin.Solid)
			}
		}
		t.Row(r.ID, r.Edge.String(), r.Type.String(), strconv.FormatFloat(r.Value, 'g', -1, 64), border)
	}
	return t.Render()
}

// explainTable renders the per-edge resolution.
func explainTable(reports []margin.EdgeReport) string {
	t := newTable("Edge", "Base", "Additive", "Override", "Final", "Inert")
	for _, r := range reports {
		base := strconv.FormatFloat(r.Base, 'g', -1, 64)
		if r.BaseRule != "" {
			base += " (" + r.BaseRule + ")"
		}
		override := "-"
		if r.Override != nil {
			override = strconv.FormatFloat(*r.Override, 'g', -1, 64) + " (" + r.OverrideRule + ")"
		}
		inert := strings.Join(lo.Uniq(r.Inert), ", ")
		t.Row(r.Edge.String(), base, strconv.FormatFloat(r.Additive, 'g', -1, 64), override,
			strconv.FormatFloat(r.Final, 'g', -1, 64), inert)
	}
	return t.Render()
}
