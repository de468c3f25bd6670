package cli

import (
	"fmt"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/impose/pkg/schema"
)

// presetsCommand creates the presets command with its subcommands.
func (c *CLI) presetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "Browse the builtin schemas",
	}

	cmd.AddCommand(c.presetsListCommand())
	cmd.AddCommand(c.presetsShowCommand())
	cmd.AddCommand(c.presetsPickCommand())

	return cmd
}

// presetsListCommand creates the "presets list" subcommand.
func (c *CLI) presetsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List builtin schemas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(presetTable(schema.Builtin()))
			return nil
		},
	}
}

// presetsShowCommand creates the "presets show" subcommand.
func (c *CLI) presetsShowCommand() *cobra.Command {
	var (
		format   string
		annotate bool
	)

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a builtin schema",
		Long: `Print a builtin schema as YAML, JSON or TOML.

With --annotate every field carries its semantic role, which is what the
rule compiler reads.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completePresetIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := schema.ParseFormat(format)
			if err != nil {
				return err
			}
			s, err := schema.Lookup(args[0])
			if err != nil {
				return err
			}
			if annotate {
				s = schema.Annotate(s)
			}
			return schema.Encode(os.Stdout, s, f)
		},
	}

	cmd.Flags().StringVar(&format, "format", string(schema.FormatYAML), "output format: yaml, json, toml")
	cmd.Flags().BoolVar(&annotate, "annotate", false, "fill in semantic roles")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

// presetsPickCommand creates the "presets pick" subcommand.
func (c *CLI) presetsPickCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pick",
		Short: "Choose a builtin schema interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := NewPresetListModel(schema.Builtin())
			p := tea.NewProgram(m, tea.WithContext(cmd.Context()))
			finalModel, err := p.Run()
			if err != nil {
				return err
			}

			fm, ok := finalModel.(PresetListModel)
			if !ok || fm.Selected == nil {
				printDetail("No selection made")
				return nil
			}

			printSuccess("Selected %s", StyleHighlight.Render(fm.Selected.ID))
			printNewline()
			printNextStep("Impose with it", appName+" layout -p "+fm.Selected.ID+" -f 90x54")
			return nil
		},
	}
}

// presetTable renders a summary of presets.
func presetTable(presets []*schema.Schema) string {
	t := newTable("ID", "Name", "Version", "Sections")
	for _, s := range presets {
		t.Row(s.ID, s.Name, s.Version, strconv.Itoa(len(s.Sections)))
	}
	return t.Render()
}
