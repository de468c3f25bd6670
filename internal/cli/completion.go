package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/impose/pkg/schema"
	"github.com/matzehuels/impose/pkg/sheet"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for impose.

Besides commands and flags, the scripts complete builtin preset ids
(--preset, presets show), paper names (--sheet a4, --sheet sra3) and
schema formats (--format).

Bash:
  $ source <(impose completion bash)
  $ impose completion bash > /etc/bash_completion.d/impose

Zsh:
  $ impose completion zsh > "${fpath[1]}/_impose"

Fish:
  $ impose completion fish > ~/.config/fish/completions/impose.fish

PowerShell:
  PS> impose completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(os.Stdout, true)
			case "zsh":
				return root.GenZshCompletion(os.Stdout)
			case "fish":
				return root.GenFishCompletion(os.Stdout, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}

// =============================================================================
// Value Completions
// =============================================================================

// completePresetIDs completes builtin preset ids, described by their names.
func completePresetIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if cmd.Name() == "show" && len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var ids []string
	for _, s := range schema.Builtin() {
		if strings.HasPrefix(s.ID, toComplete) {
			ids = append(ids, s.ID+"\t"+s.Name)
		}
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}

// completePaperSizes completes the named sheet sizes with their dimensions.
func completePaperSizes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	names := make([]string, 0, len(sheet.PaperSizes))
	for name := range sheet.PaperSizes {
		if strings.HasPrefix(name, strings.ToLower(toComplete)) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for i, name := range names {
		size := sheet.PaperSizes[name]
		names[i] = fmt.Sprintf("%s\t%g x %g mm", name, size.W, size.H)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// completeFormats completes schema document formats.
func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{
		string(schema.FormatYAML) + "\tYAML",
		string(schema.FormatJSON) + "\tJSON",
		string(schema.FormatTOML) + "\tTOML",
	}, cobra.ShellCompDirectiveNoFileComp
}
