package cli

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/impose/internal/config"
	"github.com/matzehuels/impose/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the result cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cacheStatsCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var stages []string
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear cached rules, frames and layouts in the file cache",
		Example: `  impose cache clear
  impose cache clear --stage layout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, s := range stages {
				if !slices.Contains(cacheStages, s) {
					return fmt.Errorf("unknown stage %q (want %s)", s, strings.Join(cacheStages, ", "))
				}
			}
			fc, ok, err := c.openFileCache()
			if err != nil || !ok {
				return err
			}
			count, err := fc.Clear(stages...)
			if err != nil {
				return err
			}

			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&stages, "stage", nil, "only clear these stages (rules, frame, layout)")
	_ = cmd.RegisterFlagCompletionFunc("stage", cobra.FixedCompletions(cacheStages, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

// cacheStatsCommand creates the "cache stats" subcommand.
func (c *CLI) cacheStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count cached entries per pipeline stage",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, ok, err := c.openFileCache()
			if err != nil || !ok {
				return err
			}
			stats, err := fc.Stats()
			if err != nil {
				return err
			}
			fmt.Println(cacheStatsTable(stats))
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

// cacheStages are the stages a file cache can be cleared by.
var cacheStages = []string{cache.StageRules, cache.StageFrame, cache.StageLayout}

// openFileCache opens the configured file cache. It reports false, after
// telling the user why, when there is nothing on disk to work with.
func (c *CLI) openFileCache() (*cache.FileCache, bool, error) {
	if b := c.Config.Cache.Backend; b != config.CacheFile {
		printWarning("cache backend is %s; only the file cache is managed here", b)
		return nil, false, nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		return nil, false, fmt.Errorf("get cache dir: %w", err)
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		printInfo("Cache is empty")
		return nil, false, nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, false, err
	}
	return fc, true, nil
}

// cacheStatsTable renders entry counts in stage order.
func cacheStatsTable(stats map[string]int) string {
	t := newTable("Stage", "Entries")
	total := 0
	for _, stage := range cacheStages {
		t.Row(stage, strconv.Itoa(stats[stage]))
		total += stats[stage]
	}
	t.Row("total", strconv.Itoa(total))
	return t.Render()
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}
