// Package cli implements the impose command-line interface.
//
// # Commands
//
// The main commands are:
//   - layout: Run the whole imposition and write the result as JSON
//   - frame: Compute only the yield frame
//   - margins: Compile margin rules and show how each edge resolves
//   - presets: List, show or interactively pick builtin schemas
//   - serve: Expose the pipeline over HTTP
//   - cache: Manage the result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, or log.level
// in the config file. Loggers are passed through context.Context.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/impose/internal/config"
	"github.com/matzehuels/impose/pkg/buildinfo"
	"github.com/matzehuels/impose/pkg/cache"
	"github.com/matzehuels/impose/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = config.AppName
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config

	configFile string
}

// New creates a new CLI instance with a default logger and default config.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.NewDefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Impose computes print imposition layouts",
		Long: `Impose is a CLI tool for print imposition: it resolves margin rules into a
yield frame, sizes the press sheet and tiles copies across it with guides
and trim marks.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.loadConfig,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default: ./impose.{toml,yaml,json})")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.frameCommand())
	root.AddCommand(c.marginsCommand())
	root.AddCommand(c.presetsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and environment and applies the log level.
func (c *CLI) loadConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configFile)
	if err != nil {
		return err
	}
	c.Config = cfg

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	c.SetLogLevel(level)
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, versionKeyer(), c.Logger), nil
}

// newCache opens the backend selected by cache.backend. A file cache whose
// directory cannot be resolved degrades to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.Config
	switch {
	case noCache:
		return c.cacheDisabled("--no-cache"), nil
	case cfg.Cache.Backend == config.CacheNone:
		return c.cacheDisabled("cache.backend is none"), nil
	}

	var store cache.Cache
	switch cfg.Cache.Backend {
	case config.CacheMemory:
		store = cache.NewMemoryCache()
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
			Retry:    cache.RetryPolicy{Attempts: cfg.Redis.Retries, Delay: cfg.Redis.RetryDelay},
		})
		if err != nil {
			return nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}
		store = rc
	default:
		dir, err := cfg.CacheDir()
		if err != nil {
			return c.cacheDisabled("cache dir unavailable: " + err.Error()), nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		store = fc
	}
	return cache.WithTTL(store, cfg.Cache.TTL), nil
}

// cacheDisabled returns a NullCache and logs why results will not be reused.
func (c *CLI) cacheDisabled(reason string) *cache.NullCache {
	c.Logger.Debug("caching disabled", "reason", reason)
	return cache.Disabled(reason)
}

// versionKeyer scopes cache keys by build version so that results written by
// an older binary are never read back.
func versionKeyer() cache.Keyer {
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.CacheScope())
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the file cache directory from the loaded config.
func (c *CLI) cacheDir() (string, error) {
	return c.Config.CacheDir()
}
