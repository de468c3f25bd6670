package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/impose/internal/server"
)

// serveCommand creates the serve command that exposes the pipeline over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the imposition API over HTTP",
		Long: `Serve the imposition API over HTTP.

The listen address, timeouts and cache backend come from the config file or
IMPOSE_* environment variables; --addr overrides server.addr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.Config.Server
			if addr != "" {
				cfg.Addr = addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			printInfo("Listening on %s", StyleLink.Render(cfg.Addr))
			printDetail("cache: %s", c.Config.Cache.Backend)
			return server.New(runner, c.Logger, cfg).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config: :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
