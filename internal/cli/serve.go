package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/tblock/pkg/observability"
	"github.com/matzehuels/tblock/pkg/server"
)

// serveCommand creates the command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		noScores bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve games over a JSON HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			hooks := observability.NewLogHooks(c.Logger)
			opts := server.Options{
				Game:        cfg.Game,
				MaxSessions: cfg.Server.MaxSessions,
				Logger:      c.Logger,
				HTTPHooks:   hooks,
				GameHooks:   hooks,
			}
			if !noScores {
				store, err := c.openScores(ctx, cfg.Scores)
				if err != nil {
					return err
				}
				defer store.Close()
				opts.Scores = store
			}

			srv, err := server.New(opts)
			if err != nil {
				return err
			}
			printInfo("Serving on http://%s", cfg.Server.Addr)
			return srv.ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().BoolVar(&noScores, "no-scores", false, "run without a leaderboard")

	return cmd
}
