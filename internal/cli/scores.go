package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tblock/pkg/scores"
)

// scoresCommand creates the leaderboard management command.
func (c *CLI) scoresCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Manage the leaderboard",
	}

	cmd.AddCommand(c.scoresListCommand())
	cmd.AddCommand(c.scoresClearCommand())

	return cmd
}

// scoresListCommand creates the "scores list" subcommand.
func (c *CLI) scoresListCommand() *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show the best scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, err := c.openScores(ctx, cfg.Scores)
			if err != nil {
				return err
			}
			defer store.Close()

			top, err := store.Top(ctx, limit)
			if err != nil {
				return err
			}
			if asJSON {
				if top == nil {
					top = []scores.Entry{}
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(top)
			}
			if len(top) == 0 {
				printInfo("No scores yet")
				return nil
			}
			fmt.Println(renderScores(top))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", defaultScoreLimit, "number of entries (0 = all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print entries as JSON")

	return cmd
}

// scoresClearCommand creates the "scores clear" subcommand.
func (c *CLI) scoresClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every leaderboard entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, err := c.openScores(ctx, cfg.Scores)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Clear(ctx); err != nil {
				return err
			}
			printSuccess("Cleared the leaderboard")
			printDetail("Backend: %s", cfg.Scores.Backend)
			return nil
		},
	}
}
