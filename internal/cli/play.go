package cli

import (
	"io"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tblock/pkg/game"
	"github.com/matzehuels/tblock/pkg/observability"
	"github.com/matzehuels/tblock/pkg/scores"
)

type playOptions struct {
	seed     uint64
	player   string
	noScores bool
}

// playCommand creates the interactive game command.
func (c *CLI) playCommand() *cobra.Command {
	var opts playOptions

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		Long: `Play an interactive game in the terminal.

Spawn pieces with s, move the cursor with the arrow keys, rotate with r and
place with enter. Full rows and columns are cleared for points. When no
active piece fits anywhere the game is over and the score can be saved to the
leaderboard.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlay(cmd, opts)
		},
	}

	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "seed for the piece sequence (0 picks one)")
	cmd.Flags().StringVar(&opts.player, "player", "", "name suggested when saving a score")
	cmd.Flags().BoolVar(&opts.noScores, "no-scores", false, "do not open the leaderboard")

	return cmd
}

func (c *CLI) runPlay(cmd *cobra.Command, opts playOptions) error {
	ctx := cmd.Context()
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("seed") {
		cfg.Game.Seed = opts.seed
	}
	cfg.Game.Seed = resolveSeed(cfg.Game.Seed)
	if opts.player != "" {
		cfg.Player = opts.player
	}

	var store scores.Store
	if !opts.noScores {
		store, err = c.openScores(ctx, cfg.Scores)
		if err != nil {
			c.Logger.Warn("leaderboard unavailable, scores will not be saved", "err", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	// The TUI owns the terminal, so game events go to a discarded logger
	// unless debugging.
	gameLog := log.New(io.Discard)
	if c.Logger.GetLevel() <= log.DebugLevel {
		gameLog = c.Logger
	}
	session, err := game.New(cfg.Game,
		game.WithLogger(gameLog),
		game.WithHooks(observability.NewLogHooks(gameLog)),
	)
	if err != nil {
		return err
	}

	model := NewGameModel(ctx, session, store, cfg.Player)
	final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(GameModel); ok {
		st := m.session.Stats()
		printInfo("Final score %s", StyleNumber.Render(strconv.Itoa(m.session.Score())))
		printDetail("%d pieces placed, %d lines cleared", st.Placed, st.Lines)
	}
	return nil
}

// resolveSeed replaces 0 with a time-based seed so the game can be replayed.
func resolveSeed(seed uint64) uint64 {
	if seed != 0 {
		return seed
	}
	return uint64(time.Now().UnixNano())
}
