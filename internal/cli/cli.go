package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tblock/internal/config"
	"github.com/matzehuels/tblock/pkg/buildinfo"
	"github.com/matzehuels/tblock/pkg/observability"
	"github.com/matzehuels/tblock/pkg/scores"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "tblock"

	// defaultScoreLimit is how many leaderboard entries list commands show.
	defaultScoreLimit = 10
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

	// configPath is set by the --config flag; empty means the default file.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "tblock is a block-placement puzzle on a 9x9 board",
		Long:         `tblock is a block-placement puzzle. Pieces appear, you place them on a 9x9 board, and every full row or column is cleared for points. The game ends when nothing fits anymore.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default "+config.DefaultPath()+")")

	// Register all subcommands
	root.AddCommand(c.playCommand())
	root.AddCommand(c.simulateCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.scoresCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Helpers
// =============================================================================

// loadConfig reads the config file selected by --config, then the environment.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	c.Logger.Debug("config loaded", "path", c.resolvedConfigPath(), "backend", cfg.Scores.Backend)
	return cfg, nil
}

func (c *CLI) resolvedConfigPath() string {
	if c.configPath != "" {
		return c.configPath
	}
	return config.DefaultPath()
}

// openScores opens the configured leaderboard with logging hooks attached.
func (c *CLI) openScores(ctx context.Context, cfg scores.Config) (scores.Store, error) {
	store, err := scores.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	backend := cfg.Backend
	if backend == "" {
		backend = scores.BackendFile
	}
	return scores.Instrument(store, backend, observability.NewLogHooks(c.Logger)), nil
}
