package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tblock/pkg/errors"
	"github.com/matzehuels/tblock/pkg/game"
	"github.com/matzehuels/tblock/pkg/observability"
	"github.com/matzehuels/tblock/pkg/piece"
	"github.com/matzehuels/tblock/pkg/scores"
)

type simulateOptions struct {
	games   int
	seed    uint64
	turns   int
	workers int
	save    string
}

// simResult is one finished automated game.
type simResult struct {
	index   int
	seed    uint64
	summary game.Summary
	err     error
}

// simulateCommand creates the command that runs automated games.
func (c *CLI) simulateCommand() *cobra.Command {
	var opts simulateOptions

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run automated games with the greedy solver",
		Long: `Run automated games. Each turn fills the free piece slots and places the
piece that clears the most lines. Game i uses seed+i, so a run with a fixed
--seed is reproducible.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSimulate(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.games, "games", "n", 10, "number of games")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "seed of the first game (0 picks one)")
	cmd.Flags().IntVar(&opts.turns, "turns", 0, "stop each game after this many placements (0 = until game over)")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", runtime.NumCPU(), "games played in parallel")
	cmd.Flags().StringVar(&opts.save, "save", "", "save every result to the leaderboard under this name")

	return cmd
}

func (c *CLI) runSimulate(cmd *cobra.Command, opts simulateOptions) error {
	ctx := cmd.Context()
	if opts.games < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "--games must be at least 1")
	}
	if opts.save != "" {
		if err := errors.ValidatePlayerName(opts.save); err != nil {
			return err
		}
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("seed") {
		cfg.Game.Seed = opts.seed
	}
	cfg.Game.Seed = resolveSeed(cfg.Game.Seed)

	rec := &observability.Recorder{}
	prog := newProgress(c.Logger)
	spin := newSpinner(ctx, os.Stderr, fmt.Sprintf("Simulating %d games", opts.games))
	if c.Logger.GetLevel() > log.DebugLevel {
		spin.Start()
	}
	results, err := simulate(ctx, cfg.Game, opts, c.Logger, rec, func(done int) {
		spin.SetMessage("Simulated %d/%d games", done, opts.games)
	})
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Simulated %d games", len(results)))

	fmt.Println(renderSimulation(results))
	printSimulationSummary(results, rec.Snapshot())

	if opts.save != "" {
		return c.saveSimulation(ctx, cfg.Scores, opts.save, results)
	}
	return nil
}

// simulate plays opts.games games on a pool of workers and returns the
// results in game order. onDone is called after each game finishes.
func simulate(ctx context.Context, cfg game.Config, opts simulateOptions, logger *log.Logger,
	hooks observability.GameHooks, onDone func(done int)) ([]simResult, error) {
	workers := min(max(opts.workers, 1), opts.games)
	jobs := make(chan int, opts.games)
	results := make(chan simResult, opts.games)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results <- playOne(ctx, cfg, i, opts.turns, logger, hooks)
			}
		}()
	}
	for i := range opts.games {
		jobs <- i
	}
	close(jobs)
	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]simResult, opts.games)
	done := 0
	var firstErr error
	for r := range results {
		out[r.index] = r
		done++
		if onDone != nil {
			onDone(done)
		}
		if r.err != nil && firstErr == nil {
			firstErr = r.err
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

func playOne(ctx context.Context, cfg game.Config, index, turns int, logger *log.Logger, hooks observability.GameHooks) simResult {
	cfg.Seed += uint64(index)
	res := simResult{index: index, seed: cfg.Seed}
	s, err := game.New(cfg,
		game.WithLogger(logger.With("game", index+1)),
		game.WithHooks(observability.Multi(observability.NewLogHooks(logger), hooks)),
	)
	if err != nil {
		res.err = err
		return res
	}
	res.summary, res.err = game.Play(ctx, s, turns)
	return res
}

func renderSimulation(results []simResult) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		status := "over"
		if !r.summary.Over {
			status = "stopped"
		}
		rows = append(rows, []string{
			strconv.Itoa(r.index + 1),
			strconv.FormatUint(r.seed, 10),
			strconv.Itoa(r.summary.Score),
			strconv.Itoa(r.summary.Turns),
			strconv.Itoa(r.summary.Stats.Lines),
			status,
		})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Game", "Seed", "Score", "Turns", "Lines", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 2 {
				return StyleNumber
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// simStats aggregates a simulation run.
type simStats struct {
	best, total, lines int
	mean               float64
}

func summarize(results []simResult) simStats {
	var st simStats
	for _, r := range results {
		st.best = max(st.best, r.summary.Score)
		st.total += r.summary.Score
		st.lines += r.summary.Stats.Lines
	}
	if len(results) > 0 {
		st.mean = float64(st.total) / float64(len(results))
	}
	return st
}

func printSimulationSummary(results []simResult, counts observability.Counts) {
	st := summarize(results)
	printKeyValue("Best", strconv.Itoa(st.best))
	printKeyValue("Mean", strconv.FormatFloat(st.mean, 'f', 1, 64))
	printKeyValue("Lines", strconv.Itoa(st.lines))
	printKeyValue("Spawned", strconv.Itoa(counts.Spawns))
	printKeyValue("Placed", strconv.Itoa(counts.Commits))
	for _, k := range piece.Kinds() {
		printDetail("%-6s spawned %d times", k, counts.ByKind[k.String()])
	}
}

func (c *CLI) saveSimulation(ctx context.Context, cfg scores.Config, player string, results []simResult) error {
	store, err := c.openScores(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	for _, r := range results {
		e := scores.NewEntry(player, r.summary.Score, r.summary.Stats.Lines, r.summary.Stats.Placed)
		e.Seed = r.seed
		if err := store.Add(ctx, e); err != nil {
			return err
		}
	}
	printSuccess("Saved %d results as %s", len(results), player)
	return nil
}
