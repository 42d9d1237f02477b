package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tblock/pkg/errors"
	"github.com/matzehuels/tblock/pkg/game"
	"github.com/matzehuels/tblock/pkg/grid"
	"github.com/matzehuels/tblock/pkg/piece"
	"github.com/matzehuels/tblock/pkg/placement"
)

// boardReport describes which pieces still fit on a board.
type boardReport struct {
	Width    int          `json:"width"`
	Height   int          `json:"height"`
	Filled   int          `json:"filled"`
	Feasible bool         `json:"feasible"`
	Kinds    []kindReport `json:"kinds"`
}

type kindReport struct {
	Kind       piece.Kind `json:"kind"`
	Placements int        `json:"placements"`
}

// checkCommand creates the command that inspects a saved board.
func (c *CLI) checkCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "check [board-file]",
		Short: "Report whether any piece still fits on a board",
		Long: `Read a board drawn with '#' (filled) and '.' (empty), one row per line, and
report how many legal placements each piece kind has. Reads stdin when the
file is omitted or '-'.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			g, err := readBoard(path, cmd.InOrStdin())
			if err != nil {
				return err
			}
			report, err := checkBoard(g)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			printBoardReport(g, report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")

	return cmd
}

func readBoard(path string, stdin io.Reader) (*grid.Grid, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "board file %s not found", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read board %s", path)
	}
	return grid.Parse(string(data))
}

// checkBoard loads g into a session so the same rules as in play decide
// feasibility.
func checkBoard(g *grid.Grid) (boardReport, error) {
	cfg := game.DefaultConfig()
	cfg.Width, cfg.Height = g.Width(), g.Height()
	s, err := game.New(cfg, game.WithGrid(g))
	if err != nil {
		return boardReport{}, err
	}

	report := boardReport{
		Width:    g.Width(),
		Height:   g.Height(),
		Filled:   g.Filled(),
		Feasible: s.IsBoardFeasible(),
	}
	for _, k := range piece.Kinds() {
		n := 0
		for r := range k.RotationCount() {
			v, _ := k.VariantAt(r)
			n += len(placement.Anchors(v, g))
		}
		report.Kinds = append(report.Kinds, kindReport{Kind: k, Placements: n})
	}
	return report, nil
}

func printBoardReport(g *grid.Grid, r boardReport) {
	fmt.Println(renderBoard(g, nil, nil))
	printKeyValue("Size", fmt.Sprintf("%dx%d", r.Width, r.Height))
	printKeyValue("Filled", fmt.Sprintf("%d/%d", r.Filled, r.Width*r.Height))
	for _, k := range r.Kinds {
		printDetail("%-6s %d placements", k.Kind, k.Placements)
	}
	if r.Feasible {
		printSuccess("At least one piece still fits")
	} else {
		printWarning("No piece fits anywhere, the game is over")
	}
}
