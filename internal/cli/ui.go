package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/tblock/pkg/grid"
	"github.com/matzehuels/tblock/pkg/piece"
	"github.com/matzehuels/tblock/pkg/scores"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	// StyleError for failures.
	StyleError = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleFilled  = lipgloss.NewStyle().Foreground(colorCyan)
	styleEmpty   = lipgloss.NewStyle().Foreground(colorDim)
	styleFits    = lipgloss.NewStyle().Foreground(colorGreen)
	styleBlocked = lipgloss.NewStyle().Foreground(colorRed)
	styleBoard   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"

	cellFilled = "██"
	cellEmpty  = "· "
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// =============================================================================
// Boards and Pieces
// =============================================================================

// overlay marks cells drawn on top of the board, e.g. a piece preview.
type overlay struct {
	cells map[grid.Point]bool
	style lipgloss.Style
}

// renderBoard draws g, two columns per cell. Cells in ov are drawn with its
// style; the cursor cell, if inside the board, is bracketed.
func renderBoard(g *grid.Grid, ov *overlay, cursor *grid.Point) string {
	var b strings.Builder
	for y := range g.Height() {
		for x := range g.Width() {
			p := grid.Point{X: x, Y: y}
			switch {
			case ov != nil && ov.cells[p]:
				b.WriteString(ov.style.Render(cellFilled))
			case !g.IsCellEmpty(x, y):
				b.WriteString(styleFilled.Render(cellFilled))
			case cursor != nil && *cursor == p:
				b.WriteString(StyleValue.Render("[]"))
			default:
				b.WriteString(styleEmpty.Render(cellEmpty))
			}
		}
		if y < g.Height()-1 {
			b.WriteString("\n")
		}
	}
	return styleBoard.Render(b.String())
}

// renderVariant draws a piece shape in its kind's color.
func renderVariant(k piece.Kind, v piece.Variant) string {
	w, h := v.Bounds()
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(string(k.Color())))
	var b strings.Builder
	for y := range h {
		for x := range w {
			if v.Contains(x, y) {
				b.WriteString(style.Render(cellFilled))
			} else {
				b.WriteString("  ")
			}
		}
		if y < h-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// =============================================================================
// Tables
// =============================================================================

// renderScores draws a leaderboard table.
func renderScores(entries []scores.Entry) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			e.Player,
			fmt.Sprintf("%d", e.Score),
			fmt.Sprintf("%d", e.Lines),
			fmt.Sprintf("%d", e.Pieces),
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Player", "Score", "Lines", "Pieces", "When").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 2 {
				return StyleNumber
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}
