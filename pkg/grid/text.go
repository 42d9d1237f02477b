package grid

import (
	"strings"

	"github.com/matzehuels/tblock/pkg/errors"
)

const (
	runeFilled = '#'
	runeEmpty  = '.'
)

// String renders the grid one row per line using '#' and '.'.
func (g *Grid) String() string {
	var b strings.Builder
	b.Grow((g.width + 1) * g.height)
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.cells[y*g.width+x] {
				b.WriteByte(runeFilled)
			} else {
				b.WriteByte(runeEmpty)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Parse reads a grid from its text form. Blank lines and surrounding
// whitespace are ignored; every remaining line must have the same width and
// contain only '#' or '.'.
func Parse(s string) (*Grid, error) {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidGrid, "grid text is empty")
	}

	width := len(lines[0])
	g := New(width, len(lines))
	for y, line := range lines {
		if len(line) != width {
			return nil, errors.New(errors.ErrCodeInvalidGrid, "row %d has width %d, want %d", y, len(line), width)
		}
		for x := 0; x < width; x++ {
			switch line[x] {
			case runeFilled:
				g.SetCell(x, y, true)
			case runeEmpty:
			default:
				return nil, errors.New(errors.ErrCodeInvalidGrid, "row %d: unexpected %q at column %d", y, line[x], x)
			}
		}
	}
	return g, nil
}
