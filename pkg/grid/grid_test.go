package grid

import (
	"strings"
	"testing"

	"github.com/matzehuels/tblock/pkg/errors"
)

func TestNewClampsDimensions(t *testing.T) {
	g := New(0, -3)
	if g.Width() != 1 || g.Height() != 1 {
		t.Errorf("New(0, -3) = %dx%d, want 1x1", g.Width(), g.Height())
	}
}

func TestOutOfBounds(t *testing.T) {
	g := New(Size, Size)
	coords := []Point{{-1, 0}, {0, -1}, {Size, 0}, {0, Size}, {Size, Size}, {-5, 20}}

	for _, p := range coords {
		if g.IsCellEmpty(p.X, p.Y) {
			t.Errorf("IsCellEmpty(%d,%d) = true, want false", p.X, p.Y)
		}
		g.SetCell(p.X, p.Y, true)
	}
	if n := g.Filled(); n != 0 {
		t.Errorf("out-of-bounds SetCell mutated grid: %d cells filled", n)
	}
}

func TestSetCellRoundTrip(t *testing.T) {
	g := New(Size, Size)
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			g.SetCell(x, y, true)
			if g.IsCellEmpty(x, y) {
				t.Fatalf("(%d,%d) empty after SetCell(true)", x, y)
			}
			g.SetCell(x, y, false)
			if !g.IsCellEmpty(x, y) {
				t.Fatalf("(%d,%d) filled after SetCell(false)", x, y)
			}
		}
	}
}

func rowPoints(y int) []Point {
	pts := make([]Point, Size)
	for x := range pts {
		pts[x] = Point{x, y}
	}
	return pts
}

func columnPoints(x int) []Point {
	pts := make([]Point, Size)
	for y := range pts {
		pts[y] = Point{x, y}
	}
	return pts
}

func TestClearFullLines(t *testing.T) {
	tests := []struct {
		name    string
		fill    func(g *Grid)
		want    int
		cleared []Point
		kept    []Point
	}{
		{
			name: "single row",
			fill: func(g *Grid) {
				for x := 0; x < Size; x++ {
					g.SetCell(x, 0, true)
				}
			},
			want:    1,
			cleared: rowPoints(0),
		},
		{
			name: "row and column sharing a cell",
			fill: func(g *Grid) {
				for i := 0; i < Size; i++ {
					g.SetCell(i, 0, true)
					g.SetCell(0, i, true)
				}
			},
			want:    2,
			cleared: append(rowPoints(0), columnPoints(0)...),
		},
		{
			name: "partial row untouched",
			fill: func(g *Grid) {
				for x := 0; x < Size-1; x++ {
					g.SetCell(x, 3, true)
				}
			},
			want: 0,
			kept: []Point{{0, 3}, {7, 3}},
		},
		{
			name: "two rows and stray cell",
			fill: func(g *Grid) {
				for x := 0; x < Size; x++ {
					g.SetCell(x, 2, true)
					g.SetCell(x, 7, true)
				}
				g.SetCell(4, 4, true)
			},
			want:    2,
			cleared: []Point{{0, 2}, {8, 7}},
			kept:    []Point{{4, 4}},
		},
		{
			name: "full board",
			fill: func(g *Grid) {
				for y := 0; y < Size; y++ {
					for x := 0; x < Size; x++ {
						g.SetCell(x, y, true)
					}
				}
			},
			want: 2 * Size,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(Size, Size)
			tt.fill(g)

			if got := g.ClearFullLines(); got != tt.want {
				t.Errorf("ClearFullLines() = %d, want %d", got, tt.want)
			}
			for _, p := range tt.cleared {
				if !g.IsCellEmpty(p.X, p.Y) {
					t.Errorf("(%d,%d) still filled", p.X, p.Y)
				}
			}
			for _, p := range tt.kept {
				if g.IsCellEmpty(p.X, p.Y) {
					t.Errorf("(%d,%d) was cleared", p.X, p.Y)
				}
			}
			if got := g.ClearFullLines(); got != 0 {
				t.Errorf("second ClearFullLines() = %d, want 0", got)
			}
		})
	}
}

func TestFullBoardClearsEverything(t *testing.T) {
	g := New(Size, Size)
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			g.SetCell(x, y, true)
		}
	}
	g.ClearFullLines()
	if n := g.Filled(); n != 0 {
		t.Errorf("Filled() = %d after clearing full board, want 0", n)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := New(Size, Size)
	g.SetCell(1, 1, true)
	c := g.Clone()
	c.SetCell(2, 2, true)
	g.SetCell(1, 1, false)

	if c.IsCellEmpty(1, 1) {
		t.Error("clone lost (1,1)")
	}
	if !g.IsCellEmpty(2, 2) {
		t.Error("write to clone leaked into original")
	}
}

func TestResetAndRows(t *testing.T) {
	g := New(3, 2)
	g.SetCell(2, 1, true)

	rows := g.Rows()
	if len(rows) != 2 || len(rows[0]) != 3 {
		t.Fatalf("Rows() shape = %dx%d, want 2x3", len(rows), len(rows[0]))
	}
	if !rows[1][2] {
		t.Error("Rows()[1][2] = false, want true")
	}
	rows[0][0] = true
	if !g.IsCellEmpty(0, 0) {
		t.Error("mutating Rows() result changed the grid")
	}

	g.Reset()
	if g.Filled() != 0 {
		t.Error("Reset left filled cells")
	}
}

func TestTextRoundTrip(t *testing.T) {
	src := `
		#..
		.#.
		..#
	`
	g, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if g.Width() != 3 || g.Height() != 3 {
		t.Fatalf("size = %dx%d, want 3x3", g.Width(), g.Height())
	}
	if g.Filled() != 3 {
		t.Errorf("Filled() = %d, want 3", g.Filled())
	}
	want := "#..\n.#.\n..#\n"
	if got := g.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", "  \n \n"},
		{"ragged", "##\n#\n"},
		{"bad rune", "#x#\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.in)
			if !errors.Is(err, errors.ErrCodeInvalidGrid) {
				t.Errorf("Parse(%q) error = %v, want INVALID_GRID", tt.in, err)
			}
		})
	}
}

func TestStringSize(t *testing.T) {
	s := New(Size, Size).String()
	if lines := strings.Count(s, "\n"); lines != Size {
		t.Errorf("String() has %d lines, want %d", lines, Size)
	}
}
