package grid

// Size is the width and height of the standard board.
const Size = 9

// Point is a cell coordinate on the board. It doubles as the anchor of a
// piece placement.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p shifted by (dx, dy).
func (p Point) Add(dx, dy int) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Grid is a Width×Height occupancy matrix. The zero value is not usable;
// create grids with New.
type Grid struct {
	width, height int
	cells         []bool // row-major: cells[y*width+x]
}

// New creates an empty grid. Non-positive dimensions are clamped to 1.
func New(width, height int) *Grid {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]bool, width*height),
	}
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (x, y) addresses a cell of the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// IsCellEmpty reports whether (x, y) is on the board and unoccupied.
// Out-of-bounds coordinates are never empty.
func (g *Grid) IsCellEmpty(x, y int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	return !g.cells[y*g.width+x]
}

// SetCell marks (x, y) filled or empty. Out-of-bounds writes are ignored.
func (g *Grid) SetCell(x, y int, filled bool) {
	if !g.InBounds(x, y) {
		return
	}
	g.cells[y*g.width+x] = filled
}

// ClearFullLines empties every full row and every full column and returns
// how many lines were cleared. Fullness of both axes is decided before any
// cell is cleared.
func (g *Grid) ClearFullLines() int {
	var rows, cols []int

	for y := 0; y < g.height; y++ {
		if g.rowFull(y) {
			rows = append(rows, y)
		}
	}
	for x := 0; x < g.width; x++ {
		if g.colFull(x) {
			cols = append(cols, x)
		}
	}

	for _, y := range rows {
		for x := 0; x < g.width; x++ {
			g.cells[y*g.width+x] = false
		}
	}
	for _, x := range cols {
		for y := 0; y < g.height; y++ {
			g.cells[y*g.width+x] = false
		}
	}

	return len(rows) + len(cols)
}

func (g *Grid) rowFull(y int) bool {
	for x := 0; x < g.width; x++ {
		if !g.cells[y*g.width+x] {
			return false
		}
	}
	return true
}

func (g *Grid) colFull(x int) bool {
	for y := 0; y < g.height; y++ {
		if !g.cells[y*g.width+x] {
			return false
		}
	}
	return true
}

// Filled returns the number of occupied cells.
func (g *Grid) Filled() int {
	n := 0
	for _, c := range g.cells {
		if c {
			n++
		}
	}
	return n
}

// Reset empties every cell.
func (g *Grid) Reset() {
	clear(g.cells)
}

// Clone returns an independent copy of g.
func (g *Grid) Clone() *Grid {
	c := &Grid{width: g.width, height: g.height, cells: make([]bool, len(g.cells))}
	copy(c.cells, g.cells)
	return c
}

// Rows returns a copy of the occupancy matrix indexed as rows[y][x].
func (g *Grid) Rows() [][]bool {
	rows := make([][]bool, g.height)
	for y := range rows {
		rows[y] = make([]bool, g.width)
		copy(rows[y], g.cells[y*g.width:(y+1)*g.width])
	}
	return rows
}
