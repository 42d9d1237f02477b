// Package grid holds the occupancy matrix of the board.
//
// A Grid is a fixed-size matrix of filled/empty cells addressed by (x, y)
// with x in [0, Width) and y in [0, Height). Coordinates outside that range
// are never stored: queries answer "not empty" and writes are ignored, so a
// placement check that strays off the board fails closed instead of
// panicking.
//
// # Line Clearing
//
// [Grid.ClearFullLines] evaluates row fullness and column fullness against
// the state before any clearing, then empties every full row and column. A
// row and a column that share a cell are both counted:
//
//	g := grid.New(grid.Size, grid.Size)
//	for i := 0; i < grid.Size; i++ {
//	    g.SetCell(i, 0, true) // row 0
//	    g.SetCell(0, i, true) // column 0
//	}
//	g.ClearFullLines() // 2
//
// # Text Form
//
// [Grid.String] renders the board as lines of '#' (filled) and '.' (empty);
// [Parse] reads the same form back. The CLI's check command and the tests
// use it to describe boards compactly.
package grid
