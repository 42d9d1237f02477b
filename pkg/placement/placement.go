// Package placement decides whether a piece variant fits on a grid and
// writes it.
//
// The functions work on any [piece.Variant]; they know nothing about piece
// kinds. [CanPlace] is the only legality check in the system. [Commit] trusts
// its caller: it must only be called after CanPlace returned true for the
// same variant, anchor, and grid state.
package placement

import (
	"github.com/matzehuels/tblock/pkg/grid"
	"github.com/matzehuels/tblock/pkg/piece"
)

// CanPlace reports whether every cell of v, shifted by anchor, lies on g and
// is empty.
func CanPlace(v piece.Variant, anchor grid.Point, g *grid.Grid) bool {
	if len(v) == 0 {
		return false
	}
	for _, o := range v {
		// IsCellEmpty is false off the board, so bounds fail closed here.
		if !g.IsCellEmpty(anchor.X+o.DX, anchor.Y+o.DY) {
			return false
		}
	}
	return true
}

// Commit fills every cell of v shifted by anchor. It does not re-check
// legality.
func Commit(v piece.Variant, anchor grid.Point, g *grid.Grid) {
	for _, o := range v {
		g.SetCell(anchor.X+o.DX, anchor.Y+o.DY, true)
	}
}

// Cells returns the absolute cells v would occupy at anchor.
func Cells(v piece.Variant, anchor grid.Point) []grid.Point {
	cells := make([]grid.Point, len(v))
	for i, o := range v {
		cells[i] = anchor.Add(o.DX, o.DY)
	}
	return cells
}

// Anchors returns every anchor at which v fits on g, in row-major order.
func Anchors(v piece.Variant, g *grid.Grid) []grid.Point {
	var out []grid.Point
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			p := grid.Point{X: x, Y: y}
			if CanPlace(v, p, g) {
				out = append(out, p)
			}
		}
	}
	return out
}

// Any reports whether v fits anywhere on g.
func Any(v piece.Variant, g *grid.Grid) bool {
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if CanPlace(v, grid.Point{X: x, Y: y}, g) {
				return true
			}
		}
	}
	return false
}

// AnyRotation reports whether some rotation of k fits anywhere on g.
func AnyRotation(k piece.Kind, g *grid.Grid) bool {
	for r := 0; r < k.RotationCount(); r++ {
		v, _ := k.VariantAt(r)
		if Any(v, g) {
			return true
		}
	}
	return false
}
