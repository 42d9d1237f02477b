package game

import (
	"github.com/matzehuels/tblock/pkg/piece"
)

// PieceState is the serialisable view of an active piece.
type PieceState struct {
	ID        string        `json:"id"`
	Kind      piece.Kind    `json:"kind"`
	Color     piece.Color   `json:"color"`
	Rotation  int           `json:"rotation"`
	Rotations int           `json:"rotations"`
	Cells     piece.Variant `json:"cells"`
	Placeable bool          `json:"placeable"`
}

// State is the serialisable view of a session.
type State struct {
	Width  int          `json:"width"`
	Height int          `json:"height"`
	Rows   [][]bool     `json:"rows"`
	Score  int          `json:"score"`
	Over   bool         `json:"over"`
	Active []PieceState `json:"active"`
	Stats  Stats        `json:"stats"`
}

// State returns a snapshot of s.
func (s *Session) State() State {
	st := State{
		Width:  s.cfg.Width,
		Height: s.cfg.Height,
		Rows:   s.grid.Rows(),
		Score:  s.score,
		Over:   s.over,
		Active: make([]PieceState, 0, len(s.active)),
		Stats:  s.stats,
	}
	for _, p := range s.active {
		st.Active = append(st.Active, s.PieceState(p))
	}
	return st
}

// PieceState returns the serialisable view of p.
func (s *Session) PieceState(p *Piece) PieceState {
	return PieceState{
		ID:        p.id.String(),
		Kind:      p.kind,
		Color:     p.kind.Color(),
		Rotation:  p.rotation,
		Rotations: p.kind.RotationCount(),
		Cells:     p.Variant(),
		Placeable: s.CanPlaceAnywhere(p),
	}
}
