package game

import (
	"context"

	"github.com/matzehuels/tblock/pkg/grid"
	"github.com/matzehuels/tblock/pkg/placement"
)

// Move is a candidate placement for an active piece.
type Move struct {
	Piece    *Piece     `json:"-"`
	Rotation int        `json:"rotation"`
	Anchor   grid.Point `json:"anchor"`
	Cleared  int        `json:"cleared"`
}

// BestMove searches every rotation and anchor of p and returns the placement
// that clears the most lines. Ties go to the lowest y, then the lowest x,
// then the lowest rotation. It reports false when p fits nowhere.
func BestMove(s *Session, p *Piece) (Move, bool) {
	if p == nil {
		return Move{}, false
	}
	best := Move{Cleared: -1}
	scratch := grid.New(s.grid.Width(), s.grid.Height())

	for y := 0; y < s.grid.Height(); y++ {
		for x := 0; x < s.grid.Width(); x++ {
			anchor := grid.Point{X: x, Y: y}
			for r := 0; r < p.kind.RotationCount(); r++ {
				v, _ := p.kind.VariantAt(r)
				if !placement.CanPlace(v, anchor, s.grid) {
					continue
				}
				copyInto(scratch, s.grid)
				placement.Commit(v, anchor, scratch)
				if cleared := scratch.ClearFullLines(); cleared > best.Cleared {
					best = Move{Piece: p, Rotation: r, Anchor: anchor, Cleared: cleared}
				}
			}
		}
	}
	return best, best.Cleared >= 0
}

func copyInto(dst, src *grid.Grid) {
	for y := 0; y < src.Height(); y++ {
		for x := 0; x < src.Width(); x++ {
			dst.SetCell(x, y, !src.IsCellEmpty(x, y))
		}
	}
}

// Summary reports the result of an automated game.
type Summary struct {
	Score int   `json:"score"`
	Turns int   `json:"turns"`
	Over  bool  `json:"over"`
	Stats Stats `json:"stats"`
}

// Play drives s with BestMove until the game ends, ctx is cancelled, or
// maxTurns commits have been made (maxTurns <= 0 means no limit). Each turn
// fills the free active slots, then commits the best move among all active
// pieces.
func Play(ctx context.Context, s *Session, maxTurns int) (Summary, error) {
	turns := 0
	for !s.over && (maxTurns <= 0 || turns < maxTurns) {
		if err := ctx.Err(); err != nil {
			return s.summary(turns), err
		}

		for len(s.active) < s.cfg.MaxActive {
			if _, out := s.SpawnPiece(); out != Accepted {
				break
			}
		}
		if s.over {
			break
		}

		var (
			move  Move
			found bool
		)
		for _, p := range s.active {
			m, ok := BestMove(s, p)
			if ok && (!found || m.Cleared > move.Cleared) {
				move, found = m, true
			}
		}
		if !found {
			break
		}

		move.Piece.SetRotation(move.Rotation)
		s.AttemptCommit(move.Piece, move.Anchor)
		turns++
	}
	return s.summary(turns), nil
}

func (s *Session) summary(turns int) Summary {
	return Summary{Score: s.score, Turns: turns, Over: s.over, Stats: s.stats}
}
