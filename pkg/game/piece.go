package game

import (
	"github.com/google/uuid"

	"github.com/matzehuels/tblock/pkg/piece"
)

// Piece is an active piece handed out by SpawnPiece. It has a kind and a
// current rotation but no position: the anchor is supplied when the piece is
// committed.
type Piece struct {
	id       uuid.UUID
	kind     piece.Kind
	rotation int
}

func newPiece(k piece.Kind) *Piece {
	return &Piece{id: uuid.New(), kind: k}
}

// ID returns the piece's unique identifier.
func (p *Piece) ID() uuid.UUID { return p.id }

// Kind returns the piece's shape.
func (p *Piece) Kind() piece.Kind { return p.kind }

// Rotation returns the current rotation index.
func (p *Piece) Rotation() int { return p.rotation }

// Variant returns the offsets of the current rotation.
func (p *Piece) Variant() piece.Variant {
	v, _ := p.kind.VariantAt(p.rotation)
	return v
}

// SetRotation selects rotation r. Out-of-range values are ignored and
// reported as false.
func (p *Piece) SetRotation(r int) bool {
	if r < 0 || r >= p.kind.RotationCount() {
		return false
	}
	p.rotation = r
	return true
}

// Rotate advances to the next rotation, wrapping around.
func (p *Piece) Rotate() {
	p.rotation = piece.NextRotation(p.kind, p.rotation)
}

func (p *Piece) String() string {
	return p.kind.String() + "#" + p.id.String()[:8]
}
