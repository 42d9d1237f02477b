package piece

import (
	"strconv"
	"strings"

	"github.com/matzehuels/tblock/pkg/errors"
)

// Kind identifies a piece shape.
type Kind int

// Piece kinds, in catalog order.
const (
	L Kind = iota
	T
	Square

	numKinds
)

var kindNames = [numKinds]string{
	L:      "L",
	T:      "T",
	Square: "Square",
}

// Color is a display color in "#RRGGBB" form.
type Color string

var kindColors = [numKinds]Color{
	L:      "#FFA500", // orange
	T:      "#800080", // purple
	Square: "#4682B4", // steel blue
}

// Offset is a cell position relative to a placement anchor.
type Offset struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

// Variant is one rotation state of a kind. Variants returned by the catalog
// are copies; mutating them does not affect the catalog.
type Variant []Offset

var variants = [numKinds][]Variant{
	L: {
		{{0, 0}, {0, 1}, {0, 2}, {1, 2}},
		{{0, 0}, {1, 0}, {2, 0}, {0, 1}},
		{{0, 0}, {1, 0}, {1, 1}, {1, 2}},
		{{2, 0}, {0, 1}, {1, 1}, {2, 1}},
	},
	T: {
		{{1, 0}, {0, 1}, {1, 1}, {2, 1}},
		{{0, 0}, {0, 1}, {1, 1}, {0, 2}},
		{{0, 0}, {1, 0}, {2, 0}, {1, 1}},
		{{1, 0}, {0, 1}, {1, 1}, {1, 2}},
	},
	Square: {
		{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
	},
}

// Kinds returns every kind in catalog order.
func Kinds() []Kind {
	ks := make([]Kind, numKinds)
	for i := range ks {
		ks[i] = Kind(i)
	}
	return ks
}

// Valid reports whether k is a member of the catalog.
func (k Kind) Valid() bool {
	return k >= 0 && k < numKinds
}

// String returns the kind's name, or "Kind(n)" for values outside the catalog.
func (k Kind) String() string {
	if !k.Valid() {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Color returns the display color of k. Unknown kinds are gray.
func (k Kind) Color() Color {
	if !k.Valid() {
		return "#808080"
	}
	return kindColors[k]
}

// RotationCount returns the number of rotation variants of k; 0 for kinds
// outside the catalog.
func (k Kind) RotationCount() int {
	if !k.Valid() {
		return 0
	}
	return len(variants[k])
}

// VariantAt returns the offsets of rotation r. It reports false when k or r
// is out of range.
func (k Kind) VariantAt(r int) (Variant, bool) {
	if !k.Valid() || r < 0 || r >= len(variants[k]) {
		return nil, false
	}
	src := variants[k][r]
	v := make(Variant, len(src))
	copy(v, src)
	return v, true
}

// NextRotation returns the rotation that follows current for kind k.
func NextRotation(k Kind, current int) int {
	n := k.RotationCount()
	if n == 0 {
		return 0
	}
	next := (current + 1) % n
	if next < 0 {
		next += n
	}
	return next
}

// ParseKind resolves a kind by name, ignoring case. "O" is accepted as an
// alias for Square.
func ParseKind(s string) (Kind, error) {
	name := strings.TrimSpace(s)
	for k := Kind(0); k < numKinds; k++ {
		if strings.EqualFold(name, kindNames[k]) {
			return k, nil
		}
	}
	if strings.EqualFold(name, "O") {
		return Square, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidPiece, "unknown piece kind: %q", s)
}

// MarshalText encodes k by name.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidPiece, "cannot encode %s", k)
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Bounds returns the width and height of the smallest box anchored at the
// origin that contains every offset of v.
func (v Variant) Bounds() (w, h int) {
	for _, o := range v {
		if o.DX+1 > w {
			w = o.DX + 1
		}
		if o.DY+1 > h {
			h = o.DY + 1
		}
	}
	return w, h
}

// Contains reports whether v includes the offset (dx, dy).
func (v Variant) Contains(dx, dy int) bool {
	for _, o := range v {
		if o.DX == dx && o.DY == dy {
			return true
		}
	}
	return false
}
