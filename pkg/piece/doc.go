// Package piece defines the catalog of piece kinds and their rotations.
//
// The catalog is static data: a closed [Kind] enumeration and a table of
// rotation variants per kind. A [Variant] is a set of (dx, dy) offsets
// relative to a placement anchor. Offsets are non-negative but a variant's
// minimum x or y need not be zero; the bounding box is derived on demand by
// [Variant.Bounds].
//
// Square has a single variant, so rotating it is a no-op. L and T each have
// four variants in 90° steps. Every variant of a kind has the same number of
// cells.
//
// Because the catalog is data rather than behaviour, callers can enumerate
// it exhaustively:
//
//	for _, k := range piece.Kinds() {
//	    for r := 0; r < k.RotationCount(); r++ {
//	        v, _ := k.VariantAt(r)
//	        // ...
//	    }
//	}
package piece
