// Package game runs a block-placement session.
//
// A [Session] owns a grid, a score, and up to Config.MaxActive active pieces
// that have been spawned but not yet placed. The caller drives it with three
// operations:
//
//   - [Session.SpawnPiece] hands out a random piece, unless the active limit
//     is reached or nothing in the catalog fits anywhere on the board.
//   - [Session.AttemptCommit] places an active piece at an anchor if the
//     placement is legal, clears full lines, and adds PointsPerLine for each.
//   - [Session.IsBoardFeasible] is the exhaustive search over every kind,
//     rotation, and anchor that decides whether play can continue.
//
// Every call returns an [Outcome]: Accepted, Rejected, SpawnRefused, or
// GameOver. These are states for the caller to present, not errors.
//
// # Game Over
//
// After each commit (and after a spawn or abandon that changes the active
// set) the session ends when:
//
//   - no pieces are active and no kind fits anywhere, or
//   - pieces are active and none of them fits anywhere in any rotation, and
//     the player cannot spawn a replacement.
//
// # Determinism
//
// Piece selection draws from an injected math/rand/v2 generator. A non-zero
// Config.Seed, or [WithRand], makes spawn sequences reproducible.
//
// # Concurrency
//
// A Session is not safe for concurrent use. All operations are synchronous
// and bounded; callers that share a session across goroutines (the HTTP API)
// must serialise access.
package game
