// Package server exposes game sessions over a JSON HTTP API.
//
// The API is a calling layer around package game: it turns requests into
// SpawnPiece, AttemptCommit, and rotation calls and reports the outcomes.
// Sessions are held in memory; each one is guarded by its own mutex because
// a game.Session is not safe for concurrent use.
//
// # Routes
//
//	GET    /healthz
//	POST   /sessions                          create a session ({"seed": n} optional)
//	GET    /sessions/{id}                     session state
//	DELETE /sessions/{id}                     drop a session
//	POST   /sessions/{id}/restart             empty the board and score
//	POST   /sessions/{id}/spawn               spawn a piece
//	POST   /sessions/{id}/pieces/{pid}/rotate {"rotation": r} or {} to advance
//	POST   /sessions/{id}/pieces/{pid}/commit {"x": x, "y": y}
//	DELETE /sessions/{id}/pieces/{pid}        abandon a piece
//	POST   /sessions/{id}/scores              {"player": name} once the game is over
//	GET    /scores?limit=n                    leaderboard
//
// Errors are returned as {"code": "...", "message": "..."} using the codes of
// package errors.
package server
