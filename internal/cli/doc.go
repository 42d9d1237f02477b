// Package cli implements the tblock command-line interface.
//
// Commands are built with cobra and share a [CLI] value that carries the
// charm logger. Settings come from internal/config; flags given on the
// command line override them.
//
// # Commands
//
//   - play: interactive terminal game (bubbletea)
//   - simulate: run automated games with the greedy solver
//   - check: report whether a saved board still has a legal placement
//   - serve: run the JSON HTTP API
//   - scores: list or clear the leaderboard
//   - config: show the effective settings or the config file path
//   - completion: shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// also attached to each command's context.
package cli
