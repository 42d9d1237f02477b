// Package observability provides hooks for logging and metrics.
//
// Hooks let the calling layers observe the game engine and the leaderboard
// without the engine depending on any logging or metrics backend. Every hook
// interface has a no-op implementation, and hooks are injected explicitly
// (for example with game.WithHooks); nothing is looked up globally.
//
// Hooks fire only after the engine has reached a definite outcome, never in
// the middle of a grid mutation.
//
// # Usage
//
//	logger := log.New(os.Stderr)
//	sess, err := game.New(cfg, game.WithHooks(observability.NewLogHooks(logger)))
//
// Several hook sets can be combined:
//
//	rec := &observability.Recorder{}
//	hooks := observability.Multi(observability.NewLogHooks(logger), rec)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Game Hooks
// =============================================================================

// GameHooks receives events from a game session.
type GameHooks interface {
	// OnSpawn records a new active piece.
	OnSpawn(kind string, active int)

	// OnSpawnRefused records a refused spawn; reason is "limit" or "infeasible".
	OnSpawnRefused(reason string)

	// OnCommit records a placement and any lines it cleared.
	OnCommit(kind string, x, y, cleared, points, score int)

	// OnReject records an illegal placement attempt.
	OnReject(kind string, x, y int)

	// OnGameOver records the end of a session.
	OnGameOver(score, pieces, lines int)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from leaderboard stores.
type StoreHooks interface {
	// OnScoreSaved records a stored leaderboard entry.
	OnScoreSaved(ctx context.Context, backend string, score int)

	// OnStoreError records a failed store operation.
	OnStoreError(ctx context.Context, backend, op string, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	// OnResponse records a served request.
	OnResponse(ctx context.Context, method, route string, status int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopGameHooks is a no-op implementation of GameHooks.
type NoopGameHooks struct{}

func (NoopGameHooks) OnSpawn(string, int)                       {}
func (NoopGameHooks) OnSpawnRefused(string)                     {}
func (NoopGameHooks) OnCommit(string, int, int, int, int, int) {}
func (NoopGameHooks) OnReject(string, int, int)                 {}
func (NoopGameHooks) OnGameOver(int, int, int)                  {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnScoreSaved(context.Context, string, int)            {}
func (NoopStoreHooks) OnStoreError(context.Context, string, string, error) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Fan-out
// =============================================================================

type multiGameHooks []GameHooks

// Multi returns GameHooks that forwards every event to each of hs in order.
// Nil entries are skipped.
func Multi(hs ...GameHooks) GameHooks {
	var m multiGameHooks
	for _, h := range hs {
		if h != nil {
			m = append(m, h)
		}
	}
	if len(m) == 0 {
		return NoopGameHooks{}
	}
	if len(m) == 1 {
		return m[0]
	}
	return m
}

func (m multiGameHooks) OnSpawn(kind string, active int) {
	for _, h := range m {
		h.OnSpawn(kind, active)
	}
}

func (m multiGameHooks) OnSpawnRefused(reason string) {
	for _, h := range m {
		h.OnSpawnRefused(reason)
	}
}

func (m multiGameHooks) OnCommit(kind string, x, y, cleared, points, score int) {
	for _, h := range m {
		h.OnCommit(kind, x, y, cleared, points, score)
	}
}

func (m multiGameHooks) OnReject(kind string, x, y int) {
	for _, h := range m {
		h.OnReject(kind, x, y)
	}
}

func (m multiGameHooks) OnGameOver(score, pieces, lines int) {
	for _, h := range m {
		h.OnGameOver(score, pieces, lines)
	}
}

// =============================================================================
// Recorder
// =============================================================================

// Counts is a snapshot of the events seen by a Recorder.
type Counts struct {
	Spawns    int
	Refusals  int
	Commits   int
	Rejects   int
	Lines     int
	GameOvers int
	ByKind    map[string]int
}

// Recorder counts game events. It is safe for concurrent use, so one
// Recorder can aggregate several sessions (the simulate command does this).
type Recorder struct {
	mu sync.Mutex
	c  Counts
}

func (r *Recorder) OnSpawn(kind string, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.c.Spawns++
	if r.c.ByKind == nil {
		r.c.ByKind = make(map[string]int)
	}
	r.c.ByKind[kind]++
}

func (r *Recorder) OnSpawnRefused(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.c.Refusals++
}

func (r *Recorder) OnCommit(_ string, _, _, cleared, _, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.c.Commits++
	r.c.Lines += cleared
}

func (r *Recorder) OnReject(string, int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.c.Rejects++
}

func (r *Recorder) OnGameOver(int, int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.c.GameOvers++
}

// Snapshot returns a copy of the counters.
func (r *Recorder) Snapshot() Counts {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.c
	c.ByKind = make(map[string]int, len(r.c.ByKind))
	for k, v := range r.c.ByKind {
		c.ByKind[k] = v
	}
	return c
}
