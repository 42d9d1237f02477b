package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes game, store, and HTTP events to a charm logger.
// Routine events log at debug level; game over and failures log at info and
// warn.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks writing to l, or to log.Default() when l is nil.
func NewLogHooks(l *log.Logger) *LogHooks {
	if l == nil {
		l = log.Default()
	}
	return &LogHooks{logger: l}
}

func (h *LogHooks) OnSpawn(kind string, active int) {
	h.logger.Debug("spawn", "kind", kind, "active", active)
}

func (h *LogHooks) OnSpawnRefused(reason string) {
	h.logger.Debug("spawn refused", "reason", reason)
}

func (h *LogHooks) OnCommit(kind string, x, y, cleared, points, score int) {
	if cleared > 0 {
		h.logger.Info("lines cleared", "kind", kind, "lines", cleared, "points", points, "score", score)
		return
	}
	h.logger.Debug("commit", "kind", kind, "x", x, "y", y, "score", score)
}

func (h *LogHooks) OnReject(kind string, x, y int) {
	h.logger.Debug("reject", "kind", kind, "x", x, "y", y)
}

func (h *LogHooks) OnGameOver(score, pieces, lines int) {
	h.logger.Info("game over", "score", score, "pieces", pieces, "lines", lines)
}

func (h *LogHooks) OnScoreSaved(_ context.Context, backend string, score int) {
	h.logger.Debug("score saved", "backend", backend, "score", score)
}

func (h *LogHooks) OnStoreError(_ context.Context, backend, op string, err error) {
	h.logger.Warn("leaderboard", "backend", backend, "op", op, "err", err)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Info("http", "method", method, "route", route, "status", status, "took", d.Round(time.Microsecond))
}

var (
	_ GameHooks  = (*LogHooks)(nil)
	_ StoreHooks = (*LogHooks)(nil)
	_ HTTPHooks  = (*LogHooks)(nil)
	_ GameHooks  = (*Recorder)(nil)
)
