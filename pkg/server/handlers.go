package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/tblock/pkg/buildinfo"
	"github.com/matzehuels/tblock/pkg/errors"
	"github.com/matzehuels/tblock/pkg/game"
	"github.com/matzehuels/tblock/pkg/grid"
	"github.com/matzehuels/tblock/pkg/scores"
)

// SessionResponse describes a session.
type SessionResponse struct {
	ID      string     `json:"id"`
	Seed    uint64     `json:"seed"`
	Created time.Time  `json:"created"`
	State   game.State `json:"state"`
}

// SpawnResponse is returned by the spawn route. Piece is nil when nothing
// was spawned.
type SpawnResponse struct {
	Outcome game.Outcome     `json:"outcome"`
	Piece   *game.PieceState `json:"piece,omitempty"`
	State   game.State       `json:"state"`
}

// CommitResponse is returned by the commit route.
type CommitResponse struct {
	Result game.Result `json:"result"`
	State  game.State  `json:"state"`
}

type createRequest struct {
	Seed uint64 `json:"seed"`
}

type rotateRequest struct {
	Rotation *int `json:"rotation"`
}

type commitRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type scoreRequest struct {
	Player string `json:"player"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  buildinfo.Version,
		"sessions": s.sessions.len(),
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	e, err := s.sessions.create(req.Seed)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Debug("session created", "id", e.id, "seed", e.seed)
	writeJSON(w, http.StatusCreated, s.describe(e))
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(e *entry) {
		writeJSON(w, http.StatusOK, s.describe(e))
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.sessions.remove(id) {
		s.writeError(w, errors.New(errors.ErrCodeSessionNotFound, "session %s not found", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(e *entry) {
		e.session.Restart()
		e.submitted = false
		writeJSON(w, http.StatusOK, s.describe(e))
	})
}

func (s *Server) handleSpawn(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(e *entry) {
		p, out := e.session.SpawnPiece()
		resp := SpawnResponse{Outcome: out}
		if p != nil {
			ps := e.session.PieceState(p)
			resp.Piece = &ps
		}
		resp.State = e.session.State()
		writeJSON(w, http.StatusOK, resp)
	})
}

func (s *Server) handleRotate(w http.ResponseWriter, r *http.Request) {
	var req rotateRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.withPiece(w, r, func(e *entry, p *game.Piece) {
		if req.Rotation == nil {
			p.Rotate()
		} else if !p.SetRotation(*req.Rotation) {
			s.writeError(w, errors.New(errors.ErrCodeInvalidPiece,
				"rotation %d out of range for %s", *req.Rotation, p.Kind()))
			return
		}
		writeJSON(w, http.StatusOK, e.session.PieceState(p))
	})
}

func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	var req commitRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.withPiece(w, r, func(e *entry, p *game.Piece) {
		res := e.session.AttemptCommit(p, grid.Point{X: req.X, Y: req.Y})
		writeJSON(w, http.StatusOK, CommitResponse{Result: res, State: e.session.State()})
	})
}

func (s *Server) handleAbandon(w http.ResponseWriter, r *http.Request) {
	s.withPiece(w, r, func(e *entry, p *game.Piece) {
		if !e.session.Abandon(p) {
			s.writeError(w, errors.New(errors.ErrCodeGameOver, "session %s is over", e.id))
			return
		}
		writeJSON(w, http.StatusOK, s.describe(e))
	})
}

func (s *Server) handleSubmitScore(w http.ResponseWriter, r *http.Request) {
	if s.scores == nil {
		s.writeError(w, errors.New(errors.ErrCodeNotFound, "leaderboard disabled"))
		return
	}
	var req scoreRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := errors.ValidatePlayerName(req.Player); err != nil {
		s.writeError(w, err)
		return
	}
	s.withSession(w, r, func(e *entry) {
		if !e.session.Over() {
			s.writeError(w, errors.New(errors.ErrCodeGameInProgress, "session %s is still in progress", e.id))
			return
		}
		if e.submitted {
			s.writeError(w, errors.New(errors.ErrCodeGameInProgress, "score for session %s already submitted", e.id))
			return
		}
		st := e.session.Stats()
		rec := scores.NewEntry(req.Player, e.session.Score(), st.Lines, st.Placed)
		rec.Seed = e.seed
		if err := s.scores.Add(r.Context(), rec); err != nil {
			s.writeError(w, err)
			return
		}
		e.submitted = true
		writeJSON(w, http.StatusCreated, rec)
	})
}

func (s *Server) handleTopScores(w http.ResponseWriter, r *http.Request) {
	if s.scores == nil {
		s.writeError(w, errors.New(errors.ErrCodeNotFound, "leaderboard disabled"))
		return
	}
	n := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "limit must be a positive integer"))
			return
		}
		n = parsed
	}
	top, err := s.scores.Top(r.Context(), n)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if top == nil {
		top = []scores.Entry{}
	}
	writeJSON(w, http.StatusOK, top)
}

// withSession runs fn with the session named in the URL locked.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(*entry)) {
	e, err := s.sessions.get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e)
}

// withPiece runs fn with the session locked and the active piece named in
// the URL resolved.
func (s *Server) withPiece(w http.ResponseWriter, r *http.Request, fn func(*entry, *game.Piece)) {
	pid := chi.URLParam(r, "pid")
	s.withSession(w, r, func(e *entry) {
		id, err := uuid.Parse(pid)
		if err != nil {
			s.writeError(w, errors.New(errors.ErrCodePieceNotFound, "piece %s not found", pid))
			return
		}
		p, ok := e.session.Piece(id)
		if !ok {
			s.writeError(w, errors.New(errors.ErrCodePieceNotFound, "piece %s not found", pid))
			return
		}
		fn(e, p)
	})
}

// describe must be called with e.mu held.
func (s *Server) describe(e *entry) SessionResponse {
	return SessionResponse{ID: e.id, Seed: e.seed, Created: e.created, State: e.session.State()}
}
