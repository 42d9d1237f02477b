package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/tblock/pkg/errors"
	"github.com/matzehuels/tblock/pkg/game"
	"github.com/matzehuels/tblock/pkg/observability"
	"github.com/matzehuels/tblock/pkg/scores"
)

// DefaultMaxSessions bounds the number of live sessions when Options leaves
// it unset.
const DefaultMaxSessions = 256

// Options configures a Server.
type Options struct {
	// Game is the configuration every new session starts from.
	Game game.Config
	// Scores receives submitted results. Nil disables the leaderboard routes.
	Scores scores.Store
	// MaxSessions bounds the live sessions; the oldest is evicted when full.
	MaxSessions int
	Logger      *log.Logger
	HTTPHooks   observability.HTTPHooks
	GameHooks   observability.GameHooks
}

// Server serves the game API.
type Server struct {
	sessions *sessions
	scores   scores.Store
	logger   *log.Logger
	hooks    observability.HTTPHooks
	router   chi.Router
}

// New builds a Server and its routes.
func New(opts Options) (*Server, error) {
	if err := opts.Game.Validate(); err != nil {
		return nil, err
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = DefaultMaxSessions
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.HTTPHooks == nil {
		opts.HTTPHooks = observability.NoopHTTPHooks{}
	}
	gameOpts := []game.Option{game.WithLogger(opts.Logger)}
	if opts.GameHooks != nil {
		gameOpts = append(gameOpts, game.WithHooks(opts.GameHooks))
	}

	s := &Server{
		sessions: newSessions(opts.Game, opts.MaxSessions, gameOpts...),
		scores:   opts.Scores,
		logger:   opts.Logger,
		hooks:    opts.HTTPHooks,
	}
	s.router = s.routes()
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		if err == http.ErrServerClosed {
			return nil
		}
		return errors.Wrap(errors.ErrCodeInternal, err, "serve %s", addr)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Get("/scores", s.handleTopScores)
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleState)
			r.Delete("/", s.handleDelete)
			r.Post("/restart", s.handleRestart)
			r.Post("/spawn", s.handleSpawn)
			r.Post("/scores", s.handleSubmitScore)
			r.Route("/pieces/{pid}", func(r chi.Router) {
				r.Post("/rotate", s.handleRotate)
				r.Post("/commit", s.handleCommit)
				r.Delete("/", s.handleAbandon)
			})
		})
	})
	return r
}

// instrument reports every response to the HTTP hooks, keyed by route
// pattern rather than raw path.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.hooks.OnResponse(r.Context(), r.Method, route, status, time.Since(start))
	})
}

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: errors.UserMessage(err)})
}

func statusFor(err error) int {
	if errors.IsNotFound(err) {
		return http.StatusNotFound
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeGameInProgress, errors.ErrCodeGameOver:
		return http.StatusConflict
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidConfig,
		errors.ErrCodeInvalidPiece,
		errors.ErrCodeInvalidGrid, errors.ErrCodeInvalidBackend:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decode reads an optional JSON body into v. An empty body leaves v as is.
func decode(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}
