package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/tblock/pkg/errors"
	"github.com/matzehuels/tblock/pkg/game"
	"github.com/matzehuels/tblock/pkg/grid"
	"github.com/matzehuels/tblock/pkg/observability"
	"github.com/matzehuels/tblock/pkg/scores"
)

type recordedResponse struct {
	method, route string
	status        int
}

type httpRecorder struct {
	observability.NoopHTTPHooks
	seen []recordedResponse
}

func (h *httpRecorder) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	h.seen = append(h.seen, recordedResponse{method, route, status})
}

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	if opts.Game == (game.Config{}) {
		opts.Game = game.DefaultConfig()
	}
	srv, err := New(opts)
	require.NoError(t, err)
	return srv
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func createSession(t *testing.T, srv *Server, seed uint64) SessionResponse {
	t.Helper()
	rec := do(t, srv, http.MethodPost, "/sessions", map[string]any{"seed": seed})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[SessionResponse](t, rec)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, Options{})
	rec := do(t, srv, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestSessionLifecycle(t *testing.T) {
	srv := newTestServer(t, Options{})
	created := createSession(t, srv, 7)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, uint64(7), created.Seed)
	assert.Equal(t, grid.Size, created.State.Width)
	assert.Empty(t, created.State.Active)

	rec := do(t, srv, http.MethodPost, "/sessions/"+created.ID+"/spawn", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	spawned := decodeBody[SpawnResponse](t, rec)
	require.Equal(t, game.Accepted, spawned.Outcome)
	require.NotNil(t, spawned.Piece)
	assert.True(t, spawned.Piece.Placeable)
	assert.Len(t, spawned.State.Active, 1)

	base := "/sessions/" + created.ID + "/pieces/" + spawned.Piece.ID
	rec = do(t, srv, http.MethodPost, base+"/rotate", map[string]any{"rotation": 0})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, srv, http.MethodPost, base+"/commit", map[string]int{"x": 0, "y": 0})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	committed := decodeBody[CommitResponse](t, rec)
	assert.Equal(t, game.Accepted, committed.Result.Outcome)
	assert.Empty(t, committed.State.Active)
	assert.True(t, committed.State.Rows[0][0] || committed.State.Rows[0][1] || committed.State.Rows[0][2])

	// The piece is gone once committed.
	rec = do(t, srv, http.MethodPost, base+"/commit", map[string]int{"x": 4, "y": 4})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodPost, "/sessions/"+created.ID+"/restart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	restarted := decodeBody[SessionResponse](t, rec)
	assert.Zero(t, restarted.State.Score)
	assert.Zero(t, restarted.State.Stats.Placed)

	rec = do(t, srv, http.MethodDelete, "/sessions/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, srv, http.MethodGet, "/sessions/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRejectedCommitKeepsPiece(t *testing.T) {
	srv := newTestServer(t, Options{})
	created := createSession(t, srv, 3)
	spawned := decodeBody[SpawnResponse](t, do(t, srv, http.MethodPost, "/sessions/"+created.ID+"/spawn", nil))
	require.NotNil(t, spawned.Piece)

	path := "/sessions/" + created.ID + "/pieces/" + spawned.Piece.ID + "/commit"
	rec := do(t, srv, http.MethodPost, path, map[string]int{"x": 8, "y": 8})
	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeBody[CommitResponse](t, rec)
	assert.Equal(t, game.Rejected, res.Result.Outcome)
	assert.Len(t, res.State.Active, 1)
}

func TestRotate(t *testing.T) {
	srv := newTestServer(t, Options{})
	created := createSession(t, srv, 11)
	spawned := decodeBody[SpawnResponse](t, do(t, srv, http.MethodPost, "/sessions/"+created.ID+"/spawn", nil))
	require.NotNil(t, spawned.Piece)
	path := "/sessions/" + created.ID + "/pieces/" + spawned.Piece.ID + "/rotate"

	rec := do(t, srv, http.MethodPost, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ps := decodeBody[game.PieceState](t, rec)
	assert.Equal(t, 1%ps.Rotations, ps.Rotation)

	rec = do(t, srv, http.MethodPost, path, map[string]any{"rotation": 9})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errors.ErrCodeInvalidPiece, decodeBody[errorResponse](t, rec).Code)
}

func TestAbandon(t *testing.T) {
	srv := newTestServer(t, Options{})
	created := createSession(t, srv, 5)
	spawned := decodeBody[SpawnResponse](t, do(t, srv, http.MethodPost, "/sessions/"+created.ID+"/spawn", nil))
	require.NotNil(t, spawned.Piece)

	rec := do(t, srv, http.MethodDelete, "/sessions/"+created.ID+"/pieces/"+spawned.Piece.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[SessionResponse](t, rec).State.Active)
}

// onlySquareFits leaves a single 2x2 hole, so an L or T spawned onto it
// ends a one-piece game with the piece still active.
const onlySquareFits = `
..###.###
..#####.#
##.######
###.#####
####.####
.####.###
######.##
#.#####.#
########.
`

func TestAbandonAfterGameOver(t *testing.T) {
	srv := newTestServer(t, Options{})
	board, err := grid.Parse(onlySquareFits)
	require.NoError(t, err)

	for seed := uint64(1); seed <= 32; seed++ {
		created := createSession(t, srv, seed)
		e, err := srv.sessions.get(created.ID)
		require.NoError(t, err)
		cfg := game.DefaultConfig()
		cfg.MaxActive = 1
		cfg.Seed = seed
		e.session, err = game.New(cfg, game.WithGrid(board))
		require.NoError(t, err)

		spawned := decodeBody[SpawnResponse](t, do(t, srv, http.MethodPost, "/sessions/"+created.ID+"/spawn", nil))
		if spawned.Outcome != game.GameOver {
			continue
		}
		require.NotNil(t, spawned.Piece)

		rec := do(t, srv, http.MethodDelete, "/sessions/"+created.ID+"/pieces/"+spawned.Piece.ID, nil)
		require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
		assert.Equal(t, errors.ErrCodeGameOver, decodeBody[errorResponse](t, rec).Code)
		return
	}
	t.Fatal("no seed spawned a piece that ends the game")
}

func TestSpawnLimit(t *testing.T) {
	srv := newTestServer(t, Options{})
	created := createSession(t, srv, 9)
	path := "/sessions/" + created.ID + "/spawn"
	for range game.DefaultMaxActive {
		spawned := decodeBody[SpawnResponse](t, do(t, srv, http.MethodPost, path, nil))
		require.Equal(t, game.Accepted, spawned.Outcome)
	}
	spawned := decodeBody[SpawnResponse](t, do(t, srv, http.MethodPost, path, nil))
	assert.Equal(t, game.SpawnRefused, spawned.Outcome)
	assert.Nil(t, spawned.Piece)
}

func TestErrors(t *testing.T) {
	srv := newTestServer(t, Options{Scores: scores.NewMemoryStore()})
	created := createSession(t, srv, 1)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   errors.Code
	}{
		{"unknown session", http.MethodGet, "/sessions/nope", nil, http.StatusNotFound, errors.ErrCodeSessionNotFound},
		{"bad piece id", http.MethodPost, "/sessions/" + created.ID + "/pieces/xyz/commit", map[string]int{"x": 0}, http.StatusNotFound, errors.ErrCodePieceNotFound},
		{"unknown field", http.MethodPost, "/sessions", map[string]int{"bogus": 1}, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad limit", http.MethodGet, "/scores?limit=zero", nil, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"empty player", http.MethodPost, "/sessions/" + created.ID + "/scores", map[string]string{"player": " "}, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"game in progress", http.MethodPost, "/sessions/" + created.ID + "/scores", map[string]string{"player": "ada"}, http.StatusConflict, errors.ErrCodeGameInProgress},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, decodeBody[errorResponse](t, rec).Code)
		})
	}
}

func TestLeaderboardDisabled(t *testing.T) {
	srv := newTestServer(t, Options{})
	rec := do(t, srv, http.MethodGet, "/scores", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitScoreAfterGameOver(t *testing.T) {
	store := scores.NewMemoryStore()
	srv := newTestServer(t, Options{Scores: store})
	created := createSession(t, srv, 13)

	// Swap in a session whose board is already full.
	full, err := grid.Parse(strings.Repeat("#########\n", grid.Size))
	require.NoError(t, err)
	e, err := srv.sessions.get(created.ID)
	require.NoError(t, err)
	e.session, err = game.New(game.DefaultConfig(), game.WithGrid(full))
	require.NoError(t, err)

	spawned := decodeBody[SpawnResponse](t, do(t, srv, http.MethodPost, "/sessions/"+created.ID+"/spawn", nil))
	require.Equal(t, game.GameOver, spawned.Outcome)
	assert.True(t, spawned.State.Over)

	path := "/sessions/" + created.ID + "/scores"
	rec := do(t, srv, http.MethodPost, path, map[string]string{"player": "  ada "})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	saved := decodeBody[scores.Entry](t, rec)
	assert.Equal(t, "ada", saved.Player)
	assert.Equal(t, uint64(13), saved.Seed)

	rec = do(t, srv, http.MethodPost, path, map[string]string{"player": "ada"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, srv, http.MethodGet, "/scores?limit=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	top := decodeBody[[]scores.Entry](t, rec)
	require.Len(t, top, 1)
	assert.Equal(t, saved.ID, top[0].ID)
}

func TestEvictsOldestSession(t *testing.T) {
	srv := newTestServer(t, Options{MaxSessions: 2})
	first := createSession(t, srv, 1)
	createSession(t, srv, 2)
	createSession(t, srv, 3)

	assert.Equal(t, 2, srv.sessions.len())
	rec := do(t, srv, http.MethodGet, "/sessions/"+first.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInstrumentReportsRoutePattern(t *testing.T) {
	hooks := &httpRecorder{}
	srv := newTestServer(t, Options{HTTPHooks: hooks})
	created := createSession(t, srv, 1)
	do(t, srv, http.MethodGet, "/sessions/"+created.ID, nil)

	require.Len(t, hooks.seen, 2)
	assert.Equal(t, http.MethodPost, hooks.seen[0].method)
	assert.Equal(t, http.StatusCreated, hooks.seen[0].status)
	assert.Equal(t, http.MethodGet, hooks.seen[1].method)
	assert.Equal(t, http.StatusOK, hooks.seen[1].status)
	assert.Contains(t, hooks.seen[1].route, "{id}")
	assert.NotContains(t, hooks.seen[1].route, created.ID)
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := game.DefaultConfig()
	cfg.MaxActive = 0
	_, err := New(Options{Game: cfg})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}
