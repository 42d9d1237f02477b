package game

import (
	"math/rand/v2"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/tblock/pkg/errors"
	"github.com/matzehuels/tblock/pkg/grid"
	"github.com/matzehuels/tblock/pkg/observability"
	"github.com/matzehuels/tblock/pkg/piece"
	"github.com/matzehuels/tblock/pkg/placement"
)

// Stats counts what happened in a session.
type Stats struct {
	Spawned  int `json:"spawned"`
	Placed   int `json:"placed"`
	Rejected int `json:"rejected"`
	Lines    int `json:"lines"`
}

// Session is one game: a grid, a score, and the active pieces.
type Session struct {
	cfg    Config
	grid   *grid.Grid
	rng    *rand.Rand
	seed   uint64 // 0 when the caller supplied the generator
	hooks  observability.GameHooks
	logger *log.Logger

	active []*Piece
	score  int
	over   bool
	stats  Stats
}

// Option configures a Session.
type Option func(*Session)

// WithRand sets the random source used to pick piece kinds.
func WithRand(r *rand.Rand) Option {
	return func(s *Session) {
		if r != nil {
			s.rng = r
		}
	}
}

// WithHooks sets the event hooks.
func WithHooks(h observability.GameHooks) Option {
	return func(s *Session) {
		if h != nil {
			s.hooks = h
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithGrid starts the session from a copy of g instead of an empty board.
// New fails when g's dimensions differ from the configured ones.
func WithGrid(g *grid.Grid) Option {
	return func(s *Session) {
		if g != nil {
			s.grid = g.Clone()
		}
	}
}

// NewRand returns a generator seeded with seed. The same seed always yields
// the same sequence of piece kinds.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// New creates a session, empty unless WithGrid is given.
func New(cfg Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Session{
		cfg:    cfg,
		grid:   grid.New(cfg.Width, cfg.Height),
		hooks:  observability.NoopGameHooks{},
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.grid.Width() != cfg.Width || s.grid.Height() != cfg.Height {
		return nil, errors.New(errors.ErrCodeInvalidGrid,
			"board is %dx%d, want %dx%d", s.grid.Width(), s.grid.Height(), cfg.Width, cfg.Height)
	}
	if s.rng == nil {
		if s.cfg.Seed == 0 {
			s.cfg.Seed = uint64(time.Now().UnixNano())
		}
		s.seed = s.cfg.Seed
		s.rng = NewRand(s.seed)
	}
	s.logger.Debug("session created", "width", cfg.Width, "height", cfg.Height, "max_active", cfg.MaxActive)
	return s, nil
}

// Config returns the session's rules. Seed holds the seed actually in use,
// so a clock-seeded session still reports one that replays it.
func (s *Session) Config() Config { return s.cfg }

// Score returns the accumulated score.
func (s *Session) Score() int { return s.score }

// Over reports whether the session has ended.
func (s *Session) Over() bool { return s.over }

// Stats returns the session counters.
func (s *Session) Stats() Stats { return s.stats }

// Grid returns a copy of the board.
func (s *Session) Grid() *grid.Grid { return s.grid.Clone() }

// Active returns the active pieces in spawn order.
func (s *Session) Active() []*Piece { return slices.Clone(s.active) }

// Piece looks up an active piece by ID.
func (s *Session) Piece(id uuid.UUID) (*Piece, bool) {
	for _, p := range s.active {
		if p.id == id {
			return p, true
		}
	}
	return nil, false
}

// SpawnPiece adds a randomly chosen piece to the active set.
//
// It returns SpawnRefused with a nil piece when MaxActive pieces are already
// active, or when no kind fits anywhere while other pieces are still active.
// With no active pieces and nothing that fits, the session ends and
// SpawnPiece returns GameOver. When the new piece fills the last active slot
// and no active piece fits anywhere, the piece is returned together with
// GameOver.
func (s *Session) SpawnPiece() (*Piece, Outcome) {
	if s.over {
		return nil, GameOver
	}
	if len(s.active) >= s.cfg.MaxActive {
		s.hooks.OnSpawnRefused("limit")
		return nil, SpawnRefused
	}
	if !s.IsBoardFeasible() {
		if len(s.active) == 0 {
			s.end()
			return nil, GameOver
		}
		s.hooks.OnSpawnRefused("infeasible")
		return nil, SpawnRefused
	}

	kinds := piece.Kinds()
	p := newPiece(kinds[s.rng.IntN(len(kinds))])
	s.active = append(s.active, p)
	s.stats.Spawned++
	s.hooks.OnSpawn(p.kind.String(), len(s.active))

	if s.evaluate() {
		return p, GameOver
	}
	return p, Accepted
}

// AttemptCommit places p at anchor using p's current rotation.
//
// An illegal placement, or a piece that is not active in this session,
// yields Rejected and changes nothing. A legal placement fills the cells,
// removes p from the active set, clears full lines, and scores them. The
// Result reports GameOver when the session ended as a consequence.
func (s *Session) AttemptCommit(p *Piece, anchor grid.Point) Result {
	if s.over {
		return Result{Outcome: GameOver, Score: s.score, GameOver: true}
	}
	i := s.indexOf(p)
	if i < 0 {
		return Result{Outcome: Rejected, Score: s.score}
	}

	v := p.Variant()
	if !placement.CanPlace(v, anchor, s.grid) {
		s.stats.Rejected++
		s.hooks.OnReject(p.kind.String(), anchor.X, anchor.Y)
		return Result{Outcome: Rejected, Score: s.score}
	}

	placement.Commit(v, anchor, s.grid)
	s.active = slices.Delete(s.active, i, i+1)

	cleared := s.grid.ClearFullLines()
	points := cleared * s.cfg.PointsPerLine
	s.score += points
	s.stats.Placed++
	s.stats.Lines += cleared
	s.hooks.OnCommit(p.kind.String(), anchor.X, anchor.Y, cleared, points, s.score)

	over := s.evaluate()
	return Result{
		Outcome:  Accepted,
		Cleared:  cleared,
		Points:   points,
		Score:    s.score,
		GameOver: over,
	}
}

// Abandon discards an active piece without touching the grid. It reports
// false when p is not active.
func (s *Session) Abandon(p *Piece) bool {
	i := s.indexOf(p)
	if s.over || i < 0 {
		return false
	}
	s.active = slices.Delete(s.active, i, i+1)
	s.evaluate()
	return true
}

// Fits reports whether p, in its current rotation, can be placed at anchor.
func (s *Session) Fits(p *Piece, anchor grid.Point) bool {
	return p != nil && placement.CanPlace(p.Variant(), anchor, s.grid)
}

// CanPlaceAnywhere reports whether some rotation of p fits somewhere.
func (s *Session) CanPlaceAnywhere(p *Piece) bool {
	return p != nil && placement.AnyRotation(p.kind, s.grid)
}

// IsBoardFeasible reports whether any kind, in any rotation, fits at any
// anchor of the current grid.
func (s *Session) IsBoardFeasible() bool {
	for _, k := range piece.Kinds() {
		if placement.AnyRotation(k, s.grid) {
			return true
		}
	}
	return false
}

// Restart empties the board and score and discards every active piece.
// A seeded session starts its piece sequence over, so the restarted game
// replays from Config().Seed.
func (s *Session) Restart() {
	if s.seed != 0 {
		s.rng = NewRand(s.seed)
	}
	s.grid.Reset()
	s.active = nil
	s.score = 0
	s.over = false
	s.stats = Stats{}
	s.logger.Debug("session restarted")
}

// evaluate ends the session when play cannot continue and reports whether
// it did.
func (s *Session) evaluate() bool {
	if len(s.active) == 0 {
		if !s.IsBoardFeasible() {
			s.end()
		}
		return s.over
	}
	for _, p := range s.active {
		if s.CanPlaceAnywhere(p) {
			return false
		}
	}
	// A free slot lets the player spawn something that might fit.
	if len(s.active) < s.cfg.MaxActive && s.IsBoardFeasible() {
		return false
	}
	s.end()
	return true
}

func (s *Session) end() {
	if s.over {
		return
	}
	s.over = true
	s.hooks.OnGameOver(s.score, s.stats.Placed, s.stats.Lines)
}

func (s *Session) indexOf(p *Piece) int {
	if p == nil {
		return -1
	}
	return slices.Index(s.active, p)
}
