// Package scores stores finished games on a leaderboard.
//
// The [Store] interface has several backends:
//   - memory: in-process, for tests and the HTTP server without persistence
//   - file: a JSON file, the default for the CLI
//   - sqlite: a local SQLite database
//   - redis: a sorted set, for servers sharing one leaderboard
//   - mongo: a MongoDB collection
//
// [Open] picks a backend from a [Config]:
//
//	store, err := scores.Open(ctx, scores.Config{Backend: "sqlite", Path: "scores.db"})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	top, err := store.Top(ctx, 10)
//
// Every backend returns entries ordered by score (highest first), then by
// creation time (oldest first).
package scores

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/tblock/pkg/errors"
)

// Entry is one finished game on the leaderboard.
type Entry struct {
	ID        string    `json:"id" bson:"_id"`
	Player    string    `json:"player" bson:"player"`
	Score     int       `json:"score" bson:"score"`
	Lines     int       `json:"lines" bson:"lines"`
	Pieces    int       `json:"pieces" bson:"pieces"`
	Seed      uint64    `json:"seed,omitempty" bson:"seed,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// NewEntry returns an entry with a fresh ID and the current time.
func NewEntry(player string, score, lines, pieces int) Entry {
	return Entry{
		ID:        uuid.NewString(),
		Player:    strings.TrimSpace(player),
		Score:     score,
		Lines:     lines,
		Pieces:    pieces,
		CreatedAt: time.Now().UTC(),
	}
}

// Validate checks the fields a store relies on.
func (e Entry) Validate() error {
	if e.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "entry id cannot be empty")
	}
	if err := errors.ValidatePlayerName(e.Player); err != nil {
		return err
	}
	if e.Score < 0 || e.Lines < 0 || e.Pieces < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "entry counters cannot be negative")
	}
	return nil
}

// Store is a leaderboard backend.
type Store interface {
	// Add records an entry. Entries are validated first.
	Add(ctx context.Context, e Entry) error

	// Top returns the n best entries; n <= 0 returns all of them.
	Top(ctx context.Context, n int) ([]Entry, error)

	// Clear removes every entry.
	Clear(ctx context.Context) error

	// Close releases the backend's resources.
	Close() error
}

// sortEntries orders entries by score descending, then CreatedAt ascending,
// then ID for a total order.
func sortEntries(es []Entry) {
	sort.SliceStable(es, func(i, j int) bool {
		a, b := es[i], es[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

func limit(es []Entry, n int) []Entry {
	if n > 0 && len(es) > n {
		return es[:n]
	}
	return es
}
