package game

import (
	"strings"

	"github.com/matzehuels/tblock/pkg/errors"
)

// Outcome is the caller-visible result of a session operation.
type Outcome int

const (
	// Accepted: the piece was spawned or committed.
	Accepted Outcome = iota
	// Rejected: the placement was illegal; nothing changed.
	Rejected
	// SpawnRefused: the active limit is reached or nothing fits.
	SpawnRefused
	// GameOver: the session has ended.
	GameOver
)

var outcomeNames = [...]string{
	Accepted:     "accepted",
	Rejected:     "rejected",
	SpawnRefused: "spawn_refused",
	GameOver:     "game_over",
}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return "unknown"
	}
	return outcomeNames[o]
}

// MarshalText encodes o by name.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText decodes an outcome name.
func (o *Outcome) UnmarshalText(b []byte) error {
	s := strings.ToLower(string(b))
	for i, name := range outcomeNames {
		if name == s {
			*o = Outcome(i)
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidInput, "unknown outcome %q", b)
}

// Result describes a commit attempt.
type Result struct {
	Outcome  Outcome `json:"outcome"`
	Cleared  int     `json:"cleared"`   // lines cleared by this commit
	Points   int     `json:"points"`    // points awarded by this commit
	Score    int     `json:"score"`     // session score afterwards
	GameOver bool    `json:"game_over"` // session ended as a consequence
}
