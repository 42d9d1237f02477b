package errors

import (
	"strings"
	"unicode"
)

// maxPlayerName bounds leaderboard names.
const maxPlayerName = 32

// ValidatePlayerName validates a leaderboard player name.
//
// Names must be non-empty after trimming, at most 32 characters, and free of
// control characters. The same rules apply to names typed in the TUI and to
// names posted to the HTTP API.
func ValidatePlayerName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return New(ErrCodeInvalidInput, "player name cannot be empty")
	}
	if len([]rune(name)) > maxPlayerName {
		return New(ErrCodeInvalidInput, "player name too long (max %d characters)", maxPlayerName)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "player name contains invalid control characters")
		}
	}
	return nil
}
