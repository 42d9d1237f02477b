package game

import (
	"github.com/matzehuels/tblock/pkg/errors"
	"github.com/matzehuels/tblock/pkg/grid"
)

// Defaults for Config.
const (
	DefaultMaxActive     = 2
	DefaultPointsPerLine = 100

	minBoard     = 3
	maxBoard     = 32
	maxActiveCap = 8
)

// Config sets the rules of a session.
type Config struct {
	Width         int    `toml:"width" env:"WIDTH" json:"width"`
	Height        int    `toml:"height" env:"HEIGHT" json:"height"`
	MaxActive     int    `toml:"max_active" env:"MAX_ACTIVE" json:"max_active"`
	PointsPerLine int    `toml:"points_per_line" env:"POINTS_PER_LINE" json:"points_per_line"`
	Seed          uint64 `toml:"seed" env:"SEED" json:"seed,omitempty"` // 0 seeds from the clock
}

// DefaultConfig returns the standard 9×9 game with two active pieces.
func DefaultConfig() Config {
	return Config{
		Width:         grid.Size,
		Height:        grid.Size,
		MaxActive:     DefaultMaxActive,
		PointsPerLine: DefaultPointsPerLine,
	}
}

// Validate checks that c describes a playable board.
func (c Config) Validate() error {
	if c.Width < minBoard || c.Width > maxBoard {
		return errors.New(errors.ErrCodeInvalidConfig, "width %d outside [%d,%d]", c.Width, minBoard, maxBoard)
	}
	if c.Height < minBoard || c.Height > maxBoard {
		return errors.New(errors.ErrCodeInvalidConfig, "height %d outside [%d,%d]", c.Height, minBoard, maxBoard)
	}
	if c.MaxActive < 1 || c.MaxActive > maxActiveCap {
		return errors.New(errors.ErrCodeInvalidConfig, "max_active %d outside [1,%d]", c.MaxActive, maxActiveCap)
	}
	if c.PointsPerLine < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "points_per_line cannot be negative")
	}
	return nil
}
