// Package config loads tblock settings.
//
// Settings come from four layers, later ones winning:
//
//  1. built-in defaults ([Default])
//  2. a TOML file, by default $XDG_CONFIG_HOME/tblock/config.toml
//  3. TBLOCK_* environment variables (TBLOCK_GAME_SEED, TBLOCK_SCORES_BACKEND, ...)
//  4. command-line flags, applied by the CLI after Load returns
//
// A missing default file is not an error; a missing file named explicitly is.
package config

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/matzehuels/tblock/pkg/errors"
	"github.com/matzehuels/tblock/pkg/game"
	"github.com/matzehuels/tblock/pkg/scores"
)

const (
	appName   = "tblock"
	envPrefix = "TBLOCK_"
	fileName  = "config.toml"
)

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr        string `toml:"addr" env:"ADDR"`
	MaxSessions int    `toml:"max_sessions" env:"MAX_SESSIONS"`
}

// Config is the full set of tblock settings.
type Config struct {
	// Player is the default leaderboard name.
	Player string `toml:"player" env:"PLAYER"`

	Game   game.Config   `toml:"game" envPrefix:"GAME_"`
	Scores scores.Config `toml:"scores" envPrefix:"SCORES_"`
	Server ServerConfig  `toml:"server" envPrefix:"SERVER_"`
}

// Default returns the built-in settings.
func Default() Config {
	player := os.Getenv("USER")
	if player == "" {
		player = "player"
	}
	return Config{
		Player: player,
		Game:   game.DefaultConfig(),
		Scores: scores.Config{
			Backend: scores.BackendFile,
			Path:    filepath.Join(dataDir(), "scores.json"),
		},
		Server: ServerConfig{
			Addr:        "127.0.0.1:8080",
			MaxSessions: 256,
		},
	}
}

// Load builds a Config from defaults, the file at path (or the default
// location when path is empty), and the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if err := decodeFile(path, &cfg); err != nil {
		if !explicit && errors.Is(err, errors.ErrCodeFileNotFound) {
			err = nil
		}
		if err != nil {
			return Config{}, err
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Game.Validate(); err != nil {
		return err
	}
	backend := strings.ToLower(c.Scores.Backend)
	if backend != "" && !slices.Contains(scores.Backends, backend) {
		return errors.New(errors.ErrCodeInvalidBackend, "unknown scores backend %q", c.Scores.Backend)
	}
	if c.Server.MaxSessions < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.max_sessions must be positive")
	}
	return nil
}

// Write encodes c as TOML.
func (c Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(configDir(), fileName)
}

// configDir follows XDG (~/.config/tblock/).
func configDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName)
	}
	return filepath.Join(home, ".config", appName)
}

// dataDir follows XDG (~/.local/share/tblock/).
func dataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName)
	}
	return filepath.Join(home, ".local", "share", appName)
}
