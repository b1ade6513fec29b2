// Package config loads host configuration from BLOCKFALL_* environment
// variables and turns it into engine rules.
package config

import (
	"fmt"
	"time"

	"github.com/plus3/blockfall/engine"
)

// Config is the host-level configuration shared by every blockfall binary.
type Config struct {
	Width       int           `env:"BLOCKFALL_WIDTH" envDefault:"10"`
	Height      int           `env:"BLOCKFALL_HEIGHT" envDefault:"20"`
	LockDelay   time.Duration `env:"BLOCKFALL_LOCK_DELAY" envDefault:"500ms"`
	LockMoveCap int           `env:"BLOCKFALL_LOCK_MOVE_CAP" envDefault:"15"`
	Difficulty  string        `env:"BLOCKFALL_DIFFICULTY" envDefault:"normal"`

	// Seed fixes the piece sequence. Zero means draw a fresh seed per run.
	Seed uint64 `env:"BLOCKFALL_SEED"`

	ScoresPath    string        `env:"BLOCKFALL_SCORES_PATH" envDefault:"blockfall.db"`
	FrameInterval time.Duration `env:"BLOCKFALL_FRAME_INTERVAL" envDefault:"16ms"`
	Debug         bool          `env:"BLOCKFALL_DEBUG"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if _, err := cfg.Engine(); err != nil {
		return Config{}, err
	}
	if cfg.FrameInterval <= 0 {
		return Config{}, fmt.Errorf("frame interval must be positive, got %s", cfg.FrameInterval)
	}
	return cfg, nil
}

// Engine converts the host config into validated session rules.
func (c Config) Engine() (engine.Config, error) {
	difficulty, ok := engine.DifficultyByName(c.Difficulty)
	if !ok {
		return engine.Config{}, fmt.Errorf("%w: unknown difficulty %q", engine.ErrInvalidConfig, c.Difficulty)
	}

	cfg := engine.DefaultConfig()
	cfg.Width = c.Width
	cfg.Height = c.Height
	cfg.LockDelay = c.LockDelay
	cfg.LockMoveCap = c.LockMoveCap
	cfg.Difficulty = difficulty

	if err := cfg.Validate(); err != nil {
		return engine.Config{}, err
	}
	return cfg, nil
}

// SessionSeed returns the configured seed, or a fresh random one when unset.
func (c Config) SessionSeed() (uint64, error) {
	if c.Seed != 0 {
		return c.Seed, nil
	}
	return NewSeed()
}
