package engine

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrInvalidConfig is wrapped by every Config validation failure.
var ErrInvalidConfig = errors.New("invalid config")

const (
	DefaultWidth       = 10
	DefaultHeight      = 20
	DefaultLockDelay   = 500 * time.Millisecond
	DefaultLockMoveCap = 15
)

// Level is one step of the score-driven progression.
type Level struct {
	Number    int
	Threshold int
	Speed     time.Duration
	Name      string
}

// DefaultLevels is the ten-step progression used by DefaultConfig.
var DefaultLevels = []Level{
	{Number: 1, Threshold: 0, Speed: 1000 * time.Millisecond, Name: "Hatchling"},
	{Number: 2, Threshold: 1000, Speed: 900 * time.Millisecond, Name: "Chick"},
	{Number: 3, Threshold: 3000, Speed: 800 * time.Millisecond, Name: "Songbird"},
	{Number: 4, Threshold: 6000, Speed: 700 * time.Millisecond, Name: "Rooster"},
	{Number: 5, Threshold: 10000, Speed: 600 * time.Millisecond, Name: "Eagle"},
	{Number: 6, Threshold: 15000, Speed: 500 * time.Millisecond, Name: "Unicorn"},
	{Number: 7, Threshold: 25000, Speed: 450 * time.Millisecond, Name: "Dragon"},
	{Number: 8, Threshold: 40000, Speed: 400 * time.Millisecond, Name: "Superstar"},
	{Number: 9, Threshold: 60000, Speed: 350 * time.Millisecond, Name: "Shining Star"},
	{Number: 10, Threshold: 100000, Speed: 300 * time.Millisecond, Name: "Block King"},
}

// LevelIndexForScore returns the index of the highest level whose threshold
// does not exceed score.
func LevelIndexForScore(levels []Level, score int) int {
	for i := len(levels) - 1; i >= 0; i-- {
		if score >= levels[i].Threshold {
			return i
		}
	}
	return 0
}

var lineClearScores = map[int]int{1: 100, 2: 300, 3: 500, 4: 800}

// LineClearScore is the base award for clearing k lines at once, before the
// level and difficulty multipliers.
func LineClearScore(k int) int {
	return lineClearScores[k]
}

// Difficulty scales gravity interval and line-clear awards.
type Difficulty struct {
	Name            string
	SpeedMultiplier float64
	ScoreMultiplier float64
}

var (
	Easy   = Difficulty{Name: "easy", SpeedMultiplier: 1.5, ScoreMultiplier: 0.5}
	Normal = Difficulty{Name: "normal", SpeedMultiplier: 1.0, ScoreMultiplier: 1.0}
	Hard   = Difficulty{Name: "hard", SpeedMultiplier: 0.6, ScoreMultiplier: 1.5}
)

// DifficultyByName looks up a preset by case-insensitive name.
func DifficultyByName(name string) (Difficulty, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "easy":
		return Easy, true
	case "", "normal":
		return Normal, true
	case "hard":
		return Hard, true
	}
	return Difficulty{}, false
}

// withDefaults replaces unset multipliers with 1.0.
func (d Difficulty) withDefaults() Difficulty {
	if d.SpeedMultiplier == 0 {
		d.SpeedMultiplier = 1.0
	}
	if d.ScoreMultiplier == 0 {
		d.ScoreMultiplier = 1.0
	}
	return d
}

// Config holds the tunable rules of a session.
type Config struct {
	Width       int
	Height      int
	LockDelay   time.Duration
	LockMoveCap int
	Levels      []Level
	Difficulty  Difficulty
}

// DefaultConfig returns a 10x20 field with a 500ms lock delay and a cap of 15
// lock-resetting moves.
func DefaultConfig() Config {
	return Config{
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		LockDelay:   DefaultLockDelay,
		LockMoveCap: DefaultLockMoveCap,
		Levels:      DefaultLevels,
		Difficulty:  Normal,
	}
}

// Validate checks the config for values a session cannot run with.
func (c Config) Validate() error {
	if c.Width < 4 {
		return fmt.Errorf("%w: width %d is below 4", ErrInvalidConfig, c.Width)
	}
	if c.Height < 4 {
		return fmt.Errorf("%w: height %d is below 4", ErrInvalidConfig, c.Height)
	}
	if c.LockDelay <= 0 {
		return fmt.Errorf("%w: lock delay must be positive", ErrInvalidConfig)
	}
	if c.LockMoveCap < 0 {
		return fmt.Errorf("%w: lock move cap must not be negative", ErrInvalidConfig)
	}
	if len(c.Levels) == 0 {
		return fmt.Errorf("%w: at least one level is required", ErrInvalidConfig)
	}
	if c.Levels[0].Threshold != 0 {
		return fmt.Errorf("%w: first level threshold must be 0", ErrInvalidConfig)
	}
	for i, lvl := range c.Levels {
		if lvl.Speed <= 0 {
			return fmt.Errorf("%w: level %d speed must be positive", ErrInvalidConfig, lvl.Number)
		}
		if i > 0 && lvl.Threshold <= c.Levels[i-1].Threshold {
			return fmt.Errorf("%w: level thresholds must be ascending", ErrInvalidConfig)
		}
	}
	return c.Difficulty.withDefaults().Validate()
}

// Validate rejects negative, NaN or infinite multipliers. Call it on a
// difficulty with defaults applied; zero counts as unset.
func (d Difficulty) Validate() error {
	if d.SpeedMultiplier < 0 || math.IsNaN(d.SpeedMultiplier) || math.IsInf(d.SpeedMultiplier, 0) {
		return fmt.Errorf("%w: speed multiplier must be positive", ErrInvalidConfig)
	}
	if d.ScoreMultiplier < 0 || math.IsNaN(d.ScoreMultiplier) || math.IsInf(d.ScoreMultiplier, 0) {
		return fmt.Errorf("%w: score multiplier must be positive", ErrInvalidConfig)
	}
	return nil
}
