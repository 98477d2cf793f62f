// Package config provides YAML-based configuration loading and difficulty
// management for the snake arena.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/snake3d/internal/core"
	"github.com/vovakirdan/snake3d/internal/world"
)

// SnakeConfig contains all configuration for a game.
type SnakeConfig struct {
	Tick       TickConfig       `yaml:"tick"`
	Arena      ArenaConfig      `yaml:"arena"`
	Obstacles  []ObstacleConfig `yaml:"obstacles"`
	Theme      ThemeConfig      `yaml:"theme"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// TickConfig defines the simulation period.
type TickConfig struct {
	IntervalMS    int `yaml:"interval_ms"`
	MinIntervalMS int `yaml:"min_interval_ms"` // floor when difficulty speeds the game up
}

// ArenaConfig mirrors world.Rules. Distances are in cells.
type ArenaConfig struct {
	WallBound     int     `yaml:"wall_bound"`
	AppleMargin   float64 `yaml:"apple_margin"`
	SpawnRange    int     `yaml:"spawn_range"`
	MaxApples     int     `yaml:"max_apples"`
	SpawnAttempts int     `yaml:"spawn_attempts"`
	PickupRadius  float64 `yaml:"pickup_radius"`
	SnakeSpacing  float64 `yaml:"snake_spacing"`
	AppleSpacing  float64 `yaml:"apple_spacing"`
}

// ObstacleConfig is a decorative block centered at (x, z).
type ObstacleConfig struct {
	X     float64 `yaml:"x"`
	Z     float64 `yaml:"z"`
	Width float64 `yaml:"width"`
	Depth float64 `yaml:"depth"`
}

// ThemeConfig names the colors used by the terminal renderer.
type ThemeConfig struct {
	Head     string `yaml:"head"`
	Body     string `yaml:"body"`
	Apple    string `yaml:"apple"`
	Wall     string `yaml:"wall"`
	Obstacle string `yaml:"obstacle"`
	Floor    string `yaml:"floor"`
	Text     string `yaml:"text"`
	Alert    string `yaml:"alert"`
}

// DifficultyConfig defines the speed-up as the score rises.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = base speed, 1.0 = full speed-up
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how the difficulty level grows.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // score or ticks at which the level reaches 1.0
}

// ScalingConfig defines the magnitude of the speed-up.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // tick rate gained at level 1.0
}

// Interval returns the base tick period.
func (c SnakeConfig) Interval() time.Duration {
	return time.Duration(c.Tick.IntervalMS) * time.Millisecond
}

// MinInterval returns the fastest period difficulty may reach.
func (c SnakeConfig) MinInterval() time.Duration {
	return time.Duration(c.Tick.MinIntervalMS) * time.Millisecond
}

// Rules converts the arena section for the simulation.
func (c SnakeConfig) Rules() world.Rules {
	a := c.Arena
	return world.Rules{
		WallBound:     a.WallBound,
		AppleMargin:   a.AppleMargin,
		SpawnRange:    a.SpawnRange,
		MaxApples:     a.MaxApples,
		SpawnAttempts: a.SpawnAttempts,
		PickupRadius:  a.PickupRadius,
		SnakeSpacing:  a.SnakeSpacing,
		AppleSpacing:  a.AppleSpacing,
	}
}

// WorldObstacles converts the obstacle list for the simulation.
func (c SnakeConfig) WorldObstacles() []world.Obstacle {
	out := make([]world.Obstacle, len(c.Obstacles))
	for i, o := range c.Obstacles {
		out[i] = world.Obstacle{X: o.X, Z: o.Z, Width: o.Width, Depth: o.Depth}
	}
	return out
}

// CoreTheme resolves color names, keeping the default for unknown or
// empty entries.
func (c SnakeConfig) CoreTheme() core.Theme {
	theme := core.DefaultTheme()
	pick := func(dst *core.Color, name string) {
		if col, ok := core.ParseColor(name); ok {
			*dst = col
		}
	}
	pick(&theme.Head, c.Theme.Head)
	pick(&theme.Body, c.Theme.Body)
	pick(&theme.Apple, c.Theme.Apple)
	pick(&theme.Wall, c.Theme.Wall)
	pick(&theme.Obstacle, c.Theme.Obstacle)
	pick(&theme.Floor, c.Theme.Floor)
	pick(&theme.Text, c.Theme.Text)
	pick(&theme.Alert, c.Theme.Alert)
	return theme
}

// Validate reports every nonsensical value at once.
func (c SnakeConfig) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	a := c.Arena
	check(c.Tick.IntervalMS > 0, "tick.interval_ms must be positive, got %d", c.Tick.IntervalMS)
	check(c.Tick.MinIntervalMS >= 0, "tick.min_interval_ms must not be negative, got %d", c.Tick.MinIntervalMS)
	check(a.WallBound > 0, "arena.wall_bound must be positive, got %d", a.WallBound)
	check(a.AppleMargin > 0, "arena.apple_margin must be positive, got %v", a.AppleMargin)
	check(a.SpawnRange > 0, "arena.spawn_range must be positive, got %d", a.SpawnRange)
	check(a.MaxApples >= 1, "arena.max_apples must be at least 1, got %d", a.MaxApples)
	check(a.SpawnAttempts >= 1, "arena.spawn_attempts must be at least 1, got %d", a.SpawnAttempts)
	check(a.PickupRadius > 0, "arena.pickup_radius must be positive, got %v", a.PickupRadius)
	check(a.SnakeSpacing >= 0, "arena.snake_spacing must not be negative, got %v", a.SnakeSpacing)
	check(a.AppleSpacing >= 0, "arena.apple_spacing must not be negative, got %v", a.AppleSpacing)

	switch c.Difficulty.Progression.Type {
	case "", "none", "score", "time":
	default:
		check(false, "difficulty.progression.type %q is not one of score, time, none", c.Difficulty.Progression.Type)
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: invalid: %w", err)
	}
	return nil
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset validates a preset name from the command line.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", s)
	}
}

// IntervalForPreset returns the base tick period of a preset.
// Fixed keeps the reference period.
func IntervalForPreset(preset DifficultyPreset) time.Duration {
	switch preset {
	case DifficultyEasy:
		return 200 * time.Millisecond
	case DifficultyHard:
		return 100 * time.Millisecond
	default:
		return 150 * time.Millisecond
	}
}

// ApplySnakePreset modifies the config based on a difficulty preset.
// Every preset but fixed turns the speed-up on.
func ApplySnakePreset(cfg *SnakeConfig, preset DifficultyPreset) {
	cfg.Tick.IntervalMS = int(IntervalForPreset(preset) / time.Millisecond)
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
		return
	}
	cfg.Difficulty.Enabled = true
	cfg.Difficulty.InitialLevel = 0
}
