package config

import (
	"math"
	"time"
)

// DifficultyManager derives the tick period from the score or tick count.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
	base         time.Duration
	floor        time.Duration
}

// NewDifficultyManager creates a manager for the given game config.
func NewDifficultyManager(cfg SnakeConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg.Difficulty,
		initialLevel: clampF(cfg.Difficulty.InitialLevel, 0, 1),
		base:         cfg.Interval(),
		floor:        cfg.MinInterval(),
	}
}

// SetEnabled enables or disables progression.
func (d *DifficultyManager) SetEnabled(enabled bool) {
	d.cfg.Enabled = enabled
}

// IsEnabled returns whether progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none" && d.cfg.Progression.Type != ""
}

// Level returns the difficulty level in [0, 1].
func (d *DifficultyManager) Level(score int, ticks uint64) float64 {
	if !d.IsEnabled() {
		return d.initialLevel
	}

	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1
	}

	var progress float64
	switch d.cfg.Progression.Type {
	case "score":
		progress = float64(score) / maxAt
	case "time":
		progress = float64(ticks) / maxAt
	default:
		return d.initialLevel
	}

	progress = clampF(progress, 0, 1)
	return d.initialLevel + progress*(1-d.initialLevel)
}

// Interval returns the tick period for the current progress. The tick
// rate grows by SpeedMultiplier at level 1.0 and never drops below the
// configured floor.
func (d *DifficultyManager) Interval(score int, ticks uint64) time.Duration {
	level := d.Level(score, ticks)
	rate := 1 + level*d.cfg.Scaling.SpeedMultiplier
	if rate <= 0 {
		rate = 1
	}
	iv := time.Duration(float64(d.base) / rate)
	if d.floor > 0 && iv < d.floor {
		iv = d.floor
	}
	return iv
}

// ScorePace adapts Interval to driver.WithPace.
func (d *DifficultyManager) ScorePace(score int) time.Duration {
	return d.Interval(score, 0)
}

func clampF(val, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, val))
}
