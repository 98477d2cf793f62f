package config

import (
	"testing"
	"time"
)

func TestDifficultyDisabledKeepsBase(t *testing.T) {
	dm := NewDifficultyManager(DefaultSnakeConfig())

	if dm.IsEnabled() {
		t.Error("progression should be off by default")
	}
	for _, score := range []int{0, 10, 1000} {
		if got := dm.Interval(score, 0); got != 150*time.Millisecond {
			t.Errorf("Interval(%d) = %v, want 150ms", score, got)
		}
	}
}

func TestDifficultyScoreProgression(t *testing.T) {
	cfg := DefaultSnakeConfig()
	cfg.Difficulty.Enabled = true
	cfg.Difficulty.Progression = ProgressionConfig{Type: "score", MaxAt: 10}
	cfg.Difficulty.Scaling.SpeedMultiplier = 1.0
	cfg.Tick.MinIntervalMS = 0
	dm := NewDifficultyManager(cfg)

	tests := []struct {
		score int
		level float64
		iv    time.Duration
	}{
		{0, 0, 150 * time.Millisecond},
		{5, 0.5, 100 * time.Millisecond},
		{10, 1, 75 * time.Millisecond},
		{50, 1, 75 * time.Millisecond},
	}

	for _, tc := range tests {
		if got := dm.Level(tc.score, 0); got != tc.level {
			t.Errorf("Level(%d) = %v, want %v", tc.score, got, tc.level)
		}
		if got := dm.ScorePace(tc.score); got != tc.iv {
			t.Errorf("ScorePace(%d) = %v, want %v", tc.score, got, tc.iv)
		}
	}
}

func TestDifficultyFloor(t *testing.T) {
	cfg := DefaultSnakeConfig()
	cfg.Difficulty.Enabled = true
	cfg.Difficulty.Scaling.SpeedMultiplier = 10
	dm := NewDifficultyManager(cfg)

	if got := dm.Interval(1000, 0); got != 60*time.Millisecond {
		t.Errorf("Interval = %v, want the 60ms floor", got)
	}
}

func TestDifficultyTimeProgression(t *testing.T) {
	cfg := DefaultSnakeConfig()
	cfg.Difficulty.Enabled = true
	cfg.Difficulty.InitialLevel = 0.5
	cfg.Difficulty.Progression = ProgressionConfig{Type: "time", MaxAt: 100}
	dm := NewDifficultyManager(cfg)

	if got := dm.Level(0, 0); got != 0.5 {
		t.Errorf("Level at start = %v, want 0.5", got)
	}
	if got := dm.Level(0, 50); got != 0.75 {
		t.Errorf("Level at tick 50 = %v, want 0.75", got)
	}

	dm.SetEnabled(false)
	if got := dm.Level(0, 50); got != 0.5 {
		t.Errorf("Level when disabled = %v, want initial 0.5", got)
	}
}
