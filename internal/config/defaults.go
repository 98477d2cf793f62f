package config

import (
	_ "embed"

	"github.com/vovakirdan/snake3d/internal/world"
)

//go:embed defaults/snake.yaml
var defaultSnakeYAML []byte

// DefaultSnakeConfig returns the hardcoded reference configuration. It is
// the last fallback when even the embedded YAML cannot be parsed.
func DefaultSnakeConfig() SnakeConfig {
	r := world.DefaultRules()
	cfg := SnakeConfig{
		Tick: TickConfig{
			IntervalMS:    150,
			MinIntervalMS: 60,
		},
		Arena: ArenaConfig{
			WallBound:     r.WallBound,
			AppleMargin:   r.AppleMargin,
			SpawnRange:    r.SpawnRange,
			MaxApples:     r.MaxApples,
			SpawnAttempts: r.SpawnAttempts,
			PickupRadius:  r.PickupRadius,
			SnakeSpacing:  r.SnakeSpacing,
			AppleSpacing:  r.AppleSpacing,
		},
		Theme: ThemeConfig{
			Head:     "bright_green",
			Body:     "green",
			Apple:    "bright_red",
			Wall:     "gray",
			Obstacle: "orange",
			Floor:    "dark_gray",
			Text:     "white",
			Alert:    "bright_yellow",
		},
		Difficulty: DifficultyConfig{
			Enabled:      false,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 30,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 1.5,
			},
		},
	}
	for _, o := range world.DefaultObstacles() {
		cfg.Obstacles = append(cfg.Obstacles, ObstacleConfig{X: o.X, Z: o.Z, Width: o.Width, Depth: o.Depth})
	}
	return cfg
}
