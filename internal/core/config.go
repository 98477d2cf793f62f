package core

import "time"

// RuntimeConfig is what the platform layer hands to a game session.
type RuntimeConfig struct {
	ScreenW      int           // screen width in characters
	ScreenH      int           // screen height in characters
	TickInterval time.Duration // simulation period
	Seed         int64         // 0 means pick one from the clock
}

// DefaultConfig returns an 80x24 screen at the reference 150ms period.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:      80,
		ScreenH:      24,
		TickInterval: 150 * time.Millisecond,
	}
}

// ResolveSeed fills in a clock-derived seed when none was given and
// returns the seed in use.
func (c *RuntimeConfig) ResolveSeed() int64 {
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	return c.Seed
}
