// Package autopilot steers a snake without a human: a pilot looks at a
// snapshot and picks the next heading. Headless simulations and the TUI
// demo mode both drive a game through a Pilot.
package autopilot

import (
	"context"
	"fmt"

	"github.com/vovakirdan/snake3d/internal/driver"
	"github.com/vovakirdan/snake3d/internal/world"
)

// Pilot chooses a heading for the next tick.
type Pilot interface {
	Name() string
	Next(snap world.Snapshot) (world.Direction, error)
}

// Run plays one round on ctl until the round ends, maxTicks ticks have
// run, or ctx is done. The pilot is consulted before every tick. It
// returns the final snapshot.
func Run(ctx context.Context, ctl driver.Controller, p Pilot, maxTicks uint64) (world.Snapshot, error) {
	snap := ctl.Snapshot()
	for i := uint64(0); i < maxTicks && snap.State == world.Playing; i++ {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return snap, err
			}
		}

		dir, err := p.Next(snap)
		if err != nil {
			return snap, fmt.Errorf("autopilot: %s at tick %d: %w", p.Name(), snap.Tick, err)
		}
		ctl.SetDirection(dir)
		ctl.Tick()
		snap = ctl.Snapshot()
	}
	return snap, nil
}

func turnLeft(d world.Direction) world.Direction {
	switch d {
	case world.Up:
		return world.Left
	case world.Left:
		return world.Down
	case world.Down:
		return world.Right
	default:
		return world.Up
	}
}

func turnRight(d world.Direction) world.Direction {
	return turnLeft(d).Opposite()
}
