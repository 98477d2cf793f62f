// Package driver advances a world one discrete step per tick and gates
// player commands by game state. Timing lives in a Scheduler; the driver
// itself only counts ticks.
package driver

import (
	"github.com/vovakirdan/snake3d/internal/world"
)

// Controller is the surface presentation code and loops drive.
// Driver and Recorder both implement it.
type Controller interface {
	Tick()
	SetDirection(dir world.Direction) bool
	RequestRestart() bool
	Snapshot() world.Snapshot
}

// Driver owns one world and sequences its per-tick work.
type Driver struct {
	world  *world.World
	ticks  uint64
	onTick func(tick uint64)
}

// New wraps w. The driver takes ownership; callers must not mutate w
// behind its back.
func New(w *world.World) *Driver {
	return &Driver{world: w}
}

// OnTick registers a callback invoked after every tick, including ticks
// that do no simulation work. Presentation code uses it to request a redraw.
func (d *Driver) OnTick(fn func(tick uint64)) {
	d.onTick = fn
}

// Tick runs one simulation step: move, eat, then check for game over.
// Nothing moves while the round is over.
func (d *Driver) Tick() {
	d.ticks++
	if d.world.State() == world.Playing {
		d.world.MoveSnake()
		d.world.CheckAppleCollision()
		d.world.CheckGameOver()
	}
	if d.onTick != nil {
		d.onTick(d.ticks)
	}
}

// SetDirection forwards a heading change immediately. It reports whether
// the world accepted it.
func (d *Driver) SetDirection(dir world.Direction) bool {
	return d.world.SetDirection(dir)
}

// RequestRestart starts a new round. It only has an effect once the
// current round is over.
func (d *Driver) RequestRestart() bool {
	if d.world.State() != world.GameOver {
		return false
	}
	d.world.ResetGame()
	return true
}

// Apply dispatches a queued command.
func (d *Driver) Apply(cmd Command) bool {
	return apply(d, cmd)
}

// Snapshot returns the world state stamped with the tick count.
func (d *Driver) Snapshot() world.Snapshot {
	snap := d.world.Snapshot()
	snap.Tick = d.ticks
	return snap
}

// Ticks returns the number of ticks run so far.
func (d *Driver) Ticks() uint64 { return d.ticks }

// World exposes the underlying world for read-only inspection.
func (d *Driver) World() *world.World { return d.world }

// CommandKind selects what a Command does.
type CommandKind int

const (
	CmdDirection CommandKind = iota
	CmdRestart
)

func (k CommandKind) String() string {
	switch k {
	case CmdDirection:
		return "direction"
	case CmdRestart:
		return "restart"
	default:
		return "unknown"
	}
}

// Command is a player input queued for the simulation goroutine.
type Command struct {
	Kind CommandKind
	Dir  world.Direction // CmdDirection only
}

// Turn builds a direction command.
func Turn(dir world.Direction) Command {
	return Command{Kind: CmdDirection, Dir: dir}
}

// Restart builds a restart command.
func Restart() Command {
	return Command{Kind: CmdRestart}
}

func apply(c Controller, cmd Command) bool {
	switch cmd.Kind {
	case CmdDirection:
		return c.SetDirection(cmd.Dir)
	case CmdRestart:
		return c.RequestRestart()
	default:
		return false
	}
}
