package driver

import (
	"github.com/vovakirdan/snake3d/internal/world"
)

// Entry is one accepted command and the tick count it was issued at.
// A command at Tick n was applied before tick n+1 ran.
type Entry struct {
	Tick uint64
	Cmd  Command
}

// Journal is everything needed to re-run a game deterministically.
// Obstacles are decorative and not kept.
type Journal struct {
	Seed    int64
	Rules   world.Rules
	Ticks   uint64
	Entries []Entry
}

// Recorder wraps a Driver and journals every accepted command.
// Rejected commands change nothing, so they are not kept.
type Recorder struct {
	d       *Driver
	seed    int64
	entries []Entry
}

// NewRecorder records commands sent through it to d. seed must be the
// seed d's world was created with.
func NewRecorder(d *Driver, seed int64) *Recorder {
	return &Recorder{d: d, seed: seed}
}

// Tick advances the wrapped driver by one step.
func (r *Recorder) Tick() { r.d.Tick() }

// SetDirection turns the snake and journals the command if accepted.
func (r *Recorder) SetDirection(dir world.Direction) bool {
	return r.record(Turn(dir))
}

// RequestRestart restarts a finished round and journals it if accepted.
func (r *Recorder) RequestRestart() bool {
	return r.record(Restart())
}

// Snapshot returns the wrapped driver's current state.
func (r *Recorder) Snapshot() world.Snapshot { return r.d.Snapshot() }

// Driver returns the wrapped driver.
func (r *Recorder) Driver() *Driver { return r.d }

func (r *Recorder) record(cmd Command) bool {
	if !r.d.Apply(cmd) {
		return false
	}
	r.entries = append(r.entries, Entry{Tick: r.d.Ticks(), Cmd: cmd})
	return true
}

// Journal returns a copy of what has been recorded so far.
func (r *Recorder) Journal() Journal {
	return Journal{
		Seed:    r.seed,
		Rules:   r.d.World().Rules(),
		Ticks:   r.d.Ticks(),
		Entries: append([]Entry(nil), r.entries...),
	}
}

// Replay re-runs j on a fresh world built from cfg. cfg.Seed is replaced
// by the journal's seed, and cfg.Rules by the journal's rules when it
// carries any.
func Replay(j Journal, cfg world.Config) *Driver {
	cfg.Seed = j.Seed
	if j.Rules != (world.Rules{}) {
		cfg.Rules = j.Rules
	}
	d := New(world.New(cfg))

	next := 0
	for t := uint64(0); ; t++ {
		for next < len(j.Entries) && j.Entries[next].Tick == t {
			d.Apply(j.Entries[next].Cmd)
			next++
		}
		if t == j.Ticks {
			break
		}
		d.Tick()
	}
	return d
}
