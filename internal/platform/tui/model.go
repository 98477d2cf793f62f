package tui

import (
	"context"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snake3d/internal/autopilot"
	"github.com/vovakirdan/snake3d/internal/config"
	"github.com/vovakirdan/snake3d/internal/core"
	"github.com/vovakirdan/snake3d/internal/driver"
	"github.com/vovakirdan/snake3d/internal/storage"
	"github.com/vovakirdan/snake3d/internal/world"
)

// saveTimeout bounds a best-effort replay save.
const saveTimeout = 3 * time.Second

// Options configures a local game.
type Options struct {
	Game    config.SnakeConfig
	Runtime core.RuntimeConfig
	Store   *storage.Store  // nil disables replay saving
	Pilot   autopilot.Pilot // nil for a human player
	Logger  *log.Logger     // nil discards
}

// replaySavedMsg reports the outcome of a replay save.
type replaySavedMsg struct {
	id  string
	err error
}

// Model is the Bubble Tea model for a local game. Tick messages drive the
// simulation directly, so key and tick handling are serialized by Bubble
// Tea's Update loop.
type Model struct {
	rec      *driver.Recorder
	pace     *config.DifficultyManager
	pilot    autopilot.Pilot
	store    *storage.Store
	logger   *log.Logger
	canvas   canvas
	interval time.Duration
	paused   bool
	saved    bool // replay saved for the current game over
	note     string
	quitting bool
}

// NewModel creates a local game model. A zero seed picks one from the clock.
func NewModel(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	rt := opts.Runtime
	seed := rt.ResolveSeed()
	game := opts.Game
	if rt.TickInterval > 0 {
		game.Tick.IntervalMS = int(rt.TickInterval / time.Millisecond)
	}

	w := world.New(world.Config{
		Rules:     game.Rules(),
		Obstacles: game.WorldObstacles(),
		Seed:      seed,
		Logger:    logger,
	})

	pace := config.NewDifficultyManager(game)
	interval := pace.Interval(0, 0)

	pilot := ""
	if opts.Pilot != nil {
		pilot = opts.Pilot.Name()
	}
	logger.Info("game started", "seed", seed, "interval", interval, "pilot", pilot)

	return Model{
		rec:      driver.NewRecorder(driver.New(w), seed),
		pace:     pace,
		pilot:    opts.Pilot,
		store:    opts.Store,
		logger:   logger,
		canvas:   newCanvas(rt.ScreenW, rt.ScreenH, game.CoreTheme(), game.Rules().WallBound, DefaultKeyMap()),
		interval: interval,
	}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.interval)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.canvas.resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()

	case replaySavedMsg:
		if msg.err != nil {
			m.logger.Warn("could not save replay", "error", msg.err)
			m.note = "replay not saved"
		} else {
			m.note = "replay " + shortID(msg.id) + " saved"
		}
		return m, nil
	}

	return m, nil
}

// handleKey forwards steering and restart requests to the driver at once.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.canvas.keys.Action(msg)

	switch action {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit

	case core.ActionPause:
		if m.rec.Snapshot().State == world.Playing {
			m.paused = !m.paused
		}

	case core.ActionRestart:
		if m.rec.RequestRestart() {
			m.saved = false
			m.paused = false
			m.note = ""
		}

	default:
		if dir, ok := actionDirection(action); ok && !m.paused {
			m.rec.SetDirection(dir)
		}
	}
	return m, nil
}

// handleTick runs one simulation step unless paused. The next tick is
// scheduled with the interval the difficulty manager derives from the
// score.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.paused {
		return m, tickCmd(m.interval)
	}

	if m.pilot != nil && m.rec.Snapshot().State == world.Playing {
		dir, err := m.pilot.Next(m.rec.Snapshot())
		if err != nil {
			m.logger.Error("autopilot failed", "pilot", m.pilot.Name(), "error", err)
			m.pilot = nil
		} else {
			m.rec.SetDirection(dir)
		}
	}

	m.rec.Tick()
	snap := m.rec.Snapshot()
	m.interval = m.pace.Interval(snap.Score, snap.Tick)

	var save tea.Cmd
	if snap.State == world.GameOver && !m.saved {
		m.saved = true
		save = m.saveReplay(snap)
	}

	return m, tea.Batch(tickCmd(m.interval), save)
}

// saveReplay journals the session so far, best-effort.
func (m Model) saveReplay(snap world.Snapshot) tea.Cmd {
	if m.store == nil {
		return nil
	}

	r := storage.ReplayFromJournal(m.rec.Journal(), snap.Score)
	r.IntervalMS = int(m.pace.Interval(0, 0) / time.Millisecond)
	r.Source = "play"
	if m.pilot != nil {
		r.Pilot = m.pilot.Name()
	}

	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		id, err := store.SaveReplay(ctx, r)
		return replaySavedMsg{id: id, err: err}
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	st := Status{Paused: m.paused, Note: m.note}
	if m.pilot != nil {
		st.Pilot = m.pilot.Name()
	}
	return m.canvas.render(m.rec.Snapshot(), st)
}

// Snapshot returns the current world state.
func (m Model) Snapshot() world.Snapshot {
	return m.rec.Snapshot()
}

// Run starts the Bubble Tea program for a local game and returns the final
// snapshot.
func Run(opts Options) (world.Snapshot, error) {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return world.Snapshot{}, fmt.Errorf("tui: %w", err)
	}
	m, ok := final.(Model)
	if !ok {
		return world.Snapshot{}, nil
	}
	return m.Snapshot(), nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
