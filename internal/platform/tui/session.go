package tui

import (
	"context"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/snake3d/internal/config"
	"github.com/vovakirdan/snake3d/internal/core"
	"github.com/vovakirdan/snake3d/internal/driver"
	"github.com/vovakirdan/snake3d/internal/storage"
	"github.com/vovakirdan/snake3d/internal/world"
)

// frameMsg carries a snapshot published by the session's loop.
type frameMsg struct {
	snap    world.Snapshot
	journal *driver.Journal // set once per finished round
}

// loopDoneMsg is sent when the session's loop returns.
type loopDoneMsg struct {
	err error
}

// SessionOptions configures a remote game session.
type SessionOptions struct {
	Game    config.SnakeConfig
	Runtime core.RuntimeConfig
	Store   *storage.Store
	Logger  *log.Logger
	User    string
}

// SessionModel is the top-level model for an SSH session. Unlike the local
// Model, the simulation runs on a driver.Loop goroutine paced by a ticker;
// the model only sends commands and draws the frames it is handed.
type SessionModel struct {
	id         string
	ctx        context.Context
	cancel     context.CancelFunc
	loop       *driver.Loop
	frames     chan frameMsg
	snap       world.Snapshot
	store      *storage.Store
	logger     *log.Logger
	canvas     canvas
	intervalMS int
	note       string
	quitting   bool
}

// NewSessionModel creates a session bound to ctx. The loop stops when ctx
// is done or the player quits.
func NewSessionModel(ctx context.Context, opts SessionOptions) SessionModel {
	id := uuid.NewString()
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	logger = logger.With("session", shortID(id), "user", opts.User)

	rt := opts.Runtime
	seed := rt.ResolveSeed()
	w := world.New(world.Config{
		Rules:     opts.Game.Rules(),
		Obstacles: opts.Game.WorldObstacles(),
		Seed:      seed,
		Logger:    logger,
	})
	rec := driver.NewRecorder(driver.New(w), seed)

	pace := config.NewDifficultyManager(opts.Game)
	interval := pace.Interval(0, 0)

	ctx, cancel := context.WithCancel(ctx)
	frames := make(chan frameMsg, 1)
	loop := driver.NewLoop(rec, driver.NewTickerScheduler(interval),
		driver.WithPublisher(publishFrames(rec, frames)),
		driver.WithPace(pace.ScorePace),
		driver.WithLogger(logger),
	)

	return SessionModel{
		id:         id,
		ctx:        ctx,
		cancel:     cancel,
		loop:       loop,
		frames:     frames,
		snap:       rec.Snapshot(),
		store:      opts.Store,
		logger:     logger,
		canvas:     newCanvas(rt.ScreenW, rt.ScreenH, opts.Game.CoreTheme(), opts.Game.Rules().WallBound, sessionKeyMap()),
		intervalMS: int(interval / time.Millisecond),
	}
}

// sessionKeyMap disables pause: the loop's clock keeps running for remote
// players.
func sessionKeyMap() KeyMap {
	keys := DefaultKeyMap()
	keys.Pause.SetEnabled(false)
	return keys
}

// publishFrames runs on the loop goroutine. It never blocks: a frame the
// UI has not picked up yet is replaced, keeping any journal it carried.
func publishFrames(rec *driver.Recorder, out chan frameMsg) func(world.Snapshot) {
	prev := world.Playing
	return func(snap world.Snapshot) {
		f := frameMsg{snap: snap}
		if snap.State == world.GameOver && prev == world.Playing {
			j := rec.Journal()
			f.journal = &j
		}
		prev = snap.State

		select {
		case out <- f:
			return
		default:
		}
		select {
		case old := <-out:
			if f.journal == nil {
				f.journal = old.journal
			}
		default:
		}
		select {
		case out <- f:
		default:
		}
	}
}

// Init starts the loop and waits for its first frame.
func (m SessionModel) Init() tea.Cmd {
	return tea.Batch(m.runLoop(), m.waitForFrame())
}

func (m SessionModel) runLoop() tea.Cmd {
	loop, ctx, frames := m.loop, m.ctx, m.frames
	return func() tea.Msg {
		err := loop.Run(ctx)
		close(frames)
		return loopDoneMsg{err: err}
	}
}

// waitForFrame returns a command that waits for the next published frame.
func (m SessionModel) waitForFrame() tea.Cmd {
	frames := m.frames
	return func() tea.Msg {
		f, ok := <-frames
		if !ok {
			return nil
		}
		return f
	}
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.canvas.resize(msg.Width, msg.Height)
		return m, nil

	case frameMsg:
		m.snap = msg.snap
		if m.snap.State == world.Playing {
			m.note = ""
		}
		var save tea.Cmd
		if msg.journal != nil {
			save = m.saveReplay(*msg.journal, msg.snap.Score)
		}
		return m, tea.Batch(m.waitForFrame(), save)

	case replaySavedMsg:
		if msg.err != nil {
			m.logger.Warn("could not save replay", "error", msg.err)
		} else {
			m.note = "replay " + shortID(msg.id) + " saved"
		}
		return m, nil

	case loopDoneMsg:
		if msg.err != nil {
			m.logger.Error("loop failed", "error", msg.err)
		}
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// handleKey turns keys into loop commands.
func (m SessionModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.canvas.keys.Action(msg)

	var cmd driver.Command
	switch action {
	case core.ActionQuit:
		m.quitting = true
		m.cancel()
		return m, tea.Quit
	case core.ActionRestart:
		cmd = driver.Restart()
	default:
		dir, ok := actionDirection(action)
		if !ok {
			return m, nil
		}
		cmd = driver.Turn(dir)
	}

	if err := m.loop.Send(m.ctx, cmd); err != nil {
		m.logger.Debug("command dropped", "kind", cmd.Kind, "error", err)
	}
	return m, nil
}

func (m SessionModel) saveReplay(j driver.Journal, score int) tea.Cmd {
	if m.store == nil {
		return nil
	}

	r := storage.ReplayFromJournal(j, score)
	r.IntervalMS = m.intervalMS
	r.Source = "ssh"

	store, parent := m.store, m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), saveTimeout)
		defer cancel()
		id, err := store.SaveReplay(ctx, r)
		return replaySavedMsg{id: id, err: err}
	}
}

// View renders the latest frame.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	return m.canvas.render(m.snap, Status{Note: m.note})
}

// ID returns the session ID.
func (m SessionModel) ID() string {
	return m.id
}
