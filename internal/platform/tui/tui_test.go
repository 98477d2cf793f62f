package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/snake3d/internal/config"
	"github.com/vovakirdan/snake3d/internal/core"
	"github.com/vovakirdan/snake3d/internal/driver"
	"github.com/vovakirdan/snake3d/internal/storage"
	"github.com/vovakirdan/snake3d/internal/world"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestKeyMapActions(t *testing.T) {
	keys := DefaultKeyMap()

	tests := []struct {
		name string
		msg  tea.KeyMsg
		want core.Action
	}{
		{"arrow up", tea.KeyMsg{Type: tea.KeyUp}, core.ActionUp},
		{"arrow left", tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft},
		{"w", runeKey('w'), core.ActionUp},
		{"a", runeKey('a'), core.ActionLeft},
		{"s", runeKey('s'), core.ActionDown},
		{"d", runeKey('d'), core.ActionRight},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, core.ActionRestart},
		{"p", runeKey('p'), core.ActionPause},
		{"q", runeKey('q'), core.ActionQuit},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit},
		{"unbound", runeKey('z'), core.ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := keys.Action(tt.msg); got != tt.want {
				t.Errorf("Action(%q) = %v, expected %v", tt.msg.String(), got, tt.want)
			}
		})
	}
}

func TestSessionKeyMapDisablesPause(t *testing.T) {
	if got := sessionKeyMap().Action(runeKey('p')); got != core.ActionNone {
		t.Errorf("pause in a session = %v, expected None", got)
	}
}

func TestActionDirection(t *testing.T) {
	if d, ok := actionDirection(core.ActionRight); !ok || d != world.Right {
		t.Errorf("actionDirection(Right) = %v, %v", d, ok)
	}
	if _, ok := actionDirection(core.ActionPause); ok {
		t.Error("pause should not map to a direction")
	}
}

func newTestWorld() *world.World {
	return world.New(world.Config{Seed: 1, Obstacles: world.DefaultObstacles()})
}

func TestDrawArena(t *testing.T) {
	s := core.NewScreen(80, 24)
	theme := core.DefaultTheme()
	snap := newTestWorld().Snapshot()

	DrawArena(s, snap, theme, 10, Status{})

	hud := s.Row(0)
	if !strings.Contains(hud, "Score: 0") || !strings.Contains(hud, "High Score: 0") {
		t.Errorf("HUD row = %q", hud)
	}

	proj := core.NewProjection(10, 80, 24, 1)

	col, row := proj.Cell(0, 0)
	for _, c := range []int{col, col + 1} {
		if got := s.GetCell(c, row); got.Rune != glyphHead || got.Color != theme.Head {
			t.Errorf("head cell at (%d, %d) = %+v", c, row, got)
		}
	}

	col, row = proj.Cell(0, 1)
	if got := s.GetCell(col, row); got.Rune != glyphBody || got.Color != theme.Body {
		t.Errorf("body cell = %+v", got)
	}

	for _, a := range snap.Apples {
		x, z := a.Coords()
		col, row := proj.Cell(x, z)
		if got := s.GetCell(col, row); got.Rune != glyphApple {
			t.Errorf("apple at (%v, %v) drawn as %q", x, z, got.Rune)
		}
	}

	if got := s.GetCell(proj.Origin.X+5, proj.Origin.Y); got.Rune != glyphWall || got.Color != theme.Wall {
		t.Errorf("north wall cell = %+v", got)
	}

	if strings.Contains(s.String(), "GAME OVER") {
		t.Error("overlay drawn while playing")
	}
}

func TestDrawArenaGameOver(t *testing.T) {
	d := driver.New(newTestWorld())
	for range 10 {
		d.Tick()
	}
	snap := d.Snapshot()
	if snap.State != world.GameOver {
		t.Fatalf("state = %v, expected game over", snap.State)
	}

	s := core.NewScreen(80, 24)
	DrawArena(s, snap, core.DefaultTheme(), 10, Status{Note: "replay abc saved"})

	out := s.String()
	for _, want := range []string{"GAME OVER", "Press SPACE to restart", "High Score:", "replay abc saved"} {
		if !strings.Contains(out, want) {
			t.Errorf("screen is missing %q", want)
		}
	}
}

func TestDrawArenaPausedAndPilot(t *testing.T) {
	s := core.NewScreen(80, 24)
	DrawArena(s, newTestWorld().Snapshot(), core.DefaultTheme(), 10, Status{Paused: true, Pilot: "greedy"})

	out := s.String()
	if !strings.Contains(out, "PAUSED") {
		t.Error("paused overlay missing")
	}
	if !strings.Contains(s.Row(0), "autopilot: greedy") {
		t.Errorf("HUD row = %q", s.Row(0))
	}
}

func TestDrawArenaTinyScreen(t *testing.T) {
	// Must not panic when the board does not fit.
	s := core.NewScreen(10, 3)
	DrawArena(s, newTestWorld().Snapshot(), core.DefaultTheme(), 10, Status{})
}

func testModel(t *testing.T) Model {
	t.Helper()
	return NewModel(Options{
		Game:    config.DefaultSnakeConfig(),
		Runtime: core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 3},
	})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm
}

func TestModelTicksAndSteers(t *testing.T) {
	m := testModel(t)

	m = update(t, m, TickMsg(time.Now()))
	if got := m.Snapshot().Tick; got != 1 {
		t.Fatalf("ticks = %d, expected 1", got)
	}

	m = update(t, m, runeKey('a'))
	if got := m.Snapshot().Direction; got != world.Left {
		t.Errorf("direction = %v, expected left", got)
	}

	// Reversing is rejected by the world.
	m = update(t, m, runeKey('d'))
	if got := m.Snapshot().Direction; got != world.Left {
		t.Errorf("direction = %v after reverse, expected left", got)
	}

	if !strings.Contains(m.View(), "Score: 0") {
		t.Error("view is missing the score")
	}
}

func TestModelPause(t *testing.T) {
	m := testModel(t)

	m = update(t, m, runeKey('p'))
	m = update(t, m, TickMsg(time.Now()))
	m = update(t, m, runeKey('a'))
	snap := m.Snapshot()
	if snap.Tick != 0 {
		t.Errorf("ticks while paused = %d, expected 0", snap.Tick)
	}
	if snap.Direction != world.Up {
		t.Errorf("steering applied while paused: %v", snap.Direction)
	}

	m = update(t, m, runeKey('p'))
	m = update(t, m, TickMsg(time.Now()))
	if got := m.Snapshot().Tick; got != 1 {
		t.Errorf("ticks after resume = %d, expected 1", got)
	}
}

func TestModelRestartAfterGameOver(t *testing.T) {
	m := testModel(t)

	// Space does nothing mid-round.
	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if m.Snapshot().State != world.Playing {
		t.Fatal("restart changed a running round")
	}

	for range 10 {
		m = update(t, m, TickMsg(time.Now()))
	}
	if m.Snapshot().State != world.GameOver {
		t.Fatalf("state = %v, expected game over", m.Snapshot().State)
	}
	if !m.saved {
		t.Error("game over should be marked as saved")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if m.Snapshot().State != world.Playing {
		t.Errorf("state = %v after restart, expected playing", m.Snapshot().State)
	}
	if m.saved {
		t.Error("saved flag should reset on restart")
	}
}

func TestModelSavesReplay(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "replays.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	m := NewModel(Options{
		Game:    config.DefaultSnakeConfig(),
		Runtime: core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 9},
		Store:   store,
	})
	m = update(t, m, runeKey('a'))
	for range 10 {
		m = update(t, m, TickMsg(time.Now()))
	}
	snap := m.Snapshot()
	if snap.State != world.GameOver {
		t.Fatalf("state = %v, expected game over", snap.State)
	}

	msg, ok := m.saveReplay(snap)().(replaySavedMsg)
	if !ok || msg.err != nil {
		t.Fatalf("save = %+v", msg)
	}

	r, err := store.ReplayByID(context.Background(), msg.id)
	if err != nil || r == nil {
		t.Fatalf("ReplayByID = %v, %v", r, err)
	}
	if r.Seed != 9 || r.Ticks != 10 || r.Source != "play" || len(r.Inputs) != 1 {
		t.Errorf("replay = %+v", r)
	}

	replayed := driver.Replay(r.Journal(), world.Config{}).Snapshot()
	if replayed.Score != snap.Score || replayed.Head() != snap.Head() {
		t.Errorf("replayed %+v, expected %+v", replayed, snap)
	}

	m = update(t, m, msg)
	if !strings.Contains(m.View(), "saved") {
		t.Error("view should confirm the save")
	}
}

func TestPublishFramesKeepsJournal(t *testing.T) {
	d := driver.New(newTestWorld())
	rec := driver.NewRecorder(d, 1)
	out := make(chan frameMsg, 1)
	publish := publishFrames(rec, out)

	publish(rec.Snapshot())
	for range 10 {
		rec.Tick()
	}
	over := rec.Snapshot()
	publish(over)
	// A later frame replaces the unread one but keeps its journal.
	publish(over)

	f := <-out
	if f.journal == nil {
		t.Fatal("journal lost")
	}
	if f.journal.Ticks != 10 || f.journal.Seed != 1 {
		t.Errorf("journal = %+v", f.journal)
	}
	select {
	case extra := <-out:
		t.Errorf("unexpected extra frame %+v", extra)
	default:
	}

	publish(over)
	if f := <-out; f.journal != nil {
		t.Error("journal should be attached once per round")
	}
}

func TestSessionModelPlays(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := NewSessionModel(ctx, SessionOptions{
		Game:    config.DefaultSnakeConfig(),
		Runtime: core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 2},
		User:    "tester",
	})

	done := make(chan tea.Msg, 1)
	go func() { done <- m.runLoop()() }()

	first, ok := m.waitForFrame()().(frameMsg)
	if !ok {
		t.Fatal("expected a frame")
	}
	if first.snap.State != world.Playing || len(first.snap.Snake) < 3 {
		t.Errorf("first frame = %+v", first.snap)
	}

	next, _ := m.Update(first)
	sm := next.(SessionModel)
	if !strings.Contains(sm.View(), "Score: 0") {
		t.Error("view is missing the score")
	}

	// Quitting cancels the loop.
	next, _ = sm.Update(runeKey('q'))
	if !next.(SessionModel).quitting {
		t.Error("quit key ignored")
	}
	select {
	case msg := <-done:
		if d, ok := msg.(loopDoneMsg); !ok || d.err != nil {
			t.Errorf("loop ended with %+v", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
}

func TestDifficultyMenu(t *testing.T) {
	m := NewDifficultyMenuModel(80, 24)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, _ = next.(DifficultyMenuModel).Update(tea.KeyMsg{Type: tea.KeyEnter})
	sel := next.(DifficultyMenuModel).Selected()
	if sel == nil || *sel != config.DifficultyHard {
		t.Errorf("selected = %v, expected hard", sel)
	}

	next, _ = NewDifficultyMenuModel(80, 24).Update(runeKey('q'))
	if next.(DifficultyMenuModel).Selected() != nil {
		t.Error("quit should not select")
	}
}

func TestReplayBrowser(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "replays.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	first, err := store.SaveReplay(ctx, storage.Replay{Seed: 1, Ticks: 10, Score: 2, Source: "play"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.SaveReplay(ctx, storage.Replay{Seed: 2, Ticks: 20, Score: 4, Source: "simulate", Pilot: "greedy"}); err != nil {
		t.Fatal(err)
	}

	m := NewReplayBrowserModel(store, 100, 30)
	if len(m.replays) != 2 {
		t.Fatalf("loaded %d replays, expected 2", len(m.replays))
	}
	if !strings.Contains(m.View(), "greedy") {
		t.Error("view is missing the pilot column")
	}

	// Newest first: delete the simulated one, then pick what is left.
	next, _ := m.Update(runeKey('x'))
	m = next.(ReplayBrowserModel)
	if len(m.replays) != 1 {
		t.Fatalf("%d replays after delete, expected 1", len(m.replays))
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got := next.(ReplayBrowserModel).Selected(); got != first {
		t.Errorf("selected %q, expected %q", got, first)
	}
}
