package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/snake3d/internal/core"
	"github.com/vovakirdan/snake3d/internal/world"
)

// KeyMap defines the in-game key bindings.
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Restart key.Binding
	Pause   key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Restart, k.Pause, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Restart, k.Pause, k.Quit},
	}
}

// DefaultKeyMap returns arrows or WASD to steer, SPACE to restart.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "w"),
			key.WithHelp("←↑→↓/wasd", "steer"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "s"),
			key.WithHelp("↓/s", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "a"),
			key.WithHelp("←/a", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d"),
			key.WithHelp("→/d", "right"),
		),
		Restart: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "restart"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Action translates a key message into a game action.
// Disabled bindings never match.
func (k KeyMap) Action(msg tea.KeyMsg) core.Action {
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit
	case key.Matches(msg, k.Up):
		return core.ActionUp
	case key.Matches(msg, k.Down):
		return core.ActionDown
	case key.Matches(msg, k.Left):
		return core.ActionLeft
	case key.Matches(msg, k.Right):
		return core.ActionRight
	case key.Matches(msg, k.Restart):
		return core.ActionRestart
	case key.Matches(msg, k.Pause):
		return core.ActionPause
	}
	return core.ActionNone
}

// actionDirection maps a steering action to a heading.
func actionDirection(a core.Action) (world.Direction, bool) {
	switch a {
	case core.ActionUp:
		return world.Up, true
	case core.ActionDown:
		return world.Down, true
	case core.ActionLeft:
		return world.Left, true
	case core.ActionRight:
		return world.Right, true
	}
	return world.Up, false
}
