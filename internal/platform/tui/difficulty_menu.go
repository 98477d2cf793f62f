package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/snake3d/internal/config"
)

type difficultyOption struct {
	preset config.DifficultyPreset
	label  string
}

var difficultyOptions = []difficultyOption{
	{config.DifficultyEasy, "Easy     (slow, speeds up)"},
	{config.DifficultyNormal, "Normal   (speeds up with score)"},
	{config.DifficultyHard, "Hard     (fast, speeds up)"},
	{config.DifficultyFixed, "Classic  (fixed 150ms tick)"},
}

// menuKeys are the bindings of the difficulty picker.
type menuKeys struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Quit   key.Binding
}

func defaultMenuKeys() menuKeys {
	return menuKeys{
		Up:     key.NewBinding(key.WithKeys("up", "w", "k")),
		Down:   key.NewBinding(key.WithKeys("down", "s", "j")),
		Select: key.NewBinding(key.WithKeys("enter", " ")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c")),
	}
}

// DifficultyMenuModel lets the player choose a difficulty preset before a
// local game.
type DifficultyMenuModel struct {
	cursor   int
	width    int
	height   int
	keys     menuKeys
	selected *config.DifficultyPreset
	quitting bool
}

// NewDifficultyMenuModel creates a picker with normal preselected.
func NewDifficultyMenuModel(width, height int) DifficultyMenuModel {
	return DifficultyMenuModel{
		cursor: 1,
		width:  width,
		height: height,
		keys:   defaultMenuKeys(),
	}
}

// Init initializes the model.
func (m DifficultyMenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m DifficultyMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(difficultyOptions)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Select):
			p := difficultyOptions[m.cursor].preset
			m.selected = &p
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

// View renders the preset list.
func (m DifficultyMenuModel) View() string {
	if m.quitting || m.selected != nil {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("S N A K E  3 D", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select difficulty:", m.width))
	b.WriteString("\n\n")

	for i, opt := range difficultyOptions {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(fmt.Sprintf("%s%-32s", cursor, opt.label), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Q: Quit", m.width))

	return b.String()
}

// Selected returns the chosen preset, or nil while choosing or after quit.
func (m DifficultyMenuModel) Selected() *config.DifficultyPreset {
	return m.selected
}

// RunDifficultyMenu shows the picker. It returns nil when the user quit.
func RunDifficultyMenu(width, height int) (*config.DifficultyPreset, error) {
	p := tea.NewProgram(NewDifficultyMenuModel(width, height), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}
	m, ok := final.(DifficultyMenuModel)
	if !ok {
		return nil, nil
	}
	return m.Selected(), nil
}
