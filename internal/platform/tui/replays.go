package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/snake3d/internal/storage"
)

// maxReplays is how many recent replays the browser loads.
const maxReplays = 100

// ReplayKeyMap defines the key bindings for the replay browser.
type ReplayKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Delete key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ReplayKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Delete, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ReplayKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Select, k.Delete, k.Quit},
	}
}

// DefaultReplayKeyMap returns default key bindings.
func DefaultReplayKeyMap() ReplayKeyMap {
	return ReplayKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "verify"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "delete"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ReplayBrowserModel lists saved replays in a table.
type ReplayBrowserModel struct {
	store    *storage.Store
	replays  []storage.Replay
	table    table.Model
	help     help.Model
	keys     ReplayKeyMap
	width    int
	height   int
	err      error
	selected string
	quitting bool
}

// NewReplayBrowserModel creates a browser and loads the most recent replays.
func NewReplayBrowserModel(store *storage.Store, width, height int) ReplayBrowserModel {
	h := help.New()
	h.ShowAll = false

	m := ReplayBrowserModel{
		store:  store,
		keys:   DefaultReplayKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.loadReplays()
	return m
}

func (m *ReplayBrowserModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 10},
		{Title: "Score", Width: 7},
		{Title: "Ticks", Width: 8},
		{Title: "Inputs", Width: 7},
		{Title: "Source", Width: 8},
		{Title: "Pilot", Width: 14},
		{Title: "Date", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-8)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func (m *ReplayBrowserModel) loadReplays() {
	m.replays, m.err = nil, nil
	if m.store != nil {
		m.replays, m.err = m.store.RecentReplays(context.Background(), maxReplays)
	}
	m.updateTableRows()
}

func (m *ReplayBrowserModel) updateTableRows() {
	rows := make([]table.Row, len(m.replays))
	for i, r := range m.replays {
		pilot := r.Pilot
		if pilot == "" {
			pilot = "-"
		}
		rows[i] = table.Row{
			shortID(r.ID),
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("%d", r.Ticks),
			fmt.Sprintf("%d", r.NumInputs),
			r.Source,
			pilot,
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
}

// Init initializes the browser.
func (m ReplayBrowserModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the browser.
func (m ReplayBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Select):
			if i := m.table.Cursor(); i >= 0 && i < len(m.replays) {
				m.selected = m.replays[i].ID
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, m.keys.Delete):
			if i := m.table.Cursor(); i >= 0 && i < len(m.replays) && m.store != nil {
				if err := m.store.DeleteReplay(context.Background(), m.replays[i].ID); err != nil {
					m.err = err
					return m, nil
				}
				m.loadReplays()
				if i >= len(m.replays) && i > 0 {
					m.table.SetCursor(i - 1)
				}
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the browser.
func (m ReplayBrowserModel) View() string {
	if m.quitting || m.selected != "" {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)
	b.WriteString(titleStyle.Render(centerText("REPLAYS", m.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(centerText(tableStyle.Render(m.renderTableContent()), m.width))

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m ReplayBrowserModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.err != nil:
		return emptyStyle.Render("Could not read replays:\n" + m.err.Error())
	case len(m.replays) == 0:
		return emptyStyle.Render("No replays recorded yet.\nFinish a game to record one!")
	}
	return m.table.View()
}

// Selected returns the ID of the replay picked with enter, if any.
func (m ReplayBrowserModel) Selected() string {
	return m.selected
}

// RunReplayBrowser runs the browser and returns the selected replay ID,
// or "" when the user quit without choosing.
func RunReplayBrowser(store *storage.Store, width, height int) (string, error) {
	p := tea.NewProgram(NewReplayBrowserModel(store, width, height), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("tui: %w", err)
	}
	m, ok := final.(ReplayBrowserModel)
	if !ok {
		return "", nil
	}
	return m.Selected(), nil
}

// centerText pads s so it is centered in width columns.
func centerText(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	pad := (width - w) / 2
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.Repeat(" ", pad) + l
	}
	return strings.Join(lines, "\n")
}
