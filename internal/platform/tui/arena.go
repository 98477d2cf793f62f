package tui

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/snake3d/internal/core"
	"github.com/vovakirdan/snake3d/internal/world"
)

// Board glyphs. Each arena cell is two columns wide.
const (
	glyphFloor = '·'
	glyphWall  = '█'
	glyphBlock = '▒'
	glyphBody  = '█'
	glyphHead  = '▓'
	glyphApple = '●'
)

// Status is presentation state drawn over the board.
type Status struct {
	Paused bool
	Pilot  string // autopilot name, empty for a human player
	Note   string // one-line message under the board
}

// DrawArena paints a top-down view of snap onto s: HUD on row 0, the board
// centered below it and an overlay when the round is over or paused.
func DrawArena(s *core.Screen, snap world.Snapshot, theme core.Theme, bound int, st Status) {
	s.Clear()
	proj := core.NewProjection(bound, s.Width(), s.Height(), 1)

	drawHUD(s, snap, theme, st)

	s.DrawRect(proj.Origin, glyphFloor, theme.Floor)
	for _, o := range snap.Obstacles {
		glyph, color := glyphBlock, theme.Obstacle
		if math.Abs(o.X) >= float64(bound) || math.Abs(o.Z) >= float64(bound) {
			glyph, color = glyphWall, theme.Wall
		}
		s.DrawRect(proj.Span(o.X, o.Z, o.Width, o.Depth), glyph, color)
	}

	for _, a := range snap.Apples {
		x, z := a.Coords()
		col, row := proj.Cell(x, z)
		s.SetColored(col, row, glyphApple, theme.Apple)
	}

	// Tail first so the head is never hidden by an overlapping segment.
	for i := len(snap.Snake) - 1; i >= 0; i-- {
		glyph, color := glyphBody, theme.Body
		if i == 0 {
			glyph, color = glyphHead, theme.Head
		}
		x, z := snap.Snake[i].Coords()
		col, row := proj.Cell(x, z)
		s.SetColored(col, row, glyph, color)
		s.SetColored(col+1, row, glyph, color)
	}

	switch {
	case snap.State == world.GameOver:
		drawOverlay(s, proj.Origin, theme, theme.Alert,
			"GAME OVER",
			fmt.Sprintf("Score: %d", snap.Score),
			fmt.Sprintf("High Score: %d", snap.HighScore),
			"Press SPACE to restart",
		)
	case st.Paused:
		drawOverlay(s, proj.Origin, theme, theme.Text, "PAUSED", "Press P to resume")
	}

	if st.Note != "" {
		s.DrawTextCentered(proj.Origin.Bottom(), st.Note, theme.Text)
	}
}

func drawHUD(s *core.Screen, snap world.Snapshot, theme core.Theme, st Status) {
	s.DrawText(1, 0, fmt.Sprintf("Score: %d", snap.Score), theme.Text)

	high := fmt.Sprintf("High Score: %d", snap.HighScore)
	s.DrawText(s.Width()-utf8.RuneCountInString(high)-1, 0, high, theme.Text)

	if st.Pilot != "" {
		s.DrawTextCentered(0, "autopilot: "+st.Pilot, theme.Alert)
	}
}

// drawOverlay draws a boxed message centered on the board. The first line
// is the title.
func drawOverlay(s *core.Screen, board core.Rect, theme core.Theme, titleColor core.Color, lines ...string) {
	width := 0
	for _, l := range lines {
		width = max(width, utf8.RuneCountInString(l))
	}
	box := core.NewRect(0, 0, width+4, len(lines)+2)
	box.X = board.X + (board.W-box.W)/2
	box.Y = board.Y + (board.H-box.H)/2

	s.DrawRect(box, ' ', core.ColorDefault)
	s.DrawBox(box, theme.Text)
	for i, l := range lines {
		c := theme.Text
		if i == 0 {
			c = titleColor
		}
		x := box.X + (box.W-utf8.RuneCountInString(l))/2
		s.DrawText(x, box.Y+1+i, l, c)
	}
}

// canvas holds what both the local and the SSH models need to draw a frame.
type canvas struct {
	screen *core.Screen
	theme  core.Theme
	bound  int
	keys   KeyMap
	help   help.Model
}

func newCanvas(width, height int, theme core.Theme, bound int, keys KeyMap) canvas {
	h := help.New()
	h.Width = width
	c := canvas{
		screen: core.NewScreen(width, max(0, height-1)),
		theme:  theme,
		bound:  bound,
		keys:   keys,
		help:   h,
	}
	return c
}

// resize keeps the last row free for the help line.
func (c *canvas) resize(width, height int) {
	c.screen.Resize(width, max(0, height-1))
	c.help.Width = width
}

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

func (c canvas) render(snap world.Snapshot, st Status) string {
	DrawArena(c.screen, snap, c.theme, c.bound, st)

	var b strings.Builder
	b.WriteString(RenderScreen(c.screen))
	b.WriteString("\n ")
	b.WriteString(helpStyle.Render(c.help.View(c.keys)))
	return b.String()
}
