package core

import "strings"

// Color is a foreground color for a screen cell.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorOrange
	ColorGray
	ColorDarkGray
)

var colorNames = map[string]Color{
	"default":       ColorDefault,
	"red":           ColorRed,
	"green":         ColorGreen,
	"yellow":        ColorYellow,
	"blue":          ColorBlue,
	"magenta":       ColorMagenta,
	"cyan":          ColorCyan,
	"white":         ColorWhite,
	"bright_red":    ColorBrightRed,
	"bright_green":  ColorBrightGreen,
	"bright_yellow": ColorBrightYellow,
	"orange":        ColorOrange,
	"gray":          ColorGray,
	"dark_gray":     ColorDarkGray,
}

// ParseColor looks up a color by its config name ("bright_green", "gray").
func ParseColor(name string) (Color, bool) {
	c, ok := colorNames[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// Theme assigns a color to every kind of thing drawn in the arena.
type Theme struct {
	Head     Color
	Body     Color
	Apple    Color
	Wall     Color
	Obstacle Color
	Floor    Color
	Text     Color
	Alert    Color
}

// DefaultTheme is the classic look: green snake with a brighter
// head, red apples, gray walls and a brown-ish interior.
func DefaultTheme() Theme {
	return Theme{
		Head:     ColorBrightGreen,
		Body:     ColorGreen,
		Apple:    ColorBrightRed,
		Wall:     ColorGray,
		Obstacle: ColorOrange,
		Floor:    ColorDarkGray,
		Text:     ColorWhite,
		Alert:    ColorBrightYellow,
	}
}
