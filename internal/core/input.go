package core

// Action is a semantic input, decoupled from the physical key.
type Action int

const (
	ActionNone Action = iota
	ActionUp
	ActionDown
	ActionLeft
	ActionRight
	ActionRestart // SPACE once the round is over
	ActionPause
	ActionQuit
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionRestart:
		return "Restart"
	case ActionPause:
		return "Pause"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// IsDirection reports whether a steers the snake.
func (a Action) IsDirection() bool {
	return a >= ActionUp && a <= ActionRight
}
