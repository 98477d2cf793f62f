package world

// Snapshot is a read-only copy of the world between ticks.
type Snapshot struct {
	Snake     []Pos // head first
	Apples    []Pos // active apples only
	Obstacles []Obstacle
	Direction Direction
	Score     int
	HighScore int
	State     GameState
	Tick      uint64 // stamped by the driver; zero from World.Snapshot
}

// Head returns the head position, or the zero Pos for an empty snake.
func (s Snapshot) Head() Pos {
	if len(s.Snake) == 0 {
		return Pos{}
	}
	return s.Snake[0]
}

// Snapshot copies the current state for presentation code.
func (w *World) Snapshot() Snapshot {
	return Snapshot{
		Snake:     w.Snake(),
		Apples:    w.ApplePositions(),
		Obstacles: w.Obstacles(),
		Direction: w.direction,
		Score:     w.score,
		HighScore: w.highScore,
		State:     w.state,
	}
}

// Snake returns a copy of the body, head first.
func (w *World) Snake() []Pos {
	return append([]Pos(nil), w.snake...)
}

// Apples returns a copy of the active apples.
func (w *World) Apples() []Apple {
	out := make([]Apple, 0, len(w.apples))
	for _, a := range w.apples {
		if a.Active {
			out = append(out, a)
		}
	}
	return out
}

// ApplePositions returns the positions of the active apples.
func (w *World) ApplePositions() []Pos {
	out := make([]Pos, 0, len(w.apples))
	for _, a := range w.apples {
		if a.Active {
			out = append(out, a.Pos)
		}
	}
	return out
}

// Obstacles returns a copy of the decorative walls.
func (w *World) Obstacles() []Obstacle {
	return append([]Obstacle(nil), w.obstacles...)
}

// Score returns the current round's score.
func (w *World) Score() int { return w.score }

// HighScore returns the best score since the world was created.
func (w *World) HighScore() int { return w.highScore }

// State returns the game state.
func (w *World) State() GameState { return w.state }

// Direction returns the current heading.
func (w *World) Direction() Direction { return w.direction }

// Rules returns the arena constants.
func (w *World) Rules() Rules { return w.rules }
