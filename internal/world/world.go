// Package world owns the arena simulation state: the snake, the apples,
// the score and the game state. It has no timing and no rendering; a
// driver calls into it once per tick and presentation code reads snapshots.
package world

import (
	"io"
	"math"
	"math/rand"

	"github.com/charmbracelet/log"
)

// GameState is the top-level state of a round.
type GameState int

const (
	Playing GameState = iota
	GameOver
)

func (s GameState) String() string {
	switch s {
	case Playing:
		return "playing"
	case GameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Apple is a pickup placed in the middle of a cell.
type Apple struct {
	Pos    Pos
	Active bool
}

// Rules holds the arena constants. All distances are in cells.
type Rules struct {
	WallBound     int     // head collides at x or z <= -WallBound or >= WallBound
	AppleMargin   float64 // apples lie strictly inside (-AppleMargin, AppleMargin)
	SpawnRange    int     // candidate cells are drawn from [-SpawnRange, SpawnRange)
	MaxApples     int
	SpawnAttempts int
	PickupRadius  float64 // head eats an apple closer than this
	SnakeSpacing  float64 // minimum apple distance from any segment at spawn
	AppleSpacing  float64 // minimum distance between apples at spawn
}

// DefaultRules returns the reference arena.
func DefaultRules() Rules {
	return Rules{
		WallBound:     10,
		AppleMargin:   9.5,
		SpawnRange:    8,
		MaxApples:     3,
		SpawnAttempts: 100,
		PickupRadius:  0.8,
		SnakeSpacing:  1.0,
		AppleSpacing:  2.0,
	}
}

// Obstacle is a decorative wall block. Center and size are in cells.
// The simulation never collides against obstacles.
type Obstacle struct {
	X, Z  float64
	Width float64
	Depth float64
}

// DefaultObstacles returns the boundary walls and the two interior blocks.
func DefaultObstacles() []Obstacle {
	return []Obstacle{
		{X: 0, Z: -10, Width: 20.5, Depth: 0.5},
		{X: 0, Z: 10, Width: 20.5, Depth: 0.5},
		{X: -10, Z: 0, Width: 0.5, Depth: 20.5},
		{X: 10, Z: 0, Width: 0.5, Depth: 20.5},
		{X: -4, Z: -4, Width: 4, Depth: 0.8},
		{X: 5, Z: 3, Width: 0.8, Depth: 6},
	}
}

// InitialSnake returns the starting body, head first.
func InitialSnake() []Pos {
	return []Pos{Cell(0, 0), Cell(0, 1), Cell(0, 2)}
}

// Rand is the randomness source used for apple placement.
// *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Config configures a World.
type Config struct {
	Rules     Rules
	Obstacles []Obstacle
	Seed      int64
	Logger    *log.Logger // nil discards
}

// World is the authoritative simulation state. It is not safe for
// concurrent use; the owning event loop serializes every call.
type World struct {
	rules     Rules
	obstacles []Obstacle
	rng       Rand
	logger    *log.Logger

	snake     []Pos // head at index 0
	apples    []Apple
	direction Direction
	score     int
	highScore int
	state     GameState
}

// New creates a world in the initial PLAYING configuration with one apple.
func New(cfg Config) *World {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	rules := cfg.Rules
	if rules == (Rules{}) {
		rules = DefaultRules()
	}

	w := &World{
		rules:     rules,
		obstacles: append([]Obstacle(nil), cfg.Obstacles...),
		rng:       rand.New(rand.NewSource(cfg.Seed)),
		logger:    logger,
	}
	w.reset()
	return w
}

// reset puts the round back to its starting configuration.
// High score is untouched.
func (w *World) reset() {
	w.snake = InitialSnake()
	w.direction = Up
	w.InitApples()
	w.score = 0
	w.state = Playing
}

// ResetGame starts a new round, keeping the high score.
func (w *World) ResetGame() {
	w.reset()
	w.logger.Info("game restarted", "high_score", w.highScore)
}

// InitApples clears the apples and places exactly one.
func (w *World) InitApples() {
	w.apples = w.apples[:0]
	w.SpawnApple()
}

// SetDirection changes the heading. It reports false when the request is
// the reverse of the current heading or the round is not being played.
func (w *World) SetDirection(d Direction) bool {
	if w.state != Playing {
		return false
	}
	if d == w.direction.Opposite() {
		return false
	}
	w.direction = d
	return true
}

// MoveSnake advances the snake one cell in its heading. The tail is
// dropped so the length is unchanged. Bounds are not checked here.
func (w *World) MoveSnake() {
	if w.state != Playing || len(w.snake) == 0 {
		return
	}

	head := w.snake[0].Add(w.direction.Delta())

	// Shift the body back by one and drop the old tail.
	copy(w.snake[1:], w.snake[:len(w.snake)-1])
	w.snake[0] = head
}

// CheckAppleCollision eats at most one apple within pickup range of the
// head: the score rises, the snake grows at the tail and a replacement
// apple is attempted.
func (w *World) CheckAppleCollision() {
	if w.state != Playing || len(w.snake) == 0 {
		return
	}

	head := w.snake[0]
	for i := 0; i < len(w.apples); {
		apple := w.apples[i]
		if !apple.Active {
			w.apples = append(w.apples[:i], w.apples[i+1:]...)
			continue
		}

		if head.Dist(apple.Pos) < w.rules.PickupRadius {
			w.score++
			if w.score > w.highScore {
				w.highScore = w.score
			}
			w.grow()
			w.apples = append(w.apples[:i], w.apples[i+1:]...)
			w.SpawnApple()
			return
		}
		i++
	}
}

// grow appends one segment, continuing the tail's direction of travel.
func (w *World) grow() {
	n := len(w.snake)
	tail := w.snake[n-1]
	if n == 1 {
		w.snake = append(w.snake, tail)
		return
	}
	beforeTail := w.snake[n-2]
	w.snake = append(w.snake, tail.Add(tail.Sub(beforeTail)))
}

// SpawnApple tries to place one apple. It gives up silently after
// Rules.SpawnAttempts rejected candidates or when the arena already holds
// Rules.MaxApples.
func (w *World) SpawnApple() {
	// Only active apples count toward the cap; inactive ones are pruned lazily.
	if w.activeApples() >= w.rules.MaxApples {
		return
	}

	for range w.rules.SpawnAttempts {
		candidate := Pos{
			X: w.sampleCell()*Unit + Unit/2,
			Z: w.sampleCell()*Unit + Unit/2,
		}
		if w.validApplePos(candidate) {
			w.apples = append(w.apples, Apple{Pos: candidate, Active: true})
			return
		}
	}

	w.logger.Debug("apple spawn suppressed", "attempts", w.rules.SpawnAttempts, "apples", len(w.apples))
}

// sampleCell draws a value in [-SpawnRange, SpawnRange) and floors it.
func (w *World) sampleCell() int {
	span := float64(w.rules.SpawnRange)
	v := w.rng.Float64()*2*span - span
	return int(math.Floor(v))
}

// validApplePos applies the spacing and margin rules to a candidate.
func (w *World) validApplePos(p Pos) bool {
	for _, seg := range w.snake {
		if seg.Dist(p) < w.rules.SnakeSpacing {
			return false
		}
	}
	for _, a := range w.apples {
		if a.Active && a.Pos.Dist(p) < w.rules.AppleSpacing {
			return false
		}
	}
	x, z := p.Coords()
	m := w.rules.AppleMargin
	return x > -m && x < m && z > -m && z < m
}

func (w *World) activeApples() int {
	n := 0
	for _, a := range w.apples {
		if a.Active {
			n++
		}
	}
	return n
}

// CheckWallCollision reports whether the head is on or past the boundary.
func (w *World) CheckWallCollision() bool {
	if len(w.snake) == 0 {
		return false
	}
	head := w.snake[0]
	bound := w.rules.WallBound * Unit
	return head.X <= -bound || head.X >= bound || head.Z <= -bound || head.Z >= bound
}

// CheckSelfCollision reports whether any body segment shares the head cell.
func (w *World) CheckSelfCollision() bool {
	if len(w.snake) == 0 {
		return false
	}
	head := w.snake[0]
	for _, seg := range w.snake[1:] {
		if seg == head {
			return true
		}
	}
	return false
}

// CheckGameOver ends the round if the head hit a wall or the body.
func (w *World) CheckGameOver() {
	if w.state == GameOver {
		return
	}
	wall := w.CheckWallCollision()
	if !wall && !w.CheckSelfCollision() {
		return
	}
	w.state = GameOver

	cause := "self"
	if wall {
		cause = "wall"
	}
	w.logger.Info("game over", "score", w.score, "high_score", w.highScore, "cause", cause)
}

// Arrange replaces the body, apples and heading of a round in progress.
// Scenario tests and replays stage positions with it.
func (w *World) Arrange(snake []Pos, apples []Pos, dir Direction) {
	w.snake = append(w.snake[:0], snake...)
	w.apples = w.apples[:0]
	for _, p := range apples {
		w.apples = append(w.apples, Apple{Pos: p, Active: true})
	}
	w.direction = dir
}
