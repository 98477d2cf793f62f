package world

import (
	"testing"

	"pgregory.net/rapid"
)

var allDirections = []Direction{Up, Down, Left, Right}

// randomBody builds a connected body of n segments starting at head.
func randomBody(t *rapid.T, n int) []Pos {
	head := Cell(rapid.IntRange(-8, 8).Draw(t, "hx"), rapid.IntRange(-8, 8).Draw(t, "hz"))
	body := []Pos{head}
	for len(body) < n {
		d := rapid.SampledFrom(allDirections).Draw(t, "step")
		body = append(body, body[len(body)-1].Add(d.Delta()))
	}
	return body
}

func TestPropMovePreservesLength(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 30).Draw(t, "length")
		w := New(Config{Seed: 1})
		w.Arrange(randomBody(t, n), nil, rapid.SampledFrom(allDirections).Draw(t, "dir"))

		moves := rapid.IntRange(1, 20).Draw(t, "moves")
		for i := 0; i < moves; i++ {
			w.SetDirection(rapid.SampledFrom(allDirections).Draw(t, "turn"))
			w.MoveSnake()
			if got := len(w.Snake()); got != n {
				t.Fatalf("length %d after move %d, want %d", got, i, n)
			}
		}
	})
}

func TestPropOppositeRejected(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		current := rapid.SampledFrom(allDirections).Draw(t, "current")
		w := New(Config{Seed: 1})
		w.Arrange(InitialSnake(), nil, current)

		if w.SetDirection(current.Opposite()) {
			t.Fatalf("reverse of %v accepted", current)
		}
		if w.Direction() != current {
			t.Fatalf("direction changed to %v", w.Direction())
		}
	})
}

func TestPropSpawnContainment(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Int64().Draw(t, "seed")
		n := rapid.IntRange(1, 25).Draw(t, "length")
		w := New(Config{Seed: seed})
		w.Arrange(randomBody(t, n), nil, Up)

		spawns := rapid.IntRange(1, 5).Draw(t, "spawns")
		for range spawns {
			w.SpawnApple()
		}

		rules := w.Rules()
		apples := w.ApplePositions()
		if len(apples) > rules.MaxApples {
			t.Fatalf("%d apples, max %d", len(apples), rules.MaxApples)
		}
		for i, a := range apples {
			x, z := a.Coords()
			if x <= -rules.AppleMargin || x >= rules.AppleMargin || z <= -rules.AppleMargin || z >= rules.AppleMargin {
				t.Fatalf("apple %v outside margin", a)
			}
			for _, seg := range w.Snake() {
				if d := seg.Dist(a); d < rules.SnakeSpacing {
					t.Fatalf("apple %v is %v from segment %v", a, d, seg)
				}
			}
			for j, other := range apples {
				if i != j && a.Dist(other) < rules.AppleSpacing {
					t.Fatalf("apples %v and %v are too close", a, other)
				}
			}
		}
	})
}

func TestPropEatingGrowsByOne(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 20).Draw(t, "length")
		w := New(Config{Seed: rapid.Int64().Draw(t, "seed")})
		body := randomBody(t, n)
		head := body[0]
		apple := Pos{X: head.X + Unit/2, Z: head.Z - Unit/2}
		w.Arrange(body, []Pos{apple}, Up)

		w.CheckAppleCollision()

		if len(w.Snake()) != n+1 {
			t.Fatalf("length %d, want %d", len(w.Snake()), n+1)
		}
		if w.Score() != 1 || w.HighScore() != 1 {
			t.Fatalf("score/high = %d/%d, want 1/1", w.Score(), w.HighScore())
		}
	})
}

func TestPropRestartKeepsHighScore(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		high := rapid.IntRange(0, 1000).Draw(t, "high")
		w := New(Config{Seed: 7})
		w.highScore = high
		w.score = rapid.IntRange(0, high).Draw(t, "score")
		w.state = GameOver

		w.ResetGame()

		if w.HighScore() != high || w.Score() != 0 || w.State() != Playing {
			t.Fatalf("after restart: score=%d high=%d state=%v", w.Score(), w.HighScore(), w.State())
		}
	})
}
