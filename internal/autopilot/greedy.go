package autopilot

import (
	"math"

	"github.com/vovakirdan/snake3d/internal/world"
)

// Greedy heads for the nearest apple, never steering into a wall or the
// body on the very next move when a safe move exists.
type Greedy struct {
	bound int // in world.Unit steps
}

// NewGreedy creates a greedy pilot for an arena with the given rules.
func NewGreedy(rules world.Rules) *Greedy {
	if rules.WallBound == 0 {
		rules = world.DefaultRules()
	}
	return &Greedy{bound: rules.WallBound * world.Unit}
}

func (g *Greedy) Name() string { return "greedy" }

// Next looks ahead one cell: straight, left or right. Among the safe
// candidates it takes the one closest to the nearest apple; ties keep the
// earlier candidate, so going straight wins.
func (g *Greedy) Next(snap world.Snapshot) (world.Direction, error) {
	cur := snap.Direction
	candidates := []world.Direction{cur, turnLeft(cur), turnRight(cur)}

	best := cur
	bestDist := math.Inf(1)
	found := false
	for _, d := range candidates {
		next := snap.Head().Add(d.Delta())
		if !g.safe(next, snap.Snake) {
			continue
		}
		dist := nearest(next, snap.Apples)
		if !found || dist < bestDist {
			best, bestDist, found = d, dist, true
		}
	}
	return best, nil
}

// safe reports whether moving the head to p survives the next tick. The
// tail moves away, so it does not count.
func (g *Greedy) safe(p world.Pos, body []world.Pos) bool {
	if p.X <= -g.bound || p.X >= g.bound || p.Z <= -g.bound || p.Z >= g.bound {
		return false
	}
	for _, seg := range body[:max(0, len(body)-1)] {
		if seg == p {
			return false
		}
	}
	return true
}

func nearest(p world.Pos, apples []world.Pos) float64 {
	best := math.Inf(1)
	for _, a := range apples {
		best = math.Min(best, p.Dist(a))
	}
	return best
}
