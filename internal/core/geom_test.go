package core

import (
	"testing"
	"time"
)

func TestRectIntersects(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Rect
		expected bool
	}{
		{"overlapping", NewRect(0, 0, 10, 10), NewRect(5, 5, 10, 10), true},
		{"apart horizontally", NewRect(0, 0, 10, 10), NewRect(15, 0, 10, 10), false},
		{"apart vertically", NewRect(0, 0, 10, 10), NewRect(0, 15, 10, 10), false},
		{"touching edges", NewRect(0, 0, 10, 10), NewRect(10, 0, 10, 10), false},
		{"contained", NewRect(0, 0, 20, 20), NewRect(5, 5, 5, 5), true},
		{"single cell overlap", NewRect(0, 0, 10, 10), NewRect(9, 9, 10, 10), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersects(tt.b); got != tt.expected {
				t.Errorf("Intersects() = %v, expected %v", got, tt.expected)
			}
			if got := tt.b.Intersects(tt.a); got != tt.expected {
				t.Errorf("Intersects() reversed = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(2, 3, 4, 2)

	if !r.Contains(2, 3) || !r.Contains(5, 4) {
		t.Error("corners inside should be contained")
	}
	if r.Contains(6, 3) || r.Contains(2, 5) || r.Contains(1, 3) {
		t.Error("points past the edges should not be contained")
	}
}

func TestClamp(t *testing.T) {
	tests := []struct{ val, lo, hi, want int }{
		{5, 0, 10, 5},
		{-3, 0, 10, 0},
		{42, 0, 10, 10},
	}
	for _, tt := range tests {
		if got := Clamp(tt.val, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tt.val, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestProjectionLayout(t *testing.T) {
	p := NewProjection(10, 80, 24, 2)

	if p.Origin.W != 42 || p.Origin.H != 21 {
		t.Errorf("board = %dx%d, expected 42x21", p.Origin.W, p.Origin.H)
	}
	if p.Origin.X != 19 || p.Origin.Y != 2 {
		t.Errorf("origin = (%d, %d), expected (19, 2)", p.Origin.X, p.Origin.Y)
	}
}

func TestProjectionCell(t *testing.T) {
	p := Projection{Bound: 10, CellW: 2, Origin: NewRect(0, 0, 42, 21)}

	tests := []struct {
		name     string
		x, z     float64
		col, row int
	}{
		{"center", 0, 0, 20, 10},
		{"top-left wall", -10, -10, 0, 0},
		{"bottom-right wall", 10, 10, 40, 20},
		{"apple between cells", 0.5, -0.5, 21, 9},
		{"up is toward the top", 0, -1, 20, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, row := p.Cell(tt.x, tt.z)
			if col != tt.col || row != tt.row {
				t.Errorf("Cell(%v, %v) = (%d, %d), expected (%d, %d)", tt.x, tt.z, col, row, tt.col, tt.row)
			}
		})
	}
}

func TestProjectionSpanClipsToBoard(t *testing.T) {
	p := Projection{Bound: 10, CellW: 2, Origin: NewRect(5, 1, 42, 21)}

	top := p.Span(0, -10, 20.5, 0.5)
	if top.X != 5 || top.Right() != 46 || top.Y != 1 || top.H != 1 {
		t.Errorf("top wall span = %+v", top)
	}

	block := p.Span(-4, -4, 4, 0.8)
	if block.W != 9 || block.H != 2 {
		t.Errorf("interior block span = %+v, expected 9x2", block)
	}
}

func TestRuntimeConfigResolveSeed(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.TickInterval != 150*time.Millisecond {
		t.Errorf("TickInterval = %v, expected 150ms", cfg.TickInterval)
	}

	if seed := cfg.ResolveSeed(); seed == 0 || cfg.Seed != seed {
		t.Errorf("ResolveSeed() = %d, Seed = %d", seed, cfg.Seed)
	}

	fixed := RuntimeConfig{Seed: 7}
	if fixed.ResolveSeed() != 7 {
		t.Error("an explicit seed should be kept")
	}
}

func TestActionIsDirection(t *testing.T) {
	for _, a := range []Action{ActionUp, ActionDown, ActionLeft, ActionRight} {
		if !a.IsDirection() {
			t.Errorf("%v should be a direction", a)
		}
	}
	for _, a := range []Action{ActionNone, ActionRestart, ActionPause, ActionQuit} {
		if a.IsDirection() {
			t.Errorf("%v should not be a direction", a)
		}
	}
}
