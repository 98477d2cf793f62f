// Package core holds the terminal-agnostic building blocks shared by the
// presentation layer: a colored character buffer, layout geometry and
// semantic input actions. It does not import Bubble Tea.
package core

import "math"

// Rect is an axis-aligned block of screen cells.
type Rect struct {
	X, Y int // top-left corner
	W, H int
}

// NewRect creates a rectangle.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate one past the right edge.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the y-coordinate one past the bottom edge.
func (r Rect) Bottom() int { return r.Y + r.H }

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Intersects reports whether r and other share at least one cell.
func (r Rect) Intersects(other Rect) bool {
	if r.X >= other.Right() || other.X >= r.Right() {
		return false
	}
	return r.Y < other.Bottom() && other.Y < r.Bottom()
}

// Clamp restricts val to [lo, hi].
func Clamp(val, lo, hi int) int {
	return max(lo, min(val, hi))
}

// Projection maps the arena's x/z ground plane onto screen cells, seen
// from above with -z at the top. Each arena cell is CellW columns wide so
// the board looks square in a terminal.
type Projection struct {
	Bound  int // arena spans [-Bound, Bound] on both axes
	CellW  int
	Origin Rect // where the board is drawn; W/H are derived from Bound
}

// NewProjection centers a board for an arena of the given bound inside a
// screen of width x height. The board may be clipped on small screens.
func NewProjection(bound, width, height, top int) Projection {
	const cellW = 2
	w := (2*bound + 1) * cellW
	h := 2*bound + 1
	x := max(0, (width-w)/2)
	y := top + max(0, (height-top-h)/2)
	return Projection{
		Bound:  bound,
		CellW:  cellW,
		Origin: NewRect(x, y, w, h),
	}
}

// Cell returns the screen column and row of the arena point (x, z).
// Half-cell positions land between two columns.
func (p Projection) Cell(x, z float64) (col, row int) {
	col = p.Origin.X + int(math.Floor((x+float64(p.Bound))*float64(p.CellW)))
	row = p.Origin.Y + int(math.Floor(z+float64(p.Bound)))
	return col, row
}

// Span returns the screen rectangle covered by an arena-space box centered
// at (x, z) with the given width (x) and depth (z), clipped to the board.
func (p Projection) Span(x, z, width, depth float64) Rect {
	o := p.Origin
	c0, r0 := p.Cell(x-width/2, z-depth/2)
	c1, r1 := p.Cell(x+width/2, z+depth/2)
	c0, c1 = Clamp(c0, o.X, o.Right()-1), Clamp(c1, o.X, o.Right()-1)
	r0, r1 = Clamp(r0, o.Y, o.Bottom()-1), Clamp(r1, o.Y, o.Bottom()-1)
	return NewRect(c0, r0, c1-c0+1, r1-r0+1)
}
