package world

import "math"

// Unit is the number of fixed-point steps in one grid cell.
const Unit = 2

// Pos is a position on the x/z ground plane in half-cell fixed point.
// Snake segments always sit on even coordinates (whole cells) and apples on
// odd ones (cell + 0.5), so all arithmetic stays exact.
type Pos struct {
	X, Z int
}

// Cell returns the position of the whole cell (x, z).
func Cell(x, z int) Pos {
	return Pos{X: x * Unit, Z: z * Unit}
}

// FromCoords maps float coordinates onto the fixed-point lattice,
// truncating toward zero.
func FromCoords(x, z float64) Pos {
	return Pos{
		X: int(math.Trunc(x * Unit)),
		Z: int(math.Trunc(z * Unit)),
	}
}

// Coords returns the position in cell units for the render boundary.
func (p Pos) Coords() (x, z float64) {
	return float64(p.X) / Unit, float64(p.Z) / Unit
}

// Add returns p + q.
func (p Pos) Add(q Pos) Pos {
	return Pos{X: p.X + q.X, Z: p.Z + q.Z}
}

// Sub returns p - q.
func (p Pos) Sub(q Pos) Pos {
	return Pos{X: p.X - q.X, Z: p.Z - q.Z}
}

// Dist returns the Euclidean distance between p and q in cells.
func (p Pos) Dist(q Pos) float64 {
	dx := float64(p.X - q.X)
	dz := float64(p.Z - q.Z)
	return math.Sqrt(dx*dx+dz*dz) / Unit
}

// Direction is the snake's heading on the ground plane.
type Direction int

const (
	Up    Direction = iota // toward -z
	Down                   // toward +z
	Left                   // toward -x
	Right                  // toward +x
)

// Opposite returns the reverse heading.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

// Delta returns the one-cell offset for the heading.
func (d Direction) Delta() Pos {
	switch d {
	case Up:
		return Pos{Z: -Unit}
	case Down:
		return Pos{Z: Unit}
	case Left:
		return Pos{X: -Unit}
	default:
		return Pos{X: Unit}
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// ParseDirection is the inverse of Direction.String.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "up":
		return Up, true
	case "down":
		return Down, true
	case "left":
		return Left, true
	case "right":
		return Right, true
	}
	return Up, false
}
