// Package world provides the square grid, coordinates, and spatial helpers.
// Positions are integer (x, y) pairs; the origin is the top-left cell.
package world

import "math"

// Position is a cell on the grid.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Step is a displacement between cells. Actions produce unit steps with each
// component in {-1, 0, 1}.
type Step struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

// Stay is the zero step.
var Stay = Step{}

// AxisSteps are the four axis-aligned unit moves, in the order exploration
// considers them.
var AxisSteps = [4]Step{
	{DX: 0, DY: 1},
	{DX: 0, DY: -1},
	{DX: 1, DY: 0},
	{DX: -1, DY: 0},
}

// Add returns p displaced by s.
func (p Position) Add(s Step) Position {
	return Position{X: p.X + s.DX, Y: p.Y + s.DY}
}

// Scale multiplies both components by k.
func (s Step) Scale(k int) Step {
	return Step{DX: s.DX * k, DY: s.DY * k}
}

// Toward returns the sign-normalized step from p toward target.
func Toward(p, target Position) Step {
	return Step{DX: sign(target.X - p.X), DY: sign(target.Y - p.Y)}
}

// Away returns the sign-normalized step from threat toward p.
func Away(p, threat Position) Step {
	return Step{DX: sign(p.X - threat.X), DY: sign(p.Y - threat.Y)}
}

// Distance returns the Euclidean distance between two cells.
func Distance(a, b Position) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Chebyshev returns the king-move distance between two cells.
func Chebyshev(a, b Position) int {
	dx := abs(a.X - b.X)
	dy := abs(a.Y - b.Y)
	if dy > dx {
		return dy
	}
	return dx
}

// Adjacent reports whether b is within one cell of a, including a itself.
func Adjacent(a, b Position) bool {
	return Chebyshev(a, b) <= 1
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
