package world

import "fmt"

// Grid is a square board of Size×Size cells.
type Grid struct {
	Size int `json:"size"`
}

// NewGrid creates a grid with the given side length.
func NewGrid(size int) Grid {
	return Grid{Size: size}
}

// InBounds returns true if the position lies on the grid.
func (g Grid) InBounds(p Position) bool {
	return p.X >= 0 && p.X < g.Size && p.Y >= 0 && p.Y < g.Size
}

// Clamp pulls a position back onto the grid.
func (g Grid) Clamp(p Position) Position {
	return Position{X: clamp(p.X, 0, g.Size-1), Y: clamp(p.Y, 0, g.Size-1)}
}

// Center returns the middle cell, where a fresh run starts.
func (g Grid) Center() Position {
	return Position{X: g.Size / 2, Y: g.Size / 2}
}

// CellCount returns the total number of cells.
func (g Grid) CellCount() int {
	return g.Size * g.Size
}

// String returns a summary of the grid.
func (g Grid) String() string {
	return fmt.Sprintf("Grid(%dx%d)", g.Size, g.Size)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
