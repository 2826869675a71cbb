package mpm

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// Cell is one grid node. Velocity holds momentum during P2G and velocity
// after UpdateGrid.
type Cell struct {
	Velocity r2.Vec
	Mass     float64
}

// Grid is a square grid of cells stored in one flat row-major buffer,
// addressed as y*size + x.
type Grid struct {
	size  int
	cells []Cell
}

func NewGrid(size int) *Grid {
	return &Grid{size: size, cells: make([]Cell, size*size)}
}

func (g *Grid) Size() int { return g.size }

func (g *Grid) index(x, y int) int {
	if x < 0 || y < 0 || x >= g.size || y >= g.size {
		panic(fmt.Sprintf("mpm: cell (%d, %d) outside %dx%d grid", x, y, g.size, g.size))
	}
	return y*g.size + x
}

// At returns a pointer to the cell at (x, y). It panics when out of range.
func (g *Grid) At(x, y int) *Cell {
	return &g.cells[g.index(x, y)]
}

// Cell returns a copy of the cell at (x, y).
func (g *Grid) Cell(x, y int) Cell {
	return g.cells[g.index(x, y)]
}

// Clear zeroes every cell.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = Cell{}
	}
}

func (g *Grid) TotalMass() float64 {
	sum := 0.0
	for i := range g.cells {
		sum += g.cells[i].Mass
	}
	return sum
}

