package viz

import (
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

const brailleBlank = 0x2800

// Braille cells are 2x4 dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a character grid where every rune holds 2x4 braille dots, so
// the drawable area is (Width*2) x (Height*4) dots.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Dots returns the drawable size in braille dots.
func (c *Canvas) Dots() (w, h int) { return c.Width * 2, c.Height * 4 }

// Set lights the dot at (x, y), with y = 0 at the top. Out-of-range dots are
// ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// IsSet reports whether the dot at (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawRect outlines the dot rectangle spanning (x0, y0) to (x1, y1).
func (c *Canvas) DrawRect(x0, y0, x1, y1 int) {
	c.DrawLine(x0, y0, x1, y0)
	c.DrawLine(x1, y0, x1, y1)
	c.DrawLine(x1, y1, x0, y1)
	c.DrawLine(x0, y1, x0, y0)
}

// Projection maps grid coordinates onto canvas dots with +y up.
type Projection struct {
	scale  float64
	height int
}

// NewProjection fits a gridSize x gridSize domain into the canvas, keeping
// cells square.
func NewProjection(c *Canvas, gridSize int) Projection {
	w, h := c.Dots()
	return Projection{
		scale:  float64(min(w, h)) / float64(gridSize),
		height: h,
	}
}

func (p Projection) Dot(v r2.Vec) (x, y int) {
	return int(v.X * p.scale), p.height - 1 - int(v.Y*p.scale)
}

// PlotParticles lights one dot per particle and outlines the wall region.
func (c *Canvas) PlotParticles(positions []r2.Vec, gridSize, wall int) {
	proj := NewProjection(c, gridSize)
	lo, hi := float64(wall), float64(gridSize-wall)
	x0, y0 := proj.Dot(r2.Vec{X: lo, Y: hi})
	x1, y1 := proj.Dot(r2.Vec{X: hi, Y: lo})
	c.DrawRect(x0, y0, x1, y1)

	for _, p := range positions {
		c.Set(proj.Dot(p))
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
