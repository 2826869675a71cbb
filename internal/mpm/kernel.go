package mpm

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// kernelMoment is the inverse of the quadratic B-spline's second moment
// matrix at unit grid spacing, D⁻¹ = 4I.
const kernelMoment = 4.0

// QuadraticWeights returns the 1D quadratic B-spline weights for the
// neighbors at offsets -1, 0, +1 given the offset t of the particle from the
// center of its base cell. The weights always sum to one.
func QuadraticWeights(t float64) [3]float64 {
	return [3]float64{
		0.5 * (0.5 - t) * (0.5 - t),
		0.75 - t*t,
		0.5 * (0.5 + t) * (0.5 + t),
	}
}

// stencil is the 3x3 interpolation footprint of one particle. P2G, G2P and
// the rest-volume bootstrap all go through newStencil so their weights are
// bit-identical.
type stencil struct {
	baseX, baseY int
	wx, wy       [3]float64
}

func newStencil(pos r2.Vec) stencil {
	bx, by := math.Floor(pos.X), math.Floor(pos.Y)
	return stencil{
		baseX: int(bx),
		baseY: int(by),
		wx:    QuadraticWeights(pos.X - bx - 0.5),
		wy:    QuadraticWeights(pos.Y - by - 0.5),
	}
}

// node returns the grid index, weight and particle-to-node offset for stencil
// slot (gx, gy), both in [0, 3).
func (s *stencil) node(pos r2.Vec, gx, gy int) (x, y int, w float64, dx r2.Vec) {
	x = s.baseX + gx - 1
	y = s.baseY + gy - 1
	w = s.wx[gx] * s.wy[gy]
	dx = r2.Vec{X: float64(x) - pos.X + 0.5, Y: float64(y) - pos.Y + 0.5}
	return x, y, w, dx
}
