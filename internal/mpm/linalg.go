package mpm

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Mat22 is a row-major 2x2 matrix:
//
//	| XX XY |
//	| YX YY |
type Mat22 struct {
	XX, XY float64
	YX, YY float64
}

// Identity22 returns the 2x2 identity.
func Identity22() Mat22 {
	return Mat22{XX: 1, YY: 1}
}

// Outer returns the outer product a ⊗ b.
func Outer(a, b r2.Vec) Mat22 {
	return Mat22{
		XX: a.X * b.X, XY: a.X * b.Y,
		YX: a.Y * b.X, YY: a.Y * b.Y,
	}
}

func (m Mat22) Add(o Mat22) Mat22 {
	return Mat22{m.XX + o.XX, m.XY + o.XY, m.YX + o.YX, m.YY + o.YY}
}

func (m Mat22) Sub(o Mat22) Mat22 {
	return Mat22{m.XX - o.XX, m.XY - o.XY, m.YX - o.YX, m.YY - o.YY}
}

func (m Mat22) Scale(f float64) Mat22 {
	return Mat22{m.XX * f, m.XY * f, m.YX * f, m.YY * f}
}

// Mul returns the matrix product m·o.
func (m Mat22) Mul(o Mat22) Mat22 {
	return Mat22{
		XX: m.XX*o.XX + m.XY*o.YX,
		XY: m.XX*o.XY + m.XY*o.YY,
		YX: m.YX*o.XX + m.YY*o.YX,
		YY: m.YX*o.XY + m.YY*o.YY,
	}
}

// MulVec returns m·v.
func (m Mat22) MulVec(v r2.Vec) r2.Vec {
	return r2.Vec{X: m.XX*v.X + m.XY*v.Y, Y: m.YX*v.X + m.YY*v.Y}
}

func (m Mat22) T() Mat22 {
	return Mat22{m.XX, m.YX, m.XY, m.YY}
}

func (m Mat22) Det() float64 {
	return m.XX*m.YY - m.XY*m.YX
}

// Inverse returns m⁻¹. ok is false for a singular matrix.
func (m Mat22) Inverse() (inv Mat22, ok bool) {
	det := m.Det()
	if det == 0 {
		return Mat22{}, false
	}
	return Mat22{m.YY, -m.XY, -m.YX, m.XX}.Scale(1 / det), true
}

// IsFinite reports whether no entry is NaN or Inf.
func (m Mat22) IsFinite() bool {
	for _, v := range [4]float64{m.XX, m.XY, m.YX, m.YY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
