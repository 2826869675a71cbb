package mpm

import "gonum.org/v1/gonum/spatial/r2"

// Particle is one material point. Position is in grid-cell units.
type Particle struct {
	Position r2.Vec
	Velocity r2.Vec
	C        Mat22 // affine velocity field
	F        Mat22 // deformation gradient
	Mass     float64
	Volume0  float64 // rest volume from the construction-time density
}

// J returns det(F), the local volume ratio.
func (p *Particle) J() float64 {
	return p.F.Det()
}

// KineticEnergy returns ½m|v|².
func (p *Particle) KineticEnergy() float64 {
	return 0.5 * p.Mass * r2.Dot(p.Velocity, p.Velocity)
}
