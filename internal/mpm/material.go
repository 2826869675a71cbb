package mpm

import (
	"fmt"
	"math"
)

// Constitutive maps a deformation gradient to Cauchy stress.
type Constitutive interface {
	Name() string
	Stress(F Mat22) (Mat22, error)
	GetParams() map[string]float64
}

// NeoHookean is the compressible Neo-Hookean-like law
//
//	P = μ(F - F⁻ᵀ) + λ ln(J) F⁻ᵀ,  σ = (1/J) P Fᵀ
type NeoHookean struct {
	Mu, Lambda float64
}

// DefaultNeoHookean returns the stock material (μ = 20, λ = 10).
func DefaultNeoHookean() NeoHookean {
	return NeoHookean{Mu: 20, Lambda: 10}
}

func (n NeoHookean) Name() string { return "neo_hookean" }

// Stress returns ErrDegenerateElement when det(F) <= 0 or is not finite.
func (n NeoHookean) Stress(F Mat22) (Mat22, error) {
	J := F.Det()
	if !(J > 0) || math.IsInf(J, 0) {
		return Mat22{}, fmt.Errorf("%w: det(F)=%g", ErrDegenerateElement, J)
	}
	inv, _ := F.Inverse()
	FinvT := inv.T()
	P := F.Sub(FinvT).Scale(n.Mu).Add(FinvT.Scale(n.Lambda * math.Log(J)))
	return P.Mul(F.T()).Scale(1 / J), nil
}

func (n NeoHookean) GetParams() map[string]float64 {
	return map[string]float64{"mu": n.Mu, "lambda": n.Lambda}
}

// Passive carries no stress, leaving a pure APIC velocity transfer.
type Passive struct{}

func (Passive) Name() string { return "passive" }

func (Passive) Stress(Mat22) (Mat22, error) { return Mat22{}, nil }

func (Passive) GetParams() map[string]float64 { return map[string]float64{} }
