package metrics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/mpmsim/internal/mpm"
)

// MassDrift is the largest relative difference between the mass on the grid
// and the mass carried by particles. Zero up to rounding for a correct P2G.
type MassDrift struct {
	name     string
	maxDrift float64
}

func NewMassDrift() *MassDrift {
	return &MassDrift{name: "mass_drift"}
}

func (m *MassDrift) Name() string { return m.name }

func (m *MassDrift) Observe(st mpm.StepStats) {
	// The grid is empty before the first step.
	if st.GridMass == 0 || st.ParticleMass == 0 {
		return
	}
	drift := math.Abs(st.GridMass-st.ParticleMass) / st.ParticleMass
	m.maxDrift = math.Max(m.maxDrift, drift)
}

func (m *MassDrift) Value() float64 { return m.maxDrift }

func (m *MassDrift) Reset() { m.maxDrift = 0 }

// MomentumDrift is the largest distance of total particle momentum from its
// first observed value. Gravity and walls change momentum, so it is only a
// conservation check for force-free runs.
type MomentumDrift struct {
	name     string
	initial  r2.Vec
	samples  int
	maxDrift float64
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(st mpm.StepStats) {
	p := st.Momentum()
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++
	m.maxDrift = math.Max(m.maxDrift, r2.Norm(r2.Sub(p, m.initial)))
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = r2.Vec{}
	m.samples = 0
	m.maxDrift = 0
}
