package metrics

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/mpmsim/internal/mpm"
)

// KineticEnergy is the mean total kinetic energy over the observed steps.
type KineticEnergy struct {
	name    string
	samples []float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(st mpm.StepStats) {
	k.samples = append(k.samples, st.KineticEnergy)
}

func (k *KineticEnergy) Value() float64 {
	if len(k.samples) == 0 {
		return 0
	}
	return stat.Mean(k.samples, nil)
}

// StdDev is the spread of kinetic energy around its mean.
func (k *KineticEnergy) StdDev() float64 {
	if len(k.samples) < 2 {
		return 0
	}
	return stat.StdDev(k.samples, nil)
}

func (k *KineticEnergy) Series() []float64 { return k.samples }

func (k *KineticEnergy) Reset() { k.samples = k.samples[:0] }

// VolumeRatio is the smallest det(F) seen on any particle. Values near or
// below zero mean the material has been crushed.
type VolumeRatio struct {
	name    string
	samples []float64
}

func NewVolumeRatio() *VolumeRatio {
	return &VolumeRatio{name: "min_volume_ratio"}
}

func (v *VolumeRatio) Name() string { return v.name }

func (v *VolumeRatio) Observe(st mpm.StepStats) {
	if st.Particles == 0 {
		return
	}
	v.samples = append(v.samples, st.MinJ)
}

func (v *VolumeRatio) Value() float64 {
	if len(v.samples) == 0 {
		return 1
	}
	return floats.Min(v.samples)
}

func (v *VolumeRatio) Reset() { v.samples = v.samples[:0] }

// Degenerate totals the stress terms skipped because det(F) <= 0.
type Degenerate struct {
	name   string
	counts []float64
}

func NewDegenerate() *Degenerate {
	return &Degenerate{name: "degenerate"}
}

func (d *Degenerate) Name() string { return d.name }

func (d *Degenerate) Observe(st mpm.StepStats) {
	d.counts = append(d.counts, float64(st.Degenerate))
}

func (d *Degenerate) Value() float64 { return floats.Sum(d.counts) }

func (d *Degenerate) Reset() { d.counts = d.counts[:0] }
