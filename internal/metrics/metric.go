package metrics

import "github.com/san-kum/mpmsim/internal/mpm"

// Metric folds per-step diagnostics into one number.
type Metric interface {
	Name() string
	Observe(st mpm.StepStats)
	Value() float64
	Reset()
}

// Default returns the metric set recorded for every run.
func Default() []Metric {
	return []Metric{
		NewMassDrift(),
		NewMomentumDrift(),
		NewKineticEnergy(),
		NewVolumeRatio(),
		NewDegenerate(),
	}
}

// Values snapshots every metric by name.
func Values(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
