package mpm

import (
	"log/slog"

	"gonum.org/v1/gonum/spatial/r2"
)

// StepStats is a diagnostic summary of the most recent step.
type StepStats struct {
	Step          int     `csv:"step" json:"step"`
	Time          float64 `csv:"time" json:"time"`
	Particles     int     `csv:"particles" json:"particles"`
	ParticleMass  float64 `csv:"particle_mass" json:"particle_mass"`
	GridMass      float64 `csv:"grid_mass" json:"grid_mass"`
	MomentumX     float64 `csv:"momentum_x" json:"momentum_x"`
	MomentumY     float64 `csv:"momentum_y" json:"momentum_y"`
	KineticEnergy float64 `csv:"kinetic_energy" json:"kinetic_energy"`
	CenterX       float64 `csv:"center_x" json:"center_x"`
	CenterY       float64 `csv:"center_y" json:"center_y"`
	MinJ          float64 `csv:"min_j" json:"min_j"`
	MaxJ          float64 `csv:"max_j" json:"max_j"`
	Degenerate    int     `csv:"degenerate" json:"degenerate"`
	ActiveCells   int     `csv:"active_cells" json:"active_cells"`
}

func (s StepStats) Momentum() r2.Vec {
	return r2.Vec{X: s.MomentumX, Y: s.MomentumY}
}

// Center is the particle center of mass.
func (s StepStats) Center() r2.Vec {
	return r2.Vec{X: s.CenterX, Y: s.CenterY}
}

// LogValue implements slog.LogValuer for structured logging.
func (s StepStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("step", s.Step),
		slog.Float64("time", s.Time),
		slog.Int("particles", s.Particles),
		slog.Float64("particle_mass", s.ParticleMass),
		slog.Float64("grid_mass", s.GridMass),
		slog.Float64("momentum_x", s.MomentumX),
		slog.Float64("momentum_y", s.MomentumY),
		slog.Float64("kinetic_energy", s.KineticEnergy),
		slog.Float64("center_x", s.CenterX),
		slog.Float64("center_y", s.CenterY),
		slog.Float64("min_j", s.MinJ),
		slog.Float64("max_j", s.MaxJ),
		slog.Int("degenerate", s.Degenerate),
		slog.Int("active_cells", s.ActiveCells),
	)
}
