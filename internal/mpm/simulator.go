package mpm

import (
	"context"
	"log/slog"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	DefaultGridSize        = 64
	DefaultNumParticles    = 64 * 64
	DefaultGridSpacing     = 1.0
	DefaultParticleSpacing = 1.0
	DefaultTimeStep        = 0.1
	DefaultGravity         = -0.3
	DefaultParticleMass    = 1.0
	DefaultSeed            = 1

	// boundaryCells is the thickness of the sticky wall on each side.
	boundaryCells = 2
)

// Params configures a Simulator. Zero GridSpacing, ParticleSpacing,
// TimeStep and ParticleMass fall back to their defaults.
type Params struct {
	GridSize        int
	NumParticles    int
	GridSpacing     float64
	ParticleSpacing float64
	TimeStep        float64
	Gravity         r2.Vec
	ParticleMass    float64
	InitialVelocity r2.Vec
	VelocityJitter  float64
}

func DefaultParams() Params {
	return Params{
		GridSize:        DefaultGridSize,
		NumParticles:    DefaultNumParticles,
		GridSpacing:     DefaultGridSpacing,
		ParticleSpacing: 0.5, // two particles per cell along each axis
		TimeStep:        DefaultTimeStep,
		Gravity:         r2.Vec{Y: DefaultGravity},
		ParticleMass:    DefaultParticleMass,
	}
}

func (p Params) withDefaults() Params {
	if p.GridSpacing == 0 {
		p.GridSpacing = DefaultGridSpacing
	}
	if p.ParticleSpacing == 0 {
		p.ParticleSpacing = DefaultParticleSpacing
	}
	if p.TimeStep == 0 {
		p.TimeStep = DefaultTimeStep
	}
	if p.ParticleMass == 0 {
		p.ParticleMass = DefaultParticleMass
	}
	return p
}

func (p Params) validate() error {
	if p.GridSize < 2*boundaryCells+1 {
		return &ConfigError{Field: "grid_size", Value: float64(p.GridSize), Wrapped: ErrInvalidGridSize}
	}
	if p.NumParticles <= 0 {
		return &ConfigError{Field: "num_particles", Value: float64(p.NumParticles), Wrapped: ErrInvalidParticleCount}
	}
	positive := []struct {
		name string
		v    float64
	}{
		{"grid_spacing", p.GridSpacing},
		{"particle_spacing", p.ParticleSpacing},
		{"time_step", p.TimeStep},
		{"particle_mass", p.ParticleMass},
	}
	for _, f := range positive {
		if !(f.v > 0) || math.IsInf(f.v, 0) {
			return &ConfigError{Field: f.name, Value: f.v, Wrapped: ErrInvalidParameter}
		}
	}
	if p.VelocityJitter < 0 {
		return &ConfigError{Field: "velocity_jitter", Value: p.VelocityJitter, Wrapped: ErrInvalidParameter}
	}
	return nil
}

// Lattice returns the near-square factoring numX x numY of n used for the
// initial particle placement. numX*numY may be less than n.
func Lattice(n int) (numX, numY int) {
	numX = int(math.Sqrt(float64(n)))
	if numX < 1 {
		numX = 1
	}
	return numX, n / numX
}

type Option func(*Simulator)

// WithMaterial sets the constitutive law. The default is DefaultNeoHookean.
func WithMaterial(m Constitutive) Option {
	return func(s *Simulator) { s.material = m }
}

// WithRand sets the random source used for initial velocity jitter.
func WithRand(r *rand.Rand) Option {
	return func(s *Simulator) { s.rng = r }
}

// WithSeed is WithRand with a fresh source seeded by seed.
func WithSeed(seed int64) Option {
	return func(s *Simulator) { s.rng = rand.New(rand.NewSource(seed)) }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) { s.log = l }
}

// Simulator owns the grid and particles and advances them by a fixed time
// step.
type Simulator struct {
	params    Params
	material  Constitutive
	grid      *Grid
	particles []Particle
	requested int
	steps     int
	stats     StepStats
	rng       *rand.Rand
	log       *slog.Logger
}

// New places numX*numY particles on a lattice centered in the grid and
// bootstraps their rest volumes from one P2G pass.
func New(p Params, opts ...Option) (*Simulator, error) {
	p = p.withDefaults()
	if err := p.validate(); err != nil {
		return nil, err
	}

	s := &Simulator{
		params:    p,
		material:  DefaultNeoHookean(),
		grid:      NewGrid(p.GridSize),
		requested: p.NumParticles,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(DefaultSeed))
	}
	if s.log == nil {
		s.log = slog.New(slog.DiscardHandler)
	}
	if s.material == nil {
		s.material = Passive{}
	}

	if err := s.placeParticles(); err != nil {
		return nil, err
	}
	s.bootstrapVolumes()
	s.stats = s.collectStats(0)

	if len(s.particles) != s.requested {
		s.log.Info("particle count adjusted to lattice",
			"requested", s.requested, "realized", len(s.particles))
	}
	s.log.Debug("simulator ready",
		"grid_size", p.GridSize,
		"particles", len(s.particles),
		"material", s.material.Name(),
		"dt", p.TimeStep)
	return s, nil
}

func (s *Simulator) placeParticles() error {
	p := s.params
	numX, numY := Lattice(p.NumParticles)
	half := float64(p.GridSize) / 2
	x0 := half - float64(numX/2)*p.ParticleSpacing
	y0 := half - float64(numY/2)*p.ParticleSpacing

	lo, hi := float64(boundaryCells), float64(p.GridSize-boundaryCells-1)
	x1 := x0 + float64(numX-1)*p.ParticleSpacing
	y1 := y0 + float64(numY-1)*p.ParticleSpacing
	if x0 < lo || y0 < lo || x1 > hi || y1 > hi {
		return &ConfigError{Field: "particle_extent", Value: math.Max(x1-x0, y1-y0), Wrapped: ErrLatticeOutOfBounds}
	}

	s.particles = make([]Particle, numX*numY)
	for j := 0; j < numY; j++ {
		for i := 0; i < numX; i++ {
			v := r2.Vec{
				X: p.InitialVelocity.X + p.VelocityJitter*(s.rng.Float64()-0.5),
				Y: p.InitialVelocity.Y + p.VelocityJitter*(s.rng.Float64()-0.5),
			}
			s.particles[j*numX+i] = Particle{
				Position: r2.Vec{X: x0 + float64(i)*p.ParticleSpacing, Y: y0 + float64(j)*p.ParticleSpacing},
				Velocity: v,
				F:        Identity22(),
				Mass:     p.ParticleMass,
			}
		}
	}
	return nil
}

// bootstrapVolumes runs one P2G pass with zero volumes (so no stress is
// scattered) and sets Volume0 = mass / density at each particle.
func (s *Simulator) bootstrapVolumes() {
	s.ClearGrid()
	s.ParticleToGrid()

	cellArea := s.params.GridSpacing * s.params.GridSpacing
	for i := range s.particles {
		p := &s.particles[i]
		st := newStencil(p.Position)
		density := 0.0
		for gx := 0; gx < 3; gx++ {
			for gy := 0; gy < 3; gy++ {
				x, y, w, _ := st.node(p.Position, gx, gy)
				density += w * s.grid.At(x, y).Mass
			}
		}
		density /= cellArea
		p.Volume0 = p.Mass / density
	}
	s.ClearGrid()
}

// Step advances the simulation by one time step.
func (s *Simulator) Step() {
	s.ClearGrid()
	degenerate := s.ParticleToGrid()
	s.UpdateGrid()
	s.GridToParticle()
	s.steps++

	s.stats = s.collectStats(degenerate)
	if degenerate > 0 {
		s.log.Debug("skipped degenerate stress terms", "step", s.steps, "count", degenerate)
	}
}

// Run calls Step n times, stopping early if ctx is done. It returns the
// number of steps taken and ctx.Err() on cancellation.
func (s *Simulator) Run(ctx context.Context, n int) (int, error) {
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return i, ctx.Err()
		default:
		}
		s.Step()
	}
	return n, nil
}

// ClearGrid zeroes every cell's mass and momentum.
func (s *Simulator) ClearGrid() {
	s.grid.Clear()
}

// ParticleToGrid scatters particle mass, APIC momentum and elastic force
// onto the grid. It returns how many particles had their stress skipped
// because det(F) <= 0 or the force overflowed.
func (s *Simulator) ParticleToGrid() int {
	dt := s.params.TimeStep
	degenerate := 0
	for i := range s.particles {
		p := &s.particles[i]

		var force Mat22
		if p.Volume0 > 0 {
			stress, err := s.material.Stress(p.F)
			if err == nil {
				force = stress.Scale(-kernelMoment * dt * p.Volume0 * p.J())
			}
			if err != nil || !force.IsFinite() {
				force = Mat22{}
				degenerate++
			}
		}

		st := newStencil(p.Position)
		for gx := 0; gx < 3; gx++ {
			for gy := 0; gy < 3; gy++ {
				x, y, w, dx := st.node(p.Position, gx, gy)
				cell := s.grid.At(x, y)
				wm := w * p.Mass
				cell.Mass += wm

				momentum := r2.Scale(wm, r2.Add(p.Velocity, p.C.MulVec(dx)))
				momentum = r2.Add(momentum, r2.Scale(w, force.MulVec(dx)))
				cell.Velocity = r2.Add(cell.Velocity, momentum)
			}
		}
	}
	return degenerate
}

// UpdateGrid converts momentum to velocity, applies gravity and zeroes the
// normal velocity component inside the boundary walls. Empty cells are left
// alone.
func (s *Simulator) UpdateGrid() {
	n := s.grid.Size()
	dv := r2.Scale(s.params.TimeStep, s.params.Gravity)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			cell := s.grid.At(x, y)
			if cell.Mass <= 0 {
				continue
			}
			cell.Velocity = r2.Add(r2.Scale(1/cell.Mass, cell.Velocity), dv)

			if x < boundaryCells || x > n-boundaryCells-1 {
				cell.Velocity.X = 0
			}
			if y < boundaryCells || y > n-boundaryCells-1 {
				cell.Velocity.Y = 0
			}
		}
	}
}

// GridToParticle gathers velocity and the affine matrix from the grid,
// advects and clamps positions, and integrates F += dt·C·F.
func (s *Simulator) GridToParticle() {
	dt := s.params.TimeStep
	lo, hi := 1.0, float64(s.grid.Size()-2)
	for i := range s.particles {
		p := &s.particles[i]

		st := newStencil(p.Position)
		var v r2.Vec
		var b Mat22
		for gx := 0; gx < 3; gx++ {
			for gy := 0; gy < 3; gy++ {
				x, y, w, dx := st.node(p.Position, gx, gy)
				wv := r2.Scale(w, s.grid.At(x, y).Velocity)
				b = b.Add(Outer(wv, dx))
				v = r2.Add(v, wv)
			}
		}
		p.Velocity = v
		p.C = b.Scale(kernelMoment)

		pos := r2.Add(p.Position, r2.Scale(dt, v))
		p.Position = r2.Vec{X: clamp(pos.X, lo, hi), Y: clamp(pos.Y, lo, hi)}

		p.F = p.F.Add(p.C.Mul(p.F).Scale(dt))
	}
}

// clamp also maps NaN to lo so a blown-up particle cannot leave the grid.
func clamp(v, lo, hi float64) float64 {
	switch {
	case !(v >= lo):
		return lo
	case v > hi:
		return hi
	}
	return v
}

func (s *Simulator) collectStats(degenerate int) StepStats {
	st := StepStats{
		Step:       s.steps,
		Time:       float64(s.steps) * s.params.TimeStep,
		Particles:  len(s.particles),
		MinJ:       math.Inf(1),
		MaxJ:       math.Inf(-1),
		Degenerate: degenerate,
	}
	for i := range s.particles {
		p := &s.particles[i]
		st.ParticleMass += p.Mass
		st.MomentumX += p.Mass * p.Velocity.X
		st.MomentumY += p.Mass * p.Velocity.Y
		st.KineticEnergy += p.KineticEnergy()
		st.CenterX += p.Mass * p.Position.X
		st.CenterY += p.Mass * p.Position.Y
		j := p.J()
		st.MinJ = math.Min(st.MinJ, j)
		st.MaxJ = math.Max(st.MaxJ, j)
	}
	if st.ParticleMass > 0 {
		st.CenterX /= st.ParticleMass
		st.CenterY /= st.ParticleMass
	}
	for i := range s.grid.cells {
		if s.grid.cells[i].Mass > 0 {
			st.GridMass += s.grid.cells[i].Mass
			st.ActiveCells++
		}
	}
	return st
}

// Params returns the effective parameters after defaults.
func (s *Simulator) Params() Params { return s.params }

func (s *Simulator) Material() Constitutive { return s.material }

// NumParticles is the realized particle count.
func (s *Simulator) NumParticles() int { return len(s.particles) }

// RequestedParticles is the count passed to New before lattice factoring.
func (s *Simulator) RequestedParticles() int { return s.requested }

func (s *Simulator) GridSize() int { return s.grid.Size() }

// Grid exposes the grid as left by the last step. Callers must not modify it.
func (s *Simulator) Grid() *Grid { return s.grid }

// Particle returns a copy of particle i.
func (s *Simulator) Particle(i int) Particle { return s.particles[i] }

// Positions appends every particle position to dst and returns it.
func (s *Simulator) Positions(dst []r2.Vec) []r2.Vec {
	for i := range s.particles {
		dst = append(dst, s.particles[i].Position)
	}
	return dst
}

// Cell returns a copy of grid cell (x, y) as left by the last step.
func (s *Simulator) Cell(x, y int) Cell { return s.grid.Cell(x, y) }

// Stats returns the diagnostics of the last step, or of the initial state
// before the first step.
func (s *Simulator) Stats() StepStats { return s.stats }

func (s *Simulator) Steps() int { return s.steps }

func (s *Simulator) Time() float64 { return float64(s.steps) * s.params.TimeStep }
