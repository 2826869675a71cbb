package experiment

import (
	"log/slog"
	"sync"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/mpmsim/internal/config"
	"github.com/san-kum/mpmsim/internal/mpm"
)

// Session serializes access to one simulator for interactive front-ends.
// Step and Render never run concurrently.
type Session struct {
	mu       sync.Mutex
	cfg      *config.Config
	registry *Registry
	log      *slog.Logger
	sim      *mpm.Simulator
}

func NewSession(cfg *config.Config, reg *Registry, log *slog.Logger) (*Session, error) {
	if reg == nil {
		reg = NewRegistry()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sim, err := reg.Build(cfg, nil, log)
	if err != nil {
		return nil, err
	}
	return &Session{cfg: cfg, registry: reg, log: log, sim: sim}, nil
}

// Step advances n steps and returns the stats of the last one.
func (s *Session) Step(n int) mpm.StepStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < n; i++ {
		s.sim.Step()
	}
	return s.sim.Stats()
}

func (s *Session) Render(f *mpm.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sim.Render(f)
}

func (s *Session) Positions(dst []r2.Vec) []r2.Vec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sim.Positions(dst)
}

func (s *Session) Stats() mpm.StepStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sim.Stats()
}

func (s *Session) GridSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sim.GridSize()
}

// Reset rebuilds the simulator from the session config, replaying the same
// seed.
func (s *Session) Reset() error {
	sim, err := s.registry.Build(s.cfg, nil, s.log)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.sim = sim
	s.mu.Unlock()
	return nil
}

func (s *Session) Config() *config.Config { return s.cfg }
