package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/san-kum/mpmsim/internal/config"
	"github.com/san-kum/mpmsim/internal/metrics"
	"github.com/san-kum/mpmsim/internal/mpm"
)

// Observer is called after every step with that step's diagnostics.
type Observer func(st mpm.StepStats)

type Result struct {
	Stats          []mpm.StepStats
	Metrics        map[string]float64
	MaterialParams map[string]float64
	Requested      int
	Realized  int
	Steps     int
	Elapsed   time.Duration
}

type Experiment struct {
	cfg        *config.Config
	registry   *Registry
	simulator  *mpm.Simulator
	randSource *rand.Rand
	metrics    []metrics.Metric
	observers  []Observer
	log        *slog.Logger
}

func New(cfg *config.Config, reg *Registry, log *slog.Logger) *Experiment {
	if reg == nil {
		reg = NewRegistry()
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Experiment{
		cfg:        cfg,
		registry:   reg,
		randSource: rand.New(rand.NewSource(cfg.Seed)),
		log:        log,
	}
}

// Setup validates the config and builds the simulator.
func (e *Experiment) Setup(ms []metrics.Metric) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	sim, err := e.registry.Build(e.cfg, e.randSource, e.log)
	if err != nil {
		return err
	}
	e.simulator = sim
	e.metrics = ms
	return nil
}

func (e *Experiment) AddObserver(o Observer) {
	e.observers = append(e.observers, o)
}

// Run steps the simulator cfg.Run.Steps times. Cancellation is checked
// between steps; on cancellation the partial result is returned with
// ctx.Err().
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	sim := e.simulator
	res := &Result{
		Stats:          make([]mpm.StepStats, 0, e.cfg.Run.Steps+1),
		MaterialParams: sim.Material().GetParams(),
		Requested:      sim.RequestedParticles(),
		Realized:       sim.NumParticles(),
	}
	e.record(res, sim.Stats())

	start := time.Now()
	var runErr error
	for i := 0; i < e.cfg.Run.Steps; i++ {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		sim.Step()
		e.record(res, sim.Stats())
	}
	res.Elapsed = time.Since(start)
	res.Steps = sim.Steps()
	res.Metrics = metrics.Values(e.metrics)

	e.log.Info("run finished",
		"steps", res.Steps,
		"elapsed", res.Elapsed,
		"final", sim.Stats())
	return res, runErr
}

func (e *Experiment) record(res *Result, st mpm.StepStats) {
	res.Stats = append(res.Stats, st)
	for _, m := range e.metrics {
		m.Observe(st)
	}
	for _, o := range e.observers {
		o(st)
	}
}

// Simulator returns the underlying simulator, e.g. to render the final
// frame after Run.
func (e *Experiment) Simulator() *mpm.Simulator {
	return e.simulator
}
