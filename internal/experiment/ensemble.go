package experiment

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/san-kum/mpmsim/internal/config"
	"github.com/san-kum/mpmsim/internal/metrics"
)

// Ensemble runs the same configuration under consecutive seeds. Each run
// owns its simulator, so runs proceed in parallel.
type Ensemble struct {
	cfg       *config.Config
	registry  *Registry
	numRuns   int
	seedStart int64
	log       *slog.Logger
}

func NewEnsemble(cfg *config.Config, reg *Registry, numRuns int, seedStart int64, log *slog.Logger) *Ensemble {
	return &Ensemble{cfg: cfg, registry: reg, numRuns: numRuns, seedStart: seedStart, log: log}
}

// Run returns one result per seed in seed order, or the first setup or run
// error. When ctx is cancelled the partial results come back together with
// ctx.Err().
func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfg := e.cfg.Clone()
			cfg.Seed = e.seedStart + int64(idx)

			exp := New(cfg, e.registry, e.log)
			if err := exp.Setup(metrics.Default()); err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = exp.Run(ctx)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil && !errors.Is(err, ctx.Err()) {
			return nil, err
		}
	}

	return results, ctx.Err()
}
