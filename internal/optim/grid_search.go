package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/mpmsim/internal/experiment"
)

// GridSearch evaluates every combination of parameter values and keeps the
// one that minimizes a metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Trial is one evaluated parameter combination.
type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

// Search runs buildExperiment for each combination. Combinations that fail
// to build or run are recorded as trials with Err set and skipped for the
// minimum. It returns an error only when no trial succeeded or ctx is done.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
	metricName string,
) (best Trial, trials []Trial, err error) {
	if len(g.paramNames) != len(g.ranges) {
		return Trial{}, nil, fmt.Errorf("grid search: %d names for %d ranges", len(g.paramNames), len(g.ranges))
	}

	best.Value = math.Inf(1)
	g.searchRecursive(ctx, 0, make(map[string]float64), buildExperiment, metricName, &best, &trials)

	if err := ctx.Err(); err != nil {
		return best, trials, err
	}
	if best.Params == nil {
		return best, trials, fmt.Errorf("grid search: no successful trial for %s", metricName)
	}
	return best, trials, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	buildExperiment func(map[string]float64) (*experiment.Experiment, error),
	metricName string,
	best *Trial,
	trials *[]Trial,
) {
	if ctx.Err() != nil {
		return
	}
	if depth == len(g.paramNames) {
		trial := Trial{Params: current}

		exp, err := buildExperiment(current)
		if err != nil {
			trial.Err = err
			*trials = append(*trials, trial)
			return
		}

		result, err := exp.Run(ctx)
		if err != nil {
			trial.Err = err
			*trials = append(*trials, trial)
			return
		}

		val, ok := result.Metrics[metricName]
		if !ok {
			trial.Err = fmt.Errorf("metric %s not recorded", metricName)
			*trials = append(*trials, trial)
			return
		}
		trial.Value = val
		*trials = append(*trials, trial)

		if val < best.Value {
			*best = trial
		}
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		g.searchRecursive(ctx, depth+1, newParams, buildExperiment, metricName, best, trials)
	}
}
