package experiment

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sort"

	"github.com/san-kum/mpmsim/internal/config"
	"github.com/san-kum/mpmsim/internal/mpm"
)

type Registry struct {
	materials map[string]func(map[string]float64) mpm.Constitutive
}

func NewRegistry() *Registry {
	r := &Registry{
		materials: make(map[string]func(map[string]float64) mpm.Constitutive),
	}

	r.materials["neo_hookean"] = func(params map[string]float64) mpm.Constitutive {
		return mpm.NeoHookean{Mu: params["mu"], Lambda: params["lambda"]}
	}
	r.materials["passive"] = func(map[string]float64) mpm.Constitutive {
		return mpm.Passive{}
	}

	return r
}

// Register adds or replaces a material constructor.
func (r *Registry) Register(name string, fn func(map[string]float64) mpm.Constitutive) {
	r.materials[name] = fn
}

func (r *Registry) GetMaterial(name string, params map[string]float64) (mpm.Constitutive, error) {
	fn, ok := r.materials[name]
	if !ok {
		return nil, fmt.Errorf("unknown material: %s (available: %v)", name, r.ListMaterials())
	}
	return fn(params), nil
}

func (r *Registry) ListMaterials() []string {
	names := make([]string, 0, len(r.materials))
	for name := range r.materials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build constructs a simulator for cfg. A nil rng seeds from cfg.Seed.
func (r *Registry) Build(cfg *config.Config, rng *rand.Rand, log *slog.Logger) (*mpm.Simulator, error) {
	material, err := r.GetMaterial(cfg.Material.Model, cfg.MaterialParams())
	if err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(cfg.Seed))
	}
	opts := []mpm.Option{mpm.WithMaterial(material), mpm.WithRand(rng)}
	if log != nil {
		opts = append(opts, mpm.WithLogger(log))
	}
	sim, err := mpm.New(cfg.Params(), opts...)
	if err != nil {
		return nil, fmt.Errorf("build simulator: %w", err)
	}
	return sim, nil
}
