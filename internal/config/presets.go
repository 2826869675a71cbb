package config

import "sort"

// Presets are complete configurations keyed by name. GetPreset copies
// them; never mutate these directly.
var Presets = map[string]*Config{
	"launch": {
		Seed:      1,
		Grid:      GridConfig{Size: 64, Spacing: 1},
		Particles: ParticleConfig{Count: 64 * 64, Spacing: 0.5, Mass: 1, Velocity: [2]float64{0, 1.375}, Jitter: 0.5},
		Material:  MaterialConfig{Model: "neo_hookean", Mu: 20, Lambda: 10},
		Run:       RunConfig{Steps: 500, Dt: 0.1, Gravity: [2]float64{0, -0.3}},
	},
	"block": {
		Seed:      1,
		Grid:      GridConfig{Size: 64, Spacing: 1},
		Particles: ParticleConfig{Count: 32 * 32, Spacing: 0.5, Mass: 1},
		Material:  MaterialConfig{Model: "neo_hookean", Mu: 20, Lambda: 10},
		Run:       RunConfig{Steps: 400, Dt: 0.1, Gravity: [2]float64{0, -0.3}},
	},
	"rest": {
		Seed:      1,
		Grid:      GridConfig{Size: 32, Spacing: 1},
		Particles: ParticleConfig{Count: 16 * 16, Spacing: 0.5, Mass: 1},
		Material:  MaterialConfig{Model: "neo_hookean", Mu: 20, Lambda: 10},
		Run:       RunConfig{Steps: 100, Dt: 0.1},
	},
	"jelly": {
		Seed:      1,
		Grid:      GridConfig{Size: 64, Spacing: 1},
		Particles: ParticleConfig{Count: 40 * 40, Spacing: 0.5, Mass: 1, Velocity: [2]float64{0.5, 1}, Jitter: 0.1},
		Material:  MaterialConfig{Model: "neo_hookean", Mu: 4, Lambda: 2},
		Run:       RunConfig{Steps: 600, Dt: 0.1, Gravity: [2]float64{0, -0.3}},
	},
	"sand-free": {
		Seed:      1,
		Grid:      GridConfig{Size: 64, Spacing: 1},
		Particles: ParticleConfig{Count: 48 * 48, Spacing: 0.5, Mass: 1, Velocity: [2]float64{0, 1.375}, Jitter: 0.5},
		Material:  MaterialConfig{Model: "passive"},
		Run:       RunConfig{Steps: 500, Dt: 0.1, Gravity: [2]float64{0, -0.3}},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
