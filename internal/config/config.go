package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/mpmsim/internal/mpm"
)

const (
	DefaultSteps    = 500
	DefaultMaterial = "neo_hookean"
	DefaultMu       = 20.0
	DefaultLambda   = 10.0
)

type Config struct {
	Seed      int64          `yaml:"seed"`
	Grid      GridConfig     `yaml:"grid"`
	Particles ParticleConfig `yaml:"particles"`
	Material  MaterialConfig `yaml:"material"`
	Run       RunConfig      `yaml:"run"`
}

type GridConfig struct {
	Size    int     `yaml:"size"`
	Spacing float64 `yaml:"spacing"`
}

type ParticleConfig struct {
	Count    int        `yaml:"count"`
	Spacing  float64    `yaml:"spacing"`
	Mass     float64    `yaml:"mass"`
	Velocity [2]float64 `yaml:"velocity"`
	Jitter   float64    `yaml:"jitter"`
}

type MaterialConfig struct {
	Model  string  `yaml:"model"`
	Mu     float64 `yaml:"mu"`
	Lambda float64 `yaml:"lambda"`
}

type RunConfig struct {
	Steps   int        `yaml:"steps"`
	Dt      float64    `yaml:"dt"`
	Gravity [2]float64 `yaml:"gravity"`
}

func DefaultConfig() *Config {
	return &Config{
		Seed: mpm.DefaultSeed,
		Grid: GridConfig{
			Size:    mpm.DefaultGridSize,
			Spacing: mpm.DefaultGridSpacing,
		},
		Particles: ParticleConfig{
			Count:   mpm.DefaultNumParticles,
			Spacing: 0.5,
			Mass:    mpm.DefaultParticleMass,
		},
		Material: MaterialConfig{
			Model:  DefaultMaterial,
			Mu:     DefaultMu,
			Lambda: DefaultLambda,
		},
		Run: RunConfig{
			Steps:   DefaultSteps,
			Dt:      mpm.DefaultTimeStep,
			Gravity: [2]float64{0, mpm.DefaultGravity},
		},
	}
}

// Load reads a YAML file on top of DefaultConfig, so omitted keys keep
// their defaults.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads path on top of a copy of base, so keys missing from the
// file keep base's values. base is not modified.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate catches what the simulator constructor cannot: run length and
// material selection. Physical parameters are checked by mpm.New.
func (c *Config) Validate() error {
	if c.Run.Steps < 0 {
		return fmt.Errorf("run.steps must be >= 0, got %d", c.Run.Steps)
	}
	switch c.Material.Model {
	case "neo_hookean":
		if c.Material.Mu < 0 || c.Material.Lambda < 0 {
			return fmt.Errorf("material: %w (mu=%g, lambda=%g)", mpm.ErrInvalidParameter, c.Material.Mu, c.Material.Lambda)
		}
	case "passive":
	default:
		return fmt.Errorf("unknown material: %s", c.Material.Model)
	}
	return nil
}

// Params converts the config into simulator parameters.
func (c *Config) Params() mpm.Params {
	return mpm.Params{
		GridSize:        c.Grid.Size,
		NumParticles:    c.Particles.Count,
		GridSpacing:     c.Grid.Spacing,
		ParticleSpacing: c.Particles.Spacing,
		TimeStep:        c.Run.Dt,
		Gravity:         vec(c.Run.Gravity),
		ParticleMass:    c.Particles.Mass,
		InitialVelocity: vec(c.Particles.Velocity),
		VelocityJitter:  c.Particles.Jitter,
	}
}

func (c *Config) MaterialParams() map[string]float64 {
	return map[string]float64{
		"mu":     c.Material.Mu,
		"lambda": c.Material.Lambda,
	}
}

// Clone returns a deep copy; presets are shared and must not be mutated.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
