package config

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/mpmsim/internal/mpm"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "neo_hookean", cfg.Material.Model)
	assert.Equal(t, 64, cfg.Grid.Size)
	assert.Equal(t, 4096, cfg.Particles.Count)
	assert.Greater(t, cfg.Run.Dt, 0.0)
	assert.Greater(t, cfg.Run.Steps, 0)
	assert.NoError(t, cfg.Validate())
}

func TestParams(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Particles.Velocity = [2]float64{1, 2}
	cfg.Run.Gravity = [2]float64{0, -1}

	p := cfg.Params()
	assert.Equal(t, 64, p.GridSize)
	assert.Equal(t, 0.5, p.ParticleSpacing)
	assert.Equal(t, 1.0, p.InitialVelocity.X)
	assert.Equal(t, 2.0, p.InitialVelocity.Y)
	assert.Equal(t, -1.0, p.Gravity.Y)

	_, err := mpm.New(p)
	assert.NoError(t, err)
}

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	cfg := GetPreset("jelly")
	require.NotNil(t, cfg)
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := []byte("grid:\n  size: 32\nmaterial:\n  model: passive\n")
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.Grid.Size)
	assert.Equal(t, "passive", cfg.Material.Model)
	assert.Equal(t, DefaultConfig().Run, cfg.Run)
}

func TestLoadOver_Preset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "over.yaml")
	require.NoError(t, os.WriteFile(path, []byte("grid:\n  size: 48\n"), 0644))

	base := GetPreset("jelly")
	cfg, err := LoadOver(path, base)
	require.NoError(t, err)
	assert.Equal(t, 48, cfg.Grid.Size)
	assert.Equal(t, 4.0, cfg.Material.Mu)
	assert.Equal(t, 40*40, cfg.Particles.Count)
	assert.Equal(t, 600, cfg.Run.Steps)
	assert.Equal(t, 64, base.Grid.Size, "base must not change")
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("grid: [1, 2"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"passive", func(c *Config) { c.Material.Model = "passive" }, false},
		{"unknown material", func(c *Config) { c.Material.Model = "clay" }, true},
		{"negative mu", func(c *Config) { c.Material.Mu = -1 }, true},
		{"negative steps", func(c *Config) { c.Run.Steps = -5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("launch")
	require.NotNil(t, cfg)
	assert.Equal(t, 1.375, cfg.Particles.Velocity[1])
	assert.Equal(t, 0.5, cfg.Particles.Jitter)

	cfg.Grid.Size = 8
	assert.Equal(t, 64, Presets["launch"].Grid.Size, "GetPreset must return a copy")

	assert.Nil(t, GetPreset("nonexistent"))
}

func TestPresetsBuild(t *testing.T) {
	names := ListPresets()
	require.Len(t, names, len(Presets))
	assert.True(t, sort.StringsAreSorted(names))

	for _, name := range names {
		cfg := GetPreset(name)
		require.NoError(t, cfg.Validate(), name)
		_, err := mpm.New(cfg.Params())
		assert.NoError(t, err, name)
	}
}
