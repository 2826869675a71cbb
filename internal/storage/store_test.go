package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/mpmsim/internal/config"
	"github.com/san-kum/mpmsim/internal/experiment"
	"github.com/san-kum/mpmsim/internal/mpm"
)

func sampleResult() *experiment.Result {
	return &experiment.Result{
		Stats: []mpm.StepStats{
			{Step: 0, Particles: 4, ParticleMass: 4, MinJ: 1, MaxJ: 1},
			{Step: 1, Time: 0.1, Particles: 4, ParticleMass: 4, GridMass: 4, MomentumY: -0.4, KineticEnergy: 0.02, MinJ: 0.99, MaxJ: 1.01, ActiveCells: 12},
		},
		Metrics:        map[string]float64{"mass_drift": 1e-15},
		MaterialParams: map[string]float64{"mu": 20, "lambda": 10},
		Requested:      5,
		Realized:       4,
		Steps:          1,
		Elapsed:        250 * time.Millisecond,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	cfg := config.GetPreset("rest")
	cfg.Seed = 42
	runID, err := st.Save("rest", cfg, sampleResult())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(runID, "rest_"))

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, "rest", meta.Name)
	assert.Equal(t, int64(42), meta.Seed)
	assert.Equal(t, 5, meta.Requested)
	assert.Equal(t, 4, meta.Particles)
	assert.Equal(t, "neo_hookean", meta.Material)
	assert.Equal(t, map[string]float64{"mu": 20, "lambda": 10}, meta.Params)
	assert.InDelta(t, 0.25, meta.ElapsedSec, 1e-9)
	assert.Equal(t, 1e-15, meta.Metrics["mass_drift"])

	stats, err := st.LoadDiagnostics(runID)
	require.NoError(t, err)
	assert.Equal(t, sampleResult().Stats, stats)

	loaded, err := st.LoadConfig(runID)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestStoreLoadDiagnostics_Empty(t *testing.T) {
	st := New(t.TempDir())
	res := sampleResult()
	res.Stats = nil

	runID, err := st.Save("empty", config.DefaultConfig(), res)
	require.NoError(t, err)

	stats, err := st.LoadDiagnostics(runID)
	require.NoError(t, err)
	assert.Empty(t, stats)
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	first, err := st.Save("a", config.DefaultConfig(), sampleResult())
	require.NoError(t, err)
	second, err := st.Save("b", config.DefaultConfig(), sampleResult())
	require.NoError(t, err)

	// Stray files and directories without metadata are skipped.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "junk"), 0755))

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, first, runs[0].ID)
	assert.Equal(t, second, runs[1].ID)
}

func TestStoreList_MissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "nope"))
	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestStoreLoad_Missing(t *testing.T) {
	st := New(t.TempDir())
	_, err := st.Load("missing")
	assert.Error(t, err)
	_, err = st.LoadDiagnostics("missing")
	assert.Error(t, err)
}

func TestWriteDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDiagnostics(&buf, sampleResult().Stats))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "step,time,particles,particle_mass,grid_mass"))
}

func TestSnapshotPath(t *testing.T) {
	st := New("runs")
	assert.Equal(t, filepath.Join("runs", "x_1", "final.png"), st.SnapshotPath("x_1"))
}
