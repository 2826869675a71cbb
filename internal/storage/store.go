package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/mpmsim/internal/config"
	"github.com/san-kum/mpmsim/internal/experiment"
	"github.com/san-kum/mpmsim/internal/mpm"
)

const (
	metadataFile    = "metadata.json"
	diagnosticsFile = "diagnostics.csv"
	configFile      = "config.yaml"
	snapshotFile    = "final.png"
	svgFile         = "final.svg"
)

// Store keeps one directory per run holding metadata, the config used and
// per-step diagnostics. Particle state is never persisted.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Steps      int                `json:"steps"`
	GridSize   int                `json:"grid_size"`
	Requested  int                `json:"requested_particles"`
	Particles  int                `json:"particles"`
	Material   string             `json:"material"`
	Params     map[string]float64 `json:"material_params,omitempty"`
	ElapsedSec float64            `json:"elapsed_sec"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes a new run directory and returns its ID.
func (s *Store) Save(name string, cfg *config.Config, result *experiment.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Name:       name,
		Timestamp:  now,
		Seed:       cfg.Seed,
		Dt:         cfg.Run.Dt,
		Steps:      result.Steps,
		GridSize:   cfg.Grid.Size,
		Requested:  result.Requested,
		Particles:  result.Realized,
		Material:   cfg.Material.Model,
		Params:     result.MaterialParams,
		ElapsedSec: result.Elapsed.Seconds(),
		Metrics:    result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := config.Save(filepath.Join(runDir, configFile), cfg); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}

	csvFile, err := os.Create(filepath.Join(runDir, diagnosticsFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteDiagnostics(csvFile, result.Stats); err != nil {
		return "", err
	}
	return runID, nil
}

// WriteDiagnostics writes stats as CSV with a header row.
func WriteDiagnostics(w io.Writer, stats []mpm.StepStats) error {
	if len(stats) == 0 {
		return nil
	}
	if err := gocsv.Marshal(stats, w); err != nil {
		return fmt.Errorf("writing diagnostics: %w", err)
	}
	return nil
}

// List returns every readable run, oldest first. A missing base directory
// is an empty list.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadConfig returns the config a run was made with.
func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, configFile))
}

func (s *Store) LoadDiagnostics(runID string) ([]mpm.StepStats, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, diagnosticsFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var stats []mpm.StepStats
	if err := gocsv.UnmarshalFile(file, &stats); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return []mpm.StepStats{}, nil
		}
		return nil, fmt.Errorf("reading diagnostics: %w", err)
	}
	return stats, nil
}

// SnapshotPath is where the run's final rendered frame is stored.
func (s *Store) SnapshotPath(runID string) string {
	return filepath.Join(s.baseDir, runID, snapshotFile)
}

func (s *Store) SVGPath(runID string) string {
	return filepath.Join(s.baseDir, runID, svgFile)
}
