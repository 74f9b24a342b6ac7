package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"

	"github.com/san-kum/fluidsim/internal/config"
	"github.com/san-kum/fluidsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	configFile   = "config.yaml"
	seriesFile   = "series.csv"
)

var (
	ErrNotFound  = errors.New("storage: run not found")
	ErrAmbiguous = errors.New("storage: ambiguous run id")
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir(runID string) string { return filepath.Join(s.baseDir, runID) }

type RunMetadata struct {
	ID         string             `json:"id"`
	Scenario   string             `json:"scenario"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Steps      int                `json:"steps"`
	StepsTaken int                `json:"steps_taken"`
	Particles  int                `json:"particles"`
	Groups     int                `json:"groups"`
	Metrics    map[string]float64 `json:"metrics"`
}

type seriesRow struct {
	Step   int     `csv:"step"`
	Time   float64 `csv:"time"`
	Metric string  `csv:"metric"`
	Value  float64 `csv:"value"`
}

// Series holds the per-step metric samples of a run.
type Series struct {
	Times  []float64
	Values map[string][]float64
}

// Names returns the recorded metric names in order.
func (s *Series) Names() []string {
	names := make([]string, 0, len(s.Values))
	for name := range s.Values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Save writes the metadata, configuration and metric series of a finished
// run under a fresh id.
func (s *Store) Save(cfg *config.Config, result *sim.Result) (string, error) {
	runID := uuid.NewString()
	runDir := s.Dir(runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Scenario:   cfg.Scenario,
		Timestamp:  time.Now(),
		Seed:       cfg.Seed,
		Dt:         cfg.Dt,
		Steps:      cfg.Steps,
		StepsTaken: result.StepsTaken,
		Particles:  result.Particles,
		Groups:     result.Groups,
		Metrics:    result.Metrics,
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	if err := config.Save(filepath.Join(runDir, configFile), cfg); err != nil {
		return "", err
	}

	rows := make([]seriesRow, 0, len(result.Times)*len(result.Series))
	names := (&Series{Values: result.Series}).Names()
	for i, t := range result.Times {
		for _, name := range names {
			values := result.Series[name]
			if i >= len(values) {
				continue
			}
			rows = append(rows, seriesRow{Step: i, Time: t, Metric: name, Value: values[i]})
		}
	}
	if err := writeCSV(filepath.Join(runDir, seriesFile), &rows); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(path string, rows any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := gocsv.Marshal(rows, f); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// List returns the stored runs, newest first.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(runID), metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// Resolve expands a unique id prefix to the full run id.
func (s *Store) Resolve(prefix string) (string, error) {
	runs, err := s.List()
	if err != nil {
		return "", err
	}
	match := ""
	for _, r := range runs {
		if r.ID == prefix {
			return r.ID, nil
		}
		if strings.HasPrefix(r.ID, prefix) {
			if match != "" {
				return "", fmt.Errorf("%w: %s", ErrAmbiguous, prefix)
			}
			match = r.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", ErrNotFound, prefix)
	}
	return match, nil
}

func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.Dir(runID), configFile))
}

func (s *Store) LoadSeries(runID string) (*Series, error) {
	f, err := os.Open(filepath.Join(s.Dir(runID), seriesFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []seriesRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil && !errors.Is(err, gocsv.ErrEmptyCSVFile) {
		return nil, fmt.Errorf("read %s: %w", seriesFile, err)
	}

	series := &Series{Values: make(map[string][]float64)}
	lastStep := -1
	for _, r := range rows {
		if r.Step != lastStep {
			series.Times = append(series.Times, r.Time)
			lastStep = r.Step
		}
		series.Values[r.Metric] = append(series.Values[r.Metric], r.Value)
	}
	return series, nil
}
