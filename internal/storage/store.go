package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/spinecho/internal/config"
	"github.com/san-kum/spinecho/internal/dynamo"
	"github.com/san-kum/spinecho/internal/pulse"
	"github.com/san-kum/spinecho/internal/sim"
)

const (
	metadataFile = "metadata.json"
	traceFile    = "trace.csv"
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

type RunMetadata struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Timestamp   time.Time          `json:"timestamp"`
	Frames      int                `json:"frames"`
	Spins       int                `json:"spins"`
	OffsetScale float64            `json:"offset_scale"`
	FieldAxis   string             `json:"field_axis"`
	Renormalize bool               `json:"renormalize,omitempty"`
	Workers     int                `json:"workers,omitempty"`
	Mode        string             `json:"mode"`
	FlipAngle   float64            `json:"flip_angle"`
	FirstFrame  int                `json:"first_frame"`
	Period      int                `json:"period"`
	Scale       float64            `json:"magnitude_scale"`
	Seed        int64              `json:"seed"`
	Metrics     map[string]float64 `json:"metrics"`
	Pulses      []pulse.Event      `json:"pulses"`
}

// Describe fills the run parameters from cfg. ID, timestamp and results are
// set by Save.
func Describe(name string, cfg *config.Config) RunMetadata {
	return RunMetadata{
		Name:        name,
		Frames:      cfg.Frames,
		Spins:       cfg.Ensemble.Spins,
		OffsetScale: cfg.Ensemble.OffsetScale,
		FieldAxis:   cfg.Ensemble.FieldAxis.String(),
		Renormalize: cfg.Ensemble.Renormalize,
		Workers:     cfg.Ensemble.Workers,
		Mode:        cfg.Pulse.Mode.String(),
		FlipAngle:   cfg.Pulse.FlipAngle,
		FirstFrame:  cfg.Pulse.FirstFrame,
		Period:      cfg.Pulse.Period,
		Scale:       cfg.Signal.MagnitudeScale,
		Seed:        cfg.View.Seed,
	}
}

// Config rebuilds the configuration a run was made with. Settings that are
// not archived keep their defaults.
func (m RunMetadata) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Frames = m.Frames
	cfg.Ensemble.Spins = m.Spins
	cfg.Ensemble.OffsetScale = m.OffsetScale
	cfg.Ensemble.Renormalize = m.Renormalize
	cfg.Ensemble.Workers = m.Workers
	cfg.Pulse.FlipAngle = m.FlipAngle
	cfg.Pulse.FirstFrame = m.FirstFrame
	cfg.Pulse.Period = m.Period
	cfg.View.Seed = m.Seed
	if m.Scale > 0 {
		cfg.Signal.MagnitudeScale = m.Scale
	}

	axis, err := dynamo.ParseAxis(m.FieldAxis)
	if err != nil {
		return nil, err
	}
	cfg.Ensemble.FieldAxis = axis
	mode, err := pulse.ParseMode(m.Mode)
	if err != nil {
		return nil, err
	}
	cfg.Pulse.Mode = mode

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("run %s: %w", m.ID, err)
	}
	return cfg, nil
}

// Trace is a run's signal read back from trace.csv, oldest sample first.
type Trace struct {
	Frames     []int
	Transverse []float64
	Magnitude  []float64
	Pulses     map[int]string
}

func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := time.Now()
	name := meta.Name
	if name == "" {
		name = "run"
	}
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Frames = result.Frames
	meta.Metrics = result.Metrics
	meta.Pulses = result.Pulses

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

	csvFile, err := os.Create(filepath.Join(runDir, traceFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := writeTrace(w, result); err != nil {
		return "", err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

func writeTrace(w *csv.Writer, result *sim.Result) error {
	if err := w.Write([]string{"frame", "transverse", "magnitude", "pulse"}); err != nil {
		return err
	}

	kinds := pulseKinds(result.Pulses)
	for i := range result.Transverse {
		frame := i + 1
		row := []string{
			strconv.Itoa(frame),
			strconv.FormatFloat(result.Transverse[i], 'f', 6, 64),
			strconv.FormatFloat(result.Magnitude[i], 'f', 6, 64),
			kinds[frame],
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// pulseKinds joins the kinds of every pulse fired on the same frame.
func pulseKinds(events []pulse.Event) map[int]string {
	kinds := make(map[int]string, len(events))
	for _, e := range events {
		if prev, ok := kinds[e.Frame]; ok {
			kinds[e.Frame] = prev + "+" + e.Kind.String()
			continue
		}
		kinds[e.Frame] = e.Kind.String()
	}
	return kinds
}

// List returns every archived run, oldest first.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
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

func (s *Store) LoadTrace(runID string) (*Trace, error) {
	file, err := os.Open(s.tracePath(runID))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	trace := &Trace{Pulses: map[int]string{}}
	if len(records) < 2 {
		return trace, nil
	}

	for i, record := range records[1:] {
		if len(record) < 3 {
			continue
		}
		frame, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", traceFile, i+2, err)
		}
		transverse, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", traceFile, i+2, err)
		}
		magnitude, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", traceFile, i+2, err)
		}

		trace.Frames = append(trace.Frames, frame)
		trace.Transverse = append(trace.Transverse, transverse)
		trace.Magnitude = append(trace.Magnitude, magnitude)
		if len(record) > 3 && strings.TrimSpace(record[3]) != "" {
			trace.Pulses[frame] = record[3]
		}
	}

	return trace, nil
}

// Result rebuilds a sim.Result from an archived run.
func (s *Store) Result(runID string) (*RunMetadata, *sim.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	trace, err := s.LoadTrace(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, &sim.Result{
		Frames:     len(trace.Frames),
		Transverse: trace.Transverse,
		Magnitude:  trace.Magnitude,
		Pulses:     meta.Pulses,
		Metrics:    meta.Metrics,
	}, nil
}

func (s *Store) tracePath(runID string) string {
	return filepath.Join(s.baseDir, runID, traceFile)
}
