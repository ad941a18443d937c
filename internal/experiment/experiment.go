package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/spinecho/internal/config"
	"github.com/san-kum/spinecho/internal/metrics"
	"github.com/san-kum/spinecho/internal/sim"
)

// Experiment is one headless run of a configured spin-echo sequence.
type Experiment struct {
	cfg        *config.Config
	simulation *sim.Simulation
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup builds the simulation and attaches the given metrics. A nil metric
// list attaches metrics.Default().
func (e *Experiment) Setup(ms []sim.Metric, observers ...sim.Observer) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	s, err := sim.New(e.cfg.SimConfig(), nil, nil)
	if err != nil {
		return err
	}
	if ms == nil {
		ms = metrics.Default()
	}
	for _, m := range ms {
		s.AddMetric(m)
	}
	for _, o := range observers {
		s.AddObserver(o)
	}

	e.simulation = s
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulation == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulation.Run(ctx, e.cfg.Frames)
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// GetSimulation returns the underlying simulation for adding observers
func (e *Experiment) GetSimulation() *sim.Simulation {
	return e.simulation
}

// Resolve builds a config from an optional preset and optional YAML file.
// The file, when given, is loaded over the preset's values.
func Resolve(preset, path string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if path != "" {
		loaded, err := config.LoadOver(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	return cfg, nil
}
