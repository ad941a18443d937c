package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/spinecho/internal/dynamo"
	"github.com/san-kum/spinecho/internal/pulse"
	"github.com/san-kum/spinecho/internal/signal"
	"github.com/san-kum/spinecho/internal/sim"
	"github.com/san-kum/spinecho/internal/spin"
)

const (
	DefaultFrames = 900
	DefaultFPS    = 60
	DefaultWidth  = 60
	DefaultHeight = 22
	DefaultTheme  = "cyberpunk"
)

type Config struct {
	Ensemble EnsembleConfig `yaml:"ensemble"`
	Pulse    PulseConfig    `yaml:"pulse"`
	Signal   SignalConfig   `yaml:"signal"`
	View     ViewConfig     `yaml:"view"`
	Frames   int            `yaml:"frames"`
}

type EnsembleConfig struct {
	Spins       int         `yaml:"spins"`
	OffsetScale float64     `yaml:"offset_scale"`
	FieldAxis   dynamo.Axis `yaml:"field_axis"`
	Renormalize bool        `yaml:"renormalize"`
	Workers     int         `yaml:"workers"`
}

type PulseConfig struct {
	Mode       pulse.Mode `yaml:"mode"`
	FlipAngle  float64    `yaml:"flip_angle"`
	FirstFrame int        `yaml:"first_frame"`
	Period     int        `yaml:"period"`
}

type SignalConfig struct {
	History        int     `yaml:"history"`
	MagnitudeScale float64 `yaml:"magnitude_scale"`
}

type ViewConfig struct {
	FPS    int    `yaml:"fps"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Theme  string `yaml:"theme"`
	Seed   int64  `yaml:"seed"`
}

func DefaultConfig() *Config {
	return &Config{
		Ensemble: EnsembleConfig{
			Spins:       spin.DefaultCount,
			OffsetScale: spin.DefaultOffsetScale,
			FieldAxis:   dynamo.AxisY,
		},
		Pulse: PulseConfig{
			Mode:       pulse.Fixed180,
			FlipAngle:  pulse.DefaultFlipAngle,
			FirstFrame: pulse.DefaultFirstFrame,
			Period:     pulse.DefaultPeriod,
		},
		Signal: SignalConfig{
			History:        signal.DefaultHistory,
			MagnitudeScale: signal.DefaultMagnitudeScale,
		},
		View: ViewConfig{
			FPS:    DefaultFPS,
			Width:  DefaultWidth,
			Height: DefaultHeight,
			Theme:  DefaultTheme,
			Seed:   1,
		},
		Frames: DefaultFrames,
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads path on top of a copy of base; keys absent from the file
// keep base's values.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
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

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

func (c *Config) Validate() error {
	if c.Frames <= 0 {
		return fmt.Errorf("%w: frames must be positive, got %d", dynamo.ErrConfiguration, c.Frames)
	}
	if c.View.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %d", dynamo.ErrConfiguration, c.View.FPS)
	}
	return c.SimConfig().Validate()
}

// SimConfig maps the file layout onto the simulation config.
func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Ensemble: spin.Config{
			Count:       c.Ensemble.Spins,
			OffsetScale: c.Ensemble.OffsetScale,
			FieldAxis:   c.Ensemble.FieldAxis,
			Renormalize: c.Ensemble.Renormalize,
			Workers:     c.Ensemble.Workers,
		},
		Pulse: pulse.Config{
			Mode:             c.Pulse.Mode,
			FlipAngleDegrees: c.Pulse.FlipAngle,
		},
		FirstFrame:     c.Pulse.FirstFrame,
		Period:         c.Pulse.Period,
		HistoryLength:  c.Signal.History,
		MagnitudeScale: c.Signal.MagnitudeScale,
	}
}
