package sim

import (
	"fmt"

	"github.com/san-kum/spinecho/internal/dynamo"
	"github.com/san-kum/spinecho/internal/pulse"
	"github.com/san-kum/spinecho/internal/signal"
	"github.com/san-kum/spinecho/internal/spin"
)

// Frame is what observers and metrics see after each tick.
type Frame struct {
	Index  int
	Sample signal.Sample
	Pulse  *pulse.Event
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f Frame)
	OnReset()
}

// PulseObserver is implemented by observers that also want manual pulses.
type PulseObserver interface {
	OnPulse(e pulse.Event)
}

type Config struct {
	Ensemble       spin.Config
	Pulse          pulse.Config
	FirstFrame     int
	Period         int
	HistoryLength  int
	MagnitudeScale float64
}

func DefaultConfig() Config {
	return Config{
		Ensemble:       spin.DefaultConfig(),
		Pulse:          pulse.DefaultConfig(),
		FirstFrame:     pulse.DefaultFirstFrame,
		Period:         pulse.DefaultPeriod,
		HistoryLength:  signal.DefaultHistory,
		MagnitudeScale: signal.DefaultMagnitudeScale,
	}
}

func (c Config) Validate() error {
	if err := c.Ensemble.Validate(); err != nil {
		return err
	}
	if err := c.Pulse.Validate(); err != nil {
		return err
	}
	if c.HistoryLength <= 0 {
		return fmt.Errorf("%w: history length must be positive, got %d", dynamo.ErrConfiguration, c.HistoryLength)
	}
	if !(c.MagnitudeScale > 0) {
		return fmt.Errorf("%w: magnitude scale must be positive, got %g", dynamo.ErrConfiguration, c.MagnitudeScale)
	}
	s := pulse.Scheduler{FirstFrame: c.FirstFrame, Period: c.Period, Axis: dynamo.AxisX}
	return s.Validate()
}

type Result struct {
	Frames     int                `json:"frames"`
	Transverse []float64          `json:"transverse"`
	Magnitude  []float64          `json:"magnitude"`
	Pulses     []pulse.Event      `json:"pulses"`
	Metrics    map[string]float64 `json:"metrics"`
}
