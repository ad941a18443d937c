package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/spinecho/internal/dynamo"
	"github.com/san-kum/spinecho/internal/pulse"
	"github.com/san-kum/spinecho/internal/signal"
	"github.com/san-kum/spinecho/internal/spin"
)

// Simulation holds the whole mutable state of one spin-echo experiment:
// frame clock, pulse settings, ensemble and signal histories. It is driven
// from a single goroutine.
type Simulation struct {
	cfg        Config
	frame      int
	pulseCfg   pulse.Config
	ensemble   *spin.Ensemble
	scheduler  *pulse.Scheduler
	aggregator *signal.Aggregator
	recorder   *signal.Recorder
	chart      signal.Chart
	metrics    []Metric
	observers  []Observer
	events     []pulse.Event
}

// New builds a simulation. The renderer receives one CreateVisual per spin
// before New returns.
func New(cfg Config, renderer spin.Renderer, chart signal.Chart) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	scheduler, err := pulse.NewScheduler(cfg.FirstFrame, cfg.Period)
	if err != nil {
		return nil, err
	}
	aggregator, err := signal.NewAggregator(cfg.Ensemble.FieldAxis, cfg.MagnitudeScale)
	if err != nil {
		return nil, err
	}
	ensemble, err := spin.New(cfg.Ensemble, renderer)
	if err != nil {
		return nil, err
	}
	if chart == nil {
		chart = signal.NopChart{}
	}

	return &Simulation{
		cfg:        cfg,
		pulseCfg:   cfg.Pulse,
		ensemble:   ensemble,
		scheduler:  scheduler,
		aggregator: aggregator,
		recorder:   signal.NewRecorder(cfg.HistoryLength),
		chart:      chart,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
		events:     make([]pulse.Event, 0),
	}, nil
}

func (s *Simulation) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulation) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulation) Config() Config                 { return s.cfg }
func (s *Simulation) Frame() int                     { return s.frame }
func (s *Simulation) PulseConfig() pulse.Config      { return s.pulseCfg }
func (s *Simulation) Scheduler() *pulse.Scheduler    { return s.scheduler }
func (s *Simulation) Ensemble() *spin.Ensemble       { return s.ensemble }
func (s *Simulation) Directions() []dynamo.Vec3      { return s.ensemble.Directions() }
func (s *Simulation) Transverse() *signal.History    { return s.recorder.Transverse() }
func (s *Simulation) Magnitude() *signal.History     { return s.recorder.Magnitude() }
func (s *Simulation) Events() []pulse.Event          { return s.events }
func (s *Simulation) SetChart(chart signal.Chart)    { s.chart = chart }
func (s *Simulation) SetHistoryLength(n int)         { s.recorder.SetCap(n) }
func (s *Simulation) SetMode(m pulse.Mode)           { s.pulseCfg.Mode = m }
func (s *Simulation) ToggleMode()                    { s.pulseCfg.Toggle() }
func (s *Simulation) SetFlipAngle(deg float64) error { return s.pulseCfg.SetFlipAngle(deg) }

// Tick advances one frame: precess, maybe pulse, aggregate, then notify.
// On error the frame's sample is not recorded.
func (s *Simulation) Tick() (Frame, error) {
	s.frame++
	f := Frame{Index: s.frame}

	if err := s.ensemble.PrecessStep(); err != nil {
		return f, &dynamo.SimulationError{Frame: s.frame, Wrapped: err}
	}

	d, err := s.scheduler.Apply(s.frame, s.pulseCfg, s.ensemble)
	if err != nil {
		return f, &dynamo.SimulationError{Frame: s.frame, Wrapped: err}
	}
	if d.Fire {
		ev := pulse.Event{Frame: s.frame, Kind: d.Kind, Axis: d.Axis, Angle: d.Angle}
		s.events = append(s.events, ev)
		f.Pulse = &ev
	}

	f.Sample = s.aggregator.Reduce(s.ensemble.Directions())
	s.recorder.Record(f.Sample, s.chart)

	for _, m := range s.metrics {
		m.Observe(f)
	}
	for _, o := range s.observers {
		o.OnFrame(f)
	}
	return f, nil
}

// FirePulse applies a 180° pulse about x immediately, outside the schedule.
func (s *Simulation) FirePulse() error {
	return s.fireManual(math.Pi)
}

// FirePulseAngle applies a pulse of deg degrees about x immediately,
// outside the schedule. deg must be a valid flip angle.
func (s *Simulation) FirePulseAngle(deg float64) error {
	if err := pulse.ValidateFlipAngle(deg); err != nil {
		return err
	}
	return s.fireManual(pulse.Radians(deg))
}

// FireFlipPulse fires a manual pulse at the configured flip angle.
func (s *Simulation) FireFlipPulse() error {
	return s.FirePulseAngle(s.pulseCfg.FlipAngleDegrees)
}

func (s *Simulation) fireManual(angle float64) error {
	ev := pulse.Event{Frame: s.frame, Kind: pulse.KindManual, Axis: dynamo.AxisX, Angle: angle}
	if err := s.ensemble.ApplyPulse(ev.Axis, ev.Angle); err != nil {
		return &dynamo.SimulationError{Frame: s.frame, Wrapped: err}
	}
	s.events = append(s.events, ev)
	for _, o := range s.observers {
		if po, ok := o.(PulseObserver); ok {
			po.OnPulse(ev)
		}
	}
	return nil
}

// Reset restores every spin to +z, zeroes the clock and clears both
// histories and the pulse log before returning.
func (s *Simulation) Reset() {
	s.ensemble.Reset()
	s.frame = 0
	s.recorder.Reset()
	s.events = s.events[:0]
	for _, m := range s.metrics {
		m.Reset()
	}
	for _, o := range s.observers {
		o.OnReset()
	}
}

// Run advances frames ticks without a display and collects the full traces.
// The returned traces are oldest first and are not bounded by the history length.
func (s *Simulation) Run(ctx context.Context, frames int) (*Result, error) {
	if frames <= 0 {
		return nil, fmt.Errorf("%w: frames must be positive, got %d", dynamo.ErrConfiguration, frames)
	}

	result := &Result{
		Transverse: make([]float64, 0, frames),
		Magnitude:  make([]float64, 0, frames),
		Pulses:     make([]pulse.Event, 0),
		Metrics:    make(map[string]float64),
	}

	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		f, err := s.Tick()
		if err != nil {
			return result, err
		}

		result.Frames++
		result.Transverse = append(result.Transverse, f.Sample.Transverse)
		result.Magnitude = append(result.Magnitude, f.Sample.Magnitude)
		if f.Pulse != nil {
			result.Pulses = append(result.Pulses, *f.Pulse)
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}
