package metrics

import (
	"math"

	"github.com/san-kum/spinecho/internal/sim"
)

// PeakEcho tracks the largest magnitude sample seen after the first pulse.
type PeakEcho struct {
	name    string
	started bool
	peak    float64
	frame   int
}

func NewPeakEcho() *PeakEcho {
	return &PeakEcho{name: "peak_echo"}
}

func (p *PeakEcho) Name() string { return p.name }

func (p *PeakEcho) Observe(f sim.Frame) {
	if f.Pulse != nil {
		p.started = true
		return
	}
	if !p.started {
		return
	}
	if f.Sample.Magnitude > p.peak {
		p.peak = f.Sample.Magnitude
		p.frame = f.Index
	}
}

func (p *PeakEcho) Value() float64 { return p.peak }

// Frame returns the frame at which the peak was observed.
func (p *PeakEcho) Frame() int { return p.frame }

func (p *PeakEcho) Reset() {
	p.started = false
	p.peak = 0
	p.frame = 0
}

type MeanMagnitude struct {
	name    string
	sum     float64
	samples int
}

func NewMeanMagnitude() *MeanMagnitude {
	return &MeanMagnitude{name: "mean_magnitude"}
}

func (m *MeanMagnitude) Name() string { return m.name }

func (m *MeanMagnitude) Observe(f sim.Frame) {
	m.sum += f.Sample.Magnitude
	m.samples++
}

func (m *MeanMagnitude) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanMagnitude) Reset() {
	m.sum = 0
	m.samples = 0
}

type TransverseRMS struct {
	name    string
	sumSq   float64
	samples int
}

func NewTransverseRMS() *TransverseRMS {
	return &TransverseRMS{name: "transverse_rms"}
}

func (r *TransverseRMS) Name() string { return r.name }

func (r *TransverseRMS) Observe(f sim.Frame) {
	r.sumSq += f.Sample.Transverse * f.Sample.Transverse
	r.samples++
}

func (r *TransverseRMS) Value() float64 {
	if r.samples == 0 {
		return 0
	}
	return math.Sqrt(r.sumSq / float64(r.samples))
}

func (r *TransverseRMS) Reset() {
	r.sumSq = 0
	r.samples = 0
}

// PulseCount counts scheduled pulses.
type PulseCount struct {
	name  string
	count int
}

func NewPulseCount() *PulseCount {
	return &PulseCount{name: "pulse_count"}
}

func (c *PulseCount) Name() string { return c.name }

func (c *PulseCount) Observe(f sim.Frame) {
	if f.Pulse != nil {
		c.count++
	}
}

func (c *PulseCount) Value() float64 { return float64(c.count) }
func (c *PulseCount) Reset()         { c.count = 0 }

// Default returns a fresh set of the standard metrics.
func Default() []sim.Metric {
	return []sim.Metric{
		NewPeakEcho(),
		NewMeanMagnitude(),
		NewTransverseRMS(),
		NewPulseCount(),
	}
}
