package signal

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/spinecho/internal/dynamo"
)

// DefaultMagnitudeScale normalizes the magnitude trace of a 180-spin ensemble.
const DefaultMagnitudeScale = 360.0

// SeriesID names one of the two chart traces.
type SeriesID int

const (
	SeriesTransverse SeriesID = iota
	SeriesMagnitude
)

func (s SeriesID) String() string {
	if s == SeriesMagnitude {
		return "magnitude"
	}
	return "transverse"
}

// Chart receives one sample per series per frame.
type Chart interface {
	AppendSample(series SeriesID, value float64)
}

// NopChart discards samples.
type NopChart struct{}

func (NopChart) AppendSample(SeriesID, float64) {}

// Sample is the per-frame reduction of the ensemble.
type Sample struct {
	// SumA and SumB are the summed transverse components. For a y field
	// axis these are the x and z components.
	SumA, SumB float64
	Transverse float64
	Magnitude  float64
}

// Aggregator sums spin directions in the plane orthogonal to FieldAxis.
type Aggregator struct {
	FieldAxis      dynamo.Axis
	MagnitudeScale float64
}

func NewAggregator(field dynamo.Axis, scale float64) (*Aggregator, error) {
	if !field.Valid() {
		return nil, fmt.Errorf("%w: unknown field axis %d", dynamo.ErrInvalidArgument, int(field))
	}
	if scale <= 0 || math.IsNaN(scale) {
		return nil, fmt.Errorf("%w: magnitude scale must be positive, got %g", dynamo.ErrConfiguration, scale)
	}
	return &Aggregator{FieldAxis: field, MagnitudeScale: scale}, nil
}

// TransverseAxes returns the two axes orthogonal to field, in the order
// (A, B) used by Reduce.
func TransverseAxes(field dynamo.Axis) (dynamo.Axis, dynamo.Axis) {
	switch field {
	case dynamo.AxisX:
		return dynamo.AxisY, dynamo.AxisZ
	case dynamo.AxisZ:
		return dynamo.AxisX, dynamo.AxisY
	default:
		return dynamo.AxisX, dynamo.AxisZ
	}
}

func (a *Aggregator) Reduce(dirs []dynamo.Vec3) Sample {
	axisA, axisB := TransverseAxes(a.FieldAxis)
	compA := make([]float64, len(dirs))
	compB := make([]float64, len(dirs))
	for i, d := range dirs {
		compA[i] = d.Component(axisA)
		compB[i] = d.Component(axisB)
	}

	sumA, sumB := floats.Sum(compA), floats.Sum(compB)
	return Sample{
		SumA:       sumA,
		SumB:       sumB,
		Transverse: sumA,
		Magnitude:  math.Sqrt(sumB*sumB+sumA*sumA) / a.MagnitudeScale,
	}
}

// Recorder keeps the transverse and magnitude histories.
type Recorder struct {
	transverse *History
	magnitude  *History
}

func NewRecorder(max int) *Recorder {
	return &Recorder{transverse: NewHistory(max), magnitude: NewHistory(max)}
}

// Record pushes s into both histories and emits it to chart.
func (r *Recorder) Record(s Sample, chart Chart) {
	r.transverse.Push(s.Transverse)
	r.magnitude.Push(s.Magnitude)
	if chart != nil {
		chart.AppendSample(SeriesTransverse, s.Transverse)
		chart.AppendSample(SeriesMagnitude, s.Magnitude)
	}
}

func (r *Recorder) Transverse() *History { return r.transverse }
func (r *Recorder) Magnitude() *History  { return r.magnitude }

func (r *Recorder) Reset() {
	r.transverse.Clear()
	r.magnitude.Clear()
}

func (r *Recorder) SetCap(max int) {
	r.transverse.SetCap(max)
	r.magnitude.SetCap(max)
}
