package spin

import (
	"fmt"

	"github.com/san-kum/spinecho/internal/dynamo"
)

const (
	DefaultCount       = 180
	DefaultOffsetScale = 10000.0

	// parallelThreshold keeps typical ensembles on the calling goroutine.
	parallelThreshold = 256
)

// Spin is a single simulated magnetic dipole.
type Spin struct {
	Direction dynamo.Vec3
	Offset    float64
}

// Renderer receives visual updates from the ensemble.
type Renderer interface {
	CreateVisual(index int, dir dynamo.Vec3)
	SetVisualDirection(index int, dir dynamo.Vec3)
}

// NopRenderer discards all visual updates.
type NopRenderer struct{}

func (NopRenderer) CreateVisual(int, dynamo.Vec3)       {}
func (NopRenderer) SetVisualDirection(int, dynamo.Vec3) {}

type Config struct {
	Count       int
	OffsetScale float64
	FieldAxis   dynamo.Axis
	Renormalize bool
	Workers     int
}

func DefaultConfig() Config {
	return Config{
		Count:       DefaultCount,
		OffsetScale: DefaultOffsetScale,
		FieldAxis:   dynamo.AxisY,
	}
}

func (c Config) Validate() error {
	if c.Count <= 0 {
		return fmt.Errorf("%w: spin count must be positive, got %d", dynamo.ErrInvalidArgument, c.Count)
	}
	if !(c.OffsetScale > 0) {
		return fmt.Errorf("%w: offset scale must be positive, got %g", dynamo.ErrConfiguration, c.OffsetScale)
	}
	if !c.FieldAxis.Valid() {
		return fmt.Errorf("%w: unknown field axis %d", dynamo.ErrInvalidArgument, int(c.FieldAxis))
	}
	return nil
}

// Offset returns the per-frame precession angle of spin index in an
// ensemble of count spins.
func Offset(index, count int, scale float64) float64 {
	return float64(index-count/2) / scale
}

// Ensemble owns the spins. It is not safe for concurrent use.
type Ensemble struct {
	cfg      Config
	spins    []Spin
	precess  []dynamo.Mat3
	renderer Renderer
}

func New(cfg Config, r Renderer) (*Ensemble, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if r == nil {
		r = NopRenderer{}
	}

	e := &Ensemble{
		cfg:      cfg,
		spins:    make([]Spin, cfg.Count),
		precess:  make([]dynamo.Mat3, cfg.Count),
		renderer: r,
	}

	for i := range e.spins {
		offset := Offset(i, cfg.Count, cfg.OffsetScale)
		rot, err := dynamo.RotationMatrix(cfg.FieldAxis, offset)
		if err != nil {
			return nil, err
		}
		e.spins[i] = Spin{Direction: dynamo.UnitZ, Offset: offset}
		e.precess[i] = rot
		r.CreateVisual(i, dynamo.UnitZ)
	}

	return e, nil
}

func (e *Ensemble) Config() Config  { return e.cfg }
func (e *Ensemble) Len() int        { return len(e.spins) }
func (e *Ensemble) Spin(i int) Spin { return e.spins[i] }

// Directions returns a copy of every spin direction in index order.
func (e *Ensemble) Directions() []dynamo.Vec3 {
	dirs := make([]dynamo.Vec3, len(e.spins))
	for i, s := range e.spins {
		dirs[i] = s.Direction
	}
	return dirs
}

func (e *Ensemble) Offsets() []float64 {
	offsets := make([]float64, len(e.spins))
	for i, s := range e.spins {
		offsets[i] = s.Offset
	}
	return offsets
}

// PrecessStep advances every spin by its own offset about the field axis.
func (e *Ensemble) PrecessStep() error {
	return e.transform(func(i int) dynamo.Mat3 { return e.precess[i] })
}

// ApplyPulse rotates every spin by angle radians about axis.
func (e *Ensemble) ApplyPulse(axis dynamo.Axis, angle float64) error {
	rot, err := dynamo.RotationMatrix(axis, angle)
	if err != nil {
		return err
	}
	return e.transform(func(int) dynamo.Mat3 { return rot })
}

// Reset points every spin back along +z.
func (e *Ensemble) Reset() {
	for i := range e.spins {
		e.spins[i].Direction = dynamo.UnitZ
		e.renderer.SetVisualDirection(i, dynamo.UnitZ)
	}
}

func (e *Ensemble) transform(matrixFor func(i int) dynamo.Mat3) error {
	next := make([]dynamo.Vec3, len(e.spins))
	bad := make([]bool, len(e.spins))

	dynamo.ParallelFor(len(e.spins), parallelThreshold, e.cfg.Workers, func(start, end int) {
		for i := start; i < end; i++ {
			d := matrixFor(i).Apply(e.spins[i].Direction)
			if e.cfg.Renormalize {
				d = d.Normalize()
			}
			next[i] = d
			bad[i] = !d.IsValid()
		}
	})

	for i, b := range bad {
		if b {
			return fmt.Errorf("spin %d: %w", i, dynamo.ErrInvalidState)
		}
	}

	for i, d := range next {
		e.spins[i].Direction = d
		e.renderer.SetVisualDirection(i, d)
	}
	return nil
}
