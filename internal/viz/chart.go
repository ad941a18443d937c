package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/spinecho/internal/signal"
	"github.com/san-kum/spinecho/internal/sim"
)

// StripChart keeps the newest Width samples of each series for plotting.
// It implements signal.Chart and sim.Observer; a simulation reset clears it.
// The transverse sum is divided by TransverseScale so both series share
// one axis.
type StripChart struct {
	Width           int
	Height          int
	TransverseScale float64

	transverse []float64
	magnitude  []float64
}

func NewStripChart(width, height int, transverseScale float64) *StripChart {
	if transverseScale <= 0 {
		transverseScale = 1
	}
	return &StripChart{Width: width, Height: height, TransverseScale: transverseScale}
}

func (c *StripChart) AppendSample(series signal.SeriesID, value float64) {
	switch series {
	case signal.SeriesTransverse:
		c.transverse = appendBounded(c.transverse, value/c.TransverseScale, c.Width)
	case signal.SeriesMagnitude:
		c.magnitude = appendBounded(c.magnitude, value, c.Width)
	}
}

func appendBounded(s []float64, v float64, max int) []float64 {
	s = append(s, v)
	if max > 0 && len(s) > max {
		s = s[len(s)-max:]
	}
	return s
}

func (c *StripChart) Transverse() []float64 { return c.transverse }
func (c *StripChart) Magnitude() []float64  { return c.magnitude }

func (c *StripChart) Reset() {
	c.transverse = c.transverse[:0]
	c.magnitude = c.magnitude[:0]
}

func (c *StripChart) OnReset()          { c.Reset() }
func (c *StripChart) OnFrame(sim.Frame) {}

// Render plots both series, oldest sample on the left.
func (c *StripChart) Render(theme Theme) string {
	if len(c.transverse) < 2 || len(c.magnitude) < 2 {
		return fmt.Sprintf("%*s", c.Width, "waiting for samples")
	}
	return asciigraph.PlotMany(
		[][]float64{c.transverse, c.magnitude},
		asciigraph.Height(c.Height),
		asciigraph.Width(c.Width),
		asciigraph.Precision(2),
		asciigraph.SeriesColors(theme.Transverse, theme.Magnitude),
		asciigraph.Caption("transverse / magnitude"),
	)
}
