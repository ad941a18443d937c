package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/spinecho/internal/config"
	"github.com/san-kum/spinecho/internal/dynamo"
	"github.com/san-kum/spinecho/internal/metrics"
	"github.com/san-kum/spinecho/internal/pulse"
	"github.com/san-kum/spinecho/internal/sim"
)

// Sweep runs the base configuration once per flip angle and period
// combination and scores each run by one metric.
type Sweep struct {
	FlipAngles []float64
	Periods    []int
	Metric     string
	Minimize   bool
}

type Point struct {
	FlipAngle float64            `json:"flip_angle"`
	Period    int                `json:"period"`
	Value     float64            `json:"value"`
	Metrics   map[string]float64 `json:"metrics"`
}

type Outcome struct {
	Metric string  `json:"metric"`
	Points []Point `json:"points"`
	Best   Point   `json:"best"`
}

// Run evaluates every grid point in parallel. A non-empty FlipAngles list
// switches the pulse mode to variable flip angle; empty lists keep the base
// value for that axis.
func (s *Sweep) Run(ctx context.Context, base *config.Config) (*Outcome, error) {
	if s.Metric == "" {
		return nil, fmt.Errorf("%w: sweep needs a metric", dynamo.ErrConfiguration)
	}

	angles := s.FlipAngles
	if len(angles) == 0 {
		angles = []float64{base.Pulse.FlipAngle}
	}
	periods := s.Periods
	if len(periods) == 0 {
		periods = []int{base.Pulse.Period}
	}

	points := make([]Point, 0, len(angles)*len(periods))
	configs := make([]sim.Config, 0, cap(points))
	for _, period := range periods {
		for _, angle := range angles {
			cfg := base.Clone()
			cfg.Pulse.Period = period
			if len(s.FlipAngles) > 0 {
				cfg.Pulse.Mode = pulse.VariableFlipAngle
				cfg.Pulse.FlipAngle = angle
			}
			if err := cfg.Validate(); err != nil {
				return nil, fmt.Errorf("flip angle %g, period %d: %w", angle, period, err)
			}

			points = append(points, Point{FlipAngle: angle, Period: period})
			configs = append(configs, cfg.SimConfig())
		}
	}

	results, err := sim.RunEnsemble(ctx, configs, base.Frames, metrics.Default)
	if err != nil {
		return nil, err
	}

	out := &Outcome{Metric: s.Metric, Points: points}
	bestVal := math.Inf(1)
	if !s.Minimize {
		bestVal = math.Inf(-1)
	}
	for i, res := range results {
		val, ok := res.Metrics[s.Metric]
		if !ok {
			return nil, fmt.Errorf("%w: unknown metric %q", dynamo.ErrConfiguration, s.Metric)
		}
		out.Points[i].Value = val
		out.Points[i].Metrics = res.Metrics

		if (s.Minimize && val < bestVal) || (!s.Minimize && val > bestVal) {
			bestVal = val
			out.Best = out.Points[i]
		}
	}

	return out, nil
}
