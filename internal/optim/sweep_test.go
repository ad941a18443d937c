package optim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/spinecho/internal/config"
	"github.com/san-kum/spinecho/internal/dynamo"
	"github.com/san-kum/spinecho/internal/experiment"
)

func TestSweepFlipAngles(t *testing.T) {
	base := config.GetPreset("dense")
	base.Frames = 700

	sw := &Sweep{FlipAngles: []float64{45, 90, 180}, Metric: "mean_magnitude"}
	out, err := sw.Run(context.Background(), base)
	if err != nil {
		t.Fatal(err)
	}

	if len(out.Points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(out.Points))
	}
	for _, p := range out.Points {
		if p.Value > out.Best.Value {
			t.Errorf("point %+v beats best %+v", p, out.Best)
		}
		if p.Period != 300 {
			t.Errorf("period should stay at base value, got %d", p.Period)
		}
	}

	// VFA at 180° is the fixed sequence.
	exp := experiment.New(base)
	if err := exp.Setup(nil); err != nil {
		t.Fatal(err)
	}
	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got, want := out.Points[2].Value, res.Metrics["mean_magnitude"]; math.Abs(got-want) > 1e-9 {
		t.Errorf("vfa 180 mean magnitude %v, fixed run %v", got, want)
	}
}

func TestSweepPeriods(t *testing.T) {
	base := config.GetPreset("classic")
	base.Frames = 400

	sw := &Sweep{Periods: []int{200, 300}, Metric: "pulse_count", Minimize: true}
	out, err := sw.Run(context.Background(), base)
	if err != nil {
		t.Fatal(err)
	}

	// 400 frames: period 200 fires at 150 and 350, period 300 only at 150.
	if out.Points[0].Value != 2 || out.Points[1].Value != 1 {
		t.Errorf("unexpected pulse counts %+v", out.Points)
	}
	if out.Best.Period != 300 {
		t.Errorf("expected best period 300, got %d", out.Best.Period)
	}
}

func TestSweepErrors(t *testing.T) {
	base := config.DefaultConfig()
	base.Frames = 10

	tests := []struct {
		name  string
		sweep Sweep
	}{
		{"no metric", Sweep{FlipAngles: []float64{90}}},
		{"unknown metric", Sweep{FlipAngles: []float64{90}, Metric: "nope"}},
		{"flip angle out of range", Sweep{FlipAngles: []float64{300}, Metric: "pulse_count"}},
		{"period not after first pulse", Sweep{Periods: []int{100}, Metric: "pulse_count"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.sweep.Run(context.Background(), base)
			if !errors.Is(err, dynamo.ErrConfiguration) {
				t.Errorf("expected configuration error, got %v", err)
			}
		})
	}
}
