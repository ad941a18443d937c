package analysis

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/spinecho/internal/pulse"
	"github.com/san-kum/spinecho/internal/sim"
)

func TestPowerSpectrumFindsTone(t *testing.T) {
	n := 256
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * 8 * float64(i) / float64(n))
	}

	ps := PowerSpectrum(data)
	if len(ps) != n/2 {
		t.Fatalf("spectrum length %d, want %d", len(ps), n/2)
	}
	if bin := DominantBin(ps); bin != 8 {
		t.Errorf("dominant bin = %d, want 8", bin)
	}
	if f := BinFrequency(8, n); f != 8.0/256 {
		t.Errorf("BinFrequency = %v", f)
	}
}

func TestPowerSpectrumPads(t *testing.T) {
	if ps := PowerSpectrum(make([]float64, 300)); len(ps) != 256 {
		t.Errorf("expected padding to 512 samples, got %d bins", len(ps))
	}
	if PowerSpectrum(nil) != nil {
		t.Error("empty input should give nil")
	}
}

func TestFindEchoesOnSimulatedTrace(t *testing.T) {
	s, err := sim.New(sim.DefaultConfig(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	res, err := s.Run(context.Background(), 900)
	if err != nil {
		t.Fatal(err)
	}

	echoes := FindEchoes(res.Magnitude, res.Pulses, 0)
	if len(echoes) != 3 {
		t.Fatalf("expected 3 echoes, got %v", echoes)
	}
	for i, want := range []int{300, 600} {
		if echoes[i].Frame != want {
			t.Errorf("echo %d at frame %d, want %d", i, echoes[i].Frame, want)
		}
		if math.Abs(echoes[i].Amplitude-0.5) > 1e-9 {
			t.Errorf("echo %d amplitude %v", i, echoes[i].Amplitude)
		}
	}

	for _, r := range EchoDecay(echoes[:2]) {
		if math.Abs(r-1) > 1e-9 {
			t.Errorf("fixed 180° echoes should not decay, ratio %v", r)
		}
	}
}

func TestFindEchoesWindow(t *testing.T) {
	mag := []float64{0, 0, 0.1, 0.3, 0.2, 0.9, 0.1}
	pulses := []pulse.Event{{Frame: 2}}

	echoes := FindEchoes(mag, pulses, 3)
	if len(echoes) != 1 || echoes[0].Frame != 4 || echoes[0].Amplitude != 0.3 {
		t.Errorf("windowed echoes = %+v", echoes)
	}
	echoes = FindEchoes(mag, pulses, 0)
	if echoes[0].Frame != 6 {
		t.Errorf("unbounded echo frame = %d, want 6", echoes[0].Frame)
	}
}

func TestEchoDecay(t *testing.T) {
	got := EchoDecay([]Echo{{Amplitude: 0.5}, {Amplitude: 0.25}, {Amplitude: 0}})
	if len(got) != 2 || got[0] != 0.5 || got[1] != 0 {
		t.Errorf("EchoDecay = %v", got)
	}
	if EchoDecay(nil) != nil {
		t.Error("expected nil for fewer than two echoes")
	}
}
