package analysis

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/spinecho/internal/pulse"
)

// Echo is the magnitude peak between one pulse and the next.
type Echo struct {
	PulseFrame int
	Frame      int
	Amplitude  float64
}

// FindEchoes searches the magnitude trace after each pulse for its peak.
// The search stops at the next pulse, the end of the trace, or window
// frames after the pulse when window > 0.
func FindEchoes(magnitude []float64, pulses []pulse.Event, window int) []Echo {
	echoes := make([]Echo, 0, len(pulses))
	for i, p := range pulses {
		start := p.Frame // first sample after the pulse frame
		end := len(magnitude)
		if i+1 < len(pulses) && pulses[i+1].Frame-1 < end {
			end = pulses[i+1].Frame - 1
		}
		if window > 0 && start+window < end {
			end = start + window
		}
		if start < 0 || start >= end {
			continue
		}

		idx := floats.MaxIdx(magnitude[start:end])
		echoes = append(echoes, Echo{
			PulseFrame: p.Frame,
			Frame:      start + idx + 1,
			Amplitude:  magnitude[start+idx],
		})
	}
	return echoes
}

// EchoDecay returns amplitude[i+1]/amplitude[i] for successive echoes.
func EchoDecay(echoes []Echo) []float64 {
	if len(echoes) < 2 {
		return nil
	}
	ratios := make([]float64, 0, len(echoes)-1)
	for i := 1; i < len(echoes); i++ {
		if echoes[i-1].Amplitude == 0 {
			ratios = append(ratios, 0)
			continue
		}
		ratios = append(ratios, echoes[i].Amplitude/echoes[i-1].Amplitude)
	}
	return ratios
}
