package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns |X(k)| for k in [0, n/2) where n is len(data)
// rounded up to a power of two; data is zero padded.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}

	n := 1
	for n < len(data) {
		n *= 2
	}
	padded := make([]float64, n)
	copy(padded, data)

	spectrum := fft.FFTReal(padded)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}

	return ps
}

// DominantBin returns the index of the largest bin above DC, or 0 if the
// spectrum has no such bin.
func DominantBin(ps []float64) int {
	best := 0
	maxPower := 0.0
	for i := 1; i < len(ps); i++ {
		if ps[i] > maxPower {
			maxPower = ps[i]
			best = i
		}
	}
	return best
}

// BinFrequency converts a bin index to cycles per frame for a spectrum
// computed from samples samples.
func BinFrequency(bin, samples int) float64 {
	n := 1
	for n < samples {
		n *= 2
	}
	return float64(bin) / float64(n)
}
