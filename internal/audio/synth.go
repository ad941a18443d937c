package audio

import (
	"math"
)

const (
	SampleRate = 44100
	BufferSize = 1024

	// DefaultPitch is the tone frequency in Hz at zero transverse signal.
	DefaultPitch = 220.0
)

// Voice turns the echo signal into a tone: loudness follows the echo
// magnitude and pitch bends with the normalised transverse sum.
type Voice struct {
	Pitch  float64
	Gain   float64
	Cutoff float64

	phase  float64
	amp    float64
	filter float64
}

func NewVoice() *Voice {
	return &Voice{Pitch: DefaultPitch, Gain: 2, Cutoff: 1200}
}

// triangle is a band-limited-ish oscillator with no harsh buzz.
func triangle(phase float64) float64 {
	p := phase - math.Floor(phase)
	return 4.0*math.Abs(p-0.5) - 1.0
}

// lpf is a one pole low pass filter.
func lpf(sample, cutoff, dt, state float64) float64 {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	return state + alpha*(sample-state)
}

// Next returns one output sample for the given magnitude and transverse
// value (transverse in [-1, 1]).
func (v *Voice) Next(magnitude, transverse float64) float64 {
	const dt = 1.0 / SampleRate

	target := math.Min(1, math.Max(0, magnitude*v.Gain))
	v.amp += (target - v.amp) * 0.002

	freq := v.Pitch * math.Pow(2, math.Max(-1, math.Min(1, transverse))/2)
	v.phase += freq * dt
	if v.phase > 1 {
		v.phase -= math.Floor(v.phase)
	}

	v.filter = lpf(triangle(v.phase)*v.amp, v.Cutoff, dt, v.filter)
	return v.filter
}

// Render synthesises a whole trace offline. Each frame lasts 1/fps seconds.
func (v *Voice) Render(magnitude, transverse []float64, fps int) []float32 {
	if fps <= 0 || len(magnitude) == 0 {
		return nil
	}
	perFrame := SampleRate / fps
	out := make([]float32, 0, perFrame*len(magnitude))
	for i, m := range magnitude {
		t := 0.0
		if i < len(transverse) {
			t = transverse[i]
		}
		for j := 0; j < perFrame; j++ {
			out = append(out, float32(v.Next(m, t)))
		}
	}
	return out
}
