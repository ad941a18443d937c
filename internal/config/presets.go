package config

import (
	"sort"

	"github.com/san-kum/spinecho/internal/dynamo"
	"github.com/san-kum/spinecho/internal/pulse"
)

var Presets = map[string]*Config{
	"classic": {
		Ensemble: EnsembleConfig{Spins: 11, OffsetScale: 3000, FieldAxis: dynamo.AxisY},
		Pulse:    PulseConfig{Mode: pulse.Fixed180, FlipAngle: 90, FirstFrame: 150, Period: 600},
		Signal:   SignalConfig{History: 400, MagnitudeScale: 11},
		View:     ViewConfig{FPS: 60, Width: 60, Height: 22, Theme: "retro", Seed: 1},
		Frames:   1800,
	},
	"dense": {
		Ensemble: EnsembleConfig{Spins: 180, OffsetScale: 10000, FieldAxis: dynamo.AxisY},
		Pulse:    PulseConfig{Mode: pulse.Fixed180, FlipAngle: 90, FirstFrame: 150, Period: 300},
		Signal:   SignalConfig{History: 400, MagnitudeScale: 360},
		View:     ViewConfig{FPS: 60, Width: 60, Height: 22, Theme: "cyberpunk", Seed: 1},
		Frames:   900,
	},
	"vfa": {
		Ensemble: EnsembleConfig{Spins: 180, OffsetScale: 10000, FieldAxis: dynamo.AxisY},
		Pulse:    PulseConfig{Mode: pulse.VariableFlipAngle, FlipAngle: 120, FirstFrame: 150, Period: 300},
		Signal:   SignalConfig{History: 400, MagnitudeScale: 360},
		View:     ViewConfig{FPS: 60, Width: 60, Height: 22, Theme: "ocean", Seed: 1},
		Frames:   1500,
	},
	"wide": {
		Ensemble: EnsembleConfig{Spins: 180, OffsetScale: 4000, FieldAxis: dynamo.AxisY},
		Pulse:    PulseConfig{Mode: pulse.Fixed180, FlipAngle: 90, FirstFrame: 150, Period: 300},
		Signal:   SignalConfig{History: 400, MagnitudeScale: 360},
		View:     ViewConfig{FPS: 60, Width: 60, Height: 22, Theme: "sunset", Seed: 1},
		Frames:   900,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
