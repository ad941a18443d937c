package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/spinecho/internal/dynamo"
	"github.com/san-kum/spinecho/internal/pulse"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Ensemble.Spins != 180 {
		t.Errorf("expected 180 spins, got %d", cfg.Ensemble.Spins)
	}
	if cfg.Pulse.Period != 300 || cfg.Pulse.FirstFrame != 150 {
		t.Errorf("unexpected timing %+v", cfg.Pulse)
	}
}

func TestPresetsValid(t *testing.T) {
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			if err := GetPreset(name).Validate(); err != nil {
				t.Errorf("preset %s invalid: %v", name, err)
			}
		})
	}
}

func TestGetPresetReturnsCopy(t *testing.T) {
	a := GetPreset("classic")
	a.Ensemble.Spins = 999
	if GetPreset("classic").Ensemble.Spins != 11 {
		t.Error("GetPreset leaked a shared pointer")
	}
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for unknown preset")
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spin.yaml")
	data := []byte(`
ensemble:
  spins: 11
  offset_scale: 3000
  field_axis: z
pulse:
  mode: vfa
  flip_angle: 45
  period: 600
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Ensemble.Spins != 11 || cfg.Ensemble.FieldAxis != dynamo.AxisZ {
		t.Errorf("ensemble = %+v", cfg.Ensemble)
	}
	if cfg.Pulse.Mode != pulse.VariableFlipAngle || cfg.Pulse.FlipAngle != 45 {
		t.Errorf("pulse = %+v", cfg.Pulse)
	}
	if cfg.Pulse.FirstFrame != 150 {
		t.Errorf("unset first_frame should keep default, got %d", cfg.Pulse.FirstFrame)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"flip angle", "pulse:\n  flip_angle: 300\n", dynamo.ErrConfiguration},
		{"axis", "ensemble:\n  field_axis: w\n", dynamo.ErrInvalidArgument},
		{"period", "pulse:\n  period: 100\n", dynamo.ErrConfiguration},
		{"nan offset scale", "ensemble:\n  offset_scale: .nan\n", dynamo.ErrConfiguration},
		{"nan magnitude scale", "signal:\n  magnitude_scale: .nan\n", dynamo.ErrConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := GetPreset("vfa")
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n%+v\n%+v", loaded, cfg)
	}
}
