package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/spinecho/internal/config"
	"github.com/san-kum/spinecho/internal/dynamo"
	"github.com/san-kum/spinecho/internal/pulse"
	"github.com/san-kum/spinecho/internal/sim"
)

func testResult() *sim.Result {
	return &sim.Result{
		Frames:     3,
		Transverse: []float64{1.5, 0.25, -2},
		Magnitude:  []float64{0.5, 0.125, 0.75},
		Pulses: []pulse.Event{
			{Frame: 2, Kind: pulse.KindFirst, Axis: dynamo.AxisX, Angle: pulse.Radians(180)},
			{Frame: 2, Kind: pulse.KindManual, Axis: dynamo.AxisX, Angle: pulse.Radians(180)},
		},
		Metrics: map[string]float64{"peak_echo": 0.75},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	meta := Describe("dense", config.GetPreset("dense"))
	runID, err := st.Save(meta, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if !strings.HasPrefix(runID, "dense_") {
		t.Errorf("unexpected run id %q", runID)
	}

	loaded, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Spins != 180 || loaded.Period != 300 || loaded.FieldAxis != "y" {
		t.Errorf("run parameters not preserved: %+v", loaded)
	}
	if loaded.Frames != 3 {
		t.Errorf("expected 3 frames, got %d", loaded.Frames)
	}
	if loaded.Metrics["peak_echo"] != 0.75 {
		t.Errorf("expected peak_echo 0.75, got %f", loaded.Metrics["peak_echo"])
	}
	if len(loaded.Pulses) != 2 || loaded.Pulses[1].Kind != pulse.KindManual {
		t.Errorf("pulses not preserved: %+v", loaded.Pulses)
	}

	trace, err := st.LoadTrace(runID)
	if err != nil {
		t.Fatalf("load trace failed: %v", err)
	}

	if len(trace.Frames) != 3 || trace.Frames[0] != 1 || trace.Frames[2] != 3 {
		t.Errorf("unexpected frames %v", trace.Frames)
	}
	if trace.Transverse[2] != -2 || trace.Magnitude[1] != 0.125 {
		t.Errorf("trace values not preserved: %+v", trace)
	}
	if trace.Pulses[2] != "first+manual" {
		t.Errorf("expected pulse column first+manual, got %q", trace.Pulses[2])
	}
}

func TestMetadataConfigRoundTrip(t *testing.T) {
	cfg := config.GetPreset("vfa")
	meta := Describe("vfa", cfg)
	meta.Frames = cfg.Frames

	got, err := meta.Config()
	if err != nil {
		t.Fatal(err)
	}
	if got.SimConfig() != cfg.SimConfig() {
		t.Errorf("rebuilt config differs:\n got %+v\nwant %+v", got.SimConfig(), cfg.SimConfig())
	}
	if got.View.Seed != cfg.View.Seed || got.Frames != cfg.Frames {
		t.Error("seed or frames not restored")
	}

	cfg.Ensemble.Renormalize = true
	cfg.Ensemble.Workers = 3
	renorm := Describe("renorm", cfg)
	renorm.Frames = cfg.Frames
	got, err = renorm.Config()
	if err != nil {
		t.Fatal(err)
	}
	if !got.Ensemble.Renormalize || got.Ensemble.Workers != 3 {
		t.Errorf("ensemble options not restored: %+v", got.Ensemble)
	}

	meta.FieldAxis = "w"
	if _, err := meta.Config(); !errors.Is(err, dynamo.ErrInvalidArgument) {
		t.Errorf("expected invalid argument, got %v", err)
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	for _, name := range []string{"a", "b"} {
		if _, err := st.Save(RunMetadata{Name: name}, testResult()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Name != "a" || runs[1].Name != "b" {
		t.Errorf("runs not ordered by time: %s, %s", runs[0].Name, runs[1].Name)
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "missing"))
	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list, got %v, %v", runs, err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(RunMetadata{}, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	for _, name := range []string{"metadata.json", "trace.csv"} {
		if _, err := os.Stat(filepath.Join(runDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}

	var buf bytes.Buffer
	if err := st.ExportCSV(runID, &buf); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "frame,transverse,magnitude,pulse" || len(lines) != 4 {
		t.Errorf("unexpected csv:\n%s", buf.String())
	}
}

func TestStoreResult(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(RunMetadata{Name: "r"}, testResult())
	if err != nil {
		t.Fatal(err)
	}

	meta, res, err := st.Result(runID)
	if err != nil {
		t.Fatal(err)
	}
	if meta.ID != runID || res.Frames != 3 || len(res.Pulses) != 2 {
		t.Errorf("unexpected rebuilt result %+v", res)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, RunMetadata{Name: "x"}, testResult()); err != nil {
		t.Fatal(err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatal(err)
	}
	if data.Run.Name != "x" || data.Pulses != 2 || data.Run.Frames != 3 {
		t.Errorf("unexpected export %+v", data)
	}
	if data.Run.Pulses[0].Kind != pulse.KindFirst || data.Run.Pulses[0].Axis != dynamo.AxisX {
		t.Errorf("pulse events not round tripped: %+v", data.Run.Pulses)
	}

	path := filepath.Join(t.TempDir(), "out.json")
	if err := ExportJSON(path, RunMetadata{}, testResult()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Error(err)
	}
}
