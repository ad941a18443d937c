package viz

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/spinecho/internal/config"
	"github.com/san-kum/spinecho/internal/pulse"
	"github.com/san-kum/spinecho/internal/signal"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg := config.GetPreset("dense")
	cfg.View.Width, cfg.View.Height = 30, 12
	m, err := NewModel(cfg, "dense")
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelTicks(t *testing.T) {
	m := newTestModel(t)
	for i := 0; i < 5; i++ {
		m = update(m, TickMsg(time.Now()))
	}

	if m.sim.Frame() != 5 {
		t.Errorf("frame = %d, want 5", m.sim.Frame())
	}
	if len(m.chart.Magnitude()) != 5 || m.sim.Magnitude().Len() != 5 {
		t.Error("chart and history should both hold 5 samples")
	}
	if !strings.Contains(m.View(), "Frame") {
		t.Error("view missing status panel")
	}
}

func TestModelPauseAndReset(t *testing.T) {
	m := newTestModel(t)
	m = update(m, TickMsg(time.Now()))
	m = update(m, key(" "))
	m = update(m, TickMsg(time.Now()))
	if m.sim.Frame() != 1 {
		t.Errorf("paused model advanced to frame %d", m.sim.Frame())
	}

	m = update(m, key("r"))
	if m.sim.Frame() != 0 || len(m.chart.Transverse()) != 0 || !m.running {
		t.Error("reset should clear the clock and chart and resume")
	}
}

func TestModelPulseControls(t *testing.T) {
	m := newTestModel(t)

	m = update(m, key("p"))
	if ev := m.sim.Events(); len(ev) != 1 || ev[0].Kind != pulse.KindManual {
		t.Errorf("expected one manual pulse, got %v", ev)
	}

	m = update(m, key("f"))
	ev := m.sim.Events()
	if len(ev) != 2 || ev[1].Kind != pulse.KindManual || ev[1].Angle != pulse.Radians(pulse.DefaultFlipAngle) {
		t.Errorf("expected a manual flip-angle pulse, got %v", ev)
	}

	m = update(m, key("v"))
	if m.sim.PulseConfig().Mode != pulse.VariableFlipAngle {
		t.Error("v should toggle to variable flip angle")
	}

	m = update(m, key("+"))
	if got := m.sim.PulseConfig().FlipAngleDegrees; got != 95 {
		t.Errorf("flip angle = %v, want 95", got)
	}
	for i := 0; i < 100; i++ {
		m = update(m, key("-"))
	}
	if got := m.sim.PulseConfig().FlipAngleDegrees; got != 0 {
		t.Errorf("flip angle should clamp at 0, got %v", got)
	}
	for i := 0; i < 100; i++ {
		m = update(m, key("+"))
	}
	if got := m.sim.PulseConfig().FlipAngleDegrees; got != 270 {
		t.Errorf("flip angle should clamp at 270, got %v", got)
	}
}

func TestModelViewKeys(t *testing.T) {
	m := newTestModel(t)
	rotX, zoom := m.camera.RotX, m.camera.Zoom

	m = update(m, key("x"))
	m = update(m, key("]"))
	if m.camera.RotX == rotX || m.camera.Zoom <= zoom {
		t.Error("camera keys had no effect")
	}

	name := m.theme.Name
	m = update(m, key("t"))
	if m.theme.Name == name {
		t.Error("theme did not change")
	}

	m = update(m, key("?"))
	if !strings.Contains(m.View(), "KEYBOARD SHORTCUTS") {
		t.Error("help overlay not shown")
	}

	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Error("q should return a quit command")
	}
}

func TestStripChartBounded(t *testing.T) {
	c := NewStripChart(3, 4, 10)
	for i := 0; i < 5; i++ {
		c.AppendSample(signal.SeriesTransverse, float64(i))
		c.AppendSample(signal.SeriesMagnitude, float64(i))
	}

	if got := c.Transverse(); len(got) != 3 || got[0] != 0.2 || got[2] != 0.4 {
		t.Errorf("transverse = %v", got)
	}
	if got := c.Magnitude(); len(got) != 3 || got[2] != 4 {
		t.Errorf("magnitude = %v", got)
	}
	if c.Render(ThemeMinimal) == "" {
		t.Error("empty render")
	}

	c.OnReset()
	if len(c.Transverse()) != 0 || len(c.Magnitude()) != 0 {
		t.Error("reset left samples")
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("nope").Name != "cyberpunk" {
		t.Error("unknown theme should fall back to cyberpunk")
	}
	names := ThemeNames()
	if NextTheme(names[len(names)-1]).Name != names[0] {
		t.Error("NextTheme should wrap")
	}
}

func TestGIFRecorder(t *testing.T) {
	var r GIFRecorder
	if err := r.Save(t.TempDir() + "/x.gif"); err == nil {
		t.Error("saving with no frames should fail")
	}

	c := NewCanvas(4, 2)
	c.Set(1, 1)
	r.Capture(c)
	r.Capture(c)
	if r.Len() != 2 {
		t.Fatalf("captured %d frames", r.Len())
	}
	if err := r.Save(t.TempDir() + "/x.gif"); err != nil {
		t.Fatal(err)
	}
	if r.Len() != 0 {
		t.Error("recorder not cleared after save")
	}
}

func TestGradientText(t *testing.T) {
	if GradientText("", "#000000", "#ffffff") != "" {
		t.Error("empty text should stay empty")
	}
	if r, g, b := parseHex("#10ff0a"); r != 16 || g != 255 || b != 10 {
		t.Errorf("parseHex = %d %d %d", r, g, b)
	}
	if ProgressBar(0.5, 4) != "[==--]" {
		t.Errorf("ProgressBar = %q", ProgressBar(0.5, 4))
	}
}
