package viz

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/spinecho/internal/config"
	"github.com/san-kum/spinecho/internal/dynamo"
	"github.com/san-kum/spinecho/internal/pulse"
	"github.com/san-kum/spinecho/internal/sim"
)

const (
	flipStep    = 5.0
	cameraStep  = 0.1
	chartHeight = 8
	gifPath     = "spinecho.gif"
)

type TickMsg time.Time

// Model drives a simulation from Bubble Tea ticks and renders the arrow
// field next to the signal strip chart.
type Model struct {
	sim    *sim.Simulation
	arrows *ArrowField
	chart  *StripChart
	canvas *Canvas
	camera *Camera
	gif    *GIFRecorder

	title     string
	fps       int
	theme     Theme
	running   bool
	recording bool
	showHelp  bool
	err       error
	notice    string
}

// NewModel builds the simulation described by cfg with the arrow field as
// its renderer and a strip chart as its chart.
func NewModel(cfg *config.Config, title string) (Model, error) {
	if err := cfg.Validate(); err != nil {
		return Model{}, err
	}

	arrows := NewArrowField(cfg.View.Seed)
	chart := NewStripChart(cfg.View.Width, chartHeight, cfg.Signal.MagnitudeScale)

	s, err := sim.New(cfg.SimConfig(), arrows, chart)
	if err != nil {
		return Model{}, err
	}
	s.AddObserver(chart)

	return Model{
		sim:     s,
		arrows:  arrows,
		chart:   chart,
		canvas:  NewCanvas(cfg.View.Width, cfg.View.Height),
		camera:  NewCamera(),
		gif:     &GIFRecorder{},
		title:   title,
		fps:     cfg.View.FPS,
		theme:   GetTheme(cfg.View.Theme),
		running: true,
	}, nil
}

// Simulation exposes the driven simulation so callers can attach observers.
func (m Model) Simulation() *sim.Simulation { return m.sim }

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case TickMsg:
		if m.running && m.err == nil {
			if _, err := m.sim.Tick(); err != nil {
				m.err = err
				m.running = false
			}
		}
		m.arrows.Draw(m.canvas, m.camera)
		if m.recording {
			m.gif.Capture(m.canvas)
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		if m.err == nil {
			m.running = !m.running
		}
	case "r":
		m.sim.Reset()
		m.err = nil
		m.running = true
		m.notice = "reset"
	case "p":
		if err := m.sim.FirePulse(); err != nil {
			m.err = err
			m.running = false
		} else {
			m.notice = fmt.Sprintf("manual pulse at frame %d", m.sim.Frame())
		}
	case "f":
		if err := m.sim.FireFlipPulse(); err != nil {
			m.err = err
			m.running = false
		} else {
			m.notice = fmt.Sprintf("%.0f° pulse at frame %d", m.sim.PulseConfig().FlipAngleDegrees, m.sim.Frame())
		}
	case "v":
		m.sim.ToggleMode()
		m.notice = "mode " + m.sim.PulseConfig().Mode.String()
	case "+", "=":
		m.adjustFlipAngle(flipStep)
	case "-", "_":
		m.adjustFlipAngle(-flipStep)
	case "x":
		m.camera.RotateX(cameraStep)
	case "X":
		m.camera.RotateX(-cameraStep)
	case "y":
		m.camera.RotateY(cameraStep)
	case "Y":
		m.camera.RotateY(-cameraStep)
	case "z":
		m.camera.RotateZ(cameraStep)
	case "Z":
		m.camera.RotateZ(-cameraStep)
	case "]":
		m.camera.ZoomIn()
	case "[":
		m.camera.ZoomOut()
	case "t":
		m.theme = NextTheme(m.theme.Name)
	case "g":
		m.toggleRecording()
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

// adjustFlipAngle clamps before storing, so held keys stop at the range ends.
func (m *Model) adjustFlipAngle(delta float64) {
	deg := pulse.ClampFlipAngle(m.sim.PulseConfig().FlipAngleDegrees + delta)
	if err := m.sim.SetFlipAngle(deg); err != nil {
		m.notice = err.Error()
		return
	}
	m.notice = fmt.Sprintf("flip angle %.0f°", deg)
}

func (m *Model) toggleRecording() {
	if !m.recording {
		m.recording = true
		m.notice = "recording"
		return
	}
	m.recording = false
	if err := m.gif.Save(gifPath); err != nil {
		m.notice = "gif: " + err.Error()
		return
	}
	m.notice = "saved " + gifPath
}

func (m Model) status() string {
	st := newStyles(m.theme)
	switch {
	case m.err != nil:
		return st.err.Render("HALTED")
	case !m.running:
		return st.paused.Render("PAUSED")
	case m.recording:
		return st.err.Render("● REC")
	default:
		return st.status.Render(AnimatedSpinner(m.sim.Frame()) + " RUNNING")
	}
}

func (m Model) View() string {
	st := newStyles(m.theme)
	canvasView := st.canvas.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(st.header.Render(GradientText(strings.ToUpper(m.title), m.theme.Primary, m.theme.Accent)) + "\n")
	s.WriteString(m.status() + "\n\n")

	s.WriteString(st.graph.Render(m.chart.Render(m.theme)) + "\n")

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}

	pc := m.sim.PulseConfig()
	cfg := m.sim.Config()
	row("Frame", fmt.Sprintf("%d", m.sim.Frame()))
	row("Spins", fmt.Sprintf("%d (K=%g)", cfg.Ensemble.Count, cfg.Ensemble.OffsetScale))
	row("Mode", pc.Mode.String())
	row("Flip", fmt.Sprintf("%s %.0f°", ProgressBar(pc.FlipAngleDegrees/pulse.MaxFlipAngle, 10), pc.FlipAngleDegrees))
	row("Next pulse", m.nextPulse())

	if v, ok := m.sim.Transverse().Latest(); ok {
		row("Transverse", fmt.Sprintf("%.3f", v))
	}
	if v, ok := m.sim.Magnitude().Latest(); ok {
		row("Magnitude", fmt.Sprintf("%.4f", v))
	}

	events := m.sim.Events()
	row("Pulses", fmt.Sprintf("%d", len(events)))
	if len(events) > 0 {
		row("Last", events[len(events)-1].String())
	}

	if m.err != nil {
		s.WriteString("\n" + st.err.Render(errorText(m.err)) + "\n")
	} else if m.notice != "" {
		s.WriteString("\n" + st.value.Render(m.notice) + "\n")
	}

	s.WriteString(st.help.Render("SP:Pause R:Reset P:Pulse F:Flip V:VFA\n+/-:Flip XYZ:Rotate []:Zoom\nT:Theme G:GIF ?:Help Q:Quit"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.panel.Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

// nextPulse reports the frame of the next scheduled pulse.
func (m Model) nextPulse() string {
	f, d, ok := m.sim.Scheduler().Next(m.sim.Frame(), m.sim.PulseConfig())
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%d (%.0f°)", f, pulse.Degrees(d.Angle))
}

func errorText(err error) string {
	var se *dynamo.SimulationError
	if errors.As(err, &se) {
		return fmt.Sprintf("halted at frame %d: %v (r to reset)", se.Frame, se.Wrapped)
	}
	return err.Error()
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space  - Pause/Resume               ║
║  R      - Reset spins and charts     ║
║  P      - Manual 180° pulse about x  ║
║  F      - Manual flip-angle pulse    ║
║  V      - Toggle variable flip angle ║
║  + / -  - Flip angle ±5° (0-270)     ║
║  x/X    - Rotate camera about x      ║
║  y/Y    - Rotate camera about y      ║
║  z/Z    - Rotate camera about z      ║
║  [ / ]  - Zoom out / in              ║
║  T      - Cycle themes               ║
║  G      - Toggle GIF recording       ║
║  ?      - Toggle this help           ║
║  Q      - Quit                       ║
╚══════════════════════════════════════╝
`

// Run starts the live program and blocks until the user quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
