package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/spinecho/internal/analysis"
	"github.com/san-kum/spinecho/internal/audio"
	"github.com/san-kum/spinecho/internal/automation"
	"github.com/san-kum/spinecho/internal/config"
	"github.com/san-kum/spinecho/internal/dynamo"
	"github.com/san-kum/spinecho/internal/experiment"
	"github.com/san-kum/spinecho/internal/export"
	"github.com/san-kum/spinecho/internal/gui"
	"github.com/san-kum/spinecho/internal/metrics"
	"github.com/san-kum/spinecho/internal/optim"
	"github.com/san-kum/spinecho/internal/pulse"
	"github.com/san-kum/spinecho/internal/sim"
	"github.com/san-kum/spinecho/internal/spin"
	"github.com/san-kum/spinecho/internal/storage"
	"github.com/san-kum/spinecho/internal/viz"
)

var (
	dataDir  string
	logLevel string
	logFile  string

	// Simulation settings, applied over the preset and config file only
	// when the flag is set.
	preset      string
	configFile  string
	spins       int
	offsetScale float64
	fieldAxis   string
	renormalize bool
	workers     int
	mode        string
	flipAngle   float64
	firstFrame  int
	period      int
	frames      int
	history     int
	magScale    float64
	frameRate   int
	theme       string
	seed        int64

	runName   string
	outFile   string
	svgKind   string
	echoWin   int
	angles    string
	periods   string
	metric    string
	minimize  bool
	jsonOut   bool
	benchSize string
	sonify    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "spinecho",
		Short:         "terminal NMR spin-echo lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".spinecho", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file")
	addSimFlags(rootCmd)
	rootCmd.Flags().BoolVar(&sonify, "audio", false, "play the echo as a tone")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the ensemble with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().BoolVar(&sonify, "audio", false, "play the echo as a tone")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "open the 3D spin window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
	addSimFlags(guiCmd)
	guiCmd.Flags().BoolVar(&sonify, "audio", false, "play the echo as a tone")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and archive the signal trace",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().StringVar(&runName, "name", "", "run name (defaults to preset)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a run's signal trace",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run trace to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a run as SVG (trace, arrows or braille)",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().StringVar(&svgKind, "kind", "trace", "trace, arrows or braille")

	exportWAVCmd := &cobra.Command{
		Use:   "export-wav [run_id]",
		Short: "render a run's echo as a WAV file",
		Args:  cobra.ExactArgs(1),
		RunE:  exportWAV,
	}
	exportWAVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>.wav)")

	listenCmd := &cobra.Command{
		Use:   "listen [run_id]",
		Short: "play a run's echo through the speakers",
		Args:  cobra.ExactArgs(1),
		RunE:  listenRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "echo and spectrum analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&echoWin, "window", 0, "frames after each pulse to search for its echo (0 = until next pulse)")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "compare flip angles and pulse periods",
		Args:  cobra.NoArgs,
		RunE:  sweepRun,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&angles, "angles", "45,90,135,180", "comma separated flip angles in degrees")
	sweepCmd.Flags().StringVar(&periods, "periods", "", "comma separated pulse periods in frames")
	sweepCmd.Flags().StringVar(&metric, "metric", "peak_echo", "metric to score runs by")
	sweepCmd.Flags().BoolVar(&minimize, "minimize", false, "prefer the smallest metric value")
	sweepCmd.Flags().BoolVar(&jsonOut, "json", false, "print the sweep as JSON")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a YAML scenario of headless runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark frames per second by ensemble size",
		Args:  cobra.NoArgs,
		RunE:  benchEnsemble,
	}
	benchCmd.Flags().StringVar(&benchSize, "spins", "45,180,720,2880", "comma separated ensemble sizes")
	benchCmd.Flags().IntVar(&frames, "frames", 900, "frames per run")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSPINS\tK\tMODE\tFLIP\tPERIOD\tFRAMES")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%g\t%s\t%.0f°\t%d\t%d\n",
					name, p.Ensemble.Spins, p.Ensemble.OffsetScale, p.Pulse.Mode,
					p.Pulse.FlipAngle, p.Pulse.Period, p.Frames)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(liveCmd, guiCmd, runCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, exportWAVCmd, listenCmd, analyzeCmd, sweepCmd, scenarioCmd, benchCmd, presetsCmd)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		interactive := cmd == rootCmd || cmd == liveCmd || cmd == guiCmd
		cleanup, err := setupLogging(logLevel, logFile, interactive)
		if err != nil {
			return err
		}
		cobra.OnFinalize(cleanup)
		return nil
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&preset, "preset", "", "start from a named preset")
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.IntVar(&spins, "spins", spin.DefaultCount, "number of spins")
	f.Float64Var(&offsetScale, "offset-scale", spin.DefaultOffsetScale, "offset divisor K")
	f.StringVar(&fieldAxis, "field-axis", "y", "precession axis (x, y, z)")
	f.BoolVar(&renormalize, "renormalize", false, "renormalize spins after every rotation")
	f.IntVar(&workers, "workers", 0, "workers for large ensembles (0 = default)")
	f.StringVar(&mode, "mode", "fixed", "pulse mode (fixed, vfa)")
	f.Float64Var(&flipAngle, "flip", pulse.DefaultFlipAngle, "variable flip angle in degrees (0-270)")
	f.IntVar(&firstFrame, "first-frame", pulse.DefaultFirstFrame, "frame of the first 180° pulse")
	f.IntVar(&period, "period", pulse.DefaultPeriod, "frames between pulses")
	f.IntVar(&frames, "frames", config.DefaultFrames, "frames to run headless")
	f.IntVar(&history, "history", 400, "chart history length")
	f.Float64Var(&magScale, "magnitude-scale", 360, "echo magnitude divisor")
	f.IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	f.StringVar(&theme, "theme", config.DefaultTheme, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	f.Int64Var(&seed, "seed", 1, "arrow colour seed")
}

// resolveConfig layers defaults, preset, config file and changed flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := experiment.Resolve(preset, configFile)
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("spins") {
		cfg.Ensemble.Spins = spins
	}
	if changed("offset-scale") {
		cfg.Ensemble.OffsetScale = offsetScale
	}
	if changed("field-axis") {
		axis, err := dynamo.ParseAxis(fieldAxis)
		if err != nil {
			return nil, err
		}
		cfg.Ensemble.FieldAxis = axis
	}
	if changed("renormalize") {
		cfg.Ensemble.Renormalize = renormalize
	}
	if changed("workers") {
		cfg.Ensemble.Workers = workers
	}
	if changed("mode") {
		m, err := pulse.ParseMode(mode)
		if err != nil {
			return nil, err
		}
		cfg.Pulse.Mode = m
	}
	if changed("flip") {
		cfg.Pulse.FlipAngle = flipAngle
	}
	if changed("first-frame") {
		cfg.Pulse.FirstFrame = firstFrame
	}
	if changed("period") {
		cfg.Pulse.Period = period
	}
	if changed("frames") {
		cfg.Frames = frames
	}
	if changed("history") {
		cfg.Signal.History = history
	}
	if changed("magnitude-scale") {
		cfg.Signal.MagnitudeScale = magScale
	}
	if changed("fps") {
		cfg.View.FPS = frameRate
	}
	if changed("theme") {
		cfg.View.Theme = theme
	}
	if changed("seed") {
		cfg.View.Seed = seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	title := preset
	if title == "" {
		title = "spin echo"
	}
	m, err := viz.NewModel(cfg, title)
	if err != nil {
		return err
	}
	m.Simulation().AddObserver(eventLogger{})

	stop, err := attachAudio(m.Simulation())
	if err != nil {
		return err
	}
	defer stop()

	slog.Info("starting live view", "spins", cfg.Ensemble.Spins, "mode", cfg.Pulse.Mode, "fps", cfg.View.FPS)
	return viz.Run(m)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	arrows := viz.NewArrowField(cfg.View.Seed)
	s, err := sim.New(cfg.SimConfig(), arrows, nil)
	if err != nil {
		return err
	}
	s.AddObserver(eventLogger{})

	stop, err := attachAudio(s)
	if err != nil {
		return err
	}
	defer stop()

	slog.Info("starting gui", "spins", cfg.Ensemble.Spins, "mode", cfg.Pulse.Mode, "fps", cfg.View.FPS)
	return gui.Run(gui.NewApp(s, arrows, cfg.View.FPS))
}

// attachAudio starts a tone that follows s when --audio is set. A missing
// audio device is logged and the view runs silent.
func attachAudio(s *sim.Simulation) (func(), error) {
	if !sonify {
		return func() {}, nil
	}
	p := audio.NewPlayer(s.Config().MagnitudeScale)
	if err := p.Start(); err != nil {
		slog.Warn("audio disabled", "error", err)
		return func() {}, nil
	}
	s.AddObserver(p)
	return p.Stop, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg)
	peak := metrics.NewPeakEcho()
	ms := []sim.Metric{peak, metrics.NewMeanMagnitude(), metrics.NewTransverseRMS(), metrics.NewPulseCount()}
	if err := exp.Setup(ms, eventLogger{}); err != nil {
		return err
	}

	fmt.Printf("running %d spins for %d frames...\n", cfg.Ensemble.Spins, cfg.Frames)
	start := time.Now()

	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	name := runName
	if name == "" {
		name = preset
	}
	runID, err := st.Save(storage.Describe(name, cfg), result)
	if err != nil {
		return err
	}
	slog.Info("run archived", "id", runID, "frames", result.Frames, "elapsed", elapsed)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", result.Frames)
	fmt.Printf("pulses: %d\n", len(result.Pulses))
	if peak.Frame() > 0 {
		fmt.Printf("peak echo: %.4f at frame %d\n", peak.Value(), peak.Frame())
	}
	fmt.Println("\nmetrics:")
	for _, m := range ms {
		fmt.Printf("  %s: %.6f\n", m.Name(), result.Metrics[m.Name()])
	}

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tFRAMES\tSPINS\tMODE\tFLIP\tPERIOD\tPEAK")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%.0f°\t%d\t%.4f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Spins,
			run.Mode,
			run.FlipAngle,
			run.Period,
			run.Metrics["peak_echo"],
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}
	if len(trace.Magnitude) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("spins: %d  mode: %s  period: %d\n", meta.Spins, meta.Mode, meta.Period)
	fmt.Printf("samples: %d\n\n", len(trace.Magnitude))

	fmt.Println(asciigraph.Plot(trace.Transverse,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("transverse sum"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(trace.Magnitude,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("echo magnitude"),
	))
	fmt.Println()

	return nil
}

func outputFile() (*os.File, func(), error) {
	if outFile == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	out, done, err := outputFile()
	if err != nil {
		return err
	}
	defer done()

	st := storage.New(dataDir)
	return st.ExportCSV(args[0], out)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, result, err := st.Result(args[0])
	if err != nil {
		return err
	}

	if outFile == "" {
		return storage.ExportJSONStdout(*meta, result)
	}
	if err := storage.ExportJSON(outFile, *meta, result); err != nil {
		return err
	}
	fmt.Printf("exported %s to %s\n", meta.ID, outFile)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, result, err := st.Result(args[0])
	if err != nil {
		return err
	}

	var svg string
	switch svgKind {
	case "trace":
		svg = export.TraceToSVG(result.Transverse, result.Magnitude, result.Pulses, meta.Scale, 800, 300)
	case "arrows", "braille":
		field, err := replayArrows(*meta)
		if err != nil {
			return err
		}
		cam := viz.NewCamera()
		if svgKind == "arrows" {
			svg = export.ArrowFieldToSVG(field, cam, 600, 600)
		} else {
			c := viz.NewCanvas(config.DefaultWidth, config.DefaultHeight)
			field.Draw(c, cam)
			svg = export.CanvasToSVG(c, 4)
		}
	default:
		return fmt.Errorf("unknown svg kind %q (trace, arrows, braille)", svgKind)
	}

	out, done, err := outputFile()
	if err != nil {
		return err
	}
	defer done()
	_, err = fmt.Fprintln(out, svg)
	return err
}

// replayArrows reruns an archived run to its last frame with an arrow field
// attached. Runs are deterministic, so this reproduces the final spins.
func replayArrows(meta storage.RunMetadata) (*viz.ArrowField, error) {
	cfg, err := meta.Config()
	if err != nil {
		return nil, err
	}
	field := viz.NewArrowField(cfg.View.Seed)
	s, err := sim.New(cfg.SimConfig(), field, nil)
	if err != nil {
		return nil, err
	}
	if _, err := s.Run(context.Background(), cfg.Frames); err != nil {
		return nil, err
	}
	return field, nil
}

func exportWAV(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}
	cfg, err := meta.Config()
	if err != nil {
		return err
	}

	transverse := make([]float64, len(trace.Transverse))
	for i, v := range trace.Transverse {
		transverse[i] = v / cfg.Signal.MagnitudeScale
	}
	samples := audio.NewVoice().Render(trace.Magnitude, transverse, cfg.View.FPS)
	if len(samples) == 0 {
		return fmt.Errorf("no data to render")
	}

	path := outFile
	if path == "" {
		path = runID + ".wav"
	}
	if err := audio.SaveWAV(path, samples); err != nil {
		return err
	}
	fmt.Printf("rendered %s (%.1fs) to %s\n", runID, float64(len(samples))/audio.SampleRate, path)
	return nil
}

// listenRun replays an archived trace through the speakers at the run's
// frame rate.
func listenRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}
	cfg, err := meta.Config()
	if err != nil {
		return err
	}

	p := audio.NewPlayer(cfg.Signal.MagnitudeScale)
	if err := p.Start(); err != nil {
		return err
	}
	defer p.Stop()

	ticker := time.NewTicker(time.Second / time.Duration(cfg.View.FPS))
	defer ticker.Stop()

	fmt.Printf("playing %s (%d frames)\n", runID, len(trace.Magnitude))
	for i, m := range trace.Magnitude {
		<-ticker.C
		p.Set(m, trace.Transverse[i])
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, result, err := st.Result(args[0])
	if err != nil {
		return err
	}
	if len(result.Transverse) < 2 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("echo analysis: %s\n", meta.ID)
	fmt.Printf("spins: %d  mode: %s  flip: %.0f°  period: %d\n\n", meta.Spins, meta.Mode, meta.FlipAngle, meta.Period)

	ps := analysis.PowerSpectrum(result.Transverse)
	plotData := ps
	if len(ps) >= 8 {
		plotData = ps[:len(ps)/4]
	}
	fmt.Println(asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (transverse sum)"),
	))
	fmt.Println()

	bin := analysis.DominantBin(ps)
	freq := analysis.BinFrequency(bin, len(result.Transverse))
	fmt.Printf("dominant frequency: %.5f cycles/frame\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.1f frames\n", 1/freq)
	}

	echoes := analysis.FindEchoes(result.Magnitude, result.Pulses, echoWin)
	if len(echoes) == 0 {
		fmt.Println("\nno echoes")
		return nil
	}

	decay := analysis.EchoDecay(echoes)
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PULSE\tECHO\tDELAY\tAMPLITUDE\tRATIO")
	for i, e := range echoes {
		ratio := "-"
		if i > 0 {
			ratio = fmt.Sprintf("%.3f", decay[i-1])
		}
		fmt.Fprintf(w, "%d\t%d\t%d\t%.4f\t%s\n", e.PulseFrame, e.Frame, e.Frame-e.PulseFrame, e.Amplitude, ratio)
	}
	return w.Flush()
}

func parseFloats(s string) ([]float64, error) {
	var out []float64
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", f, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func parseInts(s string) ([]int, error) {
	vals, err := parseFloats(s)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(vals))
	for i, v := range vals {
		out[i] = int(v)
	}
	return out, nil
}

func sweepRun(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	flipAngles, err := parseFloats(angles)
	if err != nil {
		return err
	}
	pulsePeriods, err := parseInts(periods)
	if err != nil {
		return err
	}

	sw := &optim.Sweep{FlipAngles: flipAngles, Periods: pulsePeriods, Metric: metric, Minimize: minimize}
	slog.Info("sweep", "angles", len(flipAngles), "periods", len(pulsePeriods), "metric", metric)

	out, err := sw.Run(context.Background(), cfg)
	if err != nil {
		return err
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "FLIP\tPERIOD\t%s\n", strings.ToUpper(metric))
	for _, p := range out.Points {
		fmt.Fprintf(w, "%.1f°\t%d\t%.6f\n", p.FlipAngle, p.Period, p.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nbest: flip %.1f°, period %d (%s = %.6f)\n", out.Best.FlipAngle, out.Best.Period, metric, out.Best.Value)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("scenario: %s (%d steps)\n", sc.Name, len(sc.Steps))
	results, err := automation.RunScenario(context.Background(), sc, st, os.Stdout)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nSTEP\tFRAMES\tPULSES\tPEAK\tRUN")
	for _, r := range results {
		id := r.RunID
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(w, "%d\t%d\t%d\t%.4f\t%s\n", r.Step, r.Result.Frames, len(r.Result.Pulses), r.Result.Metrics["peak_echo"], id)
	}
	return w.Flush()
}

func benchEnsemble(cmd *cobra.Command, args []string) error {
	sizes, err := parseInts(benchSize)
	if err != nil {
		return err
	}

	fmt.Printf("benchmarking %d frames\n\n", frames)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SPINS\tFRAMES\tTIME\tFRAMES/SEC")

	for _, n := range sizes {
		cfg := sim.DefaultConfig()
		cfg.Ensemble.Count = n

		s, err := sim.New(cfg, nil, nil)
		if err != nil {
			return err
		}

		start := time.Now()
		result, err := s.Run(context.Background(), frames)
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\n", n, result.Frames, elapsed, float64(result.Frames)/elapsed.Seconds())
	}

	return w.Flush()
}
