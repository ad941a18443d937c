package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/san-kum/spinecho/internal/pulse"
	"github.com/san-kum/spinecho/internal/sim"
)

// setupLogging installs the default slog logger. The TUI owns the terminal,
// so interactive runs log to --log-file or nowhere.
func setupLogging(level, file string, interactive bool) (func(), error) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info", "":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}

	var w io.Writer = os.Stderr
	cleanup := func() {}
	switch {
	case file != "":
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, err
		}
		w = f
		cleanup = func() { f.Close() }
	case interactive:
		w = io.Discard
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})))
	return cleanup, nil
}

// eventLogger reports pulses and resets at debug level.
type eventLogger struct{}

func (eventLogger) OnFrame(f sim.Frame) {
	if f.Pulse != nil {
		slog.Debug("pulse", "frame", f.Index, "kind", f.Pulse.Kind, "angle", pulse.Degrees(f.Pulse.Angle), "axis", f.Pulse.Axis)
	}
}

func (eventLogger) OnPulse(e pulse.Event) {
	slog.Debug("pulse", "frame", e.Frame, "kind", e.Kind, "angle", pulse.Degrees(e.Angle), "axis", e.Axis)
}

func (eventLogger) OnReset() {
	slog.Debug("simulation reset")
}
