package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/spinecho/internal/sim"
)

type ExportData struct {
	Run        RunMetadata        `json:"run"`
	Transverse []float64          `json:"transverse"`
	Magnitude  []float64          `json:"magnitude"`
	Pulses     int                `json:"pulse_count"`
	Metrics    map[string]float64 `json:"metrics"`
}

func exportData(meta RunMetadata, result *sim.Result) ExportData {
	if meta.Pulses == nil {
		meta.Pulses = result.Pulses
	}
	if meta.Frames == 0 {
		meta.Frames = result.Frames
	}
	return ExportData{
		Run:        meta,
		Transverse: result.Transverse,
		Magnitude:  result.Magnitude,
		Pulses:     len(result.Pulses),
		Metrics:    result.Metrics,
	}
}

func WriteJSON(w io.Writer, meta RunMetadata, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(exportData(meta, result))
}

func ExportJSON(path string, meta RunMetadata, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, meta, result)
}

func ExportJSONStdout(meta RunMetadata, result *sim.Result) error {
	return WriteJSON(os.Stdout, meta, result)
}

// ExportCSV copies an archived run's trace.csv to w.
func (s *Store) ExportCSV(runID string, w io.Writer) error {
	file, err := os.Open(s.tracePath(runID))
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = io.Copy(w, file)
	return err
}
