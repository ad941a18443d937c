package export

import (
	"strings"
	"testing"

	"github.com/san-kum/spinecho/internal/dynamo"
	"github.com/san-kum/spinecho/internal/pulse"
	"github.com/san-kum/spinecho/internal/viz"
)

func TestCanvasToSVG(t *testing.T) {
	if CanvasToSVG(nil, 1) != "" {
		t.Error("nil canvas should give empty output")
	}

	c := viz.NewCanvas(4, 2)
	c.Set(0, 0)
	c.Set(7, 7)
	svg := CanvasToSVG(c, 2)

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Error("not a complete svg document")
	}
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("expected 2 dots, got %d", n)
	}
	if !strings.Contains(svg, `width="16" height="16"`) {
		t.Error("unexpected document size")
	}
}

func TestArrowFieldToSVG(t *testing.T) {
	field := viz.NewArrowField(5)
	field.CreateVisual(0, dynamo.Vec3{X: 1})
	field.CreateVisual(1, dynamo.Vec3{Y: 1})

	svg := ArrowFieldToSVG(field, viz.NewCamera(), 200, 200)
	if !strings.Contains(svg, field.Color(0)) || !strings.Contains(svg, field.Color(1)) {
		t.Error("arrow colours missing")
	}
	if !strings.Contains(svg, axisColor) {
		t.Error("axes missing")
	}
}

func TestTraceToSVG(t *testing.T) {
	if TraceToSVG([]float64{1}, []float64{1}, nil, 1, 100, 50) != "" {
		t.Error("single sample should give empty output")
	}

	transverse := []float64{180, 90, 0, -90}
	magnitude := []float64{0.5, 0.3, 0.1, 0.2}
	pulses := []pulse.Event{{Frame: 2, Kind: pulse.KindFirst}}

	svg := TraceToSVG(transverse, magnitude, pulses, 360, 300, 100)
	if strings.Count(svg, "<path") != 2 {
		t.Error("expected one path per series")
	}
	if !strings.Contains(svg, transverseColor) || !strings.Contains(svg, magnitudeColor) {
		t.Error("series colours missing")
	}
	if !strings.Contains(svg, "stroke-dasharray") {
		t.Error("pulse marker missing")
	}
}
