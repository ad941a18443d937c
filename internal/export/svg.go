package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/spinecho/internal/pulse"
	"github.com/san-kum/spinecho/internal/viz"
)

const (
	background      = "#0a0a0a"
	transverseColor = "rgb(66,44,255)"
	magnitudeColor  = "rgb(255,0,0)"
	pulseColor      = "#444466"
	axisColor       = "#888888"
)

func svgHeader(sb *strings.Builder, width, height float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

// CanvasToSVG draws every lit braille dot as a circle. scale is the size of
// one dot in SVG units.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	var sb strings.Builder
	svgHeader(&sb, float64(canvas.DotWidth())*scale, float64(canvas.DotHeight())*scale)
	sb.WriteString("<g fill=\"#00ff00\">\n")

	r := scale * 0.4
	canvas.EachDot(func(x, y int) {
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
			float64(x)*scale+scale/2, float64(y)*scale+scale/2, r)
	})

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// ArrowFieldToSVG projects the arrow field through cam and draws each spin
// in its own colour, farthest first.
func ArrowFieldToSVG(field *viz.ArrowField, cam *viz.Camera, width, height int) string {
	if field == nil || cam == nil {
		return ""
	}

	var sb strings.Builder
	svgHeader(&sb, float64(width), float64(height))
	for _, e := range viz.ProjectEdges(field.Wireframe(), cam, width, height) {
		color := axisColor
		if e.Tag != viz.AxisTag {
			color = field.Color(e.Tag)
		}
		fmt.Fprintf(&sb, "<line x1=\"%d\" y1=\"%d\" x2=\"%d\" y2=\"%d\" stroke=\"%s\" stroke-width=\"1.5\"/>\n",
			e.X1, e.Y1, e.X2, e.Y2, color)
	}
	sb.WriteString("</svg>")
	return sb.String()
}

// TraceToSVG plots the transverse sum (divided by transverseScale) and the
// magnitude against frame, with a vertical marker at every pulse.
func TraceToSVG(transverse, magnitude []float64, pulses []pulse.Event, transverseScale float64, width, height int) string {
	n := len(magnitude)
	if len(transverse) > n {
		n = len(transverse)
	}
	if n < 2 {
		return ""
	}
	if transverseScale <= 0 {
		transverseScale = 1
	}

	scaled := make([]float64, len(transverse))
	for i, v := range transverse {
		scaled[i] = v / transverseScale
	}

	lo, hi := bounds(scaled, magnitude)
	pad := (hi - lo) * 0.1
	if pad == 0 {
		pad = 1
	}
	lo -= pad
	hi += pad

	w, h := float64(width), float64(height)
	px := func(i int) float64 { return float64(i) / float64(n-1) * w }
	py := func(v float64) float64 { return h - (v-lo)/(hi-lo)*h }

	var sb strings.Builder
	svgHeader(&sb, w, h)

	for _, p := range pulses {
		x := px(p.Frame - 1)
		fmt.Fprintf(&sb, "<line x1=\"%.1f\" y1=\"0\" x2=\"%.1f\" y2=\"%.0f\" stroke=\"%s\" stroke-dasharray=\"4 4\"/>\n", x, x, h, pulseColor)
	}
	fmt.Fprintf(&sb, "<line x1=\"0\" y1=\"%.1f\" x2=\"%.0f\" y2=\"%.1f\" stroke=\"%s\"/>\n", py(0), w, py(0), axisColor)

	writePath(&sb, scaled, px, py, transverseColor)
	writePath(&sb, magnitude, px, py, magnitudeColor)

	sb.WriteString("</svg>")
	return sb.String()
}

func writePath(sb *strings.Builder, data []float64, px func(int) float64, py func(float64) float64, color string) {
	if len(data) < 2 {
		return
	}
	fmt.Fprintf(sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color)
	for i, v := range data {
		if i > 0 {
			sb.WriteString(" L")
		}
		fmt.Fprintf(sb, "%.1f,%.1f", px(i), py(v))
	}
	sb.WriteString("\"/>\n")
}

func bounds(series ...[]float64) (lo, hi float64) {
	first := true
	for _, s := range series {
		for _, v := range s {
			if first {
				lo, hi = v, v
				first = false
				continue
			}
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	return lo, hi
}
