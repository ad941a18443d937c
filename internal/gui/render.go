package gui

import (
	"fmt"
	"strconv"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/spinecho/internal/dynamo"
)

const (
	axisLength = 1.4
	tipRadius  = 0.025

	telemetryX      = 30
	telemetryY      = 560
	telemetryWidth  = 600
	telemetryHeight = 100
)

func toWorld(v dynamo.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}

// hexColor parses #rrggbb. Anything else falls back to ColAccent.
func hexColor(s string) rl.Color {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return ColAccent
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return ColAccent
	}
	return rl.NewColor(uint8(v>>16), uint8(v>>8), uint8(v), 255)
}

func (a *App) drawScene() {
	origin := rl.NewVector3(0, 0, 0)
	rl.DrawLine3D(origin, rl.NewVector3(axisLength, 0, 0), rl.Red)
	rl.DrawLine3D(origin, rl.NewVector3(0, axisLength, 0), rl.Green)
	rl.DrawLine3D(origin, rl.NewVector3(0, 0, axisLength), rl.Blue)

	rl.DrawCircle3D(origin, 1.0, circleAxis(a.Sim.Config().Ensemble.FieldAxis), 90, ColGrid)

	for i := 0; i < a.Arrows.Len(); i++ {
		tip := toWorld(a.Arrows.Direction(i))
		col := ColAccent
		if i < len(a.colors) {
			col = a.colors[i]
		}
		rl.DrawLine3D(origin, tip, col)
		rl.DrawSphere(tip, tipRadius, col)
	}
}

// circleAxis returns the rotation axis that turns raylib's default circle
// (in the XY plane) into the plane normal to the field axis.
func circleAxis(field dynamo.Axis) rl.Vector3 {
	switch field {
	case dynamo.AxisY:
		return rl.NewVector3(1, 0, 0)
	case dynamo.AxisX:
		return rl.NewVector3(0, 1, 0)
	default:
		return rl.NewVector3(0, 0, 1)
	}
}

// stripPoints lays values out left to right over a w×h box at (x, y),
// mapping lo to the bottom edge and hi to the top.
func stripPoints(values []float64, x, y, w, h int, lo, hi float64) []rl.Vector2 {
	if hi == lo {
		hi = lo + 1
	}
	points := make([]rl.Vector2, len(values))
	for i, v := range values {
		px := float32(x) + float32(i)/float32(max(len(values)-1, 1))*float32(w)
		norm := (v - lo) / (hi - lo)
		py := float32(y+h) - float32(norm)*float32(h)
		points[i] = rl.NewVector2(px, py)
	}
	return points
}

func (a *App) DrawTelemetry() {
	transverse := a.Sim.Transverse().Chronological()
	magnitude := a.Sim.Magnitude().Chronological()
	if len(transverse) < 2 {
		return
	}

	scale := a.Sim.Config().MagnitudeScale
	normalised := make([]float64, len(transverse))
	for i, v := range transverse {
		normalised[i] = v / scale
	}

	rl.DrawRectangleLines(telemetryX, telemetryY, telemetryWidth, telemetryHeight, ColGrid)
	mid := float32(telemetryY + telemetryHeight/2)
	rl.DrawLine(telemetryX, int32(mid), telemetryX+telemetryWidth, int32(mid), ColGrid)

	rl.DrawLineStrip(stripPoints(normalised, telemetryX, telemetryY, telemetryWidth, telemetryHeight, -1, 1), ColTransverse)
	rl.DrawLineStrip(stripPoints(magnitude, telemetryX, telemetryY, telemetryWidth, telemetryHeight, -1, 1), ColMagnitude)

	a.drawText(fmt.Sprintf("ΣB %.2f", transverse[len(transverse)-1]), telemetryX+telemetryWidth+10, telemetryY+10, 14, ColTransverse)
	a.drawText(fmt.Sprintf("|M| %.3f", magnitude[len(magnitude)-1]), telemetryX+telemetryWidth+10, telemetryY+30, 14, ColMagnitude)
}
