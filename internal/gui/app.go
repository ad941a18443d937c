// Package gui is a raylib window showing the spin ensemble in 3D with the
// echo signal underneath.
package gui

import (
	"fmt"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/spinecho/internal/pulse"
	"github.com/san-kum/spinecho/internal/sim"
	"github.com/san-kum/spinecho/internal/viz"
)

const (
	screenWidth  = 1280
	screenHeight = 720
	fontPath     = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"
	flipStep     = 5.0
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColGrid    = rl.NewColor(30, 30, 30, 255)

	ColTransverse = rl.NewColor(66, 44, 255, 255)
	ColMagnitude  = rl.NewColor(255, 0, 0, 255)
)

type App struct {
	Sim     *sim.Simulation
	Arrows  *viz.ArrowField
	Camera  rl.Camera3D
	Running bool
	Font    rl.Font
	FPS     int32

	CamPosTarget rl.Vector3
	colors       []rl.Color
	quit         bool
}

// NewApp wraps a simulation built with arrows as its renderer.
func NewApp(s *sim.Simulation, arrows *viz.ArrowField, fps int) *App {
	cam := rl.NewCamera3D(
		rl.NewVector3(2.6, 1.8, 2.6),
		rl.NewVector3(0, 0, 0),
		rl.NewVector3(0, 1, 0),
		45.0,
		rl.CameraPerspective,
	)

	colors := make([]rl.Color, arrows.Len())
	for i := range colors {
		colors[i] = hexColor(arrows.Color(i))
	}

	return &App{
		Sim:          s,
		Arrows:       arrows,
		Camera:       cam,
		CamPosTarget: cam.Position,
		Running:      true,
		FPS:          int32(fps),
		colors:       colors,
	}
}

func initWindow(fps int32) {
	rl.InitWindow(screenWidth, screenHeight, "spinecho")
	rl.SetTargetFPS(fps)
	rl.SetExitKey(0)
}

func loadFont() rl.Font {
	if _, err := os.Stat(fontPath); err != nil {
		return rl.GetFontDefault()
	}
	font := rl.LoadFontEx(fontPath, 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// Run opens the window and blocks until it is closed. The first tick
// error stops the loop and is returned.
func Run(a *App) error {
	initWindow(a.FPS)
	defer rl.CloseWindow()
	a.Font = loadFont()

	for !rl.WindowShouldClose() && !a.quit {
		if err := a.Update(); err != nil {
			return err
		}
		a.Draw()
	}
	return nil
}

func (a *App) Update() error {
	if rl.IsKeyPressed(rl.KeyQ) {
		a.quit = true
		return nil
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.Sim.Reset()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		if err := a.Sim.FirePulse(); err != nil {
			return err
		}
	}
	if rl.IsKeyPressed(rl.KeyF) {
		if err := a.Sim.FireFlipPulse(); err != nil {
			return err
		}
	}
	if rl.IsKeyPressed(rl.KeyV) {
		a.Sim.ToggleMode()
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		a.adjustFlipAngle(flipStep)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		a.adjustFlipAngle(-flipStep)
	}

	if a.Running {
		if _, err := a.Sim.Tick(); err != nil {
			return err
		}
	}

	a.updateCamera()
	return nil
}

func (a *App) adjustFlipAngle(delta float64) {
	deg := pulse.ClampFlipAngle(a.Sim.PulseConfig().FlipAngleDegrees + delta)
	if err := a.Sim.SetFlipAngle(deg); err != nil {
		slog.Warn("flip angle rejected", "degrees", deg, "error", err)
	}
}

func (a *App) updateCamera() {
	if rl.IsKeyDown(rl.KeyW) {
		a.CamPosTarget.Y += 0.05
	}
	if rl.IsKeyDown(rl.KeyS) {
		a.CamPosTarget.Y -= 0.05
	}
	if rl.IsKeyDown(rl.KeyA) {
		a.CamPosTarget = rl.Vector3RotateByAxisAngle(a.CamPosTarget, rl.NewVector3(0, 1, 0), -0.03)
	}
	if rl.IsKeyDown(rl.KeyD) {
		a.CamPosTarget = rl.Vector3RotateByAxisAngle(a.CamPosTarget, rl.NewVector3(0, 1, 0), 0.03)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		dist := rl.Vector3Length(a.CamPosTarget)
		if dist > 1.5 || wheel < 0 {
			a.CamPosTarget = rl.Vector3Scale(a.CamPosTarget, 1-wheel*0.1)
		}
	}

	a.Camera.Position = rl.Vector3Lerp(a.Camera.Position, a.CamPosTarget, 0.15)
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	rl.BeginMode3D(a.Camera)
	a.drawScene()
	rl.EndMode3D()

	a.DrawHUD()
	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	a.drawText("spinecho", 30, 30, 24, ColSelect)

	pc := a.Sim.PulseConfig()
	info := fmt.Sprintf(":: frame %d  mode %s  flip %.0f°", a.Sim.Frame(), pc.Mode, pc.FlipAngleDegrees)
	a.drawText(info, 170, 34, 16, ColText)

	if next, d, ok := a.Sim.Scheduler().Next(a.Sim.Frame(), pc); ok {
		a.drawText(fmt.Sprintf("next pulse %d (%.0f°)", next, pulse.Degrees(d.Angle)), 30, 60, 14, ColTextDim)
	}

	status := "RUNNING"
	col := ColSelect
	if !a.Running {
		status = "PAUSED"
		col = ColTextDim
	}
	a.drawText(status, 1150, 30, 16, col)

	a.DrawTelemetry()

	a.drawText("[SPACE] PAUSE  [R] RESET  [P] PULSE  [F] FLIP PULSE  [V] MODE  [+/-] FLIP  [WASD] CAMERA  [Q] QUIT", 420, 690, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", rl.GetFPS()), 30, 690, 14, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}
