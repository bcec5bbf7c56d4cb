package app

import (
	"fmt"

	"TerraVision/cliente/internal/camera"
	"TerraVision/shared/config"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// raylibWindow usa o raylib só para janela, entrada, tempo e texto. O terreno é
// desenhado direto em GL entre ClearBackground e o flush do batch do raylib.
type raylibWindow struct{}

func newRaylibWindow(cfg *config.Config) (*raylibWindow, error) {
	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	rl.InitWindow(cfg.WindowWidth, cfg.WindowHeight, cfg.WindowTitle)
	if !rl.IsWindowReady() {
		return nil, fmt.Errorf("raylib não conseguiu abrir a janela")
	}
	rl.SetTraceLogLevel(rl.LogWarning)
	rl.SetTargetFPS(cfg.TargetFPS)
	rl.SetExitKey(0)
	return &raylibWindow{}, nil
}

func (raylibWindow) ShouldClose() bool {
	return rl.WindowShouldClose()
}

func (raylibWindow) BeginFrame(clear mgl32.Vec3) {
	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(uint8(clear.X()*255), uint8(clear.Y()*255), uint8(clear.Z()*255), 255))
}

func (raylibWindow) EndFrame() {
	rl.EndDrawing()
}

func (raylibWindow) Size() (int32, int32) {
	return int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
}

func (raylibWindow) FrameTime() float32 {
	return rl.GetFrameTime()
}

func (raylibWindow) Time() float64 {
	return rl.GetTime()
}

func (raylibWindow) Input() camera.Input {
	in := camera.Input{
		Forward: rl.IsKeyDown(rl.KeyW),
		Back:    rl.IsKeyDown(rl.KeyS),
		Left:    rl.IsKeyDown(rl.KeyA),
		Right:   rl.IsKeyDown(rl.KeyD),
		Up:      rl.IsKeyDown(rl.KeySpace),
		Down:    rl.IsKeyDown(rl.KeyLeftControl),
		Fast:    rl.IsKeyDown(rl.KeyLeftShift),
		Wheel:   rl.GetMouseWheelMove(),
	}
	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		delta := rl.GetMouseDelta()
		in.OrbitDX, in.OrbitDY = delta.X, delta.Y
	}
	return in
}

func (raylibWindow) Pressed(a Action) bool {
	switch a {
	case ActionToggleDebug:
		return rl.IsKeyPressed(rl.KeyF3)
	case ActionToggleWireframe:
		return rl.IsKeyPressed(rl.KeyF4)
	case ActionResetCamera:
		return rl.IsKeyPressed(rl.KeyHome)
	case ActionSaveCache:
		return rl.IsKeyPressed(rl.KeyF7)
	}
	return false
}

func (raylibWindow) DrawOverlay(lines []string) {
	if len(lines) == 0 {
		return
	}
	width := int32(0)
	for _, line := range lines {
		if w := rl.MeasureText(line, 18); w > width {
			width = w
		}
	}
	rl.DrawRectangle(5, 5, width+20, int32(len(lines))*22+10, rl.NewColor(0, 0, 0, 150))
	for i, line := range lines {
		rl.DrawText(line, 15, 12+int32(i)*22, 18, rl.White)
	}
}

func (raylibWindow) Close() {
	rl.CloseWindow()
}
