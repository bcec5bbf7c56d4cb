package app

import (
	"fmt"

	"TerraVision/cliente/internal/camera"
	"TerraVision/shared/config"

	"github.com/go-gl/mathgl/mgl32"
)

// Action é uma tecla de atalho lida uma vez por pressionamento.
type Action int

const (
	ActionToggleDebug Action = iota
	ActionToggleWireframe
	ActionResetCamera
	ActionSaveCache
)

// Window esconde a biblioteca de janela. O contexto GL criado é 3.3 core e todos
// os métodos precisam rodar na thread principal.
type Window interface {
	ShouldClose() bool
	BeginFrame(clear mgl32.Vec3)
	EndFrame()
	Size() (width, height int32)
	FrameTime() float32
	Time() float64
	Input() camera.Input
	Pressed(a Action) bool
	DrawOverlay(lines []string)
	Close()
}

// openWindow cria a janela do backend configurado.
func openWindow(cfg *config.Config) (Window, error) {
	switch cfg.WindowBackend {
	case "", "raylib":
		return newRaylibWindow(cfg)
	case "glfw":
		return newGLFWWindow(cfg)
	}
	return nil, fmt.Errorf("backend de janela desconhecido: %q", cfg.WindowBackend)
}
