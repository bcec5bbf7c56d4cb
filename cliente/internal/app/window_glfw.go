package app

import (
	"fmt"
	"strings"

	"TerraVision/cliente/internal/camera"
	"TerraVision/shared/config"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// glfwWindow é o backend sem raylib. Não desenha texto: o overlay vai para o
// título da janela.
type glfwWindow struct {
	win   *glfw.Window
	title string

	lastTime  float64
	frameTime float32

	lastX, lastY float64
	wheel        float32
	pressed      map[glfw.Key]bool
	lastTitleAt  float64
}

func newGLFWWindow(cfg *config.Config) (*glfwWindow, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("falha ao inicializar GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.Samples, 4)

	win, err := glfw.CreateWindow(int(cfg.WindowWidth), int(cfg.WindowHeight), cfg.WindowTitle, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("falha ao criar janela GLFW: %w", err)
	}
	win.MakeContextCurrent()
	glfw.SwapInterval(1)

	w := &glfwWindow{
		win:      win,
		title:    cfg.WindowTitle,
		pressed:  make(map[glfw.Key]bool),
		lastTime: glfw.GetTime(),
	}
	w.lastX, w.lastY = win.GetCursorPos()

	win.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		w.wheel += float32(yoff)
	})
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action == glfw.Press {
			w.pressed[key] = true
		}
	})
	return w, nil
}

func (w *glfwWindow) ShouldClose() bool {
	return w.win.ShouldClose()
}

func (w *glfwWindow) BeginFrame(clear mgl32.Vec3) {
	fbw, fbh := w.win.GetFramebufferSize()
	gl.Viewport(0, 0, int32(fbw), int32(fbh))
	gl.ClearColor(clear.X(), clear.Y(), clear.Z(), 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (w *glfwWindow) EndFrame() {
	w.win.SwapBuffers()

	// eventos do frame anterior são descartados antes de ler os novos
	for k := range w.pressed {
		delete(w.pressed, k)
	}
	w.wheel = 0
	glfw.PollEvents()

	now := glfw.GetTime()
	w.frameTime = float32(now - w.lastTime)
	w.lastTime = now
}

func (w *glfwWindow) Size() (int32, int32) {
	width, height := w.win.GetSize()
	return int32(width), int32(height)
}

func (w *glfwWindow) FrameTime() float32 {
	return w.frameTime
}

func (w *glfwWindow) Time() float64 {
	return glfw.GetTime()
}

func (w *glfwWindow) key(k glfw.Key) bool {
	return w.win.GetKey(k) == glfw.Press
}

func (w *glfwWindow) Input() camera.Input {
	in := camera.Input{
		Forward: w.key(glfw.KeyW),
		Back:    w.key(glfw.KeyS),
		Left:    w.key(glfw.KeyA),
		Right:   w.key(glfw.KeyD),
		Up:      w.key(glfw.KeySpace),
		Down:    w.key(glfw.KeyLeftControl),
		Fast:    w.key(glfw.KeyLeftShift),
		Wheel:   w.wheel,
	}

	x, y := w.win.GetCursorPos()
	if w.win.GetMouseButton(glfw.MouseButtonRight) == glfw.Press {
		in.OrbitDX = float32(x - w.lastX)
		in.OrbitDY = float32(y - w.lastY)
	}
	w.lastX, w.lastY = x, y
	return in
}

func (w *glfwWindow) Pressed(a Action) bool {
	switch a {
	case ActionToggleDebug:
		return w.pressed[glfw.KeyF3]
	case ActionToggleWireframe:
		return w.pressed[glfw.KeyF4]
	case ActionResetCamera:
		return w.pressed[glfw.KeyHome]
	case ActionSaveCache:
		return w.pressed[glfw.KeyF7]
	}
	return false
}

// DrawOverlay atualiza o título no máximo duas vezes por segundo.
func (w *glfwWindow) DrawOverlay(lines []string) {
	now := glfw.GetTime()
	if now-w.lastTitleAt < 0.5 {
		return
	}
	w.lastTitleAt = now
	if len(lines) == 0 {
		w.win.SetTitle(w.title)
		return
	}
	w.win.SetTitle(w.title + " | " + strings.Join(lines, " | "))
}

func (w *glfwWindow) Close() {
	w.win.Destroy()
	glfw.Terminate()
}
