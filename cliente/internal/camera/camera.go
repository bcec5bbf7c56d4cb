package camera

import (
	"math"

	"TerraVision/shared/util"

	"github.com/go-gl/mathgl/mgl32"
)

// Input é o estado de controle de um frame, independente da biblioteca de janela.
type Input struct {
	Forward, Back, Left, Right bool
	Up, Down                   bool
	Fast                       bool

	// Orbit é o arrasto do mouse em pixels (só conta com o botão pressionado).
	OrbitDX, OrbitDY float32
	Wheel            float32
}

// CameraController é uma câmera orbital: olha para um ponto no mundo a partir de
// uma distância (zoom) e dois ângulos. O movimento é suavizado.
type CameraController struct {
	FOV       float32 // graus
	Near, Far float32

	MinZoom     float32
	MaxZoom     float32
	MoveSpeed   float32
	RotateSpeed float32
	ZoomSpeed   float32
	// SmoothFactor entre 0 e 1: quanto menor, mais lenta a câmera alcança o alvo.
	SmoothFactor float32

	TargetLookAt mgl32.Vec3
	TargetZoom   float32
	AngleY       float32 // azimute (radianos)
	AngleX       float32 // elevação (radianos, negativa olhando para baixo)

	CurrentLookAt mgl32.Vec3
	CurrentZoom   float32

	Position mgl32.Vec3
}

// New cria uma câmera olhando para lookAt.
func New(lookAt mgl32.Vec3, fov float32) *CameraController {
	c := &CameraController{
		FOV:          fov,
		Near:         0.1,
		Far:          1000,
		MinZoom:      5.0,
		MaxZoom:      200.0,
		MoveSpeed:    30.0,
		RotateSpeed:  2.0,
		ZoomSpeed:    10.0,
		SmoothFactor: 0.1,

		TargetLookAt: lookAt,
		TargetZoom:   40.0,
		AngleY:       mgl32.DegToRad(45),
		AngleX:       mgl32.DegToRad(-30),
	}
	c.CurrentLookAt = c.TargetLookAt
	c.CurrentZoom = c.TargetZoom
	c.updatePosition()
	return c
}

// SetTarget move o foco imediatamente, sem suavização.
func (c *CameraController) SetTarget(pos mgl32.Vec3) {
	c.TargetLookAt = pos
	c.CurrentLookAt = pos
	c.updatePosition()
}

// Update aproxima o estado atual do alvo. Deve ser chamado a cada frame.
func (c *CameraController) Update(dt float32) {
	// normalizado para 60 FPS
	factor := c.SmoothFactor * 60.0 * dt
	if factor > 1.0 {
		factor = 1.0
	}

	c.CurrentLookAt = c.CurrentLookAt.Add(c.TargetLookAt.Sub(c.CurrentLookAt).Mul(factor))
	c.CurrentZoom = util.Lerp(c.CurrentZoom, c.TargetZoom, factor)
	c.updatePosition()
}

// updatePosition converte ângulos e zoom em posição (coordenadas esféricas).
func (c *CameraController) updatePosition() {
	cosX := float32(math.Cos(float64(c.AngleX)))
	sinX := float32(math.Sin(float64(c.AngleX)))
	cosY := float32(math.Cos(float64(c.AngleY)))
	sinY := float32(math.Sin(float64(c.AngleY)))

	dist := c.CurrentZoom
	c.Position = c.CurrentLookAt.Add(mgl32.Vec3{
		dist * cosX * sinY,
		dist * -sinX,
		dist * cosX * cosY,
	})
}

// HandleInput aplica um frame de entrada. Retorna true se algo mudou.
func (c *CameraController) HandleInput(in Input, dt float32) bool {
	moved := false

	if in.Wheel != 0 {
		moved = true
		c.TargetZoom -= in.Wheel * c.ZoomSpeed
		c.TargetZoom = mgl32.Clamp(c.TargetZoom, c.MinZoom, c.MaxZoom)
	}

	if in.OrbitDX != 0 || in.OrbitDY != 0 {
		moved = true
		c.AngleY -= in.OrbitDX * c.RotateSpeed * 0.005
		c.AngleX -= in.OrbitDY * c.RotateSpeed * 0.005
		// entre quase vertical e quase horizonte
		c.AngleX = mgl32.Clamp(c.AngleX, mgl32.DegToRad(-89), mgl32.DegToRad(-5))
	}

	forward, right := c.groundAxes()
	var move mgl32.Vec3
	if in.Forward {
		move = move.Add(forward)
	}
	if in.Back {
		move = move.Sub(forward)
	}
	if in.Right {
		move = move.Add(right)
	}
	if in.Left {
		move = move.Sub(right)
	}
	if in.Up {
		move = move.Add(mgl32.Vec3{0, 1, 0})
	}
	if in.Down {
		move = move.Sub(mgl32.Vec3{0, 1, 0})
	}

	if move.Len() > 0 {
		// mais longe, mais rápido
		speed := c.MoveSpeed * (c.CurrentZoom / 40.0) * dt
		if in.Fast {
			speed *= 3
		}
		c.TargetLookAt = c.TargetLookAt.Add(move.Normalize().Mul(speed))
		moved = true
	}

	return moved
}

// groundAxes retorna frente e direita projetados no plano XZ.
func (c *CameraController) groundAxes() (forward, right mgl32.Vec3) {
	forward = c.CurrentLookAt.Sub(c.Position)
	forward[1] = 0
	if forward.Len() == 0 {
		forward = mgl32.Vec3{0, 0, -1}
	}
	forward = forward.Normalize()
	right = forward.Cross(mgl32.Vec3{0, 1, 0}).Normalize()
	return forward, right
}

// View retorna a matriz de visão.
func (c *CameraController) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.CurrentLookAt, mgl32.Vec3{0, 1, 0})
}

// Projection retorna a matriz de projeção perspectiva.
func (c *CameraController) Projection(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

// ViewProj é Projection * View.
func (c *CameraController) ViewProj(aspect float32) mgl32.Mat4 {
	return c.Projection(aspect).Mul4(c.View())
}
