package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestNewLooksDownAtTarget(t *testing.T) {
	c := New(mgl32.Vec3{10, 64, -5}, 70)

	assert.Greater(t, c.Position.Y(), float32(64))
	assert.InDelta(t, 40, c.Position.Sub(c.CurrentLookAt).Len(), 1e-3)

	// o alvo projeta no centro da tela
	clip := c.ViewProj(16.0 / 9.0).Mul4x1(c.CurrentLookAt.Vec4(1))
	ndc := clip.Vec3().Mul(1 / clip.W())
	assert.InDelta(t, 0, ndc.X(), 1e-4)
	assert.InDelta(t, 0, ndc.Y(), 1e-4)
}

func TestHandleInputMovesOnGround(t *testing.T) {
	tests := []struct {
		name  string
		in    Input
		moved bool
	}{
		{"parado", Input{}, false},
		{"frente", Input{Forward: true}, true},
		{"frente e trás se anulam", Input{Forward: true, Back: true}, false},
		{"subir", Input{Up: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(mgl32.Vec3{}, 70)
			moved := c.HandleInput(tt.in, 1.0 / 60)
			assert.Equal(t, tt.moved, moved)
			if !tt.in.Up {
				assert.Equal(t, float32(0), c.TargetLookAt.Y())
			}
		})
	}
}

func TestForwardPointsAwayFromCamera(t *testing.T) {
	c := New(mgl32.Vec3{}, 70)
	c.HandleInput(Input{Forward: true}, 1)

	before := mgl32.Vec2{c.Position.X(), c.Position.Z()}
	after := mgl32.Vec2{c.TargetLookAt.X(), c.TargetLookAt.Z()}
	assert.Greater(t, after.Sub(before).Len(), before.Len())
}

func TestOrbitClampsElevation(t *testing.T) {
	c := New(mgl32.Vec3{}, 70)
	c.HandleInput(Input{OrbitDY: -100000}, 1)
	assert.InDelta(t, mgl32.DegToRad(-5), c.AngleX, 1e-5)

	c.HandleInput(Input{OrbitDY: 100000}, 1)
	assert.InDelta(t, mgl32.DegToRad(-89), c.AngleX, 1e-5)
}

func TestZoomClampAndSmoothing(t *testing.T) {
	c := New(mgl32.Vec3{}, 70)
	c.HandleInput(Input{Wheel: 100}, 1)
	assert.Equal(t, c.MinZoom, c.TargetZoom)

	c.Update(1.0 / 60)
	assert.Less(t, c.CurrentZoom, float32(40))
	assert.Greater(t, c.CurrentZoom, c.MinZoom)

	c.Update(10)
	assert.InDelta(t, c.MinZoom, c.CurrentZoom, 1e-4)
}
