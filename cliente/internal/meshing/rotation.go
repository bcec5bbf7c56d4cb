package meshing

import (
	"math"

	"TerraVision/cliente/internal/assets"

	"github.com/go-gl/mathgl/mgl32"
)

var blockCenter = mgl32.Vec3{0.5, 0.5, 0.5}

var axisVectors = [...]mgl32.Vec3{
	assets.AxisX: {1, 0, 0},
	assets.AxisY: {0, 1, 0},
	assets.AxisZ: {0, 0, 1},
}

// variantQuat monta a rotação do bloco inteiro: Z, depois Y (invertido), depois X,
// compostas nessa ordem.
func variantQuat(rot mgl32.Vec3) mgl32.Quat {
	q := mgl32.QuatIdent()
	if rot.Z() != 0 {
		q = q.Mul(mgl32.QuatRotate(mgl32.DegToRad(rot.Z()), mgl32.Vec3{0, 0, 1}))
	}
	if rot.Y() != 0 {
		q = q.Mul(mgl32.QuatRotate(mgl32.DegToRad(-rot.Y()), mgl32.Vec3{0, 1, 0}))
	}
	if rot.X() != 0 {
		q = q.Mul(mgl32.QuatRotate(mgl32.DegToRad(rot.X()), mgl32.Vec3{1, 0, 0}))
	}
	return q
}

// rotateElement gira p em torno da origem do elemento. Com Rescale, os eixos
// perpendiculares são esticados por 1/cos(ângulo) para o elemento voltar a
// cobrir o bloco.
func rotateElement(p mgl32.Vec3, r *assets.ElementRotation) mgl32.Vec3 {
	if r == nil || r.Angle == 0 {
		return p
	}
	axis := axisVectors[r.Axis]
	angle := mgl32.DegToRad(r.Angle)
	q := mgl32.QuatRotate(angle, axis)

	rel := q.Rotate(p.Sub(r.Origin))
	if r.Rescale {
		scale := float32(1 / math.Cos(float64(angle)))
		for i := 0; i < 3; i++ {
			if axis[i] == 0 {
				rel[i] *= scale
			}
		}
	}
	return rel.Add(r.Origin)
}

// transformCorners aplica a rotação do elemento e depois a da variante aos
// quatro cantos de uma face, no espaço 0..1 do bloco.
func transformCorners(corners *[4]mgl32.Vec3, el *assets.Element, variant *assets.Variant) {
	if el.Rotation != nil {
		for i := range corners {
			corners[i] = rotateElement(corners[i], el.Rotation)
		}
	}
	if variant.HasRotation() {
		q := variantQuat(variant.Rotation)
		for i := range corners {
			corners[i] = q.Rotate(corners[i].Sub(blockCenter)).Add(blockCenter)
		}
	}
}
