package assets

import (
	"TerraVision/shared/util"

	"github.com/go-gl/mathgl/mgl32"
)

// TextureHandle é a camada do texture array usada por uma face.
type TextureHandle uint32

// Axis é o eixo de rotação de um elemento.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// ElementRotation gira um elemento em torno de Origin (espaço 0..1 do bloco).
type ElementRotation struct {
	Origin  mgl32.Vec3
	Axis    Axis
	Angle   float32 // graus
	Rescale bool
}

// RenderableFace é uma face desenhável de um elemento.
type RenderableFace struct {
	Face      util.BlockFace
	CullFace  util.BlockFace // FaceNone quando a face nunca é descartada
	Texture   TextureHandle
	TintIndex int // índice na tabela de tint; 0 = sem tint
	UVFrom    mgl32.Vec2
	UVTo      mgl32.Vec2
}

// Element é uma caixa alinhada aos eixos dentro do bloco, em unidades de bloco.
type Element struct {
	From, To mgl32.Vec3
	Faces    [6]*RenderableFace // índice por util.BlockFace; nil = sem face
	Shade    bool
	Rotation *ElementRotation
}

// FullExtent informa se o elemento ocupa o bloco inteiro.
func (e *Element) FullExtent() bool {
	for i := 0; i < 3; i++ {
		if e.From[i] != 0 || e.To[i] != 1 {
			return false
		}
	}
	return true
}

// Face retorna a face na direção pedida, ou nil.
func (e *Element) Face(f util.BlockFace) *RenderableFace {
	if f >= util.FaceNone {
		return nil
	}
	return e.Faces[f]
}

// Model é a geometria resolvida de um modelo de bloco.
type Model struct {
	Name     string
	Elements []Element
}

// Variant é o modelo escolhido para um estado de bloco, com a rotação do bloco
// inteiro em graus (X, Y, Z).
type Variant struct {
	Model    *Model
	Rotation mgl32.Vec3
}

// HasRotation informa se o bloco inteiro está girado.
func (v *Variant) HasRotation() bool {
	return v.Rotation != (mgl32.Vec3{})
}
