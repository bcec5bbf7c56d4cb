package meshing

import (
	"TerraVision/cliente/internal/assets"
	"TerraVision/shared/block"
	"TerraVision/shared/util"

	"github.com/go-gl/mathgl/mgl32"
)

// Índices dos cantos de uma face.
const (
	cornerBL = iota
	cornerBR
	cornerTL
	cornerTR
)

// faceCorners retorna os cantos BL, BR, TL, TR de uma face de elemento.
func faceCorners(face util.BlockFace, from, to mgl32.Vec3) [4]mgl32.Vec3 {
	switch face {
	case util.FaceUp:
		return [4]mgl32.Vec3{
			{from.X(), to.Y(), from.Z()},
			{from.X(), to.Y(), to.Z()},
			{to.X(), to.Y(), from.Z()},
			{to.X(), to.Y(), to.Z()},
		}
	case util.FaceDown:
		return [4]mgl32.Vec3{
			{to.X(), from.Y(), from.Z()},
			{to.X(), from.Y(), to.Z()},
			{from.X(), from.Y(), from.Z()},
			{from.X(), from.Y(), to.Z()},
		}
	case util.FaceNorth:
		return [4]mgl32.Vec3{
			{to.X(), from.Y(), from.Z()},
			{from.X(), from.Y(), from.Z()},
			{to.X(), to.Y(), from.Z()},
			{from.X(), to.Y(), from.Z()},
		}
	case util.FaceSouth:
		return [4]mgl32.Vec3{
			{from.X(), from.Y(), to.Z()},
			{to.X(), from.Y(), to.Z()},
			{from.X(), to.Y(), to.Z()},
			{to.X(), to.Y(), to.Z()},
		}
	case util.FaceEast:
		return [4]mgl32.Vec3{
			{to.X(), from.Y(), to.Z()},
			{to.X(), from.Y(), from.Z()},
			{to.X(), to.Y(), to.Z()},
			{to.X(), to.Y(), from.Z()},
		}
	case util.FaceWest:
		return [4]mgl32.Vec3{
			{from.X(), from.Y(), from.Z()},
			{from.X(), from.Y(), to.Z()},
			{from.X(), to.Y(), from.Z()},
			{from.X(), to.Y(), to.Z()},
		}
	}
	return [4]mgl32.Vec3{}
}

// faceUVs distribui o retângulo uv_from/uv_to pelos cantos BL, BR, TL, TR.
func faceUVs(face util.BlockFace, from, to mgl32.Vec2) [4]mgl32.Vec2 {
	switch face {
	case util.FaceUp:
		return [4]mgl32.Vec2{{from.X(), from.Y()}, {from.X(), to.Y()}, {to.X(), from.Y()}, {to.X(), to.Y()}}
	case util.FaceDown:
		return [4]mgl32.Vec2{{to.X(), to.Y()}, {to.X(), from.Y()}, {from.X(), to.Y()}, {from.X(), from.Y()}}
	}
	return [4]mgl32.Vec2{{from.X(), to.Y()}, {to.X(), to.Y()}, {from.X(), from.Y()}, {to.X(), from.Y()}}
}

// aoSamples são, para cada face e canto, os deslocamentos (side1, side2, corner)
// a partir do bloco. Todos ficam na camada à frente da face.
var aoSamples = buildAOSamples()

func buildAOSamples() [6][4][3]util.Vector3i {
	var out [6][4][3]util.Vector3i
	unit := mgl32.Vec3{1, 1, 1}

	for f := util.FaceNorth; f < util.FaceNone; f++ {
		n := f.Offset()
		corners := faceCorners(f, mgl32.Vec3{}, unit)

		// eixos perpendiculares à normal
		var axes []int
		normal := [3]int32{n.X, n.Y, n.Z}
		for i := 0; i < 3; i++ {
			if normal[i] == 0 {
				axes = append(axes, i)
			}
		}

		for c, corner := range corners {
			var side1, side2 [3]int32
			side1 = normal
			side2 = normal
			sign := func(axis int) int32 {
				if corner[axis] > 0.5 {
					return 1
				}
				return -1
			}
			side1[axes[0]] += sign(axes[0])
			side2[axes[1]] += sign(axes[1])
			diag := normal
			diag[axes[0]] += sign(axes[0])
			diag[axes[1]] += sign(axes[1])

			out[f][c] = [3]util.Vector3i{
				{X: side1[0], Y: side1[1], Z: side1[2]},
				{X: side2[0], Y: side2[1], Z: side2[2]},
				{X: diag[0], Y: diag[1], Z: diag[2]},
			}
		}
	}
	return out
}

// ambientOcclusion calcula o nível 0..3 de um canto: dois lados sólidos dão 0,
// senão 3 menos a quantidade de amostras sólidas.
func (m *Mesher) ambientOcclusion(snap *Snapshot, local util.Vector3i, face util.BlockFace, corner int) uint8 {
	s := aoSamples[face][corner]
	side1 := m.isSolid(snap.Get(local.Add(s[0])))
	side2 := m.isSolid(snap.Get(local.Add(s[1])))
	diag := m.isSolid(snap.Get(local.Add(s[2])))

	if side1 && side2 {
		return 0
	}
	ao := 3
	for _, solid := range [...]bool{side1, side2, diag} {
		if solid {
			ao--
		}
	}
	return uint8(ao)
}

func (m *Mesher) isSolid(ref block.Ref) bool {
	return ref != block.Air && m.Blocks.IsSolid(ref)
}

// isOccluding decide se a face do bloco é escondida pelo vizinho.
// Nunca descarta quando há qualquer dúvida: vizinho sem modelo, variantes
// giradas, elemento sem cullface naquela direção.
func (m *Mesher) isOccluding(variant *assets.Variant, face util.BlockFace, neighbor block.Ref) bool {
	if neighbor == block.Air {
		return false
	}
	if variant.HasRotation() {
		return false
	}

	for i := range variant.Model.Elements {
		rf := variant.Model.Elements[i].Face(face)
		if rf == nil || rf.CullFace == util.FaceNone {
			return false
		}
	}

	other := m.Models.GetVariant(neighbor)
	if other == nil || other.Model == nil || other.HasRotation() {
		return false
	}

	opposite := face.Opposite()
	for i := range other.Model.Elements {
		el := &other.Model.Elements[i]
		if !el.FullExtent() {
			continue
		}
		rf := el.Face(opposite)
		if rf != nil && !m.Models.IsTransparent(rf.Texture) {
			return true
		}
	}
	return false
}
