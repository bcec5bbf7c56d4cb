package meshing

import (
	"TerraVision/cliente/internal/assets"
	"TerraVision/shared/block"
	"TerraVision/shared/util"

	"github.com/go-gl/mathgl/mgl32"
)

// tintTable multiplica a textura por face: 0 = sem tint, 1 = grama, 2 = folhas.
var tintTable = [...]mgl32.Vec3{
	{1, 1, 1},
	{137.0 / 255.0, 191.0 / 255.0, 98.0 / 255.0},
	{0.22, 0.60, 0.21},
}

func tintFor(index int) mgl32.Vec3 {
	if index < 0 || index >= len(tintTable) {
		return tintTable[0]
	}
	return tintTable[index]
}

// Mesher transforma snapshots em vértices. Não guarda estado entre chamadas e
// pode ser usado por vários workers ao mesmo tempo.
type Mesher struct {
	Blocks *block.Registry
	Models ModelSource
}

// NewMesher cria um mesher sobre a tabela de blocos e a camada de modelos.
func NewMesher(blocks *block.Registry, models ModelSource) *Mesher {
	return &Mesher{Blocks: blocks, Models: models}
}

// Generate produz a geometria de um chunk. Blocos desconhecidos ou sem modelo
// são ignorados; um chunk sem nada visível devolve nil.
func (m *Mesher) Generate(snap *Snapshot) []Vertex {
	if snap == nil || m.Models == nil {
		return nil
	}

	buf := GetMeshBuffer()
	defer PutMeshBuffer(buf)

	base := snap.Origin.Vec3()
	for y := int32(0); y < util.ChunkSize; y++ {
		for z := int32(0); z < util.ChunkSize; z++ {
			for x := int32(0); x < util.ChunkSize; x++ {
				local := util.Vector3i{X: x, Y: y, Z: z}
				ref := snap.Get(local)
				if ref == block.Air {
					continue
				}

				variant := m.Models.GetVariant(ref)
				if variant == nil || variant.Model == nil || len(variant.Model.Elements) == 0 {
					continue
				}

				m.meshBlock(buf, snap, local, base.Add(local.Vec3()), variant)
			}
		}
	}

	return buf.Clone()
}

func (m *Mesher) meshBlock(buf *MeshBuffer, snap *Snapshot, local util.Vector3i, pos mgl32.Vec3, variant *assets.Variant) {
	rotated := variant.HasRotation()

	for _, face := range util.MeshFaceOrder {
		if m.isOccluding(variant, face, snap.Get(local.Neighbor(face))) {
			continue
		}

		ao := [4]uint8{3, 3, 3, 3}
		if !rotated {
			for c := range ao {
				ao[c] = m.ambientOcclusion(snap, local, face, c)
			}
		}

		for i := range variant.Model.Elements {
			el := &variant.Model.Elements[i]
			rf := el.Face(face)
			if rf == nil {
				continue
			}

			corners := faceCorners(face, el.From, el.To)
			transformCorners(&corners, el, variant)
			uvs := faceUVs(face, rf.UVFrom, rf.UVTo)

			shade := ao
			if !el.Shade {
				shade = [4]uint8{3, 3, 3, 3}
			}

			var fc [4]FaceCorner
			for c := range fc {
				fc[c] = FaceCorner{Position: pos.Add(corners[c]), UV: uvs[c], AO: shade[c]}
			}
			buf.AddFace(fc[cornerBL], fc[cornerBR], fc[cornerTL], fc[cornerTR], rf.Texture, tintFor(rf.TintIndex))
		}
	}
}
