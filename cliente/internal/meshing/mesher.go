package meshing

import (
	"sync"
	"unsafe"

	"TerraVision/cliente/internal/assets"
	"TerraVision/shared/block"
	"TerraVision/shared/util"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertex é o layout intercalado enviado como está para o VBO.
type Vertex struct {
	Position         mgl32.Vec3
	UV               mgl32.Vec2
	TextureIndex     uint32
	Tint             mgl32.Vec3
	AmbientOcclusion uint8
}

// Offsets dos atributos dentro de Vertex, usados no VertexAttribPointer.
const (
	VertexStride           = int32(unsafe.Sizeof(Vertex{}))
	OffsetPosition         = int(unsafe.Offsetof(Vertex{}.Position))
	OffsetUV               = int(unsafe.Offsetof(Vertex{}.UV))
	OffsetTextureIndex     = int(unsafe.Offsetof(Vertex{}.TextureIndex))
	OffsetTint             = int(unsafe.Offsetof(Vertex{}.Tint))
	OffsetAmbientOcclusion = int(unsafe.Offsetof(Vertex{}.AmbientOcclusion))
)

// VerticesPerFace é o número de vértices emitidos por face visível (dois triângulos).
const VerticesPerFace = 6

// ModelSource é o que o mesher precisa da camada de assets.
type ModelSource interface {
	GetVariant(ref block.Ref) *assets.Variant
	IsTransparent(h assets.TextureHandle) bool
}

// Result é a geometria produzida por um worker para um chunk.
// Vertices vazio significa que o chunk não tem nada visível.
type Result struct {
	Origin   util.Vector3i
	Sequence uint64
	Vertices []Vertex
}

// Pool global para reciclar MeshBuffers e evitar alocação excessiva (GC Pressure)
var meshBufferPool = sync.Pool{
	New: func() interface{} {
		return &MeshBuffer{Vertices: make([]Vertex, 0, 12500)}
	},
}

// GetMeshBuffer aloca ou recicla um buffer vazio para meshing.
func GetMeshBuffer() *MeshBuffer {
	return meshBufferPool.Get().(*MeshBuffer)
}

// PutMeshBuffer zera o buffer e devolve a memória para o Pool.
func PutMeshBuffer(b *MeshBuffer) {
	if b == nil {
		return
	}
	b.Vertices = b.Vertices[:0]
	meshBufferPool.Put(b)
}

// MeshBuffer acumula os vértices de um chunk durante a geração.
type MeshBuffer struct {
	Vertices []Vertex
}

// FaceCorner é um canto de face já transformado.
type FaceCorner struct {
	Position mgl32.Vec3
	UV       mgl32.Vec2
	AO       uint8
}

// AddFace adiciona um quad como dois triângulos na ordem BL, BR, TR, TR, TL, BL.
func (b *MeshBuffer) AddFace(bl, br, tl, tr FaceCorner, texture assets.TextureHandle, tint mgl32.Vec3) {
	b.addVertex(bl, texture, tint)
	b.addVertex(br, texture, tint)
	b.addVertex(tr, texture, tint)

	b.addVertex(tr, texture, tint)
	b.addVertex(tl, texture, tint)
	b.addVertex(bl, texture, tint)
}

func (b *MeshBuffer) addVertex(c FaceCorner, texture assets.TextureHandle, tint mgl32.Vec3) {
	b.Vertices = append(b.Vertices, Vertex{
		Position:         c.Position,
		UV:               c.UV,
		TextureIndex:     uint32(texture),
		Tint:             tint,
		AmbientOcclusion: c.AO,
	})
}

// Clone copia os vértices para um slice do tamanho exato, independente do pool.
func (b *MeshBuffer) Clone() []Vertex {
	if len(b.Vertices) == 0 {
		return nil
	}
	out := make([]Vertex, len(b.Vertices))
	copy(out, b.Vertices)
	return out
}
