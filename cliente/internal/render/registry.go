package render

import (
	"fmt"
	"log"
	"slices"

	"TerraVision/cliente/internal/meshing"
	"TerraVision/shared/util"

	"golang.org/x/exp/maps"
)

// MeshRegistry guarda no máximo uma malha por chunk. Só é acessado pela
// thread de render, por isso não tem lock.
type MeshRegistry struct {
	gpu    GPU
	meshes map[util.Vector3i]*ChunkMesh
}

// NewMeshRegistry cria um registro vazio que aloca buffers através de gpu.
func NewMeshRegistry(gpu GPU) *MeshRegistry {
	return &MeshRegistry{
		gpu:    gpu,
		meshes: make(map[util.Vector3i]*ChunkMesh),
	}
}

// Replace troca a malha do chunk. A anterior é destruída antes da nova ser
// criada; um resultado vazio apenas remove o chunk.
func (r *MeshRegistry) Replace(origin util.Vector3i, vertices []meshing.Vertex) error {
	r.Destroy(origin)

	if len(vertices) == 0 {
		return nil
	}

	handle, err := r.gpu.CreateMesh(vertices)
	if err != nil {
		return fmt.Errorf("upload do chunk %v: %w", origin, err)
	}

	r.meshes[origin] = &ChunkMesh{
		Origin:      origin,
		VertexCount: int32(len(vertices)),
		handle:      handle,
		gpu:         r.gpu,
	}
	return nil
}

// Destroy libera a malha do chunk, se houver.
func (r *MeshRegistry) Destroy(origin util.Vector3i) bool {
	mesh, ok := r.meshes[origin]
	if !ok {
		return false
	}
	mesh.Release()
	delete(r.meshes, origin)
	return true
}

// DestroyColumn libera os 16 chunks empilhados de uma coluna.
func (r *MeshRegistry) DestroyColumn(col util.ColumnCoord) int {
	count := 0
	for y := int32(0); y < util.ChunksPerColumn; y++ {
		origin := util.Vector3i{X: col.X * util.ChunkSize, Y: y * util.ChunkSize, Z: col.Z * util.ChunkSize}
		if r.Destroy(origin) {
			count++
		}
	}
	return count
}

// Clear libera todas as malhas.
func (r *MeshRegistry) Clear() {
	for _, mesh := range r.meshes {
		mesh.Release()
	}
	if len(r.meshes) > 0 {
		log.Printf("[Render] %d malhas liberadas", len(r.meshes))
	}
	r.meshes = make(map[util.Vector3i]*ChunkMesh)
}

// Get retorna a malha do chunk.
func (r *MeshRegistry) Get(origin util.Vector3i) (*ChunkMesh, bool) {
	mesh, ok := r.meshes[origin]
	return mesh, ok
}

// Each visita as malhas em ordem indefinida.
func (r *MeshRegistry) Each(fn func(*ChunkMesh)) {
	for _, mesh := range r.meshes {
		fn(mesh)
	}
}

// Coords retorna as origens registradas em ordem estável (y, z, x).
func (r *MeshRegistry) Coords() []util.Vector3i {
	coords := maps.Keys(r.meshes)
	slices.SortFunc(coords, func(a, b util.Vector3i) int {
		if a.Y != b.Y {
			return int(a.Y - b.Y)
		}
		if a.Z != b.Z {
			return int(a.Z - b.Z)
		}
		return int(a.X - b.X)
	})
	return coords
}

func (r *MeshRegistry) Len() int {
	return len(r.meshes)
}

// VertexCount soma os vértices de todas as malhas.
func (r *MeshRegistry) VertexCount() int {
	total := 0
	for _, mesh := range r.meshes {
		total += int(mesh.VertexCount)
	}
	return total
}
