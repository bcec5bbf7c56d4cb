package render

import (
	"TerraVision/shared/util"
)

// ChunkMesh é a geometria de um chunk já residente na GPU.
type ChunkMesh struct {
	Origin      util.Vector3i
	VertexCount int32

	handle   MeshHandle
	gpu      GPU
	released bool
}

// Handle retorna os nomes GL usados no desenho.
func (m *ChunkMesh) Handle() MeshHandle {
	return m.handle
}

// Released informa se os recursos de GPU já foram liberados.
func (m *ChunkMesh) Released() bool {
	return m.released
}

// Release libera os buffers. Chamadas repetidas não fazem nada.
func (m *ChunkMesh) Release() {
	if m == nil || m.released {
		return
	}
	m.released = true
	if m.gpu != nil {
		m.gpu.DestroyMesh(m.handle)
	}
	m.handle = MeshHandle{}
	m.VertexCount = 0
}
