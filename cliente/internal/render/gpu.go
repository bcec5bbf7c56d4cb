package render

import (
	"fmt"
	"unsafe"

	"TerraVision/cliente/internal/meshing"

	"github.com/go-gl/gl/v3.3-core/gl"
)

// MeshHandle são os nomes GL de um chunk enviado para a GPU.
type MeshHandle struct {
	VAO, VBO uint32
}

// GPU cria e destrói buffers de chunk. Todas as chamadas precisam acontecer na
// thread que possui o contexto GL.
type GPU interface {
	CreateMesh(vertices []meshing.Vertex) (MeshHandle, error)
	DestroyMesh(h MeshHandle)
}

// GLDevice implementa GPU sobre OpenGL 3.3 core.
type GLDevice struct{}

// NewGLDevice carrega os ponteiros de função GL do contexto atual.
func NewGLDevice() (*GLDevice, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("falha ao inicializar OpenGL: %w", err)
	}
	return &GLDevice{}, nil
}

// CreateMesh envia os vértices e configura os cinco atributos:
// 0 posição, 1 uv, 2 camada da textura, 3 tint, 4 oclusão.
func (GLDevice) CreateMesh(vertices []meshing.Vertex) (MeshHandle, error) {
	var h MeshHandle
	if len(vertices) == 0 {
		return h, fmt.Errorf("malha vazia")
	}

	gl.GenVertexArrays(1, &h.VAO)
	gl.BindVertexArray(h.VAO)

	gl.GenBuffers(1, &h.VBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, h.VBO)
	size := len(vertices) * int(unsafe.Sizeof(meshing.Vertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, size, gl.Ptr(vertices), gl.STATIC_DRAW)

	stride := meshing.VertexStride

	// posição
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, uintptr(meshing.OffsetPosition))

	// uv
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, stride, uintptr(meshing.OffsetUV))

	// camada do texture array (inteiro)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribIPointer(2, 1, gl.UNSIGNED_INT, stride, gl.PtrOffset(meshing.OffsetTextureIndex))

	// tint
	gl.EnableVertexAttribArray(3)
	gl.VertexAttribPointerWithOffset(3, 3, gl.FLOAT, false, stride, uintptr(meshing.OffsetTint))

	// oclusão ambiente (inteiro 0..3)
	gl.EnableVertexAttribArray(4)
	gl.VertexAttribIPointer(4, 1, gl.UNSIGNED_BYTE, stride, gl.PtrOffset(meshing.OffsetAmbientOcclusion))

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		GLDevice{}.DestroyMesh(h)
		return MeshHandle{}, fmt.Errorf("erro GL 0x%x ao criar malha", code)
	}
	return h, nil
}

// DestroyMesh libera o VBO e o VAO imediatamente.
func (GLDevice) DestroyMesh(h MeshHandle) {
	if h.VBO != 0 {
		gl.DeleteBuffers(1, &h.VBO)
	}
	if h.VAO != 0 {
		gl.DeleteVertexArrays(1, &h.VAO)
	}
}
