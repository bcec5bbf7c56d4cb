package render

import (
	"testing"

	"TerraVision/shared/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryReplaceDestroysBeforeCreate(t *testing.T) {
	gpu := newFakeGPU()
	r := NewMeshRegistry(gpu)
	origin := util.Vector3i{X: 16, Y: 0, Z: -32}

	require.NoError(t, r.Replace(origin, someVertices(36)))
	require.NoError(t, r.Replace(origin, someVertices(72)))

	assert.Equal(t, []string{"create 1", "destroy 1", "create 2"}, gpu.ops)
	mesh, ok := r.Get(origin)
	require.True(t, ok)
	assert.Equal(t, int32(72), mesh.VertexCount)
	assert.Equal(t, uint32(2), mesh.Handle().VAO)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryEmptyResultRemoves(t *testing.T) {
	gpu := newFakeGPU()
	r := NewMeshRegistry(gpu)
	origin := util.Vector3i{}

	require.NoError(t, r.Replace(origin, someVertices(6)))
	require.NoError(t, r.Replace(origin, nil))

	_, ok := r.Get(origin)
	assert.False(t, ok)
	assert.Empty(t, gpu.live)
	assert.Equal(t, []string{"create 1", "destroy 1"}, gpu.ops)

	// vazio sem malha anterior não toca na GPU
	require.NoError(t, r.Replace(util.Vector3i{X: 16}, nil))
	assert.Len(t, gpu.ops, 2)
}

func TestChunkMeshReleaseIsIdempotent(t *testing.T) {
	gpu := newFakeGPU()
	r := NewMeshRegistry(gpu)
	require.NoError(t, r.Replace(util.Vector3i{}, someVertices(6)))

	mesh, _ := r.Get(util.Vector3i{})
	mesh.Release()
	mesh.Release()
	assert.True(t, mesh.Released())

	// o registro ainda a referencia, mas Destroy não libera de novo
	assert.True(t, r.Destroy(util.Vector3i{}))
	assert.False(t, r.Destroy(util.Vector3i{}))
	assert.Equal(t, []string{"create 1", "destroy 1"}, gpu.ops)

	var nilMesh *ChunkMesh
	assert.NotPanics(t, nilMesh.Release)
}

func TestRegistryCreateFailure(t *testing.T) {
	gpu := newFakeGPU()
	gpu.failing = true
	r := NewMeshRegistry(gpu)

	err := r.Replace(util.Vector3i{Y: 16}, someVertices(6))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "(0, 16, 0)")
	assert.Equal(t, 0, r.Len())
}

func TestRegistryDestroyColumn(t *testing.T) {
	gpu := newFakeGPU()
	r := NewMeshRegistry(gpu)

	col := util.ColumnCoord{X: -1, Z: 2}
	for _, y := range []int32{0, 16, 240} {
		require.NoError(t, r.Replace(util.Vector3i{X: -16, Y: y, Z: 32}, someVertices(6)))
	}
	other := util.Vector3i{X: 0, Y: 0, Z: 32}
	require.NoError(t, r.Replace(other, someVertices(6)))

	assert.Equal(t, 3, r.DestroyColumn(col))
	assert.Equal(t, []util.Vector3i{other}, r.Coords())
	assert.Len(t, gpu.live, 1)
}

func TestRegistryCoordsAndClear(t *testing.T) {
	gpu := newFakeGPU()
	r := NewMeshRegistry(gpu)

	coords := []util.Vector3i{
		{X: 16, Y: 16, Z: 0},
		{X: 0, Y: 0, Z: 16},
		{X: -16, Y: 0, Z: 16},
		{X: 0, Y: 0, Z: 0},
	}
	for _, c := range coords {
		require.NoError(t, r.Replace(c, someVertices(12)))
	}

	assert.Equal(t, []util.Vector3i{
		{X: 0, Y: 0, Z: 0},
		{X: -16, Y: 0, Z: 16},
		{X: 0, Y: 0, Z: 16},
		{X: 16, Y: 16, Z: 0},
	}, r.Coords())
	assert.Equal(t, 48, r.VertexCount())

	visited := 0
	r.Each(func(*ChunkMesh) { visited++ })
	assert.Equal(t, 4, visited)

	r.Clear()
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, gpu.live)
}
