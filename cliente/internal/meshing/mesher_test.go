package meshing

import (
	"testing"

	"TerraVision/shared/block"
	"TerraVision/shared/util"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotOf(origin util.Vector3i, blocks map[util.Vector3i]block.Ref) *Snapshot {
	src := mapSource{}
	for local, ref := range blocks {
		src[origin.Add(local)] = ref
	}
	return NewSnapshot(origin, src)
}

func TestVertexLayout(t *testing.T) {
	assert.Equal(t, int32(40), VertexStride)
	assert.Equal(t, 0, OffsetPosition)
	assert.Equal(t, 12, OffsetUV)
	assert.Equal(t, 20, OffsetTextureIndex)
	assert.Equal(t, 24, OffsetTint)
	assert.Equal(t, 36, OffsetAmbientOcclusion)
}

func TestGenerateMeshCounts(t *testing.T) {
	m, _ := newTestMesher(t)

	tests := []struct {
		name   string
		blocks map[util.Vector3i]block.Ref
		want   int
	}{
		{"vazio", nil, 0},
		{"bloco isolado", map[util.Vector3i]block.Ref{{X: 3, Y: 3, Z: 3}: refStone}, 36},
		{"dois vizinhos", map[util.Vector3i]block.Ref{
			{X: 3, Y: 3, Z: 3}: refStone,
			{X: 4, Y: 3, Z: 3}: refStone,
		}, 60},
		{"vizinho na borda oculta a face", map[util.Vector3i]block.Ref{
			{X: 15, Y: 0, Z: 0}: refStone,
			{X: 16, Y: 0, Z: 0}: refStone,
		}, 30},
		{"vizinho transparente", map[util.Vector3i]block.Ref{
			{X: 3, Y: 3, Z: 3}: refStone,
			{X: 3, Y: 4, Z: 3}: refGlass,
		}, 36 + 30},
		{"vizinho não ocupa o bloco inteiro", map[util.Vector3i]block.Ref{
			{X: 3, Y: 3, Z: 3}: refStone,
			{X: 3, Y: 4, Z: 3}: refSlab,
		}, 66},
		{"elemento sem cullface", map[util.Vector3i]block.Ref{
			{X: 3, Y: 3, Z: 3}: refNoCull,
			{X: 4, Y: 3, Z: 3}: refStone,
		}, 36 + 30},
		{"variante girada nunca oculta", map[util.Vector3i]block.Ref{
			{X: 3, Y: 3, Z: 3}: refRotated,
			{X: 4, Y: 3, Z: 3}: refStone,
		}, 72},
		{"vizinho sem modelo", map[util.Vector3i]block.Ref{
			{X: 3, Y: 3, Z: 3}: refStone,
			{X: 4, Y: 3, Z: 3}: refNoModel,
		}, 36},
		{"bloco desconhecido", map[util.Vector3i]block.Ref{{X: 1, Y: 1, Z: 1}: 999}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verts := m.Generate(snapshotOf(util.Vector3i{X: 32, Y: 0, Z: -16}, tt.blocks))
			assert.Len(t, verts, tt.want)
			assert.Zero(t, len(verts)%VerticesPerFace)
		})
	}
}

func TestGenerateFullChunk(t *testing.T) {
	m, _ := newTestMesher(t)

	blocks := make(map[util.Vector3i]block.Ref)
	for y := int32(0); y < 16; y++ {
		for z := int32(0); z < 16; z++ {
			for x := int32(0); x < 16; x++ {
				blocks[util.Vector3i{X: x, Y: y, Z: z}] = refStone
			}
		}
	}

	verts := m.Generate(snapshotOf(util.Vector3i{}, blocks))
	require.Len(t, verts, 6*256*VerticesPerFace)
	for _, v := range verts {
		// Um cubo cheio é convexo: nenhum canto fica ocluído.
		assert.Equal(t, uint8(3), v.AmbientOcclusion)
		onSurface := false
		for i := 0; i < 3; i++ {
			if v.Position[i] == 0 || v.Position[i] == 16 {
				onSurface = true
			}
		}
		assert.True(t, onSurface, "vértice fora da superfície: %v", v.Position)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	m, _ := newTestMesher(t)
	snap := snapshotOf(util.Vector3i{X: 16}, map[util.Vector3i]block.Ref{
		{X: 0, Y: 0, Z: 0}:  refStone,
		{X: 0, Y: 1, Z: 0}:  refGrass,
		{X: 5, Y: 5, Z: 5}:  refRotated,
		{X: -1, Y: 1, Z: 0}: refStone,
	})

	assert.Equal(t, m.Generate(snap), m.Generate(snap))
}

func TestGenerateSingleBlockGeometry(t *testing.T) {
	m, _ := newTestMesher(t)
	origin := util.Vector3i{X: -16, Y: 16, Z: 32}
	verts := m.Generate(snapshotOf(origin, map[util.Vector3i]block.Ref{{X: 2, Y: 3, Z: 4}: refStone}))
	require.Len(t, verts, 36)

	lo := mgl32.Vec3{-14, 19, 36}
	hi := lo.Add(mgl32.Vec3{1, 1, 1})
	normals := []mgl32.Vec3{{0, 1, 0}, {0, -1, 0}, {0, 0, -1}, {0, 0, 1}, {1, 0, 0}, {-1, 0, 0}}

	for f := 0; f < 6; f++ {
		face := verts[f*6 : f*6+6]

		// BL, BR, TR, TR, TL, BL
		assert.Equal(t, face[2], face[3])
		assert.Equal(t, face[0], face[5])

		// Os dois triângulos apontam para fora (anti-horário visto de fora).
		for _, tri := range [][3]Vertex{{face[0], face[1], face[2]}, {face[3], face[4], face[5]}} {
			n := tri[1].Position.Sub(tri[0].Position).Cross(tri[2].Position.Sub(tri[0].Position))
			assert.Greater(t, n.Dot(normals[f]), float32(0), "face %d", f)
		}

		for _, v := range face {
			for i := 0; i < 3; i++ {
				assert.True(t, v.Position[i] == lo[i] || v.Position[i] == hi[i])
			}
			assert.Equal(t, uint32(texStone), v.TextureIndex)
			assert.Equal(t, mgl32.Vec3{1, 1, 1}, v.Tint)
			assert.Equal(t, uint8(3), v.AmbientOcclusion)
		}
	}
}

func TestGenerateAmbientOcclusion(t *testing.T) {
	m, _ := newTestMesher(t)

	// Bloqueadores na borda (não geram geometria) acima-oeste e acima-norte.
	snap := snapshotOf(util.Vector3i{}, map[util.Vector3i]block.Ref{
		{X: 0, Y: 0, Z: 0}:  refStone,
		{X: -1, Y: 1, Z: 0}: refStone,
		{X: 0, Y: 1, Z: -1}: refStone,
	})
	verts := m.Generate(snap)
	require.Len(t, verts, 36)

	// Face de cima: BL(-x,-z) tem os dois lados sólidos, BR e TL um lado cada.
	up := verts[0:6]
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, up[0].Position)
	assert.Equal(t, uint8(0), up[0].AmbientOcclusion)
	assert.Equal(t, mgl32.Vec3{0, 1, 1}, up[1].Position)
	assert.Equal(t, uint8(2), up[1].AmbientOcclusion)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, up[2].Position)
	assert.Equal(t, uint8(3), up[2].AmbientOcclusion)
	assert.Equal(t, mgl32.Vec3{1, 1, 0}, up[4].Position)
	assert.Equal(t, uint8(2), up[4].AmbientOcclusion)

	for _, v := range verts {
		assert.LessOrEqual(t, v.AmbientOcclusion, uint8(3))
	}
}

func TestGenerateCornerOnlyOcclusion(t *testing.T) {
	m, _ := newTestMesher(t)
	snap := snapshotOf(util.Vector3i{}, map[util.Vector3i]block.Ref{
		{X: 0, Y: 0, Z: 0}:   refStone,
		{X: -1, Y: 1, Z: -1}: refStone,
	})
	up := m.Generate(snap)[0:6]
	assert.Equal(t, uint8(2), up[0].AmbientOcclusion)
	assert.Equal(t, uint8(3), up[1].AmbientOcclusion)
}

func TestGenerateSkipsOcclusionWhenUnshadedOrRotated(t *testing.T) {
	m, _ := newTestMesher(t)

	for _, ref := range []block.Ref{refUnshaded, refRotated} {
		snap := snapshotOf(util.Vector3i{}, map[util.Vector3i]block.Ref{
			{X: 0, Y: 0, Z: 0}:  ref,
			{X: -1, Y: 1, Z: 0}: refStone,
			{X: 0, Y: 1, Z: -1}: refStone,
		})
		verts := m.Generate(snap)
		require.Len(t, verts, 36)
		for _, v := range verts {
			assert.Equal(t, uint8(3), v.AmbientOcclusion, "ref %d", ref)
		}
	}
}

func TestGenerateRotatedVariantStaysInBlock(t *testing.T) {
	m, _ := newTestMesher(t)
	verts := m.Generate(snapshotOf(util.Vector3i{}, map[util.Vector3i]block.Ref{{X: 0, Y: 0, Z: 0}: refRotated}))
	require.Len(t, verts, 36)
	for _, v := range verts {
		for i := 0; i < 3; i++ {
			assert.InDelta(t, 0.5, v.Position[i], 0.5001)
		}
	}
}

func TestGenerateTint(t *testing.T) {
	m, _ := newTestMesher(t)

	grass := m.Generate(snapshotOf(util.Vector3i{}, map[util.Vector3i]block.Ref{{X: 0, Y: 0, Z: 0}: refGrass}))
	require.NotEmpty(t, grass)
	assert.Equal(t, mgl32.Vec3{137.0 / 255.0, 191.0 / 255.0, 98.0 / 255.0}, grass[0].Tint)

	bad := m.Generate(snapshotOf(util.Vector3i{}, map[util.Vector3i]block.Ref{{X: 0, Y: 0, Z: 0}: refBadTint}))
	require.NotEmpty(t, bad)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, bad[0].Tint)

	assert.Equal(t, mgl32.Vec3{1, 1, 1}, tintFor(-1))
	assert.Equal(t, mgl32.Vec3{0.22, 0.60, 0.21}, tintFor(2))
}

func TestGenerateNilSnapshot(t *testing.T) {
	m, _ := newTestMesher(t)
	assert.Nil(t, m.Generate(nil))
}

func TestAOSamplesMatchUpFace(t *testing.T) {
	up := aoSamples[util.FaceUp]
	assert.Equal(t, [3]util.Vector3i{{X: -1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: -1}, {X: -1, Y: 1, Z: -1}}, up[cornerBL])
	assert.Equal(t, [3]util.Vector3i{{X: -1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 1}, {X: -1, Y: 1, Z: 1}}, up[cornerBR])
	assert.Equal(t, [3]util.Vector3i{{X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: -1}, {X: 1, Y: 1, Z: -1}}, up[cornerTL])
	assert.Equal(t, [3]util.Vector3i{{X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1}}, up[cornerTR])

	// Toda amostra fica na camada à frente da face.
	for f := util.FaceNorth; f < util.FaceNone; f++ {
		n := f.Offset()
		for _, corner := range aoSamples[f] {
			for _, s := range corner {
				assert.Equal(t, n.X*n.X+n.Y*n.Y+n.Z*n.Z, s.X*n.X+s.Y*n.Y+s.Z*n.Z, "face %s", f)
			}
		}
	}
}
