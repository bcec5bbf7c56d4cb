package render

import (
	"errors"
	"fmt"
	"testing"

	"TerraVision/cliente/internal/assets"
	"TerraVision/cliente/internal/meshing"
	"TerraVision/shared/block"
	"TerraVision/shared/util"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

const refStone block.Ref = 1

// fakeGPU registra as operações na ordem em que acontecem.
type fakeGPU struct {
	next    uint32
	ops     []string
	live    map[uint32]bool
	failing bool
}

func newFakeGPU() *fakeGPU {
	return &fakeGPU{live: make(map[uint32]bool)}
}

func (g *fakeGPU) CreateMesh(vertices []meshing.Vertex) (MeshHandle, error) {
	if g.failing {
		return MeshHandle{}, errors.New("sem memória")
	}
	g.next++
	g.live[g.next] = true
	g.ops = append(g.ops, fmt.Sprintf("create %d", g.next))
	return MeshHandle{VAO: g.next, VBO: g.next}, nil
}

func (g *fakeGPU) DestroyMesh(h MeshHandle) {
	delete(g.live, h.VAO)
	g.ops = append(g.ops, fmt.Sprintf("destroy %d", h.VAO))
}

type stoneModels struct {
	variant *assets.Variant
}

func (s stoneModels) GetVariant(ref block.Ref) *assets.Variant {
	if ref == refStone {
		return s.variant
	}
	return nil
}

func (stoneModels) IsTransparent(assets.TextureHandle) bool { return false }

func newStoneMesher(t *testing.T) *meshing.Mesher {
	t.Helper()
	blocks, err := block.NewRegistry([]block.Type{{ID: refStone, Name: "stone", Solid: true}})
	require.NoError(t, err)

	el := assets.Element{From: mgl32.Vec3{0, 0, 0}, To: mgl32.Vec3{1, 1, 1}, Shade: true}
	for f := util.FaceNorth; f < util.FaceNone; f++ {
		el.Faces[f] = &assets.RenderableFace{Face: f, CullFace: f, UVTo: mgl32.Vec2{1, 1}}
	}
	variant := &assets.Variant{Model: &assets.Model{Name: "stone", Elements: []assets.Element{el}}}
	return meshing.NewMesher(blocks, stoneModels{variant: variant})
}

func someVertices(n int) []meshing.Vertex {
	return make([]meshing.Vertex, n)
}
