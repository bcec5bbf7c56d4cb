package meshing

import (
	"sync"
	"testing"

	"TerraVision/cliente/internal/assets"
	"TerraVision/shared/block"
	"TerraVision/shared/util"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

const (
	refStone    block.Ref = 1
	refGlass    block.Ref = 2
	refNoCull   block.Ref = 3
	refRotated  block.Ref = 4
	refUnshaded block.Ref = 5
	refGrass    block.Ref = 6
	refBadTint  block.Ref = 7
	refNoModel  block.Ref = 8
	refSlab     block.Ref = 9
	refPanic    block.Ref = 10
	refGate     block.Ref = 11

	texStone assets.TextureHandle = 0
	texGlass assets.TextureHandle = 1
)

// mapSource é um mundo esparso para testes.
type mapSource map[util.Vector3i]block.Ref

func (m mapSource) GetBlock(pos util.Vector3i) block.Ref { return m[pos] }

// cube monta um elemento 0..1 com as seis faces.
func cube(tex assets.TextureHandle, tint int, cull bool, shade bool) assets.Element {
	el := assets.Element{From: mgl32.Vec3{0, 0, 0}, To: mgl32.Vec3{1, 1, 1}, Shade: shade}
	for f := util.FaceNorth; f < util.FaceNone; f++ {
		cullFace := util.FaceNone
		if cull {
			cullFace = f
		}
		el.Faces[f] = &assets.RenderableFace{
			Face:      f,
			CullFace:  cullFace,
			Texture:   tex,
			TintIndex: tint,
			UVFrom:    mgl32.Vec2{0, 0},
			UVTo:      mgl32.Vec2{1, 1},
		}
	}
	return el
}

func variantOf(elements ...assets.Element) *assets.Variant {
	return &assets.Variant{Model: &assets.Model{Elements: elements}}
}

type fakeModels struct {
	variants map[block.Ref]*assets.Variant

	gateOnce sync.Once
	gate     chan struct{}
	entered  chan struct{}
}

func (f *fakeModels) GetVariant(ref block.Ref) *assets.Variant {
	switch ref {
	case refPanic:
		panic("modelo corrompido")
	case refGate:
		f.gateOnce.Do(func() { close(f.entered) })
		<-f.gate
		return f.variants[refStone]
	}
	return f.variants[ref]
}

func (f *fakeModels) IsTransparent(h assets.TextureHandle) bool {
	return h == texGlass
}

func newFakeModels() *fakeModels {
	slab := cube(texStone, 0, true, true)
	slab.To = mgl32.Vec3{1, 0.5, 1}

	rotated := variantOf(cube(texStone, 0, true, true))
	rotated.Rotation = mgl32.Vec3{0, 90, 0}

	return &fakeModels{
		variants: map[block.Ref]*assets.Variant{
			refStone:    variantOf(cube(texStone, 0, true, true)),
			refGlass:    variantOf(cube(texGlass, 0, true, true)),
			refNoCull:   variantOf(cube(texStone, 0, false, true)),
			refRotated:  rotated,
			refUnshaded: variantOf(cube(texStone, 0, true, false)),
			refGrass:    variantOf(cube(texStone, 1, true, true)),
			refBadTint:  variantOf(cube(texStone, 9, true, true)),
			refSlab:     variantOf(slab),
		},
		gate:    make(chan struct{}),
		entered: make(chan struct{}),
	}
}

func newTestRegistry(t *testing.T) *block.Registry {
	t.Helper()
	r, err := block.NewRegistry([]block.Type{
		{ID: refStone, Name: "stone", Solid: true},
		{ID: refGlass, Name: "glass"},
		{ID: refNoCull, Name: "nocull", Solid: true},
		{ID: refRotated, Name: "rotated", Solid: true},
		{ID: refUnshaded, Name: "unshaded", Solid: true},
		{ID: refGrass, Name: "grass", Solid: true},
		{ID: refBadTint, Name: "badtint", Solid: true},
		{ID: refNoModel, Name: "nomodel", Solid: true},
		{ID: refSlab, Name: "slab"},
		{ID: refPanic, Name: "panic"},
		{ID: refGate, Name: "gate", Solid: true},
	})
	require.NoError(t, err)
	return r
}

func newTestMesher(t *testing.T) (*Mesher, *fakeModels) {
	models := newFakeModels()
	return NewMesher(newTestRegistry(t), models), models
}
