package terrain

import (
	"testing"

	"TerraVision/shared/block"
	"TerraVision/shared/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T) *block.Registry {
	t.Helper()
	reg, err := block.NewRegistry([]block.Type{
		{ID: 1, Name: "stone", Solid: true},
		{ID: 2, Name: "dirt", Solid: true},
		{ID: 3, Name: "grass_block", Solid: true},
		{ID: 4, Name: "sand", Solid: true},
		{ID: 5, Name: "water"},
		{ID: 6, Name: "oak_log", Solid: true, Properties: map[string]string{"axis": "x"}},
		{ID: 7, Name: "oak_log", Solid: true, Properties: map[string]string{"axis": "y"}},
		{ID: 8, Name: "oak_leaves", Solid: true},
	})
	require.NoError(t, err)
	return reg
}

func TestPaletteFrom(t *testing.T) {
	p, err := PaletteFrom(testRegistry(t))
	require.NoError(t, err)
	assert.Equal(t, block.Ref(1), p.Stone)
	assert.Equal(t, block.Ref(7), p.Log)

	reg, err := block.NewRegistry([]block.Type{{ID: 1, Name: "stone"}})
	require.NoError(t, err)
	_, err = PaletteFrom(reg)
	assert.Error(t, err)
}

func TestColumnIsDeterministic(t *testing.T) {
	p, err := PaletteFrom(testRegistry(t))
	require.NoError(t, err)

	coord := util.ColumnCoord{X: 3, Z: -2}
	a := New(42, p).Column(coord)
	b := New(42, p).Column(coord)
	assert.Equal(t, a.Sections, b.Sections)
	assert.Equal(t, coord, a.Coord)
}

func TestColumnLayers(t *testing.T) {
	p, err := PaletteFrom(testRegistry(t))
	require.NoError(t, err)
	g := New(7, p)

	for _, coord := range []util.ColumnCoord{{X: 0, Z: 0}, {X: -5, Z: 9}, {X: 12, Z: 4}} {
		col := g.Column(coord)
		require.NotNil(t, col.Sections[0], "a base da coluna é sempre sólida")

		for _, lz := range []int32{0, 7, 15} {
			for _, lx := range []int32{0, 9, 15} {
				h := g.Height(coord.X*16+lx, coord.Z*16+lz)
				assert.GreaterOrEqual(t, h, int32(1))

				bottom := col.Sections[0][0*256+int(lz)*16+int(lx)]
				assert.Equal(t, p.Stone, bottom)

				top := h - 1
				got := col.Sections[top/16][int(top%16)*256+int(lz)*16+int(lx)]
				assert.Contains(t, []block.Ref{p.Grass, p.Sand, p.Leaves}, got)
			}
		}
	}
}

func TestTreesStayInsideColumn(t *testing.T) {
	p, err := PaletteFrom(testRegistry(t))
	require.NoError(t, err)
	g := New(99, p)

	for cx := int32(-4); cx < 4; cx++ {
		col := g.Column(util.ColumnCoord{X: cx, Z: 1})
		for _, section := range col.Sections {
			if section == nil {
				continue
			}
			for y := 0; y < 16; y++ {
				for z := 0; z < 16; z++ {
					for x := 0; x < 16; x++ {
						if x > 0 && x < 15 && z > 0 && z < 15 {
							continue
						}
						ref := section[y*256+z*16+x]
						assert.NotEqual(t, p.Leaves, ref)
						assert.NotEqual(t, p.Log, ref)
					}
				}
			}
		}
	}
}
