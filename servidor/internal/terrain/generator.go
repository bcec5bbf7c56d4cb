// Package terrain gera colunas de mundo a partir de ruído simplex.
package terrain

import (
	"fmt"

	"TerraVision/shared/block"
	"TerraVision/shared/util"
	"TerraVision/shared/world"

	"github.com/ojrac/opensimplex-go"
)

const (
	SeaLevel   = 62
	baseHeight = 64
	treeChance = 0.82 // limiar do ruído de árvores, quanto maior mais raras
)

// Palette são os blocos usados pelo gerador.
type Palette struct {
	Stone, Dirt, Grass, Sand, Water, Log, Leaves block.Ref
}

// PaletteFrom resolve a paleta pelos nomes da tabela de blocos.
func PaletteFrom(reg *block.Registry) (Palette, error) {
	var p Palette
	lookups := []struct {
		name string
		dst  *block.Ref
	}{
		{"stone", &p.Stone},
		{"dirt", &p.Dirt},
		{"grass_block", &p.Grass},
		{"sand", &p.Sand},
		{"water", &p.Water},
		{"oak_log", &p.Log},
		{"oak_leaves", &p.Leaves},
	}
	for _, l := range lookups {
		ref, ok := reg.Lookup(l.name, nil)
		if !ok {
			return p, fmt.Errorf("bloco %q ausente na tabela", l.name)
		}
		*l.dst = ref
	}
	// preferimos o tronco em pé quando existir a variante
	if ref, ok := reg.Lookup("oak_log", map[string]string{"axis": "y"}); ok {
		p.Log = ref
	}
	return p, nil
}

// Generator produz colunas determinísticas para uma semente.
type Generator struct {
	height  opensimplex.Noise32
	detail  opensimplex.Noise32
	trees   opensimplex.Noise32
	palette Palette
}

// New cria um gerador.
func New(seed int64, palette Palette) *Generator {
	return &Generator{
		height:  opensimplex.New32(seed),
		detail:  opensimplex.New32(seed + 1),
		trees:   opensimplex.New32(seed + 2),
		palette: palette,
	}
}

// Height retorna a altura do terreno (primeiro bloco de ar) na coluna global (x, z).
func (g *Generator) Height(x, z int32) int32 {
	amplitude := float32(18)
	scale := float32(96)
	x1, z1 := float32(x), float32(z)

	val := float32(0)
	for i := 0; i < 4; i++ {
		val += g.height.Eval2(x1/scale, z1/scale) * amplitude
		x1 *= 2
		z1 *= 2
		amplitude *= 0.5
	}
	val += g.detail.Eval2(float32(x)/24, float32(z)/24) * 2

	h := int32(baseHeight + val)
	return int32(util.Clamp(int(h), 1, util.ColumnHeight-16))
}

// Column gera a coluna inteira em coord.
func (g *Generator) Column(coord util.ColumnCoord) *world.Column {
	col := world.NewColumn(coord)
	p := g.palette

	set := func(x, y, z int32, ref block.Ref) {
		if y < 0 || y >= util.ColumnHeight {
			return
		}
		idx := y / util.ChunkSize
		section := col.Sections[idx]
		if section == nil {
			section = new(world.ChunkData)
			col.Sections[idx] = section
		}
		section[world.Index(x, y%util.ChunkSize, z)] = ref
	}

	for z := int32(0); z < util.ChunkSize; z++ {
		for x := int32(0); x < util.ChunkSize; x++ {
			gx := coord.X*util.ChunkSize + x
			gz := coord.Z*util.ChunkSize + z
			h := g.Height(gx, gz)

			beach := h <= SeaLevel+1
			for y := int32(0); y < h; y++ {
				switch {
				case y < h-4:
					set(x, y, z, p.Stone)
				case beach:
					set(x, y, z, p.Sand)
				case y == h-1:
					set(x, y, z, p.Grass)
				default:
					set(x, y, z, p.Dirt)
				}
			}
			for y := h; y < SeaLevel; y++ {
				set(x, y, z, p.Water)
			}
		}
	}

	// árvores só no interior, para que as folhas não cruzem a borda da coluna
	for z := int32(2); z < util.ChunkSize-2; z++ {
		for x := int32(2); x < util.ChunkSize-2; x++ {
			gx := coord.X*util.ChunkSize + x
			gz := coord.Z*util.ChunkSize + z
			if g.trees.Eval2(float32(gx)*0.9, float32(gz)*0.9) < treeChance {
				continue
			}
			h := g.Height(gx, gz)
			if h <= SeaLevel+1 {
				continue
			}
			g.plantTree(set, x, h, z)
		}
	}
	return col
}

func (g *Generator) plantTree(set func(x, y, z int32, ref block.Ref), x, base, z int32) {
	const trunk = 5
	for dy := int32(-2); dy <= 1; dy++ {
		r := int32(2)
		if dy == 1 {
			r = 1
		}
		for dz := -r; dz <= r; dz++ {
			for dx := -r; dx <= r; dx++ {
				if util.Abs(dx) == r && util.Abs(dz) == r && r == 2 {
					continue
				}
				set(x+dx, base+trunk+dy, z+dz, g.palette.Leaves)
			}
		}
	}
	for y := base; y < base+trunk; y++ {
		set(x, y, z, g.palette.Log)
	}
}
