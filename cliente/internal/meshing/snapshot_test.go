package meshing

import (
	"testing"

	"TerraVision/shared/block"
	"TerraVision/shared/util"

	"github.com/stretchr/testify/assert"
)

func TestNewSnapshotCopiesBorder(t *testing.T) {
	origin := util.Vector3i{X: 16, Y: 32, Z: -16}
	src := mapSource{
		{X: 16, Y: 32, Z: -16}: refStone,
		{X: 15, Y: 32, Z: -16}: refGlass, // borda oeste
		{X: 31, Y: 48, Z: -1}:  refGrass, // canto oposto da borda
		{X: 33, Y: 32, Z: -16}: refStone, // fora do alcance
	}

	s := NewSnapshot(origin, src)

	assert.Equal(t, origin, s.Origin)
	assert.Equal(t, refStone, s.Get(util.Vector3i{X: 0, Y: 0, Z: 0}))
	assert.Equal(t, refGlass, s.Get(util.Vector3i{X: -1, Y: 0, Z: 0}))
	assert.Equal(t, refGrass, s.Get(util.Vector3i{X: 15, Y: 16, Z: 15}))
	assert.Equal(t, block.Air, s.Get(util.Vector3i{X: 17, Y: 0, Z: 0}))
	assert.Equal(t, block.Air, s.Get(util.Vector3i{X: 0, Y: -2, Z: 0}))
	assert.False(t, s.Empty())
}

func TestSnapshotIsACopy(t *testing.T) {
	src := mapSource{{X: 1, Y: 1, Z: 1}: refStone}
	s := NewSnapshot(util.Vector3i{}, src)

	src[util.Vector3i{X: 1, Y: 1, Z: 1}] = block.Air
	assert.Equal(t, refStone, s.Get(util.Vector3i{X: 1, Y: 1, Z: 1}))
}

func TestSnapshotEmpty(t *testing.T) {
	// Só a borda tem blocos: o interior continua vazio.
	src := mapSource{{X: -1, Y: 0, Z: 0}: refStone}
	assert.True(t, NewSnapshot(util.Vector3i{}, src).Empty())
}
