package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFloorDiv(t *testing.T) {
	tests := []struct {
		a, b int32
		want int32
		mod  int32
	}{
		{0, 16, 0, 0},
		{15, 16, 0, 15},
		{16, 16, 1, 0},
		{-1, 16, -1, 15},
		{-16, 16, -1, 0},
		{-17, 16, -2, 15},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FloorDiv(tt.a, tt.b), "FloorDiv(%d, %d)", tt.a, tt.b)
		assert.Equal(t, tt.mod, FloorMod(tt.a, tt.b), "FloorMod(%d, %d)", tt.a, tt.b)
	}
}

func TestChunkOrigin(t *testing.T) {
	assert.Equal(t, Vector3i{}, ChunkOrigin(Vector3i{X: 5, Y: 15}))
	assert.Equal(t, Vector3i{X: -16, Y: 16, Z: -32}, ChunkOrigin(Vector3i{X: -1, Y: 17, Z: -17}))
	assert.Equal(t, ColumnCoord{X: -1, Z: 2}, ColumnOf(Vector3i{X: -3, Y: 100, Z: 40}))
}

func TestBlockFaceOpposite(t *testing.T) {
	for f := FaceNorth; f < FaceNone; f++ {
		opp := f.Opposite()
		assert.NotEqual(t, f, opp)
		assert.Equal(t, f, opp.Opposite())
		assert.Equal(t, Vector3i{}, f.Offset().Add(opp.Offset()), "face %s", f)
	}
	assert.Equal(t, FaceNone, FaceNone.Opposite())
}

func TestParseBlockFace(t *testing.T) {
	tests := map[string]BlockFace{
		"north":  FaceNorth,
		"up":     FaceUp,
		"top":    FaceUp,
		"bottom": FaceDown,
		"west":   FaceWest,
		"":       FaceNone,
		"sky":    FaceNone,
	}
	for name, want := range tests {
		assert.Equal(t, want, ParseBlockFace(name), name)
	}
}
