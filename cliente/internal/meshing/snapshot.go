package meshing

import (
	"TerraVision/shared/block"
	"TerraVision/shared/util"
	"TerraVision/shared/world"
)

const (
	snapSide   = util.NeighborhoodSize
	snapVolume = snapSide * snapSide * snapSide
)

// Snapshot é a cópia imutável de um chunk com uma borda de um bloco em cada
// direção (18³), entregue a um worker sem nenhum acesso ao mundo vivo.
type Snapshot struct {
	Origin   util.Vector3i
	Sequence uint64
	blocks   [snapVolume]block.Ref
}

// NewSnapshot copia o chunk em origin e seus vizinhos imediatos de src.
// Posições sem dados viram ar.
func NewSnapshot(origin util.Vector3i, src world.BlockSource) *Snapshot {
	s := &Snapshot{Origin: origin}
	for y := int32(-1); y <= util.ChunkSize; y++ {
		for z := int32(-1); z <= util.ChunkSize; z++ {
			for x := int32(-1); x <= util.ChunkSize; x++ {
				pos := util.Vector3i{X: origin.X + x, Y: origin.Y + y, Z: origin.Z + z}
				s.blocks[snapIndex(x, y, z)] = src.GetBlock(pos)
			}
		}
	}
	return s
}

func snapIndex(x, y, z int32) int {
	return int(y+1)*snapSide*snapSide + int(z+1)*snapSide + int(x+1)
}

// Get retorna o bloco na posição local (-1..16 em cada eixo). Fora disso, ar.
func (s *Snapshot) Get(local util.Vector3i) block.Ref {
	if local.X < -1 || local.X > util.ChunkSize ||
		local.Y < -1 || local.Y > util.ChunkSize ||
		local.Z < -1 || local.Z > util.ChunkSize {
		return block.Air
	}
	return s.blocks[snapIndex(local.X, local.Y, local.Z)]
}

// Empty informa se o interior do chunk é todo ar.
func (s *Snapshot) Empty() bool {
	for y := int32(0); y < util.ChunkSize; y++ {
		for z := int32(0); z < util.ChunkSize; z++ {
			for x := int32(0); x < util.ChunkSize; x++ {
				if s.blocks[snapIndex(x, y, z)] != block.Air {
					return false
				}
			}
		}
	}
	return true
}
