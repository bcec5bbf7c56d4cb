package util

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Dimensões de um chunk e de uma coluna do mundo.
const (
	ChunkSize        = 16
	ChunksPerColumn  = 16
	ColumnHeight     = ChunkSize * ChunksPerColumn
	ChunkVolume      = ChunkSize * ChunkSize * ChunkSize
	NeighborhoodSize = ChunkSize + 2
)

// Vector3i é uma coordenada inteira do mundo (X = leste, Y = cima, Z = sul).
type Vector3i struct {
	X, Y, Z int32
}

// NewVector3i cria uma nova coordenada.
func NewVector3i(x, y, z int32) Vector3i {
	return Vector3i{X: x, Y: y, Z: z}
}

// Add soma duas coordenadas.
func (v Vector3i) Add(other Vector3i) Vector3i {
	return Vector3i{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

// Sub subtrai duas coordenadas.
func (v Vector3i) Sub(other Vector3i) Vector3i {
	return Vector3i{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

// Vec3 converte para vetor de ponto flutuante.
func (v Vector3i) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}

func (v Vector3i) String() string {
	return fmt.Sprintf("(%d, %d, %d)", v.X, v.Y, v.Z)
}

// FloorDiv divide arredondando para baixo, correto para coordenadas negativas.
func FloorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// FloorMod é o resto não negativo complementar a FloorDiv.
func FloorMod(a, b int32) int32 {
	return a - FloorDiv(a, b)*b
}

// ChunkOrigin retorna a origem (múltiplo de 16) do chunk que contém a posição.
func ChunkOrigin(pos Vector3i) Vector3i {
	return Vector3i{
		X: FloorDiv(pos.X, ChunkSize) * ChunkSize,
		Y: FloorDiv(pos.Y, ChunkSize) * ChunkSize,
		Z: FloorDiv(pos.Z, ChunkSize) * ChunkSize,
	}
}

// ColumnCoord identifica uma coluna de 16 chunks empilhados, em unidades de chunk.
type ColumnCoord struct {
	X, Z int32
}

func (c ColumnCoord) String() string {
	return fmt.Sprintf("[%d, %d]", c.X, c.Z)
}

// ColumnOf retorna a coluna que contém a posição de mundo.
func ColumnOf(pos Vector3i) ColumnCoord {
	return ColumnCoord{X: FloorDiv(pos.X, ChunkSize), Z: FloorDiv(pos.Z, ChunkSize)}
}

// BlockFace identifica uma face de bloco.
type BlockFace uint8

const (
	FaceNorth BlockFace = iota
	FaceEast
	FaceSouth
	FaceWest
	FaceUp
	FaceDown
	FaceNone
)

// MeshFaceOrder é a ordem em que as faces são emitidas pelo mesher.
var MeshFaceOrder = [6]BlockFace{FaceUp, FaceDown, FaceNorth, FaceSouth, FaceEast, FaceWest}

var faceNames = [...]string{"north", "east", "south", "west", "up", "down", "none"}

func (f BlockFace) String() string {
	if int(f) < len(faceNames) {
		return faceNames[f]
	}
	return "invalid"
}

// ParseBlockFace converte o nome usado nos modelos ("north", "up", ...).
func ParseBlockFace(name string) BlockFace {
	for i, n := range faceNames {
		if n == name {
			return BlockFace(i)
		}
	}
	switch name {
	case "top":
		return FaceUp
	case "bottom":
		return FaceDown
	}
	return FaceNone
}

// FaceOffsets mapeia faces para o deslocamento do vizinho.
var FaceOffsets = [...]Vector3i{
	FaceNorth: {X: 0, Y: 0, Z: -1},
	FaceEast:  {X: 1, Y: 0, Z: 0},
	FaceSouth: {X: 0, Y: 0, Z: 1},
	FaceWest:  {X: -1, Y: 0, Z: 0},
	FaceUp:    {X: 0, Y: 1, Z: 0},
	FaceDown:  {X: 0, Y: -1, Z: 0},
	FaceNone:  {},
}

// Offset retorna o deslocamento até o vizinho nesta direção.
func (f BlockFace) Offset() Vector3i {
	if int(f) < len(FaceOffsets) {
		return FaceOffsets[f]
	}
	return Vector3i{}
}

// Opposite retorna a face oposta.
func (f BlockFace) Opposite() BlockFace {
	switch f {
	case FaceNorth:
		return FaceSouth
	case FaceSouth:
		return FaceNorth
	case FaceEast:
		return FaceWest
	case FaceWest:
		return FaceEast
	case FaceUp:
		return FaceDown
	case FaceDown:
		return FaceUp
	}
	return FaceNone
}

// Neighbor retorna a coordenada vizinha na direção da face.
func (v Vector3i) Neighbor(f BlockFace) Vector3i {
	return v.Add(f.Offset())
}
