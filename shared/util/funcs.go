package util

import "github.com/go-gl/mathgl/mgl32"

// DistSqXZ retorna a distância quadrada horizontal (plano XZ) entre dois pontos.
// A altura é ignorada: a prioridade de meshing só depende da distância no chão.
func DistSqXZ(a, b mgl32.Vec3) float32 {
	dx := a.X() - b.X()
	dz := a.Z() - b.Z()
	return dx*dx + dz*dz
}

// Abs retorna o valor absoluto de um int32.
func Abs(n int32) int32 {
	if n < 0 {
		return -n
	}
	return n
}

// Clamp limita v ao intervalo [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp interpola linearmente entre start e end.
func Lerp(start, end, amount float32) float32 {
	return start + amount*(end-start)
}
