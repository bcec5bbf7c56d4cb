package app

import (
	"testing"

	"TerraVision/shared/util"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestFocusColumn(t *testing.T) {
	tests := []struct {
		name string
		p    mgl32.Vec3
		want util.ColumnCoord
	}{
		{"origem", mgl32.Vec3{0, 64, 0}, util.ColumnCoord{}},
		{"logo abaixo de zero", mgl32.Vec3{-0.5, 64, -0.25}, util.ColumnCoord{X: -1, Z: -1}},
		{"borda negativa", mgl32.Vec3{-16, 0, -16.01}, util.ColumnCoord{X: -1, Z: -2}},
		{"positivo", mgl32.Vec3{31.9, 0, 16}, util.ColumnCoord{X: 1, Z: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, focusColumn(tt.p))
		})
	}
}
