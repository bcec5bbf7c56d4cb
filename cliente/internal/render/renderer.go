package render

import (
	"fmt"
	"log"

	"TerraVision/cliente/internal/assets"
	"TerraVision/shared/util"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// DrawStats conta o que foi desenhado no último frame.
type DrawStats struct {
	Chunks   int
	Culled   int
	Vertices int
}

// Renderer desenha as malhas do Generator com o shader de terreno.
// Precisa ser criado e usado na thread do contexto GL.
type Renderer struct {
	program uint32
	texture uint32

	viewProjLoc int32
	camPosLoc   int32
	samplerLoc  int32
	fogColorLoc int32
	fogEndLoc   int32

	DrawDistance float32
	FogColor     mgl32.Vec3
	Wireframe    bool

	firstFrame bool
}

// NewRenderer compila os shaders e envia o texture array.
func NewRenderer(textures *assets.TextureArray, drawDistance float32) (*Renderer, error) {
	prog, err := loadProgram(terrainVertexShader, terrainFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("shader de terreno: %w", err)
	}

	tex, err := uploadTextures(textures)
	if err != nil {
		gl.DeleteProgram(prog)
		return nil, err
	}

	r := &Renderer{
		program:      prog,
		texture:      tex,
		viewProjLoc:  gl.GetUniformLocation(prog, gl.Str("viewProj\x00")),
		camPosLoc:    gl.GetUniformLocation(prog, gl.Str("camPos\x00")),
		samplerLoc:   gl.GetUniformLocation(prog, gl.Str("blockTextures\x00")),
		fogColorLoc:  gl.GetUniformLocation(prog, gl.Str("fogColor\x00")),
		fogEndLoc:    gl.GetUniformLocation(prog, gl.Str("fogEnd\x00")),
		DrawDistance: drawDistance,
		FogColor:     mgl32.Vec3{0.62, 0.78, 0.95},
		firstFrame:   true,
	}

	log.Printf("[Render] Renderer inicializado (distância de visão %.0f)", drawDistance)
	return r, nil
}

// Draw desenha todas as malhas dentro da distância de visão. Chunks cuja
// distância horizontal ao centro passa do limite são ignorados.
func (r *Renderer) Draw(viewProj mgl32.Mat4, camPos mgl32.Vec3, gen *Generator) DrawStats {
	var stats DrawStats

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)
	if r.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	}

	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.viewProjLoc, 1, false, &viewProj[0])
	gl.Uniform3f(r.camPosLoc, camPos.X(), camPos.Y(), camPos.Z())
	gl.Uniform3f(r.fogColorLoc, r.FogColor.X(), r.FogColor.Y(), r.FogColor.Z())
	gl.Uniform1f(r.fogEndLoc, r.DrawDistance)
	gl.Uniform1i(r.samplerLoc, 0)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, r.texture)

	// margem de meio chunk na diagonal para não cortar chunks parcialmente visíveis
	limit := r.DrawDistance + util.ChunkSize
	limitSq := limit * limit
	half := float32(util.ChunkSize) / 2

	gen.Meshes(func(m *ChunkMesh) {
		if m.Released() || m.VertexCount == 0 {
			return
		}
		center := m.Origin.Vec3().Add(mgl32.Vec3{half, half, half})
		if util.DistSqXZ(center, camPos) > limitSq {
			stats.Culled++
			return
		}
		gl.BindVertexArray(m.Handle().VAO)
		gl.DrawArrays(gl.TRIANGLES, 0, m.VertexCount)
		stats.Chunks++
		stats.Vertices += int(m.VertexCount)
	})

	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, 0)
	gl.UseProgram(0)
	if r.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
	gl.Disable(gl.CULL_FACE)
	gl.Disable(gl.DEPTH_TEST)

	if r.firstFrame {
		r.firstFrame = false
		log.Printf("[Render] Primeiro frame: %d chunks, %d vértices", stats.Chunks, stats.Vertices)
	}
	return stats
}

// Unload libera shader e texturas. As malhas pertencem ao Generator.
func (r *Renderer) Unload() {
	if r.texture != 0 {
		gl.DeleteTextures(1, &r.texture)
		r.texture = 0
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
		r.program = 0
	}
	log.Println("[Render] Recursos do renderer liberados")
}
