package app

import (
	"fmt"
)

// draw desenha o terreno e, por cima, o overlay de debug.
func (a *App) draw() {
	a.window.BeginFrame(a.renderer.FogColor)

	width, height := a.window.Size()
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	a.drawStats = a.renderer.Draw(a.Cam.ViewProj(aspect), a.Cam.Position, a.generator)

	if a.Config.ShowDebugInfo {
		a.window.DrawOverlay(a.debugLines())
	} else {
		a.window.DrawOverlay(nil)
	}

	a.window.EndFrame()
}

func (a *App) debugLines() []string {
	queued, building := a.generator.Pending()
	registry := a.generator.Registry()
	pos := a.Cam.Position

	fps := float32(0)
	if dt := a.window.FrameTime(); dt > 0 {
		fps = 1 / dt
	}

	return []string{
		fmt.Sprintf("FPS: %.0f", fps),
		fmt.Sprintf("Câmera: %.1f %.1f %.1f", pos.X(), pos.Y(), pos.Z()),
		fmt.Sprintf("Colunas: %d  Malhas: %d (%d vértices)", a.store.Len(), registry.Len(), registry.VertexCount()),
		fmt.Sprintf("Desenhados: %d chunks  Fora do alcance: %d", a.drawStats.Chunks, a.drawStats.Culled),
		fmt.Sprintf("Fila: %d aguardando  %d em construção", queued, building),
		a.getStatus(),
	}
}
