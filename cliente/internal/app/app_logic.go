package app

import (
	"log"
	"math"

	"TerraVision/shared/util"

	"github.com/go-gl/mathgl/mgl32"
)

// autoSaveInterval é o intervalo entre gravações do cache local, em segundos.
const autoSaveInterval = 60.0

// updateWorld faz o trabalho de malhas do frame e pede novas regiões quando a
// câmera troca de coluna.
func (a *App) updateWorld() {
	a.generator.SetCamera(a.Cam.Position)
	a.frameStats = a.generator.ProcessFrame()

	if a.frameStats.Dropped > 0 {
		log.Printf("[Mesher] %d resultados obsoletos descartados", a.frameStats.Dropped)
	}

	focus := focusColumn(a.Cam.CurrentLookAt)
	if !a.hasRegion || focus != a.lastRegion {
		a.requestRegion(focus)
	}
}

// focusColumn retorna a coluna que contém o ponto. Arredonda para baixo, para
// que -0.5 caia na coluna -1.
func focusColumn(p mgl32.Vec3) util.ColumnCoord {
	return util.ColumnOf(util.Vector3i{
		X: int32(math.Floor(float64(p.X()))),
		Z: int32(math.Floor(float64(p.Z()))),
	})
}

// handleAutoSave grava as colunas alteradas no cache a cada autoSaveInterval.
func (a *App) handleAutoSave() {
	now := a.window.Time()
	if now-a.lastAutoSave < autoSaveInterval {
		return
	}
	a.lastAutoSave = now
	a.saveCache()
}

func (a *App) saveCache() {
	if a.cache == nil || a.store == nil {
		return
	}
	n, err := a.store.Save(a.cache)
	if err != nil {
		log.Printf("[Cache] ERRO ao salvar colunas: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[Cache] %d colunas salvas", n)
	}
}
