package app

import (
	"log"
)

// updateInput aplica teclado e mouse na câmera e nos atalhos.
func (a *App) updateInput(dt float32) {
	a.Cam.HandleInput(a.window.Input(), dt)

	if a.window.Pressed(ActionToggleDebug) {
		a.Config.ShowDebugInfo = !a.Config.ShowDebugInfo
	}
	if a.window.Pressed(ActionToggleWireframe) {
		a.Config.WireframeMode = !a.Config.WireframeMode
		a.renderer.Wireframe = a.Config.WireframeMode
		log.Printf("[App] Wireframe: %v", a.Config.WireframeMode)
	}
	if a.window.Pressed(ActionResetCamera) {
		a.Cam.SetTarget(a.spawn())
	}
	if a.window.Pressed(ActionSaveCache) {
		a.saveCache()
	}
}
