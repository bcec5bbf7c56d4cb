package app

import (
	"context"
	"log"

	"TerraVision/shared/util"
)

// connectServer conecta ao servidor de mundo. Sem servidor (ou com -offline),
// o mundo vem do cache local.
func (a *App) connectServer() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PANIC] Erro em connectServer: %v", r)
		}
	}()

	if a.feed == nil {
		a.loadOffline("Modo offline")
		return
	}

	a.setStatus("Conectando ao servidor...")
	if err := a.feed.Connect(context.Background()); err != nil {
		log.Printf("[Network] Erro ao conectar: %v", err)
		a.loadOffline("Servidor indisponível")
		return
	}

	a.setStatus("Conectado a " + a.Config.ServerURL)

	<-a.feed.Done()
	a.setStatus("Conexão perdida")
}

// loadOffline repõe no Store as colunas guardadas no cache.
func (a *App) loadOffline(reason string) {
	if a.cache == nil {
		a.setStatus(reason + " (sem cache local)")
		return
	}
	n, err := a.store.Restore(a.cache)
	if err != nil {
		log.Printf("[Cache] ERRO ao restaurar colunas: %v", err)
		a.setStatus(reason + " (cache ilegível)")
		return
	}
	log.Printf("[Cache] %d colunas restauradas do cache", n)
	a.setStatus(reason + ": mundo do cache local")
}

// requestRegion pede ao servidor as colunas ao redor do foco da câmera.
func (a *App) requestRegion(center util.ColumnCoord) {
	if a.feed == nil || !a.feed.IsConnected() {
		return
	}
	if err := a.feed.RequestRegion(center, a.Config.DrawDistance); err != nil {
		log.Printf("[Network] %v", err)
		return
	}
	a.lastRegion = center
	a.hasRegion = true
}
