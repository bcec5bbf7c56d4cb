package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"TerraVision/servidor/internal/terrain"
	"TerraVision/servidor/internal/worldserver"
	"TerraVision/shared/block"
	"TerraVision/shared/world"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:8080", "endereço HTTP/WebSocket")
	seed := flag.Int64("seed", 1337, "semente do terreno")
	blocksPath := flag.String("blocks", filepath.Join("assets", "blocks.json"), "tabela de blocos")
	dbPath := flag.String("db", filepath.Join("saves", "server.tv"), "banco SQLite do mundo (vazio = só memória)")
	saveEvery := flag.Duration("save", 30*time.Second, "intervalo de auto-save")
	flag.Parse()

	if p := os.Getenv("PORT"); p != "" {
		host, _, err := net.SplitHostPort(*addr)
		if err == nil {
			*addr = net.JoinHostPort(host, p)
		}
	}

	log.SetFlags(log.Ltime | log.Lshortfile)

	// Configurar Log em Arquivo para depuração de crash
	if err := os.MkdirAll("tmp", 0755); err == nil {
		logFile, err := os.OpenFile("tmp/server.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			defer logFile.Close()
			log.SetOutput(io.MultiWriter(os.Stdout, logFile))
		}
	}
	log.Println("╔══════════════════════════════════════╗")
	log.Println("║      TerraVision SERVER v0.1.0       ║")
	log.Println("╚══════════════════════════════════════╝")

	blocks, err := block.LoadRegistry(*blocksPath)
	if err != nil {
		log.Fatalf("Erro ao carregar blocos: %v", err)
	}
	palette, err := terrain.PaletteFrom(blocks)
	if err != nil {
		log.Fatalf("Erro na paleta do terreno: %v", err)
	}

	var cache *world.ColumnCache
	if *dbPath != "" {
		cache, err = world.OpenColumnCache(*dbPath)
		if err != nil {
			log.Fatalf("Erro ao abrir banco: %v", err)
		}
		defer cache.Close()
	}

	srv := worldserver.New(blocks, terrain.New(*seed, palette), cache)
	defer srv.Close()

	ln, err := net.Listen("tcp", *addr)
	if err != nil {
		log.Printf("╔══════════════════════════════════════════════════════════════╗")
		log.Printf("║ ERRO CRÍTICO: Não foi possível abrir %-24s║", *addr)
		log.Printf("║ Provavelmente há outra instância do servidor rodando.        ║")
		log.Printf("╚══════════════════════════════════════════════════════════════╝")
		log.Fatalf("Erro ao iniciar servidor: %v", err)
	}

	httpServer := &http.Server{Handler: srv.Handler()}
	go func() {
		log.Printf("Servidor TerraVision iniciado em %s (semente %d)", *addr, *seed)
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Erro fatal no servidor HTTP: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(*saveEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := srv.Save(); err != nil {
				log.Printf("[AutoSave] %v", err)
			}
		case <-ctx.Done():
			log.Println("[Shutdown] Encerrando servidor...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			httpServer.Shutdown(shutdownCtx)
			cancel()
			srv.Close()
			if _, err := srv.Save(); err != nil {
				log.Printf("[Shutdown] Erro ao salvar: %v", err)
			}
			return
		}
	}
}
