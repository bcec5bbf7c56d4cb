package main

import (
	"flag"
	"log"
	"os"
	"runtime"

	"TerraVision/cliente/internal/app"
	"TerraVision/shared/config"
)

func main() {
	// OpenGL exige rodar na thread principal do SO
	runtime.LockOSThread()

	serverURL := flag.String("server", "", "URL do servidor de mundo (padrão: ws://127.0.0.1:8080/ws)")
	debug := flag.Bool("debug", false, "Mostrar informações de debug")
	width := flag.Int("width", 0, "Largura da janela")
	height := flag.Int("height", 0, "Altura da janela")
	window := flag.String("window", "", "Backend de janela: raylib ou glfw")
	offline := flag.Bool("offline", false, "Não conectar ao servidor; usar só o cache local")
	flag.Parse()

	f, err := os.OpenFile("debug_tv.log", os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err == nil {
		defer f.Close()
		log.SetOutput(f)
		log.Println("--- INICIANDO TERRAVISION ---")
	}
	log.SetFlags(log.Ltime | log.Lshortfile)

	cfg := config.Load()

	// flags sobrescrevem o config salvo
	if *serverURL != "" {
		cfg.ServerURL = *serverURL
	}
	if *debug {
		cfg.ShowDebugInfo = true
	}
	if *width > 0 {
		cfg.WindowWidth = int32(*width)
	}
	if *height > 0 {
		cfg.WindowHeight = int32(*height)
	}
	if *window != "" {
		cfg.WindowBackend = *window
	}

	application := app.New(cfg, *offline)
	if err := application.Run(); err != nil {
		log.Printf("[App] ERRO: %v", err)
		os.Exit(1)
	}
}
