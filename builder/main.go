package main

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// Cores para o terminal (ANSI)
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
)

// component é um executável do projeto.
type component struct {
	name    string
	pkg     string
	output  string
	cgo     bool
	ldflags string
}

func components() []component {
	exe := ""
	guiFlags := "-s -w"
	if runtime.GOOS == "windows" {
		exe = ".exe"
		guiFlags = "-s -w -H=windowsgui"
	}
	return []component{
		// o servidor usa go-sqlite3, o cliente usa raylib/glfw: ambos precisam de cgo
		{"SERVIDOR", "./servidor", "servidor/server" + exe, true, "-s -w"},
		{"CLIENTE", "./cliente", "cliente/client" + exe, true, guiFlags},
		{"LAUNCHER", "./launcher", "TerraVision" + exe, false, "-s -w"},
	}
}

func main() {
	fmt.Println(ColorCyan + "╔══════════════════════════════════════╗" + ColorReset)
	fmt.Println(ColorCyan + "║        TerraVision Builder           ║" + ColorReset)
	fmt.Println(ColorCyan + "╚══════════════════════════════════════╝" + ColorReset)

	start := time.Now()
	setupEnvironment()

	for i, c := range components() {
		fmt.Printf(ColorYellow+"\n[%d/3] Compilando %s..."+ColorReset+"\n", i+1, c.name)
		if err := build(c); err != nil {
			fatal(err)
		}
	}

	fmt.Printf("\n"+ColorCyan+"Build finalizada com sucesso em %v!"+ColorReset+"\n", time.Since(start).Round(time.Second))
}

func setupEnvironment() {
	// Adicionar MSYS2 ao PATH se estiver no Windows
	if runtime.GOOS != "windows" {
		return
	}
	msysPath := `C:\msys64\mingw64\bin`
	if !strings.Contains(os.Getenv("PATH"), msysPath) {
		os.Setenv("PATH", msysPath+";"+os.Getenv("PATH"))
		fmt.Printf("  - PATH atualizado: %s adicionado.\n", msysPath)
	}
	os.Setenv("CC", "gcc")
}

func build(c component) error {
	cgo := "0"
	if c.cgo {
		cgo = "1"
	}

	cmd := exec.Command("go", "build", "-ldflags", c.ldflags, "-o", c.output, c.pkg)
	cmd.Env = append(os.Environ(), "CGO_ENABLED="+cgo)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("falha ao compilar %s: %w", c.name, err)
	}
	fmt.Printf(ColorGreen+"  - %s compilado -> %s"+ColorReset+"\n", c.name, c.output)
	return nil
}

func fatal(err error) {
	fmt.Printf("\n"+ColorRed+"[ERRO FATAL] %v"+ColorReset+"\n", err)
	os.Exit(1)
}
