package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:8080", "endereço do servidor")
	wait := flag.Duration("wait", 15*time.Second, "tempo máximo esperando o servidor")
	flag.Parse()

	fmt.Println("╔══════════════════════════════════════╗")
	fmt.Println("║        TerraVision Launcher          ║")
	fmt.Println("╚══════════════════════════════════════╝")

	fmt.Println("[1/2] Iniciando Servidor...")
	serverCmd := exec.Command(binary("servidor", "server"), "-addr", *addr)
	serverCmd.Dir = "servidor"
	serverCmd.Stdout = os.Stdout
	serverCmd.Stderr = os.Stderr
	if err := serverCmd.Start(); err != nil {
		log.Fatalf("Erro ao iniciar servidor: %v", err)
	}

	fmt.Println("Aguardando o servidor abrir a porta...")
	if err := waitForPort(*addr, *wait); err != nil {
		serverCmd.Process.Kill()
		log.Fatalf("Servidor não respondeu: %v", err)
	}

	fmt.Println("[2/2] Abrindo Cliente...")
	clientCmd := exec.Command(binary("cliente", "client"), "-server", "ws://"+*addr+"/ws")
	clientCmd.Dir = "cliente" // diretório de trabalho para carregar assets
	clientCmd.Stdout = os.Stdout
	clientCmd.Stderr = os.Stderr
	if err := clientCmd.Run(); err != nil {
		fmt.Printf("ERRO: o cliente terminou com erro: %v\n", err)
	}

	// o servidor vive enquanto o cliente estiver aberto
	serverCmd.Process.Signal(os.Interrupt)
	done := make(chan error, 1)
	go func() { done <- serverCmd.Wait() }()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		serverCmd.Process.Kill()
	}
	fmt.Println("TerraVision encerrado.")
}

// binary retorna o caminho absoluto do executável dentro de dir.
func binary(dir, name string) string {
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	abs, err := filepath.Abs(filepath.Join(dir, name))
	if err != nil {
		return filepath.Join(dir, name)
	}
	return abs
}

func waitForPort(addr string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		conn, err := net.DialTimeout("tcp", addr, time.Second)
		if err == nil {
			conn.Close()
			return nil
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(250 * time.Millisecond)
	}
}
