package client

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"TerraVision/shared/block"
	"TerraVision/shared/proto/tvnet"
	"TerraVision/shared/util"
	"TerraVision/shared/world"

	"github.com/gorilla/websocket"
)

// ErrNotConnected é retornado por Send quando não há conexão.
var ErrNotConnected = errors.New("não conectado ao servidor")

// Feed recebe o mundo do servidor por websocket e aplica as mensagens no Store.
// As mudanças chegam ao gerador de malhas pelos avisos do próprio Store.
type Feed struct {
	url   string
	store *world.Store

	mu        sync.RWMutex
	conn      *websocket.Conn
	connected bool
	done      chan struct{}

	writeMu sync.Mutex

	MaxRetries int
	RetryDelay time.Duration

	// OnStatus recebe as mensagens de status do servidor.
	OnStatus func(msg string)
}

// NewFeed cria um feed para url que escreve em store.
func NewFeed(url string, store *world.Store) *Feed {
	return &Feed{
		url:        url,
		store:      store,
		MaxRetries: 10,
		RetryDelay: 2 * time.Second,
	}
}

// Connect tenta conectar até MaxRetries vezes e inicia a leitura em background.
func (f *Feed) Connect(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
	}

	var conn *websocket.Conn
	var err error
	for i := 0; i < f.MaxRetries; i++ {
		log.Printf("[Network] Tentativa de conexão %d/%d em %s...", i+1, f.MaxRetries, f.url)
		conn, _, err = dialer.DialContext(ctx, f.url, nil)
		if err == nil {
			break
		}
		log.Printf("[Network] Servidor ainda não está pronto: %v. Aguardando...", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(f.RetryDelay):
		}
	}
	if err != nil {
		return fmt.Errorf("falha ao conectar em %s após %d tentativas: %w", f.url, f.MaxRetries, err)
	}
	if conn == nil {
		return fmt.Errorf("falha ao conectar em %s: nenhuma tentativa feita", f.url)
	}

	f.mu.Lock()
	f.conn = conn
	f.connected = true
	f.done = make(chan struct{})
	done := f.done
	f.mu.Unlock()

	log.Printf("[Network] Conectado a %s", f.url)
	go f.readLoop(conn, done)
	return nil
}

func (f *Feed) IsConnected() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.connected
}

// Done fecha quando a conexão atual termina.
func (f *Feed) Done() <-chan struct{} {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.done
}

// RequestRegion pede ao servidor as colunas ao redor de center.
func (f *Feed) RequestRegion(center util.ColumnCoord, radius int32) error {
	req := &tvnet.RegionRequest{CenterX: center.X, CenterZ: center.Z, Radius: radius}
	return f.Send(tvnet.TypeRequestRegion, req.Marshal())
}

// Send envia uma mensagem embrulhada num Envelope.
func (f *Feed) Send(t tvnet.MessageType, payload []byte) error {
	f.mu.RLock()
	conn, connected := f.conn, f.connected
	f.mu.RUnlock()
	if !connected {
		return ErrNotConnected
	}

	env := &tvnet.Envelope{Type: t, Payload: payload}

	f.writeMu.Lock()
	err := conn.WriteMessage(websocket.BinaryMessage, env.Marshal())
	f.writeMu.Unlock()

	if err != nil {
		return fmt.Errorf("envio de %v: %w", t, err)
	}
	return nil
}

// Close encerra a conexão e espera o loop de leitura terminar.
func (f *Feed) Close() error {
	f.mu.RLock()
	conn, done, connected := f.conn, f.done, f.connected
	f.mu.RUnlock()
	if conn == nil {
		return nil
	}
	if !connected {
		// o loop de leitura já fechou a conexão
		<-done
		return nil
	}

	f.writeMu.Lock()
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	f.writeMu.Unlock()

	err := conn.Close()
	<-done
	return err
}

func (f *Feed) readLoop(conn *websocket.Conn, done chan struct{}) {
	defer func() {
		f.mu.Lock()
		f.connected = false
		f.mu.Unlock()
		conn.Close()
		close(done)
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				log.Printf("[Network] Conexão encerrada pelo servidor")
			} else {
				log.Printf("[Network] Conexão perdida: %v", err)
			}
			return
		}

		var env tvnet.Envelope
		if err := env.Unmarshal(message); err != nil {
			log.Printf("[Network] Erro ao desempacotar envelope: %v", err)
			continue
		}

		if err := f.handleMessage(&env); err != nil {
			log.Printf("[Network] Mensagem %v descartada: %v", env.Type, err)
		}
	}
}

func (f *Feed) handleMessage(env *tvnet.Envelope) error {
	switch env.Type {
	case tvnet.TypeColumn:
		var msg tvnet.ColumnMessage
		if err := msg.Unmarshal(env.Payload); err != nil {
			return err
		}
		col, err := world.FromMessage(&msg)
		if err != nil {
			return err
		}
		f.store.ApplyColumn(col)

	case tvnet.TypeUnload:
		var msg tvnet.UnloadMessage
		if err := msg.Unmarshal(env.Payload); err != nil {
			return err
		}
		f.store.UnloadColumn(util.ColumnCoord{X: msg.X, Z: msg.Z})

	case tvnet.TypeBlockChange:
		var msg tvnet.BlockChangeMessage
		if err := msg.Unmarshal(env.Payload); err != nil {
			return err
		}
		f.store.SetBlock(util.Vector3i{X: msg.X, Y: msg.Y, Z: msg.Z}, block.Ref(msg.Ref))

	case tvnet.TypeStatus:
		var msg tvnet.StatusMessage
		if err := msg.Unmarshal(env.Payload); err != nil {
			return err
		}
		log.Printf("[Network] Status do servidor: %s", msg.Message)
		if f.OnStatus != nil {
			f.OnStatus(msg.Message)
		}

	default:
		return fmt.Errorf("tipo desconhecido")
	}
	return nil
}
