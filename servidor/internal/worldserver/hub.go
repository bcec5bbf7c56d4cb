package worldserver

import (
	"log"
	"sync"

	"TerraVision/shared/proto/tvnet"
	"TerraVision/shared/util"

	"github.com/gorilla/websocket"
)

// peer é um cliente conectado e as colunas que ele já recebeu.
type peer struct {
	conn    *websocket.Conn
	writeMu sync.Mutex // apenas uma goroutine escreve no websocket por vez

	mu   sync.Mutex
	sent map[util.ColumnCoord]struct{}
}

func (p *peer) write(t tvnet.MessageType, payload []byte) error {
	env := tvnet.Envelope{Type: t, Payload: payload}
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	return p.conn.WriteMessage(websocket.BinaryMessage, env.Marshal())
}

func (p *peer) hasColumn(coord util.ColumnCoord) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.sent[coord]
	return ok
}

// blockUpdate é uma mudança de bloco a ser repassada para quem tem a coluna.
type blockUpdate struct {
	column  util.ColumnCoord
	payload []byte
}

// Hub gerencia as conexões WebSocket ativas.
type Hub struct {
	clients    map[*websocket.Conn]*peer
	broadcast  chan blockUpdate
	register   chan *peer
	unregister chan *websocket.Conn
	quit       chan struct{}
	mu         sync.Mutex
}

func newHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]*peer),
		broadcast:  make(chan blockUpdate, 256),
		register:   make(chan *peer),
		unregister: make(chan *websocket.Conn),
		quit:       make(chan struct{}),
	}
}

func (h *Hub) run() {
	for {
		select {
		case <-h.quit:
			h.mu.Lock()
			for conn := range h.clients {
				conn.Close()
			}
			h.clients = make(map[*websocket.Conn]*peer)
			h.mu.Unlock()
			return

		case p := <-h.register:
			h.mu.Lock()
			h.clients[p.conn] = p
			h.mu.Unlock()
			log.Printf("[Hub] Cliente registrado: %s", p.conn.RemoteAddr())

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
				log.Printf("[Hub] Cliente desregistrado: %s", conn.RemoteAddr())
			}
			h.mu.Unlock()

		case update := <-h.broadcast:
			// lista feita sob o lock, escrita fora dele
			for _, p := range h.peers() {
				if !p.hasColumn(update.column) {
					continue
				}
				if err := p.write(tvnet.TypeBlockChange, update.payload); err != nil {
					log.Printf("[Hub] Erro ao enviar para %s: %v", p.conn.RemoteAddr(), err)
					h.mu.Lock()
					delete(h.clients, p.conn)
					h.mu.Unlock()
					p.conn.Close()
				}
			}
		}
	}
}

func (h *Hub) peers() []*peer {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*peer, 0, len(h.clients))
	for _, p := range h.clients {
		out = append(out, p)
	}
	return out
}

// Len retorna quantos clientes estão conectados.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// safeSend evita bloquear para sempre quando o hub já parou.
func (h *Hub) safeSend(update blockUpdate) {
	select {
	case h.broadcast <- update:
	case <-h.quit:
	}
}
