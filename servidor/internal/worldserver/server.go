// Package worldserver serve as colunas do mundo por websocket: carrega do cache
// SQLite ou gera com o terreno, e repassa mudanças de bloco aos clientes.
package worldserver

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"sync"

	"TerraVision/servidor/internal/terrain"
	"TerraVision/shared/block"
	"TerraVision/shared/proto/tvnet"
	"TerraVision/shared/util"
	"TerraVision/shared/world"

	"github.com/gorilla/websocket"
)

// MaxRadius limita o raio de um pedido de região, em colunas.
const MaxRadius = 16

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server é o servidor de mundo.
type Server struct {
	store  *world.Store
	cache  *world.ColumnCache
	gen    *terrain.Generator
	blocks *block.Registry
	hub    *Hub
	Name   string

	loadMu sync.Mutex // carregar-ou-gerar e mudanças de bloco
	once   sync.Once
}

// New cria o servidor. cache pode ser nil (mundo só em memória).
func New(blocks *block.Registry, gen *terrain.Generator, cache *world.ColumnCache) *Server {
	s := &Server{
		store:  world.NewStore(),
		cache:  cache,
		gen:    gen,
		blocks: blocks,
		hub:    newHub(),
		Name:   "TerraVision",
	}
	go s.hub.run()
	return s
}

// Store expõe o mundo carregado.
func (s *Server) Store() *world.Store {
	return s.store
}

// Clients retorna quantos clientes estão conectados.
func (s *Server) Clients() int {
	return s.hub.Len()
}

// Handler monta as rotas HTTP do servidor.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWs)
	mux.HandleFunc("/block", s.serveBlock)
	return mux
}

// Save grava as colunas alteradas no cache.
func (s *Server) Save() (int, error) {
	if s.cache == nil {
		return 0, nil
	}
	return s.store.Save(s.cache)
}

// Close desconecta todos os clientes. Pode ser chamado mais de uma vez.
func (s *Server) Close() {
	s.once.Do(func() { close(s.hub.quit) })
}

// serveWs maneja requisições websocket do peer.
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Erro no upgrade do WebSocket: %v", err)
		return
	}

	p := &peer{conn: conn, sent: make(map[util.ColumnCoord]struct{})}
	select {
	case s.hub.register <- p:
	case <-s.hub.quit:
		conn.Close()
		return
	}

	status := tvnet.StatusMessage{Message: fmt.Sprintf("Conectado ao servidor %s", s.Name)}
	if err := p.write(tvnet.TypeStatus, status.Marshal()); err != nil {
		log.Printf("[WS] Erro ao enviar status: %v", err)
	}

	go func() {
		defer func() {
			select {
			case s.hub.unregister <- conn:
			case <-s.hub.quit:
			}
		}()

		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Printf("[WS] Erro ao ler mensagem: %v", err)
				}
				return
			}

			var env tvnet.Envelope
			if err := env.Unmarshal(message); err != nil {
				log.Printf("[WS] Erro ao desempacotar envelope: %v", err)
				continue
			}
			if err := s.handleClientMessage(p, &env); err != nil {
				log.Printf("[WS] %s: %v", env.Type, err)
			}
		}
	}()
}

func (s *Server) handleClientMessage(p *peer, env *tvnet.Envelope) error {
	switch env.Type {
	case tvnet.TypeRequestRegion:
		var req tvnet.RegionRequest
		if err := req.Unmarshal(env.Payload); err != nil {
			return err
		}
		return s.streamRegion(p, &req)
	default:
		return fmt.Errorf("mensagem inesperada do cliente")
	}
}

// streamRegion envia as colunas do raio que o cliente ainda não tem, da mais
// próxima para a mais distante, e descarrega as que ficaram a mais de radius+1.
func (s *Server) streamRegion(p *peer, req *tvnet.RegionRequest) error {
	radius := req.Radius
	if radius < 0 {
		radius = 0
	}
	if radius > MaxRadius {
		radius = MaxRadius
	}
	center := util.ColumnCoord{X: req.CenterX, Z: req.CenterZ}

	var wanted []util.ColumnCoord
	for dz := -radius; dz <= radius; dz++ {
		for dx := -radius; dx <= radius; dx++ {
			wanted = append(wanted, util.ColumnCoord{X: center.X + dx, Z: center.Z + dz})
		}
	}
	sort.SliceStable(wanted, func(i, j int) bool {
		return columnDistSq(wanted[i], center) < columnDistSq(wanted[j], center)
	})

	sent := 0
	for _, coord := range wanted {
		ok, err := s.sendColumn(p, coord)
		if err != nil {
			return err
		}
		if ok {
			sent++
		}
	}

	p.mu.Lock()
	var stale []util.ColumnCoord
	for coord := range p.sent {
		if util.Abs(coord.X-center.X) > radius+1 || util.Abs(coord.Z-center.Z) > radius+1 {
			stale = append(stale, coord)
			delete(p.sent, coord)
		}
	}
	p.mu.Unlock()

	for _, coord := range stale {
		msg := tvnet.UnloadMessage{X: coord.X, Z: coord.Z}
		if err := p.write(tvnet.TypeUnload, msg.Marshal()); err != nil {
			return err
		}
	}

	if sent > 0 || len(stale) > 0 {
		log.Printf("[WS] Streaming → %d colunas enviadas, %d descarregadas (centro %v)", sent, len(stale), center)
	}
	return nil
}

func columnDistSq(a, b util.ColumnCoord) int32 {
	dx, dz := a.X-b.X, a.Z-b.Z
	return dx*dx + dz*dz
}

// sendColumn envia a coluna se o cliente ainda não a tem. Tudo acontece sob
// loadMu para que uma mudança de bloco nunca chegue antes da própria coluna.
func (s *Server) sendColumn(p *peer, coord util.ColumnCoord) (bool, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if p.hasColumn(coord) {
		return false, nil
	}
	col, err := s.column(coord)
	if err != nil {
		return false, err
	}
	if err := p.write(tvnet.TypeColumn, world.ToMessage(col).Marshal()); err != nil {
		return false, err
	}
	p.mu.Lock()
	p.sent[coord] = struct{}{}
	p.mu.Unlock()
	return true, nil
}

// column retorna uma cópia da coluna: da memória, do cache ou recém-gerada.
// Exige loadMu.
func (s *Server) column(coord util.ColumnCoord) (*world.Column, error) {
	if col, ok := s.store.Snapshot(coord); ok {
		return col, nil
	}

	switch {
	case s.cache != nil && s.loadCached(coord):
	case s.gen != nil:
		s.store.ApplyColumn(s.gen.Column(coord))
	default:
		return nil, fmt.Errorf("coluna %v não existe e não há gerador", coord)
	}
	col, _ := s.store.Snapshot(coord)
	return col, nil
}

func (s *Server) loadCached(coord util.ColumnCoord) bool {
	col, err := s.cache.LoadColumn(coord)
	if err != nil {
		return false
	}
	s.store.ApplyStored(col)
	return true
}

// BlockRequest é o corpo de POST /block.
type BlockRequest struct {
	X   int32  `json:"x"`
	Y   int32  `json:"y"`
	Z   int32  `json:"z"`
	Ref uint32 `json:"ref"`
}

// serveBlock troca um bloco do mundo e repassa a mudança aos clientes.
func (s *Server) serveBlock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "use POST", http.StatusMethodNotAllowed)
		return
	}

	var req BlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.SetBlock(util.Vector3i{X: req.X, Y: req.Y, Z: req.Z}, block.Ref(req.Ref)); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetBlock troca um bloco, carregando a coluna se preciso, e avisa os clientes
// que já receberam aquela coluna.
func (s *Server) SetBlock(pos util.Vector3i, ref block.Ref) error {
	if pos.Y < 0 || pos.Y >= util.ColumnHeight {
		return fmt.Errorf("altura %d fora do mundo", pos.Y)
	}
	if s.blocks.Get(ref) == nil {
		return fmt.Errorf("bloco %d desconhecido", ref)
	}

	coord := util.ColumnOf(pos)
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	if _, err := s.column(coord); err != nil {
		return err
	}
	s.store.SetBlock(pos, ref)

	msg := tvnet.BlockChangeMessage{X: pos.X, Y: pos.Y, Z: pos.Z, Ref: uint32(ref)}
	s.hub.safeSend(blockUpdate{column: coord, payload: msg.Marshal()})
	return nil
}
