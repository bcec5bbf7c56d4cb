// Package world guarda as colunas de blocos recebidas do servidor e avisa os
// interessados quando chunks entram, saem ou mudam.
package world

import (
	"log"
	"sync"

	"TerraVision/shared/block"
	"TerraVision/shared/util"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ChunkData são os 16³ blocos de um chunk, índice y*256 + z*16 + x.
type ChunkData [util.ChunkVolume]block.Ref

// Index retorna a posição de (x, y, z) locais em ChunkData.
func Index(x, y, z int32) int {
	return int(y)*util.ChunkSize*util.ChunkSize + int(z)*util.ChunkSize + int(x)
}

// Column é uma pilha vertical de 16 chunks. Seções nil são inteiramente ar.
type Column struct {
	Coord    util.ColumnCoord
	Sections [util.ChunksPerColumn]*ChunkData
	MTime    int64
	IsDirty  bool
}

// NewColumn cria uma coluna vazia.
func NewColumn(coord util.ColumnCoord) *Column {
	return &Column{Coord: coord}
}

// Origin retorna a origem em blocos do chunk yIndex desta coluna.
func (c *Column) Origin(yIndex int) util.Vector3i {
	return util.Vector3i{
		X: c.Coord.X * util.ChunkSize,
		Y: int32(yIndex) * util.ChunkSize,
		Z: c.Coord.Z * util.ChunkSize,
	}
}

func (c *Column) get(pos util.Vector3i) block.Ref {
	if pos.Y < 0 || pos.Y >= util.ColumnHeight {
		return block.Air
	}
	section := c.Sections[pos.Y/util.ChunkSize]
	if section == nil {
		return block.Air
	}
	return section[Index(util.FloorMod(pos.X, util.ChunkSize), pos.Y%util.ChunkSize, util.FloorMod(pos.Z, util.ChunkSize))]
}

// Listener recebe os eventos de mudança do mundo. As chamadas acontecem fora do
// lock do Store, na goroutine que aplicou a mudança.
type Listener interface {
	NotifyChunkLoaded(origin util.Vector3i)
	NotifyColumnUnloaded(col util.ColumnCoord)
	NotifyBlockChanged(pos util.Vector3i, newRef, oldRef block.Ref)
}

// BlockSource é qualquer coisa que responda qual bloco existe numa posição.
type BlockSource interface {
	GetBlock(pos util.Vector3i) block.Ref
}

// Store é o armazenamento de colunas do cliente.
type Store struct {
	mu       sync.RWMutex
	columns  map[util.ColumnCoord]*Column
	listener Listener
}

// NewStore cria um armazenamento vazio.
func NewStore() *Store {
	return &Store{columns: make(map[util.ColumnCoord]*Column)}
}

// SetListener registra quem será avisado das mudanças.
func (s *Store) SetListener(l Listener) {
	s.mu.Lock()
	s.listener = l
	s.mu.Unlock()
}

func (s *Store) getListener() Listener {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listener
}

// GetBlock retorna o bloco numa posição global. Colunas ausentes são ar.
func (s *Store) GetBlock(pos util.Vector3i) block.Ref {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col, ok := s.columns[util.ColumnOf(pos)]
	if !ok {
		return block.Air
	}
	return col.get(pos)
}

// HasColumn informa se a coluna está carregada.
func (s *Store) HasColumn(coord util.ColumnCoord) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.columns[coord]
	return ok
}

// ColumnCoords retorna as colunas carregadas em ordem (X, depois Z).
func (s *Store) ColumnCoords() []util.ColumnCoord {
	s.mu.RLock()
	keys := maps.Keys(s.columns)
	s.mu.RUnlock()

	slices.SortFunc(keys, func(a, b util.ColumnCoord) int {
		if a.X != b.X {
			return int(a.X - b.X)
		}
		return int(a.Z - b.Z)
	})
	return keys
}

// Len retorna o número de colunas carregadas.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.columns)
}

// ApplyColumn substitui (ou cria) uma coluna inteira e avisa um carregamento por
// seção presente.
func (s *Store) ApplyColumn(col *Column) {
	s.apply(col, true)
}

// ApplyStored aplica uma coluna lida do disco, sem marcá-la como suja.
func (s *Store) ApplyStored(col *Column) {
	s.apply(col, false)
}

func (s *Store) apply(col *Column, dirty bool) {
	s.mu.Lock()
	if dirty {
		col.IsDirty = true
		col.MTime++
	}
	prev := s.columns[col.Coord]
	s.columns[col.Coord] = col
	listener := s.listener
	s.mu.Unlock()

	if listener == nil {
		return
	}
	// seções que sumiram numa substituição também precisam ser avisadas
	for y, section := range col.Sections {
		if section != nil || (prev != nil && prev.Sections[y] != nil) {
			listener.NotifyChunkLoaded(col.Origin(y))
		}
	}
}

// UnloadColumn remove a coluna e avisa o listener.
func (s *Store) UnloadColumn(coord util.ColumnCoord) {
	s.mu.Lock()
	_, ok := s.columns[coord]
	delete(s.columns, coord)
	listener := s.listener
	s.mu.Unlock()

	if !ok {
		return
	}
	if listener != nil {
		listener.NotifyColumnUnloaded(coord)
	}
}

// SetBlock troca um bloco e avisa o listener. Posições fora de colunas carregadas
// são ignoradas.
func (s *Store) SetBlock(pos util.Vector3i, ref block.Ref) {
	if pos.Y < 0 || pos.Y >= util.ColumnHeight {
		return
	}

	s.mu.Lock()
	col, ok := s.columns[util.ColumnOf(pos)]
	if !ok {
		s.mu.Unlock()
		log.Printf("[World] Mudança de bloco fora de coluna carregada: %v", pos)
		return
	}

	idx := pos.Y / util.ChunkSize
	section := col.Sections[idx]
	if section == nil {
		if ref == block.Air {
			s.mu.Unlock()
			return
		}
		section = new(ChunkData)
		col.Sections[idx] = section
	}

	i := Index(util.FloorMod(pos.X, util.ChunkSize), pos.Y%util.ChunkSize, util.FloorMod(pos.Z, util.ChunkSize))
	old := section[i]
	section[i] = ref
	col.IsDirty = true
	col.MTime++
	listener := s.listener
	s.mu.Unlock()

	if listener != nil && old != ref {
		listener.NotifyBlockChanged(pos, ref, old)
	}
}

// View executa fn com o lock de leitura mantido, para que várias leituras vejam
// o mesmo estado do mundo.
func (s *Store) View(fn func(v *View)) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := &View{columns: s.columns}
	fn(v)
}

// View é uma leitura consistente do Store, válida só dentro de Store.View.
type View struct {
	columns map[util.ColumnCoord]*Column

	// último acesso: a construção de um snapshot lê quase sempre a mesma coluna
	lastCoord util.ColumnCoord
	last      *Column
	hasLast   bool
}

// HasColumn informa se a coluna está carregada.
func (v *View) HasColumn(coord util.ColumnCoord) bool {
	_, ok := v.columns[coord]
	return ok
}

// GetBlock implementa BlockSource.
func (v *View) GetBlock(pos util.Vector3i) block.Ref {
	coord := util.ColumnOf(pos)
	if !v.hasLast || coord != v.lastCoord {
		v.last = v.columns[coord]
		v.lastCoord = coord
		v.hasLast = true
	}
	if v.last == nil {
		return block.Air
	}
	return v.last.get(pos)
}

// dirtyColumns copia as colunas sujas para salvar fora do lock.
func (s *Store) dirtyColumns() []*Column {
	s.mu.Lock()
	defer s.mu.Unlock()

	var dirty []*Column
	for _, col := range s.columns {
		if !col.IsDirty {
			continue
		}
		cp := &Column{Coord: col.Coord, MTime: col.MTime}
		for i, section := range col.Sections {
			if section != nil {
				data := *section
				cp.Sections[i] = &data
			}
		}
		col.IsDirty = false
		dirty = append(dirty, cp)
	}
	return dirty
}
