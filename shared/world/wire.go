package world

import (
	"fmt"

	"TerraVision/shared/block"
	"TerraVision/shared/proto/tvnet"
	"TerraVision/shared/util"
)

// FromMessage monta uma coluna a partir da mensagem de rede.
func FromMessage(msg *tvnet.ColumnMessage) (*Column, error) {
	col := NewColumn(util.ColumnCoord{X: msg.X, Z: msg.Z})
	for _, s := range msg.Sections {
		if s.Y < 0 || s.Y >= util.ChunksPerColumn {
			return nil, fmt.Errorf("coluna %v: seção %d fora do mundo", col.Coord, s.Y)
		}
		if len(s.Blocks) != util.ChunkVolume {
			return nil, fmt.Errorf("coluna %v: seção %d com %d blocos", col.Coord, s.Y, len(s.Blocks))
		}
		data := new(ChunkData)
		for i, ref := range s.Blocks {
			data[i] = block.Ref(ref)
		}
		col.Sections[s.Y] = data
	}
	return col, nil
}

// ToMessage converte uma coluna para o formato de rede. Seções nil não são enviadas.
func ToMessage(col *Column) *tvnet.ColumnMessage {
	msg := &tvnet.ColumnMessage{X: col.Coord.X, Z: col.Coord.Z}
	for y, section := range col.Sections {
		if section == nil {
			continue
		}
		s := tvnet.Section{Y: int32(y), Blocks: make([]uint32, len(section))}
		for i, ref := range section {
			s.Blocks[i] = uint32(ref)
		}
		msg.Sections = append(msg.Sections, s)
	}
	return msg
}

// Snapshot copia a coluna carregada em coord, para ser lida fora do lock.
func (s *Store) Snapshot(coord util.ColumnCoord) (*Column, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col, ok := s.columns[coord]
	if !ok {
		return nil, false
	}
	cp := &Column{Coord: col.Coord, MTime: col.MTime}
	for i, section := range col.Sections {
		if section != nil {
			data := *section
			cp.Sections[i] = &data
		}
	}
	return cp, true
}
