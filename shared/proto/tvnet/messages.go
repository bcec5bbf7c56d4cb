// Package tvnet define as mensagens trocadas entre o cliente e o servidor de
// mundo. O formato é o wire format do protobuf, montado à mão com protowire.
package tvnet

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// SectionVolume é o número de blocos de uma seção (16³).
const SectionVolume = 16 * 16 * 16

// MessageType identifica o conteúdo de um Envelope.
type MessageType uint32

const (
	TypeColumn MessageType = iota + 1
	TypeUnload
	TypeBlockChange
	TypeRequestRegion
	TypeStatus
)

func (t MessageType) String() string {
	switch t {
	case TypeColumn:
		return "COLUMN"
	case TypeUnload:
		return "UNLOAD"
	case TypeBlockChange:
		return "BLOCK_CHANGE"
	case TypeRequestRegion:
		return "REQUEST_REGION"
	case TypeStatus:
		return "STATUS"
	}
	return fmt.Sprintf("TYPE_%d", uint32(t))
}

// Envelope embrulha toda mensagem enviada pelo websocket.
type Envelope struct {
	Type    MessageType
	Payload []byte
}

// ColumnMessage traz uma coluna completa. Seções ausentes são só ar.
type ColumnMessage struct {
	X, Z     int32
	Sections []Section
}

// Section são os 4096 blocos de um chunk, na ordem y, z, x.
type Section struct {
	Y      int32
	Blocks []uint32
}

// UnloadMessage pede para o cliente esquecer uma coluna.
type UnloadMessage struct {
	X, Z int32
}

// BlockChangeMessage troca um único bloco.
type BlockChangeMessage struct {
	X, Y, Z int32
	Ref     uint32
}

// RegionRequest pede as colunas num raio (em colunas) ao redor do centro.
type RegionRequest struct {
	CenterX, CenterZ int32
	Radius           int32
}

// StatusMessage é um aviso textual do servidor.
type StatusMessage struct {
	Message string
}

// ---------- ENCODE ----------

func appendSint(b []byte, num protowire.Number, v int32) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeZigZag(int64(v)))
}

func appendUint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func (e *Envelope) Marshal() []byte {
	b := appendUint(nil, 1, uint64(e.Type))
	if len(e.Payload) > 0 {
		b = appendBytes(b, 2, e.Payload)
	}
	return b
}

func (m *ColumnMessage) Marshal() []byte {
	b := appendSint(nil, 1, m.X)
	b = appendSint(b, 2, m.Z)
	for _, s := range m.Sections {
		b = appendBytes(b, 3, s.marshal())
	}
	return b
}

// Os blocos vão como pares (ref, repetições): seções costumam ter longas
// sequências do mesmo bloco.
func (s *Section) marshal() []byte {
	b := appendSint(nil, 1, s.Y)

	var runs []byte
	for i := 0; i < len(s.Blocks); {
		j := i + 1
		for j < len(s.Blocks) && s.Blocks[j] == s.Blocks[i] {
			j++
		}
		runs = protowire.AppendVarint(runs, uint64(s.Blocks[i]))
		runs = protowire.AppendVarint(runs, uint64(j-i))
		i = j
	}
	return appendBytes(b, 2, runs)
}

func (m *UnloadMessage) Marshal() []byte {
	b := appendSint(nil, 1, m.X)
	return appendSint(b, 2, m.Z)
}

func (m *BlockChangeMessage) Marshal() []byte {
	b := appendSint(nil, 1, m.X)
	b = appendSint(b, 2, m.Y)
	b = appendSint(b, 3, m.Z)
	return appendUint(b, 4, uint64(m.Ref))
}

func (m *RegionRequest) Marshal() []byte {
	b := appendSint(nil, 1, m.CenterX)
	b = appendSint(b, 2, m.CenterZ)
	return appendSint(b, 3, m.Radius)
}

func (m *StatusMessage) Marshal() []byte {
	if m.Message == "" {
		return nil
	}
	b := protowire.AppendTag(nil, 1, protowire.BytesType)
	return protowire.AppendString(b, m.Message)
}

// ---------- DECODE ----------

type field struct {
	num    protowire.Number
	varint uint64
	bytes  []byte
}

func (f field) sint() int32 {
	return int32(protowire.DecodeZigZag(f.varint))
}

// readFields percorre os campos conhecidos (varint e bytes). Outros tipos são pulados.
func readFields(data []byte, fn func(f field) error) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]

		f := field{num: num}
		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			f.varint = v
			data = data[n:]
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			f.bytes = v
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			data = data[n:]
			continue
		}

		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

func (e *Envelope) Unmarshal(data []byte) error {
	return readFields(data, func(f field) error {
		switch f.num {
		case 1:
			e.Type = MessageType(f.varint)
		case 2:
			e.Payload = f.bytes
		}
		return nil
	})
}

func (m *ColumnMessage) Unmarshal(data []byte) error {
	return readFields(data, func(f field) error {
		switch f.num {
		case 1:
			m.X = f.sint()
		case 2:
			m.Z = f.sint()
		case 3:
			var s Section
			if err := s.unmarshal(f.bytes); err != nil {
				return fmt.Errorf("seção %d: %w", len(m.Sections), err)
			}
			m.Sections = append(m.Sections, s)
		}
		return nil
	})
}

func (s *Section) unmarshal(data []byte) error {
	var runs []byte
	err := readFields(data, func(f field) error {
		switch f.num {
		case 1:
			s.Y = f.sint()
		case 2:
			runs = f.bytes
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.Blocks = make([]uint32, 0, SectionVolume)
	for len(runs) > 0 {
		ref, n := protowire.ConsumeVarint(runs)
		if n < 0 {
			return protowire.ParseError(n)
		}
		runs = runs[n:]
		count, n := protowire.ConsumeVarint(runs)
		if n < 0 {
			return protowire.ParseError(n)
		}
		runs = runs[n:]
		if count == 0 || uint64(len(s.Blocks))+count > SectionVolume {
			return fmt.Errorf("sequência inválida de %d blocos", count)
		}
		for i := uint64(0); i < count; i++ {
			s.Blocks = append(s.Blocks, uint32(ref))
		}
	}
	if len(s.Blocks) != SectionVolume {
		return fmt.Errorf("seção com %d blocos, esperado %d", len(s.Blocks), SectionVolume)
	}
	return nil
}

func (m *UnloadMessage) Unmarshal(data []byte) error {
	return readFields(data, func(f field) error {
		switch f.num {
		case 1:
			m.X = f.sint()
		case 2:
			m.Z = f.sint()
		}
		return nil
	})
}

func (m *BlockChangeMessage) Unmarshal(data []byte) error {
	return readFields(data, func(f field) error {
		switch f.num {
		case 1:
			m.X = f.sint()
		case 2:
			m.Y = f.sint()
		case 3:
			m.Z = f.sint()
		case 4:
			m.Ref = uint32(f.varint)
		}
		return nil
	})
}

func (m *RegionRequest) Unmarshal(data []byte) error {
	return readFields(data, func(f field) error {
		switch f.num {
		case 1:
			m.CenterX = f.sint()
		case 2:
			m.CenterZ = f.sint()
		case 3:
			m.Radius = f.sint()
		}
		return nil
	})
}

func (m *StatusMessage) Unmarshal(data []byte) error {
	return readFields(data, func(f field) error {
		if f.num == 1 {
			m.Message = string(f.bytes)
		}
		return nil
	})
}
