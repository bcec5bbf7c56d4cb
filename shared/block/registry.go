// Package block define a identidade de um voxel (Ref) e a tabela imutável de tipos
// de bloco carregada na inicialização.
package block

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Ref é o identificador de estado de bloco vindo do servidor.
type Ref uint32

// Air é o estado vazio. Nunca gera geometria.
const Air Ref = 0

// Type descreve um estado de bloco.
type Type struct {
	ID         Ref               `json:"id"`
	Name       string            `json:"name"`
	Properties map[string]string `json:"properties,omitempty"`
	Solid      bool              `json:"solid"`
}

// PropertyKey monta a chave "k=v,k=v" em ordem alfabética, usada na seleção de variantes.
func (t *Type) PropertyKey() string {
	if len(t.Properties) == 0 {
		return ""
	}
	keys := make([]string, 0, len(t.Properties))
	for k := range t.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(t.Properties[k])
	}
	return sb.String()
}

// Registry é a tabela de tipos de bloco. Imutável depois de criada, pode ser
// compartilhada entre goroutines sem lock.
type Registry struct {
	types map[Ref]*Type
	refs  []Ref
}

// NewRegistry cria uma tabela a partir de uma lista de tipos.
// O ar é sempre registrado como não sólido.
func NewRegistry(types []Type) (*Registry, error) {
	r := &Registry{types: make(map[Ref]*Type, len(types)+1)}
	r.types[Air] = &Type{ID: Air, Name: "air"}

	for i := range types {
		t := types[i]
		if t.ID == Air {
			continue
		}
		if _, dup := r.types[t.ID]; dup {
			return nil, fmt.Errorf("bloco %d (%s) registrado duas vezes", t.ID, t.Name)
		}
		r.types[t.ID] = &t
	}

	r.refs = make([]Ref, 0, len(r.types))
	for ref := range r.types {
		r.refs = append(r.refs, ref)
	}
	sort.Slice(r.refs, func(i, j int) bool { return r.refs[i] < r.refs[j] })
	return r, nil
}

// LoadRegistry lê a tabela de um arquivo JSON (lista de Type).
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler tabela de blocos: %w", err)
	}

	var types []Type
	if err := json.Unmarshal(data, &types); err != nil {
		return nil, fmt.Errorf("erro ao decodificar %s: %w", path, err)
	}
	return NewRegistry(types)
}

// Get retorna o tipo ou nil se desconhecido.
func (r *Registry) Get(ref Ref) *Type {
	if r == nil {
		return nil
	}
	return r.types[ref]
}

// IsSolid informa se o bloco conta como sólido para oclusão ambiente.
// Refs desconhecidas contam como não sólidas.
func (r *Registry) IsSolid(ref Ref) bool {
	t := r.Get(ref)
	return t != nil && t.Solid
}

// Refs retorna todos os estados registrados em ordem crescente.
func (r *Registry) Refs() []Ref {
	return r.refs
}

// Len retorna a quantidade de estados, incluindo o ar.
func (r *Registry) Len() int {
	return len(r.types)
}

// Lookup retorna o primeiro estado (menor ref) com o nome dado cujas
// propriedades contêm todas as de props.
func (r *Registry) Lookup(name string, props map[string]string) (Ref, bool) {
	if r == nil {
		return Air, false
	}
	for _, ref := range r.refs {
		t := r.types[ref]
		if t.Name != name {
			continue
		}
		match := true
		for k, v := range props {
			if t.Properties[k] != v {
				match = false
				break
			}
		}
		if match {
			return ref, true
		}
	}
	return Air, false
}
