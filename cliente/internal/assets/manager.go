package assets

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"path"
	"strings"

	"TerraVision/shared/block"
	"TerraVision/shared/util"

	"github.com/go-gl/mathgl/mgl32"
)

// --- Estruturas JSON ---

type faceJSON struct {
	Texture   string    `json:"texture"`
	UV        []float32 `json:"uv,omitempty"`
	CullFace  string    `json:"cullface,omitempty"`
	TintIndex *int      `json:"tintindex,omitempty"`
}

type rotationJSON struct {
	Origin  []float32 `json:"origin"`
	Axis    string    `json:"axis"`
	Angle   float32   `json:"angle"`
	Rescale bool      `json:"rescale"`
}

type elementJSON struct {
	From     []float32           `json:"from"`
	To       []float32           `json:"to"`
	Shade    *bool               `json:"shade,omitempty"`
	Rotation *rotationJSON       `json:"rotation,omitempty"`
	Faces    map[string]faceJSON `json:"faces"`
}

type modelJSON struct {
	Parent   string            `json:"parent,omitempty"`
	Textures map[string]string `json:"textures,omitempty"`
	Elements []elementJSON     `json:"elements,omitempty"`
}

type variantJSON struct {
	Model string  `json:"model"`
	X     float32 `json:"x,omitempty"`
	Y     float32 `json:"y,omitempty"`
}

// variantEntry aceita tanto um objeto quanto uma lista de objetos (usa o primeiro).
type variantEntry struct {
	variantJSON
}

func (v *variantEntry) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var list []variantJSON
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		if len(list) > 0 {
			v.variantJSON = list[0]
		}
		return nil
	}
	return json.Unmarshal(data, &v.variantJSON)
}

type blockStateJSON struct {
	Variants map[string]variantEntry `json:"variants"`
}

// --- Cache ---

// Cache guarda modelos, texturas e a variante resolvida de cada estado de bloco.
// Depois de carregado é somente leitura e pode ser usado pelos workers de meshing.
type Cache struct {
	registry *block.Registry
	textures *TextureArray
	models   map[string]*Model
	variants map[block.Ref]*Variant
}

// LoadCache carrega todos os assets de fsys:
//
//	models/block/*.json   modelos (com herança por "parent")
//	blockstates/*.json    variantes por nome de bloco
//	textures/block/*.png  texturas 16x16
func LoadCache(fsys fs.FS, registry *block.Registry) (*Cache, error) {
	c := &Cache{
		registry: registry,
		textures: NewTextureArray(),
		models:   make(map[string]*Model),
		variants: make(map[block.Ref]*Variant),
	}

	loader := &modelLoader{fsys: fsys, raw: make(map[string]*modelJSON), textures: c.textures}

	files, err := fs.Glob(fsys, "models/block/*.json")
	if err != nil {
		return nil, fmt.Errorf("falha ao listar modelos: %w", err)
	}
	for _, file := range files {
		name := "block/" + strings.TrimSuffix(path.Base(file), ".json")
		model, err := loader.resolve(name)
		if err != nil {
			log.Printf("[Assets] Modelo %s ignorado: %v", name, err)
			continue
		}
		c.models[name] = model
	}
	if len(c.models) == 0 {
		return nil, fmt.Errorf("nenhum modelo de bloco encontrado")
	}

	// Folhas no modo "fancy" não usam cullface.
	for name, model := range c.models {
		if !strings.Contains(name, "leaves") {
			continue
		}
		for i := range model.Elements {
			for _, face := range model.Elements[i].Faces {
				if face != nil {
					face.CullFace = util.FaceNone
				}
			}
		}
	}

	c.loadVariants(fsys)

	log.Printf("[Assets] %d modelos, %d texturas, %d variantes carregadas", len(c.models), c.textures.Len(), len(c.variants))
	return c, nil
}

// GetVariant retorna a variante do estado de bloco, ou nil se não houver modelo.
func (c *Cache) GetVariant(ref block.Ref) *Variant {
	return c.variants[ref]
}

// IsTransparent informa se a textura tem algum pixel com alpha < 255.
func (c *Cache) IsTransparent(h TextureHandle) bool {
	return c.textures.IsTransparent(h)
}

// Textures retorna o texture array para upload.
func (c *Cache) Textures() *TextureArray {
	return c.textures
}

// Model retorna um modelo pelo caminho ("block/stone").
func (c *Cache) Model(name string) *Model {
	return c.models[normalizeModelPath(name)]
}

func (c *Cache) loadVariants(fsys fs.FS) {
	states := make(map[string]*blockStateJSON)

	for _, ref := range c.registry.Refs() {
		typ := c.registry.Get(ref)
		if ref == block.Air || typ == nil {
			continue
		}

		name := strings.TrimPrefix(typ.Name, "minecraft:")
		bs, ok := states[name]
		if !ok {
			data, err := fs.ReadFile(fsys, "blockstates/"+name+".json")
			if err == nil {
				bs = &blockStateJSON{}
				if err := json.Unmarshal(data, bs); err != nil {
					log.Printf("[Assets] Erro ao ler blockstate %s: %v", name, err)
					bs = nil
				}
			}
			states[name] = bs
		}
		if bs == nil {
			continue
		}

		entry := selectVariant(bs.Variants, typ.PropertyKey())
		if entry == nil {
			continue
		}
		model := c.models[normalizeModelPath(entry.Model)]
		if model == nil {
			log.Printf("[Assets] Modelo %s não encontrado para %s", entry.Model, typ.Name)
			continue
		}
		c.variants[ref] = &Variant{
			Model:    model,
			Rotation: mgl32.Vec3{entry.X, entry.Y, 0},
		}
	}
}

// --- Seleção de variantes ---

// selectVariant escolhe a chave de variante mais específica que casa com as
// propriedades do estado ("axis=y,snowy=false").
func selectVariant(variants map[string]variantEntry, props string) *variantJSON {
	var best *variantJSON
	bestScore := -1
	bestKey := ""

	for key, entry := range variants {
		if !matchToken(key, props) {
			continue
		}
		score := specificityScore(key)
		// Empate: menor chave vence, para o resultado não depender da ordem do map.
		if score > bestScore || (score == bestScore && key < bestKey) {
			e := entry.variantJSON
			best = &e
			bestScore = score
			bestKey = key
		}
	}
	return best
}

// matchToken compara a chave de variante contra as propriedades do estado.
// Cada segmento "k=v" do padrão precisa existir no estado; "k=*" aceita qualquer
// valor. Padrão vazio ou "normal" aceita tudo.
func matchToken(pattern, props string) bool {
	if pattern == "" || pattern == "normal" || pattern == "*" {
		return true
	}

	have := make(map[string]string)
	if props != "" {
		for _, seg := range strings.Split(props, ",") {
			k, v, _ := strings.Cut(seg, "=")
			have[k] = v
		}
	}

	for _, seg := range strings.Split(pattern, ",") {
		k, v, _ := strings.Cut(seg, "=")
		got, ok := have[k]
		if !ok {
			return false
		}
		if v != "*" && v != got {
			return false
		}
	}
	return true
}

// specificityScore conta os segmentos sem wildcard.
func specificityScore(pattern string) int {
	if pattern == "" || pattern == "normal" || pattern == "*" {
		return 0
	}
	score := 0
	for _, seg := range strings.Split(pattern, ",") {
		if _, v, _ := strings.Cut(seg, "="); v != "*" {
			score++
		}
	}
	return score
}

// --- Resolução de modelos ---

func normalizeModelPath(name string) string {
	name = strings.TrimPrefix(name, "minecraft:")
	if !strings.Contains(name, "/") {
		name = "block/" + name
	}
	return name
}

type modelLoader struct {
	fsys     fs.FS
	raw      map[string]*modelJSON
	textures *TextureArray
}

func (l *modelLoader) read(name string) (*modelJSON, error) {
	if m, ok := l.raw[name]; ok {
		return m, nil
	}
	data, err := fs.ReadFile(l.fsys, "models/"+name+".json")
	if err != nil {
		return nil, err
	}
	m := &modelJSON{}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("falha ao parsear %s: %w", name, err)
	}
	l.raw[name] = m
	return m, nil
}

// resolve segue a cadeia de parents: texturas do filho sobrescrevem as do pai, e
// o primeiro modelo da cadeia que declara elementos fornece os elementos.
func (l *modelLoader) resolve(name string) (*Model, error) {
	textureMap := make(map[string]string)
	var elements []elementJSON

	var chain []*modelJSON
	current := normalizeModelPath(name)
	for depth := 0; current != ""; depth++ {
		if depth > 32 {
			return nil, fmt.Errorf("cadeia de parent muito longa em %s", name)
		}
		m, err := l.read(current)
		if err != nil {
			return nil, err
		}
		chain = append(chain, m)
		if m.Parent == "" {
			break
		}
		current = normalizeModelPath(m.Parent)
	}

	for i := len(chain) - 1; i >= 0; i-- {
		for k, v := range chain[i].Textures {
			textureMap[k] = v
		}
	}
	for _, m := range chain {
		if len(m.Elements) > 0 {
			elements = m.Elements
			break
		}
	}

	model := &Model{Name: name, Elements: make([]Element, 0, len(elements))}
	for _, ej := range elements {
		el, err := l.buildElement(ej, textureMap)
		if err != nil {
			return nil, err
		}
		model.Elements = append(model.Elements, el)
	}
	return model, nil
}

func vec3FromJSON(v []float32) mgl32.Vec3 {
	var out mgl32.Vec3
	for i := 0; i < 3 && i < len(v); i++ {
		out[i] = v[i] / 16
	}
	return out
}

func (l *modelLoader) buildElement(ej elementJSON, textureMap map[string]string) (Element, error) {
	el := Element{
		From:  vec3FromJSON(ej.From),
		To:    vec3FromJSON(ej.To),
		Shade: ej.Shade == nil || *ej.Shade,
	}

	if ej.Rotation != nil {
		rot := &ElementRotation{
			Origin:  vec3FromJSON(ej.Rotation.Origin),
			Angle:   ej.Rotation.Angle,
			Rescale: ej.Rotation.Rescale,
		}
		switch ej.Rotation.Axis {
		case "x":
			rot.Axis = AxisX
		case "y":
			rot.Axis = AxisY
		case "z":
			rot.Axis = AxisZ
		default:
			return el, fmt.Errorf("eixo de rotação inválido %q", ej.Rotation.Axis)
		}
		el.Rotation = rot
	}

	for faceName, fj := range ej.Faces {
		face := util.ParseBlockFace(faceName)
		if face == util.FaceNone {
			continue
		}

		texture := fj.Texture
		for i := 0; i < 16 && strings.HasPrefix(texture, "#"); i++ {
			texture = textureMap[texture[1:]]
		}
		if texture == "" || strings.HasPrefix(texture, "#") {
			continue
		}

		handle, err := l.textures.Load(l.fsys, texture)
		if err != nil {
			log.Printf("[Assets] Textura %s indisponível: %v", texture, err)
			continue
		}

		rf := &RenderableFace{
			Face:     face,
			CullFace: util.ParseBlockFace(fj.CullFace),
			Texture:  handle,
		}
		if fj.TintIndex != nil {
			rf.TintIndex = *fj.TintIndex + 1
		}
		rf.UVFrom, rf.UVTo = faceUV(face, fj.UV, el.From, el.To)
		el.Faces[face] = rf
	}
	return el, nil
}

// faceUV usa o uv declarado (pixels 0..16) ou deriva da posição do elemento.
func faceUV(face util.BlockFace, uv []float32, from, to mgl32.Vec3) (mgl32.Vec2, mgl32.Vec2) {
	if len(uv) == 4 {
		return mgl32.Vec2{uv[0] / 16, uv[1] / 16}, mgl32.Vec2{uv[2] / 16, uv[3] / 16}
	}
	switch face {
	case util.FaceUp, util.FaceDown:
		return mgl32.Vec2{from.X(), from.Z()}, mgl32.Vec2{to.X(), to.Z()}
	case util.FaceNorth, util.FaceSouth:
		return mgl32.Vec2{from.X(), 1 - to.Y()}, mgl32.Vec2{to.X(), 1 - from.Y()}
	default:
		return mgl32.Vec2{from.Z(), 1 - to.Y()}, mgl32.Vec2{to.Z(), 1 - from.Y()}
	}
}
