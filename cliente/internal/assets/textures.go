package assets

import (
	"fmt"
	"image"
	_ "image/png"
	"io/fs"
	"sync"

	"golang.org/x/image/draw"
)

// TextureSize é o lado de cada camada do texture array.
const TextureSize = 16

// TextureArray acumula as texturas de bloco como camadas RGBA 16x16, prontas para
// upload num GL_TEXTURE_2D_ARRAY.
type TextureArray struct {
	mu          sync.RWMutex
	index       map[string]TextureHandle
	layers      [][]byte
	transparent []bool
}

// NewTextureArray cria um array vazio.
func NewTextureArray() *TextureArray {
	return &TextureArray{index: make(map[string]TextureHandle)}
}

// Load retorna a camada de "block/stone", carregando textures/block/stone.png na
// primeira vez.
func (t *TextureArray) Load(fsys fs.FS, name string) (TextureHandle, error) {
	t.mu.RLock()
	h, ok := t.index[name]
	t.mu.RUnlock()
	if ok {
		return h, nil
	}

	f, err := fsys.Open("textures/" + name + ".png")
	if err != nil {
		return 0, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return 0, fmt.Errorf("falha ao decodificar %s: %w", name, err)
	}
	return t.Append(name, img), nil
}

// Append adiciona uma imagem como nova camada. Texturas animadas (altura maior que
// a largura) usam só o primeiro quadro; tamanhos diferentes de 16 são reescalados.
func (t *TextureArray) Append(name string, img image.Image) TextureHandle {
	b := img.Bounds()
	frame := image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+b.Dx())
	if frame.Max.Y > b.Max.Y {
		frame.Max.Y = b.Max.Y
	}

	dst := image.NewNRGBA(image.Rect(0, 0, TextureSize, TextureSize))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, frame, draw.Src, nil)

	transparent := false
	for i := 3; i < len(dst.Pix); i += 4 {
		if dst.Pix[i] < 255 {
			transparent = true
			break
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if h, ok := t.index[name]; ok {
		return h
	}
	h := TextureHandle(len(t.layers))
	t.index[name] = h
	t.layers = append(t.layers, dst.Pix)
	t.transparent = append(t.transparent, transparent)
	return h
}

// IsTransparent informa se a camada tem algum pixel não opaco.
// Handles desconhecidos contam como transparentes, para nunca ocultar faces.
func (t *TextureArray) IsTransparent(h TextureHandle) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if int(h) >= len(t.transparent) {
		return true
	}
	return t.transparent[h]
}

// Handle retorna a camada de uma textura já carregada.
func (t *TextureArray) Handle(name string) (TextureHandle, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	h, ok := t.index[name]
	return h, ok
}

// Len retorna o número de camadas.
func (t *TextureArray) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.layers)
}

// Pixels concatena todas as camadas (RGBA, camada após camada).
func (t *TextureArray) Pixels() []byte {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]byte, 0, len(t.layers)*TextureSize*TextureSize*4)
	for _, layer := range t.layers {
		out = append(out, layer...)
	}
	return out
}
