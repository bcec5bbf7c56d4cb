package render

import (
	"log"

	"TerraVision/cliente/internal/meshing"
	"TerraVision/shared/block"
	"TerraVision/shared/util"
	"TerraVision/shared/world"

	"github.com/go-gl/mathgl/mgl32"
)

// GeneratorOptions controla o ritmo do pipeline de malhas.
type GeneratorOptions struct {
	Workers              int
	MaxSnapshotsPerFrame int
	// ReprioritizeDistance é o deslocamento da câmera (em blocos) a partir do
	// qual a fila de construção é reordenada. Zero desliga a reordenação.
	ReprioritizeDistance float32
}

// FrameStats resume o trabalho feito por um ProcessFrame.
type FrameStats struct {
	Unloaded  int
	Submitted int
	Uploaded  int
	Removed   int
	Dropped   int
}

// Generator liga o mundo aos workers e ao registro de malhas.
//
// Os métodos Notify* podem ser chamados de qualquer goroutine (tipicamente a de
// rede). ProcessFrame, SetCamera, Meshes e Close pertencem à thread de render.
type Generator struct {
	store    *world.Store
	pool     *meshing.WorkerPool
	results  *meshing.ResultQueue
	registry *MeshRegistry

	pending *util.UniqueQueue[util.Vector3i, struct{}]
	unloads *util.ThreadSafeQueue[util.ColumnCoord]

	maxPerFrame int

	// só a thread de render toca nestes campos
	sequence     uint64
	latest       map[util.Vector3i]uint64
	reprioDist   float32
	lastReprioAt mgl32.Vec3
	closed       bool
}

// NewGenerator inicia os workers e registra o gerador como listener do store.
func NewGenerator(store *world.Store, mesher *meshing.Mesher, gpu GPU, opts GeneratorOptions) *Generator {
	if opts.MaxSnapshotsPerFrame <= 0 {
		opts.MaxSnapshotsPerFrame = 64
	}

	results := meshing.NewResultQueue()
	g := &Generator{
		store:       store,
		pool:        meshing.NewWorkerPool(opts.Workers, mesher, results),
		results:     results,
		registry:    NewMeshRegistry(gpu),
		pending:     util.NewUniqueQueue[util.Vector3i, struct{}](),
		unloads:     util.NewThreadSafeQueue[util.ColumnCoord](),
		maxPerFrame: opts.MaxSnapshotsPerFrame,
		latest:      make(map[util.Vector3i]uint64),
		reprioDist:  opts.ReprioritizeDistance,
	}
	store.SetListener(g)
	return g
}

// NotifyChunkLoaded agenda o chunk e os 26 vizinhos: a borda de cada um (e o
// AO dos cantos) lê blocos deste chunk.
func (g *Generator) NotifyChunkLoaded(origin util.Vector3i) {
	for dy := int32(-1); dy <= 1; dy++ {
		for dz := int32(-1); dz <= 1; dz++ {
			for dx := int32(-1); dx <= 1; dx++ {
				g.Enqueue(origin.Add(chunkStep(dx, dy, dz)))
			}
		}
	}
}

func chunkStep(dx, dy, dz int32) util.Vector3i {
	return util.Vector3i{X: dx * util.ChunkSize, Y: dy * util.ChunkSize, Z: dz * util.ChunkSize}
}

// NotifyColumnUnloaded adia a destruição das malhas para o próximo frame.
func (g *Generator) NotifyColumnUnloaded(col util.ColumnCoord) {
	g.unloads.Push(col)
}

// NotifyBlockChanged agenda o chunk do bloco e todo vizinho (de face, aresta
// ou canto) cuja borda contém o bloco.
func (g *Generator) NotifyBlockChanged(pos util.Vector3i, newRef, oldRef block.Ref) {
	origin := util.ChunkOrigin(pos)
	local := pos.Sub(origin)

	var steps [3][]int32
	for i, v := range [3]int32{local.X, local.Y, local.Z} {
		steps[i] = []int32{0}
		switch v {
		case 0:
			steps[i] = append(steps[i], -1)
		case util.ChunkSize - 1:
			steps[i] = append(steps[i], 1)
		}
	}
	for _, dy := range steps[1] {
		for _, dz := range steps[2] {
			for _, dx := range steps[0] {
				g.Enqueue(origin.Add(chunkStep(dx, dy, dz)))
			}
		}
	}
}

// Enqueue pede a reconstrução de um chunk. Pedidos repetidos antes do próximo
// frame viram um só. Chunks fora da altura do mundo são ignorados.
func (g *Generator) Enqueue(origin util.Vector3i) {
	if origin.Y < 0 || origin.Y >= util.ColumnHeight {
		return
	}
	g.pending.Enqueue(origin, struct{}{})
}

// SetCamera atualiza a referência de prioridade. A fila só é reordenada quando
// a câmera se afasta mais que ReprioritizeDistance do ponto da última ordenação.
func (g *Generator) SetCamera(pos mgl32.Vec3) {
	g.pool.SetReference(pos)
	if g.reprioDist <= 0 {
		return
	}
	if util.DistSqXZ(pos, g.lastReprioAt) >= g.reprioDist*g.reprioDist {
		g.pool.Reprioritize()
		g.lastReprioAt = pos
	}
}

// ProcessFrame faz o trabalho de um frame na thread de render: aplica
// descarregamentos, tira snapshots dos chunks pendentes e sobe os resultados
// prontos para a GPU.
func (g *Generator) ProcessFrame() FrameStats {
	var stats FrameStats
	if g.closed {
		return stats
	}

	for _, col := range g.unloads.Drain() {
		stats.Unloaded += g.registry.DestroyColumn(col)
		for y := int32(0); y < util.ChunksPerColumn; y++ {
			delete(g.latest, util.Vector3i{X: col.X * util.ChunkSize, Y: y * util.ChunkSize, Z: col.Z * util.ChunkSize})
		}
	}

	if coords := g.pending.DequeueN(g.maxPerFrame); len(coords) > 0 {
		g.store.View(func(v *world.View) {
			for _, origin := range coords {
				if !v.HasColumn(util.ColumnOf(origin)) {
					continue
				}
				snap := meshing.NewSnapshot(origin, v)
				g.sequence++
				snap.Sequence = g.sequence
				g.latest[origin] = snap.Sequence
				g.pool.Submit(snap)
				stats.Submitted++
			}
		})
	}

	for _, res := range g.results.Drain() {
		if seq, ok := g.latest[res.Origin]; !ok || seq != res.Sequence {
			// chunk descarregado ou já existe um snapshot mais novo a caminho
			stats.Dropped++
			continue
		}
		if err := g.registry.Replace(res.Origin, res.Vertices); err != nil {
			log.Printf("[Render] ERRO: %v", err)
			continue
		}
		if len(res.Vertices) == 0 {
			stats.Removed++
		} else {
			stats.Uploaded++
		}
	}

	return stats
}

// Meshes visita as malhas prontas para desenho.
func (g *Generator) Meshes(fn func(*ChunkMesh)) {
	g.registry.Each(fn)
}

// Registry expõe o registro de malhas (somente thread de render).
func (g *Generator) Registry() *MeshRegistry {
	return g.registry
}

// Pending retorna chunks aguardando snapshot e snapshots aguardando worker.
func (g *Generator) Pending() (queued, building int) {
	return g.pending.Len(), g.pool.Pending() + g.pool.Busy()
}

// Close para os workers, descarta resultados e libera todas as malhas.
func (g *Generator) Close() {
	if g.closed {
		return
	}
	g.closed = true
	g.store.SetListener(nil)
	g.pool.Stop()
	g.results.Drain()
	g.pending.Clear()
	g.registry.Clear()
}
