package meshing

import (
	"container/heap"

	"TerraVision/shared/util"

	"github.com/go-gl/mathgl/mgl32"
)

type queueItem struct {
	snap     *Snapshot
	priority float32 // distância² no plano XZ, calculada no Push
	order    uint64  // desempate: primeiro a entrar sai primeiro
}

type snapshotHeap []queueItem

func (h snapshotHeap) Len() int { return len(h) }
func (h snapshotHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	return h[i].order < h[j].order
}
func (h snapshotHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *snapshotHeap) Push(x any) { *h = append(*h, x.(queueItem)) }

func (h *snapshotHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = queueItem{}
	*h = old[:n-1]
	return item
}

// BuildQueue é a fila de snapshots ordenada pela distância ao ponto de referência
// (normalmente a câmera). A prioridade de cada item é fixada no Push: mover a
// referência só afeta itens futuros, a menos que Reprioritize seja chamado.
//
// BuildQueue não tem lock próprio; o WorkerPool protege o acesso.
type BuildQueue struct {
	items     snapshotHeap
	reference mgl32.Vec3
	pushed    uint64
}

// NewBuildQueue cria uma fila vazia com referência na origem.
func NewBuildQueue() *BuildQueue {
	return &BuildQueue{}
}

func (q *BuildQueue) priorityOf(s *Snapshot) float32 {
	return util.DistSqXZ(q.reference, s.Origin.Vec3())
}

// Push insere um snapshot com a prioridade calculada agora.
func (q *BuildQueue) Push(s *Snapshot) {
	q.pushed++
	heap.Push(&q.items, queueItem{snap: s, priority: q.priorityOf(s), order: q.pushed})
}

// PopNearest remove o snapshot de menor prioridade. Fila vazia devolve nil.
func (q *BuildQueue) PopNearest() *Snapshot {
	if len(q.items) == 0 {
		return nil
	}
	return heap.Pop(&q.items).(queueItem).snap
}

// Empty informa se não há snapshots na fila.
func (q *BuildQueue) Empty() bool {
	return len(q.items) == 0
}

// Len retorna o número de snapshots na fila.
func (q *BuildQueue) Len() int {
	return len(q.items)
}

// Clear descarta todos os snapshots.
func (q *BuildQueue) Clear() {
	for i := range q.items {
		q.items[i] = queueItem{}
	}
	q.items = q.items[:0]
}

// SetReference troca o ponto de referência para os próximos Push.
func (q *BuildQueue) SetReference(ref mgl32.Vec3) {
	q.reference = ref
}

// Reference retorna o ponto de referência atual.
func (q *BuildQueue) Reference() mgl32.Vec3 {
	return q.reference
}

// Reprioritize recalcula a prioridade de todos os itens a partir da referência
// atual e refaz o heap.
func (q *BuildQueue) Reprioritize() {
	for i := range q.items {
		q.items[i].priority = q.priorityOf(q.items[i].snap)
	}
	heap.Init(&q.items)
}
