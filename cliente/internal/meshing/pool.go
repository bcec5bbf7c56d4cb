package meshing

import (
	"log"
	"runtime/debug"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// WorkerPool é o conjunto de goroutines que consome a BuildQueue.
// Os workers dormem numa sync.Cond que divide o mutex com a fila: Submit acorda
// um, Stop acorda todos. Nenhum worker toca em GL.
type WorkerPool struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   *BuildQueue
	running bool
	busy    int

	mesher  *Mesher
	results *ResultQueue
	wg      sync.WaitGroup
}

// NewWorkerPool cria e inicia workers goroutines (mínimo 1).
func NewWorkerPool(workers int, mesher *Mesher, results *ResultQueue) *WorkerPool {
	if workers < 1 {
		workers = 1
	}

	p := &WorkerPool{
		queue:   NewBuildQueue(),
		running: true,
		mesher:  mesher,
		results: results,
	}
	p.cond = sync.NewCond(&p.mu)

	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	log.Printf("[Mesher] %d workers iniciados", workers)
	return p
}

// Submit enfileira um snapshot e acorda um worker. Depois de Stop, é ignorado.
func (p *WorkerPool) Submit(s *Snapshot) {
	if s == nil {
		return
	}
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.queue.Push(s)
	p.mu.Unlock()
	p.cond.Signal()
}

// SetReference troca o ponto de referência da fila para os próximos Submit.
func (p *WorkerPool) SetReference(ref mgl32.Vec3) {
	p.mu.Lock()
	p.queue.SetReference(ref)
	p.mu.Unlock()
}

// Reprioritize reordena a fila pela referência atual.
func (p *WorkerPool) Reprioritize() {
	p.mu.Lock()
	p.queue.Reprioritize()
	p.mu.Unlock()
}

// Pending retorna quantos snapshots esperam na fila.
func (p *WorkerPool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.Len()
}

// Busy retorna quantos workers estão gerando geometria agora.
func (p *WorkerPool) Busy() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.busy
}

// Stop descarta o que ainda está na fila, acorda os workers e espera os jobs em
// andamento terminarem. Pode ser chamado mais de uma vez.
func (p *WorkerPool) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		p.wg.Wait()
		return
	}
	p.running = false
	dropped := p.queue.Len()
	p.queue.Clear()
	p.mu.Unlock()

	p.cond.Broadcast()
	p.wg.Wait()
	log.Printf("[Mesher] Workers parados (%d snapshots descartados)", dropped)
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	for {
		p.mu.Lock()
		for p.running && p.queue.Empty() {
			p.cond.Wait()
		}
		if !p.running {
			p.mu.Unlock()
			return
		}
		snap := p.queue.PopNearest()
		p.busy++
		p.mu.Unlock()

		p.process(id, snap)

		p.mu.Lock()
		p.busy--
		p.mu.Unlock()
	}
}

// process gera um chunk. Um panic derruba só este job, não o worker.
func (p *WorkerPool) process(id int, snap *Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PANIC] Erro no Mesher Worker %d (chunk %v): %v\n%s", id, snap.Origin, r, debug.Stack())
		}
	}()

	vertices := p.mesher.Generate(snap)
	p.results.Push(Result{Origin: snap.Origin, Sequence: snap.Sequence, Vertices: vertices})
}
