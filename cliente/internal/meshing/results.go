package meshing

import "TerraVision/shared/util"

// ResultQueue entrega os resultados dos workers para a thread de render.
// Workers chamam Push; a thread de render chama Drain uma vez por frame.
type ResultQueue struct {
	q *util.ThreadSafeQueue[Result]
}

// NewResultQueue cria uma fila vazia.
func NewResultQueue() *ResultQueue {
	return &ResultQueue{q: util.NewThreadSafeQueue[Result]()}
}

// Push publica um resultado.
func (r *ResultQueue) Push(res Result) {
	r.q.Push(res)
}

// Drain remove e retorna todos os resultados em ordem de chegada.
func (r *ResultQueue) Drain() []Result {
	return r.q.Drain()
}

// Len retorna quantos resultados esperam.
func (r *ResultQueue) Len() int {
	return r.q.Len()
}
