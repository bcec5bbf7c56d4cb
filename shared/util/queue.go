package util

import "sync"

// UniqueQueue é uma fila thread-safe que garante elementos únicos por chave.
// Usada para enfileirar chunks para meshing: um chunk pedido duas vezes antes de ser
// processado gera uma única reconstrução.
type UniqueQueue[K comparable, V any] struct {
	mu      sync.Mutex
	items   []entry[K, V]
	present map[K]int // posição de cada chave em items
}

type entry[K comparable, V any] struct {
	Key   K
	Value V
}

// NewUniqueQueue cria uma nova UniqueQueue.
func NewUniqueQueue[K comparable, V any]() *UniqueQueue[K, V] {
	return &UniqueQueue[K, V]{
		items:   make([]entry[K, V], 0, 64),
		present: make(map[K]int),
	}
}

// Enqueue adiciona um item se a chave ainda não existir na fila.
// Se a chave já existir, o valor é atualizado e a posição mantida.
// Retorna true se foi adicionado (novo), false se foi atualizado.
func (q *UniqueQueue[K, V]) Enqueue(key K, value V) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if i, ok := q.present[key]; ok {
		q.items[i].Value = value
		return false
	}

	q.present[key] = len(q.items)
	q.items = append(q.items, entry[K, V]{Key: key, Value: value})
	return true
}

// Dequeue remove e retorna o primeiro item da fila.
func (q *UniqueQueue[K, V]) Dequeue() (K, V, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		var zeroK K
		var zeroV V
		return zeroK, zeroV, false
	}

	e := q.items[0]
	q.items[0] = entry[K, V]{}
	q.items = q.items[1:]
	delete(q.present, e.Key)
	for k, i := range q.present {
		q.present[k] = i - 1
	}
	return e.Key, e.Value, true
}

// DequeueN remove até n itens de uma vez, em ordem de chegada.
func (q *UniqueQueue[K, V]) DequeueN(n int) []K {
	q.mu.Lock()
	defer q.mu.Unlock()

	if n > len(q.items) {
		n = len(q.items)
	}
	if n <= 0 {
		return nil
	}

	keys := make([]K, n)
	for i := 0; i < n; i++ {
		keys[i] = q.items[i].Key
		delete(q.present, q.items[i].Key)
	}
	rest := make([]entry[K, V], len(q.items)-n, cap(q.items))
	copy(rest, q.items[n:])
	q.items = rest
	for i, e := range q.items {
		q.present[e.Key] = i
	}
	return keys
}

// Remove retira uma chave da fila, se presente.
func (q *UniqueQueue[K, V]) Remove(key K) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	i, ok := q.present[key]
	if !ok {
		return false
	}
	q.items = append(q.items[:i], q.items[i+1:]...)
	delete(q.present, key)
	for j := i; j < len(q.items); j++ {
		q.present[q.items[j].Key] = j
	}
	return true
}

// Len retorna o número de items na fila.
func (q *UniqueQueue[K, V]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Clear limpa a fila.
func (q *UniqueQueue[K, V]) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = q.items[:0]
	q.present = make(map[K]int)
}

// Contains verifica se uma chave está na fila.
func (q *UniqueQueue[K, V]) Contains(key K) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, ok := q.present[key]
	return ok
}

// ThreadSafeQueue é uma fila simples thread-safe (sem unicidade).
type ThreadSafeQueue[T any] struct {
	mu    sync.Mutex
	items []T
}

// NewThreadSafeQueue cria uma nova fila thread-safe.
func NewThreadSafeQueue[T any]() *ThreadSafeQueue[T] {
	return &ThreadSafeQueue[T]{
		items: make([]T, 0, 64),
	}
}

// Push adiciona um item ao fim da fila.
func (q *ThreadSafeQueue[T]) Push(item T) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, item)
}

// Pop remove e retorna o primeiro item. Retorna false se vazia.
func (q *ThreadSafeQueue[T]) Pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		var zero T
		return zero, false
	}
	item := q.items[0]
	var zero T
	q.items[0] = zero
	q.items = q.items[1:]
	return item, true
}

// Drain troca o conteúdo inteiro por uma fila vazia e devolve os itens em ordem.
// O lock é mantido só durante a troca.
func (q *ThreadSafeQueue[T]) Drain() []T {
	q.mu.Lock()
	items := q.items
	q.items = make([]T, 0, 64)
	q.mu.Unlock()
	return items
}

// Len retorna o tamanho da fila.
func (q *ThreadSafeQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
