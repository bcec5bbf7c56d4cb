package util

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniqueQueueDeduplicates(t *testing.T) {
	q := NewUniqueQueue[Vector3i, struct{}]()

	assert.True(t, q.Enqueue(Vector3i{}, struct{}{}))
	assert.True(t, q.Enqueue(Vector3i{X: 16}, struct{}{}))
	assert.False(t, q.Enqueue(Vector3i{}, struct{}{}))
	assert.Equal(t, 2, q.Len())

	k, _, ok := q.Dequeue()
	require.True(t, ok)
	assert.Equal(t, Vector3i{}, k)
	assert.False(t, q.Contains(k))
	assert.True(t, q.Contains(Vector3i{X: 16}))

	// Depois de sair da fila, a mesma chave pode voltar.
	assert.True(t, q.Enqueue(Vector3i{}, struct{}{}))
}

func TestUniqueQueueDequeueN(t *testing.T) {
	q := NewUniqueQueue[int, string]()
	for i := 0; i < 5; i++ {
		q.Enqueue(i, "x")
	}

	assert.Equal(t, []int{0, 1, 2}, q.DequeueN(3))
	assert.Equal(t, 2, q.Len())
	assert.True(t, q.Remove(4))
	assert.False(t, q.Remove(4))
	assert.Equal(t, []int{3}, q.DequeueN(10))
	assert.Nil(t, q.DequeueN(1))

	q.Enqueue(7, "a")
	q.Enqueue(7, "b")
	_, v, ok := q.Dequeue()
	require.True(t, ok)
	assert.Equal(t, "b", v)
}

func TestThreadSafeQueueDrain(t *testing.T) {
	q := NewThreadSafeQueue[int]()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				q.Push(i)
			}
		}()
	}
	wg.Wait()

	items := q.Drain()
	assert.Len(t, items, 400)
	assert.Equal(t, 0, q.Len())
	_, ok := q.Pop()
	assert.False(t, ok)
}
