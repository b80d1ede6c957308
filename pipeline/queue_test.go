package pipeline

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_FIFO(t *testing.T) {
	q := NewQueue[int](3)
	q.Put(1)
	q.Put(2)
	q.Put(3)

	assert.Equal(t, 3, q.Len())
	assert.Equal(t, 1, q.Get())
	assert.Equal(t, 2, q.Get())
	assert.Equal(t, 3, q.Get())
	assert.Equal(t, 0, q.Len())
}

func TestQueue_CapacityClamped(t *testing.T) {
	assert.Equal(t, 1, NewQueue[int](0).Cap())
	assert.Equal(t, 1, NewQueue[int](-5).Cap())
	assert.Equal(t, 7, NewQueue[int](7).Cap())
}

func TestQueue_PutBlocksWhenFull(t *testing.T) {
	q := NewQueue[string](1)
	q.Put("first")

	var done atomic.Bool
	go func() {
		q.Put("second")
		done.Store(true)
	}()

	assert.Never(t, done.Load, 50*time.Millisecond, 5*time.Millisecond)

	assert.Equal(t, "first", q.Get())
	require.Eventually(t, done.Load, time.Second, 5*time.Millisecond)
	assert.Equal(t, "second", q.Get())
}

func TestQueue_GetBlocksWhenEmpty(t *testing.T) {
	q := NewQueue[int](2)

	got := make(chan int, 1)
	go func() {
		got <- q.Get()
	}()

	select {
	case <-got:
		t.Fatal("Get returned from an empty queue")
	case <-time.After(50 * time.Millisecond):
	}

	q.Put(42)
	select {
	case v := <-got:
		assert.Equal(t, 42, v)
	case <-time.After(time.Second):
		t.Fatal("Get did not return after Put")
	}
}

func TestItem_EndOfStreamIsDistinctFromEmptyBatch(t *testing.T) {
	empty := batchItem(1, nil)
	assert.False(t, empty.eos)
	assert.Empty(t, empty.batch)

	assert.True(t, endOfStream().eos)
}
