package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPool(t *testing.T) {
	pool := NewPool("fast", 4)
	assert.Equal(t, "fast", pool.Name())
	assert.Equal(t, 4, pool.Size())
}

func TestNewPool_MinimumSize(t *testing.T) {
	assert.Equal(t, 1, NewPool("zero", 0).Size())
	assert.Equal(t, 1, NewPool("negative", -3).Size())
}

func TestPool_Do_RunsSynchronously(t *testing.T) {
	pool := NewPool("fast", 2)
	ran := false

	require.NoError(t, pool.Do(context.Background(), func() { ran = true }))

	assert.True(t, ran)
}

func TestPool_DoAll_RunsEverything(t *testing.T) {
	pool := NewPool("slow", 3)
	var count atomic.Int32

	fns := make([]func(), 20)
	for i := range fns {
		fns[i] = func() { count.Add(1) }
	}
	require.NoError(t, pool.DoAll(context.Background(), fns))

	assert.Equal(t, int32(20), count.Load())
}

func TestPool_DoAll_Empty(t *testing.T) {
	assert.NoError(t, NewPool("slow", 3).DoAll(context.Background(), nil))
}

func TestPool_DoAll_RespectsCeiling(t *testing.T) {
	const ceiling = 3
	pool := NewPool("slow", ceiling)

	var running, peak atomic.Int32
	fns := make([]func(), 12)
	for i := range fns {
		fns[i] = func() {
			n := running.Add(1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			running.Add(-1)
		}
	}
	require.NoError(t, pool.DoAll(context.Background(), fns))

	assert.LessOrEqual(t, peak.Load(), int32(ceiling))
	assert.Equal(t, int32(0), running.Load())
}

func TestPool_SharedAcrossCallers(t *testing.T) {
	pool := NewPool("fast", 1)
	var running, peak atomic.Int32

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = pool.Do(context.Background(), func() {
				if n := running.Add(1); n > peak.Load() {
					peak.Store(n)
				}
				time.Sleep(2 * time.Millisecond)
				running.Add(-1)
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), peak.Load())
}

func TestPool_Do_CancelledContext(t *testing.T) {
	pool := NewPool("fast", 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	err := pool.Do(ctx, func() { ran = true })

	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "fast pool")
	assert.False(t, ran)
}

func TestPool_DoAll_StopsQueuedWorkOnCancel(t *testing.T) {
	pool := NewPool("slow", 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var count atomic.Int32
	fns := make([]func(), 8)
	for i := range fns {
		fns[i] = func() {
			count.Add(1)
			cancel()
		}
	}
	err := pool.DoAll(ctx, fns)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), count.Load())
}
