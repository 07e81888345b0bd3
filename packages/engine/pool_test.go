package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_BoundsConcurrency(t *testing.T) {
	pool := NewPool(2)

	var active, peak atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, pool.Acquire(context.Background()))
			n := active.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			active.Add(-1)
			pool.Release()
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestPool_AcquireHonorsCancellation(t *testing.T) {
	pool := NewPool(1)
	require.NoError(t, pool.Acquire(context.Background()))
	defer pool.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := pool.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewPool_DefaultsInvalidSize(t *testing.T) {
	pool := NewPool(0)
	require.NoError(t, pool.Acquire(context.Background()))
	pool.Release()
}
