package resource

import (
	"bytes"
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPinnedMemory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	require.NoError(t, c.ReserveMemory(50))
	require.NoError(t, c.ReserveMemory(40))
	assert.Equal(t, int64(90), c.MemoryUsage())
	assert.Equal(t, int64(100), c.MemoryLimit())

	assert.ErrorIs(t, c.ReserveMemory(20), ErrMemoryLimitExceeded)
	assert.False(t, c.TryAcquireMemory(11))
	assert.Equal(t, int64(90), c.MemoryUsage())

	c.ReleaseMemory(50)
	assert.True(t, c.TryAcquireMemory(60))
	assert.Equal(t, int64(100), c.MemoryUsage())
}

func TestNonPositiveReservations(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 10})
	assert.NoError(t, c.ReserveMemory(-1))
	assert.True(t, c.TryAcquireMemory(0))
	c.ReleaseMemory(-1)
	assert.Equal(t, int64(0), c.MemoryUsage())
}

func TestUnlimited(t *testing.T) {
	c := NewController(Config{})
	require.NoError(t, c.ReserveMemory(1<<40))
	assert.Equal(t, int64(0), c.MemoryLimit())
	assert.Equal(t, 1, c.FetchWorkers())
	assert.NoError(t, c.AcquireIO(context.Background(), 1<<30))
}

func TestNilController(t *testing.T) {
	var c *Controller
	ctx := context.Background()
	assert.True(t, c.TryAcquireMemory(100))
	assert.NoError(t, c.ReserveMemory(100))
	c.ReleaseMemory(100)
	assert.Equal(t, int64(0), c.MemoryUsage())
	assert.Equal(t, int64(0), c.MemoryLimit())

	assert.NoError(t, c.AcquireFetch(ctx))
	c.ReleaseFetch()
	assert.Equal(t, 1, c.FetchWorkers())
	assert.NoError(t, c.AcquireIO(ctx, 100))

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, c.AcquireFetch(cctx), context.Canceled)
}

func TestFetchSlots(t *testing.T) {
	c := NewController(Config{FetchWorkers: 2})
	assert.Equal(t, 2, c.FetchWorkers())

	var running, peak atomic.Int32
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !assert.NoError(t, c.AcquireFetch(context.Background())) {
				return
			}
			defer c.ReleaseFetch()
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			running.Add(-1)
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, peak.Load(), int32(2))

	require.NoError(t, c.AcquireFetch(context.Background()))
	require.NoError(t, c.AcquireFetch(context.Background()))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, c.AcquireFetch(ctx))
}

func TestIOSplitsLargeRequests(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1000})
	require.NoError(t, c.AcquireIO(context.Background(), 100))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, c.AcquireIO(ctx, 5000))
}

func TestWriter(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 10000})

	var out bytes.Buffer
	w := NewWriter(context.Background(), &out, c)
	n, err := w.Write([]byte("\"x\"\n1\n"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, "\"x\"\n1\n", out.String())

	n, err = NewWriter(context.Background(), &out, nil).Write([]byte("2\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewWriter(ctx, &out, c).Write(make([]byte, 50000))
	assert.Error(t, err)
}
