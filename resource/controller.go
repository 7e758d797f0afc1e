package resource

import (
	"context"
	"errors"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ErrMemoryLimitExceeded is returned when a reservation would exceed the limit.
var ErrMemoryLimitExceeded = errors.New("memory limit exceeded")

// Config holds resource limits. Zero means unlimited, except FetchWorkers
// which defaults to 1.
type Config struct {
	MemoryLimitBytes   int64
	FetchWorkers       int64
	IOLimitBytesPerSec int64
}

// Controller enforces a Config. Contexts sharing a Controller share its
// budgets. It is safe for concurrent use.
type Controller struct {
	cfg Config

	pinned    *semaphore.Weighted
	pinnedLen atomic.Int64

	fetches *semaphore.Weighted
	io      *rate.Limiter
}

// NewController creates a controller for cfg.
func NewController(cfg Config) *Controller {
	cfg.FetchWorkers = max(cfg.FetchWorkers, 1)
	c := &Controller{
		cfg:     cfg,
		fetches: semaphore.NewWeighted(cfg.FetchWorkers),
	}
	if cfg.MemoryLimitBytes > 0 {
		c.pinned = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}
	if cfg.IOLimitBytesPerSec > 0 {
		c.io = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}
	return c
}

// TryAcquireMemory reserves bytes if they fit under the limit.
func (c *Controller) TryAcquireMemory(bytes int64) bool {
	if c == nil || bytes <= 0 {
		return true
	}
	if c.pinned != nil && !c.pinned.TryAcquire(bytes) {
		return false
	}
	c.pinnedLen.Add(bytes)
	return true
}

// ReserveMemory is TryAcquireMemory returning ErrMemoryLimitExceeded on failure.
func (c *Controller) ReserveMemory(bytes int64) error {
	if !c.TryAcquireMemory(bytes) {
		return ErrMemoryLimitExceeded
	}
	return nil
}

// ReleaseMemory returns bytes to the budget.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}
	if c.pinned != nil {
		c.pinned.Release(bytes)
	}
	c.pinnedLen.Add(-bytes)
}

// MemoryUsage returns the reserved bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.pinnedLen.Load()
}

// MemoryLimit returns the limit, or 0 if unlimited.
func (c *Controller) MemoryLimit() int64 {
	if c == nil {
		return 0
	}
	return c.cfg.MemoryLimitBytes
}

// AcquireFetch takes a parallel fetch slot, waiting while all are busy.
func (c *Controller) AcquireFetch(ctx context.Context) error {
	if c == nil {
		return ctx.Err()
	}
	return c.fetches.Acquire(ctx, 1)
}

// ReleaseFetch returns a slot taken by AcquireFetch.
func (c *Controller) ReleaseFetch() {
	if c != nil {
		c.fetches.Release(1)
	}
}

// FetchWorkers returns the number of fetch slots.
func (c *Controller) FetchWorkers() int {
	if c == nil {
		return 1
	}
	return int(c.cfg.FetchWorkers)
}

// AcquireIO waits until bytes may be transferred. Requests larger than one
// second of budget are split.
func (c *Controller) AcquireIO(ctx context.Context, bytes int) error {
	if c == nil || c.io == nil {
		return nil
	}
	burst := c.io.Burst()
	for bytes > 0 {
		n := min(bytes, burst)
		if err := c.io.WaitN(ctx, n); err != nil {
			return err
		}
		bytes -= n
	}
	return nil
}
