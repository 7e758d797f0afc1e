package upcall

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hupe1980/rvec/altrep"
	"github.com/hupe1980/rvec/model"
	"github.com/hupe1980/rvec/resource"
)

// ErrClosed is returned by upcalls on a closed bridge.
var ErrClosed = errors.New("upcall: bridge is closed")

// Bridge is the upcall surface of one execution context.
type Bridge struct {
	registry *altrep.Registry
	rc       *resource.Controller
	logger   *slog.Logger

	mu        sync.Mutex
	preserved map[any]int
	protect   []any
	pins      map[any]*pin
	weakRefs  []*WeakRef
	closed    bool
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bridge) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithResourceController charges pinned memory to rc.
func WithResourceController(rc *resource.Controller) Option {
	return func(b *Bridge) { b.rc = rc }
}

// NewBridge creates a bridge that registers ALTREP classes in registry.
func NewBridge(registry *altrep.Registry, opts ...Option) *Bridge {
	b := &Bridge{
		registry:  registry,
		logger:    slog.New(slog.DiscardHandler),
		preserved: make(map[any]int),
		pins:      make(map[any]*pin),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Registry returns the class registry.
func (b *Bridge) Registry() *altrep.Registry { return b.registry }

// Close runs the finalizers of weak references created with onexit and
// moves pinned vectors back to managed memory. It is idempotent.
func (b *Bridge) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	refs := b.weakRefs
	b.weakRefs = nil
	pins := make([]*pin, 0, len(b.pins))
	for _, p := range b.pins {
		pins = append(pins, p)
	}
	b.pins = make(map[any]*pin)
	b.preserved = make(map[any]int)
	b.protect = nil
	b.mu.Unlock()

	for _, r := range refs {
		if r.onexit {
			r.Finalize()
		}
	}
	var errs []error
	for _, p := range pins {
		errs = append(errs, p.unpin())
		b.rc.ReleaseMemory(p.bytes)
	}
	b.logger.Debug("upcall bridge closed", "weakrefs", len(refs), "pinned", len(pins))
	return errors.Join(errs...)
}

func guard(op string, fn func()) (err error) {
	if err = model.Catch(fn); err != nil {
		var he *altrep.HookError
		if errors.As(err, &he) {
			return err
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
