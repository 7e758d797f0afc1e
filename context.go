package rvec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/rvec/altrep"
	"github.com/hupe1980/rvec/blobstore"
	"github.com/hupe1980/rvec/codec"
	"github.com/hupe1980/rvec/config"
	"github.com/hupe1980/rvec/internal/cache"
	"github.com/hupe1980/rvec/lazyload"
	"github.com/hupe1980/rvec/model"
	"github.com/hupe1980/rvec/resource"
	"github.com/hupe1980/rvec/rng"
	"github.com/hupe1980/rvec/serialize"
	"github.com/hupe1980/rvec/table"
	"github.com/hupe1980/rvec/upcall"
	"github.com/hupe1980/rvec/value"
	"github.com/hupe1980/rvec/vector"
)

// GlobalEnvName is the name of every context's global environment.
const GlobalEnvName = "R_GlobalEnv"

// Context is an isolated execution context.
//
// A Context is meant to be driven by one evaluator goroutine at a time.
// Lazy-load access, warnings and the upcall bridge are safe for concurrent use.
type Context struct {
	id uuid.UUID

	registry *altrep.Registry
	bridge   *upcall.Bridge
	rng      *rng.RNG
	warnings *model.Warnings
	symbols  *value.SymbolTable
	global   *value.Environment

	store     blobstore.Store
	ownsStore bool
	cache     cache.BlockCache
	db        *lazyload.DB
	rc        *resource.Controller

	metrics MetricsCollector
	logger  *Logger

	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

// New creates an execution context.
func New(ctx context.Context, optFns ...Option) (*Context, error) {
	opts := applyOptions(optFns)

	cfg := opts.config
	if cfg == nil {
		cfg = config.Default()
	} else if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := opts.logger
	if logger == nil {
		if opts.config == nil {
			logger = NoopLogger()
		} else {
			var err error
			if logger, err = loggerFromConfig(cfg.Log); err != nil {
				return nil, err
			}
		}
	}

	indexCodec, err := codec.Lookup(cfg.LazyLoad.IndexCodec)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	logger = logger.WithContextID(id.String())

	rc := opts.rc
	if rc == nil {
		rc = resource.NewController(cfg.Resources.ResourceConfig())
	}

	store, ownsStore := opts.store, false
	if store == nil {
		if store, err = cfg.LazyLoad.Storage.Open(ctx, rc); err != nil {
			return nil, fmt.Errorf("rvec: opening lazy-load storage: %w", err)
		}
		ownsStore = true
	}

	warnings := &model.Warnings{}

	seed := opts.seed
	if seed == nil {
		seed = cfg.Seed
	}
	rngOpts := []rng.Option{rng.WithWarner(warnings)}
	if seed != nil {
		rngOpts = append(rngOpts, rng.WithSeed(*seed))
	}
	r, err := rng.New(append(rngOpts, opts.rngOptions...)...)
	if err != nil {
		if ownsStore {
			_ = closeStore(store)
		}
		return nil, err
	}

	registry := altrep.NewRegistry(altrep.WithLogger(logger.Logger))
	symbols := value.NewSymbolTable()
	global := value.NewEnvironment(GlobalEnvName, nil)

	blockCache := cache.NewLRUBlockCache(cfg.LazyLoad.CacheBytes, rc)
	db := lazyload.Open(store,
		lazyload.WithCache(blockCache),
		lazyload.WithCodec(indexCodec),
		lazyload.WithResourceController(rc),
		lazyload.WithLogger(logger.Logger),
		lazyload.WithWarner(warnings),
		lazyload.WithSerializeOptions(
			serialize.WithRegistry(registry),
			serialize.WithSymbols(symbols),
			serialize.WithEnvironment(global),
		),
	)

	c := &Context{
		id:       id,
		registry: registry,
		bridge: upcall.NewBridge(registry,
			upcall.WithLogger(logger.Logger),
			upcall.WithResourceController(rc),
		),
		rng:       r,
		warnings:  warnings,
		symbols:   symbols,
		global:    global,
		store:     store,
		ownsStore: ownsStore,
		cache:     blockCache,
		db:        db,
		rc:        rc,
		metrics:   opts.metricsCollector,
		logger:    logger,
	}
	logger.InfoContext(ctx, "context created", "storage", cfg.LazyLoad.Storage.Backend)
	return c, nil
}

// ID returns the unique ID of the context.
func (c *Context) ID() uuid.UUID { return c.id }

// Registry returns the ALTREP class registry.
func (c *Context) Registry() *altrep.Registry { return c.registry }

// Bridge returns the native upcall surface.
func (c *Context) Bridge() *upcall.Bridge { return c.bridge }

// RNG returns the random number generator.
func (c *Context) RNG() *rng.RNG { return c.rng }

// Symbols returns the symbol table.
func (c *Context) Symbols() *value.SymbolTable { return c.symbols }

// GlobalEnv returns the global environment.
func (c *Context) GlobalEnv() *value.Environment { return c.global }

// LazyLoad returns the lazy-load database.
func (c *Context) LazyLoad() *lazyload.DB { return c.db }

// BlobStore returns the store backing the lazy-load database.
func (c *Context) BlobStore() blobstore.Store { return c.store }

// ResourceController returns the resource controller.
func (c *Context) ResourceController() *resource.Controller { return c.rc }

// Logger returns the logger.
func (c *Context) Logger() *Logger { return c.logger }

// Warner returns the warning channel built-ins should report to.
func (c *Context) Warner() model.Warner { return c.warnings }

// Warnings returns the pending warnings.
func (c *Context) Warnings() []string { return c.warnings.List() }

// ResetWarnings clears the pending warnings and returns them.
func (c *Context) ResetWarnings() []string { return c.warnings.Reset() }

func (c *Context) checkOpen() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}
	return nil
}

// Eval runs fn. Contract violations and ALTREP method failures raised as
// panics inside fn are returned as errors wrapping ErrContractViolation and
// ErrHookFailed. Other panics propagate.
func (c *Context) Eval(ctx context.Context, fn func() error) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	start := time.Now()
	before := c.warnings.Len()

	var err error
	if perr := model.Catch(func() { err = fn() }); perr != nil {
		err = perr
	}
	err = translateError(err)

	raised := c.warnings.Len() - before
	c.metrics.RecordEval(time.Since(start), raised, err)
	c.logger.LogEval(ctx, raised, err)
	return err
}

// Duplicate copies x within this context.
func (c *Context) Duplicate(x any, deep bool) (any, error) {
	var out any
	err := model.Catch(func() { out = value.Duplicate(x, deep) })
	return out, translateError(err)
}

// Serialize encodes x in the binary serialization format.
func (c *Context) Serialize(x any) ([]byte, error) {
	return serialize.Marshal(x, c.serializeOptions()...)
}

// Unserialize decodes data produced by Serialize, resolving ALTREP classes
// and symbols in this context.
func (c *Context) Unserialize(data []byte) (any, error) {
	return serialize.Unmarshal(data, c.serializeOptions()...)
}

func (c *Context) serializeOptions() []serialize.Option {
	return []serialize.Option{
		serialize.WithRegistry(c.registry),
		serialize.WithSymbols(c.symbols),
		serialize.WithEnvironment(c.global),
	}
}

// Insert appends v to the lazy-load database file path.
func (c *Context) Insert(ctx context.Context, v any, path string, compression int) (lazyload.Key, error) {
	if err := c.checkOpen(); err != nil {
		return lazyload.Key{}, err
	}
	start := time.Now()
	key, err := c.db.Insert(ctx, v, path, compression)
	c.metrics.RecordInsert(time.Since(start), err)
	c.logger.LogInsert(ctx, path, key, err)
	return key, err
}

// Fetch reads the value stored under key in the lazy-load database file path.
func (c *Context) Fetch(ctx context.Context, key lazyload.Key, path string, compression int) (any, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	start := time.Now()
	v, err := c.db.Fetch(ctx, key, path, compression)
	c.metrics.RecordFetch(time.Since(start), err)
	c.logger.LogFetch(ctx, path, key, err)
	return v, err
}

// Flush drops the cached contents of the lazy-load database file path.
func (c *Context) Flush(path string) {
	c.db.Flush(path)
}

// WriteTable writes x as text to the blob name in the context's blob store.
func (c *Context) WriteTable(ctx context.Context, name string, x *vector.Vector, opts ...table.Option) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	err := table.WriteBlob(ctx, c.store, name, x, c.rc, opts...)
	c.logger.LogWriteTable(ctx, name, err)
	return err
}

func closeStore(s blobstore.Store) error {
	if cl, ok := s.(io.Closer); ok {
		return cl.Close()
	}
	return nil
}

// Close tears the context down. Weak references registered with onexit run
// their finalizers. A store opened from the configuration is closed as well.
// Close is idempotent.
func (c *Context) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()

		errs := []error{
			c.bridge.Close(),
			c.db.Close(),
			c.cache.Close(),
		}
		if c.ownsStore {
			errs = append(errs, closeStore(c.store))
		}
		err = errors.Join(errs...)
		c.logger.LogClose(context.Background(), err)
	})
	return err
}
