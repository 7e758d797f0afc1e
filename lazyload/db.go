package lazyload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/hupe1980/rvec/blobstore"
	"github.com/hupe1980/rvec/codec"
	"github.com/hupe1980/rvec/internal/cache"
	"github.com/hupe1980/rvec/model"
	"github.com/hupe1980/rvec/resource"
	"github.com/hupe1980/rvec/serialize"
	"github.com/hupe1980/rvec/value"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const defaultCacheBytes = 64 << 20

// DB reads and writes lazy-load database files in a blob store.
type DB struct {
	store     blobstore.Store
	cache     cache.BlockCache
	ownsCache bool
	rc        *resource.Controller
	logger    *slog.Logger
	warn      model.Warner
	codec     codec.Codec
	serOpts   []serialize.Option

	loads singleflight.Group

	mu       sync.Mutex
	versions map[string]uint64
	writing  map[string]*sync.Mutex
}

// Option configures a DB.
type Option func(*DB)

// WithCache sets the cache for loaded files. The DB does not close it.
func WithCache(c cache.BlockCache) Option {
	return func(db *DB) { db.cache = c }
}

// WithResourceController throttles reads and bounds cached memory.
func WithResourceController(rc *resource.Controller) Option {
	return func(db *DB) { db.rc = rc }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(db *DB) { db.logger = l }
}

// WithWarner sets where fetch warnings go.
func WithWarner(w model.Warner) Option {
	return func(db *DB) { db.warn = w }
}

// WithCodec sets the codec for new indexes.
func WithCodec(c codec.Codec) Option {
	return func(db *DB) { db.codec = c }
}

// WithSerializeOptions sets the options used to serialize and deserialize values.
func WithSerializeOptions(opts ...serialize.Option) Option {
	return func(db *DB) { db.serOpts = opts }
}

// Open creates a DB over store.
func Open(store blobstore.Store, opts ...Option) *DB {
	db := &DB{
		store:    store,
		warn:     model.DiscardWarnings,
		codec:    codec.Default,
		versions: make(map[string]uint64),
		writing:  make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(db)
	}
	if db.logger == nil {
		db.logger = slog.New(slog.DiscardHandler)
	}
	if db.cache == nil {
		db.cache = cache.NewLRUBlockCache(defaultCacheBytes, db.rc)
		db.ownsCache = true
	}
	return db
}

// Store returns the underlying blob store.
func (db *DB) Store() blobstore.Store { return db.store }

func (db *DB) key(path string) cache.Key {
	db.mu.Lock()
	defer db.mu.Unlock()
	return cache.Key{Kind: cache.KindLazyLoad, Path: path, Version: db.versions[path]}
}

func (db *DB) fileLock(path string) *sync.Mutex {
	db.mu.Lock()
	defer db.mu.Unlock()
	m, ok := db.writing[path]
	if !ok {
		m = &sync.Mutex{}
		db.writing[path] = m
	}
	return m
}

// data returns the contents of the database file path, loading it once.
func (db *DB) data(ctx context.Context, path string) ([]byte, error) {
	k := db.key(path)
	if b, ok := db.cache.Get(ctx, k); ok {
		return b, nil
	}
	v, err, shared := db.loads.Do(fmt.Sprintf("%s@%d", path, k.Version), func() (any, error) {
		// A load that finished since the miss above already filled the cache.
		if b, ok := db.cache.Get(ctx, k); ok {
			return b, nil
		}
		b, err := db.read(ctx, path)
		if err != nil {
			return nil, err
		}
		db.cache.Set(ctx, k, b)
		db.logger.DebugContext(ctx, "lazy-load file loaded", slog.String("path", path), slog.Int("bytes", len(b)))
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		db.logger.DebugContext(ctx, "lazy-load file load shared", slog.String("path", path))
	}
	return v.([]byte), nil
}

func (db *DB) read(ctx context.Context, path string) ([]byte, error) {
	b, err := db.store.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = b.Close() }()
	if err := db.rc.AcquireIO(ctx, int(b.Size())); err != nil {
		return nil, err
	}
	return blobstore.ReadBlob(ctx, b)
}

// Insert serializes v and appends it to the file path. compression is 0, 1,
// 2 (lz4) or 3 (the smaller of zstd and zlib).
func (db *DB) Insert(ctx context.Context, v any, path string, compression int) (Key, error) {
	if compression < CompressNone || compression > CompressBest {
		return Key{}, fmt.Errorf("%w: %d", ErrUnsupportedCompression, compression)
	}
	data, err := serialize.Marshal(v, db.serOpts...)
	if err != nil {
		return Key{}, err
	}
	rec, err := encodeRecord(data, compression)
	if err != nil {
		return Key{}, err
	}

	lock := db.fileLock(path)
	lock.Lock()
	defer lock.Unlock()

	existing, err := db.data(ctx, path)
	if err != nil && !errors.Is(err, blobstore.ErrNotFound) {
		return Key{}, err
	}
	file := make([]byte, 0, len(existing)+len(rec))
	file = append(append(file, existing...), rec...)
	if err := db.store.Put(ctx, path, file); err != nil {
		return Key{}, err
	}

	db.bump(path)
	db.cache.Set(ctx, db.key(path), file)

	key := Key{Offset: len(existing), Length: len(rec)}
	db.logger.DebugContext(ctx, "lazy-load value inserted",
		slog.String("path", path), slog.Int("offset", key.Offset), slog.Int("length", key.Length))
	return key, nil
}

// bump retires the cached generation of path.
func (db *DB) bump(path string) {
	db.mu.Lock()
	old := db.versions[path]
	db.versions[path] = old + 1
	db.mu.Unlock()
	db.cache.Invalidate(func(k cache.Key) bool {
		return k.Kind == cache.KindLazyLoad && k.Path == path && k.Version == old
	})
}

// Fetch reads the value stored under key in path. A record with an unknown
// compression type produces a warning and the null value. Fetched vectors
// are marked shared.
func (db *DB) Fetch(ctx context.Context, key Key, path string, compression int) (any, error) {
	file, err := db.data(ctx, path)
	if err != nil {
		return nil, err
	}
	if key.Offset < 0 || key.Length < 0 || key.Offset+key.Length > len(file) {
		return nil, &CorruptError{Path: path, Err: fmt.Errorf("%w %s in %d bytes", ErrInvalidKey, key, len(file))}
	}
	data, err := decodeRecord(file[key.Offset:key.Offset+key.Length], compression)
	if err != nil {
		var unknown errUnknownType
		if errors.As(err, &unknown) {
			db.warn.Warn("unknown compression type")
			return value.Nil, nil
		}
		return nil, &CorruptError{Path: path, Err: err}
	}
	v, err := serialize.Unmarshal(data, db.serOpts...)
	if err != nil {
		return nil, &CorruptError{Path: path, Err: err}
	}
	if s, ok := v.(interface{ Share() }); ok {
		s.Share()
	}
	return v, nil
}

// FetchAll fetches keys concurrently. Results are in key order.
func (db *DB) FetchAll(ctx context.Context, keys []Key, path string, compression int) ([]any, error) {
	// One load up front so workers do not race for it.
	if _, err := db.data(ctx, path); err != nil {
		return nil, err
	}
	out := make([]any, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, k := range keys {
		g.Go(func() error {
			// Fetch slots are shared by every context using the controller.
			if err := db.rc.AcquireFetch(gctx); err != nil {
				return err
			}
			defer db.rc.ReleaseFetch()
			v, err := db.Fetch(gctx, k, path, compression)
			out[i] = v
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Flush drops the cached contents of path.
func (db *DB) Flush(path string) {
	db.cache.Invalidate(cache.ForPath(path))
	db.logger.Debug("lazy-load file flushed", slog.String("path", path))
}

// Close releases the cache if the DB created it.
func (db *DB) Close() error {
	if db.ownsCache {
		return db.cache.Close()
	}
	return nil
}
