package cache

import "context"

// Kind separates key spaces.
type Kind uint8

const (
	KindUnknown Kind = iota
	// KindLazyLoad holds whole decompressed lazy-load database files.
	KindLazyLoad
	// KindIndex holds serialized lazy-load indexes.
	KindIndex
	// KindBlob holds raw blob store objects.
	KindBlob
)

// Key identifies a cached block.
type Key struct {
	Kind Kind
	// Path names the source, e.g. the database file.
	Path string
	// Offset is a logical block id within Path.
	Offset uint64
	// Version separates generations of the same Path.
	Version uint64
}

// BlockCache caches immutable byte blocks. Returned slices are read-only.
type BlockCache interface {
	Get(ctx context.Context, key Key) ([]byte, bool)
	Set(ctx context.Context, key Key, b []byte)
	Invalidate(predicate func(key Key) bool)
	Stats() (hits, misses int64)
	Close() error
}

// ForPath returns a predicate matching every key of path.
func ForPath(path string) func(Key) bool {
	return func(k Key) bool { return k.Path == path }
}
