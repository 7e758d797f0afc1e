package blobstore

import (
	"context"
	"errors"
	"io"

	"github.com/hupe1980/rvec/internal/cache"
	"golang.org/x/sync/errgroup"
)

const defaultBlockSize = 64 << 10

// CachingStore wraps a Store and caches reads in fixed-size blocks.
type CachingStore struct {
	inner     Store
	cache     cache.BlockCache
	blockSize int64
}

// NewCachingStore creates a CachingStore. blockSize defaults to 64 KiB if <= 0.
func NewCachingStore(inner Store, c cache.BlockCache, blockSize int64) *CachingStore {
	if blockSize <= 0 {
		blockSize = defaultBlockSize
	}
	return &CachingStore{inner: inner, cache: c, blockSize: blockSize}
}

func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &cachingBlob{inner: b, cache: s.cache, name: name, blockSize: s.blockSize}, nil
}

func (s *CachingStore) invalidate(name string) {
	s.cache.Invalidate(func(k cache.Key) bool {
		return k.Kind == cache.KindBlob && k.Path == name
	})
}

func (s *CachingStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	s.invalidate(name)
	return s.inner.Create(ctx, name)
}

func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.invalidate(name)
	return s.inner.Put(ctx, name, data)
}

func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.invalidate(name)
	return s.inner.Delete(ctx, name)
}

func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

type cachingBlob struct {
	inner     Blob
	cache     cache.BlockCache
	name      string
	blockSize int64
}

func (b *cachingBlob) Size() int64 { return b.inner.Size() }

func (b *cachingBlob) Close() error { return b.inner.Close() }

func (b *cachingBlob) key(blk int64) cache.Key {
	return cache.Key{Kind: cache.KindBlob, Path: b.name, Offset: uint64(blk)}
}

// block returns block blk, reading it from the inner blob on a miss.
func (b *cachingBlob) block(ctx context.Context, blk int64) ([]byte, error) {
	if data, ok := b.cache.Get(ctx, b.key(blk)); ok {
		return data, nil
	}
	start := blk * b.blockSize
	n := min(b.blockSize, b.inner.Size()-start)
	if n <= 0 {
		return nil, io.EOF
	}
	data := make([]byte, n)
	read, err := b.inner.ReadAt(ctx, data, start)
	if err != nil && !(errors.Is(err, io.EOF) && int64(read) == n) {
		return nil, err
	}
	b.cache.Set(ctx, b.key(blk), data)
	return data, nil
}

func (b *cachingBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	size := b.inner.Size()
	if off >= size {
		return 0, io.EOF
	}
	end := min(off+int64(len(p)), size)
	first, last := off/b.blockSize, (end-1)/b.blockSize

	blocks := make([][]byte, last-first+1)
	g, gctx := errgroup.WithContext(ctx)
	for blk := first; blk <= last; blk++ {
		g.Go(func() error {
			data, err := b.block(gctx, blk)
			blocks[blk-first] = data
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	n := 0
	for i, data := range blocks {
		blkStart := (first + int64(i)) * b.blockSize
		from := max(off-blkStart, 0)
		n += copy(p[n:], data[from:])
	}
	if int64(n) < int64(len(p)) {
		return n, io.EOF
	}
	return n, nil
}

func (b *cachingBlob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	size := b.inner.Size()
	if off >= size || length <= 0 {
		return NopReadCloser(eofReader{}), nil
	}
	buf := make([]byte, min(length, size-off))
	n, err := b.ReadAt(ctx, buf, off)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return NopReadCloser(&sliceReader{data: buf[:n]}), nil
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }

type sliceReader struct {
	data []byte
}

func (r *sliceReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}
