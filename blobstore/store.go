package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations return an error that satisfies errors.Is(err, ErrNotFound).
var ErrNotFound = os.ErrNotExist

// Store is the storage abstraction for immutable blobs.
type Store interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
	// Create opens a blob for streaming writes. The blob becomes visible on Close.
	Create(ctx context.Context, name string) (WritableBlob, error)
	// Put writes a blob atomically.
	Put(ctx context.Context, name string, data []byte) error
	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
	// List returns the sorted names starting with prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to a blob.
type Blob interface {
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)
	ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error)
	Size() int64
	io.Closer
}

// WritableBlob is a blob being written.
type WritableBlob interface {
	io.WriteCloser
	Sync() error
}

// Mappable is implemented by blobs whose bytes are directly addressable.
type Mappable interface {
	// Bytes returns the blob contents. The slice is valid until Close.
	Bytes() ([]byte, error)
}

// ReadAll reads a whole blob. The result is always a private copy.
func ReadAll(ctx context.Context, s Store, name string) ([]byte, error) {
	b, err := s.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = b.Close() }()

	data, err := ReadBlob(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// ReadBlob reads the whole of an open blob into a private copy.
func ReadBlob(ctx context.Context, b Blob) ([]byte, error) {
	if m, ok := b.(Mappable); ok {
		data, err := m.Bytes()
		if err != nil {
			return nil, err
		}
		return append([]byte(nil), data...), nil
	}

	buf := make([]byte, b.Size())
	if len(buf) == 0 {
		return buf, nil
	}
	n, err := b.ReadAt(ctx, buf, 0)
	if err != nil && !(errors.Is(err, io.EOF) && n == len(buf)) {
		return nil, err
	}
	if n != len(buf) {
		return nil, fmt.Errorf("short read %d of %d bytes", n, len(buf))
	}
	return buf, nil
}

// NopReadCloser wraps r with a no-op Close.
func NopReadCloser(r io.Reader) io.ReadCloser {
	return io.NopCloser(r)
}

// readAt copies data[off:] into p with io.ReaderAt semantics.
func readAt(data, p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("negative offset %d", off)
	}
	if off >= int64(len(data)) {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n := copy(p, data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// sliceRange returns data[off:off+length] clamped to the data.
func sliceRange(data []byte, off, length int64) []byte {
	if off < 0 || off >= int64(len(data)) || length <= 0 {
		return nil
	}
	end := min(off+length, int64(len(data)))
	return data[off:end]
}
