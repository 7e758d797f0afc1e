package mmap

import (
	"io"
	"os"
	"sync/atomic"
	"unsafe"
)

// Mapping is a mapped file or an anonymous mapping. It owns the memory.
type Mapping struct {
	data     []byte
	size     int
	writable bool
	closed   atomic.Bool
	unmap    func([]byte) error
}

// Open maps the file at path read-only.
func Open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size := fi.Size()
	if size < 0 {
		return nil, ErrInvalidSize
	}
	if size == 0 {
		return &Mapping{}, nil
	}

	data, unmap, err := osMap(f, int(size))
	if err != nil {
		return nil, err
	}
	return &Mapping{data: data, size: int(size), unmap: unmap}, nil
}

// MapAnon creates a zeroed read-write mapping of size bytes.
func MapAnon(size int) (*Mapping, error) {
	if size < 0 {
		return nil, ErrInvalidSize
	}
	if size == 0 {
		return &Mapping{writable: true}, nil
	}
	data, unmap, err := osMapAnon(size)
	if err != nil {
		return nil, err
	}
	return &Mapping{data: data, size: size, writable: true, unmap: unmap}, nil
}

// Close unmaps the memory. It is idempotent.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	if m.unmap != nil && m.data != nil {
		return m.unmap(m.data)
	}
	return nil
}

// Closed reports whether Close was called.
func (m *Mapping) Closed() bool { return m.closed.Load() }

// Bytes returns the mapped memory, or nil after Close.
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Size returns the size of the mapping in bytes.
func (m *Mapping) Size() int { return m.size }

// Writable reports whether the mapping may be written.
func (m *Mapping) Writable() bool { return m.writable }

// Advise passes an access hint to the kernel.
func (m *Mapping) Advise(pattern AccessPattern) error {
	if m.closed.Load() {
		return ErrClosed
	}
	if m.data == nil {
		return nil
	}
	return osAdvise(m.data, pattern)
}

// ReadAt implements io.ReaderAt.
func (m *Mapping) ReadAt(p []byte, off int64) (int, error) {
	if m.closed.Load() {
		return 0, ErrClosed
	}
	if off < 0 {
		return 0, ErrInvalidOffset
	}
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Slice views the first n elements of type T in m. T must not contain
// pointers and m must hold at least n elements.
func Slice[T any](m *Mapping, n int) []T {
	if n == 0 || m.closed.Load() {
		return nil
	}
	var zero T
	if n*int(unsafe.Sizeof(zero)) > len(m.data) {
		panic(ErrOutOfBounds)
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&m.data[0])), n)
}
