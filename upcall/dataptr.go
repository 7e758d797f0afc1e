package upcall

import (
	"unsafe"

	"github.com/hupe1980/rvec/altrep"
	"github.com/hupe1980/rvec/internal/mmap"
	"github.com/hupe1980/rvec/model"
	"github.com/hupe1980/rvec/vector"
)

type pin struct {
	bytes int64
	data  any
	unpin func() error
}

// Dataptr returns a pointer to the elements of v that native code may read
// and write.
//
// External vectors answer through their Dataptr method. Dense numeric, logical,
// complex and raw vectors are pinned into off-heap memory; character vectors
// and lists are materialized and their buffer is returned. In every case v is
// marked incomplete. Shared-permanent vectors are refused.
func Dataptr[T any](b *Bridge, v *vector.Vector) (out []T, err error) {
	if altrep.IsExternal(v) {
		err = guard("DATAPTR", func() {
			var e error
			out, e = altrep.Dataptr[T](v, true)
			if e != nil {
				panic(e)
			}
		})
		if err == nil {
			v.SetIncomplete()
		}
		return out, err
	}

	if err = guard("DATAPTR", func() { requireMutable("DATAPTR", v) }); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrClosed
	}
	if p, ok := b.pins[v]; ok {
		return p.data.([]T), nil
	}

	err = guard("DATAPTR", func() {
		if v.Type() != model.TypeOf[T]() {
			model.Violation("DATAPTR", v.Type().String(), "vector does not hold %s elements", model.TypeOf[T]())
		}
		v.MaterializeInPlace()
		switch v.Type() {
		case model.TypeString, model.TypeList:
			out = vector.Data[T](v)
		default:
			out = pinVector(b, v, vector.Data[T](v))
		}
		v.SetIncomplete()
	})
	return out, err
}

// pinVector copies src into an anonymous mapping and installs it as the
// store of v. b.mu must be held.
func pinVector[T any](b *Bridge, v *vector.Vector, src []T) []T {
	var zero T
	size := int64(len(src)) * int64(unsafe.Sizeof(zero))
	if err := b.rc.ReserveMemory(size); err != nil {
		panic(err)
	}
	m, err := mmap.MapAnon(int(size))
	if err != nil {
		b.rc.ReleaseMemory(size)
		panic(err)
	}
	data := mmap.Slice[T](m, len(src))
	copy(data, src)
	v.ReplaceStore(vector.NewDense(data, false))

	b.pins[v] = &pin{
		bytes: size,
		data:  data,
		unpin: func() error {
			heap := make([]T, len(data))
			copy(heap, data)
			v.ReplaceStore(vector.NewDense(heap, false))
			return m.Close()
		},
	}
	b.logger.Debug("vector pinned", "type", v.Type().String(), "len", len(src), "bytes", size)
	return data
}

// DataptrOrNull returns the data pointer of v if one exists without pinning,
// otherwise nil.
func DataptrOrNull[T any](b *Bridge, v *vector.Vector) []T {
	if altrep.IsExternal(v) {
		return altrep.DataptrOrNull[T](v)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if p, ok := b.pins[v]; ok {
		return p.data.([]T)
	}
	return nil
}

// IsPinned reports whether v lives in off-heap memory.
func (b *Bridge) IsPinned(v *vector.Vector) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.pins[v]
	return ok
}

// PinnedBytes returns the bytes currently pinned.
func (b *Bridge) PinnedBytes() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	var n int64
	for _, p := range b.pins {
		n += p.bytes
	}
	return n
}

// Unpin moves v back to managed memory and releases its budget.
func (b *Bridge) Unpin(v *vector.Vector) error {
	b.mu.Lock()
	p, ok := b.pins[v]
	delete(b.pins, v)
	b.mu.Unlock()
	if !ok {
		return nil
	}
	b.rc.ReleaseMemory(p.bytes)
	b.logger.Debug("vector unpinned", "type", v.Type().String(), "bytes", p.bytes)
	return p.unpin()
}
