package vector

import (
	"github.com/hupe1980/rvec/model"
)

// Owner is the container a store reports its completeness through.
type Owner interface {
	IsComplete() bool
	SetIncomplete()
}

// Store is the type-erased capability contract of a backing store.
type Store interface {
	// Type returns the element type. It never changes.
	Type() model.ElementType
	// Len returns the number of elements.
	Len() int
	// Writeable reports whether the store supports in-place writes.
	Writeable() bool
	// Complete reports whether no element is NA.
	Complete() bool
	// Sorted reports whether the elements are known to be sorted.
	Sorted(descending, naLast bool) bool
	// SetOwner attaches the store to its container.
	SetOwner(o Owner)
	// MaterializeStore returns a dense store holding every element.
	MaterializeStore() Store
	// CopyStore returns an independent copy.
	CopyStore(deep bool) Store
	// CopyResizedStore returns a dense copy of length n.
	CopyResizedStore(n int, deep, fillNA bool) Store
	// Element returns element i boxed.
	Element(i int) any
}

// Typed is the capability contract for stores with element type T.
type Typed[T any] interface {
	Store
	// At returns element i. i is not bounds-checked.
	At(i int) T
	// Cursor returns a fresh read cursor positioned before the first element.
	Cursor() *Cursor[T]
	// Region copies elements starting at start into buf and returns the count.
	Region(start int, buf []T) int
	// Materialize returns a dense store holding every element. Dense stores
	// return themselves.
	Materialize() *Dense[T]
	// Copy returns an independent copy.
	Copy(deep bool) Typed[T]
	// CopyResized returns a dense copy of length n. Elements past the
	// original length are NA when fillNA is set and zero otherwise.
	CopyResized(n int, deep, fillNA bool) *Dense[T]
}

// TypedOf asserts that s holds elements of type T.
func TypedOf[T any](s Store) Typed[T] {
	t, ok := s.(Typed[T])
	if !ok {
		model.Violation("access", s.Type().String(), "store does not hold %s elements", model.TypeOf[T]())
	}
	return t
}

type seqStore interface {
	isSeq()
}

// IsSeq reports whether s is an arithmetic sequence.
func IsSeq(s Store) bool {
	_, ok := s.(seqStore)
	return ok
}

func regionByAt[T any](t Typed[T], start int, buf []T) int {
	n := min(len(buf), t.Len()-start)
	if n <= 0 {
		return 0
	}
	for i := range n {
		buf[i] = t.At(start + i)
	}
	return n
}

func resize[T any](t Typed[T], n int, fillNA bool, complete bool) *Dense[T] {
	data := make([]T, n)
	m := min(n, t.Len())
	t.Region(0, data[:m])
	if n > m && fillNA && model.TypeOf[T]().HasNA() {
		na := model.NA[T]()
		for i := m; i < n; i++ {
			data[i] = na
		}
		complete = false
	}
	return NewDense(data, complete)
}
