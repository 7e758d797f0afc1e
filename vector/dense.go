package vector

import (
	"github.com/hupe1980/rvec/internal/nacheck"
	"github.com/hupe1980/rvec/model"
)

// Dense is a flat typed buffer.
type Dense[T any] struct {
	data     []T
	complete bool
	owner    Owner
	session  bool
}

// NewDense wraps data. complete must be false if data may contain NA.
func NewDense[T any](data []T, complete bool) *Dense[T] {
	return &Dense[T]{data: data, complete: complete}
}

// DenseOf wraps data, scanning it for NA.
func DenseOf[T any](data []T) *Dense[T] {
	complete := true
	if model.TypeOf[T]().HasNA() {
		na := nacheck.New()
		for _, v := range data {
			if nacheck.Check(na, v) {
				complete = false
				break
			}
		}
	}
	return NewDense(data, complete)
}

func (d *Dense[T]) Type() model.ElementType { return model.TypeOf[T]() }

func (d *Dense[T]) Len() int { return len(d.data) }

func (d *Dense[T]) Writeable() bool { return true }

func (d *Dense[T]) Complete() bool {
	if d.owner != nil {
		return d.owner.IsComplete()
	}
	return d.complete
}

// Sorted is unknown for dense buffers.
func (d *Dense[T]) Sorted(bool, bool) bool { return false }

func (d *Dense[T]) SetOwner(o Owner) { d.owner = o }

func (d *Dense[T]) At(i int) T { return d.data[i] }

func (d *Dense[T]) Element(i int) any { return d.data[i] }

// Set writes v at i outside of a write session. Writing NA marks the store
// incomplete immediately.
func (d *Dense[T]) Set(i int, v T) {
	if d.session {
		model.Violation("set", d.Type().String(), "write session open")
	}
	d.data[i] = v
	if model.IsNA(v) {
		d.markIncomplete()
	}
}

func (d *Dense[T]) Cursor() *Cursor[T] { return sliceCursor(d.data) }

func (d *Dense[T]) Region(start int, buf []T) int {
	if start >= len(d.data) {
		return 0
	}
	return copy(buf, d.data[start:])
}

func (d *Dense[T]) Materialize() *Dense[T] { return d }

func (d *Dense[T]) MaterializeStore() Store { return d }

// Clone duplicates the buffer. The copy is detached from any owner.
func (d *Dense[T]) Clone() *Dense[T] {
	data := make([]T, len(d.data))
	copy(data, d.data)
	return NewDense(data, d.Complete())
}

// Copy duplicates the buffer; deep and shallow copies are identical.
func (d *Dense[T]) Copy(bool) Typed[T] { return d.Clone() }

func (d *Dense[T]) CopyStore(bool) Store { return d.Clone() }

func (d *Dense[T]) CopyResized(n int, _ bool, fillNA bool) *Dense[T] {
	return resize[T](d, n, fillNA, d.Complete())
}

func (d *Dense[T]) CopyResizedStore(n int, deep, fillNA bool) Store {
	return d.CopyResized(n, deep, fillNA)
}

// ReadonlyData returns the backing buffer. Callers must not modify it.
func (d *Dense[T]) ReadonlyData() []T { return d.data }

// DataCopy returns a copy of the backing buffer.
func (d *Dense[T]) DataCopy() []T {
	out := make([]T, len(d.data))
	copy(out, d.data)
	return out
}

// WriteCursor opens a write session. Only one session may be open at a time.
func (d *Dense[T]) WriteCursor() *WriteCursor[T] {
	if d.session {
		model.Violation("writeIterator", d.Type().String(), "write session already open")
	}
	d.session = true
	return &WriteCursor[T]{d: d, na: nacheck.New(), i: -1}
}

// InSession reports whether a write session is open.
func (d *Dense[T]) InSession() bool { return d.session }

func (d *Dense[T]) commitWrites(neverSeenNA bool) {
	d.session = false
	if !neverSeenNA {
		d.markIncomplete()
	}
}

func (d *Dense[T]) markIncomplete() {
	d.complete = false
	if d.owner != nil {
		d.owner.SetIncomplete()
	}
}
