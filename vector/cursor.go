package vector

import (
	"iter"

	"github.com/hupe1980/rvec/internal/nacheck"
	"github.com/hupe1980/rvec/model"
)

// Cursor iterates over the elements of a store. Dense stores are read straight
// from the buffer; other stores through a per-store element function.
//
// A new cursor is positioned before the first element.
type Cursor[T any] struct {
	data  []T
	at    func(int) T
	dense bool
	n     int
	i     int
}

func sliceCursor[T any](data []T) *Cursor[T] {
	return &Cursor[T]{data: data, dense: true, n: len(data), i: -1}
}

func funcCursor[T any](n int, at func(int) T) *Cursor[T] {
	return &Cursor[T]{at: at, n: n, i: -1}
}

// NewFuncCursor returns a cursor over n elements read through at. Stores
// implemented outside this package use it to satisfy Typed.
func NewFuncCursor[T any](n int, at func(int) T) *Cursor[T] { return funcCursor(n, at) }

// Len returns the number of elements.
func (c *Cursor[T]) Len() int { return c.n }

// Index returns the current position.
func (c *Cursor[T]) Index() int { return c.i }

// Next advances and reports whether an element is available.
func (c *Cursor[T]) Next() bool {
	c.i++
	return c.i < c.n
}

// NextWithWrap advances, returning to index 0 after the last element.
// It is used to recycle a shorter operand against a longer one; the
// cursor must not be empty.
func (c *Cursor[T]) NextWithWrap() {
	c.i++
	if c.i >= c.n {
		c.i = 0
	}
}

// Value returns the element at the current position.
func (c *Cursor[T]) Value() T {
	if c.dense {
		return c.data[c.i]
	}
	return c.at(c.i)
}

// ValueAt returns element i without moving the cursor.
func (c *Cursor[T]) ValueAt(i int) T {
	if c.dense {
		return c.data[i]
	}
	return c.at(i)
}

// Seek positions the cursor at i.
func (c *Cursor[T]) Seek(i int) { c.i = i }

// Reset positions the cursor before the first element.
func (c *Cursor[T]) Reset() { c.i = -1 }

// All iterates over the remaining (index, value) pairs.
func (c *Cursor[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for c.Next() {
			if !yield(c.i, c.Value()) {
				return
			}
		}
	}
}

// WriteCursor is an open write session on a dense store.
type WriteCursor[T any] struct {
	d    *Dense[T]
	na   *nacheck.Checker
	i    int
	done bool
}

// Len returns the number of elements.
func (w *WriteCursor[T]) Len() int { return len(w.d.data) }

// Index returns the current position.
func (w *WriteCursor[T]) Index() int { return w.i }

// Next advances and reports whether an element is available.
func (w *WriteCursor[T]) Next() bool {
	w.i++
	return w.i < len(w.d.data)
}

// Value returns the element at the current position.
func (w *WriteCursor[T]) Value() T { return w.d.data[w.i] }

// Set writes v at the current position.
func (w *WriteCursor[T]) Set(v T) {
	w.SetAt(w.i, v)
}

// SetAt writes v at position i.
func (w *WriteCursor[T]) SetAt(i int, v T) {
	if w.done {
		model.Violation("write", w.d.Type().String(), "write after commit")
	}
	nacheck.Check(w.na, v)
	w.d.data[i] = v
}

// SeenNA reports whether NA has been written in this session.
func (w *WriteCursor[T]) SeenNA() bool { return w.na.SeenNA() }

// Commit closes the session. If NA was written the store becomes incomplete.
func (w *WriteCursor[T]) Commit() {
	if w.done {
		model.Violation("commit", w.d.Type().String(), "write session already committed")
	}
	w.done = true
	w.d.commitWrites(w.na.NeverSeenNA())
}
