package vector

import (
	"math"

	"github.com/hupe1980/rvec/model"
)

// Seq is an arithmetic sequence start, start+stride, ... of length n.
// Sequences are read-only and always complete.
type Seq[N int32 | float64] struct {
	start  N
	stride N
	n      int
}

// NewSeq creates a sequence descriptor.
func NewSeq[N int32 | float64](start, stride N, n int) *Seq[N] {
	if n < 0 {
		model.Violation("seq", model.TypeOf[N]().String(), "negative length %d", n)
	}
	return &Seq[N]{start: start, stride: stride, n: n}
}

func (s *Seq[N]) isSeq() {}

// Start returns the first element.
func (s *Seq[N]) Start() N { return s.start }

// Stride returns the difference between consecutive elements.
func (s *Seq[N]) Stride() N { return s.stride }

// End returns the last element. It is undefined for empty sequences.
func (s *Seq[N]) End() N { return s.start + N(s.n-1)*s.stride }

func (s *Seq[N]) Type() model.ElementType { return model.TypeOf[N]() }

func (s *Seq[N]) Len() int { return s.n }

func (s *Seq[N]) Writeable() bool { return false }

func (s *Seq[N]) Complete() bool { return true }

func (s *Seq[N]) Sorted(descending, _ bool) bool {
	if descending {
		return s.stride < 0
	}
	return s.stride >= 0
}

func (s *Seq[N]) SetOwner(Owner) {}

func (s *Seq[N]) At(i int) N { return s.start + N(i)*s.stride }

func (s *Seq[N]) Element(i int) any { return s.At(i) }

func (s *Seq[N]) Cursor() *Cursor[N] {
	c := s.SeqCursor()
	return funcCursor(s.n, c.ValueAt)
}

// SeqCursor returns a cursor that computes elements from the sequence
// parameters instead of reading a buffer.
func (s *Seq[N]) SeqCursor() *SeqCursor[N] {
	return &SeqCursor[N]{start: s.start, stride: s.stride, n: s.n, i: -1}
}

func (s *Seq[N]) Region(start int, buf []N) int {
	n := min(len(buf), s.n-start)
	if n <= 0 {
		return 0
	}
	c := s.SeqCursor()
	c.Seek(start - 1)
	for i := 0; i < n && c.Next(); i++ {
		buf[i] = c.Value()
	}
	return n
}

// IndexOf returns the index of e in the sequence, or -1.
func (s *Seq[N]) IndexOf(e N) int {
	if s.n == 0 {
		return -1
	}
	lo, hi := s.start, s.End()
	if lo > hi {
		lo, hi = hi, lo
	}
	if e < lo || e > hi {
		return -1
	}
	if s.stride == 0 {
		if e == s.start {
			return 0
		}
		return -1
	}
	// Doubles are matched against the computed element, so start+i*stride
	// always maps back to i even when the division rounds.
	i := int(math.Round(float64(e-s.start) / float64(s.stride)))
	if i < 0 || i >= s.n || s.At(i) != e {
		return -1
	}
	return i
}

func (s *Seq[N]) Materialize() *Dense[N] {
	data := make([]N, s.n)
	s.Region(0, data)
	return NewDense(data, true)
}

func (s *Seq[N]) MaterializeStore() Store { return s.Materialize() }

// Copy returns an identical descriptor.
func (s *Seq[N]) Copy(bool) Typed[N] {
	c := *s
	return &c
}

func (s *Seq[N]) CopyStore(deep bool) Store { return s.Copy(deep) }

func (s *Seq[N]) CopyResized(n int, _ bool, fillNA bool) *Dense[N] {
	return resize[N](s, n, fillNA, true)
}

func (s *Seq[N]) CopyResizedStore(n int, deep, fillNA bool) Store {
	return s.CopyResized(n, deep, fillNA)
}

// SeqCursor walks a sequence without materializing it. Like Cursor it starts
// before the first element.
type SeqCursor[N int32 | float64] struct {
	start  N
	stride N
	cur    N
	n      int
	i      int
}

// Len returns the number of elements.
func (c *SeqCursor[N]) Len() int { return c.n }

// Index returns the current position.
func (c *SeqCursor[N]) Index() int { return c.i }

// Next advances and reports whether an element is available.
func (c *SeqCursor[N]) Next() bool {
	c.i++
	if c.i >= c.n {
		return false
	}
	c.cur = c.ValueAt(c.i)
	return true
}

// NextWithWrap advances, returning to the start after the last element.
// The cursor must not be empty.
func (c *SeqCursor[N]) NextWithWrap() {
	c.i++
	if c.i >= c.n {
		c.i = 0
	}
	c.cur = c.ValueAt(c.i)
}

// Value returns the element at the current position.
func (c *SeqCursor[N]) Value() N { return c.cur }

// ValueAt returns element i without moving the cursor.
func (c *SeqCursor[N]) ValueAt(i int) N { return c.start + N(i)*c.stride }

// Seek positions the cursor at i.
func (c *SeqCursor[N]) Seek(i int) {
	c.i = i
	if i >= 0 && i < c.n {
		c.cur = c.ValueAt(i)
	}
}

// Reset positions the cursor before the first element.
func (c *SeqCursor[N]) Reset() {
	c.i = -1
	c.cur = 0
}
