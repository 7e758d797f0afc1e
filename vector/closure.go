package vector

import (
	"github.com/hupe1980/rvec/internal/nacheck"
	"github.com/hupe1980/rvec/model"
)

// Closure is a read-only view that coerces every element of a delegate vector
// on read.
type Closure[T any] struct {
	delegate *Vector
	read     func(i int) T
	complete bool
	owner    Owner
}

func newClosure[S, T any](delegate *Vector, conv func(S) T, mayIntroduceNA bool) *Closure[T] {
	delegate.Share()
	return &Closure[T]{
		delegate: delegate,
		read: func(i int) T {
			return conv(TypedOf[S](delegate.store).At(i))
		},
		complete: delegate.IsComplete() && !mayIntroduceNA,
	}
}

// Delegate returns the wrapped vector.
func (c *Closure[T]) Delegate() *Vector { return c.delegate }

func (c *Closure[T]) Type() model.ElementType { return model.TypeOf[T]() }

func (c *Closure[T]) Len() int { return c.delegate.Len() }

func (c *Closure[T]) Writeable() bool { return false }

func (c *Closure[T]) Complete() bool {
	if c.owner != nil {
		return c.owner.IsComplete()
	}
	return c.complete
}

func (c *Closure[T]) Sorted(bool, bool) bool { return false }

func (c *Closure[T]) SetOwner(o Owner) { c.owner = o }

func (c *Closure[T]) At(i int) T { return c.read(i) }

func (c *Closure[T]) Element(i int) any { return c.read(i) }

func (c *Closure[T]) Cursor() *Cursor[T] { return funcCursor(c.Len(), c.read) }

func (c *Closure[T]) Region(start int, buf []T) int { return regionByAt[T](c, start, buf) }

// Materialize evaluates every element into a new dense store.
func (c *Closure[T]) Materialize() *Dense[T] {
	n := c.Len()
	data := make([]T, n)
	na := nacheck.New()
	for i := range n {
		data[i] = c.read(i)
		nacheck.Check(na, data[i])
	}
	return NewDense(data, na.NeverSeenNA())
}

func (c *Closure[T]) MaterializeStore() Store { return c.Materialize() }

// Copy shares the delegate for shallow copies. Deep copies are materialized
// so the result never aliases the delegate.
func (c *Closure[T]) Copy(deep bool) Typed[T] {
	if deep {
		return c.Materialize()
	}
	c.delegate.Share()
	return &Closure[T]{delegate: c.delegate, read: c.read, complete: c.Complete()}
}

func (c *Closure[T]) CopyStore(deep bool) Store { return c.Copy(deep) }

// CopyResized is not supported on closures.
func (c *Closure[T]) CopyResized(int, bool, bool) *Dense[T] {
	model.Violation("copyResized", c.Type().String(), "closure store cannot be resized")
	return nil
}

func (c *Closure[T]) CopyResizedStore(n int, deep, fillNA bool) Store {
	return c.CopyResized(n, deep, fillNA)
}

// NewDoubleClosure returns a double view of an integer, logical or double vector.
func NewDoubleClosure(delegate *Vector) *Vector {
	switch delegate.Type() {
	case model.TypeInteger:
		return FromStore(newClosure(delegate, IntToDouble, false))
	case model.TypeLogical:
		return FromStore(newClosure(delegate, LogicalToDouble, false))
	case model.TypeDouble:
		return FromStore(newClosure(delegate, func(x float64) float64 { return x }, false))
	}
	model.Violation("closure", delegate.Type().String(), "cannot view as double")
	return nil
}

// NewIntClosure returns an integer view of a logical or double vector.
func NewIntClosure(delegate *Vector) *Vector {
	switch delegate.Type() {
	case model.TypeLogical:
		return FromStore(newClosure(delegate, LogicalToInt, false))
	case model.TypeDouble:
		return FromStore(newClosure(delegate, DoubleToInt, true))
	}
	model.Violation("closure", delegate.Type().String(), "cannot view as integer")
	return nil
}

// NewLogicalClosure returns a logical view of an integer or double vector.
func NewLogicalClosure(delegate *Vector) *Vector {
	switch delegate.Type() {
	case model.TypeInteger:
		return FromStore(newClosure(delegate, IntToLogical, false))
	case model.TypeDouble:
		return FromStore(newClosure(delegate, DoubleToLogical, true))
	}
	model.Violation("closure", delegate.Type().String(), "cannot view as logical")
	return nil
}

// NewStringClosure returns a character view of a logical, integer or double vector.
func NewStringClosure(delegate *Vector) *Vector {
	switch delegate.Type() {
	case model.TypeLogical:
		return FromStore(newClosure(delegate, LogicalToString, false))
	case model.TypeInteger:
		return FromStore(newClosure(delegate, IntToString, false))
	case model.TypeDouble:
		return FromStore(newClosure(delegate, DoubleToString, false))
	}
	model.Violation("closure", delegate.Type().String(), "cannot view as character")
	return nil
}
