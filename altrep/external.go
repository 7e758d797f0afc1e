package altrep

import (
	"github.com/hupe1980/rvec/model"
	"github.com/hupe1980/rvec/vector"
)

// Instance is the state of one external vector: its class and two opaque
// data slots owned by the implementor.
type Instance struct {
	class *Class
	data1 any
	data2 any
}

func (x *Instance) Class() *Class { return x.class }

func (x *Instance) Data1() any { return x.data1 }

func (x *Instance) Data2() any { return x.data2 }

func (x *Instance) SetData1(v any) { x.data1 = v }

func (x *Instance) SetData2(v any) { x.data2 = v }

// NewInstanceState returns an instance of c without wrapping it in a vector.
// Duplicate and Unserialize methods use it to build their results.
func NewInstanceState(c *Class, data1, data2 any) *Instance {
	return &Instance{class: c, data1: data1, data2: data2}
}

// regionBlock is the buffer size used when materializing through Get_region.
const regionBlock = 4096

// External is the backing store of an external vector.
type External[T any] struct {
	inst     *Instance
	complete bool
	owner    vector.Owner
	cache    *vector.Dense[T]
}

func newExternal[T any](inst *Instance) *External[T] {
	e := &External[T]{inst: inst}
	e.complete = !model.TypeOf[T]().HasNA() || e.NoNA()
	return e
}

// Instance returns the instance state.
func (e *External[T]) Instance() *Instance { return e.inst }

func (e *External[T]) class() *Class { return e.inst.class }

func (e *External[T]) Type() model.ElementType { return e.inst.class.typ }

func (e *External[T]) Len() int { return e.inst.class.length(e.inst) }

func (e *External[T]) Writeable() bool { return false }

func (e *External[T]) Complete() bool {
	if e.owner != nil {
		return e.owner.IsComplete()
	}
	return e.complete
}

// NoNA calls the No_NA method. Without one the answer is false.
func (e *External[T]) NoNA() bool {
	fn, _ := e.class().hook(HookNoNA).(NoNAFunc)
	if fn == nil {
		return false
	}
	return fn(e.inst)
}

// Sortedness calls the Is_sorted method.
func (e *External[T]) Sortedness() Sortedness {
	fn, _ := e.class().hook(HookIsSorted).(IsSortedFunc)
	if fn == nil {
		return SortednessUnknown
	}
	return fn(e.inst)
}

func (e *External[T]) Sorted(descending, naLast bool) bool {
	return e.Sortedness().Matches(descending, naLast)
}

func (e *External[T]) SetOwner(o vector.Owner) { e.owner = o }

// At returns element i through Elt, the data pointer, or a cached
// materialization, in that order. A failing method panics with *HookError.
func (e *External[T]) At(i int) T {
	c := e.class()
	if c.HasHook(HookElt) {
		v, err := c.hook(HookElt).(EltFunc[T])(e.inst, i)
		if err != nil {
			panic(c.fail(HookElt, err))
		}
		return v
	}
	if p := e.DataptrOrNull(); p != nil {
		return p[i]
	}
	if e.cache == nil {
		e.cache = e.materialize()
	}
	return e.cache.At(i)
}

func (e *External[T]) Element(i int) any { return e.At(i) }

func (e *External[T]) Cursor() *vector.Cursor[T] {
	if p := e.DataptrOrNull(); p != nil {
		return vector.NewDense(p, false).Cursor()
	}
	return vector.NewFuncCursor(e.Len(), e.At)
}

// Region reads through Get_region when available, otherwise element by element.
func (e *External[T]) Region(start int, buf []T) int {
	c := e.class()
	if c.HasHook(HookGetRegion) {
		n, err := c.hook(HookGetRegion).(GetRegionFunc[T])(e.inst, start, buf)
		if err != nil {
			panic(c.fail(HookGetRegion, err))
		}
		return n
	}
	n := min(len(buf), e.Len()-start)
	for i := range max(n, 0) {
		buf[i] = e.At(start + i)
	}
	return max(n, 0)
}

// DataptrOrNull returns the data pointer if the class can provide one
// without allocating, otherwise nil.
func (e *External[T]) DataptrOrNull() []T {
	c := e.class()
	if !c.HasHook(HookDataptrOrNull) {
		return nil
	}
	return c.hook(HookDataptrOrNull).(DataptrOrNullFunc[T])(e.inst)
}

// Dataptr returns the data pointer. Without a Dataptr method the vector is
// materialized and the materialization is returned.
func (e *External[T]) Dataptr(writeable bool) ([]T, error) {
	c := e.class()
	if c.HasHook(HookDataptr) {
		p, err := c.hook(HookDataptr).(DataptrFunc[T])(e.inst, writeable)
		if err != nil {
			return nil, c.fail(HookDataptr, err)
		}
		return p, nil
	}
	if e.cache == nil {
		e.cache = e.materialize()
	}
	return e.cache.ReadonlyData(), nil
}

// SetElt writes through the Set_elt method.
func (e *External[T]) SetElt(i int, v T) error {
	c := e.class()
	if !c.HasHook(HookSetElt) {
		model.Violation("setElt", c.typ.String(), "class %s::%s has no Set_elt method", c.pkg, c.name)
	}
	if err := c.hook(HookSetElt).(SetEltFunc[T])(e.inst, i, v); err != nil {
		return c.fail(HookSetElt, err)
	}
	e.cache = nil
	if model.IsNA(v) && e.owner != nil {
		e.owner.SetIncomplete()
	}
	return nil
}

func (e *External[T]) materialize() *vector.Dense[T] {
	c := e.class()
	n := e.Len()
	data := make([]T, n)

	p := e.DataptrOrNull()
	if p == nil && c.HasHook(HookDataptr) {
		var err error
		if p, err = e.Dataptr(false); err != nil {
			panic(err)
		}
	}
	switch {
	case p != nil:
		copy(data, p)
	case c.HasHook(HookGetRegion):
		for start := 0; start < n; start += regionBlock {
			end := min(start+regionBlock, n)
			if got := e.Region(start, data[start:end]); got < end-start {
				model.Violation("materialize", c.typ.String(), "Get_region of %s::%s returned %d of %d elements", c.pkg, c.name, got, end-start)
			}
		}
	case c.HasHook(HookElt):
		for i := range n {
			data[i] = e.At(i)
		}
	case n > 0:
		model.Violation("materialize", c.typ.String(), "class %s::%s has no Elt, Get_region or Dataptr method", c.pkg, c.name)
	}

	if e.Complete() {
		return vector.NewDense(data, true)
	}
	return vector.DenseOf(data)
}

// Materialize returns a new dense store holding every element.
func (e *External[T]) Materialize() *vector.Dense[T] {
	if e.cache != nil {
		return e.cache.Clone()
	}
	return e.materialize()
}

func (e *External[T]) MaterializeStore() vector.Store { return e.Materialize() }

// Copy calls the Duplicate method. Without one, or when it declines, the
// vector is materialized.
func (e *External[T]) Copy(deep bool) vector.Typed[T] {
	c := e.class()
	if c.HasHook(HookDuplicate) {
		dup, err := c.hook(HookDuplicate).(DuplicateFunc)(e.inst, deep)
		if err != nil {
			panic(c.fail(HookDuplicate, err))
		}
		if dup != nil {
			out := newExternal[T](dup)
			out.complete = out.complete || e.Complete()
			return out
		}
	}
	return e.Materialize()
}

func (e *External[T]) CopyStore(deep bool) vector.Store { return e.Copy(deep) }

func (e *External[T]) CopyResized(n int, deep, fillNA bool) *vector.Dense[T] {
	return e.Materialize().CopyResized(n, deep, fillNA)
}

func (e *External[T]) CopyResizedStore(n int, deep, fillNA bool) vector.Store {
	return e.CopyResized(n, deep, fillNA)
}

// NewInstance creates a vector of class c carrying data1 and data2.
func NewInstance[T any](c *Class, data1, data2 any) (*vector.Vector, error) {
	if model.TypeOf[T]() != c.typ {
		return nil, ErrTypeMismatch
	}
	return vector.FromStore(newExternal[T](NewInstanceState(c, data1, data2))), nil
}

// New creates a vector of class c, dispatching on the class element type.
func (c *Class) New(data1, data2 any) *vector.Vector {
	return wrap(NewInstanceState(c, data1, data2))
}

func wrap(x *Instance) *vector.Vector {
	return vector.FromStore(storeFor(x))
}

func storeFor(x *Instance) vector.Store {
	switch x.class.typ {
	case model.TypeLogical:
		return newExternal[model.Logical](x)
	case model.TypeInteger:
		return newExternal[int32](x)
	case model.TypeDouble:
		return newExternal[float64](x)
	case model.TypeComplex:
		return newExternal[complex128](x)
	case model.TypeString:
		return newExternal[string](x)
	case model.TypeRaw:
		return newExternal[byte](x)
	case model.TypeList:
		return newExternal[any](x)
	}
	model.Violation("newAltrep", x.class.typ.String(), "unsupported element type")
	return nil
}

var _ vector.Typed[float64] = (*External[float64])(nil)
