package altrep

import (
	"errors"
	"io"

	"github.com/hupe1980/rvec/model"
	"github.com/hupe1980/rvec/vector"
)

type externalStore interface {
	vector.Store
	Instance() *Instance
	NoNA() bool
	Sortedness() Sortedness
}

// InstanceOf returns the instance behind v, if v has an external representation.
func InstanceOf(v *vector.Vector) (*Instance, bool) {
	e, ok := v.Store().(externalStore)
	if !ok {
		return nil, false
	}
	return e.Instance(), true
}

// IsExternal reports whether v has an external representation.
func IsExternal(v *vector.Vector) bool {
	_, ok := v.Store().(externalStore)
	return ok
}

// ClassOf returns the class of v, or nil.
func ClassOf(v *vector.Vector) *Class {
	x, ok := InstanceOf(v)
	if !ok {
		return nil
	}
	return x.class
}

// Inherits reports whether v is an instance of c.
func Inherits(v *vector.Vector, c *Class) bool {
	return c != nil && ClassOf(v) == c
}

// NoNA reports whether v is known to contain no NA. Vectors without an
// external representation answer from their completeness flag.
func NoNA(v *vector.Vector) bool {
	if e, ok := v.Store().(externalStore); ok {
		return v.IsComplete() || e.NoNA()
	}
	return v.IsComplete()
}

// SortednessOf returns the sortedness of v. Sequences are sorted by stride;
// dense vectors are unknown.
func SortednessOf(v *vector.Vector) Sortedness {
	if e, ok := v.Store().(externalStore); ok {
		return e.Sortedness()
	}
	s := v.Store()
	switch {
	case s.Sorted(false, true):
		return SortedIncreasing
	case s.Sorted(true, true):
		return SortedDecreasing
	}
	return SortednessUnknown
}

// Elt reads element i of an external vector without panicking on method failure.
func Elt[T any](v *vector.Vector, i int) (out T, err error) {
	err = model.Catch(func() { out = vector.At[T](v, i) })
	return out, err
}

// SetElt writes element i through the Set_elt method. Shared-permanent
// vectors are never written.
func SetElt[T any](v *vector.Vector, i int, x T) (err error) {
	e, ok := v.Store().(*External[T])
	if !ok {
		return ErrNotExternal
	}
	if cerr := model.Catch(func() {
		requireMutable("setElt", v)
		err = e.SetElt(i, x)
	}); cerr != nil {
		return cerr
	}
	return err
}

func requireMutable(op string, v *vector.Vector) {
	if v.Sharing() == model.SharedPermanent {
		model.Violation(op, v.Type().String(), "vector is shared-permanent; duplicate before writing")
	}
}

// GetRegion reads up to len(buf) elements starting at start.
func GetRegion[T any](v *vector.Vector, start int, buf []T) (n int, err error) {
	err = model.Catch(func() { n = vector.As[T](v).Region(start, buf) })
	return n, err
}

// Dataptr returns the data pointer of an external vector. A writeable
// pointer is refused for shared-permanent vectors.
func Dataptr[T any](v *vector.Vector, writeable bool) (out []T, err error) {
	e, ok := v.Store().(*External[T])
	if !ok {
		return nil, ErrNotExternal
	}
	if writeable {
		if cerr := model.Catch(func() { requireMutable("dataptr", v) }); cerr != nil {
			return nil, cerr
		}
	}
	return e.Dataptr(writeable)
}

// DataptrOrNull returns the data pointer of an external vector if it is
// available without allocation.
func DataptrOrNull[T any](v *vector.Vector) []T {
	e, ok := v.Store().(*External[T])
	if !ok {
		return nil
	}
	return e.DataptrOrNull()
}

func summary(k HookKind, v *vector.Vector, naRM bool) (*vector.Vector, bool, error) {
	x, ok := InstanceOf(v)
	if !ok || !x.class.HasHook(k) {
		return nil, false, nil
	}
	out, err := x.class.hook(k).(SummaryFunc)(x, naRM)
	if err != nil {
		return nil, false, x.class.fail(k, err)
	}
	return out, out != nil, nil
}

// Sum calls the Sum method of v. ok is false when v has no such method or
// the method declined, in which case the caller computes the result itself.
func Sum(v *vector.Vector, naRM bool) (*vector.Vector, bool, error) { return summary(HookSum, v, naRM) }

// Min is Sum for the Min method.
func Min(v *vector.Vector, naRM bool) (*vector.Vector, bool, error) { return summary(HookMin, v, naRM) }

// Max is Sum for the Max method.
func Max(v *vector.Vector, naRM bool) (*vector.Vector, bool, error) { return summary(HookMax, v, naRM) }

// Coerce converts v to typ through the Coerce method. Without one, or when it
// declines, a coercing view is returned for atomic targets.
func Coerce(v *vector.Vector, typ model.ElementType) (*vector.Vector, error) {
	if x, ok := InstanceOf(v); ok && x.class.HasHook(HookCoerce) {
		out, err := x.class.hook(HookCoerce).(CoerceFunc)(x, typ)
		if err != nil {
			return nil, x.class.fail(HookCoerce, err)
		}
		if out != nil {
			return out, nil
		}
	}
	if v.Type() == typ {
		return v, nil
	}
	var out *vector.Vector
	err := model.Catch(func() {
		switch typ {
		case model.TypeDouble:
			out = vector.NewDoubleClosure(v)
		case model.TypeInteger:
			out = vector.NewIntClosure(v)
		case model.TypeLogical:
			out = vector.NewLogicalClosure(v)
		case model.TypeString:
			out = vector.NewStringClosure(v)
		default:
			model.Violation("coerce", v.Type().String(), "cannot coerce to %s", typ)
		}
	})
	return out, err
}

// ExtractSubset returns the elements of v at indices. Without an
// Extract_subset method the elements are read one by one.
func ExtractSubset(v *vector.Vector, indices []int) (*vector.Vector, error) {
	if x, ok := InstanceOf(v); ok && x.class.HasHook(HookExtractSubset) {
		out, err := x.class.hook(HookExtractSubset).(ExtractSubsetFunc)(x, indices)
		if err != nil {
			return nil, x.class.fail(HookExtractSubset, err)
		}
		if out != nil {
			return out, nil
		}
	}
	var out *vector.Vector
	err := model.Catch(func() {
		out = vector.Alloc(v.Type(), len(indices))
		s := v.Store()
		for i, idx := range indices {
			setBoxed(out, i, s.Element(idx))
		}
	})
	return out, err
}

func setBoxed(v *vector.Vector, i int, x any) {
	switch x := x.(type) {
	case model.Logical:
		vector.Set(v, i, x)
	case int32:
		vector.Set(v, i, x)
	case float64:
		vector.Set(v, i, x)
	case complex128:
		vector.Set(v, i, x)
	case string:
		vector.Set(v, i, x)
	case byte:
		vector.Set(v, i, x)
	default:
		vector.Set[any](v, i, x)
	}
}

// Inspect writes a description of v through the Inspect method and reports
// whether the method handled it.
func Inspect(v *vector.Vector, w io.Writer) bool {
	x, ok := InstanceOf(v)
	if !ok || !x.class.HasHook(HookInspect) {
		return false
	}
	return x.class.hook(HookInspect).(InspectFunc)(x, w)
}

// SerializedState returns the state to serialize for v. ok is false when the
// class has no Serialized_state method, in which case v is serialized by value.
func SerializedState(v *vector.Vector) (state any, ok bool, err error) {
	x, isExt := InstanceOf(v)
	if !isExt || !x.class.HasHook(HookSerializedState) || !x.class.HasHook(HookUnserialize) {
		return nil, false, nil
	}
	state, err = x.class.hook(HookSerializedState).(SerializedStateFunc)(x)
	if err != nil {
		return nil, false, x.class.fail(HookSerializedState, err)
	}
	return state, true, nil
}

// Unserialize rebuilds a vector of class c from state.
func Unserialize(c *Class, state any) (*vector.Vector, error) {
	if !c.HasHook(HookUnserialize) {
		return nil, c.fail(HookUnserialize, ErrMissingHook)
	}
	x, err := c.hook(HookUnserialize).(UnserializeFunc)(c, state)
	if err != nil {
		return nil, c.fail(HookUnserialize, err)
	}
	if x == nil {
		return nil, c.fail(HookUnserialize, errors.New("no instance returned"))
	}
	x.class = c
	return wrap(x), nil
}
