package altrep

import (
	"io"
	"math"

	"github.com/hupe1980/rvec/model"
	"github.com/hupe1980/rvec/vector"
)

// HookKind identifies one optional method of a class.
type HookKind int

const (
	HookLength HookKind = iota
	HookDuplicate
	HookCoerce
	HookSerializedState
	HookUnserialize
	HookInspect
	HookDataptr
	HookDataptrOrNull
	HookExtractSubset
	HookElt
	HookGetRegion
	HookIsSorted
	HookNoNA
	HookSum
	HookMin
	HookMax
	HookSetElt

	numHooks
)

var hookNames = [numHooks]string{
	"Length", "Duplicate", "Coerce", "Serialized_state", "Unserialize", "Inspect",
	"Dataptr", "Dataptr_or_null", "Extract_subset", "Elt", "Get_region",
	"Is_sorted", "No_NA", "Sum", "Min", "Max", "Set_elt",
}

func (k HookKind) String() string {
	if k < 0 || k >= numHooks {
		return "invalid"
	}
	return hookNames[k]
}

// ParseHookKind maps a method name such as "Get_region" to its kind.
func ParseHookKind(s string) (HookKind, bool) {
	for i, n := range hookNames {
		if n == s {
			return HookKind(i), true
		}
	}
	return 0, false
}

// typed reports whether the method signature depends on the element type.
func (k HookKind) typed() bool {
	switch k {
	case HookDataptr, HookDataptrOrNull, HookElt, HookGetRegion, HookSetElt:
		return true
	}
	return false
}

// Sortedness is the result of an Is_sorted method.
type Sortedness int32

const (
	SortednessUnknown   Sortedness = math.MinInt32
	KnownUnsorted       Sortedness = 0
	SortedIncreasing    Sortedness = 1
	SortedDecreasing    Sortedness = -1
	SortedIncreasingNA1 Sortedness = 2
	SortedDecreasingNA1 Sortedness = -2
)

// Matches reports whether s satisfies the requested order.
func (s Sortedness) Matches(descending, naLast bool) bool {
	want := SortedIncreasing
	if descending {
		want = SortedDecreasing
	}
	if !naLast {
		want *= 2
	}
	return s == want
}

// Method signatures. They are aliases so that plain function literals can be
// passed to SetHook. A nil result from Duplicate, Coerce, ExtractSubset or the
// summary methods selects the default behavior.
type (
	LengthFunc          = func(x *Instance) int
	DuplicateFunc       = func(x *Instance, deep bool) (*Instance, error)
	CoerceFunc          = func(x *Instance, to model.ElementType) (*vector.Vector, error)
	SerializedStateFunc = func(x *Instance) (any, error)
	UnserializeFunc     = func(c *Class, state any) (*Instance, error)
	InspectFunc         = func(x *Instance, w io.Writer) bool
	ExtractSubsetFunc   = func(x *Instance, indices []int) (*vector.Vector, error)
	IsSortedFunc        = func(x *Instance) Sortedness
	NoNAFunc            = func(x *Instance) bool
	SummaryFunc         = func(x *Instance, naRM bool) (*vector.Vector, error)

	EltFunc[T any]           = func(x *Instance, i int) (T, error)
	SetEltFunc[T any]        = func(x *Instance, i int, v T) error
	GetRegionFunc[T any]     = func(x *Instance, start int, buf []T) (int, error)
	DataptrFunc[T any]       = func(x *Instance, writeable bool) ([]T, error)
	DataptrOrNullFunc[T any] = func(x *Instance) []T
)

func checkUntyped(k HookKind, fn any) bool {
	switch k {
	case HookLength:
		_, ok := fn.(LengthFunc)
		return ok
	case HookDuplicate:
		_, ok := fn.(DuplicateFunc)
		return ok
	case HookCoerce:
		_, ok := fn.(CoerceFunc)
		return ok
	case HookSerializedState:
		_, ok := fn.(SerializedStateFunc)
		return ok
	case HookUnserialize:
		_, ok := fn.(UnserializeFunc)
		return ok
	case HookInspect:
		_, ok := fn.(InspectFunc)
		return ok
	case HookExtractSubset:
		_, ok := fn.(ExtractSubsetFunc)
		return ok
	case HookIsSorted:
		_, ok := fn.(IsSortedFunc)
		return ok
	case HookNoNA:
		_, ok := fn.(NoNAFunc)
		return ok
	case HookSum, HookMin, HookMax:
		_, ok := fn.(SummaryFunc)
		return ok
	}
	return false
}

func checkTyped[T any](k HookKind, fn any) bool {
	switch k {
	case HookElt:
		_, ok := fn.(EltFunc[T])
		return ok
	case HookSetElt:
		_, ok := fn.(SetEltFunc[T])
		return ok
	case HookGetRegion:
		_, ok := fn.(GetRegionFunc[T])
		return ok
	case HookDataptr:
		_, ok := fn.(DataptrFunc[T])
		return ok
	case HookDataptrOrNull:
		_, ok := fn.(DataptrOrNullFunc[T])
		return ok
	}
	return false
}

func checkHook(typ model.ElementType, k HookKind, fn any) bool {
	if !k.typed() {
		return checkUntyped(k, fn)
	}
	switch typ {
	case model.TypeLogical:
		return checkTyped[model.Logical](k, fn)
	case model.TypeInteger:
		return checkTyped[int32](k, fn)
	case model.TypeDouble:
		return checkTyped[float64](k, fn)
	case model.TypeComplex:
		return checkTyped[complex128](k, fn)
	case model.TypeString:
		return checkTyped[string](k, fn)
	case model.TypeRaw:
		return checkTyped[byte](k, fn)
	case model.TypeList:
		return checkTyped[any](k, fn)
	}
	return false
}
