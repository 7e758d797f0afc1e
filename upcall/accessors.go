package upcall

import (
	"github.com/hupe1980/rvec/altrep"
	"github.com/hupe1980/rvec/model"
	"github.com/hupe1980/rvec/value"
	"github.com/hupe1980/rvec/vector"
)

// Length is LENGTH.
func Length(v *vector.Vector) (n int, err error) {
	err = guard("LENGTH", func() { n = v.Len() })
	return n, err
}

// Elt reads element i: INTEGER_ELT, REAL_ELT, LOGICAL_ELT, STRING_ELT,
// COMPLEX_ELT, RAW_ELT and VECTOR_ELT.
func Elt[T any](v *vector.Vector, i int) (out T, err error) {
	err = guard("ELT", func() {
		if i < 0 || i >= v.Len() {
			model.Violation("ELT", v.Type().String(), "index %d out of bounds for length %d", i, v.Len())
		}
		out = vector.At[T](v, i)
	})
	return out, err
}

// SetElt writes element i: SET_STRING_ELT, SET_VECTOR_ELT and the numeric
// SET_*_ELT variants. External vectors use their Set_elt method; other
// vectors are materialized first. Writing NA marks v incomplete.
func SetElt[T any](v *vector.Vector, i int, x T) error {
	if altrep.IsExternal(v) {
		return altrep.SetElt(v, i, x)
	}
	return guard("SET_ELT", func() {
		requireMutable("SET_ELT", v)
		if i < 0 || i >= v.Len() {
			model.Violation("SET_ELT", v.Type().String(), "index %d out of bounds for length %d", i, v.Len())
		}
		v.MaterializeInPlace()
		d, ok := v.Store().(*vector.Dense[T])
		if !ok {
			model.Violation("SET_ELT", v.Type().String(), "vector does not hold %s elements", model.TypeOf[T]())
		}
		d.Set(i, x)
	})
}

// requireMutable refuses in-place writes to shared-permanent vectors.
// Transiently shared vectors stay writable from native code, which owns the
// NAMED bookkeeping of what it touches.
func requireMutable(op string, v *vector.Vector) {
	if v.Sharing() == model.SharedPermanent {
		model.Violation(op, v.Type().String(), "vector is shared-permanent; duplicate before writing")
	}
}

// GetRegion copies up to len(buf) elements starting at start: INTEGER_GET_REGION
// and friends.
func GetRegion[T any](v *vector.Vector, start int, buf []T) (int, error) {
	return altrep.GetRegion(v, start, buf)
}

// NoNA is INTEGER_NO_NA, REAL_NO_NA, LOGICAL_NO_NA and STRING_NO_NA.
func NoNA(v *vector.Vector) bool { return altrep.NoNA(v) }

// IsSorted is INTEGER_IS_SORTED and REAL_IS_SORTED.
func IsSorted(v *vector.Vector) altrep.Sortedness { return altrep.SortednessOf(v) }

// Duplicate is Rf_duplicate.
func Duplicate(x any) (out any, err error) {
	err = guard("Rf_duplicate", func() { out = value.Duplicate(x, true) })
	return out, err
}

// ShallowDuplicate is Rf_shallow_duplicate.
func ShallowDuplicate(x any) (out any, err error) {
	err = guard("Rf_shallow_duplicate", func() { out = value.Duplicate(x, false) })
	return out, err
}
