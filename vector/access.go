package vector

import (
	"github.com/hupe1980/rvec/internal/bitmap"
	"github.com/hupe1980/rvec/internal/nacheck"
	"github.com/hupe1980/rvec/model"
)

// As returns the typed store of v.
func As[T any](v *Vector) Typed[T] { return TypedOf[T](v.store) }

// At returns element i of v.
func At[T any](v *Vector, i int) T { return TypedOf[T](v.store).At(i) }

// CursorOf returns a read cursor over v.
func CursorOf[T any](v *Vector) *Cursor[T] { return TypedOf[T](v.store).Cursor() }

// Data returns the elements of v as a slice. For dense vectors this is the
// backing buffer and must not be modified.
func Data[T any](v *Vector) []T {
	return TypedOf[T](v.store).Materialize().ReadonlyData()
}

// WriteCursorOf opens a write session on v, which must be temporary and dense.
func WriteCursorOf[T any](v *Vector) *WriteCursor[T] {
	v.checkWriteable("writeIterator")
	d, ok := v.store.(*Dense[T])
	if !ok {
		model.Violation("writeIterator", v.typ.String(), "store does not hold %s elements", model.TypeOf[T]())
	}
	return d.WriteCursor()
}

// Set writes x at i. v must be temporary and dense.
func Set[T any](v *Vector, i int, x T) {
	v.checkWriteable("set")
	d, ok := v.store.(*Dense[T])
	if !ok {
		model.Violation("set", v.typ.String(), "store does not hold %s elements", model.TypeOf[T]())
	}
	d.Set(i, x)
}

// Update writes x at i, duplicating v first if it cannot be written in place.
// It returns the vector that holds the write.
func Update[T any](v *Vector, i int, x T) *Vector {
	v = v.Reuse()
	Set(v, i, x)
	return v
}

// NAPositions returns the positions of NA elements.
func NAPositions(v *Vector) *bitmap.Bitmap {
	switch v.typ {
	case model.TypeLogical:
		return naPositions[model.Logical](v)
	case model.TypeInteger:
		return naPositions[int32](v)
	case model.TypeDouble:
		return naPositions[float64](v)
	case model.TypeComplex:
		return naPositions[complex128](v)
	case model.TypeString:
		return naPositions[string](v)
	default:
		return bitmap.New()
	}
}

func naPositions[T any](v *Vector) *bitmap.Bitmap {
	na := nacheck.ForSource(v.complete)
	na.TrackPositions()
	if !na.Enabled() {
		return na.Positions()
	}
	c := CursorOf[T](v)
	for c.Next() {
		nacheck.CheckAt(na, c.Index(), c.Value())
	}
	return na.Positions()
}

// AsDouble returns v if it is double, otherwise a double view of it.
func AsDouble(v *Vector) *Vector {
	if v.typ == model.TypeDouble {
		return v
	}
	return NewDoubleClosure(v)
}

// AsInt returns v if it is integer, otherwise an integer view of it.
func AsInt(v *Vector) *Vector {
	if v.typ == model.TypeInteger {
		return v
	}
	return NewIntClosure(v)
}

// AsString returns v if it is character, otherwise a character view of it.
func AsString(v *Vector) *Vector {
	if v.typ == model.TypeString {
		return v
	}
	return NewStringClosure(v)
}
