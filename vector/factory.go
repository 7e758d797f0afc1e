package vector

import (
	"github.com/hupe1980/rvec/model"
)

// Of wraps data in a new dense container, scanning it for NA.
func Of[T any](data ...T) *Vector {
	return FromStore(DenseOf(data))
}

// NewInt wraps data in an integer vector.
func NewInt(data []int32) *Vector { return FromStore(DenseOf(data)) }

// NewDouble wraps data in a double vector.
func NewDouble(data []float64) *Vector { return FromStore(DenseOf(data)) }

// NewLogical wraps data in a logical vector.
func NewLogical(data []model.Logical) *Vector { return FromStore(DenseOf(data)) }

// NewString wraps data in a character vector.
func NewString(data []string) *Vector { return FromStore(DenseOf(data)) }

// NewComplex wraps data in a complex vector.
func NewComplex(data []complex128) *Vector { return FromStore(DenseOf(data)) }

// NewRaw wraps data in a raw vector.
func NewRaw(data []byte) *Vector { return FromStore(DenseOf(data)) }

// NewList wraps data in a list. A nil element is the null value.
func NewList(data []any) *Vector { return FromStore(DenseOf(data)) }

// NewIntSeq creates an integer arithmetic sequence.
func NewIntSeq(start, stride int32, n int) *Vector {
	return FromStore(NewSeq(start, stride, n))
}

// NewDoubleSeq creates a double arithmetic sequence.
func NewDoubleSeq(start, stride float64, n int) *Vector {
	return FromStore(NewSeq(start, stride, n))
}

// Alloc creates a zero-filled dense vector of type typ and length n.
func Alloc(typ model.ElementType, n int) *Vector {
	switch typ {
	case model.TypeLogical:
		return FromStore(NewDense(make([]model.Logical, n), true))
	case model.TypeInteger:
		return FromStore(NewDense(make([]int32, n), true))
	case model.TypeDouble:
		return FromStore(NewDense(make([]float64, n), true))
	case model.TypeComplex:
		return FromStore(NewDense(make([]complex128, n), true))
	case model.TypeString:
		return FromStore(NewDense(make([]string, n), true))
	case model.TypeRaw:
		return FromStore(NewDense(make([]byte, n), true))
	case model.TypeList:
		return FromStore(NewDense(make([]any, n), true))
	}
	model.Violation("alloc", typ.String(), "unsupported element type")
	return nil
}

// AllocNA creates a dense vector of type typ filled with NA.
func AllocNA(typ model.ElementType, n int) *Vector {
	v := Alloc(typ, n)
	if n == 0 || !typ.HasNA() {
		return v
	}
	switch typ {
	case model.TypeLogical:
		fillNA[model.Logical](v)
	case model.TypeInteger:
		fillNA[int32](v)
	case model.TypeDouble:
		fillNA[float64](v)
	case model.TypeComplex:
		fillNA[complex128](v)
	case model.TypeString:
		fillNA[string](v)
	}
	return v
}

func fillNA[T any](v *Vector) {
	w := WriteCursorOf[T](v)
	na := model.NA[T]()
	for w.Next() {
		w.Set(na)
	}
	w.Commit()
}

// ScalarInt returns a length-one integer vector.
func ScalarInt(x int32) *Vector { return NewInt([]int32{x}) }

// ScalarDouble returns a length-one double vector.
func ScalarDouble(x float64) *Vector { return NewDouble([]float64{x}) }

// ScalarLogical returns a length-one logical vector.
func ScalarLogical(x model.Logical) *Vector { return NewLogical([]model.Logical{x}) }

// ScalarString returns a length-one character vector.
func ScalarString(x string) *Vector { return NewString([]string{x}) }
