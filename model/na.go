package model

import (
	"math"
)

const (
	// IntNA is the integer missing-value sentinel.
	IntNA int32 = math.MinInt32

	// StringNA is the character missing-value sentinel. It cannot be produced
	// by parsing language source.
	StringNA = "\x00NA\x00"

	doubleNABits uint64 = 0x7FF00000000007A2
)

// DoubleNA is the double missing-value sentinel: a NaN with a reserved payload.
var DoubleNA = math.Float64frombits(doubleNABits)

// ComplexNA is the complex missing-value sentinel.
var ComplexNA = complex(DoubleNA, DoubleNA)

// IsDoubleNA reports whether x carries the NA payload. Plain NaN is not NA.
func IsDoubleNA(x float64) bool {
	return math.Float64bits(x)&0x7FFFFFFFFFFFFFFF == doubleNABits
}

// IsNaOrNaN reports whether x is NA or any other NaN.
func IsNaOrNaN(x float64) bool {
	return x != x
}

// IsComplexNA reports whether either part of c is NA.
func IsComplexNA(c complex128) bool {
	return IsDoubleNA(real(c)) || IsDoubleNA(imag(c))
}

// IsNA reports whether v is the missing-value sentinel of its type. Raw and
// list elements are never NA.
func IsNA[T any](v T) bool {
	switch x := any(v).(type) {
	case int32:
		return x == IntNA
	case float64:
		return IsDoubleNA(x)
	case Logical:
		return x == LogicalNA
	case string:
		return x == StringNA
	case complex128:
		return IsComplexNA(x)
	default:
		return false
	}
}

// NA returns the missing-value sentinel for T, or the zero value when T has none.
func NA[T any]() T {
	var z T
	switch p := any(&z).(type) {
	case *int32:
		*p = IntNA
	case *float64:
		*p = DoubleNA
	case *Logical:
		*p = LogicalNA
	case *string:
		*p = StringNA
	case *complex128:
		*p = ComplexNA
	}
	return z
}

// HasNA reports whether elements of t have a missing-value sentinel.
func (t ElementType) HasNA() bool {
	return t != TypeRaw && t != TypeList && t != TypeUnknown
}
