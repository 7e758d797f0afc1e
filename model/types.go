package model

import (
	"fmt"
)

// ElementType is the type tag of a vector.
type ElementType uint8

const (
	TypeUnknown ElementType = iota
	TypeLogical
	TypeInteger
	TypeDouble
	TypeComplex
	TypeString
	TypeRaw
	TypeList
)

var typeNames = [...]string{
	TypeUnknown: "unknown",
	TypeLogical: "logical",
	TypeInteger: "integer",
	TypeDouble:  "double",
	TypeComplex: "complex",
	TypeString:  "character",
	TypeRaw:     "raw",
	TypeList:    "list",
}

// String returns the language-level name of the type.
func (t ElementType) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("ElementType(%d)", t)
}

// ParseElementType is the inverse of ElementType.String.
func ParseElementType(s string) (ElementType, bool) {
	for i, n := range typeNames {
		if n == s && i != int(TypeUnknown) {
			return ElementType(i), true
		}
	}
	return TypeUnknown, false
}

// Atomic reports whether elements of t are scalars rather than nested values.
func (t ElementType) Atomic() bool {
	return t >= TypeLogical && t <= TypeRaw
}

// Numeric reports whether t participates in arithmetic coercion.
func (t ElementType) Numeric() bool {
	return t == TypeLogical || t == TypeInteger || t == TypeDouble || t == TypeComplex
}

// ElementSize returns the in-memory size of one element, or 0 for types whose
// elements are not fixed-size scalars.
func (t ElementType) ElementSize() int {
	switch t {
	case TypeLogical, TypeRaw:
		return 1
	case TypeInteger:
		return 4
	case TypeDouble:
		return 8
	case TypeComplex:
		return 16
	default:
		return 0
	}
}

// Logical is a three-valued logical element.
type Logical int8

const (
	False     Logical = 0
	True      Logical = 1
	LogicalNA Logical = -1
)

// LogicalOf converts a Go bool.
func LogicalOf(b bool) Logical {
	if b {
		return True
	}
	return False
}

func (l Logical) String() string {
	switch l {
	case False:
		return "FALSE"
	case True:
		return "TRUE"
	default:
		return "NA"
	}
}

// TypeOf returns the element type stored in a Go slice of T.
func TypeOf[T any]() ElementType {
	var z T
	switch any(z).(type) {
	case Logical:
		return TypeLogical
	case int32:
		return TypeInteger
	case float64:
		return TypeDouble
	case complex128:
		return TypeComplex
	case string:
		return TypeString
	case byte:
		return TypeRaw
	default:
		return TypeList
	}
}
