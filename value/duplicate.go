package value

import (
	"fmt"

	"github.com/hupe1980/rvec/model"
	"github.com/hupe1980/rvec/vector"
)

// Duplicate copies x so that the result can be mutated without affecting x.
//
// Sequences are materialized. Null, environments, symbols, the missing marker
// and foreign objects are returned unchanged. Vectors are copied through their
// store; a deep copy of a list duplicates its elements as well. Functions, S4
// objects and external pointers are copied as objects. Any other value is a
// contract violation. A Go nil is treated as Nil.
func Duplicate(x any, deep bool) any {
	switch x := x.(type) {
	case nil:
		return Nil
	case *vector.Vector:
		return DuplicateVector(x, deep)
	case *NullValue, *Environment, *Symbol, *MissingArg, *Foreign:
		return x
	case *Function:
		return x.Copy(deep)
	case *S4Object:
		return x.Copy(deep)
	case *ExternalPtr:
		return x.Copy()
	}
	model.Violation("duplicate", fmt.Sprintf("%T", x), "unsupported type for duplicate")
	return nil
}

// DuplicateVector is Duplicate for vectors.
func DuplicateVector(v *vector.Vector, deep bool) *vector.Vector {
	if v.IsSeq() {
		return v.Materialize()
	}
	out := v.Duplicate(deep)
	if deep && out.Type() == model.TypeList {
		elems := vector.Data[any](out)
		for i, e := range elems {
			if e != nil {
				vector.Set(out, i, Duplicate(e, true))
			}
		}
	}
	return out
}

// Shallow is Duplicate(x, false).
func Shallow(x any) any { return Duplicate(x, false) }

// TypeName returns the language-level type name of x.
func TypeName(x any) string {
	switch x := x.(type) {
	case nil, *NullValue:
		return "NULL"
	case *vector.Vector:
		return x.Type().String()
	case *Environment:
		return "environment"
	case *Symbol:
		return "symbol"
	case *MissingArg:
		return "missing"
	case *Foreign:
		return "foreign"
	case *ExternalPtr:
		return "externalptr"
	case *Function:
		return "closure"
	case *S4Object:
		return "S4"
	}
	return fmt.Sprintf("%T", x)
}
