package builtin

import (
	"fmt"

	"github.com/hupe1980/rvec/model"
	"github.com/hupe1980/rvec/value"
	"github.com/hupe1980/rvec/vector"
)

// Length returns the language-level length of x: a vector's length, the
// number of bindings of an environment, 0 for NULL and 1 for anything else.
func Length(x any) int {
	switch x := x.(type) {
	case nil, *value.NullValue:
		return 0
	case *vector.Vector:
		return x.Len()
	case *value.Environment:
		return x.Len()
	default:
		return 1
	}
}

// Lengths returns the length of every element of x. Elements of an atomic
// vector have length 1. With useNames the names, dim and dimnames of x are
// carried over.
func Lengths(x any, useNames bool) (*vector.Vector, error) {
	switch x := x.(type) {
	case nil, *value.NullValue:
		return vector.NewInt([]int32{}), nil
	case *vector.Vector:
		out := make([]int32, x.Len())
		if x.Type() == model.TypeList {
			c := vector.CursorOf[any](x)
			for c.Next() {
				out[c.Index()] = int32(Length(c.Value()))
			}
		} else {
			for i := range out {
				out[i] = 1
			}
		}
		res := vector.FromStore(vector.NewDense(out, true))
		if useNames {
			copyNamesDims(res, x)
		}
		return res, nil
	default:
		return nil, fmt.Errorf("%w: 'x' must be a list or atomic vector", ErrInvalidArgument)
	}
}

func copyNamesDims(dst, src *vector.Vector) {
	if n, ok := src.Names(); ok {
		dst.SetNames(n)
	}
	if d, ok := src.Dim(); ok {
		dst.SetDim(d...)
	}
	if dn, ok := src.DimNames(); ok {
		dst.SetDimNames(dn)
	}
}
