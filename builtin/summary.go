package builtin

import (
	"fmt"
	"math"

	"github.com/hupe1980/rvec/altrep"
	"github.com/hupe1980/rvec/model"
	"github.com/hupe1980/rvec/vector"
)

// Sum returns the sum of x. Logical and integer input sums to an integer;
// overflow yields NA with a warning. Integer sequences are summed in closed
// form and fall back to a double when the result leaves the integer range.
func Sum(x *vector.Vector, naRM bool, w model.Warner) (*vector.Vector, error) {
	if out, ok, err := altrep.Sum(x, naRM); err != nil || ok {
		return out, err
	}
	if w == nil {
		w = model.DiscardWarnings
	}

	switch x.Type() {
	case model.TypeLogical, model.TypeInteger:
		if s, ok := x.Store().(*vector.Seq[int32]); ok {
			n := float64(s.Len())
			total := n * (float64(s.Start()) + float64(s.End())) / 2
			if s.Len() == 0 {
				total = 0
			}
			if total > math.MaxInt32 || total <= math.MinInt32 {
				return vector.ScalarDouble(total), nil
			}
			return vector.ScalarInt(int32(total)), nil
		}
		var total int64
		c := vector.CursorOf[int32](vector.AsInt(x))
		for c.Next() {
			v := c.Value()
			if v == model.IntNA {
				if naRM {
					continue
				}
				return vector.ScalarInt(model.IntNA), nil
			}
			total += int64(v)
		}
		if total > math.MaxInt32 || total <= math.MinInt32 {
			w.Warn(warnIntegerOverflow)
			return vector.ScalarInt(model.IntNA), nil
		}
		return vector.ScalarInt(int32(total)), nil
	case model.TypeDouble:
		total := 0.0
		c := vector.CursorOf[float64](x)
		for c.Next() {
			v := c.Value()
			if model.IsDoubleNA(v) || (naRM && math.IsNaN(v)) {
				if naRM {
					continue
				}
				return vector.ScalarDouble(model.DoubleNA), nil
			}
			total += v
		}
		return vector.ScalarDouble(total), nil
	case model.TypeComplex:
		var total complex128
		c := vector.CursorOf[complex128](x)
		for c.Next() {
			v := c.Value()
			if model.IsComplexNA(v) {
				if naRM {
					continue
				}
				return vector.NewComplex([]complex128{model.ComplexNA}), nil
			}
			total += v
		}
		return vector.NewComplex([]complex128{total}), nil
	default:
		return nil, fmt.Errorf("%w: invalid 'type' (%s) of argument", ErrInvalidType, x.Type())
	}
}

// Min returns the smallest element of x.
func Min(x *vector.Vector, naRM bool, w model.Warner) (*vector.Vector, error) {
	if out, ok, err := altrep.Min(x, naRM); err != nil || ok {
		return out, err
	}
	return extreme(x, naRM, w, false)
}

// Max returns the largest element of x.
func Max(x *vector.Vector, naRM bool, w model.Warner) (*vector.Vector, error) {
	if out, ok, err := altrep.Max(x, naRM); err != nil || ok {
		return out, err
	}
	return extreme(x, naRM, w, true)
}

// extreme computes min or max. A sorted vector without NA is answered from
// its ends. Empty input yields Inf or -Inf with a warning.
func extreme(x *vector.Vector, naRM bool, w model.Warner, isMax bool) (*vector.Vector, error) {
	if w == nil {
		w = model.DiscardWarnings
	}
	name, empty := "min", math.Inf(1)
	if isMax {
		name, empty = "max", math.Inf(-1)
	}

	if x.Type() == model.TypeComplex || x.Type() == model.TypeList || x.Type() == model.TypeRaw {
		return nil, fmt.Errorf("%w: invalid 'type' (%s) of argument", ErrInvalidType, x.Type())
	}
	if x.Len() > 0 && altrep.NoNA(x) {
		switch s := altrep.SortednessOf(x); s {
		case altrep.SortedIncreasing, altrep.SortedDecreasing:
			i := 0
			if isMax == (s == altrep.SortedIncreasing) {
				i = x.Len() - 1
			}
			return scalarAt(x, i), nil
		}
	}

	switch x.Type() {
	case model.TypeLogical, model.TypeInteger:
		found := false
		var best int32
		c := vector.CursorOf[int32](vector.AsInt(x))
		for c.Next() {
			v := c.Value()
			if v == model.IntNA {
				if naRM {
					continue
				}
				return vector.ScalarInt(model.IntNA), nil
			}
			if !found || (isMax && v > best) || (!isMax && v < best) {
				best, found = v, true
			}
		}
		if !found {
			w.Warn(fmt.Sprintf("no non-missing arguments to %s; returning %s", name, vector.FormatDouble(empty)))
			return vector.ScalarDouble(empty), nil
		}
		return vector.ScalarInt(best), nil
	case model.TypeDouble:
		best, found, sawNaN := empty, false, false
		c := vector.CursorOf[float64](x)
		for c.Next() {
			v := c.Value()
			if math.IsNaN(v) {
				if naRM {
					continue
				}
				if model.IsDoubleNA(v) {
					return vector.ScalarDouble(model.DoubleNA), nil
				}
				sawNaN = true
				continue
			}
			if !found || (isMax && v > best) || (!isMax && v < best) {
				best, found = v, true
			}
		}
		if sawNaN {
			return vector.ScalarDouble(math.NaN()), nil
		}
		if !found {
			w.Warn(fmt.Sprintf("no non-missing arguments to %s; returning %s", name, vector.FormatDouble(empty)))
		}
		return vector.ScalarDouble(best), nil
	default:
		found := false
		var best string
		c := vector.CursorOf[string](x)
		for c.Next() {
			v := c.Value()
			if v == model.StringNA {
				if naRM {
					continue
				}
				return vector.ScalarString(model.StringNA), nil
			}
			if !found || (isMax && v > best) || (!isMax && v < best) {
				best, found = v, true
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: no non-missing arguments to %s", ErrInvalidArgument, name)
		}
		return vector.ScalarString(best), nil
	}
}

func scalarAt(x *vector.Vector, i int) *vector.Vector {
	switch x.Type() {
	case model.TypeLogical:
		return vector.ScalarInt(vector.LogicalToInt(vector.At[model.Logical](x, i)))
	case model.TypeInteger:
		return vector.ScalarInt(vector.At[int32](x, i))
	case model.TypeDouble:
		return vector.ScalarDouble(vector.At[float64](x, i))
	default:
		return vector.ScalarString(vector.At[string](x, i))
	}
}
