package builtin

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/hupe1980/rvec/model"
	"github.com/hupe1980/rvec/vector"
)

// Sqrt returns the element-wise square root of x with its attributes. Negative
// inputs yield NaN and a single "NaNs produced" warning. NA stays NA.
func Sqrt(x *vector.Vector, w model.Warner) (*vector.Vector, error) {
	var res *vector.Vector
	nans := false
	switch x.Type() {
	case model.TypeLogical, model.TypeInteger, model.TypeDouble:
		c := vector.CursorOf[float64](vector.AsDouble(x))
		out := make([]float64, c.Len())
		for c.Next() {
			in := c.Value()
			if model.IsDoubleNA(in) {
				out[c.Index()] = model.DoubleNA
				continue
			}
			r := math.Sqrt(in)
			if math.IsNaN(r) && !math.IsNaN(in) {
				nans = true
			}
			out[c.Index()] = r
		}
		res = vector.FromStore(vector.DenseOf(out))
	case model.TypeComplex:
		c := vector.CursorOf[complex128](x)
		out := make([]complex128, c.Len())
		for c.Next() {
			if model.IsComplexNA(c.Value()) {
				out[c.Index()] = model.ComplexNA
				continue
			}
			out[c.Index()] = cmplx.Sqrt(c.Value())
		}
		res = vector.FromStore(vector.DenseOf(out))
	default:
		return nil, fmt.Errorf("%w: non-numeric argument to mathematical function", ErrInvalidType)
	}
	if nans && w != nil {
		w.Warn(warnNaNs)
	}
	res.CopyAttributesFrom(x)
	return res, nil
}
