package builtin

import (
	"fmt"

	"github.com/hupe1980/rvec/model"
	"github.com/hupe1980/rvec/vector"
)

// UpdateDiag implements diag<-: it replaces the diagonal of the matrix x with
// value, recycled. value must have length 1 or min(nrow, ncol).
//
// A temporary dense x is written in place; a shared one is copied first. An
// integer or logical matrix receiving doubles becomes a double matrix with
// the same attributes.
func UpdateDiag(x, value *vector.Vector) (*vector.Vector, error) {
	d, ok := x.Dim()
	if !ok || len(d) != 2 {
		return nil, fmt.Errorf("%w: only matrix diagonals can be replaced", ErrInvalidArgument)
	}
	nrow, size := d[0], min(d[0], d[1])
	if value.Len() != 1 && value.Len() != size {
		return nil, fmt.Errorf("%w: replacement diagonal has wrong length", ErrInvalidArgument)
	}

	typ, err := diagType(x.Type(), value.Type())
	if err != nil {
		return nil, err
	}

	var res *vector.Vector
	if typ == x.Type() {
		res = x.Reuse()
	} else {
		res = coerced(x, typ)
	}

	switch typ {
	case model.TypeLogical:
		writeDiag(res, vector.CursorOf[model.Logical](value), size, nrow)
	case model.TypeInteger:
		writeDiag(res, vector.CursorOf[int32](vector.AsInt(value)), size, nrow)
	default:
		writeDiag(res, vector.CursorOf[float64](vector.AsDouble(value)), size, nrow)
	}
	return res, nil
}

func diagType(x, v model.ElementType) (model.ElementType, error) {
	for _, t := range []model.ElementType{x, v} {
		switch t {
		case model.TypeLogical, model.TypeInteger, model.TypeDouble:
		default:
			return 0, fmt.Errorf("%w: diag<- on %s", ErrInvalidType, t)
		}
	}
	return max(x, v), nil
}

func coerced(x *vector.Vector, typ model.ElementType) *vector.Vector {
	var view *vector.Vector
	if typ == model.TypeInteger {
		view = vector.AsInt(x)
	} else {
		view = vector.AsDouble(x)
	}
	res := view.Materialize()
	res.CopyAttributesFrom(x)
	return res
}

func writeDiag[T any](res *vector.Vector, vals *vector.Cursor[T], size, nrow int) {
	w := vector.WriteCursorOf[T](res)
	pos := 0
	for range size {
		vals.NextWithWrap()
		w.SetAt(pos, vals.Value())
		pos += nrow + 1
	}
	w.Commit()
}
