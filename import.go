package rvec

import (
	"context"
	"time"

	"github.com/hupe1980/rvec/altrep"
	"github.com/hupe1980/rvec/model"
	"github.com/hupe1980/rvec/upcall"
	"github.com/hupe1980/rvec/value"
	"github.com/hupe1980/rvec/vector"
)

// Import copies x, a value owned by another context, into this one.
//
// Vectors are deep-copied, including list elements and attribute values.
// ALTREP vectors are materialized, since their class belongs to the source
// registry. Symbols are re-interned. Closures over a global environment are
// rebound to this context's global environment. Environments, external
// pointers, foreign objects and weak references stay with their context and
// are refused with ErrNotTransferable.
func (c *Context) Import(ctx context.Context, x any) (any, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	start := time.Now()

	var out any
	var err error
	if perr := model.Catch(func() { out, err = c.importValue(x) }); perr != nil {
		err = perr
	}
	err = translateError(err)

	c.metrics.RecordImport(time.Since(start), err)
	c.logger.LogImport(ctx, value.TypeName(x), err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Context) importValue(x any) (any, error) {
	switch x := x.(type) {
	case nil, *value.NullValue:
		return value.Nil, nil
	case *value.MissingArg:
		return value.Missing, nil
	case *value.Symbol:
		return c.symbols.Intern(x.Name()), nil
	case *vector.Vector:
		return c.importVector(x)
	case *value.S4Object:
		return x.Copy(true), nil
	case *value.Function:
		if x.Env != nil && x.Env.Name() != GlobalEnvName {
			return nil, &ErrImport{Type: "closure", cause: ErrNotTransferable}
		}
		f := x.Copy(true)
		if f.Env != nil {
			f.Env = c.global
		}
		return f, nil
	case *value.Environment, *value.ExternalPtr, *value.Foreign, *upcall.WeakRef:
		return nil, &ErrImport{Type: value.TypeName(x), cause: ErrNotTransferable}
	}
	return nil, &ErrImport{Type: value.TypeName(x), cause: ErrNotTransferable}
}

func (c *Context) importVector(v *vector.Vector) (*vector.Vector, error) {
	if altrep.IsExternal(v) {
		v = v.Materialize()
	}
	// A deep store copy leaves the source list's elements untouched; they are
	// imported one by one below.
	out := v.Duplicate(true)

	if out.Type() == model.TypeList {
		elems := vector.Data[any](out)
		for i, e := range elems {
			imported, err := c.importValue(e)
			if err != nil {
				return nil, err
			}
			vector.Set(out, i, imported)
		}
	}

	attrs := out.Attributes()
	for _, name := range attrs.Names() {
		a, _ := attrs.Get(name)
		av, ok := a.(*vector.Vector)
		if !ok {
			continue
		}
		imported, err := c.importVector(av)
		if err != nil {
			return nil, err
		}
		out.SetAttr(name, imported)
	}
	return out, nil
}
