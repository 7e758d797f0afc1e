package upcall

import (
	"fmt"

	"github.com/hupe1980/rvec/altrep"
	"github.com/hupe1980/rvec/model"
	"github.com/hupe1980/rvec/vector"
)

// MakeAltClass registers an ALTREP class. The typed helpers below mirror
// R_make_altinteger_class and friends.
func (b *Bridge) MakeAltClass(name, pkg string, typ model.ElementType) (*altrep.Class, error) {
	if b.isClosed() {
		return nil, ErrClosed
	}
	return b.registry.Register(name, pkg, typ)
}

func (b *Bridge) MakeAltIntegerClass(name, pkg string) (*altrep.Class, error) {
	return b.MakeAltClass(name, pkg, model.TypeInteger)
}

func (b *Bridge) MakeAltRealClass(name, pkg string) (*altrep.Class, error) {
	return b.MakeAltClass(name, pkg, model.TypeDouble)
}

func (b *Bridge) MakeAltLogicalClass(name, pkg string) (*altrep.Class, error) {
	return b.MakeAltClass(name, pkg, model.TypeLogical)
}

func (b *Bridge) MakeAltStringClass(name, pkg string) (*altrep.Class, error) {
	return b.MakeAltClass(name, pkg, model.TypeString)
}

func (b *Bridge) MakeAltComplexClass(name, pkg string) (*altrep.Class, error) {
	return b.MakeAltClass(name, pkg, model.TypeComplex)
}

func (b *Bridge) MakeAltRawClass(name, pkg string) (*altrep.Class, error) {
	return b.MakeAltClass(name, pkg, model.TypeRaw)
}

func (b *Bridge) MakeAltListClass(name, pkg string) (*altrep.Class, error) {
	return b.MakeAltClass(name, pkg, model.TypeList)
}

// SetMethod sets the method named method ("Elt", "Get_region", ...) on c.
func SetMethod(c *altrep.Class, method string, fn any) error {
	k, ok := altrep.ParseHookKind(method)
	if !ok {
		return fmt.Errorf("%w: unknown method %q", altrep.ErrHookSignature, method)
	}
	return c.SetHook(k, fn)
}

// NewAltrep is R_new_altrep.
func (b *Bridge) NewAltrep(c *altrep.Class, data1, data2 any) (*vector.Vector, error) {
	if b.isClosed() {
		return nil, ErrClosed
	}
	return c.New(data1, data2), nil
}

// IsAltrep is ALTREP(x).
func IsAltrep(v *vector.Vector) bool { return altrep.IsExternal(v) }

// AltrepInherits is R_altrep_inherits.
func AltrepInherits(v *vector.Vector, c *altrep.Class) bool { return altrep.Inherits(v, c) }

// AltrepData1 is R_altrep_data1.
func AltrepData1(v *vector.Vector) (any, error) {
	x, ok := altrep.InstanceOf(v)
	if !ok {
		return nil, altrep.ErrNotExternal
	}
	return x.Data1(), nil
}

// AltrepData2 is R_altrep_data2.
func AltrepData2(v *vector.Vector) (any, error) {
	x, ok := altrep.InstanceOf(v)
	if !ok {
		return nil, altrep.ErrNotExternal
	}
	return x.Data2(), nil
}

// SetAltrepData1 is R_set_altrep_data1.
func SetAltrepData1(v *vector.Vector, d any) error {
	x, ok := altrep.InstanceOf(v)
	if !ok {
		return altrep.ErrNotExternal
	}
	x.SetData1(d)
	return nil
}

// SetAltrepData2 is R_set_altrep_data2.
func SetAltrepData2(v *vector.Vector, d any) error {
	x, ok := altrep.InstanceOf(v)
	if !ok {
		return altrep.ErrNotExternal
	}
	x.SetData2(d)
	return nil
}

func (b *Bridge) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}
