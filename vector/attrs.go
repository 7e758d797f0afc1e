package vector

import (
	"github.com/hupe1980/rvec/attr"
	"github.com/hupe1980/rvec/model"
)

// Attributes returns the attribute table, which may be nil.
func (v *Vector) Attributes() *attr.Store { return v.attrs }

// HasAttributes reports whether any attribute is set.
func (v *Vector) HasAttributes() bool { return v.attrs.Len() > 0 }

// Attr returns the attribute name.
func (v *Vector) Attr(name string) (any, bool) { return v.attrs.Get(name) }

// SetAttr sets an attribute. A nil value removes it.
func (v *Vector) SetAttr(name string, value any) {
	v.checkAttrWrite()
	if value == nil {
		v.attrs.Remove(name)
		return
	}
	if v.attrs == nil {
		v.attrs = attr.New()
	}
	if s, ok := value.(interface{ Share() }); ok {
		s.Share()
	}
	v.attrs.Set(name, value)
}

// RemoveAttr removes an attribute; removing an absent one is a no-op.
func (v *Vector) RemoveAttr(name string) {
	v.checkAttrWrite()
	v.attrs.Remove(name)
}

// ClearAttributes removes every attribute.
func (v *Vector) ClearAttributes() {
	v.checkAttrWrite()
	v.attrs.Clear()
}

// CopyAttributesFrom replaces the attributes of v with a shallow copy of src's.
func (v *Vector) CopyAttributesFrom(src *Vector) {
	v.checkAttrWrite()
	v.attrs = src.attrs.Copy()
}

func (v *Vector) checkAttrWrite() {
	if v.IsShared() {
		model.Violation("setAttr", v.typ.String(), "vector is %s; duplicate before writing", v.sharing)
	}
}

func (v *Vector) keyed(k *attr.Key) (*Vector, bool) {
	x, ok := k.Get(v.attrs)
	if !ok {
		return nil, false
	}
	xv, ok := x.(*Vector)
	return xv, ok
}

func (v *Vector) setKeyed(k *attr.Key, x *Vector) {
	v.checkAttrWrite()
	if x == nil {
		v.attrs.Remove(k.Name())
		return
	}
	if v.attrs == nil {
		v.attrs = attr.New()
	}
	x.Share()
	k.Set(v.attrs, x)
}

// Names returns the names attribute.
func (v *Vector) Names() (*Vector, bool) { return v.keyed(attr.Names) }

// SetNames sets the names attribute; nil removes it.
func (v *Vector) SetNames(names *Vector) { v.setKeyed(attr.Names, names) }

// DimNames returns the dimnames attribute.
func (v *Vector) DimNames() (*Vector, bool) { return v.keyed(attr.DimNames) }

// SetDimNames sets the dimnames attribute; nil removes it.
func (v *Vector) SetDimNames(dn *Vector) { v.setKeyed(attr.DimNames, dn) }

// Dim returns the dim attribute as ints.
func (v *Vector) Dim() ([]int, bool) {
	d, ok := v.keyed(attr.Dim)
	if !ok {
		return nil, false
	}
	out := make([]int, d.Len())
	c := CursorOf[int32](d)
	for c.Next() {
		out[c.Index()] = int(c.Value())
	}
	return out, true
}

// SetDim sets the dim attribute. The product of dims must equal Len.
func (v *Vector) SetDim(dims ...int) {
	if len(dims) == 0 {
		v.setKeyed(attr.Dim, nil)
		return
	}
	prod := 1
	data := make([]int32, len(dims))
	for i, d := range dims {
		prod *= d
		data[i] = int32(d)
	}
	if prod != v.Len() {
		model.Violation("dim<-", v.typ.String(), "dims [product %d] do not match the length of object [%d]", prod, v.Len())
	}
	v.setKeyed(attr.Dim, NewInt(data))
}

// IsMatrix reports whether v has exactly two dimensions.
func (v *Vector) IsMatrix() bool {
	d, ok := v.Dim()
	return ok && len(d) == 2
}

// Class returns the class attribute.
func (v *Vector) Class() []string {
	c, ok := v.keyed(attr.Class)
	if !ok || c.Type() != model.TypeString {
		return nil
	}
	return Data[string](c)
}

// SetClass sets the class attribute; no names removes it.
func (v *Vector) SetClass(names ...string) {
	if len(names) == 0 {
		v.setKeyed(attr.Class, nil)
		return
	}
	v.setKeyed(attr.Class, NewString(names))
}

// Inherits reports whether class is in the class attribute.
func (v *Vector) Inherits(class string) bool {
	for _, c := range v.Class() {
		if c == class {
			return true
		}
	}
	return false
}
