package value

import (
	"github.com/hupe1980/rvec/attr"
)

// Function is a closure: formals, a body and the defining environment.
type Function struct {
	Formals []string
	Body    any
	Env     *Environment
	attrs   *attr.Store
}

// NewFunction creates a closure.
func NewFunction(formals []string, body any, env *Environment) *Function {
	return &Function{Formals: formals, Body: body, Env: env}
}

// Attributes returns the attribute table, which may be nil.
func (f *Function) Attributes() *attr.Store { return f.attrs }

// SetAttr sets an attribute; nil removes it.
func (f *Function) SetAttr(name string, v any) {
	if f.attrs == nil {
		f.attrs = attr.New()
	}
	f.attrs.Set(name, v)
}

// Copy returns a new closure over the same environment. A deep copy also
// duplicates the body.
func (f *Function) Copy(deep bool) *Function {
	out := &Function{
		Formals: append([]string(nil), f.Formals...),
		Body:    f.Body,
		Env:     f.Env,
		attrs:   f.attrs.Copy(),
	}
	if deep && f.Body != nil {
		out.Body = Duplicate(f.Body, true)
	}
	return out
}

// S4Object is an instance of a formal class. Its slots live in an attribute
// table.
type S4Object struct {
	class string
	slots *attr.Store
}

// NewS4Object creates an object of class with no slots.
func NewS4Object(class string) *S4Object {
	return &S4Object{class: class}
}

func (o *S4Object) Class() string { return o.class }

// Slot returns the value of slot name.
func (o *S4Object) Slot(name string) (any, bool) { return o.slots.Get(name) }

// SetSlot sets slot name; nil removes it.
func (o *S4Object) SetSlot(name string, v any) {
	if o.slots == nil {
		o.slots = attr.New()
	}
	if s, ok := v.(sharer); ok {
		s.Share()
	}
	o.slots.Set(name, v)
}

// SlotNames returns the slot names in assignment order.
func (o *S4Object) SlotNames() []string { return o.slots.Names() }

// Copy returns a new object. A shallow copy shares the slot values; a deep
// copy duplicates them.
func (o *S4Object) Copy(deep bool) *S4Object {
	out := &S4Object{class: o.class}
	if !deep {
		out.slots = o.slots.Copy()
		return out
	}
	for name, v := range o.slots.All() {
		if out.slots == nil {
			out.slots = attr.New()
		}
		out.slots.Set(name, Duplicate(v, true))
	}
	return out
}
