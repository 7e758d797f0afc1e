package vector

import (
	"fmt"

	"github.com/hupe1980/rvec/attr"
	"github.com/hupe1980/rvec/model"
)

// Vector is the user-visible container.
//
// A Vector is not safe for concurrent mutation; it belongs to one execution
// context at a time.
type Vector struct {
	typ      model.ElementType
	store    Store
	attrs    *attr.Store
	sharing  model.Sharing
	complete bool
}

// FromStore wraps s in a new temporary container.
func FromStore(s Store) *Vector {
	v := &Vector{typ: s.Type(), store: s, complete: s.Complete()}
	s.SetOwner(v)
	return v
}

// Type returns the element type.
func (v *Vector) Type() model.ElementType { return v.typ }

// Len returns the number of elements.
func (v *Vector) Len() int { return v.store.Len() }

// Store returns the backing store.
func (v *Vector) Store() Store { return v.store }

// IsComplete reports whether the vector is known to contain no NA.
func (v *Vector) IsComplete() bool { return v.complete }

// SetIncomplete clears the completeness flag. It is never set again.
func (v *Vector) SetIncomplete() { v.complete = false }

// Sharing returns the sharing state.
func (v *Vector) Sharing() model.Sharing { return v.sharing }

// IsTemporary reports whether the vector has a single owner.
func (v *Vector) IsTemporary() bool { return v.sharing == model.Temporary }

// IsShared reports whether in-place writes require a duplicate first.
func (v *Vector) IsShared() bool { return v.sharing != model.Temporary }

// Share records a second reference to v.
func (v *Vector) Share() {
	v.sharing = v.sharing.Promote(model.SharedTransient)
}

// MakeSharedPermanent makes v immutable for the rest of its lifetime.
func (v *Vector) MakeSharedPermanent() {
	v.sharing = model.SharedPermanent
}

// IsSeq reports whether the vector is backed by an arithmetic sequence.
func (v *Vector) IsSeq() bool { return IsSeq(v.store) }

// IsDense reports whether the vector is backed by a writeable buffer.
func (v *Vector) IsDense() bool { return v.store.Writeable() }

// Materialize returns v if it is already dense, otherwise a new container
// holding a dense copy of the elements and the same attributes.
func (v *Vector) Materialize() *Vector {
	if v.store.Writeable() {
		return v
	}
	out := FromStore(v.store.MaterializeStore())
	out.complete = out.complete && v.complete
	out.attrs = v.attrs.Copy()
	return out
}

// MaterializeInPlace replaces a read-only store with its dense materialization.
func (v *Vector) MaterializeInPlace() {
	if v.store.Writeable() {
		return
	}
	m := v.store.MaterializeStore()
	v.complete = v.complete && m.Complete()
	v.store = m
	m.SetOwner(v)
}

// ReplaceStore installs s as the backing store. The new store must hold the
// same elements; completeness is carried over only if both agree.
func (v *Vector) ReplaceStore(s Store) {
	if s.Type() != v.typ || s.Len() != v.Len() {
		model.Violation("replaceStore", v.typ.String(), "store of type %s and length %d does not match", s.Type(), s.Len())
	}
	v.complete = v.complete && s.Complete()
	v.store = s
	s.SetOwner(v)
}

// Duplicate copies the container. Sequences are materialized; other stores
// are copied through their own Copy. The result is temporary and its
// attributes are a shallow copy. Elements of a shallowly copied list become
// shared with the original.
func (v *Vector) Duplicate(deep bool) *Vector {
	var s Store
	if IsSeq(v.store) {
		s = v.store.MaterializeStore()
	} else {
		s = v.store.CopyStore(deep)
	}
	out := FromStore(s)
	out.complete = out.complete && v.complete
	out.attrs = v.attrs.Copy()
	if v.typ == model.TypeList && !deep {
		shareElements(out)
	}
	return out
}

// Reuse returns v if it can be written in place, otherwise a writeable
// temporary duplicate.
func (v *Vector) Reuse() *Vector {
	if v.IsTemporary() && v.store.Writeable() {
		return v
	}
	out := v.Duplicate(false)
	out.MaterializeInPlace()
	return out
}

// CopyResized returns a temporary dense container of length n. Attributes are
// not carried over.
func (v *Vector) CopyResized(n int, fillNA bool) *Vector {
	out := FromStore(v.store.CopyResizedStore(n, false, fillNA))
	if !v.complete && n > 0 {
		out.complete = false
	}
	return out
}

func (v *Vector) checkWriteable(op string) {
	if v.IsShared() {
		model.Violation(op, v.typ.String(), "vector is %s; duplicate before writing", v.sharing)
	}
	if !v.store.Writeable() {
		model.Violation(op, v.typ.String(), "store is not writeable")
	}
}

func (v *Vector) String() string {
	return fmt.Sprintf("%s[%d]", v.typ, v.Len())
}

func shareElements(list *Vector) {
	d, ok := list.store.(*Dense[any])
	if !ok {
		return
	}
	for _, e := range d.data {
		if s, ok := e.(interface{ Share() }); ok {
			s.Share()
		}
	}
}
