package attr

import (
	"iter"
)

// Shareable is implemented by values whose sharing state must be promoted when
// they become reachable from a second attribute store.
type Shareable interface {
	MakeSharedPermanent()
}

// Store is an attribute table. The zero value is not usable; call New.
// A nil *Store behaves as an empty, read-only table.
type Store struct {
	shape *Shape
	slots []any
}

// New returns an empty store.
func New() *Store {
	return &Store{shape: Empty}
}

// Shape returns the structural shape of s.
func (s *Store) Shape() *Shape {
	if s == nil {
		return Empty
	}
	return s.shape
}

// Len returns the number of attributes.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.slots)
}

// Get returns the value stored under name.
func (s *Store) Get(name string) (any, bool) {
	if s == nil {
		return nil, false
	}
	i, ok := s.shape.Slot(name)
	if !ok {
		return nil, false
	}
	return s.slots[i], true
}

// Has reports whether name is set.
func (s *Store) Has(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// Set stores v under name. A nil v removes the attribute.
func (s *Store) Set(name string, v any) {
	if v == nil {
		s.Remove(name)
		return
	}
	if i, ok := s.shape.Slot(name); ok {
		s.slots[i] = v
		return
	}
	s.shape = s.shape.With(name)
	s.slots = append(s.slots, v)
}

// Remove deletes name. Removing an absent name is a no-op.
func (s *Store) Remove(name string) {
	if s == nil {
		return
	}
	i, ok := s.shape.Slot(name)
	if !ok {
		return
	}
	s.shape = s.shape.Without(name)
	copy(s.slots[i:], s.slots[i+1:])
	s.slots[len(s.slots)-1] = nil
	s.slots = s.slots[:len(s.slots)-1]
}

// Clear removes every attribute.
func (s *Store) Clear() {
	if s == nil {
		return
	}
	clear(s.slots)
	s.slots = s.slots[:0]
	s.shape = Empty
}

// Copy returns a shallow copy. Shareable values are promoted to shared-permanent.
func (s *Store) Copy() *Store {
	if s == nil {
		return nil
	}
	out := &Store{shape: s.shape, slots: make([]any, len(s.slots))}
	for i, v := range s.slots {
		if sh, ok := v.(Shareable); ok {
			sh.MakeSharedPermanent()
		}
		out.slots[i] = v
	}
	return out
}

// Names returns the attribute names in insertion order.
func (s *Store) Names() []string {
	if s == nil {
		return nil
	}
	return s.shape.Names()
}

// All iterates over (name, value) pairs in insertion order.
func (s *Store) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if s == nil {
			return
		}
		for i, v := range s.slots {
			if !yield(s.shape.names[i], v) {
				return
			}
		}
	}
}
