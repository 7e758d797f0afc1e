package attr

import (
	"sync/atomic"
)

const keyCacheSize = 4

type cacheEntry struct {
	shape *Shape
	slot  int
}

// Key is a fixed attribute name with an inline shape->slot cache.
// Keys are safe for concurrent use.
type Key struct {
	name    string
	entries atomic.Pointer[[]cacheEntry]
	hits    atomic.Int64
	misses  atomic.Int64
}

// NewKey creates a key for name.
func NewKey(name string) *Key {
	return &Key{name: name}
}

var (
	Class    = NewKey(ClassName)
	Names    = NewKey(NamesName)
	Dim      = NewKey(DimName)
	DimNames = NewKey(DimNamesName)
	RowNames = NewKey(RowNamesName)
	Tsp      = NewKey(TspName)
	Comment  = NewKey(CommentName)
	ConnID   = NewKey(ConnIDName)
	Levels   = NewKey(LevelsName)
)

// Name returns the attribute name.
func (k *Key) Name() string { return k.name }

// Stats returns inline cache hits and misses.
func (k *Key) Stats() (hits, misses int64) {
	return k.hits.Load(), k.misses.Load()
}

func (k *Key) slot(shape *Shape) (int, bool) {
	if p := k.entries.Load(); p != nil {
		for _, e := range *p {
			if e.shape == shape {
				k.hits.Add(1)
				return e.slot, true
			}
		}
	}
	k.misses.Add(1)
	slot, ok := shape.Slot(k.name)
	if !ok {
		return 0, false
	}
	var next []cacheEntry
	if p := k.entries.Load(); p != nil {
		next = append(next, *p...)
	}
	if len(next) == keyCacheSize {
		next = next[1:]
	}
	next = append(next, cacheEntry{shape: shape, slot: slot})
	k.entries.Store(&next)
	return slot, true
}

// Get returns the value of k in s.
func (k *Key) Get(s *Store) (any, bool) {
	if s == nil || s.shape == Empty {
		return nil, false
	}
	slot, ok := k.slot(s.shape)
	if !ok {
		return nil, false
	}
	return s.slots[slot], true
}

// Set stores v under k in s. A nil v removes the attribute.
func (k *Key) Set(s *Store, v any) {
	if v != nil && s.shape != Empty {
		if slot, ok := k.slot(s.shape); ok {
			s.slots[slot] = v
			return
		}
	}
	s.Set(k.name, v)
}
