package attr

import (
	"sync"
	"sync/atomic"
)

// Attribute names with dedicated handling.
const (
	ClassName    = "class"
	NamesName    = "names"
	DimName      = "dim"
	DimNamesName = "dimnames"
	RowNamesName = "row.names"
	TspName      = "tsp"
	CommentName  = "comment"
	ConnIDName   = "conn_id"
	LevelsName   = "levels"
)

var nextShapeID atomic.Uint32

// Shape is an immutable ordered set of attribute names.
type Shape struct {
	id    uint32
	names []string
	index map[string]int

	mu      sync.Mutex
	added   map[string]*Shape
	removed map[string]*Shape
}

func newShape(names []string) *Shape {
	index := make(map[string]int, len(names))
	for i, n := range names {
		index[n] = i
	}
	return &Shape{
		id:    nextShapeID.Add(1) - 1,
		names: names,
		index: index,
	}
}

// Empty is the root of the shape tree.
var Empty = newShape(nil)

// Precomputed shapes for the common attribute combinations.
var (
	ClassShape            = Lookup(ClassName)
	NamesShape            = Lookup(NamesName)
	DimShape              = Lookup(DimName)
	DimNamesShape         = Lookup(DimNamesName)
	NamesDimNamesShape    = Lookup(NamesName, DimNamesName)
	RowNamesShape         = Lookup(RowNamesName)
	TspShape              = Lookup(TspName)
	CommentShape          = Lookup(CommentName)
	NamesDimShape         = Lookup(NamesName, DimName)
	DimDimNamesShape      = Lookup(DimName, DimNamesName)
	NamesDimDimNamesShape = Lookup(NamesName, DimName, DimNamesName)
	ClassConnIDShape      = Lookup(ClassName, ConnIDName)
)

// Lookup returns the canonical shape holding names in the given order.
func Lookup(names ...string) *Shape {
	s := Empty
	for _, n := range names {
		s = s.With(n)
	}
	return s
}

// ID returns a process-unique identifier of the shape.
func (s *Shape) ID() uint32 { return s.id }

// Len returns the number of names.
func (s *Shape) Len() int { return len(s.names) }

// Names returns the names in insertion order.
func (s *Shape) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Slot returns the slot index of name.
func (s *Shape) Slot(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// With returns the shape that results from appending name. The transition is
// memoized; if name is already present s is returned.
func (s *Shape) With(name string) *Shape {
	if _, ok := s.index[name]; ok {
		return s
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if next, ok := s.added[name]; ok {
		return next
	}
	names := make([]string, len(s.names)+1)
	copy(names, s.names)
	names[len(s.names)] = name
	next := newShape(names)
	if s.added == nil {
		s.added = make(map[string]*Shape)
	}
	s.added[name] = next
	return next
}

// Without returns the shape that results from removing name. The result is the
// canonical shape for the remaining names, so removal converges too.
func (s *Shape) Without(name string) *Shape {
	slot, ok := s.index[name]
	if !ok {
		return s
	}
	s.mu.Lock()
	next, ok := s.removed[name]
	s.mu.Unlock()
	if ok {
		return next
	}
	rest := make([]string, 0, len(s.names)-1)
	rest = append(rest, s.names[:slot]...)
	rest = append(rest, s.names[slot+1:]...)
	next = Lookup(rest...)

	s.mu.Lock()
	if s.removed == nil {
		s.removed = make(map[string]*Shape)
	}
	s.removed[name] = next
	s.mu.Unlock()
	return next
}
