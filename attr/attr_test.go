package attr

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shareable struct{ permanent bool }

func (s *shareable) MakeSharedPermanent() { s.permanent = true }

func TestStoreInsertionOrder(t *testing.T) {
	s := New()
	s.Set("b", 1)
	s.Set("a", 2)
	s.Set("c", 3)
	s.Set("a", 4)

	var names []string
	var values []any
	for n, v := range s.All() {
		names = append(names, n)
		values = append(values, v)
	}
	assert.Equal(t, []string{"b", "a", "c"}, names)
	assert.Equal(t, []any{1, 4, 3}, values)
	assert.Equal(t, 3, s.Len())
}

func TestShapeConvergence(t *testing.T) {
	a, b := New(), New()
	a.Set(NamesName, "n")
	a.Set(DimName, "d")
	b.Set(NamesName, "other")
	b.Set(DimName, "other")

	assert.Same(t, a.Shape(), b.Shape())
	assert.Same(t, NamesDimShape, a.Shape())
	assert.Equal(t, a.Shape().ID(), b.Shape().ID())
}

func TestShapeRemovalConverges(t *testing.T) {
	s := New()
	s.Set("x", 1)
	s.Set(NamesName, 2)
	s.Set(DimName, 3)
	s.Remove("x")
	assert.Same(t, NamesDimShape, s.Shape())

	v, ok := s.Get(DimName)
	require.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	s := New()
	s.Set(ClassName, "factor")
	before := s.Shape()
	s.Remove("missing")
	assert.Same(t, before, s.Shape())
	assert.Equal(t, 1, s.Len())

	var nilStore *Store
	nilStore.Remove("anything")
	_, ok := nilStore.Get("anything")
	assert.False(t, ok)
	assert.Equal(t, 0, nilStore.Len())
}

func TestSetNilRemoves(t *testing.T) {
	s := New()
	s.Set(NamesName, "x")
	s.Set(NamesName, nil)
	assert.False(t, s.Has(NamesName))
	assert.Same(t, Empty, s.Shape())
}

func TestCopyPromotesShareable(t *testing.T) {
	v := &shareable{}
	s := New()
	s.Set(NamesName, v)
	s.Set(CommentName, "plain")

	c := s.Copy()
	assert.True(t, v.permanent)
	assert.Same(t, s.Shape(), c.Shape())

	c.Set(CommentName, "changed")
	got, _ := s.Get(CommentName)
	assert.Equal(t, "plain", got, "copy must not alias slots")
}

func TestClear(t *testing.T) {
	s := New()
	s.Set(DimName, 1)
	s.Set(DimNamesName, 2)
	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Same(t, Empty, s.Shape())
	s.Set(DimName, 5)
	assert.Same(t, DimShape, s.Shape())
}

func TestCommonShapes(t *testing.T) {
	assert.Equal(t, []string{NamesName, DimName, DimNamesName}, NamesDimDimNamesShape.Names())
	assert.Same(t, NamesDimDimNamesShape, NamesDimShape.With(DimNamesName))
	assert.Same(t, DimShape, DimDimNamesShape.Without(DimNamesName))
	assert.Same(t, ClassConnIDShape, Lookup(ClassName, ConnIDName))
	assert.Same(t, Empty, Lookup())
}

func TestKeyInlineCache(t *testing.T) {
	k := NewKey(DimName)
	a, b := New(), New()
	a.Set(NamesName, "n")
	a.Set(DimName, []int{2, 2})
	b.Set(NamesName, "m")
	b.Set(DimName, []int{3, 3})

	v, ok := k.Get(a)
	require.True(t, ok)
	assert.Equal(t, []int{2, 2}, v)

	v, ok = k.Get(b)
	require.True(t, ok)
	assert.Equal(t, []int{3, 3}, v)

	hits, misses := k.Stats()
	assert.Equal(t, int64(1), hits, "second store with the same shape hits the cache")
	assert.Equal(t, int64(1), misses)

	k.Set(b, []int{4, 4})
	v, _ = b.Get(DimName)
	assert.Equal(t, []int{4, 4}, v)

	_, ok = k.Get(New())
	assert.False(t, ok)
	_, ok = k.Get(nil)
	assert.False(t, ok)
}

func TestKeySetAddsSlot(t *testing.T) {
	s := New()
	Class.Set(s, "data.frame")
	v, ok := Class.Get(s)
	require.True(t, ok)
	assert.Equal(t, "data.frame", v)
	Class.Set(s, nil)
	assert.False(t, s.Has(ClassName))
}

func TestShapeTransitionsConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	shapes := make([]*Shape, 16)
	for i := range shapes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s := New()
			s.Set("alpha", i)
			s.Set("beta", i)
			shapes[i] = s.Shape()
		}(i)
	}
	wg.Wait()
	for _, s := range shapes[1:] {
		assert.Same(t, shapes[0], s)
	}
}
