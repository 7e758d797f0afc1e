package altrep

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/hupe1980/rvec/model"
	"github.com/hupe1980/rvec/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type span struct {
	start float64
	n     int
}

// newSpanClass registers a double class whose instances hold a span in data1
// and only supply Length and Get_region.
func newSpanClass(t *testing.T, r *Registry) *Class {
	t.Helper()
	c, err := Register[float64](r, "span", "testpkg")
	require.NoError(t, err)
	c.SetLengthMethod(func(x *Instance) int { return x.Data1().(span).n })
	require.NoError(t, SetGetRegionMethod(c, func(x *Instance, start int, buf []float64) (int, error) {
		s := x.Data1().(span)
		n := min(len(buf), s.n-start)
		for i := range n {
			buf[i] = s.start + float64(start+i)
		}
		return n, nil
	}))
	return c
}

func TestRegister(t *testing.T) {
	r := NewRegistry()
	a, err := r.Register("compact", "base", model.TypeInteger)
	require.NoError(t, err)
	b, err := Register[int32](r, "compact", "base")
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, 1, r.Len())

	_, err = r.Register("compact", "base", model.TypeDouble)
	assert.ErrorIs(t, err, ErrClassConflict)

	other, err := r.Register("compact", "other", model.TypeDouble)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID(), other.ID())

	got, ok := r.Lookup("compact", "other")
	require.True(t, ok)
	assert.Same(t, other, got)

	classes := r.Classes()
	require.Len(t, classes, 2)
	assert.Equal(t, "base", classes[0].Package())
	assert.Equal(t, "other::compact<double>", classes[1].String())
}

func TestSetHookSignature(t *testing.T) {
	r := NewRegistry()
	c, err := Register[int32](r, "ints", "testpkg")
	require.NoError(t, err)

	err = c.SetHook(HookElt, func(x *Instance, i int) (float64, error) { return 0, nil })
	assert.ErrorIs(t, err, ErrHookSignature)

	err = c.SetHook(HookElt, func(x *Instance, i int) (int32, error) { return int32(i), nil })
	require.NoError(t, err)
	assert.True(t, c.HasHook(HookElt))

	err = SetEltMethod(c, func(x *Instance, i int) (float64, error) { return 0, nil })
	assert.ErrorIs(t, err, ErrTypeMismatch)

	require.NoError(t, c.SetHook(HookElt, nil))
	assert.False(t, c.HasHook(HookElt))

	kind, ok := ParseHookKind("Get_region")
	require.True(t, ok)
	assert.Equal(t, HookGetRegion, kind)
	assert.Equal(t, "Dataptr_or_null", HookDataptrOrNull.String())
}

func TestDefaultEltFallsBackToMaterialize(t *testing.T) {
	c := newSpanClass(t, NewRegistry())
	v := c.New(span{start: 10, n: 5}, nil)

	assert.True(t, IsExternal(v))
	assert.Equal(t, 5, v.Len())
	assert.Equal(t, 13.0, vector.At[float64](v, 3))
	assert.Equal(t, 14.0, vector.At[float64](v, 4))
	assert.Equal(t, int64(0), c.CallCount(HookElt))
	assert.Equal(t, int64(1), c.CallCount(HookGetRegion), "the materialization is cached")
}

func TestMaterializeLargeUsesRegions(t *testing.T) {
	c := newSpanClass(t, NewRegistry())
	v := c.New(span{start: 0, n: 1_000_000}, nil)

	assert.Equal(t, 999999.0, vector.At[float64](v, 999_999))
	m := v.Materialize()
	assert.True(t, m.IsDense())
	data := vector.Data[float64](m)
	require.Len(t, data, 1_000_000)
	assert.Equal(t, 999999.0, data[len(data)-1])

	blocks := int64((1_000_000 + regionBlock - 1) / regionBlock)
	assert.Equal(t, blocks, c.CallCount(HookGetRegion))
	assert.Equal(t, int64(0), c.CallCount(HookElt))
}

func TestMissingLengthIsViolation(t *testing.T) {
	c, err := NewRegistry().Register("broken", "testpkg", model.TypeDouble)
	require.NoError(t, err)
	v := c.New(nil, nil)
	err = model.Catch(func() { v.Len() })
	assert.ErrorIs(t, err, model.ErrContract)
}

func TestHookErrorIsTagged(t *testing.T) {
	c, err := Register[int32](NewRegistry(), "flaky", "testpkg")
	require.NoError(t, err)
	c.SetLengthMethod(func(*Instance) int { return 3 })
	boom := errors.New("boom")
	require.NoError(t, SetEltMethod(c, func(x *Instance, i int) (int32, error) {
		if i == 2 {
			return 0, boom
		}
		return int32(i), nil
	}))

	v := c.New(nil, nil)
	got, err := Elt[int32](v, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(1), got)

	_, err = Elt[int32](v, 2)
	var he *HookError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "flaky", he.Class)
	assert.Equal(t, "testpkg", he.Package)
	assert.Equal(t, HookElt, he.Hook)
	assert.ErrorIs(t, err, boom)

	assert.Panics(t, func() { vector.At[int32](v, 2) })
}

func TestDuplicate(t *testing.T) {
	c := newSpanClass(t, NewRegistry())
	v := c.New(span{start: 1, n: 3}, nil)

	d := v.Duplicate(false)
	assert.False(t, IsExternal(d))
	assert.Equal(t, []float64{1, 2, 3}, vector.Data[float64](d))

	c.SetDuplicateMethod(func(x *Instance, deep bool) (*Instance, error) {
		return NewInstanceState(x.Class(), x.Data1(), "copy"), nil
	})
	d = v.Duplicate(true)
	require.True(t, IsExternal(d))
	assert.NotSame(t, v.Store(), d.Store())
	x, _ := InstanceOf(d)
	assert.Equal(t, "copy", x.Data2())
	assert.True(t, Inherits(d, c))
	assert.Equal(t, int64(1), c.CallCount(HookDuplicate))
}

func TestNoNAAndSortedness(t *testing.T) {
	c := newSpanClass(t, NewRegistry())
	v := c.New(span{start: 0, n: 4}, nil)
	assert.False(t, v.IsComplete())
	assert.Equal(t, SortednessUnknown, SortednessOf(v))

	c.SetNoNAMethod(func(*Instance) bool { return true })
	c.SetIsSortedMethod(func(*Instance) Sortedness { return SortedIncreasing })
	w := c.New(span{start: 0, n: 4}, nil)
	assert.True(t, w.IsComplete())
	assert.True(t, NoNA(w))
	assert.True(t, w.Store().Sorted(false, true))
	assert.False(t, w.Store().Sorted(false, false))

	assert.Equal(t, SortedDecreasing, SortednessOf(vector.NewIntSeq(5, -1, 3)))
	assert.Equal(t, SortednessUnknown, SortednessOf(vector.NewInt([]int32{3, 1})))
}

func TestSummaryFastPath(t *testing.T) {
	c := newSpanClass(t, NewRegistry())
	v := c.New(span{start: 1, n: 100}, nil)

	_, ok, err := Sum(v, false)
	require.NoError(t, err)
	assert.False(t, ok)

	c.SetSumMethod(func(x *Instance, naRM bool) (*vector.Vector, error) {
		s := x.Data1().(span)
		n := float64(s.n)
		return vector.ScalarDouble(n*s.start + n*(n-1)/2), nil
	})
	out, ok, err := Sum(v, false)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 5050.0, vector.At[float64](out, 0))
	assert.Equal(t, int64(0), c.CallCount(HookGetRegion))

	c.SetMaxMethod(func(*Instance, bool) (*vector.Vector, error) { return nil, fmt.Errorf("no max") })
	_, _, err = Max(v, true)
	var he *HookError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, HookMax, he.Hook)
}

func TestDataptr(t *testing.T) {
	c, err := Register[int32](NewRegistry(), "wrapped", "testpkg")
	require.NoError(t, err)
	c.SetLengthMethod(func(x *Instance) int { return len(x.Data1().([]int32)) })
	require.NoError(t, SetDataptrOrNullMethod(c, func(x *Instance) []int32 { return x.Data1().([]int32) }))

	buf := []int32{4, 5, 6}
	v := c.New(buf, nil)
	assert.Equal(t, buf, DataptrOrNull[int32](v))
	assert.Equal(t, int32(6), vector.At[int32](v, 2))
	assert.Nil(t, DataptrOrNull[int32](vector.NewInt([]int32{1})))

	p, err := Dataptr[int32](v, true)
	require.NoError(t, err)
	assert.Equal(t, buf, p)

	c2 := newSpanClass(t, NewRegistry())
	p2, err := Dataptr[float64](c2.New(span{start: 2, n: 2}, nil), false)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3}, p2)
}

func TestSetElt(t *testing.T) {
	c, err := Register[string](NewRegistry(), "strs", "testpkg")
	require.NoError(t, err)
	c.SetLengthMethod(func(x *Instance) int { return len(x.Data1().([]string)) })
	require.NoError(t, SetEltMethod(c, func(x *Instance, i int) (string, error) { return x.Data1().([]string)[i], nil }))
	require.NoError(t, SetSetEltMethod(c, func(x *Instance, i int, s string) error {
		x.Data1().([]string)[i] = s
		return nil
	}))
	c.SetNoNAMethod(func(*Instance) bool { return true })

	v := c.New([]string{"a", "b"}, nil)
	require.True(t, v.IsComplete())
	require.NoError(t, SetElt(v, 0, "z"))
	assert.Equal(t, "z", vector.At[string](v, 0))
	require.NoError(t, SetElt(v, 1, model.StringNA))
	assert.False(t, v.IsComplete())

	assert.ErrorIs(t, SetElt(vector.NewString([]string{"x"}), 0, "y"), ErrNotExternal)

	frozen := c.New([]string{"a"}, nil)
	frozen.MakeSharedPermanent()
	assert.ErrorIs(t, SetElt(frozen, 0, "z"), model.ErrContract)
	assert.Equal(t, "a", vector.At[string](frozen, 0))
	_, err = Dataptr[string](frozen, true)
	assert.ErrorIs(t, err, model.ErrContract)
	p, err := Dataptr[string](frozen, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, p)
}

func TestSetEltWithoutMethod(t *testing.T) {
	v := newSpanClass(t, NewRegistry()).New(span{start: 1, n: 2}, nil)
	assert.ErrorIs(t, SetElt(v, 0, 5.0), model.ErrContract)
}

func TestSerializedState(t *testing.T) {
	c := newSpanClass(t, NewRegistry())
	v := c.New(span{start: 3, n: 2}, nil)
	_, ok, err := SerializedState(v)
	require.NoError(t, err)
	assert.False(t, ok)

	c.SetSerializedStateMethod(func(x *Instance) (any, error) { return x.Data1(), nil })
	c.SetUnserializeMethod(func(c *Class, state any) (*Instance, error) {
		return NewInstanceState(c, state, nil), nil
	})
	state, ok, err := SerializedState(v)
	require.NoError(t, err)
	require.True(t, ok)

	back, err := Unserialize(c, state)
	require.NoError(t, err)
	assert.True(t, Inherits(back, c))
	assert.Equal(t, []float64{3, 4}, vector.Data[float64](back))
}

func TestExtractSubsetAndCoerce(t *testing.T) {
	c := newSpanClass(t, NewRegistry())
	v := c.New(span{start: 0, n: 10}, nil)

	sub, err := ExtractSubset(v, []int{9, 0, 4})
	require.NoError(t, err)
	assert.Equal(t, []float64{9, 0, 4}, vector.Data[float64](sub))

	s, err := Coerce(v, model.TypeString)
	require.NoError(t, err)
	assert.Equal(t, "7", vector.At[string](s, 7))

	_, err = Coerce(v, model.TypeRaw)
	assert.ErrorIs(t, err, model.ErrContract)
}

func TestInspect(t *testing.T) {
	c := newSpanClass(t, NewRegistry())
	v := c.New(span{start: 0, n: 1}, nil)
	var buf bytes.Buffer
	assert.False(t, Inspect(v, &buf))

	c.SetInspectMethod(func(x *Instance, w io.Writer) bool {
		fmt.Fprintf(w, "span of %d", x.Data1().(span).n)
		return true
	})
	assert.True(t, Inspect(v, &buf))
	assert.Equal(t, "span of 1", buf.String())
}
