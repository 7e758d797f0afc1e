package serialize

import (
	"errors"
	"math"
	"testing"

	"github.com/hupe1980/rvec/altrep"
	"github.com/hupe1980/rvec/model"
	"github.com/hupe1980/rvec/value"
	"github.com/hupe1980/rvec/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, v any, opts ...Option) any {
	t.Helper()
	data, err := Marshal(v, opts...)
	require.NoError(t, err)
	out, err := Unmarshal(data, opts...)
	require.NoError(t, err)
	return out
}

func roundTripVector(t *testing.T, v *vector.Vector, opts ...Option) *vector.Vector {
	t.Helper()
	out, ok := roundTrip(t, v, opts...).(*vector.Vector)
	require.True(t, ok)
	return out
}

func TestAtomicVectors(t *testing.T) {
	tests := []struct {
		name string
		in   *vector.Vector
		want any
	}{
		{"logical", vector.NewLogical([]model.Logical{model.True, model.LogicalNA, model.False}), []model.Logical{model.True, model.LogicalNA, model.False}},
		{"integer", vector.NewInt([]int32{1, model.IntNA, -7}), []int32{1, model.IntNA, -7}},
		{"complex", vector.NewComplex([]complex128{1 + 2i, 0}), []complex128{1 + 2i, 0}},
		{"raw", vector.NewRaw([]byte{0, 255, 7}), []byte{0, 255, 7}},
		{"character", vector.NewString([]string{"a", model.StringNA, "", "ü"}), []string{"a", model.StringNA, "", "ü"}},
		{"empty", vector.NewDouble(nil), []float64{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := roundTripVector(t, tc.in)
			assert.Equal(t, tc.in.Type(), out.Type())
			assert.Equal(t, tc.in.IsComplete(), out.IsComplete())
			switch want := tc.want.(type) {
			case []model.Logical:
				assert.Equal(t, want, vector.Data[model.Logical](out))
			case []int32:
				assert.Equal(t, want, vector.Data[int32](out))
			case []complex128:
				assert.Equal(t, want, vector.Data[complex128](out))
			case []byte:
				assert.Equal(t, want, vector.Data[byte](out))
			case []string:
				assert.Equal(t, want, vector.Data[string](out))
			case []float64:
				assert.Len(t, vector.Data[float64](out), 0)
			}
		})
	}
}

func TestDoubleNAIsDistinctFromNaN(t *testing.T) {
	out := roundTripVector(t, vector.NewDouble([]float64{1.5, model.DoubleNA, math.NaN(), math.Inf(-1)}))
	data := vector.Data[float64](out)
	assert.Equal(t, 1.5, data[0])
	assert.True(t, model.IsDoubleNA(data[1]))
	assert.True(t, math.IsNaN(data[2]))
	assert.False(t, model.IsDoubleNA(data[2]))
	assert.True(t, math.IsInf(data[3], -1))
	assert.False(t, out.IsComplete())
}

func TestAttributes(t *testing.T) {
	m := vector.NewInt([]int32{1, 2, 3, 4, 5, 6})
	m.SetDim(2, 3)
	m.SetAttr("comment", vector.ScalarString("note"))
	names := vector.NewString([]string{"a", "b"})

	out := roundTripVector(t, m)
	dim, ok := out.Dim()
	require.True(t, ok)
	assert.Equal(t, []int{2, 3}, dim)
	assert.True(t, out.IsMatrix())
	c, ok := out.Attr("comment")
	require.True(t, ok)
	assert.Equal(t, "note", vector.At[string](c.(*vector.Vector), 0))
	assert.Equal(t, m.Attributes().Names(), out.Attributes().Names())

	l := vector.NewList([]any{vector.ScalarInt(1), value.Nil})
	l.SetNames(names)
	lo := roundTripVector(t, l)
	got, ok := lo.Names()
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, vector.Data[string](got))
}

func TestSequencesStayCompact(t *testing.T) {
	out := roundTripVector(t, vector.NewIntSeq(1, 2, 1_000_000))
	assert.True(t, out.IsSeq())
	assert.Equal(t, 1_000_000, out.Len())
	assert.Equal(t, int32(1999999), vector.At[int32](out, 999_999))

	d := roundTripVector(t, vector.NewDoubleSeq(0.5, -0.25, 5))
	assert.True(t, d.IsSeq())
	assert.Equal(t, []float64{0.5, 0.25, 0, -0.25, -0.5}, vector.Data[float64](d))

	data, err := Marshal(vector.NewIntSeq(1, 1, 1_000_000))
	require.NoError(t, err)
	assert.Less(t, len(data), 32)
}

func TestClosureIsMaterialized(t *testing.T) {
	v := vector.NewDoubleClosure(vector.NewInt([]int32{1, model.IntNA, 3}))
	out := roundTripVector(t, v)
	assert.True(t, out.IsDense())
	data := vector.Data[float64](out)
	assert.Equal(t, 1.0, data[0])
	assert.True(t, model.IsDoubleNA(data[1]))
	assert.Equal(t, 3.0, data[2])
}

func TestLanguageObjects(t *testing.T) {
	env := value.NewEnvironment("R_GlobalEnv", nil)
	symbols := value.NewSymbolTable()
	opts := []Option{WithEnvironment(env), WithSymbols(symbols)}

	f := value.NewFunction([]string{"x", "y"}, symbols.Intern("x"), env)
	f.SetAttr("srcref", vector.ScalarString("function(x, y) x"))

	s4 := value.NewS4Object("Person")
	s4.SetSlot("name", vector.ScalarString("Ada"))
	s4.SetSlot("age", vector.ScalarInt(36))

	ptr := value.NewExternalPtr(0xdeadbeef, symbols.Intern("tag"), vector.ScalarInt(1))

	in := vector.NewList([]any{f, s4, ptr, value.Missing, nil, env})
	out := roundTripVector(t, in, opts...)
	items := vector.Data[any](out)

	fo := items[0].(*value.Function)
	assert.Equal(t, []string{"x", "y"}, fo.Formals)
	assert.Same(t, symbols.Intern("x"), fo.Body)
	assert.Same(t, env, fo.Env)
	_, ok := fo.Attributes().Get("srcref")
	assert.True(t, ok)

	so := items[1].(*value.S4Object)
	assert.Equal(t, "Person", so.Class())
	assert.Equal(t, []string{"name", "age"}, so.SlotNames())

	po := items[2].(*value.ExternalPtr)
	assert.Equal(t, uintptr(0), po.Addr())
	assert.Same(t, symbols.Intern("tag"), po.Tag())

	assert.Same(t, value.Missing, items[3])
	assert.Same(t, value.Nil, items[4])
	assert.Same(t, env, items[5])
}

func TestUnsupported(t *testing.T) {
	other := value.NewEnvironment("other", nil)
	_, err := Marshal(other)
	var ue *UnsupportedError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "environment", ue.Type)

	_, err = Marshal(value.NewFunction(nil, value.Nil, other))
	require.ErrorAs(t, err, &ue)

	_, err = Marshal(value.NewForeign(struct{}{}))
	require.ErrorAs(t, err, &ue)
}

type span struct {
	start float64
	n     int
}

func newSpanClass(t *testing.T, r *altrep.Registry, serializable bool) *altrep.Class {
	t.Helper()
	c, err := altrep.Register[float64](r, "span", "testpkg")
	require.NoError(t, err)
	c.SetLengthMethod(func(x *altrep.Instance) int { return x.Data1().(span).n })
	require.NoError(t, altrep.SetEltMethod(c, func(x *altrep.Instance, i int) (float64, error) {
		return x.Data1().(span).start + float64(i), nil
	}))
	if serializable {
		c.SetSerializedStateMethod(func(x *altrep.Instance) (any, error) {
			s := x.Data1().(span)
			return vector.NewDouble([]float64{s.start, float64(s.n)}), nil
		})
		c.SetUnserializeMethod(func(c *altrep.Class, state any) (*altrep.Instance, error) {
			v, ok := state.(*vector.Vector)
			if !ok || v.Len() != 2 {
				return nil, errors.New("bad span state")
			}
			d := vector.Data[float64](v)
			return altrep.NewInstanceState(c, span{start: d[0], n: int(d[1])}, nil), nil
		})
	}
	return c
}

func TestExternalByClass(t *testing.T) {
	r := altrep.NewRegistry()
	c := newSpanClass(t, r, true)
	v := c.New(span{start: 10, n: 4}, nil)
	v.SetAttr("label", vector.ScalarString("ten"))

	out := roundTripVector(t, v, WithRegistry(r))
	assert.True(t, altrep.IsExternal(out))
	assert.Same(t, c, altrep.ClassOf(out))
	assert.Equal(t, []float64{10, 11, 12, 13}, vector.Data[float64](out))
	_, ok := out.Attr("label")
	assert.True(t, ok)

	data, err := Marshal(v)
	require.NoError(t, err)
	_, err = Unmarshal(data)
	assert.ErrorIs(t, err, ErrUnknownClass)
	_, err = Unmarshal(data, WithRegistry(altrep.NewRegistry()))
	assert.ErrorIs(t, err, ErrUnknownClass)
}

func TestExternalWithoutStateIsSerializedByValue(t *testing.T) {
	r := altrep.NewRegistry()
	c := newSpanClass(t, r, false)
	out := roundTripVector(t, c.New(span{start: 1, n: 3}, nil))
	assert.False(t, altrep.IsExternal(out))
	assert.Equal(t, []float64{1, 2, 3}, vector.Data[float64](out))
}

func TestCorruptStreams(t *testing.T) {
	_, err := Unmarshal([]byte("XXXX"))
	assert.ErrorIs(t, err, ErrBadMagic)

	data, err := Marshal(vector.NewString([]string{"hello", "world"}))
	require.NoError(t, err)
	for _, n := range []int{2, len(Magic), len(data) - 1} {
		_, err = Unmarshal(data[:n])
		assert.ErrorIs(t, err, ErrCorrupt, "truncated at %d", n)
	}

	_, err = Unmarshal([]byte(Magic + "\xff"))
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestDecodedVectorsAreTemporary(t *testing.T) {
	v := vector.NewInt([]int32{1, 2})
	v.Share()
	out := roundTripVector(t, v)
	assert.True(t, out.IsTemporary())
}
