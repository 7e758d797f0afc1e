package builtin

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/rvec/altrep"
	"github.com/hupe1980/rvec/model"
	"github.com/hupe1980/rvec/testutil"
	"github.com/hupe1980/rvec/value"
	"github.com/hupe1980/rvec/vector"
)

func TestLengths(t *testing.T) {
	env := value.NewEnvironment("e", nil)
	require.NoError(t, env.Assign("a", vector.ScalarInt(1)))
	require.NoError(t, env.Assign("b", vector.ScalarInt(2)))

	list := vector.NewList([]any{
		vector.NewIntSeq(1, 1, 3),
		value.Nil,
		env,
		value.NewFunction(nil, nil, env),
	})
	list.SetNames(vector.NewString([]string{"a", "b", "c", "d"}))

	out, err := Lengths(list, true)
	require.NoError(t, err)
	assert.Equal(t, []int32{3, 0, 2, 1}, vector.Data[int32](out))
	names, ok := out.Names()
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b", "c", "d"}, vector.Data[string](names))

	out, err = Lengths(list, false)
	require.NoError(t, err)
	_, ok = out.Names()
	assert.False(t, ok)

	m := vector.NewDouble([]float64{1, 2, 3, 4})
	m.SetDim(2, 2)
	out, err = Lengths(m, true)
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 1, 1, 1}, vector.Data[int32](out))
	dim, ok := out.Dim()
	require.True(t, ok)
	assert.Equal(t, []int{2, 2}, dim)

	out, err = Lengths(value.Nil, true)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())

	_, err = Lengths(env, true)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func matrix(data []int32, nr, nc int) *vector.Vector {
	m := vector.NewInt(data)
	m.SetDim(nr, nc)
	return m
}

func TestUpdateDiag(t *testing.T) {
	t.Run("in place", func(t *testing.T) {
		m := matrix([]int32{1, 2, 3, 4, 5, 6}, 2, 3)
		out, err := UpdateDiag(m, vector.ScalarInt(0))
		require.NoError(t, err)
		assert.Same(t, m, out)
		assert.Equal(t, []int32{0, 2, 3, 0, 5, 6}, vector.Data[int32](out))
		assert.True(t, out.IsComplete())
	})

	t.Run("shared is copied", func(t *testing.T) {
		m := matrix([]int32{1, 2, 3, 4, 5, 6, 7, 8, 9}, 3, 3)
		m.Share()
		out, err := UpdateDiag(m, vector.NewInt([]int32{7, model.IntNA, 9}))
		require.NoError(t, err)
		assert.NotSame(t, m, out)
		assert.Equal(t, []int32{1, 2, 3, 4, 5, 6, 7, 8, 9}, vector.Data[int32](m))
		assert.Equal(t, []int32{7, 2, 3, 4, model.IntNA, 6, 7, 8, 9}, vector.Data[int32](out))
		assert.False(t, out.IsComplete())
		dim, _ := out.Dim()
		assert.Equal(t, []int{3, 3}, dim)
	})

	t.Run("recycles and coerces", func(t *testing.T) {
		m := matrix([]int32{1, 2, 3, 4}, 2, 2)
		m.SetNames(vector.NewString([]string{"a", "b", "c", "d"}))
		out, err := UpdateDiag(m, vector.ScalarDouble(0.5))
		require.NoError(t, err)
		assert.Equal(t, model.TypeDouble, out.Type())
		assert.Equal(t, []float64{0.5, 2, 3, 0.5}, vector.Data[float64](out))
		assert.True(t, out.IsMatrix())
		_, ok := out.Names()
		assert.True(t, ok)
		assert.Equal(t, model.TypeInteger, m.Type())
	})

	t.Run("sequence matrix", func(t *testing.T) {
		m := vector.NewIntSeq(1, 1, 4)
		m.SetDim(2, 2)
		out, err := UpdateDiag(m, vector.NewLogical([]model.Logical{model.True, model.False}))
		require.NoError(t, err)
		assert.True(t, m.IsSeq())
		assert.Equal(t, []int32{1, 2, 3, 0}, vector.Data[int32](out))
	})

	t.Run("errors", func(t *testing.T) {
		_, err := UpdateDiag(vector.NewInt([]int32{1, 2}), vector.ScalarInt(1))
		require.ErrorIs(t, err, ErrInvalidArgument)
		assert.Contains(t, err.Error(), "only matrix diagonals")

		_, err = UpdateDiag(matrix([]int32{1, 2, 3, 4}, 2, 2), vector.NewInt([]int32{1, 2, 3}))
		require.ErrorIs(t, err, ErrInvalidArgument)
		assert.Contains(t, err.Error(), "wrong length")

		_, err = UpdateDiag(matrix([]int32{1, 2, 3, 4}, 2, 2), vector.ScalarString("x"))
		require.ErrorIs(t, err, ErrInvalidType)
	})
}

func TestSqrt(t *testing.T) {
	w := &model.Warnings{}
	x := vector.NewDouble([]float64{4, -1, model.DoubleNA, 2.25})
	x.SetNames(vector.NewString([]string{"a", "b", "c", "d"}))

	out, err := Sqrt(x, w)
	require.NoError(t, err)
	data := vector.Data[float64](out)
	assert.Equal(t, 2.0, data[0])
	assert.True(t, math.IsNaN(data[1]))
	assert.False(t, model.IsDoubleNA(data[1]))
	assert.True(t, model.IsDoubleNA(data[2]))
	assert.Equal(t, 1.5, data[3])
	assert.Equal(t, []string{warnNaNs}, w.List())
	_, ok := out.Names()
	assert.True(t, ok)

	w.Reset()
	ints, err := Sqrt(vector.NewIntSeq(0, 1, 3), w)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 1, math.Sqrt2}, vector.Data[float64](ints), 1e-15)
	assert.Zero(t, w.Len())

	c, err := Sqrt(vector.NewComplex([]complex128{-4}), w)
	require.NoError(t, err)
	assert.Equal(t, complex(0, 2), vector.At[complex128](c, 0))

	_, err = Sqrt(vector.ScalarString("4"), w)
	require.ErrorIs(t, err, ErrInvalidType)
}

func TestSum(t *testing.T) {
	w := &model.Warnings{}

	out, err := Sum(vector.NewIntSeq(1, 1, 10), false, w)
	require.NoError(t, err)
	assert.Equal(t, int32(55), vector.At[int32](out, 0))

	out, err = Sum(vector.NewIntSeq(1, 1, 100000), false, w)
	require.NoError(t, err)
	assert.Equal(t, model.TypeDouble, out.Type())
	assert.Equal(t, 5000050000.0, vector.At[float64](out, 0))

	out, err = Sum(vector.NewInt([]int32{math.MaxInt32, 1}), false, w)
	require.NoError(t, err)
	assert.Equal(t, model.IntNA, vector.At[int32](out, 0))
	assert.Equal(t, []string{warnIntegerOverflow}, w.Reset())

	withNA := vector.NewInt([]int32{1, model.IntNA, 2})
	out, err = Sum(withNA, false, w)
	require.NoError(t, err)
	assert.Equal(t, model.IntNA, vector.At[int32](out, 0))
	out, err = Sum(withNA, true, w)
	require.NoError(t, err)
	assert.Equal(t, int32(3), vector.At[int32](out, 0))

	out, err = Sum(vector.NewLogical([]model.Logical{model.True, model.True, model.False}), false, w)
	require.NoError(t, err)
	assert.Equal(t, int32(2), vector.At[int32](out, 0))

	out, err = Sum(vector.NewDouble([]float64{0.5, model.DoubleNA, 1}), true, w)
	require.NoError(t, err)
	assert.Equal(t, 1.5, vector.At[float64](out, 0))
	out, err = Sum(vector.NewDouble([]float64{0.5, model.DoubleNA}), false, w)
	require.NoError(t, err)
	assert.True(t, model.IsDoubleNA(vector.At[float64](out, 0)))

	out, err = Sum(vector.NewComplex([]complex128{1 + 1i, 2}), false, w)
	require.NoError(t, err)
	assert.Equal(t, 3+1i, vector.At[complex128](out, 0))

	_, err = Sum(vector.ScalarString("a"), false, w)
	require.ErrorIs(t, err, ErrInvalidType)
	assert.Zero(t, w.Len())
}

func TestMinMax(t *testing.T) {
	w := &model.Warnings{}
	x := vector.NewInt([]int32{3, model.IntNA, -2, 8})

	out, err := Min(x, true, w)
	require.NoError(t, err)
	assert.Equal(t, int32(-2), vector.At[int32](out, 0))
	out, err = Max(x, true, w)
	require.NoError(t, err)
	assert.Equal(t, int32(8), vector.At[int32](out, 0))
	out, err = Max(x, false, w)
	require.NoError(t, err)
	assert.Equal(t, model.IntNA, vector.At[int32](out, 0))

	out, err = Min(vector.NewInt([]int32{}), false, w)
	require.NoError(t, err)
	assert.Equal(t, math.Inf(1), vector.At[float64](out, 0))
	out, err = Max(vector.NewDouble(nil), false, w)
	require.NoError(t, err)
	assert.Equal(t, math.Inf(-1), vector.At[float64](out, 0))
	assert.Equal(t, []string{
		"no non-missing arguments to min; returning Inf",
		"no non-missing arguments to max; returning -Inf",
	}, w.Reset())

	d := vector.NewDouble([]float64{1.5, math.NaN(), -0.5})
	out, err = Min(d, false, w)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(vector.At[float64](out, 0)))
	out, err = Min(d, true, w)
	require.NoError(t, err)
	assert.Equal(t, -0.5, vector.At[float64](out, 0))

	seq := vector.NewIntSeq(10, -2, 5)
	out, err = Min(seq, false, w)
	require.NoError(t, err)
	assert.Equal(t, int32(2), vector.At[int32](out, 0))
	out, err = Max(seq, false, w)
	require.NoError(t, err)
	assert.Equal(t, int32(10), vector.At[int32](out, 0))

	s := vector.NewString([]string{"pear", "apple", "fig"})
	out, err = Max(s, false, w)
	require.NoError(t, err)
	assert.Equal(t, "pear", vector.At[string](out, 0))
	_, err = Min(vector.NewString(nil), false, w)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = Max(vector.NewComplex([]complex128{1}), false, w)
	require.ErrorIs(t, err, ErrInvalidType)
	assert.Zero(t, w.Len())
}

// newRangeClass registers an integer class for 1..n with the given hooks.
func newRangeClass(t *testing.T) *altrep.Class {
	t.Helper()
	c, err := altrep.Register[int32](altrep.NewRegistry(), "range", "testpkg")
	require.NoError(t, err)
	c.SetLengthMethod(func(x *altrep.Instance) int { return x.Data1().(int) })
	require.NoError(t, altrep.SetEltMethod(c, func(_ *altrep.Instance, i int) (int32, error) { return int32(i + 1), nil }))
	return c
}

func TestSummaryFastPaths(t *testing.T) {
	c := newRangeClass(t)
	c.SetSumMethod(func(x *altrep.Instance, _ bool) (*vector.Vector, error) {
		n := x.Data1().(int)
		return vector.ScalarDouble(float64(n) * float64(n+1) / 2), nil
	})
	c.SetNoNAMethod(func(*altrep.Instance) bool { return true })
	c.SetIsSortedMethod(func(*altrep.Instance) altrep.Sortedness { return altrep.SortedIncreasing })

	v := c.New(1000, nil)

	out, err := Sum(v, false, nil)
	require.NoError(t, err)
	assert.Equal(t, 500500.0, vector.At[float64](out, 0))
	assert.Equal(t, int64(1), c.CallCount(altrep.HookSum))

	out, err = Max(v, false, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(1000), vector.At[int32](out, 0))
	out, err = Min(v, false, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(1), vector.At[int32](out, 0))
	assert.Equal(t, int64(2), c.CallCount(altrep.HookElt))

	c.SetMaxMethod(func(*altrep.Instance, bool) (*vector.Vector, error) { return vector.ScalarInt(-1), nil })
	out, err = Max(v, false, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(-1), vector.At[int32](out, 0))
}

func TestSummaryOfRandomInts(t *testing.T) {
	rng := testutil.NewRNG(4711)
	x := rng.Ints(200, 0.1)

	var (
		total  int32
		lo, hi int32 = math.MaxInt32, math.MinInt32
		sawNA  bool
	)
	for _, v := range vector.Data[int32](x) {
		if v == model.IntNA {
			sawNA = true
			continue
		}
		total += v
		lo, hi = min(lo, v), max(hi, v)
	}

	s, err := Sum(x, true, nil)
	require.NoError(t, err)
	assert.Equal(t, total, vector.At[int32](s, 0))

	mn, err := Min(x, true, nil)
	require.NoError(t, err)
	assert.Equal(t, lo, vector.At[int32](mn, 0))

	mx, err := Max(x, true, nil)
	require.NoError(t, err)
	assert.Equal(t, hi, vector.At[int32](mx, 0))

	if sawNA {
		s, err = Sum(x, false, nil)
		require.NoError(t, err)
		assert.Equal(t, model.IntNA, vector.At[int32](s, 0))
	}
}
