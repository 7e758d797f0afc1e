package table

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/rvec/attr"
	"github.com/hupe1980/rvec/blobstore"
	"github.com/hupe1980/rvec/model"
	"github.com/hupe1980/rvec/resource"
	"github.com/hupe1980/rvec/vector"
)

func write(t *testing.T, x *vector.Vector, opts ...Option) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, x, opts...))
	return buf.String()
}

func TestWriteMatrix(t *testing.T) {
	m := vector.NewInt([]int32{1, 2, 3, 4, 5, model.IntNA})
	m.SetDim(2, 3)

	t.Run("column major", func(t *testing.T) {
		out := write(t, m, WithColNames(false), WithRowNames(false))
		assert.Equal(t, "1 3 5\n2 4 NA\n", out)
	})

	t.Run("defaults", func(t *testing.T) {
		out := write(t, m)
		assert.Equal(t, "\"V1\" \"V2\" \"V3\"\n\"1\" 1 3 5\n\"2\" 2 4 NA\n", out)
	})

	t.Run("separator and na", func(t *testing.T) {
		out := write(t, m, WithSep(","), WithNA(""), WithEOL("\r\n"), WithQuote(), WithColNames(false))
		assert.Equal(t, "1,1,3,5\r\n2,2,4,\r\n", out)
	})

	t.Run("dimnames", func(t *testing.T) {
		d := vector.NewDouble([]float64{1.5, 2.25})
		d.SetDim(1, 2)
		d.SetDimNames(vector.NewList([]any{vector.NewString([]string{"r"}), vector.NewString([]string{"a", "b"})}))
		out := write(t, d, WithSep(";"), WithDec(","), WithQuote())
		assert.Equal(t, "a;b\nr;1,5;2,25\n", out)
	})

	t.Run("plain vector is one column", func(t *testing.T) {
		out := write(t, vector.NewLogical([]model.Logical{model.True, model.LogicalNA}), WithRowNames(false), WithColNames(false))
		assert.Equal(t, "TRUE\nNA\n", out)
	})
}

func TestWriteMatrixCorrupt(t *testing.T) {
	m := vector.NewInt([]int32{1, 2, 3})
	m.SetAttr(attr.DimName, vector.NewInt([]int32{2, 2}))

	var buf bytes.Buffer
	err := Write(&buf, m)
	require.ErrorIs(t, err, ErrCorrupt)
	assert.Contains(t, err.Error(), "dims do not match length")
}

func newDataFrame(cols map[string]*vector.Vector, order []string) *vector.Vector {
	els := make([]any, len(order))
	for i, n := range order {
		els[i] = cols[n]
	}
	df := vector.NewList(els)
	df.SetNames(vector.NewString(order))
	df.SetClass("data.frame")
	return df
}

func TestWriteDataFrame(t *testing.T) {
	f := vector.NewInt([]int32{2, 1, model.IntNA})
	f.SetAttr(attr.LevelsName, vector.NewString([]string{"lo", "hi"}))
	f.SetClass("factor")

	df := newDataFrame(map[string]*vector.Vector{
		"id":    vector.NewIntSeq(1, 1, 3),
		"name":  vector.NewString([]string{`say "hi"`, "b", model.StringNA}),
		"level": f,
	}, []string{"id", "name", "level"})
	df.SetAttr(attr.RowNamesName, vector.NewInt([]int32{model.IntNA, -3}))

	t.Run("escape", func(t *testing.T) {
		out := write(t, df, WithSep(","))
		assert.Equal(t,
			"\"id\",\"name\",\"level\"\n"+
				"\"1\",1,\"say \\\"hi\\\"\",\"hi\"\n"+
				"\"2\",2,\"b\",\"lo\"\n"+
				"\"3\",3,NA,NA\n", out)
	})

	t.Run("double", func(t *testing.T) {
		out := write(t, df, WithSep(","), WithQMethod(QMethodDouble), WithRowNames(false), WithColNames(false))
		assert.Equal(t, "1,\"say \"\"hi\"\"\",\"hi\"\n2,\"b\",\"lo\"\n3,NA,NA\n", out)
	})

	t.Run("selected quotes", func(t *testing.T) {
		out := write(t, df, WithSep("\t"), WithQuote(3), WithColNames(false))
		assert.Equal(t, "1\t1\tsay \"hi\"\t\"hi\"\n2\t2\tb\t\"lo\"\n3\t3\tNA\tNA\n", out)
	})

	t.Run("explicit row names", func(t *testing.T) {
		small := newDataFrame(map[string]*vector.Vector{"x": vector.NewDouble([]float64{0.5})}, []string{"x"})
		small.SetAttr(attr.RowNamesName, vector.NewString([]string{"first"}))
		out := write(t, small, WithQuote(0))
		assert.Equal(t, "\"x\"\n\"first\" 0.5\n", out)
	})
}

func TestWriteDataFrameErrors(t *testing.T) {
	df := newDataFrame(map[string]*vector.Vector{
		"a": vector.NewInt([]int32{1, 2}),
		"b": vector.NewInt([]int32{1}),
	}, []string{"a", "b"})

	var buf bytes.Buffer
	err := Write(&buf, df)
	require.ErrorIs(t, err, ErrCorrupt)
	assert.Contains(t, err.Error(), "length of column 2")

	ok := newDataFrame(map[string]*vector.Vector{"a": vector.NewInt([]int32{1})}, []string{"a"})
	require.ErrorIs(t, Write(&buf, ok, WithQuote(2)), ErrInvalidArgument)
	require.ErrorIs(t, Write(&buf, ok, WithDec("")), ErrInvalidArgument)

	f := vector.NewInt([]int32{3})
	f.SetAttr(attr.LevelsName, vector.NewString([]string{"x"}))
	f.SetClass("factor")
	bad := newDataFrame(map[string]*vector.Vector{"f": f}, []string{"f"})
	require.ErrorIs(t, Write(&buf, bad), ErrCorrupt)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteIOError(t *testing.T) {
	err := Write(failingWriter{}, vector.NewInt([]int32{1}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestWriteBlob(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	m := vector.NewInt([]int32{1, 2})
	require.NoError(t, WriteBlob(ctx, store, "out.txt", m, nil, WithColNames(false), WithRowNames(false)))

	data, err := blobstore.ReadAll(ctx, store, "out.txt")
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n", string(data))

	rc := resource.NewController(resource.Config{IOLimitBytesPerSec: 1 << 20})
	require.NoError(t, WriteBlob(ctx, store, "limited.txt", m, rc, WithColNames(false), WithRowNames(false)))
	data, err = blobstore.ReadAll(ctx, store, "limited.txt")
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n", string(data))

	bad := vector.NewInt([]int32{1, 2, 3})
	bad.SetAttr(attr.DimName, vector.NewInt([]int32{2, 2}))
	require.ErrorIs(t, WriteBlob(ctx, store, "bad.txt", bad, nil), ErrCorrupt)

	_, err = store.Open(ctx, "bad.txt")
	require.ErrorIs(t, err, blobstore.ErrNotFound)
}
