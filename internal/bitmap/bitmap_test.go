package bitmap

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitmapBasics(t *testing.T) {
	b := New()
	assert.True(t, b.IsEmpty())

	b.Add(3)
	b.Add(10)
	b.AddRange(20, 23)
	assert.Equal(t, uint64(5), b.Cardinality())
	assert.True(t, b.Contains(21))
	assert.False(t, b.Contains(4))
	assert.Equal(t, []uint32{3, 10, 20, 21, 22}, b.ToArray())

	b.Remove(10)
	var seen []uint32
	for i := range b.All() {
		seen = append(seen, i)
	}
	assert.Equal(t, []uint32{3, 20, 21, 22}, seen)

	c := b.Clone()
	c.Add(99)
	assert.False(t, b.Contains(99))

	b.Or(Of(1))
	assert.True(t, b.Contains(1))
}

func TestBitmapNil(t *testing.T) {
	var b *Bitmap
	assert.True(t, b.IsEmpty())
	assert.False(t, b.Contains(1))
	assert.Equal(t, uint64(0), b.Cardinality())
	assert.Nil(t, b.ToArray())
}

func TestBitmapSerialization(t *testing.T) {
	b := Of(0, 7, 1<<20)
	var buf bytes.Buffer
	n, err := b.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(b.SerializedSize()), n)

	out := New()
	_, err = out.ReadFrom(&buf)
	require.NoError(t, err)
	assert.Equal(t, b.ToArray(), out.ToArray())
}

func TestBitmapPool(t *testing.T) {
	b := Get()
	b.Add(5)
	Put(b)
	again := Get()
	assert.True(t, again.IsEmpty())
	Put(again)
	Put(nil)
}
