package compress

import (
	"bytes"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte("lazy-load record "), 200)
	for _, typ := range []Type{None, Zlib, LZ4, Zstd} {
		t.Run(typ.String(), func(t *testing.T) {
			enc, err := Compress(typ, data)
			require.NoError(t, err)
			if typ != None {
				assert.Less(t, len(enc), len(data))
			}
			dec, err := Decompress(typ, enc, len(data))
			require.NoError(t, err)
			assert.Equal(t, data, dec)
		})
	}
}

func TestDecompressErrors(t *testing.T) {
	_, err := Decompress(Type('x'), []byte{1}, 1)
	assert.ErrorIs(t, err, ErrUnknownType)

	_, err = Decompress(None, []byte{1, 2}, 3)
	assert.ErrorIs(t, err, ErrSizeMismatch)

	_, err = Decompress(Zlib, []byte("not zlib"), 4)
	assert.Error(t, err)

	enc, err := Compress(Zstd, []byte("abcabcabc"))
	require.NoError(t, err)
	_, err = Decompress(Zstd, enc, 4)
	assert.ErrorIs(t, err, ErrSizeMismatch)
}

func TestSmallest(t *testing.T) {
	data := bytes.Repeat([]byte{7}, 4096)
	typ, out, err := Smallest(data, Zstd, Zlib)
	require.NoError(t, err)
	assert.NotEqual(t, None, typ)
	assert.Less(t, len(out), 100)

	noise := make([]byte, 64)
	r := rand.New(rand.NewPCG(1, 2))
	for i := range noise {
		noise[i] = byte(r.UintN(256))
	}
	typ, out, err = Smallest(noise, Zstd, Zlib, LZ4)
	require.NoError(t, err)
	assert.Equal(t, None, typ)
	assert.Equal(t, noise, out)
}

func TestKnown(t *testing.T) {
	assert.True(t, Zstd.Known())
	assert.False(t, Type('9').Known())
	assert.Equal(t, "unknown('9')", Type('9').String())
}
