package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/rvec/blobstore"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Put(ctx, "pkg/a.rdb", []byte("hello")))
	require.NoError(t, s.Put(ctx, "pkg/b.rdx", []byte("index")))
	require.NoError(t, s.Put(ctx, "other", nil))

	data, err := blobstore.ReadAll(ctx, s, "pkg/a.rdb")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	b, err := s.Open(ctx, "pkg/a.rdb")
	require.NoError(t, err)
	buf := make([]byte, 3)
	n, err := b.ReadAt(ctx, buf, 2)
	require.NoError(t, err)
	assert.Equal(t, "llo", string(buf[:n]))
	assert.Equal(t, int64(5), b.Size())

	names, err := s.List(ctx, "pkg/")
	require.NoError(t, err)
	assert.Equal(t, []string{"pkg/a.rdb", "pkg/b.rdx"}, names)

	require.NoError(t, s.Put(ctx, "pkg/a.rdb", []byte("bye")))
	data, err = blobstore.ReadAll(ctx, s, "pkg/a.rdb")
	require.NoError(t, err)
	assert.Equal(t, []byte("bye"), data)

	require.NoError(t, s.Delete(ctx, "pkg/a.rdb"))
	require.NoError(t, s.Delete(ctx, "pkg/a.rdb"))
	_, err = s.Open(ctx, "pkg/a.rdb")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	empty, err := blobstore.ReadAll(ctx, s, "other")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCreatePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "blobs.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	w, err := s.Create(ctx, "t.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("a b\n"))
	require.NoError(t, err)

	_, err = s.Open(ctx, "t.txt")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	require.NoError(t, w.Close())
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	data, err := blobstore.ReadAll(ctx, s, "t.txt")
	require.NoError(t, err)
	assert.Equal(t, "a b\n", string(data))
}
