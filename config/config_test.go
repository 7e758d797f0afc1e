package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/rvec/blobstore"
	"github.com/hupe1980/rvec/blobstore/minio"
	s3store "github.com/hupe1980/rvec/blobstore/s3"
	"github.com/hupe1980/rvec/blobstore/sqlite"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, BackendMemory, cfg.LazyLoad.Storage.Backend)
	assert.Equal(t, int64(64<<20), cfg.LazyLoad.CacheBytes)
	assert.Nil(t, cfg.Seed)

	lvl, err := cfg.Log.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, lvl)
}

func TestParse(t *testing.T) {
	data := []byte(`
log:
  level: debug
  format: json
resources:
  memory_limit_bytes: 1024
  io_limit_bytes_per_sec: 2048
seed: 42
lazyload:
  index_codec: yaml
  storage:
    backend: local
    path: /tmp/rvec
`)
	cfg, err := Parse(data, "test.yaml")
	require.NoError(t, err)

	lvl, err := cfg.Log.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
	assert.Equal(t, "json", cfg.Log.Format)
	require.NotNil(t, cfg.Seed)
	assert.Equal(t, int32(42), *cfg.Seed)
	assert.Equal(t, "/tmp/rvec", cfg.LazyLoad.Storage.Path)
	assert.Equal(t, "yaml", cfg.LazyLoad.IndexCodec)
	// Untouched fields keep their defaults.
	assert.Equal(t, int64(64<<20), cfg.LazyLoad.CacheBytes)
	assert.Equal(t, int64(4), cfg.Resources.FetchWorkers)

	rc := cfg.Resources.ResourceConfig()
	assert.Equal(t, int64(1024), rc.MemoryLimitBytes)
	assert.Equal(t, int64(2048), rc.IOLimitBytesPerSec)
	assert.Equal(t, int64(4), rc.FetchWorkers)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad level", "log: {level: loud}"},
		{"bad format", "log: {format: xml}"},
		{"negative memory", "resources: {memory_limit_bytes: -1}"},
		{"negative cache", "lazyload: {cache_bytes: -1}"},
		{"unknown index codec", "lazyload: {index_codec: msgpack}"},
		{"unknown backend", "lazyload: {storage: {backend: ftp}}"},
		{"local without path", "lazyload: {storage: {backend: local}}"},
		{"sqlite without path", "lazyload: {storage: {backend: sqlite}}"},
		{"s3 without bucket", "lazyload: {storage: {backend: s3}}"},
		{"minio without endpoint", "lazyload: {storage: {backend: minio, bucket: b}}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml), "test.yaml")
			require.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), "test.yaml")
		})
	}

	_, err := Parse([]byte("log: ["), "broken.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing broken.yaml")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rvec.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log: {level: warn}\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	st, err := Storage{}.Open(ctx, nil)
	require.NoError(t, err)
	assert.IsType(t, &blobstore.MemoryStore{}, st)

	dir := t.TempDir()
	st, err = Storage{Backend: BackendLocal, Path: dir}.Open(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, st.Put(ctx, "a", []byte("x")))
	_, err = os.Stat(filepath.Join(dir, "a"))
	require.NoError(t, err)

	st, err = Storage{Backend: BackendSQLite, Path: filepath.Join(dir, "blobs.db")}.Open(ctx, nil)
	require.NoError(t, err)
	require.IsType(t, &sqlite.Store{}, st)
	require.NoError(t, st.Put(ctx, "b", []byte("y")))
	require.NoError(t, st.(*sqlite.Store).Close())

	st, err = Storage{Backend: BackendMinio, Endpoint: "localhost:9000", Bucket: "b"}.Open(ctx, nil)
	require.NoError(t, err)
	assert.IsType(t, &minio.Store{}, st)

	st, err = Storage{Backend: BackendMinio, Endpoint: "localhost:9000", Bucket: "b", BlockCacheBytes: 1 << 20}.Open(ctx, nil)
	require.NoError(t, err)
	assert.IsType(t, &blobstore.CachingStore{}, st)

	_, err = Storage{Backend: BackendLocal}.Open(ctx, nil)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestOpenS3(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(t.TempDir(), "none"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(t.TempDir(), "none"))

	ctx := context.Background()
	st, err := Storage{Backend: BackendS3, Bucket: "b", Region: "us-east-1", Endpoint: "http://localhost:4566"}.Open(ctx, nil)
	require.NoError(t, err)
	assert.IsType(t, &s3store.Store{}, st)

	st, err = Storage{Backend: BackendS3, Bucket: "b", Prefix: "db", Region: "us-east-1", DynamoDBTable: "commits"}.Open(ctx, nil)
	require.NoError(t, err)
	assert.IsType(t, &s3store.DDBCommitStore{}, st)
}
