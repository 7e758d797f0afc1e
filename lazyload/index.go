package lazyload

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/hupe1980/rvec/blobstore"
	"github.com/hupe1980/rvec/codec"
	"github.com/hupe1980/rvec/internal/cache"
	"github.com/hupe1980/rvec/internal/hash"
	"github.com/hupe1980/rvec/value"
)

// IndexSuffix is appended to index blob names.
const IndexSuffix = ".rdx"

// Index maps variable names to records of one database file.
type Index struct {
	File        string         `json:"file" yaml:"file"`
	Compression int            `json:"compression" yaml:"compression"`
	Variables   map[string]Key `json:"variables" yaml:"variables"`
}

// NewIndex creates an empty index for file.
func NewIndex(file string, compression int) *Index {
	return &Index{File: file, Compression: compression, Variables: make(map[string]Key)}
}

// Names returns the variable names in sorted order.
func (idx *Index) Names() []string {
	names := make([]string, 0, len(idx.Variables))
	for name := range idx.Variables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type indexEnvelope struct {
	Codec    string `json:"codec"`
	Index    []byte `json:"index"`
	Checksum uint32 `json:"crc32c"`
}

// Put inserts v under name into the index's file and records its key.
func (db *DB) Put(ctx context.Context, idx *Index, name string, v any) error {
	key, err := db.Insert(ctx, v, idx.File, idx.Compression)
	if err != nil {
		return err
	}
	idx.Variables[name] = key
	return nil
}

// SaveIndex writes idx as name+".rdx".
func (db *DB) SaveIndex(ctx context.Context, name string, idx *Index) error {
	body, err := db.codec.Marshal(idx)
	if err != nil {
		return err
	}
	// The envelope is always go-json so the codec name can be read first.
	env, err := codec.GoJSON{}.Marshal(indexEnvelope{
		Codec:    db.codec.Name(),
		Index:    body,
		Checksum: hash.CRC32C(body),
	})
	if err != nil {
		return err
	}
	blob := name + IndexSuffix
	db.cache.Invalidate(func(k cache.Key) bool { return k.Kind == cache.KindIndex && k.Path == blob })
	return db.store.Put(ctx, blob, env)
}

// LoadIndex reads the index saved under name.
func (db *DB) LoadIndex(ctx context.Context, name string) (*Index, error) {
	blob := name + IndexSuffix
	k := cache.Key{Kind: cache.KindIndex, Path: blob}
	raw, ok := db.cache.Get(ctx, k)
	if !ok {
		var err error
		if raw, err = blobstore.ReadAll(ctx, db.store, blob); err != nil {
			return nil, err
		}
		db.cache.Set(ctx, k, raw)
	}

	var env indexEnvelope
	if err := (codec.GoJSON{}).Unmarshal(raw, &env); err != nil {
		return nil, &CorruptError{Path: blob, Err: err}
	}
	if err := hash.Verify(env.Index, env.Checksum); err != nil {
		return nil, &CorruptError{Path: blob, Err: err}
	}
	c, ok := codec.ByName(env.Codec)
	if !ok {
		return nil, &CorruptError{Path: blob, Err: fmt.Errorf("unknown codec %q", env.Codec)}
	}
	idx := &Index{}
	if err := c.Unmarshal(env.Index, idx); err != nil {
		return nil, &CorruptError{Path: blob, Err: err}
	}
	if idx.Variables == nil {
		idx.Variables = make(map[string]Key)
	}
	return idx, nil
}

// Load fetches every variable of idx and binds it in env. Existing
// bindings are overwritten.
func (db *DB) Load(ctx context.Context, idx *Index, env *value.Environment) error {
	names := idx.Names()
	keys := make([]Key, len(names))
	for i, name := range names {
		keys[i] = idx.Variables[name]
	}
	values, err := db.FetchAll(ctx, keys, idx.File, idx.Compression)
	if err != nil {
		return err
	}
	var errs []error
	for i, name := range names {
		if err := env.Assign(name, values[i]); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
