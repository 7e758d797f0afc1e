package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/hupe1980/rvec/blobstore"
)

const schema = `CREATE TABLE IF NOT EXISTS blobs (
	name TEXT PRIMARY KEY,
	data BLOB NOT NULL
)`

// Store is a blobstore.Store backed by a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path. ":memory:" gives a private
// in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	// One connection: SQLite has a single writer, and every connection to
	// ":memory:" would see its own database.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: create schema in %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM blobs WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", blobstore.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: read %s: %w", name, err)
	}
	return blobstore.NewBytesBlob(data), nil
}

func (s *Store) Create(_ context.Context, name string) (blobstore.WritableBlob, error) {
	return &writableBlob{store: s, name: name}, nil
}

func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	if data == nil {
		data = []byte{}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO blobs (name, data) VALUES (?, ?)
		 ON CONFLICT (name) DO UPDATE SET data = excluded.data`,
		name, data)
	if err != nil {
		return fmt.Errorf("sqlite: write %s: %w", name, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM blobs WHERE name = ?`, name); err != nil {
		return fmt.Errorf("sqlite: delete %s: %w", name, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	// Names sort bytewise, so the matches are a contiguous run from prefix.
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM blobs WHERE name >= ? ORDER BY name`, prefix)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list %q: %w", prefix, err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		if !strings.HasPrefix(name, prefix) {
			break
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

type writableBlob struct {
	store  *Store
	name   string
	buf    bytes.Buffer
	closed bool
}

func (w *writableBlob) Write(p []byte) (int, error) {
	if w.closed {
		return 0, io.ErrClosedPipe
	}
	return w.buf.Write(p)
}

func (w *writableBlob) Close() error {
	if w.closed {
		return io.ErrClosedPipe
	}
	w.closed = true
	return w.store.Put(context.Background(), w.name, w.buf.Bytes())
}

func (w *writableBlob) Sync() error { return nil }
