// Package sqlite provides a blobstore.Store kept in a single SQLite file.
//
// It suits lazy-load databases that should travel as one file, or contexts
// that need durable storage without a server:
//
//	store, err := sqlite.Open(ctx, "/var/lib/rvec/blobs.db")
//	if err != nil { ... }
//	defer store.Close()
//
// The driver is modernc.org/sqlite, which needs no cgo.
package sqlite
