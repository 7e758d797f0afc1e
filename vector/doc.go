// Package vector implements vector containers and their backing stores.
//
// A Vector combines a backing Store, an optional attribute table (package attr),
// a sharing state and a completeness flag. Stores implement a common capability
// contract so that algorithms can run over any of them:
//
//   - Dense: a flat typed buffer; the only writeable store
//   - Seq: an arithmetic sequence (start, stride, length) over int32 or float64
//   - Closure: a read-only coercing view over another vector
//   - External stores supplied by package altrep
//
// Typed access goes through Typed[T] for the store's element type T:
//
//	v := vector.NewDoubleSeq(0, 1, 5)
//	c := vector.CursorOf[float64](v)
//	for c.Next() {
//	    fmt.Println(c.Value())
//	}
//
// # Writes
//
// Writes happen through a write session on a Dense store: acquire a
// WriteCursor, set values, then Commit. Writing NA during the session
// downgrades the completeness flag on commit; it is never upgraded again by a
// write. Writing to a shared vector or a non-writeable store is a contract
// violation. Use Update or Reuse for copy-on-write:
//
//	v = vector.Update(v, 3, 42.0) // duplicates first if v is shared
//
// Bounds are not checked on the element access hot path.
package vector
