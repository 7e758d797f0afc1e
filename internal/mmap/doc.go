// Package mmap provides read-only file mappings and anonymous read-write
// mappings.
//
// File mappings back local lazy-load databases so that a fetch reads the
// compressed record straight from the page cache:
//
//	m, err := mmap.Open("base.rdb")
//	if err != nil { ... }
//	defer m.Close()
//	rec, err := m.Record(offset, length)
//
// Anonymous mappings hold vector data that native code pinned through
// DATAPTR. The memory lives outside the Go heap, so its address stays valid
// until the mapping is closed:
//
//	m, err := mmap.MapAnon(n * 8)
//	data := mmap.Slice[float64](m, n)
//
// Unix uses mmap(2) and madvise(2); Windows uses file mapping views and
// VirtualAlloc, and ignores access hints.
//
// Bytes and Slice results must not be used after Close.
package mmap
