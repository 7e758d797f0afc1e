// Package lazyload implements lazy-load databases: append-only files of
// serialized values addressed by (offset, length) keys, plus named indexes
// that map variable names to keys.
//
// Each record starts with the 4-byte big-endian uncompressed length unless
// it was written with compression 0. Compression 1 stores a zlib stream
// after the length. Compressions 2 and 3 store a one-byte type tag after the
// length ('0' none, '1' zlib, '4' lz4, 'Z' zstd) followed by the payload.
//
// Database files are read whole, once, and kept in a block cache until
// Flush. Concurrent fetches from an uncached file share one read.
package lazyload
