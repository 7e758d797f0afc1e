// Package conv provides checked integer conversions for on-disk headers.
//
// Lazy-load records carry their uncompressed length as a 4-byte big-endian
// field; values that do not fit are rejected instead of silently truncated.
package conv
