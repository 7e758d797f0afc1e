// Package bitmap provides compressed sets of element positions.
//
// Bitmap wraps a 32-bit Roaring bitmap. It records where a vector holds the
// missing-value sentinel, and is the on-disk form of NA masks in serialized
// character vectors. Bitmaps can be pooled with Get/Put on hot paths.
package bitmap
