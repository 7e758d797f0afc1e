// Package serialize converts values to and from a compact binary form.
//
// Vectors are written through their materialized elements and attribute
// iteration, so every backing store serializes the same way. Two shapes are
// kept compact: arithmetic sequences are written as (start, stride, n), and
// external vectors whose class provides Serialized_state and Unserialize are
// written as their class identity plus state and rebuilt through the
// registry on read.
//
// Character vectors carry their NA positions as a roaring bitmap ahead of
// the non-NA strings.
package serialize
