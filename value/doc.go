// Package value holds the language objects that are not vectors and the
// duplication engine that copies any value before in-place mutation.
//
// Null, environments, symbols, the missing-argument marker and foreign
// objects are reference-semantic: Duplicate returns them unchanged. Functions,
// S4 objects and external pointers are copied as objects. Vectors are copied
// through their backing store, and sequences are always materialized.
package value
