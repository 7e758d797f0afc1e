// Package upcall is the surface native code calls back into: element
// accessors, data pointers, region reads, object preservation, the protect
// stack, weak references, ALTREP class construction and duplication.
//
// Upcalls never panic. Contract violations and method failures are returned
// as errors so the native side can turn them into a language-level error.
//
// DATAPTR on a dense numeric vector moves its elements to an anonymous
// mapping so that the address stays valid while native code holds it. The
// bytes are charged to the context's memory budget, and the vector loses its
// completeness guarantee because native code may write NA through the
// pointer. DATAPTR_OR_NULL never pins; it returns nil for vectors that are
// not already pinned or external.
package upcall
