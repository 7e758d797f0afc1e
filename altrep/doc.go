// Package altrep implements external vector representations.
//
// A Class is registered per (name, package) in a Registry and carries the
// optional methods an implementor supplies: element access, region reads,
// data pointers, duplication, coercion, serialization, sortedness, the no-NA
// hint, and sum/min/max fast paths. Vectors created from a class are backed by
// an External store that calls those methods and falls back to documented
// defaults when a method is absent:
//
//   - Elt: read through the data pointer, else materialize once and index.
//   - Materialize: Dataptr_or_null, Dataptr, Get_region in blocks, Elt.
//   - Duplicate: materialize and copy.
//   - No_NA: unknown, so the vector is not complete.
//   - Is_sorted: unknown.
//
// Length is mandatory. A class without it is a misconfiguration and every
// length query panics with a contract violation.
//
// Methods that fail return errors tagged with the class and package. On the
// element-access hot path the error is raised as a *HookError panic, which the
// execution context recovers.
package altrep
