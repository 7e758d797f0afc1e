// Package attr implements the attribute side table attached to containers.
//
// Attributes live in a Store whose layout is described by a Shape: the ordered
// list of attribute names it holds. Shapes form a transition tree rooted at
// Empty. Adding a name to a store follows (and memoizes) the edge for that name,
// so stores that receive the same names in the same order converge on the same
// Shape instance:
//
//	a, b := attr.New(), attr.New()
//	a.Set("names", x); a.Set("dim", y)
//	b.Set("names", x); b.Set("dim", y)
//	a.Shape() == b.Shape() // true
//
// Frequently used attributes are accessed through a Key, which carries a small
// inline cache from Shape to slot index and only falls back to the shape's map
// lookup on a miss.
//
// Iteration order is insertion order. Copy is shallow: values that implement
// Shareable are promoted to shared-permanent because they are now reachable
// from two stores.
package attr
