// Package builtin holds a few language built-ins written against the vector
// core: lengths, diag<-, sqrt, sum, min and max.
//
// They show the intended consumer pattern. Reads go through cursors so that
// any store works. Writes go through Reuse and a write session, so a shared
// argument is copied first. Summaries try the external representation's own
// method before scanning.
package builtin
