// Package rng implements the uniform, normal and exponential random sources of
// an execution context, and the vectorized generators built on them.
//
// Every context owns its own RNG; nothing here is process-global. An RNG is
// not safe for concurrent use.
//
// The default generator is the Mersenne-Twister seeded the way set.seed does,
// so a given seed reproduces the same uniform stream:
//
//	r := rng.New(rng.WithSeed(42))
//	u := r.UnifRand()
//
// The vectorized generators (Runif, Rnorm, Rexp, Rpois) recycle their
// parameter vectors against the requested length. Invalid parameters yield
// NaN (or NA for integer results) and a single "NAs produced" warning per
// call.
package rng
