// Package testutil provides seeded generators of vectors, matrices and data
// frames for tests and benchmarks.
//
// # Random Vectors
//
//	rng := testutil.NewRNG(seed)
//	x := rng.Doubles(1000, 0.1) // about 10% NA
//	m := rng.IntMatrix(3, 4, 0)
//
// # Skewed Data
//
//	codes := rng.ZipfCodes(1000, 8, 1.5) // factor codes, a few levels dominate
//
// Vectors built with an NA rate above zero are marked incomplete exactly when
// an NA was drawn.
package testutil
