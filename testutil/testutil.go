package testutil

import (
	"math"
	"math/rand"
	"strconv"
	"sync"

	"github.com/hupe1980/rvec/attr"
	"github.com/hupe1980/rvec/model"
	"github.com/hupe1980/rvec/vector"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// NAMask reports for each of n positions whether it is missing.
// missingRate is the probability of a missing position (0.3 = 30% missing).
func (r *RNG) NAMask(n int, missingRate float64) []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.naMaskLocked(n, missingRate)
}

func (r *RNG) naMaskLocked(n int, missingRate float64) []bool {
	mask := make([]bool, n)
	if missingRate <= 0 {
		return mask
	}
	for i := range mask {
		mask[i] = r.rand.Float64() < missingRate
	}
	return mask
}

// fill draws n values, replacing the masked ones with NA.
func fill[T any](r *RNG, n int, naRate float64, draw func(*rand.Rand) T) *vector.Vector {
	r.mu.Lock()
	defer r.mu.Unlock()

	mask := r.naMaskLocked(n, naRate)
	data := make([]T, n)
	for i := range data {
		if mask[i] {
			data[i] = model.NA[T]()
			continue
		}
		data[i] = draw(r.rand)
	}
	return vector.FromStore(vector.DenseOf(data))
}

// Ints returns n integers in [-1000, 1000).
func (r *RNG) Ints(n int, naRate float64) *vector.Vector {
	return fill(r, n, naRate, func(rnd *rand.Rand) int32 { return int32(rnd.Intn(2000) - 1000) })
}

// Doubles returns n standard normal doubles.
func (r *RNG) Doubles(n int, naRate float64) *vector.Vector {
	return fill(r, n, naRate, func(rnd *rand.Rand) float64 { return rnd.NormFloat64() })
}

// Logicals returns n logicals.
func (r *RNG) Logicals(n int, naRate float64) *vector.Vector {
	return fill(r, n, naRate, func(rnd *rand.Rand) model.Logical { return model.LogicalOf(rnd.Intn(2) == 1) })
}

// Complexes returns n complex numbers with standard normal parts.
func (r *RNG) Complexes(n int, naRate float64) *vector.Vector {
	return fill(r, n, naRate, func(rnd *rand.Rand) complex128 { return complex(rnd.NormFloat64(), rnd.NormFloat64()) })
}

// Strings returns n short lowercase words.
func (r *RNG) Strings(n int, naRate float64) *vector.Vector {
	return fill(r, n, naRate, func(rnd *rand.Rand) string {
		b := make([]byte, 1+rnd.Intn(8))
		for i := range b {
			b[i] = byte('a' + rnd.Intn(26))
		}
		return string(b)
	})
}

// Raws returns n random bytes.
func (r *RNG) Raws(n int) *vector.Vector {
	return fill(r, n, 0, func(rnd *rand.Rand) byte { return byte(rnd.Intn(256)) })
}

// IntMatrix returns an nr x nc integer matrix.
func (r *RNG) IntMatrix(nr, nc int, naRate float64) *vector.Vector {
	m := r.Ints(nr*nc, naRate)
	m.SetDim(nr, nc)
	return m
}

// DoubleMatrix returns an nr x nc double matrix.
func (r *RNG) DoubleMatrix(nr, nc int, naRate float64) *vector.Vector {
	m := r.Doubles(nr*nc, naRate)
	m.SetDim(nr, nc)
	return m
}

// Zipf returns a Zipfian-distributed value in [0, n).
// Uses Zipf's law: P(k) ∝ 1/k^s where s is the skew parameter.
// s=1.0 gives standard Zipf, s=1.5 gives heavy-tail (80/20 rule).
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zipfLocked(n, s)
}

// zipfLocked is the internal implementation (caller must hold lock).
func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}

	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}

	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1
		}
	}

	return n - 1
}

// ZipfCodes returns n factor codes in [1, levels] with Zipfian skew.
func (r *RNG) ZipfCodes(n, levels int, s float64) []int32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	codes := make([]int32, n)
	for i := range codes {
		codes[i] = int32(r.zipfLocked(levels, s) + 1)
	}
	return codes
}

// Factor returns a factor of n values over levels "L1".."Ln" with Zipfian
// skew.
func (r *RNG) Factor(n, levels int, naRate float64) *vector.Vector {
	codes := r.ZipfCodes(n, levels, 1.5)
	for i, na := range r.NAMask(n, naRate) {
		if na {
			codes[i] = model.IntNA
		}
	}
	names := make([]string, levels)
	for i := range names {
		names[i] = "L" + strconv.Itoa(i+1)
	}
	f := vector.FromStore(vector.DenseOf(codes))
	f.SetAttr(attr.LevelsName, vector.NewString(names))
	f.SetClass("factor")
	return f
}

// DataFrame returns a data frame with nr rows and the columns id (integer
// sequence), x (double), name (character) and group (factor).
func (r *RNG) DataFrame(nr int, naRate float64) *vector.Vector {
	cols := []any{
		vector.NewIntSeq(1, 1, nr),
		r.Doubles(nr, naRate),
		r.Strings(nr, naRate),
		r.Factor(nr, 4, naRate),
	}
	df := vector.NewList(cols)
	df.SetNames(vector.NewString([]string{"id", "x", "name", "group"}))
	df.SetClass("data.frame")
	df.SetAttr(attr.RowNamesName, vector.NewInt([]int32{model.IntNA, int32(-nr)}))
	return df
}
