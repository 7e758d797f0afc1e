package rng

import (
	"fmt"
	"math"

	"github.com/hupe1980/rvec/model"
	"github.com/hupe1980/rvec/vector"
)

const naProduced = "NAs produced"

// ResultLength interprets the n argument of a generator: a single value is
// the length itself, any other vector stands for its own length.
func ResultLength(n *vector.Vector) (int, error) {
	if n.Len() != 1 {
		return n.Len(), nil
	}
	v := vector.At[int32](vector.AsInt(n), 0)
	if v == model.IntNA || v < 0 {
		return 0, fmt.Errorf("%w: n", ErrInvalidLength)
	}
	return int(v), nil
}

// Unif draws from the uniform distribution on [a, b].
func (r *RNG) Unif(a, b float64) float64 {
	if math.IsInf(a, 0) || math.IsInf(b, 0) || math.IsNaN(a) || math.IsNaN(b) || b < a {
		return math.NaN()
	}
	if a == b {
		return a
	}
	u := r.UnifRand()
	for u <= 0 || u >= 1 {
		u = r.UnifRand()
	}
	return a + (b-a)*u
}

// Norm draws from the normal distribution.
func (r *RNG) Norm(mu, sigma float64) float64 {
	if math.IsNaN(mu) || math.IsInf(sigma, 0) || math.IsNaN(sigma) || sigma < 0 {
		return math.NaN()
	}
	if sigma == 0 || math.IsInf(mu, 0) {
		return mu
	}
	return mu + sigma*r.NormRand()
}

// Exp draws from the exponential distribution with the given scale (1/rate).
func (r *RNG) Exp(scale float64) float64 {
	if math.IsInf(scale, 0) || math.IsNaN(scale) || scale <= 0 {
		if scale == 0 {
			return 0
		}
		return math.NaN()
	}
	return scale * r.ExpRand()
}

// Pois draws from the Poisson distribution. Small means use inversion by
// sequential search, larger ones Hörmann's transformed rejection (PTRS).
func (r *RNG) Pois(mu float64) float64 {
	if math.IsInf(mu, 0) || math.IsNaN(mu) || mu < 0 {
		return math.NaN()
	}
	if mu == 0 {
		return 0
	}
	if mu < 10 {
		limit := math.Exp(-mu)
		k := 0.0
		p := r.UnifRand()
		for p > limit {
			k++
			p *= r.UnifRand()
		}
		return k
	}

	slam := math.Sqrt(mu)
	loglam := math.Log(mu)
	b := 0.931 + 2.53*slam
	a := -0.059 + 0.02483*b
	invalpha := 1.1239 + 1.1328/(b-3.4)
	vr := 0.9277 - 3.6224/(b-2)
	for {
		u := r.UnifRand() - 0.5
		v := r.UnifRand()
		us := 0.5 - math.Abs(u)
		k := math.Floor((2*a/us+b)*u + mu + 0.43)
		if us >= 0.07 && v <= vr {
			return k
		}
		if k < 0 || (us < 0.013 && v > us) {
			continue
		}
		lg, _ := math.Lgamma(k + 1)
		if math.Log(v)+math.Log(invalpha)-math.Log(a/(us*us)+b) <= -mu+k*loglam-lg {
			return k
		}
	}
}

// params recycles up to two double parameter vectors.
type params struct {
	a, b *vector.Cursor[float64]
}

func newParams(vs ...*vector.Vector) (params, bool) {
	var p params
	cs := make([]*vector.Cursor[float64], 2)
	for i := range cs {
		if i >= len(vs) {
			cs[i] = vector.NewFuncCursor(1, func(int) float64 { return 1 })
			continue
		}
		cs[i] = vector.CursorOf[float64](vector.AsDouble(vs[i]))
		if cs[i].Len() == 0 {
			return p, false
		}
	}
	p.a, p.b = cs[0], cs[1]
	return p, true
}

func (p params) next() (float64, float64) {
	p.a.NextWithWrap()
	p.b.NextWithWrap()
	return p.a.Value(), p.b.Value()
}

// doubles fills a double vector of length n with f applied to the recycled
// parameters.
func (r *RNG) doubles(n int, f func(a, b float64) float64, vs ...*vector.Vector) *vector.Vector {
	p, ok := newParams(vs...)
	if !ok {
		r.warn.Warn(naProduced)
		return vector.AllocNA(model.TypeDouble, n)
	}
	out := make([]float64, n)
	nans := false
	for i := range out {
		out[i] = f(p.next())
		if math.IsNaN(out[i]) {
			nans = true
		}
	}
	if nans {
		r.warn.Warn(naProduced)
	}
	return vector.FromStore(vector.NewDense(out, !nans))
}

// ints is doubles for integer-valued distributions; values outside the
// integer range become NA.
func (r *RNG) ints(n int, f func(a, b float64) float64, vs ...*vector.Vector) *vector.Vector {
	p, ok := newParams(vs...)
	if !ok {
		r.warn.Warn(naProduced)
		return vector.AllocNA(model.TypeInteger, n)
	}
	out := make([]int32, n)
	nas := false
	for i := range out {
		v := f(p.next())
		if math.IsNaN(v) || v <= math.MinInt32 || v > math.MaxInt32 {
			out[i] = model.IntNA
			nas = true
			continue
		}
		out[i] = int32(v)
	}
	if nas {
		r.warn.Warn(naProduced)
	}
	return vector.FromStore(vector.NewDense(out, !nas))
}

// Runif returns n uniform deviates on [lo, hi].
func (r *RNG) Runif(n int, lo, hi *vector.Vector) *vector.Vector {
	return r.doubles(n, r.Unif, lo, hi)
}

// Rnorm returns n normal deviates.
func (r *RNG) Rnorm(n int, mean, sd *vector.Vector) *vector.Vector {
	return r.doubles(n, r.Norm, mean, sd)
}

// Rexp returns n exponential deviates with the given rates.
func (r *RNG) Rexp(n int, rate *vector.Vector) *vector.Vector {
	return r.doubles(n, func(rate, _ float64) float64 { return r.Exp(1 / rate) }, rate)
}

// Rpois returns n Poisson deviates as an integer vector.
func (r *RNG) Rpois(n int, lambda *vector.Vector) *vector.Vector {
	return r.ints(n, func(mu, _ float64) float64 { return r.Pois(mu) }, lambda)
}
