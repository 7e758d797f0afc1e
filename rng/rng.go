package rng

import (
	"errors"
	"math"
	"os"
	"time"

	"github.com/hupe1980/rvec/model"
)

var (
	// ErrUnsupportedKind is returned for generator kinds that are not implemented.
	ErrUnsupportedKind = errors.New("RNG kind is not implemented")
	// ErrInvalidLength is returned for a negative or NA result length.
	ErrInvalidLength = errors.New("invalid arguments")
)

// RNG is the random state of one execution context.
type RNG struct {
	kind     Kind
	normKind NormKind
	gen      Generator
	seed     int32
	normKeep float64
	warn     model.Warner
}

type options struct {
	kind     Kind
	normKind NormKind
	gen      Generator
	seed     *int32
	warn     model.Warner
}

// Option configures New.
type Option func(*options)

// WithSeed seeds the generator as set.seed would. Without it the seed is
// derived from the clock and process id.
func WithSeed(seed int32) Option {
	return func(o *options) { o.seed = &seed }
}

// WithKind selects a built-in generator. Default MersenneTwister.
func WithKind(k Kind) Option {
	return func(o *options) { o.kind = k }
}

// WithGenerator installs a user-supplied uniform source.
func WithGenerator(g Generator) Option {
	return func(o *options) { o.gen = g }
}

// WithNormKind selects the normal generator. Default Inversion.
func WithNormKind(k NormKind) Option {
	return func(o *options) { o.normKind = k }
}

// WithWarner sets where "NAs produced" warnings go.
func WithWarner(w model.Warner) Option {
	return func(o *options) { o.warn = w }
}

// New returns a seeded RNG.
func New(optFns ...Option) (*RNG, error) {
	o := options{
		kind:     MersenneTwister,
		normKind: Inversion,
		warn:     model.DiscardWarnings,
	}
	for _, fn := range optFns {
		fn(&o)
	}

	gen := o.gen
	if gen == nil {
		var err error
		if gen, err = newGenerator(o.kind); err != nil {
			return nil, err
		}
	}
	if o.normKind != Inversion && o.normKind != BoxMuller {
		return nil, ErrUnsupportedKind
	}

	r := &RNG{kind: o.kind, normKind: o.normKind, gen: gen, warn: o.warn}
	seed := timeSeed()
	if o.seed != nil {
		seed = *o.seed
	}
	r.SetSeed(seed)
	return r, nil
}

func timeSeed() int32 {
	millis := uint32(time.Now().UnixMilli())
	return int32(millis<<16) ^ int32(os.Getpid())
}

// SetSeed reinitializes the generator.
func (r *RNG) SetSeed(seed int32) {
	s := uint32(seed)
	for range 50 {
		s = 69069*s + 1
	}
	r.seed = seed
	r.normKeep = 0
	r.gen.Init(s)
}

// Seed returns the last seed set.
func (r *RNG) Seed() int32 { return r.seed }

// Kind returns the generator kind.
func (r *RNG) Kind() Kind { return r.kind }

// NormKind returns the normal generator kind.
func (r *RNG) NormKind() NormKind { return r.normKind }

// State returns the .Random.seed vector: the encoded kinds followed by the
// generator state.
func (r *RNG) State() []int32 {
	seeds := r.gen.Seeds()
	out := make([]int32, len(seeds)+1)
	out[0] = int32(r.kind) + 100*int32(r.normKind)
	copy(out[1:], seeds)
	return out
}

// UnifRand returns a uniform deviate in (0, 1).
func (r *RNG) UnifRand() float64 { return r.gen.Uniform() }

const big = 134217728 // 2^27

// NormRand returns a standard normal deviate.
func (r *RNG) NormRand() float64 {
	if r.normKind == BoxMuller {
		if r.normKeep != 0 {
			s := r.normKeep
			r.normKeep = 0
			return s
		}
		theta := 2 * math.Pi * r.UnifRand()
		radius := math.Sqrt(-2*math.Log(r.UnifRand())) + 10*math.SmallestNonzeroFloat64
		r.normKeep = radius * math.Sin(theta)
		return radius * math.Cos(theta)
	}
	// One uniform alone lacks precision in the tails.
	u := r.UnifRand()
	u = float64(int(big*u)) + r.UnifRand()
	return qnorm(u / big)
}

func qnorm(p float64) float64 {
	return -math.Sqrt2 * math.Erfcinv(2*p)
}

var expQ = [...]float64{
	0.6931471805599453,
	0.9333736875190459,
	0.9888777961838675,
	0.9984959252914960040,
	0.9998292811061389,
	0.9999833164100727,
	0.9999985691438767,
	0.9999998906925558,
	0.9999999924734159,
	0.9999999995283275,
	0.9999999999728814,
	0.9999999999985598,
	0.9999999999999289,
	0.9999999999999968,
	0.9999999999999999,
	1.0000000000000000,
}

// ExpRand returns a standard exponential deviate (Ahrens and Dieter, 1972).
func (r *RNG) ExpRand() float64 {
	a := 0.0
	u := r.UnifRand()
	for u <= 0 || u >= 1 {
		u = r.UnifRand()
	}
	for {
		u += u
		if u > 1 {
			break
		}
		a += expQ[0]
	}
	u--
	if u <= expQ[0] {
		return a + u
	}
	i := 0
	ustar := r.UnifRand()
	umin := ustar
	for {
		ustar = r.UnifRand()
		if umin > ustar {
			umin = ustar
		}
		i++
		if u <= expQ[i] {
			break
		}
	}
	return a + umin*expQ[0]
}
