package rng

import "fmt"

// i2_32m1 is 1/(2^32 - 1).
const i2_32m1 = 2.328306437080797e-10

// Generator is a uniform source. Uniform returns values in [0, 1).
type Generator interface {
	// Init seeds the generator from an already scrambled seed.
	Init(seed uint32)
	// Seeds returns the generator state as stored in .Random.seed.
	Seeds() []int32
	Uniform() float64
}

// Kind identifies a built-in generator.
type Kind int

const (
	MarsagliaMulticarry Kind = 1
	MersenneTwister     Kind = 3
)

func (k Kind) String() string {
	switch k {
	case MarsagliaMulticarry:
		return "Marsaglia-Multicarry"
	case MersenneTwister:
		return "Mersenne-Twister"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func newGenerator(k Kind) (Generator, error) {
	switch k {
	case MarsagliaMulticarry:
		return &marsaglia{}, nil
	case MersenneTwister:
		return &mersenne{}, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedKind, k)
	}
}

// NormKind selects how normal deviates are produced from uniforms.
type NormKind int

const (
	BoxMuller NormKind = 2
	Inversion NormKind = 4
)

func (k NormKind) String() string {
	switch k {
	case BoxMuller:
		return "Box-Muller"
	case Inversion:
		return "Inversion"
	default:
		return fmt.Sprintf("NormKind(%d)", int(k))
	}
}

// fixup keeps uniforms strictly inside (0, 1).
func fixup(x float64) float64 {
	if x <= 0 {
		return 0.5 * i2_32m1
	}
	if 1-x <= 0 {
		return 1 - 0.5*i2_32m1
	}
	return x
}

type marsaglia struct {
	i1, i2 uint32
}

func (m *marsaglia) Init(seed uint32) {
	seed = 69069*seed + 1
	m.i1 = seed
	seed = 69069*seed + 1
	m.i2 = seed
	if m.i1 == 0 {
		m.i1 = 1
	}
	if m.i2 == 0 {
		m.i2 = 1
	}
}

func (m *marsaglia) Seeds() []int32 { return []int32{int32(m.i1), int32(m.i2)} }

func (m *marsaglia) Uniform() float64 {
	m.i1 = 36969*(m.i1&0xffff) + (m.i1 >> 16)
	m.i2 = 18000*(m.i2&0xffff) + (m.i2 >> 16)
	return fixup(float64((m.i1<<16)^(m.i2&0xffff)) * i2_32m1)
}

const (
	mtN         = 624
	mtM         = 397
	mtMatrixA   = 0x9908b0df
	mtUpperMask = 0x80000000
	mtLowerMask = 0x7fffffff
)

type mersenne struct {
	mt  [mtN]uint32
	mti int
}

func (m *mersenne) Init(seed uint32) {
	// The first of the 625 seeds is the position, overwritten below.
	seed = 69069*seed + 1
	for j := range m.mt {
		seed = 69069*seed + 1
		m.mt[j] = seed
	}
	m.mti = mtN
}

func (m *mersenne) Seeds() []int32 {
	out := make([]int32, mtN+1)
	out[0] = int32(m.mti)
	for i, v := range m.mt {
		out[i+1] = int32(v)
	}
	return out
}

func (m *mersenne) sgenrand(seed uint32) {
	for i := range m.mt {
		m.mt[i] = seed & 0xffff0000
		seed = 69069*seed + 1
		m.mt[i] |= (seed & 0xffff0000) >> 16
		seed = 69069*seed + 1
	}
	m.mti = mtN
}

func (m *mersenne) Uniform() float64 {
	return fixup(m.genrand())
}

func (m *mersenne) genrand() float64 {
	mag01 := [2]uint32{0, mtMatrixA}
	if m.mti >= mtN {
		if m.mti == mtN+1 {
			m.sgenrand(4357)
		}
		var y uint32
		kk := 0
		for ; kk < mtN-mtM; kk++ {
			y = (m.mt[kk] & mtUpperMask) | (m.mt[kk+1] & mtLowerMask)
			m.mt[kk] = m.mt[kk+mtM] ^ (y >> 1) ^ mag01[y&1]
		}
		for ; kk < mtN-1; kk++ {
			y = (m.mt[kk] & mtUpperMask) | (m.mt[kk+1] & mtLowerMask)
			m.mt[kk] = m.mt[kk+mtM-mtN] ^ (y >> 1) ^ mag01[y&1]
		}
		y = (m.mt[mtN-1] & mtUpperMask) | (m.mt[0] & mtLowerMask)
		m.mt[mtN-1] = m.mt[mtM-1] ^ (y >> 1) ^ mag01[y&1]
		m.mti = 0
	}
	y := m.mt[m.mti]
	m.mti++
	y ^= y >> 11
	y ^= (y << 7) & 0x9d2c5680
	y ^= (y << 15) & 0xefc60000
	y ^= y >> 18
	return float64(y) * 2.3283064365386963e-10
}
