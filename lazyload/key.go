package lazyload

import (
	"fmt"

	"github.com/hupe1980/rvec/model"
	"github.com/hupe1980/rvec/vector"
)

// Key addresses one record of a database file.
type Key struct {
	Offset int `json:"offset" yaml:"offset"`
	// Length is the record size in bytes, headers included.
	Length int `json:"length" yaml:"length"`
}

func (k Key) String() string { return fmt.Sprintf("[%d, %d]", k.Offset, k.Length) }

// Vector returns the key as a length-two integer vector.
func (k Key) Vector() *vector.Vector {
	return vector.NewInt([]int32{int32(k.Offset), int32(k.Length)})
}

// KeyFromVector parses a length-two numeric vector.
func KeyFromVector(v *vector.Vector) (Key, error) {
	if v == nil || v.Len() != 2 || (v.Type() != model.TypeInteger && v.Type() != model.TypeDouble) {
		return Key{}, fmt.Errorf("%w: need a numeric vector of length 2", ErrInvalidKey)
	}
	iv := vector.AsInt(v)
	off, n := vector.At[int32](iv, 0), vector.At[int32](iv, 1)
	if off == model.IntNA || n == model.IntNA || off < 0 || n < 0 {
		return Key{}, fmt.Errorf("%w: %d, %d", ErrInvalidKey, off, n)
	}
	return Key{Offset: int(off), Length: int(n)}, nil
}
