package bitmap

import (
	"io"
	"iter"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
)

// Bitmap is a set of element positions.
type Bitmap struct {
	rb *roaring.Bitmap
}

var pool = sync.Pool{
	New: func() any {
		return &Bitmap{rb: roaring.New()}
	},
}

// New creates an empty bitmap.
func New() *Bitmap {
	return &Bitmap{rb: roaring.New()}
}

// Of creates a bitmap holding the given positions.
func Of(positions ...uint32) *Bitmap {
	return &Bitmap{rb: roaring.BitmapOf(positions...)}
}

// Get takes an empty bitmap from the pool. Call Put when done.
func Get() *Bitmap {
	b := pool.Get().(*Bitmap)
	b.rb.Clear()
	return b
}

// Put returns a bitmap to the pool.
func Put(b *Bitmap) {
	if b == nil {
		return
	}
	b.rb.Clear()
	pool.Put(b)
}

// Add adds a position.
func (b *Bitmap) Add(i uint32) {
	b.rb.Add(i)
}

// AddRange adds the positions [lo, hi).
func (b *Bitmap) AddRange(lo, hi uint64) {
	b.rb.AddRange(lo, hi)
}

// Remove removes a position.
func (b *Bitmap) Remove(i uint32) {
	b.rb.Remove(i)
}

// Contains reports whether i is in the set.
func (b *Bitmap) Contains(i uint32) bool {
	if b == nil {
		return false
	}
	return b.rb.Contains(i)
}

// IsEmpty reports whether the set is empty.
func (b *Bitmap) IsEmpty() bool {
	return b == nil || b.rb.IsEmpty()
}

// Cardinality returns the number of positions in the set.
func (b *Bitmap) Cardinality() uint64 {
	if b == nil {
		return 0
	}
	return b.rb.GetCardinality()
}

// ForEach calls fn for every position in ascending order until fn returns false.
func (b *Bitmap) ForEach(fn func(i uint32) bool) {
	if b == nil {
		return
	}
	it := b.rb.Iterator()
	for it.HasNext() {
		if !fn(it.Next()) {
			break
		}
	}
}

// All returns an iterator over the positions in ascending order.
func (b *Bitmap) All() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		b.ForEach(yield)
	}
}

// ToArray returns the positions as a sorted slice.
func (b *Bitmap) ToArray() []uint32 {
	if b == nil {
		return nil
	}
	return b.rb.ToArray()
}

// Clone returns a deep copy.
func (b *Bitmap) Clone() *Bitmap {
	return &Bitmap{rb: b.rb.Clone()}
}

// Or merges other into b.
func (b *Bitmap) Or(other *Bitmap) {
	if other == nil {
		return
	}
	b.rb.Or(other.rb)
}

// Clear removes every position.
func (b *Bitmap) Clear() {
	b.rb.Clear()
}

// WriteTo writes the portable Roaring serialization of b.
func (b *Bitmap) WriteTo(w io.Writer) (int64, error) {
	return b.rb.WriteTo(w)
}

// ReadFrom replaces b with a bitmap read from r.
func (b *Bitmap) ReadFrom(r io.Reader) (int64, error) {
	return b.rb.ReadFrom(r)
}

// SerializedSize returns the number of bytes WriteTo will produce.
func (b *Bitmap) SerializedSize() uint64 {
	return b.rb.GetSerializedSizeInBytes()
}
