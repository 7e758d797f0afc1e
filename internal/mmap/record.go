package mmap

// Record returns the mapped bytes [off, off+length) of a lazy-load record and
// hints the kernel that they will be read sequentially. A range running past
// the end of the mapping is truncated. The slice is valid until Close.
func (m *Mapping) Record(off, length int64) ([]byte, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}
	if off < 0 {
		return nil, ErrInvalidOffset
	}
	if length < 0 {
		return nil, ErrInvalidSize
	}
	size := int64(m.size)
	if off >= size || length == 0 {
		return nil, nil
	}
	rec := m.data[off:min(off+length, size)]
	_ = osAdvise(rec, AccessSequential)
	return rec, nil
}
