package mmap

import "errors"

// AccessPattern is a hint about how mapped data will be read.
type AccessPattern int

const (
	AccessDefault AccessPattern = iota
	AccessSequential
	AccessRandom
	AccessWillNeed
	AccessDontNeed
)

var (
	// ErrClosed is returned when using a closed mapping.
	ErrClosed = errors.New("mmap: mapping is closed")
	// ErrInvalidSize is returned for negative sizes.
	ErrInvalidSize = errors.New("mmap: invalid size")
	// ErrOutOfBounds reports a slice range outside the mapping.
	ErrOutOfBounds = errors.New("mmap: out of bounds")
	// ErrInvalidOffset is returned for negative offsets.
	ErrInvalidOffset = errors.New("mmap: invalid offset")
)
