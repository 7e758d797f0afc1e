package lazyload

import (
	"errors"
	"fmt"
)

var (
	// ErrCorrupt is returned when a record cannot be decoded.
	ErrCorrupt = errors.New("lazy-load database is corrupt")
	// ErrUnsupportedCompression is returned by Insert for unknown compression levels.
	ErrUnsupportedCompression = errors.New("unsupported compression")
	// ErrInvalidKey is returned for keys that do not address a record.
	ErrInvalidKey = errors.New("invalid lazy-load key")
)

// CorruptError names the database that failed to decode.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("lazy-load database '%s' is corrupt: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() []error { return []error{ErrCorrupt, e.Err} }
