package serialize

import (
	"errors"
	"fmt"
)

// Magic starts every serialized stream.
const Magic = "RVS1"

type tag byte

const (
	tagNull tag = iota
	tagMissing
	tagSymbol
	tagVector
	tagSeq
	tagExternal
	tagFunction
	tagS4
	tagExternalPtr
	tagGlobalEnv
)

const (
	flagComplete byte = 1 << iota
	flagAttributes
)

// maxLength bounds element counts read from a stream.
const maxLength = 1 << 40

var (
	// ErrBadMagic is returned when a stream does not start with Magic.
	ErrBadMagic = errors.New("serialize: bad magic")
	// ErrCorrupt is returned for malformed streams.
	ErrCorrupt = errors.New("serialize: corrupt stream")
	// ErrUnknownClass is returned when an external class is not registered.
	ErrUnknownClass = errors.New("serialize: unknown external class")
)

// UnsupportedError reports a value that cannot be serialized.
type UnsupportedError struct {
	Type string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("serialize: cannot serialize %s", e.Type)
}

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorrupt, fmt.Sprintf(format, args...))
}
