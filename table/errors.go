package table

import "errors"

var (
	// ErrCorrupt is returned when an object's shape does not match its data.
	ErrCorrupt = errors.New("corrupt table")
	// ErrInvalidArgument is returned for bad options.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnsupportedType is returned for element types that have no text form.
	ErrUnsupportedType = errors.New("unsupported type for write.table")
)
