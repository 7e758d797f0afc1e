package builtin

import "errors"

var (
	// ErrInvalidArgument is returned for arguments of the wrong kind or shape.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidType is returned for element types an operation does not accept.
	ErrInvalidType = errors.New("invalid type")
)

const (
	warnNaNs            = "NaNs produced"
	warnIntegerOverflow = "integer overflow - use sum(as.numeric(.))"
)
