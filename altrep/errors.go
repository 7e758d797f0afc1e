package altrep

import (
	"errors"
	"fmt"
)

var (
	// ErrClassConflict is returned when a (name, package) pair is registered
	// again with a different element type.
	ErrClassConflict = errors.New("altrep: class already registered with a different type")

	// ErrHookSignature is returned when a method does not match the signature
	// required by its kind and the class element type.
	ErrHookSignature = errors.New("altrep: method has the wrong signature")

	// ErrTypeMismatch is returned when a typed operation does not match the
	// class element type.
	ErrTypeMismatch = errors.New("altrep: element type mismatch")

	// ErrMissingHook is returned when an operation requires a method the class
	// does not have.
	ErrMissingHook = errors.New("altrep: method not set")

	// ErrNotExternal is returned for vectors without an external representation.
	ErrNotExternal = errors.New("altrep: not an external representation")
)

// HookError reports a failed method call, tagged with the class that supplied it.
type HookError struct {
	Class   string
	Package string
	Hook    HookKind
	Err     error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("altrep: %s method of class %s (package %s) failed: %v", e.Hook, e.Class, e.Package, e.Err)
}

func (e *HookError) Unwrap() error { return e.Err }
