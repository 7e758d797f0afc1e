package model

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrContract is matched by every *ContractError.
var ErrContract = errors.New("contract violation")

// ContractError reports a fatal misuse of a vector or store.
type ContractError struct {
	Op     string
	Type   string
	Detail string
}

func (e *ContractError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("contract violation in %s: %s", e.Op, e.Detail)
	}
	return fmt.Sprintf("contract violation in %s (%s): %s", e.Op, e.Type, e.Detail)
}

// Is makes errors.Is(err, ErrContract) hold.
func (e *ContractError) Is(target error) bool { return target == ErrContract }

// Violation panics with a *ContractError.
func Violation(op, typ, format string, args ...any) {
	panic(&ContractError{Op: op, Type: typ, Detail: fmt.Sprintf(format, args...)})
}

// Catch runs fn and converts an error-valued panic into a returned error.
// Runtime errors (nil dereference, index out of range) and non-error panics
// are re-raised.
func Catch(fn func()) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if _, ok := r.(runtime.Error); ok {
			panic(r)
		}
		e, ok := r.(error)
		if !ok {
			panic(r)
		}
		err = e
	}()
	fn()
	return nil
}
