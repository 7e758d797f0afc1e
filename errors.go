package rvec

import (
	"errors"
	"fmt"

	"github.com/hupe1980/rvec/altrep"
	"github.com/hupe1980/rvec/model"
)

var (
	// ErrClosed is returned by operations on a closed context.
	ErrClosed = errors.New("rvec: context is closed")

	// ErrContractViolation wraps internal invariant failures recovered by Eval.
	ErrContractViolation = errors.New("rvec: contract violation")

	// ErrHookFailed wraps failures of ALTREP class methods.
	ErrHookFailed = errors.New("rvec: altrep method failed")

	// ErrNotTransferable is returned by Import for values bound to their
	// source context.
	ErrNotTransferable = errors.New("rvec: value cannot cross contexts")
)

// ErrImport reports a value Import refused.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrImport struct {
	Type  string
	cause error
}

func (e *ErrImport) Error() string {
	return fmt.Sprintf("import of %s: %v", e.Type, e.cause)
}

func (e *ErrImport) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrContractViolation) || errors.Is(err, ErrHookFailed) {
		return err
	}

	var he *altrep.HookError
	if errors.As(err, &he) {
		return fmt.Errorf("%w: %w", ErrHookFailed, err)
	}
	var ce *model.ContractError
	if errors.As(err, &ce) {
		return fmt.Errorf("%w: %w", ErrContractViolation, err)
	}

	return err
}
