package upcall

import (
	"fmt"

	"github.com/hupe1980/rvec/model"
)

// PreserveObject keeps x alive until a matching ReleaseObject. Calls nest.
func (b *Bridge) PreserveObject(x any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.preserved[x]++
}

// ReleaseObject undoes one PreserveObject. Releasing an object that is not
// preserved is a contract violation.
func (b *Bridge) ReleaseObject(x any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	n, ok := b.preserved[x]
	if !ok {
		return violation("R_ReleaseObject", x, "object was not preserved")
	}
	if n == 1 {
		delete(b.preserved, x)
	} else {
		b.preserved[x] = n - 1
	}
	return nil
}

// IsPreserved reports whether x is preserved.
func (b *Bridge) IsPreserved(x any) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.preserved[x] > 0
}

// Protect pushes x on the protect stack and returns it.
func (b *Bridge) Protect(x any) any {
	b.mu.Lock()
	b.protect = append(b.protect, x)
	b.mu.Unlock()
	return x
}

// ProtectWithIndex pushes x and returns its stack index for Reprotect.
func (b *Bridge) ProtectWithIndex(x any) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.protect = append(b.protect, x)
	return len(b.protect) - 1
}

// Reprotect replaces the entry at index.
func (b *Bridge) Reprotect(x any, index int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if index < 0 || index >= len(b.protect) {
		return violation("R_Reprotect", x, "index %d outside protect stack of depth %d", index, len(b.protect))
	}
	b.protect[index] = x
	return nil
}

// Unprotect pops n entries.
func (b *Bridge) Unprotect(n int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n < 0 || n > len(b.protect) {
		return violation("Rf_unprotect", nil, "cannot unprotect %d of %d entries", n, len(b.protect))
	}
	clear(b.protect[len(b.protect)-n:])
	b.protect = b.protect[:len(b.protect)-n]
	return nil
}

// UnprotectPtr removes the topmost entry holding x.
func (b *Bridge) UnprotectPtr(x any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.protect) - 1; i >= 0; i-- {
		if b.protect[i] == x {
			b.protect = append(b.protect[:i], b.protect[i+1:]...)
			return nil
		}
	}
	return violation("Rf_unprotect_ptr", x, "pointer not found in protect stack")
}

// ProtectDepth returns the protect stack depth.
func (b *Bridge) ProtectDepth() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.protect)
}

func violation(op string, x any, format string, args ...any) error {
	typ := ""
	if x != nil {
		typ = fmt.Sprintf("%T", x)
	}
	return &model.ContractError{Op: op, Type: typ, Detail: fmt.Sprintf(format, args...)}
}
