package altrep

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/hupe1980/rvec/model"
)

type hookSlot struct {
	fn any
}

// Class describes an external representation. Methods may be set at any time;
// instances pick up the current method on every call.
type Class struct {
	id     uuid.UUID
	name   string
	pkg    string
	typ    model.ElementType
	logger *slog.Logger

	hooks [numHooks]atomic.Pointer[hookSlot]
	calls [numHooks]atomic.Int64
}

// ID returns the unique descriptor id.
func (c *Class) ID() uuid.UUID { return c.id }

// Name returns the class name.
func (c *Class) Name() string { return c.name }

// Package returns the package that registered the class.
func (c *Class) Package() string { return c.pkg }

// Type returns the element type of the class's vectors.
func (c *Class) Type() model.ElementType { return c.typ }

func (c *Class) String() string {
	return fmt.Sprintf("%s::%s<%s>", c.pkg, c.name, c.typ)
}

// HasHook reports whether method k is set.
func (c *Class) HasHook(k HookKind) bool {
	return c.hooks[k].Load() != nil
}

// CallCount returns how often method k has been invoked.
func (c *Class) CallCount(k HookKind) int64 { return c.calls[k].Load() }

// SetHook sets method k. fn must match the signature for k; typed methods
// use the class element type. A nil fn unsets the method.
func (c *Class) SetHook(k HookKind, fn any) error {
	if k < 0 || k >= numHooks {
		return fmt.Errorf("%w: unknown method kind %d", ErrHookSignature, k)
	}
	if fn == nil {
		c.hooks[k].Store(nil)
		return nil
	}
	if !checkHook(c.typ, k, fn) {
		return fmt.Errorf("%w: %s for %s class %s got %T", ErrHookSignature, k, c.typ, c.name, fn)
	}
	c.hooks[k].Store(&hookSlot{fn: fn})
	c.logger.Debug("altrep method set", "class", c.name, "package", c.pkg, "method", k.String())
	return nil
}

func (c *Class) mustSet(k HookKind, fn any) {
	if err := c.SetHook(k, fn); err != nil {
		model.Violation("setMethod", c.typ.String(), "%v", err)
	}
}

func (c *Class) SetLengthMethod(fn LengthFunc)                   { c.mustSet(HookLength, fn) }
func (c *Class) SetDuplicateMethod(fn DuplicateFunc)             { c.mustSet(HookDuplicate, fn) }
func (c *Class) SetCoerceMethod(fn CoerceFunc)                   { c.mustSet(HookCoerce, fn) }
func (c *Class) SetSerializedStateMethod(fn SerializedStateFunc) { c.mustSet(HookSerializedState, fn) }
func (c *Class) SetUnserializeMethod(fn UnserializeFunc)         { c.mustSet(HookUnserialize, fn) }
func (c *Class) SetInspectMethod(fn InspectFunc)                 { c.mustSet(HookInspect, fn) }
func (c *Class) SetExtractSubsetMethod(fn ExtractSubsetFunc)     { c.mustSet(HookExtractSubset, fn) }
func (c *Class) SetIsSortedMethod(fn IsSortedFunc)               { c.mustSet(HookIsSorted, fn) }
func (c *Class) SetNoNAMethod(fn NoNAFunc)                       { c.mustSet(HookNoNA, fn) }
func (c *Class) SetSumMethod(fn SummaryFunc)                     { c.mustSet(HookSum, fn) }
func (c *Class) SetMinMethod(fn SummaryFunc)                     { c.mustSet(HookMin, fn) }
func (c *Class) SetMaxMethod(fn SummaryFunc)                     { c.mustSet(HookMax, fn) }

// SetEltMethod sets the element accessor. T must be the class element type.
func SetEltMethod[T any](c *Class, fn EltFunc[T]) error {
	return setTyped[T](c, HookElt, fn)
}

// SetSetEltMethod sets the element setter.
func SetSetEltMethod[T any](c *Class, fn SetEltFunc[T]) error {
	return setTyped[T](c, HookSetElt, fn)
}

// SetGetRegionMethod sets the bulk region reader.
func SetGetRegionMethod[T any](c *Class, fn GetRegionFunc[T]) error {
	return setTyped[T](c, HookGetRegion, fn)
}

// SetDataptrMethod sets the data pointer accessor.
func SetDataptrMethod[T any](c *Class, fn DataptrFunc[T]) error {
	return setTyped[T](c, HookDataptr, fn)
}

// SetDataptrOrNullMethod sets the optional data pointer accessor.
func SetDataptrOrNullMethod[T any](c *Class, fn DataptrOrNullFunc[T]) error {
	return setTyped[T](c, HookDataptrOrNull, fn)
}

func setTyped[T any](c *Class, k HookKind, fn any) error {
	if model.TypeOf[T]() != c.typ {
		return fmt.Errorf("%w: %s method of %s class %s", ErrTypeMismatch, model.TypeOf[T](), c.typ, c.name)
	}
	return c.SetHook(k, fn)
}

func (c *Class) hook(k HookKind) any {
	s := c.hooks[k].Load()
	if s == nil {
		return nil
	}
	c.calls[k].Add(1)
	return s.fn
}

func (c *Class) fail(k HookKind, err error) *HookError {
	c.logger.Warn("altrep method failed", "class", c.name, "package", c.pkg, "method", k.String(), "error", err)
	return &HookError{Class: c.name, Package: c.pkg, Hook: k, Err: err}
}

func (c *Class) length(x *Instance) int {
	fn, _ := c.hook(HookLength).(LengthFunc)
	if fn == nil {
		model.Violation("length", c.typ.String(), "class %s::%s has no Length method", c.pkg, c.name)
	}
	return fn(x)
}
