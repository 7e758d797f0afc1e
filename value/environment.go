package value

import (
	"errors"
	"fmt"
)

// ErrLockedBinding is returned when assigning to a locked environment.
var ErrLockedBinding = errors.New("cannot change value of locked binding")

// ErrLockedEnvironment is returned when adding a binding to a locked environment.
var ErrLockedEnvironment = errors.New("cannot add bindings to a locked environment")

type sharer interface {
	Share()
}

// Environment is a mutable frame of bindings with an optional parent.
// Environments have reference semantics and are never duplicated.
type Environment struct {
	name   string
	parent *Environment
	frame  map[string]any
	order  []string
	locked bool
}

// NewEnvironment creates an empty environment.
func NewEnvironment(name string, parent *Environment) *Environment {
	return &Environment{name: name, parent: parent, frame: make(map[string]any)}
}

func (e *Environment) Name() string { return e.name }

func (e *Environment) Parent() *Environment { return e.parent }

// Get returns the local binding of name.
func (e *Environment) Get(name string) (any, bool) {
	v, ok := e.frame[name]
	return v, ok
}

// Lookup searches e and its ancestors.
func (e *Environment) Lookup(name string) (any, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.frame[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Assign binds name to v. Binding a vector creates a second reference to it,
// so the vector becomes shared.
func (e *Environment) Assign(name string, v any) error {
	_, exists := e.frame[name]
	if e.locked {
		if exists {
			return fmt.Errorf("%w: '%s'", ErrLockedBinding, name)
		}
		return fmt.Errorf("%w: '%s'", ErrLockedEnvironment, name)
	}
	if s, ok := v.(sharer); ok {
		s.Share()
	}
	if !exists {
		e.order = append(e.order, name)
	}
	e.frame[name] = v
	return nil
}

// Remove deletes the local binding of name. It reports whether it existed.
func (e *Environment) Remove(name string) bool {
	if _, ok := e.frame[name]; !ok || e.locked {
		return false
	}
	delete(e.frame, name)
	for i, n := range e.order {
		if n == name {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	return true
}

// Names returns the local binding names in assignment order.
func (e *Environment) Names() []string {
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

// Len returns the number of local bindings.
func (e *Environment) Len() int { return len(e.frame) }

// Lock prevents further changes to the bindings.
func (e *Environment) Lock() { e.locked = true }

func (e *Environment) IsLocked() bool { return e.locked }

func (e *Environment) String() string {
	if e.name != "" {
		return "<environment: " + e.name + ">"
	}
	return fmt.Sprintf("<environment: %p>", e)
}
