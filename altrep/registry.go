package altrep

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/hupe1980/rvec/model"
)

type classKey struct {
	name string
	pkg  string
}

// Registry holds the classes of one execution context.
type Registry struct {
	mu      sync.RWMutex
	classes map[classKey]*Class
	logger  *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger used for registration and method failures.
func WithLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		classes: make(map[classKey]*Class),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register creates the class (name, pkg) with element type typ.
//
// Registering an existing pair with the same type returns the existing class,
// so instances created before and after agree on their descriptor. A different
// type fails with ErrClassConflict.
func (r *Registry) Register(name, pkg string, typ model.ElementType) (*Class, error) {
	if typ == model.TypeUnknown {
		return nil, fmt.Errorf("%w: class %s::%s has no element type", ErrTypeMismatch, pkg, name)
	}
	k := classKey{name: name, pkg: pkg}

	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.classes[k]; ok {
		if c.typ != typ {
			return nil, fmt.Errorf("%w: %s::%s is %s, not %s", ErrClassConflict, pkg, name, c.typ, typ)
		}
		return c, nil
	}

	c := &Class{
		id:     uuid.New(),
		name:   name,
		pkg:    pkg,
		typ:    typ,
		logger: r.logger,
	}
	r.classes[k] = c
	r.logger.Debug("altrep class registered", "class", name, "package", pkg, "type", typ.String(), "id", c.id.String())
	return c, nil
}

// Register is the typed form of Registry.Register.
func Register[T any](r *Registry, name, pkg string) (*Class, error) {
	return r.Register(name, pkg, model.TypeOf[T]())
}

// Lookup returns the class registered as (name, pkg).
func (r *Registry) Lookup(name, pkg string) (*Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.classes[classKey{name: name, pkg: pkg}]
	return c, ok
}

// Len returns the number of registered classes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.classes)
}

// Classes returns the registered classes ordered by package and name.
func (r *Registry) Classes() []*Class {
	r.mu.RLock()
	out := make([]*Class, 0, len(r.classes))
	for _, c := range r.classes {
		out = append(out, c)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].pkg != out[j].pkg {
			return out[i].pkg < out[j].pkg
		}
		return out[i].name < out[j].name
	})
	return out
}
