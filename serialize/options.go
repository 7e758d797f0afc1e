package serialize

import (
	"github.com/hupe1980/rvec/altrep"
	"github.com/hupe1980/rvec/value"
)

type options struct {
	registry *altrep.Registry
	symbols  *value.SymbolTable
	env      *value.Environment
}

// Option configures encoding and decoding.
type Option func(*options)

// WithRegistry resolves external classes on decode.
func WithRegistry(r *altrep.Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithSymbols interns decoded symbols in t.
func WithSymbols(t *value.SymbolTable) Option {
	return func(o *options) { o.symbols = t }
}

// WithEnvironment sets the environment that stands for the global
// environment. Functions closing over it can be serialized, and decoded
// functions are bound to it.
func WithEnvironment(env *value.Environment) Option {
	return func(o *options) { o.env = env }
}

func newOptions(opts []Option) options {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	if o.symbols == nil {
		o.symbols = value.NewSymbolTable()
	}
	return o
}
