package value

import (
	"fmt"
	"sync"

	"github.com/hupe1980/rvec/attr"
)

// NullValue is the type of Nil.
type NullValue struct{}

func (*NullValue) String() string { return "NULL" }

// Nil is the null value. There is exactly one.
var Nil = &NullValue{}

// MissingArg is the type of Missing.
type MissingArg struct{}

func (*MissingArg) String() string { return "<missing>" }

// Missing marks an argument that was not supplied.
var Missing = &MissingArg{}

// Symbol is an interned name. Two symbols with the same name from the same
// table are the same pointer.
type Symbol struct {
	name string
}

func (s *Symbol) Name() string { return s.name }

func (s *Symbol) String() string { return s.name }

// SymbolTable interns symbols for one execution context.
type SymbolTable struct {
	mu      sync.Mutex
	symbols map[string]*Symbol
}

// NewSymbolTable creates an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]*Symbol)}
}

// Intern returns the symbol for name, creating it on first use.
func (t *SymbolTable) Intern(name string) *Symbol {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.symbols[name]; ok {
		return s
	}
	s := &Symbol{name: name}
	t.symbols[name] = s
	return s
}

// Len returns the number of interned symbols.
func (t *SymbolTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.symbols)
}

// Foreign wraps an object owned by another language. It is never copied.
type Foreign struct {
	obj any
}

// NewForeign wraps obj.
func NewForeign(obj any) *Foreign { return &Foreign{obj: obj} }

// Unwrap returns the wrapped object.
func (f *Foreign) Unwrap() any { return f.obj }

func (f *Foreign) String() string { return fmt.Sprintf("<foreign %T>", f.obj) }

// ExternalPtr is an opaque native address with a tag and a protected value.
type ExternalPtr struct {
	addr  uintptr
	tag   any
	prot  any
	attrs *attr.Store
}

// NewExternalPtr creates an external pointer.
func NewExternalPtr(addr uintptr, tag, prot any) *ExternalPtr {
	return &ExternalPtr{addr: addr, tag: tag, prot: prot}
}

func (p *ExternalPtr) Addr() uintptr { return p.addr }

func (p *ExternalPtr) Tag() any { return p.tag }

func (p *ExternalPtr) Protected() any { return p.prot }

// Clear sets the address to zero.
func (p *ExternalPtr) Clear() { p.addr = 0 }

// Attributes returns the attribute table, which may be nil.
func (p *ExternalPtr) Attributes() *attr.Store { return p.attrs }

// SetAttr sets an attribute; nil removes it.
func (p *ExternalPtr) SetAttr(name string, v any) {
	if p.attrs == nil {
		p.attrs = attr.New()
	}
	p.attrs.Set(name, v)
}

// Copy returns a new pointer to the same address. Tag and protected value are
// shared.
func (p *ExternalPtr) Copy() *ExternalPtr {
	return &ExternalPtr{addr: p.addr, tag: p.tag, prot: p.prot, attrs: p.attrs.Copy()}
}

func (p *ExternalPtr) String() string { return fmt.Sprintf("<pointer: 0x%x>", p.addr) }
