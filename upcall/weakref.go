package upcall

import "sync"

// WeakRef associates a value and a finalizer with a key.
type WeakRef struct {
	mu        sync.Mutex
	key       any
	value     any
	finalizer func(key any)
	onexit    bool
	done      bool
}

// MakeWeakRef creates a weak reference. Finalizers of references created with
// onexit run when the bridge closes.
func (b *Bridge) MakeWeakRef(key, value any, finalizer func(key any), onexit bool) *WeakRef {
	r := &WeakRef{key: key, value: value, finalizer: finalizer, onexit: onexit}
	b.mu.Lock()
	b.weakRefs = append(b.weakRefs, r)
	b.mu.Unlock()
	return r
}

// Key returns the key, or nil once finalized.
func (r *WeakRef) Key() any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.key
}

// Value returns the value, or nil once finalized.
func (r *WeakRef) Value() any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.value
}

// Finalize runs the finalizer once and clears the reference.
func (r *WeakRef) Finalize() {
	r.mu.Lock()
	if r.done {
		r.mu.Unlock()
		return
	}
	r.done = true
	key, fin := r.key, r.finalizer
	r.key, r.value, r.finalizer = nil, nil, nil
	r.mu.Unlock()

	if fin != nil {
		fin(key)
	}
}
