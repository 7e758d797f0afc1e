package model

import "sync"

// Warner receives non-fatal warnings.
type Warner interface {
	Warn(msg string)
}

// DiscardWarnings is a Warner that drops every warning.
var DiscardWarnings Warner = discard{}

type discard struct{}

func (discard) Warn(string) {}

// Warnings accumulates warnings in the order they were raised.
type Warnings struct {
	mu   sync.Mutex
	msgs []string
}

// Warn implements Warner.
func (w *Warnings) Warn(msg string) {
	w.mu.Lock()
	w.msgs = append(w.msgs, msg)
	w.mu.Unlock()
}

// List returns a copy of the accumulated warnings.
func (w *Warnings) List() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, len(w.msgs))
	copy(out, w.msgs)
	return out
}

// Len returns the number of accumulated warnings.
func (w *Warnings) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.msgs)
}

// Reset drops all accumulated warnings and returns them.
func (w *Warnings) Reset() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := w.msgs
	w.msgs = nil
	return out
}
