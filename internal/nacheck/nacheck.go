// Package nacheck observes values for the missing-value sentinel so that the
// completeness of a vector can be downgraded lazily.
package nacheck

import (
	"github.com/hupe1980/rvec/internal/bitmap"
	"github.com/hupe1980/rvec/model"
)

// Checker records whether NA was observed.
//
// A disabled checker never reports NA; it is used when reading a source that is
// already known to be complete. A Checker is not safe for concurrent use.
type Checker struct {
	enabled   bool
	seenNA    bool
	positions *bitmap.Bitmap
}

// New returns an enabled checker.
func New() *Checker {
	return &Checker{enabled: true}
}

// ForSource returns a checker for reading a source with the given completeness.
func ForSource(complete bool) *Checker {
	return &Checker{enabled: !complete}
}

// Enable turns checking on when mayHaveNA is set. A checker is never disabled again.
func (c *Checker) Enable(mayHaveNA bool) {
	c.enabled = c.enabled || mayHaveNA
}

// Enabled reports whether values are being checked.
func (c *Checker) Enabled() bool { return c.enabled }

// TrackPositions makes CheckAt record the positions of NA values.
func (c *Checker) TrackPositions() {
	if c.positions == nil {
		c.positions = bitmap.New()
	}
}

// Positions returns the recorded NA positions, or nil when not tracking.
func (c *Checker) Positions() *bitmap.Bitmap { return c.positions }

// SeenNA reports whether any checked value was NA.
func (c *Checker) SeenNA() bool { return c.seenNA }

// NeverSeenNA is the negation of SeenNA.
func (c *Checker) NeverSeenNA() bool { return !c.seenNA }

// Observe records an NA produced outside of Check, e.g. by arithmetic.
func (c *Checker) Observe() {
	c.seenNA = true
}

// Reset forgets everything observed so far.
func (c *Checker) Reset() {
	c.seenNA = false
	if c.positions != nil {
		c.positions.Clear()
	}
}

// Check reports whether v is NA and records it.
func Check[T any](c *Checker, v T) bool {
	if !c.enabled {
		return false
	}
	if model.IsNA(v) {
		c.seenNA = true
		return true
	}
	return false
}

// CheckAt is Check that also records position i when tracking.
func CheckAt[T any](c *Checker, i int, v T) bool {
	if !Check(c, v) {
		return false
	}
	if c.positions != nil {
		c.positions.Add(uint32(i))
	}
	return true
}
