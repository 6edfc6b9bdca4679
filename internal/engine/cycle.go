package engine

import "github.com/roach88/pulsenet/internal/circuit"

// CycleDetector remembers the press count at which each state signature
// was first observed.
//
// A deterministic subsystem driven by identical presses repeats its whole
// future once a signature repeats. Observe reports the first repeat along
// with the press at which that state was first seen, which is where the
// cycle starts.
type CycleDetector struct {
	history map[circuit.Signature]int64
}

// NewCycleDetector creates an empty cycle detector.
func NewCycleDetector() *CycleDetector {
	return &CycleDetector{history: make(map[circuit.Signature]int64)}
}

// Observe records sig as seen at press. If sig was seen before, it
// returns the earlier press and true and leaves the history unchanged.
func (c *CycleDetector) Observe(sig circuit.Signature, press int64) (int64, bool) {
	if first, ok := c.history[sig]; ok {
		return first, true
	}
	c.history[sig] = press
	return press, false
}

// Seen reports whether sig has been observed.
func (c *CycleDetector) Seen(sig circuit.Signature) bool {
	_, ok := c.history[sig]
	return ok
}

// Clear forgets every observation.
func (c *CycleDetector) Clear() {
	clear(c.history)
}

// HistorySize returns the number of distinct signatures observed.
func (c *CycleDetector) HistorySize() int {
	return len(c.history)
}
