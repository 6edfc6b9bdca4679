package testutil

import "fmt"

// SequentialIDs generates run IDs "<prefix>-001", "<prefix>-002", ...
//
// It satisfies engine.RunIDGenerator and never runs out, which suits
// harnesses that record an unknown number of runs. Use
// engine.FixedGenerator when a test should fail on an unexpected run.
type SequentialIDs struct {
	prefix string
	n      int
}

// NewSequentialIDs creates a generator with the given prefix.
func NewSequentialIDs(prefix string) *SequentialIDs {
	return &SequentialIDs{prefix: prefix}
}

// Generate returns the next ID.
func (g *SequentialIDs) Generate() string {
	g.n++
	return fmt.Sprintf("%s-%03d", g.prefix, g.n)
}

// Reset restarts numbering at 001.
func (g *SequentialIDs) Reset() {
	g.n = 0
}
