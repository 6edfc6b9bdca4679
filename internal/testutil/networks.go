package testutil

import (
	"testing"

	"github.com/roach88/pulsenet/internal/circuit"
)

// Reference networks shared by package tests. Expected values are listed
// next to each one.
const (
	// Ring: one press is 8 low and 4 high; 1000 presses give 32000000.
	Ring = `broadcaster -> a, b, c
%a -> b
%b -> c
%c -> inv
&inv -> a
`

	// Chain: 1000 presses are 4250 low and 2750 high (11687500).
	Chain = `broadcaster -> a
%a -> inv, con
&inv -> b
%b -> con
&con -> output
`

	// FeedbackPair: one press is 4 low and 2 high.
	FeedbackPair = `broadcaster -> a
%a -> b
&b -> a
`

	// Counter: a 3-bit binary counter with period 8 over {a, b, c}.
	Counter = `broadcaster -> a
%a -> b
%b -> c
%c -> out
`

	// TwoSubsystems: subsystems of period 3 (entry a) and 1 (entry x)
	// feeding join.
	TwoSubsystems = `broadcaster -> a, x
%a -> b, hub
%b -> hub
&hub -> a, inv1
&inv1 -> join
%x -> hx
&hx -> x, inv2
&inv2 -> join
&join -> rx
`
)

// MustParse parses text or fails the test.
func MustParse(tb testing.TB, text string) *circuit.Graph {
	tb.Helper()
	g, err := circuit.Parse(text)
	if err != nil {
		tb.Fatalf("parse network: %v", err)
	}
	return g
}
