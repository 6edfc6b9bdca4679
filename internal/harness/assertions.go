package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/pulsenet/internal/circuit"
	"github.com/roach88/pulsenet/internal/engine"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string            // Assertion type for categorization
	Expected string            // Human-readable expected outcome
	Actual   string            // Human-readable actual outcome
	Trace    []engine.Delivery // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, d := range e.Trace {
			fmt.Fprintf(&buf, "  [%d/%d] %s -%s-> %s\n", d.Press, d.Seq, d.From, d.Level, d.To)
		}
	}
	return buf.String()
}

// parsePulse parses "from -level-> to".
func parsePulse(s string) (circuit.Pulse, error) {
	fields := strings.Fields(s)
	if len(fields) != 3 || !strings.HasPrefix(fields[1], "-") || !strings.HasSuffix(fields[1], "->") {
		return circuit.Pulse{}, fmt.Errorf("pulse %q: want \"from -level-> to\"", s)
	}
	var p circuit.Pulse
	lvl := strings.TrimSuffix(strings.TrimPrefix(fields[1], "-"), "->")
	if err := p.Level.UnmarshalText([]byte(lvl)); err != nil {
		return circuit.Pulse{}, fmt.Errorf("pulse %q: %w", s, err)
	}
	p.From, p.To = fields[0], fields[2]
	return p, nil
}

func matches(d engine.Delivery, p circuit.Pulse) bool {
	return d.From == p.From && d.Level == p.Level && d.To == p.To
}

// assertTraceContains checks that the pulse was delivered, during the given
// press when one is set.
func assertTraceContains(trace []engine.Delivery, a Assertion) error {
	p, err := parsePulse(a.Pulse)
	if err != nil {
		return err
	}
	for _, d := range trace {
		if matches(d, p) && (a.Press == 0 || d.Press == a.Press) {
			return nil
		}
	}

	expected := a.Pulse
	if a.Press != 0 {
		expected = fmt.Sprintf("%s during press %d", a.Pulse, a.Press)
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: expected,
		Actual:   "pulse not delivered",
		Trace:    trace,
	}
}

// assertTraceOrder checks that the first delivery of each pulse occurs in
// the listed order.
func assertTraceOrder(trace []engine.Delivery, a Assertion) error {
	// Step 1: first position of each pulse (1-indexed, 0 = absent)
	positions := make([]int, len(a.Pulses))
	for i, s := range a.Pulses {
		p, err := parsePulse(s)
		if err != nil {
			return err
		}
		for j, d := range trace {
			if matches(d, p) {
				positions[i] = j + 1
				break
			}
		}
		if positions[i] == 0 {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all pulses present: %v", a.Pulses),
				Actual:   fmt.Sprintf("missing pulse: %s", s),
				Trace:    trace,
			}
		}
	}

	// Step 2: verify order
	for i := 1; i < len(positions); i++ {
		if positions[i-1] >= positions[i] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("pulses in order: %v", a.Pulses),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					a.Pulses[i-1], positions[i-1], a.Pulses[i], positions[i]),
				Trace: trace,
			}
		}
	}
	return nil
}

// assertTraceCount checks the pulse was delivered exactly Count times.
func assertTraceCount(trace []engine.Delivery, a Assertion) error {
	p, err := parsePulse(a.Pulse)
	if err != nil {
		return err
	}
	count := 0
	for _, d := range trace {
		if matches(d, p) {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d deliveries of %s", a.Count, a.Pulse),
			Actual:   fmt.Sprintf("%d deliveries", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertFinalState checks a module's state after the traced presses.
func assertFinalState(st *circuit.State, a Assertion) error {
	m, ok := st.Graph().Module(a.Module)
	if !ok {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("module %s", a.Module),
			Actual:   "module not declared",
		}
	}

	if a.On != nil {
		if m.Kind != circuit.FlipFlop {
			return fmt.Errorf("final_state: %s is a %s, on applies to flip-flops", a.Module, m.Kind)
		}
		if got := st.On(a.Module); got != *a.On {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("%s on=%t", a.Module, *a.On),
				Actual:   fmt.Sprintf("%s on=%t", a.Module, got),
			}
		}
	}

	for input, want := range a.Memory {
		got, ok := st.Remembered(a.Module, input)
		if !ok {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("%s remembers %s", a.Module, input),
				Actual:   "no memory entry",
			}
		}
		if got.String() != want {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("%s remembers %s=%s", a.Module, input, want),
				Actual:   fmt.Sprintf("%s=%s", input, got),
			}
		}
	}
	return nil
}

// EvaluateAssertions evaluates all assertions against the trace and the
// state it left behind. Returns a slice of error messages for failed
// assertions.
func EvaluateAssertions(trace []engine.Delivery, st *circuit.State, assertions []Assertion) []string {
	var errs []string

	for i, a := range assertions {
		var err error

		switch a.Type {
		case AssertTraceContains:
			err = assertTraceContains(trace, a)
		case AssertTraceOrder:
			err = assertTraceOrder(trace, a)
		case AssertTraceCount:
			err = assertTraceCount(trace, a)
		case AssertFinalState:
			err = assertFinalState(st, a)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, a.Type)
		}

		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}
