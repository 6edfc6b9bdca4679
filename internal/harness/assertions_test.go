package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pulsenet/internal/circuit"
	"github.com/roach88/pulsenet/internal/engine"
	"github.com/roach88/pulsenet/internal/testutil"
)

func delivery(press, seq int64, from string, level circuit.Level, to string) engine.Delivery {
	return engine.Delivery{Press: press, Seq: seq, From: from, Level: level, To: to}
}

var sampleTrace = []engine.Delivery{
	delivery(1, 1, "broadcaster", circuit.Low, "a"),
	delivery(1, 2, "a", circuit.High, "b"),
	delivery(1, 3, "b", circuit.Low, "a"),
	delivery(2, 4, "broadcaster", circuit.Low, "a"),
	delivery(2, 5, "a", circuit.High, "b"),
}

func TestParsePulse(t *testing.T) {
	p, err := parsePulse("a -high-> b")
	require.NoError(t, err)
	assert.Equal(t, circuit.Pulse{From: "a", Level: circuit.High, To: "b"}, p)

	for _, bad := range []string{"", "a -> b", "a -loud-> b", "a -low-> b c", "a low b"} {
		_, err := parsePulse(bad)
		assert.Error(t, err, bad)
	}
}

func TestAssertTraceContains(t *testing.T) {
	assert.NoError(t, assertTraceContains(sampleTrace, Assertion{Pulse: "b -low-> a"}))
	assert.NoError(t, assertTraceContains(sampleTrace, Assertion{Pulse: "a -high-> b", Press: 2}))

	err := assertTraceContains(sampleTrace, Assertion{Pulse: "b -low-> a", Press: 2})
	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "b -low-> a during press 2", ae.Expected)
	assert.Contains(t, err.Error(), "[2/5] a -high-> b")

	assert.Error(t, assertTraceContains(sampleTrace, Assertion{Pulse: "a -low-> b"}))
}

func TestAssertTraceOrder(t *testing.T) {
	assert.NoError(t, assertTraceOrder(sampleTrace, Assertion{
		Pulses: []string{"broadcaster -low-> a", "a -high-> b", "b -low-> a"},
	}))

	err := assertTraceOrder(sampleTrace, Assertion{Pulses: []string{"b -low-> a", "a -high-> b"}})
	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Contains(t, ae.Actual, "should be before")

	err = assertTraceOrder(sampleTrace, Assertion{Pulses: []string{"a -high-> b", "b -high-> c"}})
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "missing pulse: b -high-> c", ae.Actual)
}

func TestAssertTraceCount(t *testing.T) {
	assert.NoError(t, assertTraceCount(sampleTrace, Assertion{Pulse: "a -high-> b", Count: 2}))
	assert.NoError(t, assertTraceCount(sampleTrace, Assertion{Pulse: "a -low-> b", Count: 0}))

	err := assertTraceCount(sampleTrace, Assertion{Pulse: "a -high-> b", Count: 1})
	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "2 deliveries", ae.Actual)
}

func TestAssertFinalState(t *testing.T) {
	g := testutil.MustParse(t, testutil.FeedbackPair)
	st := circuit.NewState(g)
	_, _, err := st.ReceiveFrom("broadcaster", "a", circuit.Low)
	require.NoError(t, err)

	on, off := true, false
	assert.NoError(t, assertFinalState(st, Assertion{Module: "a", On: &on}))
	assert.Error(t, assertFinalState(st, Assertion{Module: "a", On: &off}))
	assert.NoError(t, assertFinalState(st, Assertion{Module: "b", Memory: map[string]string{"a": "low"}}))
	assert.Error(t, assertFinalState(st, Assertion{Module: "b", Memory: map[string]string{"a": "high"}}))
	assert.Error(t, assertFinalState(st, Assertion{Module: "b", Memory: map[string]string{"z": "low"}}))
	assert.Error(t, assertFinalState(st, Assertion{Module: "b", On: &on}), "on applies only to flip-flops")
	assert.Error(t, assertFinalState(st, Assertion{Module: "nope", On: &on}))
}

func TestEvaluateAssertions(t *testing.T) {
	g := testutil.MustParse(t, testutil.FeedbackPair)
	st := circuit.NewState(g)

	errs := EvaluateAssertions(sampleTrace, st, []Assertion{
		{Type: AssertTraceContains, Pulse: "a -high-> b"},
		{Type: AssertTraceCount, Pulse: "a -high-> b", Count: 5},
		{Type: "bogus"},
	})
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "trace_count")
	assert.Contains(t, errs[1], "unknown assertion type")
}
