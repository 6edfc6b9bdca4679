package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, text string) *Graph {
	t.Helper()
	g, err := Parse(text)
	require.NoError(t, err)
	return g
}

func TestState_FlipFlopTogglesOnLow(t *testing.T) {
	s := NewState(mustParse(t, "broadcaster -> a\n%a -> out\n"))

	out, ok, err := s.ReceiveFrom(BroadcasterName, "a", Low)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, High, out)
	assert.True(t, s.On("a"))

	out, ok, err = s.ReceiveFrom(BroadcasterName, "a", Low)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Low, out)
	assert.False(t, s.On("a"), "two low pulses restore the original state")
}

func TestState_FlipFlopIgnoresHigh(t *testing.T) {
	s := NewState(mustParse(t, "broadcaster -> a\n%a -> out\n"))

	_, ok, err := s.ReceiveFrom(BroadcasterName, "a", High)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, s.On("a"))
}

func TestState_ConjunctionEmitsLowOnlyWhenAllHigh(t *testing.T) {
	s := NewState(mustParse(t, "broadcaster -> x, y\n%x -> c\n%y -> c\n&c -> out\n"))

	lvl, ok := s.Remembered("c", "x")
	require.True(t, ok)
	assert.Equal(t, Low, lvl, "memory starts low")

	out, ok, err := s.ReceiveFrom("x", "c", High)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, High, out)

	out, _, err = s.ReceiveFrom("y", "c", High)
	require.NoError(t, err)
	assert.Equal(t, Low, out, "all inputs high")

	out, _, err = s.ReceiveFrom("y", "c", High)
	require.NoError(t, err)
	assert.Equal(t, Low, out, "repeated high keeps the count")

	out, _, err = s.ReceiveFrom("x", "c", Low)
	require.NoError(t, err)
	assert.Equal(t, High, out)

	lvl, _ = s.Remembered("c", "x")
	assert.Equal(t, Low, lvl)
	lvl, _ = s.Remembered("c", "y")
	assert.Equal(t, High, lvl)
}

func TestState_SingleInputConjunctionInverts(t *testing.T) {
	s := NewState(mustParse(t, "broadcaster -> a\n%a -> inv\n&inv -> out\n"))

	out, _, err := s.ReceiveFrom("a", "inv", High)
	require.NoError(t, err)
	assert.Equal(t, Low, out)

	out, _, err = s.ReceiveFrom("a", "inv", Low)
	require.NoError(t, err)
	assert.Equal(t, High, out)
}

func TestState_MissingMemory(t *testing.T) {
	s := NewState(mustParse(t, "broadcaster -> a, c\n%a -> c\n&c -> out\n"))

	// The broadcaster is not a declared input of c.
	_, _, err := s.ReceiveFrom(BroadcasterName, "c", Low)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingMemory)
	assert.Contains(t, err.Error(), "c")
}

func TestState_UnknownModule(t *testing.T) {
	s := NewState(mustParse(t, "broadcaster -> a\n%a -> out\n"))

	_, _, err := s.ReceiveFrom("nope", "a", Low)
	assert.ErrorIs(t, err, ErrUnknownModule)

	_, _, err = s.ReceiveFrom("a", "out", Low)
	assert.ErrorIs(t, err, ErrUnknownModule, "boundary sinks hold no state")
}

func TestState_Reset(t *testing.T) {
	s := NewState(mustParse(t, "broadcaster -> a\n%a -> c\n&c -> a\n"))

	_, _, err := s.ReceiveFrom(BroadcasterName, "a", Low)
	require.NoError(t, err)
	_, _, err = s.ReceiveFrom("a", "c", High)
	require.NoError(t, err)

	s.Reset()
	assert.False(t, s.On("a"))
	lvl, ok := s.Remembered("c", "a")
	require.True(t, ok)
	assert.Equal(t, Low, lvl)
}

func TestState_AccessorsOnWrongKind(t *testing.T) {
	s := NewState(mustParse(t, "broadcaster -> a\n%a -> c\n&c -> a\n"))

	assert.False(t, s.On("c"))
	_, ok := s.Remembered("a", "c")
	assert.False(t, ok)
	_, ok = s.Remembered("c", "zzz")
	assert.False(t, ok)
}
