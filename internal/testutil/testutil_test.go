package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/pulsenet/internal/engine"
)

func TestDeterministicClock_NextAndReset(t *testing.T) {
	clock := NewDeterministicClock()
	assert.Equal(t, int64(0), clock.Current())
	assert.Equal(t, int64(1), clock.Next())
	assert.Equal(t, int64(2), clock.Next())

	clock.Reset()
	assert.Equal(t, int64(0), clock.Current())
	assert.Equal(t, int64(1), clock.Next())
}

func TestDeterministicClock_At(t *testing.T) {
	clock := NewDeterministicClockAt(10)
	assert.Equal(t, int64(11), clock.Next())
	clock.Reset()
	assert.Equal(t, int64(10), clock.Current())
}

func TestDeterministicClock_IsSequencer(t *testing.T) {
	var _ engine.Sequencer = NewDeterministicClock()
}

func TestSequentialIDs(t *testing.T) {
	ids := NewSequentialIDs("run")
	assert.Equal(t, "run-001", ids.Generate())
	assert.Equal(t, "run-002", ids.Generate())
	ids.Reset()
	assert.Equal(t, "run-001", ids.Generate())

	var _ engine.RunIDGenerator = ids
}

func TestMustParse_ReferenceNetworks(t *testing.T) {
	for _, text := range []string{Ring, Chain, FeedbackPair, Counter, TwoSubsystems} {
		g := MustParse(t, text)
		assert.Positive(t, g.Len())
	}
}
