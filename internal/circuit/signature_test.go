package circuit

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayout_BitOrder(t *testing.T) {
	g := mustParse(t, "broadcaster -> a\n%a -> b, hub\n%b -> hub\n&hub -> a, out\n")
	l, err := NewLayout(g, []string{"hub", "b", "a"})
	require.NoError(t, err)

	assert.Equal(t, 4, l.Bits())
	assert.Equal(t, []string{"a", "b", "hub"}, l.Members())

	s := NewState(g)
	assert.Equal(t, Signature(0), l.Encode(s))

	_, _, err = s.ReceiveFrom(BroadcasterName, "a", Low)
	require.NoError(t, err)
	assert.Equal(t, Signature(0b1000), l.Encode(s), "a is the most significant bit")

	_, _, err = s.ReceiveFrom("a", "hub", High)
	require.NoError(t, err)
	assert.Equal(t, Signature(0b1010), l.Encode(s))
}

func TestLayout_ConjunctionInputsByName(t *testing.T) {
	// c's inputs are declared z then y; the layout orders them y, z.
	g := mustParse(t, "broadcaster -> z\n%z -> c\n%y -> c\n&c -> out\n")
	c, _ := g.Module("c")
	require.Equal(t, []string{"z", "y"}, c.Inputs)

	l, err := NewLayout(g, []string{"c"})
	require.NoError(t, err)
	s := NewState(g)

	_, _, err = s.ReceiveFrom("z", "c", High)
	require.NoError(t, err)
	assert.Equal(t, Signature(0b01), l.Encode(s))
}

func TestLayout_UnknownMember(t *testing.T) {
	g := mustParse(t, "broadcaster -> a\n%a -> out\n")
	_, err := NewLayout(g, []string{"a", "out"})
	assert.ErrorIs(t, err, ErrUnknownModule)
}

func TestLayout_Overflow(t *testing.T) {
	decls := []Declaration{{Name: "wide", Kind: Conjunction}}
	for i := 0; i < MaxSignatureBits+1; i++ {
		decls = append(decls, Declaration{
			Name:    fmt.Sprintf("f%02d", i),
			Kind:    FlipFlop,
			Outputs: []string{"wide"},
		})
	}
	g, err := New(decls, []string{"f00"})
	require.NoError(t, err)

	_, err = NewLayout(g, []string{"wide"})
	assert.ErrorIs(t, err, ErrSignatureOverflow)

	l, err := NewLayout(g, []string{"f00", "f01"})
	require.NoError(t, err)
	assert.Equal(t, 2, l.Bits())
}

func TestLayout_Deterministic(t *testing.T) {
	g := mustParse(t, exampleNetwork)
	members := []string{"a", "inv", "b", "con"}

	run := func() Signature {
		s := NewState(g)
		_, _, err := s.ReceiveFrom(BroadcasterName, "a", Low)
		require.NoError(t, err)
		_, _, err = s.ReceiveFrom("a", "con", High)
		require.NoError(t, err)
		l, err := NewLayout(g, members)
		require.NoError(t, err)
		return l.Encode(s)
	}
	assert.Equal(t, run(), run())
}
