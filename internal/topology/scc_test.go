package topology

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pulsenet/internal/circuit"
)

func mustParse(t *testing.T, text string) *circuit.Graph {
	t.Helper()
	g, err := circuit.Parse(text)
	require.NoError(t, err)
	return g
}

func TestComponents_Chain(t *testing.T) {
	g := mustParse(t, "broadcaster -> a\n%a -> inv, con\n&inv -> b\n%b -> con\n&con -> output\n")

	comps := Components(g)
	assert.Equal(t, [][]string{{"con"}, {"b"}, {"inv"}, {"a"}}, comps)
}

func TestComponents_SingleLoop(t *testing.T) {
	g := mustParse(t, "broadcaster -> a, b, c\n%a -> b\n%b -> c\n%c -> inv\n&inv -> a\n")

	comps := Components(g)
	require.Len(t, comps, 1)
	assert.ElementsMatch(t, []string{"a", "b", "c", "inv"}, comps[0])
}

func TestComponents_TwoSubsystemsFeedingJoin(t *testing.T) {
	g := mustParse(t, `broadcaster -> a, x
%a -> b, hub
%b -> hub
&hub -> a, inv1
&inv1 -> join
%x -> hx
&hx -> x, inv2
&inv2 -> join
&join -> rx
`)
	comps := Components(g)

	hub, ok := Find(comps, "hub")
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"a", "b", "hub"}, hub)

	hx, ok := Find(comps, "x")
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"x", "hx"}, hx)

	_, ok = Find(comps, "rx")
	assert.False(t, ok, "boundary sinks belong to no component")

	pos := Membership(comps)
	assert.Less(t, pos["join"], pos["inv1"])
	assert.Less(t, pos["inv1"], pos["hub"])
}

func TestComponents_SelfLoop(t *testing.T) {
	g := mustParse(t, "broadcaster -> a\n&a -> a, out\n")
	assert.Equal(t, [][]string{{"a"}}, Components(g))
}

func TestComponents_Empty(t *testing.T) {
	g := mustParse(t, "broadcaster -> out\n")
	assert.Empty(t, Components(g))
}

// randomGraph declares n modules with random kinds and up to three outputs
// each, some of them boundary sinks.
func randomGraph(t *testing.T, r *rand.Rand, n int) *circuit.Graph {
	t.Helper()
	decls := make([]circuit.Declaration, n)
	for i := range decls {
		kind := circuit.FlipFlop
		if r.IntN(2) == 0 {
			kind = circuit.Conjunction
		}
		var outs []string
		for k := r.IntN(4); k > 0; k-- {
			j := r.IntN(n + 2) // n and n+1 are sinks
			outs = append(outs, fmt.Sprintf("m%d", j))
		}
		decls[i] = circuit.Declaration{Name: fmt.Sprintf("m%d", i), Kind: kind, Outputs: outs}
	}
	g, err := circuit.New(decls, []string{"m0"})
	require.NoError(t, err)
	return g
}

func reaches(g *circuit.Graph, from, to int) bool {
	seen := make([]bool, g.Len())
	stack := []int{from}
	seen[from] = true
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if v == to {
			return true
		}
		for _, e := range g.Edges(v) {
			if e.To >= 0 && !seen[e.To] {
				seen[e.To] = true
				stack = append(stack, e.To)
			}
		}
	}
	return false
}

func TestComponents_RandomGraphs(t *testing.T) {
	r := rand.New(rand.NewPCG(20, 23))

	for round := 0; round < 50; round++ {
		g := randomGraph(t, r, 3+r.IntN(15))
		comps := Components(g)
		pos := Membership(comps)

		// Partition: every module appears exactly once.
		total := 0
		for _, c := range comps {
			total += len(c)
		}
		require.Equal(t, g.Len(), total, "round %d", round)
		require.Len(t, pos, g.Len(), "round %d", round)

		for v := 0; v < g.Len(); v++ {
			for _, e := range g.Edges(v) {
				if e.To < 0 {
					continue
				}
				from, to := pos[g.Name(v)], pos[e.Name]
				// Cross edges point at earlier-closing components.
				assert.GreaterOrEqual(t, from, to, "round %d edge %s->%s", round, g.Name(v), e.Name)
				if from == to {
					assert.True(t, reaches(g, e.To, v), "round %d: %s and %s share a component", round, g.Name(v), e.Name)
				}
			}
		}

		// Members of one component are mutually reachable.
		for _, c := range comps {
			first, _ := g.Index(c[0])
			for _, m := range c[1:] {
				i, _ := g.Index(m)
				assert.True(t, reaches(g, first, i) && reaches(g, i, first), "round %d", round)
			}
		}
	}
}

func TestComponents_Deterministic(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	g := randomGraph(t, r, 12)
	assert.Equal(t, Components(g), Components(g))
}
