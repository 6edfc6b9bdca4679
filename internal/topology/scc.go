package topology

import "github.com/roach88/pulsenet/internal/circuit"

// Components returns the strongly connected components of g in closing
// order. Within a component, members are listed in the order they were
// popped off the search stack.
//
// The outer loop visits modules in declaration order, so the result is
// deterministic for a given graph.
func Components(g *circuit.Graph) [][]string {
	idx := tarjanSCC(g)
	comps := make([][]string, len(idx))
	for c, members := range idx {
		names := make([]string, len(members))
		for k, m := range members {
			names[k] = g.Name(m)
		}
		comps[c] = names
	}
	return comps
}

// Find returns the component containing name.
func Find(components [][]string, name string) ([]string, bool) {
	for _, comp := range components {
		for _, m := range comp {
			if m == name {
				return comp, true
			}
		}
	}
	return nil, false
}

// Membership maps every module name to the position of its component in
// components.
func Membership(components [][]string) map[string]int {
	out := make(map[string]int)
	for c, comp := range components {
		for _, m := range comp {
			out[m] = c
		}
	}
	return out
}

// tarjanSCC finds strongly connected components by module index.
func tarjanSCC(g *circuit.Graph) [][]int {
	n := g.Len()
	var (
		next    = 0
		stack   []int
		indices = make([]int, n)
		lowlink = make([]int, n)
		onStack = make([]bool, n)
		sccs    [][]int
	)
	for i := range indices {
		indices[i] = -1
	}

	var strongConnect func(int)
	strongConnect = func(v int) {
		indices[v] = next
		lowlink[v] = next
		next++
		stack = append(stack, v)
		onStack[v] = true

		for _, e := range g.Edges(v) {
			w := e.To
			if w == circuit.Boundary {
				continue
			}
			if indices[w] < 0 {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		// v is a root: pop its component.
		if lowlink[v] == indices[v] {
			var scc []int
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for v := 0; v < n; v++ {
		if indices[v] < 0 {
			strongConnect(v)
		}
	}
	return sccs
}
