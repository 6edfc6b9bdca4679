package topology

import (
	"fmt"
	"strings"

	"github.com/roach88/pulsenet/internal/circuit"
)

// LoopWarning describes one feedback loop in a network.
//
// Loops are expected in pulse networks; they are what makes the state of a
// subsystem periodic. They are reported so the period search can be aimed
// at them.
type LoopWarning struct {
	Members []string `json:"members"` // component members, closing order
	Path    []string `json:"path"`    // one cycle through the component: ["a", "b", "a"]
	Message string   `json:"message"`
	Level   string   `json:"level"` // "warning" or "info"
}

// Loops reports every component with more than one member or a self loop,
// in closing order. An acyclic network returns an empty list.
func Loops(g *circuit.Graph) []LoopWarning {
	warnings := []LoopWarning{}
	for _, scc := range tarjanSCC(g) {
		if len(scc) == 1 && !hasSelfLoop(g, scc[0]) {
			continue
		}
		warnings = append(warnings, loopToWarning(g, scc))
	}
	return warnings
}

func hasSelfLoop(g *circuit.Graph, v int) bool {
	for _, e := range g.Edges(v) {
		if e.To == v {
			return true
		}
	}
	return false
}

func loopToWarning(g *circuit.Graph, scc []int) LoopWarning {
	members := make([]string, len(scc))
	for k, m := range scc {
		members[k] = g.Name(m)
	}

	if len(scc) == 1 {
		name := members[0]
		return LoopWarning{
			Members: members,
			Path:    []string{name, name},
			Message: fmt.Sprintf("Self-feeding module: %s → %s", name, name),
			Level:   "info",
		}
	}

	path := reconstructCyclePath(g, scc)
	return LoopWarning{
		Members: members,
		Path:    path,
		Message: fmt.Sprintf("Feedback loop of %d modules: %s", len(scc), strings.Join(path, " → ")),
		Level:   "warning",
	}
}

// reconstructCyclePath returns a shortest cycle through the first module of
// scc (in declaration order), staying inside scc. Breadth-first search over
// edges in output order keeps the result deterministic.
func reconstructCyclePath(g *circuit.Graph, scc []int) []string {
	inSCC := make(map[int]bool, len(scc))
	start := scc[0]
	for _, v := range scc {
		inSCC[v] = true
		if v < start {
			start = v
		}
	}

	parent := map[int]int{}
	queue := []int{start}
	end := -1
	for head := 0; head < len(queue) && end < 0; head++ {
		v := queue[head]
		for _, e := range g.Edges(v) {
			w := e.To
			if !inSCC[w] {
				continue
			}
			if w == start {
				end = v
				break
			}
			if _, seen := parent[w]; !seen {
				parent[w] = v
				queue = append(queue, w)
			}
		}
	}
	if end < 0 {
		return []string{g.Name(start)}
	}

	// Walk back from end to start, then reverse.
	rev := []int{start, end}
	for v := end; v != start; {
		v = parent[v]
		rev = append(rev, v)
	}
	path := make([]string, len(rev))
	for k, v := range rev {
		path[len(rev)-1-k] = g.Name(v)
	}
	return path
}
