package circuit

import (
	"errors"
	"fmt"
)

// Sentinel errors for graph construction and state access.
var (
	ErrDuplicateModule    = errors.New("duplicate module")
	ErrEmptyName          = errors.New("empty module name")
	ErrReservedName       = errors.New("reserved module name")
	ErrUnknownKind        = errors.New("unknown module kind")
	ErrUnknownModule      = errors.New("unknown module")
	ErrMissingMemory      = errors.New("conjunction has no memory for source")
	ErrSignatureOverflow  = errors.New("signature exceeds 64 bits")
	ErrMissingBroadcaster = errors.New("missing broadcaster declaration")
)

// Boundary is the module index of an output that names no declared module.
const Boundary = -1

// Source is the module index used for pulses sent by the broadcaster.
const Source = -1

// Edge is an output edge resolved to indices.
//
// To is the destination module index, or Boundary. Slot is the position of
// the sending module in the destination's input list, or -1 when the
// destination keeps no per-input memory for it.
type Edge struct {
	To   int
	Slot int
	Name string
}

// Graph is the immutable module graph.
//
// The name-keyed modules are the authoritative definition; edges and
// broadcast are the same relation resolved to indices for the hot path.
type Graph struct {
	modules   []Module // declaration order
	index     map[string]int
	broadcast []string
	edges     [][]Edge
	bcast     []Edge
}

// New builds a Graph from module declarations and the broadcaster targets.
//
// Inputs are computed by inverting the output relation over every
// declaration. Outputs naming undeclared modules are kept as boundary sinks.
// The declarations slice is copied; callers may reuse it.
func New(decls []Declaration, broadcast []string) (*Graph, error) {
	g := &Graph{
		modules:   make([]Module, len(decls)),
		index:     make(map[string]int, len(decls)),
		broadcast: append([]string(nil), broadcast...),
	}

	// First pass: declare.
	for i, d := range decls {
		if d.Name == "" {
			return nil, ErrEmptyName
		}
		if d.Name == BroadcasterName {
			return nil, fmt.Errorf("%w: %s", ErrReservedName, d.Name)
		}
		if d.Kind != FlipFlop && d.Kind != Conjunction {
			return nil, fmt.Errorf("%w: %s", ErrUnknownKind, d.Kind)
		}
		if _, dup := g.index[d.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateModule, d.Name)
		}
		g.index[d.Name] = i
		g.modules[i] = Module{
			Name:    d.Name,
			Kind:    d.Kind,
			Outputs: append([]string(nil), d.Outputs...),
		}
	}

	// Second pass: invert outputs into inputs. A source listing the same
	// destination twice is still a single input.
	for i := range g.modules {
		src := g.modules[i].Name
		for _, out := range g.modules[i].Outputs {
			j, ok := g.index[out]
			if !ok {
				continue
			}
			if !contains(g.modules[j].Inputs, src) {
				g.modules[j].Inputs = append(g.modules[j].Inputs, src)
			}
		}
	}

	// Resolve edges.
	g.edges = make([][]Edge, len(g.modules))
	for i := range g.modules {
		outs := g.modules[i].Outputs
		g.edges[i] = make([]Edge, len(outs))
		for k, out := range outs {
			g.edges[i][k] = g.EdgeTo(i, out)
		}
	}
	g.bcast = make([]Edge, len(g.broadcast))
	for k, out := range g.broadcast {
		g.bcast[k] = g.EdgeTo(Source, out)
	}

	return g, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// EdgeTo resolves a pulse from module index src (or Source) to the module
// named to.
func (g *Graph) EdgeTo(src int, to string) Edge {
	j, ok := g.index[to]
	if !ok {
		return Edge{To: Boundary, Slot: -1, Name: to}
	}
	e := Edge{To: j, Slot: -1, Name: to}
	if g.modules[j].Kind == Conjunction && src >= 0 {
		name := g.modules[src].Name
		for slot, in := range g.modules[j].Inputs {
			if in == name {
				e.Slot = slot
				break
			}
		}
	}
	return e
}

// Len returns the number of declared modules.
func (g *Graph) Len() int { return len(g.modules) }

// Index returns the module index for name.
func (g *Graph) Index(name string) (int, bool) {
	i, ok := g.index[name]
	return i, ok
}

// Name returns the name of module i, or BroadcasterName for Source.
func (g *Graph) Name(i int) string {
	if i == Source {
		return BroadcasterName
	}
	return g.modules[i].Name
}

// Module returns the module declared as name.
func (g *Graph) Module(name string) (Module, bool) {
	i, ok := g.index[name]
	if !ok {
		return Module{}, false
	}
	return g.modules[i], true
}

// ModuleAt returns module i.
func (g *Graph) ModuleAt(i int) Module { return g.modules[i] }

// Names returns all module names in declaration order.
func (g *Graph) Names() []string {
	names := make([]string, len(g.modules))
	for i, m := range g.modules {
		names[i] = m.Name
	}
	return names
}

// Broadcast returns the broadcaster targets in declaration order.
func (g *Graph) Broadcast() []string {
	return append([]string(nil), g.broadcast...)
}

// Edges returns the resolved output edges of module i. The slice must not be
// modified.
func (g *Graph) Edges(i int) []Edge { return g.edges[i] }

// BroadcastEdges returns the resolved broadcaster edges. The slice must not
// be modified.
func (g *Graph) BroadcastEdges() []Edge { return g.bcast }
