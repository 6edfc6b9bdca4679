package circuit

import "fmt"

// cell is the tagged per-module memory. FlipFlops use on; Conjunctions use
// mem (indexed by input slot) and high, the number of High entries in mem.
type cell struct {
	kind Kind
	on   bool
	mem  []Level
	high int
}

// receive applies one pulse to the cell and returns the emitted level, if
// any.
func (c *cell) receive(slot int, level Level) (Level, bool, error) {
	switch c.kind {
	case FlipFlop:
		if level == High {
			return Low, false, nil
		}
		c.on = !c.on
		return Level(c.on), true, nil
	case Conjunction:
		if slot < 0 || slot >= len(c.mem) {
			return Low, false, ErrMissingMemory
		}
		if c.mem[slot] != level {
			if level == High {
				c.high++
			} else {
				c.high--
			}
			c.mem[slot] = level
		}
		return Level(c.high != len(c.mem)), true, nil
	default:
		return Low, false, fmt.Errorf("%w: %s", ErrUnknownKind, c.kind)
	}
}

// State is the mutable runtime memory of every module in a Graph.
//
// A State is owned by a single engine and is not safe for concurrent use.
type State struct {
	g     *Graph
	cells []cell
}

// NewState returns the initial state for g: every FlipFlop off, every
// Conjunction input remembered as low.
func NewState(g *Graph) *State {
	s := &State{g: g, cells: make([]cell, g.Len())}
	s.Reset()
	return s
}

// Reset restores the initial state.
func (s *State) Reset() {
	for i := range s.cells {
		m := s.g.modules[i]
		c := cell{kind: m.Kind}
		if m.Kind == Conjunction {
			c.mem = make([]Level, len(m.Inputs))
		}
		s.cells[i] = c
	}
}

// Graph returns the graph s was built for.
func (s *State) Graph() *Graph { return s.g }

// Receive delivers a pulse to module dest through the given input slot (see
// Edge.Slot) and returns the level the module emits on every output, or
// false when it stays silent.
func (s *State) Receive(dest, slot int, level Level) (Level, bool, error) {
	out, ok, err := s.cells[dest].receive(slot, level)
	if err != nil {
		return Low, false, fmt.Errorf("%s: %w", s.g.modules[dest].Name, err)
	}
	return out, ok, nil
}

// ReceiveFrom is Receive addressed by module names. from may be
// BroadcasterName.
func (s *State) ReceiveFrom(from, dest string, level Level) (Level, bool, error) {
	src := Source
	if from != BroadcasterName {
		i, ok := s.g.index[from]
		if !ok {
			return Low, false, fmt.Errorf("%w: %s", ErrUnknownModule, from)
		}
		src = i
	}
	e := s.g.EdgeTo(src, dest)
	if e.To == Boundary {
		return Low, false, fmt.Errorf("%w: %s", ErrUnknownModule, dest)
	}
	return s.Receive(e.To, e.Slot, level)
}

// On reports whether FlipFlop name is on. It returns false for any other
// module.
func (s *State) On(name string) bool {
	i, ok := s.g.index[name]
	if !ok || s.cells[i].kind != FlipFlop {
		return false
	}
	return s.cells[i].on
}

// Remembered returns the level Conjunction name last saw from input.
func (s *State) Remembered(name, input string) (Level, bool) {
	i, ok := s.g.index[name]
	if !ok || s.cells[i].kind != Conjunction {
		return Low, false
	}
	for slot, in := range s.g.modules[i].Inputs {
		if in == input {
			return s.cells[i].mem[slot], true
		}
	}
	return Low, false
}
