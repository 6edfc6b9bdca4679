package circuit

import (
	"fmt"
	"sort"
)

// Signature bit-packs every boolean of a member set. Two states with equal
// signatures are the same state for period detection.
type Signature uint64

// MaxSignatureBits is the widest layout a Signature can hold.
const MaxSignatureBits = 64

type bitRef struct {
	cell int
	slot int // -1 for a FlipFlop
}

// Layout fixes the bit order of a Signature for one member set: members in
// name order, one bit per FlipFlop, one bit per remembered Conjunction input
// with inputs in name order. The first bit is the most significant.
type Layout struct {
	members []string
	bits    []bitRef
}

// NewLayout builds the signature layout for members of g.
func NewLayout(g *Graph, members []string) (*Layout, error) {
	sorted := append([]string(nil), members...)
	sort.Strings(sorted)

	l := &Layout{members: sorted}
	for _, name := range sorted {
		i, ok := g.index[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownModule, name)
		}
		m := g.modules[i]
		switch m.Kind {
		case FlipFlop:
			l.bits = append(l.bits, bitRef{cell: i, slot: -1})
		case Conjunction:
			slots := make([]int, len(m.Inputs))
			for k := range slots {
				slots[k] = k
			}
			sort.Slice(slots, func(a, b int) bool {
				return m.Inputs[slots[a]] < m.Inputs[slots[b]]
			})
			for _, slot := range slots {
				l.bits = append(l.bits, bitRef{cell: i, slot: slot})
			}
		}
	}
	if len(l.bits) > MaxSignatureBits {
		return nil, fmt.Errorf("%w: %d bits", ErrSignatureOverflow, len(l.bits))
	}
	return l, nil
}

// Bits returns the number of state bits covered by l.
func (l *Layout) Bits() int { return len(l.bits) }

// Members returns the member names in layout order.
func (l *Layout) Members() []string { return append([]string(nil), l.members...) }

// Encode packs the current memory of s.
func (l *Layout) Encode(s *State) Signature {
	var sig Signature
	for _, b := range l.bits {
		c := &s.cells[b.cell]
		var bit bool
		if b.slot < 0 {
			bit = c.on
		} else {
			bit = bool(c.mem[b.slot])
		}
		sig <<= 1
		if bit {
			sig |= 1
		}
	}
	return sig
}
