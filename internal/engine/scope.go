package engine

import (
	"sort"

	"github.com/roach88/pulsenet/internal/circuit"
)

// Scope is the set of modules a restricted drain simulates. Pulses whose
// destination lies outside the scope escape instead of being delivered.
//
// Membership is a mask indexed by module index, built once per scope.
type Scope struct {
	mask  []bool
	names []string
}

// NewScope builds a scope over members of g. Every member must be a
// declared module.
func NewScope(g *circuit.Graph, members []string) (*Scope, error) {
	s := &Scope{mask: make([]bool, g.Len())}
	for _, name := range members {
		i, ok := g.Index(name)
		if !ok {
			return nil, NewUnknownModuleError(name)
		}
		if !s.mask[i] {
			s.mask[i] = true
			s.names = append(s.names, name)
		}
	}
	sort.Strings(s.names)
	return s, nil
}

// Contains reports whether module index i is a member. Boundary sinks are
// never members.
func (s *Scope) Contains(i int) bool {
	return i >= 0 && i < len(s.mask) && s.mask[i]
}

// Members returns the member names in name order.
func (s *Scope) Members() []string {
	return append([]string(nil), s.names...)
}

// Len returns the number of members.
func (s *Scope) Len() int {
	return len(s.names)
}
