// Package circuit provides the static module graph and the mutable module
// state of a pulse network.
//
// This package contains no propagation logic. The engine package drains
// pulses through a Graph using a State; the topology and period packages
// read the Graph only.
//
// Key design constraints:
//   - Graph is immutable after Parse/New returns
//   - Adjacency is resolved to indices once, at construction
//   - State memory is fixed at construction: one FlipFlop bit per FlipFlop,
//     one remembered level per declared Conjunction input
//   - Every ordering visible to callers is deterministic (declaration order
//     for modules and inputs, name order for signatures)
package circuit
