// Package topology decomposes a module graph into strongly connected
// components and reports its feedback loops.
//
// Components are found with Tarjan's algorithm over the graph's in-graph
// output edges. Boundary sinks belong to no component. Components are
// returned in the order they close, which is a reverse topological order
// of the condensation: every cross-component edge points from a later
// component to an earlier one.
package topology
