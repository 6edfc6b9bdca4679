// Package harness runs YAML scenarios against pulse networks.
//
// A scenario names a network, the behaviour expected of it, and trace
// assertions. The harness runs it with deterministic sequence numbers and
// run IDs, records the runs in an in-memory store, replays them, and reports
// every mismatch.
//
// # Scenario Format
//
//	name: feedback_pair
//	description: "A flip-flop feeding an inverter that feeds it back"
//	network: |
//	  broadcaster -> a
//	  %a -> b
//	  &b -> a
//	presses: 1
//	expect:
//	  low: 4
//	  high: 2
//	periods:
//	  - entry: a
//	    presses: 1
//	components:
//	  - [a, b]
//	assertions:
//	  - type: trace_order
//	    pulses: ["a -high-> b", "b -low-> a"]
//	  - type: final_state
//	    module: a
//	    on: false
//
// network_file may replace network; it is resolved relative to the
// scenario file.
//
// # Assertion Types
//
//   - trace_contains: a pulse is delivered (optionally during a given press)
//   - trace_order: pulses are delivered in the listed order
//   - trace_count: a pulse is delivered exactly N times
//   - final_state: a flip-flop's on bit or a conjunction's memory after the
//     traced presses
//
// # Golden Traces
//
// RunWithGolden compares the JSON trace with testdata/golden/<name>.golden.
// Regenerate with:
//
//	go test ./internal/harness -update
package harness
