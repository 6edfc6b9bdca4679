// Package engine drains pulses through a circuit.
//
// ARCHITECTURE:
//
// Single-Owner Drain Loop:
// An Engine owns one circuit.State and one pulse queue. A press injects
// the broadcaster's pulses and drains the queue to exhaustion before
// returning. There are no goroutines and no locks on the hot path; an
// Engine must not be shared between goroutines.
//
// Press Flow:
//  1. Press() counts the button pulse and enqueues one low pulse from the
//     broadcaster to each target, in declaration order
//  2. Pulses are dequeued in strict FIFO order
//  3. Each pulse is counted, stamped by the Clock and shown to the Observer
//  4. The destination module receives the pulse; if it emits, one pulse per
//     output is enqueued in output order
//
// Restricted drains (Inject) use the same loop but divert every pulse
// leaving a Scope instead of simulating it. The period package uses them
// to study one subsystem in isolation.
//
// CRITICAL PATTERNS:
//
// Logical Clock:
// Every delivered pulse is stamped with a monotonic seq from Clock.Next().
// Traces are ordered by seq, never by wall-clock time.
//
// Deterministic Scheduling:
// Outputs are enqueued in declaration order and the queue is FIFO, so two
// engines built from the same graph produce identical pulse sequences.
package engine
