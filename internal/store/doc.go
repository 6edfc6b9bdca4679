// Package store provides SQLite-backed run history for pulsenet.
//
// The store records:
//   - Runs: one row per pulse count or period combination
//   - Periods: one row per subsystem searched in a period run
//   - Emissions: the pulses each subsystem sent out, per press
//
// # Critical Patterns
//
// Logical Identity and Time
//   - Run IDs are UUIDv7 strings supplied by the caller
//   - All ordering uses seq INTEGER (logical clock), NEVER timestamps
//
// Content Addressing
//   - Every run stores the network fingerprint and canonical text, so runs
//     of the same network can be listed together and re-simulated
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
