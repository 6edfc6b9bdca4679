package engine

import "sync/atomic"

// Clock is a monotonic logical clock for pulse ordering.
//
// Every delivered pulse is stamped with a strictly increasing seq number.
// Replaying the same presses on the same graph yields the same stamps.
//
// Thread-safety: Clock is safe for concurrent use. A clock may be shared
// by several engines when their traces are merged into one ordering.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a new clock starting at a specific sequence number.
// Used to continue a stored trace.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
