package engine

import "github.com/roach88/pulsenet/internal/circuit"

// queuedPulse is a pulse resolved to module indices.
type queuedPulse struct {
	src   int // module index, or circuit.Source
	edge  circuit.Edge
	level circuit.Level
}

// pulseQueue is an index-based FIFO of pending pulses.
//
// Dequeue advances a read cursor instead of shifting the slice, so a drain
// costs one append and one index per pulse. The backing array is reused
// across presses; reset rewinds both ends.
//
// Not safe for concurrent use: the queue belongs to a single Engine.
type pulseQueue struct {
	items []queuedPulse
	head  int
}

func newPulseQueue() *pulseQueue {
	return &pulseQueue{items: make([]queuedPulse, 0, 64)}
}

// push adds a pulse to the back of the queue.
func (q *pulseQueue) push(p queuedPulse) {
	q.items = append(q.items, p)
}

// pop removes and returns the front pulse. Returns false when empty.
func (q *pulseQueue) pop() (queuedPulse, bool) {
	if q.head >= len(q.items) {
		return queuedPulse{}, false
	}
	p := q.items[q.head]
	q.head++
	return p, true
}

// len returns the number of pending pulses.
func (q *pulseQueue) len() int {
	return len(q.items) - q.head
}

// reset empties the queue and keeps its capacity.
func (q *pulseQueue) reset() {
	q.items = q.items[:0]
	q.head = 0
}
