package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/pulsenet/internal/circuit"
)

// Counts tallies pulses by level.
type Counts struct {
	Low  int64 `json:"low"`
	High int64 `json:"high"`
}

// Add accumulates o into c.
func (c *Counts) Add(o Counts) {
	c.Low += o.Low
	c.High += o.High
}

// Total returns Low + High.
func (c Counts) Total() int64 { return c.Low + c.High }

// Product returns Low * High.
func (c Counts) Product() int64 { return c.Low * c.High }

func (c *Counts) count(l circuit.Level) {
	if l == circuit.High {
		c.High++
	} else {
		c.Low++
	}
}

// Delivery is one pulse as it is delivered, stamped with the press it
// belongs to and its logical sequence number.
type Delivery struct {
	Press int64         `json:"press"`
	Seq   int64         `json:"seq"`
	From  string        `json:"from"`
	Level circuit.Level `json:"level"`
	To    string        `json:"to"`
}

// Observer receives every delivered pulse, in delivery order.
type Observer func(Delivery)

// Sequencer issues delivery sequence numbers. Clock is the production
// implementation; tests may substitute a resettable one.
type Sequencer interface {
	Next() int64
	Current() int64
}

// Engine drains pulses through one circuit.
//
// Thread-safety model: none. An Engine owns its State and queue and must be
// used from a single goroutine.
//
// INVARIANTS:
//   - The queue is empty between presses
//   - State persists across presses until Reset
type Engine struct {
	graph    *circuit.Graph
	state    *circuit.State
	queue    *pulseQueue
	clock    Sequencer
	observer Observer
	presses  int64
}

// EngineOption allows configuration of engine parameters.
type EngineOption func(*Engine)

// WithObserver installs an observer called for every delivered pulse.
func WithObserver(o Observer) EngineOption {
	return func(e *Engine) {
		e.observer = o
	}
}

// WithClock stamps deliveries from c instead of a private clock.
func WithClock(c Sequencer) EngineOption {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithState drives s instead of a fresh state. s must have been built for
// the engine's graph.
func WithState(s *circuit.State) EngineOption {
	return func(e *Engine) {
		e.state = s
	}
}

// New creates an Engine for g with every module in its initial state.
func New(g *circuit.Graph, opts ...EngineOption) *Engine {
	e := &Engine{
		graph: g,
		queue: newPulseQueue(),
		clock: NewClock(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.state == nil {
		e.state = circuit.NewState(g)
	}
	return e
}

// Graph returns the engine's graph.
func (e *Engine) Graph() *circuit.Graph { return e.graph }

// State returns the engine's live state.
func (e *Engine) State() *circuit.State { return e.state }

// Clock returns the sequencer stamping deliveries.
func (e *Engine) Clock() Sequencer { return e.clock }

// Presses returns the number of presses and injections since New or Reset.
func (e *Engine) Presses() int64 { return e.presses }

// Reset restores every module to its initial state and zeroes the press
// counter. The clock keeps running.
func (e *Engine) Reset() {
	e.state.Reset()
	e.queue.reset()
	e.presses = 0
}

// Press triggers the broadcaster once and drains every resulting pulse.
//
// The returned counts include the button's own low pulse to the
// broadcaster. Pulses to boundary sinks are counted and absorbed.
func (e *Engine) Press(ctx context.Context) (Counts, error) {
	if err := ctx.Err(); err != nil {
		return Counts{}, err
	}
	e.presses++
	e.queue.reset()

	counts := Counts{Low: 1}
	for _, edge := range e.graph.BroadcastEdges() {
		e.queue.push(queuedPulse{src: circuit.Source, edge: edge, level: circuit.Low})
	}
	if err := e.drain(nil, &counts, nil); err != nil {
		return Counts{}, err
	}

	slog.Debug("press complete",
		"press", e.presses,
		"low", counts.Low,
		"high", counts.High)
	return counts, nil
}

// Run presses n times over the shared state and returns the summed counts.
// ctx is checked between presses; a press in progress always completes.
func (e *Engine) Run(ctx context.Context, n int64) (Counts, error) {
	var total Counts
	for i := int64(0); i < n; i++ {
		c, err := e.Press(ctx)
		if err != nil {
			return total, fmt.Errorf("press %d: %w", e.presses, err)
		}
		total.Add(c)
	}
	return total, nil
}

// Inject sends one low pulse from the broadcaster to entry and drains the
// result within scope. Pulses addressed to modules outside scope are not
// delivered; they are returned, in the order they were emitted.
func (e *Engine) Inject(ctx context.Context, entry string, scope *Scope) ([]circuit.Pulse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, ok := e.graph.Index(entry); !ok {
		return nil, NewUnknownModuleError(entry)
	}
	e.presses++
	e.queue.reset()

	var escaped []circuit.Pulse
	e.queue.push(queuedPulse{
		src:   circuit.Source,
		edge:  e.graph.EdgeTo(circuit.Source, entry),
		level: circuit.Low,
	})
	if err := e.drain(scope, nil, &escaped); err != nil {
		return nil, err
	}
	return escaped, nil
}

// drain processes the queue to exhaustion. With a non-nil scope, pulses
// leaving the scope are appended to escaped instead of being delivered.
func (e *Engine) drain(scope *Scope, counts *Counts, escaped *[]circuit.Pulse) error {
	for {
		p, ok := e.queue.pop()
		if !ok {
			return nil
		}
		if scope != nil && !scope.Contains(p.edge.To) {
			*escaped = append(*escaped, circuit.Pulse{
				From:  e.graph.Name(p.src),
				Level: p.level,
				To:    p.edge.Name,
			})
			continue
		}

		if counts != nil {
			counts.count(p.level)
		}
		seq := e.clock.Next()
		if e.observer != nil {
			e.observer(Delivery{
				Press: e.presses,
				Seq:   seq,
				From:  e.graph.Name(p.src),
				Level: p.level,
				To:    p.edge.Name,
			})
		}
		if p.edge.To == circuit.Boundary {
			continue
		}

		out, emit, err := e.state.Receive(p.edge.To, p.edge.Slot, p.level)
		if err != nil {
			e.queue.reset()
			if errors.Is(err, circuit.ErrMissingMemory) {
				return NewMissingMemoryError(e.graph.Name(p.src), p.edge.Name, e.presses)
			}
			return fmt.Errorf("deliver to %s: %w", p.edge.Name, err)
		}
		if !emit {
			continue
		}
		for _, edge := range e.graph.Edges(p.edge.To) {
			e.queue.push(queuedPulse{src: p.edge.To, edge: edge, level: out})
		}
	}
}
