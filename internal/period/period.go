// Package period finds the repeating period of one subsystem of a pulse
// network.
//
// A subsystem is a set of member modules driven through a single entry
// module. Each press sends one low pulse from the broadcaster to the entry
// and drains the result within the members; pulses leaving the members are
// recorded as emissions. The search stops at the first press whose member
// signature was already seen.
package period

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/pulsenet/internal/circuit"
	"github.com/roach88/pulsenet/internal/engine"
	"github.com/roach88/pulsenet/internal/topology"
)

// Emission lists the pulses that left the subsystem during one press.
type Emission struct {
	Press  int64           `json:"press"` // 1-based
	Pulses []circuit.Pulse `json:"pulses"`
}

// Result is the outcome of one period search.
//
// Presses is the number of presses after which the signature first
// repeated. The repeated signature was first seen after CycleStart presses,
// so the subsystem cycles with length CycleLength from there on. For
// subsystems that return to their initial state, CycleStart is 0 and
// CycleLength equals Presses.
type Result struct {
	Entry       string     `json:"entry"`
	Members     []string   `json:"members"` // name order
	Bits        int        `json:"bits"`
	Presses     int64      `json:"presses"`
	CycleStart  int64      `json:"cycle_start"`
	CycleLength int64      `json:"cycle_length"`
	Emissions   []Emission `json:"emissions"`
}

// Option configures a search.
type Option func(*options)

type options struct {
	maxPresses int64
	observer   engine.Observer
}

// WithMaxPresses bounds the search. A search that has not found a repeat
// after n presses fails with a QUOTA_EXCEEDED engine.RuntimeError. The
// default, 0, never gives up.
func WithMaxPresses(n int64) Option {
	return func(o *options) {
		o.maxPresses = n
	}
}

// WithObserver passes every pulse delivered inside the subsystem to fn.
func WithObserver(fn engine.Observer) Option {
	return func(o *options) {
		o.observer = fn
	}
}

// Find searches the period of the subsystem formed by members, driven
// through entry. It starts from a fresh state; g is not modified.
func Find(ctx context.Context, g *circuit.Graph, entry string, members []string, opts ...Option) (*Result, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	layout, err := circuit.NewLayout(g, members)
	if err != nil {
		return nil, fmt.Errorf("signature layout for %s: %w", entry, err)
	}
	scope, err := engine.NewScope(g, members)
	if err != nil {
		return nil, fmt.Errorf("scope for %s: %w", entry, err)
	}

	var engOpts []engine.EngineOption
	if o.observer != nil {
		engOpts = append(engOpts, engine.WithObserver(o.observer))
	}
	eng := engine.New(g, engOpts...)
	quota := engine.NewQuotaEnforcer(o.maxPresses)
	seen := engine.NewCycleDetector()
	seen.Observe(layout.Encode(eng.State()), 0)

	res := &Result{
		Entry:     entry,
		Members:   layout.Members(),
		Bits:      layout.Bits(),
		Emissions: []Emission{},
	}

	slog.Debug("period search starting",
		"entry", entry,
		"members", len(res.Members),
		"bits", res.Bits)

	for {
		if err := quota.Check(entry); err != nil {
			return nil, err
		}
		escaped, err := eng.Inject(ctx, entry, scope)
		if err != nil {
			return nil, fmt.Errorf("period search for %s: %w", entry, err)
		}
		press := eng.Presses()
		if len(escaped) > 0 {
			res.Emissions = append(res.Emissions, Emission{Press: press, Pulses: escaped})
		}

		first, repeated := seen.Observe(layout.Encode(eng.State()), press)
		if repeated {
			res.Presses = press
			res.CycleStart = first
			res.CycleLength = press - first
			break
		}
	}

	slog.Debug("period found",
		"entry", entry,
		"presses", res.Presses,
		"cycle_start", res.CycleStart,
		"cycle_length", res.CycleLength,
		"emissions", len(res.Emissions))
	return res, nil
}

// ForEntry locates the component containing entry and searches its period.
func ForEntry(ctx context.Context, g *circuit.Graph, components [][]string, entry string, opts ...Option) (*Result, error) {
	members, ok := topology.Find(components, entry)
	if !ok {
		return nil, engine.NewUnknownModuleError(entry)
	}
	return Find(ctx, g, entry, members, opts...)
}
