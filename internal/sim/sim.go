// Package sim runs the two simulation modes of a pulse network: counting
// pulses over a fixed number of presses, and combining the periods of the
// subsystems that feed a shared downstream module.
package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/pulsenet/internal/circuit"
	"github.com/roach88/pulsenet/internal/engine"
	"github.com/roach88/pulsenet/internal/period"
	"github.com/roach88/pulsenet/internal/topology"
)

// DefaultPresses is the fixed horizon of CountPulses when none is configured.
const DefaultPresses = 1000

// ErrNoEntries is returned when there is no subsystem to search.
var ErrNoEntries = errors.New("no entry modules")

// CountPulses presses the button presses times over one shared state and
// returns the accumulated counts. Their Product is the mode 1 answer.
func CountPulses(ctx context.Context, g *circuit.Graph, presses int64, opts ...engine.EngineOption) (engine.Counts, error) {
	if presses < 0 {
		return engine.Counts{}, fmt.Errorf("presses must not be negative, got %d", presses)
	}
	eng := engine.New(g, opts...)
	counts, err := eng.Run(ctx, presses)
	if err != nil {
		return engine.Counts{}, err
	}

	slog.Info("pulse count complete",
		"presses", presses,
		"low", counts.Low,
		"high", counts.High,
		"product", counts.Product())
	return counts, nil
}

// Report is the outcome of period-combination mode.
type Report struct {
	Entries     []string            `json:"entries"`
	Results     []*period.Result    `json:"results"` // one per entry, same order
	Combination *period.Combination `json:"combination"`
	Answer      int64               `json:"answer"`  // Combination.LCM
	Aligned     bool                `json:"aligned"` // every subsystem cycles back to its initial state
	Components  [][]string          `json:"-"`
}

// CombinedPeriod searches the period of the subsystem containing each entry
// and combines them. With no entries, the broadcaster targets are used.
func CombinedPeriod(ctx context.Context, g *circuit.Graph, entries []string, opts ...period.Option) (*Report, error) {
	if len(entries) == 0 {
		entries = g.Broadcast()
	}
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}

	comps := topology.Components(g)
	rep := &Report{
		Entries:    append([]string(nil), entries...),
		Results:    make([]*period.Result, 0, len(entries)),
		Aligned:    true,
		Components: comps,
	}

	periods := make([]int64, 0, len(entries))
	for _, entry := range entries {
		res, err := period.ForEntry(ctx, g, comps, entry, opts...)
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", entry, err)
		}
		rep.Results = append(rep.Results, res)
		periods = append(periods, res.Presses)
		if res.CycleStart != 0 {
			rep.Aligned = false
		}
	}

	comb, err := period.Combine(periods)
	if err != nil {
		return nil, err
	}
	rep.Combination = comb
	rep.Answer = comb.LCM

	if !comb.Coprime {
		slog.Warn("subsystem periods share a factor; product differs from lcm",
			"periods", periods,
			"product", comb.Product,
			"lcm", comb.LCM)
	}
	slog.Info("combined period complete",
		"entries", len(entries),
		"answer", rep.Answer,
		"aligned", rep.Aligned)
	return rep, nil
}
