package store

import (
	"context"
	"fmt"

	"github.com/roach88/pulsenet/internal/circuit"
	"github.com/roach88/pulsenet/internal/period"
	"github.com/roach88/pulsenet/internal/sim"
)

// ReplayResult compares a stored run with a fresh simulation of the same
// network.
type ReplayResult struct {
	Run    *Run  `json:"run"`
	Answer int64 `json:"answer"` // answer of the fresh simulation
	Low    int64 `json:"low,omitempty"`
	High   int64 `json:"high,omitempty"`
	Match  bool  `json:"match"`
}

// Replay re-simulates run id from its stored canonical network.
//
// Simulation is deterministic, so a mismatch means the stored run was
// produced by different semantics or the row was altered.
func (s *Store) Replay(ctx context.Context, id string, opts ...period.Option) (*ReplayResult, error) {
	run, err := s.ReadRun(ctx, id)
	if err != nil {
		return nil, err
	}
	g, err := circuit.Parse(run.Network)
	if err != nil {
		return nil, fmt.Errorf("replay %s: stored network: %w", id, err)
	}
	if fp := g.Fingerprint(); fp != run.Fingerprint {
		return nil, fmt.Errorf("replay %s: fingerprint mismatch: stored %s, computed %s", id, run.Fingerprint, fp)
	}

	res := &ReplayResult{Run: run}
	switch run.Mode {
	case ModeCount:
		c, err := sim.CountPulses(ctx, g, run.Presses)
		if err != nil {
			return nil, fmt.Errorf("replay %s: %w", id, err)
		}
		res.Answer, res.Low, res.High = c.Product(), c.Low, c.High
		res.Match = c.Low == run.Low && c.High == run.High && res.Answer == run.Answer

	case ModePeriod:
		records, err := s.ReadPeriods(ctx, id)
		if err != nil {
			return nil, err
		}
		entries := make([]string, len(records))
		for i, r := range records {
			entries[i] = r.Entry
		}
		rep, err := sim.CombinedPeriod(ctx, g, entries, opts...)
		if err != nil {
			return nil, fmt.Errorf("replay %s: %w", id, err)
		}
		res.Answer = rep.Answer
		res.Match = rep.Answer == run.Answer && len(rep.Results) == len(records)
		for i := 0; res.Match && i < len(records); i++ {
			r := rep.Results[i]
			res.Match = r.Presses == records[i].Presses && r.CycleStart == records[i].CycleStart
		}

	default:
		return nil, fmt.Errorf("replay %s: unknown mode %q", id, run.Mode)
	}
	return res, nil
}
