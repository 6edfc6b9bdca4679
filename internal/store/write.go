package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/pulsenet/internal/circuit"
	"github.com/roach88/pulsenet/internal/engine"
	"github.com/roach88/pulsenet/internal/sim"
)

// WriteCountRun records a fixed-horizon pulse count under id.
// Uses ON CONFLICT(id) DO NOTHING for idempotency: writing the same id twice
// keeps the first run.
func (s *Store) WriteCountRun(ctx context.Context, id string, g *circuit.Graph, presses int64, c engine.Counts) (*Run, error) {
	run := Run{
		ID:          id,
		Mode:        ModeCount,
		Fingerprint: g.Fingerprint(),
		Network:     g.Canonical(),
		Presses:     presses,
		Low:         c.Low,
		High:        c.High,
		Answer:      c.Product(),
		Coprime:     true,
		Aligned:     true,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("write count run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if err := insertRun(ctx, tx, &run); err != nil {
		return nil, fmt.Errorf("write count run: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("write count run: commit: %w", err)
	}
	return &run, nil
}

// WritePeriodRun records a period combination under id, with one period
// row per entry and its emissions. The whole run is written in one
// transaction.
func (s *Store) WritePeriodRun(ctx context.Context, id string, g *circuit.Graph, rep *sim.Report) (*Run, error) {
	var maxPresses int64
	for _, r := range rep.Results {
		maxPresses = max(maxPresses, r.Presses)
	}
	run := Run{
		ID:          id,
		Mode:        ModePeriod,
		Fingerprint: g.Fingerprint(),
		Network:     g.Canonical(),
		Presses:     maxPresses,
		Answer:      rep.Answer,
		Coprime:     rep.Combination.Coprime,
		Aligned:     rep.Aligned,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("write period run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if err := insertRun(ctx, tx, &run); err != nil {
		return nil, fmt.Errorf("write period run: %w", err)
	}

	for pos, r := range rep.Results {
		members, err := marshalMembers(r.Members)
		if err != nil {
			return nil, fmt.Errorf("write period run: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO periods
			(run_id, position, entry, members, bits, presses, cycle_start, cycle_length)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(run_id, position) DO NOTHING
		`, id, pos, r.Entry, members, r.Bits, r.Presses, r.CycleStart, r.CycleLength)
		if err != nil {
			return nil, fmt.Errorf("write period %s: %w", r.Entry, err)
		}

		for _, em := range r.Emissions {
			pulses, err := marshalPulses(em.Pulses)
			if err != nil {
				return nil, fmt.Errorf("write period run: %w", err)
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO emissions (run_id, position, press, pulses)
				VALUES (?, ?, ?, ?)
				ON CONFLICT DO NOTHING
			`, id, pos, em.Press, pulses)
			if err != nil {
				return nil, fmt.Errorf("write emissions %s press %d: %w", r.Entry, em.Press, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("write period run: commit: %w", err)
	}
	return &run, nil
}

// insertRun assigns the next seq and inserts run. An existing id is left
// untouched and run is filled from the stored row.
func insertRun(ctx context.Context, tx *sql.Tx, run *Run) error {
	var last int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM runs`).Scan(&last); err != nil {
		return fmt.Errorf("get last seq: %w", err)
	}
	run.Seq = last + 1

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, mode, fingerprint, network, presses, low, high, answer, coprime, aligned)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Seq,
		string(run.Mode),
		run.Fingerprint,
		run.Network,
		run.Presses,
		run.Low,
		run.High,
		run.Answer,
		boolToInt(run.Coprime),
		boolToInt(run.Aligned),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	if n == 0 {
		stored, err := scanRun(tx.QueryRowContext(ctx, selectRun+` WHERE id = ?`, run.ID))
		if err != nil {
			return err
		}
		*run = stored
	}
	return nil
}
