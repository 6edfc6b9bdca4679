package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/pulsenet/internal/period"
)

const selectRun = `
	SELECT id, seq, mode, fingerprint, network, presses, low, high, answer, coprime, aligned
	FROM runs`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		r       Run
		mode    string
		coprime int
		aligned int
	)
	err := row.Scan(&r.ID, &r.Seq, &mode, &r.Fingerprint, &r.Network,
		&r.Presses, &r.Low, &r.High, &r.Answer, &coprime, &aligned)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	r.Mode = Mode(mode)
	r.Coprime = coprime != 0
	r.Aligned = aligned != 0
	return r, nil
}

// ReadRun retrieves a single run by ID.
// Returns ErrRunNotFound if no run has that ID.
func (s *Store) ReadRun(ctx context.Context, id string) (*Run, error) {
	r, err := scanRun(s.db.QueryRowContext(ctx, selectRun+` WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("read run %s: %w", id, err)
	}
	return &r, nil
}

// ListRuns returns recorded runs ordered by seq. A non-empty fingerprint
// restricts the list to runs of that network. limit <= 0 returns all runs;
// otherwise the most recent limit runs are returned, still in seq order.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) ListRuns(ctx context.Context, fingerprint string, limit int) ([]Run, error) {
	query := selectRun
	var args []any
	if fingerprint != "" {
		query += ` WHERE fingerprint = ?`
		args = append(args, fingerprint)
	}
	query += ` ORDER BY seq DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	// Newest first from the query; callers see ascending seq.
	for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
		runs[i], runs[j] = runs[j], runs[i]
	}
	return runs, nil
}

// ReadPeriods returns the period records of a run ordered by position, each
// with its emissions ordered by press.
//
// Returns an empty slice (not nil) for count runs and unknown IDs.
func (s *Store) ReadPeriods(ctx context.Context, runID string) ([]PeriodRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, position, entry, members, bits, presses, cycle_start, cycle_length
		FROM periods
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query periods: %w", err)
	}

	records := []PeriodRecord{}
	for rows.Next() {
		var (
			p       PeriodRecord
			members string
		)
		if err := rows.Scan(&p.RunID, &p.Position, &p.Entry, &members, &p.Bits,
			&p.Presses, &p.CycleStart, &p.CycleLength); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan period: %w", err)
		}
		if p.Members, err = unmarshalMembers(members); err != nil {
			rows.Close()
			return nil, err
		}
		records = append(records, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate periods: %w", err)
	}
	// Release the single connection before the emissions queries.
	rows.Close()

	for i := range records {
		ems, err := s.readEmissions(ctx, runID, records[i].Position)
		if err != nil {
			return nil, err
		}
		records[i].Emissions = ems
	}
	return records, nil
}

func (s *Store) readEmissions(ctx context.Context, runID string, position int) ([]period.Emission, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT press, pulses
		FROM emissions
		WHERE run_id = ? AND position = ?
		ORDER BY press ASC
	`, runID, position)
	if err != nil {
		return nil, fmt.Errorf("query emissions: %w", err)
	}
	defer rows.Close()

	ems := []period.Emission{}
	for rows.Next() {
		var (
			em     period.Emission
			pulses string
		)
		if err := rows.Scan(&em.Press, &pulses); err != nil {
			return nil, fmt.Errorf("scan emission: %w", err)
		}
		if em.Pulses, err = unmarshalPulses(pulses); err != nil {
			return nil, err
		}
		ems = append(ems, em)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate emissions: %w", err)
	}
	return ems, nil
}

// GetLastSeq returns the highest seq number used in the store, 0 when
// empty.
func (s *Store) GetLastSeq(ctx context.Context) (int64, error) {
	var seq int64
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM runs`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("get last seq: %w", err)
	}
	return seq, nil
}
