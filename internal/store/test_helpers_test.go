package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/pulsenet/internal/circuit"
	"github.com/roach88/pulsenet/internal/sim"
)

const twoSubsystems = `broadcaster -> a, x
%a -> b, hub
%b -> hub
&hub -> a, inv1
&inv1 -> join
%x -> hx
&hx -> x, inv2
&inv2 -> join
&join -> rx
`

// createTestStore creates a new file-backed store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mustParse(t *testing.T, text string) *circuit.Graph {
	t.Helper()
	g, err := circuit.Parse(text)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	return g
}

// createTestPeriodRun runs the two-subsystem network and stores it as id.
func createTestPeriodRun(t *testing.T, s *Store, id string) *Run {
	t.Helper()
	g := mustParse(t, twoSubsystems)
	rep, err := sim.CombinedPeriod(context.Background(), g, nil)
	if err != nil {
		t.Fatalf("CombinedPeriod() failed: %v", err)
	}
	run, err := s.WritePeriodRun(context.Background(), id, g, rep)
	if err != nil {
		t.Fatalf("WritePeriodRun() failed: %v", err)
	}
	return run
}
