package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pulsenet/internal/engine"
)

func TestListRuns_OrderAndFilter(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	g1 := mustParse(t, twoSubsystems)
	g2 := mustParse(t, "broadcaster -> a\n%a -> b\n&b -> a\n")

	_, err := s.WriteCountRun(ctx, "r1", g1, 1, engine.Counts{Low: 1, High: 1})
	require.NoError(t, err)
	_, err = s.WriteCountRun(ctx, "r2", g2, 1, engine.Counts{Low: 4, High: 2})
	require.NoError(t, err)
	createTestPeriodRun(t, s, "r3")

	all, err := s.ListRuns(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"r1", "r2", "r3"}, []string{all[0].ID, all[1].ID, all[2].ID})
	assert.Equal(t, []int64{1, 2, 3}, []int64{all[0].Seq, all[1].Seq, all[2].Seq})

	same, err := s.ListRuns(ctx, g1.Fingerprint(), 0)
	require.NoError(t, err)
	require.Len(t, same, 2)
	assert.Equal(t, "r1", same[0].ID)
	assert.Equal(t, "r3", same[1].ID)

	recent, err := s.ListRuns(ctx, "", 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "r2", recent[0].ID)
	assert.Equal(t, "r3", recent[1].ID)
}

func TestListRuns_Empty(t *testing.T) {
	s := createTestStore(t)

	runs, err := s.ListRuns(context.Background(), "nope", 0)
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestReadPeriods_CountRun(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	_, err := s.WriteCountRun(ctx, "c", mustParse(t, twoSubsystems), 1, engine.Counts{})
	require.NoError(t, err)

	records, err := s.ReadPeriods(ctx, "c")
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}
