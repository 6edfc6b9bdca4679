package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pulsenet/internal/testutil"
)

func TestPeriod_Text(t *testing.T) {
	out, err := execute(t, "period", writeNetwork(t, testutil.TwoSubsystems))
	require.NoError(t, err)

	assert.Contains(t, out, "a: period 3\n")
	assert.Contains(t, out, "members: a, b, hub (4 bits)")
	assert.Contains(t, out, "x: period 1\n")
	assert.Contains(t, out, "Answer: 3\n")
	assert.NotContains(t, out, "Note:")
}

func TestPeriod_Emissions(t *testing.T) {
	out, err := execute(t, "period", writeNetwork(t, testutil.TwoSubsystems), "--entry", "a", "--emissions")
	require.NoError(t, err)
	assert.Contains(t, out, "press 1: hub -high-> inv1\n")
}

func TestPeriod_JSON(t *testing.T) {
	out, err := execute(t, "period", writeNetwork(t, testutil.TwoSubsystems), "--entry", "x", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Report struct {
				Entries []string `json:"entries"`
				Answer  int64    `json:"answer"`
				Aligned bool     `json:"aligned"`
			} `json:"report"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, []string{"x"}, resp.Data.Report.Entries)
	assert.Equal(t, int64(1), resp.Data.Report.Answer)
	assert.True(t, resp.Data.Report.Aligned)
}

func TestPeriod_MaxPressesExceeded(t *testing.T) {
	out, err := execute(t, "period", writeNetwork(t, testutil.TwoSubsystems), "--max-presses", "2", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "QUOTA_EXCEEDED", resp.Error.Code)
}

func TestPeriod_MaxPressesFromConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "net.txt", testutil.TwoSubsystems)
	cfg := writeFile(t, dir, "run.cue", `network: "net.txt"
max_presses: 2
`)

	_, err := execute(t, "period", "--config", cfg)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	// the flag overrides the file
	out, err := execute(t, "period", "--config", cfg, "--max-presses", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Answer: 3\n")
}

func TestPeriod_UnknownEntry(t *testing.T) {
	_, err := execute(t, "period", writeNetwork(t, testutil.TwoSubsystems), "--entry", "rx")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "UNKNOWN_MODULE")
}

func TestPeriod_RecordsRun(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")

	out, err := execute(t, "period", writeNetwork(t, testutil.TwoSubsystems), "--db", db, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Data PeriodResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotEmpty(t, resp.Data.RunID)

	out, err = execute(t, "history", "--db", db, "--periods")
	require.NoError(t, err)
	assert.Contains(t, out, "a: period 3, cycle 3 from 0")
	assert.Contains(t, out, "x: period 1, cycle 1 from 0")

	_, err = execute(t, "replay", resp.Data.RunID, "--db", db)
	require.NoError(t, err)
}
