package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pulsenet/internal/circuit"
	"github.com/roach88/pulsenet/internal/config"
	"github.com/roach88/pulsenet/internal/engine"
	"github.com/roach88/pulsenet/internal/period"
)

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad")))
	assert.Equal(t, ExitCommandError, GetExitCode(fmt.Errorf("wrapped: %w", NewExitError(ExitCommandError, "bad"))))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
}

func TestExitError_Message(t *testing.T) {
	assert.Equal(t, "bad", NewExitError(ExitFailure, "bad").Error())

	cause := errors.New("cause")
	err := WrapExitError(ExitFailure, "bad", cause)
	assert.Equal(t, "bad: cause", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestErrorCode(t *testing.T) {
	_, parseErr := circuit.Parse("broadcaster => a\n")
	_, loadErr := config.LoadString("presses: 0", "run.cue")

	tests := []struct {
		err  error
		want string
	}{
		{engine.NewQuotaError("a", 3, 2), "QUOTA_EXCEEDED"},
		{fmt.Errorf("entry a: %w", engine.NewUnknownModuleError("a")), "UNKNOWN_MODULE"},
		{parseErr, "PARSE_ERROR"},
		{fmt.Errorf("layout: %w", circuit.ErrSignatureOverflow), "SIGNATURE_OVERFLOW"},
		{period.ErrOverflow, "OVERFLOW"},
		{loadErr, config.ErrCodeBuildFailed},
		{errors.New("other"), "E001"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ErrorCode(tt.err), "%v", tt.err)
	}
}

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, f.Success(map[string]int{"answer": 3}, func(io.Writer) {
		t.Fatal("text callback called in JSON mode")
	}))
	assert.JSONEq(t, `{"status":"ok","data":{"answer":3}}`, buf.String())
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, f.Success(nil, func(w io.Writer) { fmt.Fprint(w, "hello") }))
	assert.Equal(t, "hello", buf.String())
}

func TestOutputFormatter_Fail(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}

	err := f.Fail(ExitFailure, "period search failed", engine.NewQuotaError("a", 3, 2))
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "QUOTA_EXCEEDED", resp.Error.Code)

	buf.Reset()
	f.Format = "text"
	err = f.Fail(ExitFailure, "period search failed", errors.New("boom"))
	assert.Error(t, err)
	assert.Empty(t, buf.String(), "text mode leaves reporting to the caller")
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf, Verbose: true}

	require.NoError(t, f.Error("E005", "config file not found", "run.cue"))
	assert.Equal(t, "Error [E005]: config file not found\nDetails: run.cue\n", buf.String())
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut}

	f.VerboseLog("quiet")
	assert.Empty(t, errOut.String())

	f.Verbose = true
	f.VerboseLog("updated %s", "x.golden")
	assert.Equal(t, "updated x.golden\n", errOut.String())
	assert.Empty(t, out.String())
}
