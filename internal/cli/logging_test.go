package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_Levels(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, closer, err := newLogger(buf, false, "")
	require.NoError(t, err)
	assert.Nil(t, closer)

	logger.Info("hidden")
	logger.Warn("shown", "k", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown k=1")

	buf.Reset()
	logger, _, err = newLogger(buf, true, "")
	require.NoError(t, err)
	logger.Debug("detail")
	assert.Contains(t, buf.String(), "msg=detail")
}

func TestNewLogger_FanOutToFile(t *testing.T) {
	buf := &bytes.Buffer{}
	path := filepath.Join(t.TempDir(), "run.log")

	logger, closer, err := newLogger(buf, false, path)
	require.NoError(t, err)
	logger.Debug("press complete", "press", 1)
	require.NoError(t, closer.Close())

	assert.Empty(t, buf.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &rec))
	assert.Equal(t, "press complete", rec["msg"])
	assert.Equal(t, float64(1), rec["press"])
}

func TestNewLogger_BadPath(t *testing.T) {
	_, _, err := newLogger(&bytes.Buffer{}, false, filepath.Join(t.TempDir(), "missing", "run.log"))
	assert.Error(t, err)
}
