package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer

	l := New(Config{Format: FormatJSON, Output: &buf, Service: "roomdash"})
	l.LogInfo("room %s is %s", "301A", "empty")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "room 301A is empty", entry["msg"])
	assert.Equal(t, "roomdash", entry["service"])
}

func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer

	l := New(Config{Level: "warn", Output: &buf})
	l.LogInfo("dropped")
	l.LogDebugf("dropped too")
	assert.Empty(t, buf.String())

	l.LogWarnf("kept %d", 1)
	assert.Contains(t, buf.String(), "kept 1")
}
