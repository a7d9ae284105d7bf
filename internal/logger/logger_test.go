package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
		ok   bool
	}{
		{"debug", slog.LevelDebug, true},
		{" INFO ", slog.LevelInfo, true},
		{"", slog.LevelInfo, true},
		{"warning", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
	}
	for _, tt := range tests {
		got, ok := ParseLevel(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn", "json")

	l.Info("dropped")
	l.Warn("kept", "tab", "fcl")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "fcl", entry["tab"])
}

func TestNewWarnsOnInvalidLevel(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "loud", "text")

	assert.Contains(t, buf.String(), "invalid log level")
	assert.Contains(t, buf.String(), "configured=loud")
}
