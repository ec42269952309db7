package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreLogger(t *testing.T) {
	t.Helper()
	prev := L
	t.Cleanup(func() { L = prev })
}

func TestDefaultLoggerDiscards(t *testing.T) {
	assert.False(t, L.Enabled(t.Context(), slog.LevelError))
}

func TestInitDisabledDiscards(t *testing.T) {
	restoreLogger(t)
	closeFn, err := Init(Options{Enabled: false})
	require.NoError(t, err)
	require.NoError(t, closeFn())
	assert.False(t, L.Enabled(t.Context(), slog.LevelError))
}

func TestInitJSONToWriter(t *testing.T) {
	restoreLogger(t)
	var buf bytes.Buffer
	_, err := Init(Options{Enabled: true, Output: &buf, Level: slog.LevelDebug, JSON: true})
	require.NoError(t, err)

	Debug("split", "size", 16)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "split", rec["msg"])
	assert.Equal(t, float64(16), rec["size"])
}

func TestInitLevelFilters(t *testing.T) {
	restoreLogger(t)
	var buf bytes.Buffer
	_, err := Init(Options{Enabled: true, Output: &buf, Level: slog.LevelWarn})
	require.NoError(t, err)

	Info("hidden")
	Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestInitLogDir(t *testing.T) {
	restoreLogger(t)
	dir := t.TempDir()
	closeFn, err := Init(Options{Enabled: true, LogDir: dir})
	require.NoError(t, err)
	Error("boom")
	require.NoError(t, closeFn())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(data), "boom")
}

func TestCleanOldLogs(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	old := filepath.Join(dir, logPrefix+"2024-01-01"+logSuffix)
	recent := filepath.Join(dir, logPrefix+"2024-02-20"+logSuffix)
	other := filepath.Join(dir, "unrelated.log")
	for _, p := range []string{old, recent, other} {
		require.NoError(t, os.WriteFile(p, nil, 0o644))
	}

	cleanOldLogs(dir, now)

	assert.NoFileExists(t, old)
	assert.FileExists(t, recent)
	assert.FileExists(t, other)
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)

	_, err = ParseLevel("loud")
	require.Error(t, err)
}
