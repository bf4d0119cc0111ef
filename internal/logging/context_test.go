package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	require.Equal(t, slog.LevelWarn, ParseLevel(" Warning "))
	require.Equal(t, slog.LevelError, ParseLevel("error"))
	require.Equal(t, slog.LevelInfo, ParseLevel("anything else"))
}

func TestNewContext_WithFile(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "step.log")

	lc, err := NewContext("landice_mismipplus_smoke_test", nil, logFile)
	require.NoError(t, err)
	require.Equal(t, "landice_mismipplus_smoke_test", lc.Name())

	lc.Logger().Info("running the forward model")
	require.NoError(t, lc.Close())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	require.Contains(t, string(content), "running the forward model")
}

func TestNewContext_WithoutFilePassesParentThrough(t *testing.T) {
	parent := slog.Default()

	lc, err := NewContext("shared", parent, "")
	require.NoError(t, err)
	require.Same(t, parent, lc.Logger())
	require.NoError(t, lc.Close())
}

func TestNewContext_CloseIsIdempotent(t *testing.T) {
	lc, err := NewContext("twice", nil, filepath.Join(t.TempDir(), "twice.log"))
	require.NoError(t, err)
	require.NoError(t, lc.Close())
	require.NoError(t, lc.Close())
}

func TestNewContext_BadFile(t *testing.T) {
	_, err := NewContext("bad", nil, filepath.Join(t.TempDir(), "no", "such", "dir.log"))
	require.Error(t, err)
}
