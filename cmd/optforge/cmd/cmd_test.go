package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args against a throwaway config dir.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeIn(t, t.TempDir(), args...)
}

// executeIn runs the root command with the config dir pinned, so state
// persists across invocations within a test.
func executeIn(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", dir)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	SetVersion("1.2.3", "abc123", "2026-08-25")
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "optforge 1.2.3")
	assert.Contains(t, out, "commit: abc123")
}

func TestRunnersCommand(t *testing.T) {
	out, err := execute(t, "runners")
	require.NoError(t, err)
	assert.Contains(t, out, "wine")
	assert.Contains(t, out, "retroarch")
}

func TestGamesRoundTrip(t *testing.T) {
	dir := t.TempDir()

	out, err := executeIn(t, dir, "games", "add", "celeste", "--runner", "wine", "--name", "Celeste")
	require.NoError(t, err)
	assert.Contains(t, out, "Added celeste")

	out, err = executeIn(t, dir, "games", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "celeste")
	assert.Contains(t, out, "Celeste")

	out, err = executeIn(t, dir, "games", "remove", "celeste")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed celeste")

	out, err = executeIn(t, dir, "games", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No games")
}

func TestLogLevelFlagOverridesSettings(t *testing.T) {
	t.Cleanup(func() {
		logLevel = ""
		_ = rootCmd.PersistentFlags().Set("log-level", "")
	})

	_, err := execute(t, "runners")
	require.NoError(t, err)
	assert.False(t, appLog.Enabled(context.Background(), slog.LevelDebug),
		"settings default is info")

	_, err = execute(t, "--log-level", "debug", "runners")
	require.NoError(t, err)
	assert.True(t, appLog.Enabled(context.Background(), slog.LevelDebug))
}

func TestGamesAddRejectsUnknownRunner(t *testing.T) {
	_, err := execute(t, "games", "add", "x", "--runner", "nope")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "nope") || strings.Contains(err.Error(), "invalid"))
}

func TestEditGameUnknownSlug(t *testing.T) {
	_, err := execute(t, "edit", "game", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}
