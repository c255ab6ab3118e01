package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	s, err := Load(filepath.Join(t.TempDir(), "settings.yaml"))
	require.NoError(t, err)

	assert.False(t, s.ShowAdvanced())
	assert.Empty(t, s.GamePath())
	assert.Equal(t, "info", s.LogLevel())
}

func TestSetShowAdvancedPersists(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	s, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, s.SetShowAdvanced(true))

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.True(t, reloaded.ShowAdvanced())
}

func TestLoadReadsExistingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := "show_advanced: true\ngame_path: /srv/games\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.True(t, s.ShowAdvanced())
	assert.Equal(t, "/srv/games", s.GamePath())
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("OPTFORGE_GAME_PATH", "/mnt/library")

	s, err := Load(filepath.Join(t.TempDir(), "settings.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/mnt/library", s.GamePath())
}
