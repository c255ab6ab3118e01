package config

import (
	"os"
	"path/filepath"
)

// Paths locates the per-level configuration files under a base directory.
type Paths struct {
	Base string
}

// DefaultPaths returns the standard config location, honoring
// XDG_CONFIG_HOME when set.
func DefaultPaths() (Paths, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return Paths{Base: filepath.Join(xdg, "optforge")}, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return Paths{}, err
	}
	return Paths{Base: filepath.Join(home, ".config", "optforge")}, nil
}

// System returns the global config file path.
func (p Paths) System() string {
	return filepath.Join(p.Base, "system.yml")
}

// Runner returns the config file path for a runner.
func (p Paths) Runner(slug string) string {
	return filepath.Join(p.Base, "runners", slug+".yml")
}

// Game returns the config file path for a game config ID.
func (p Paths) Game(configID string) string {
	return filepath.Join(p.Base, "games", configID+".yml")
}
