// Package settings persists application-wide launcher settings, as
// opposed to the per-game/runner/system option cascade. The form reads
// these once at construction (advanced-mode default, fallback game path)
// and writes back when the user flips persistent toggles.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Setting keys.
const (
	KeyShowAdvanced = "show_advanced"
	KeyGamePath     = "game_path"
	KeyVersionsPath = "versions_path"
	KeyLogLevel     = "log.level"
	KeyLogFormat    = "log.format"
)

// Settings is the viper-backed settings file.
type Settings struct {
	v    *viper.Viper
	path string
}

// DefaultPath returns the standard settings file location.
func DefaultPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "optforge", "settings.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "optforge", "settings.yaml"), nil
}

// Load reads the settings file at path, falling back to defaults when it
// does not exist. Environment variables prefixed OPTFORGE_ override file
// values.
func Load(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("OPTFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("reading settings: %w", err)
			}
		}
	}

	return &Settings{v: v, path: path}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyShowAdvanced, false)
	v.SetDefault(KeyGamePath, "")
	v.SetDefault(KeyVersionsPath, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "auto")
}

// ShowAdvanced reports whether advanced options start visible.
func (s *Settings) ShowAdvanced() bool { return s.v.GetBool(KeyShowAdvanced) }

// SetShowAdvanced persists the advanced-mode toggle.
func (s *Settings) SetShowAdvanced(show bool) error {
	s.v.Set(KeyShowAdvanced, show)
	return s.Save()
}

// GamePath returns the configured global games directory, if any.
func (s *Settings) GamePath() string { return s.v.GetString(KeyGamePath) }

// VersionsPath returns the compat-version install directory, if any.
func (s *Settings) VersionsPath() string { return s.v.GetString(KeyVersionsPath) }

// LogLevel returns the configured log level.
func (s *Settings) LogLevel() string { return s.v.GetString(KeyLogLevel) }

// LogFormat returns the configured log format.
func (s *Settings) LogFormat() string { return s.v.GetString(KeyLogFormat) }

// Set writes an arbitrary key without saving.
func (s *Settings) Set(key string, value any) { s.v.Set(key, value) }

// Get reads an arbitrary key.
func (s *Settings) Get(key string) any { return s.v.Get(key) }

// Save writes the settings file.
func (s *Settings) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return err
	}
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}

// Path returns the settings file path.
func (s *Settings) Path() string { return s.path }
