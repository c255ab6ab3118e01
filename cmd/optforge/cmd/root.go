package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/optforge/optforge/internal/config"
	"github.com/optforge/optforge/internal/logging"
	"github.com/optforge/optforge/internal/runner"
	"github.com/optforge/optforge/internal/settings"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string

	// Version info - set via SetVersion()
	appVersion string
	appCommit  string
	appDate    string

	// Initialized by initApp for every command.
	appSettings *settings.Settings
	appLog      *logging.Logger
	appPaths    config.Paths
)

var rootCmd = &cobra.Command{
	Use:   "optforge",
	Short: "Schema-driven game configuration editor",
	Long: `optforge edits the layered game configuration: global preferences,
per-runner settings, and per-game overrides. Each level supersedes the
one below it, and the editor shows where every value comes from.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return initApp()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func SetVersion(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"settings file (default: <config dir>/settings.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"log format (auto, text, json)")
}

func initApp() error {
	paths, err := config.DefaultPaths()
	if err != nil {
		return fmt.Errorf("resolving config paths: %w", err)
	}
	appPaths = paths

	path := cfgFile
	if path == "" {
		path, err = settings.DefaultPath()
		if err != nil {
			return fmt.Errorf("resolving settings path: %w", err)
		}
	}
	appSettings, err = settings.Load(path)
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	level := appSettings.LogLevel()
	if logLevel != "" {
		level = logLevel
	}
	format := appSettings.LogFormat()
	if logFormat != "" {
		format = logFormat
	}
	appLog = logging.New(logging.Config{Level: level, Format: format})

	runner.Configure(runner.Environment{
		VersionsDir: appSettings.VersionsPath(),
		Logger:      appLog,
	})
	return nil
}

// libraryPath is where the games catalog database lives.
func libraryPath() string {
	return filepath.Join(appPaths.Base, "games.db")
}
