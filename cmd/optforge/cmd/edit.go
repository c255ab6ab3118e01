package cmd

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/optforge/optforge/internal/config"
	"github.com/optforge/optforge/internal/form"
	"github.com/optforge/optforge/internal/library"
	"github.com/optforge/optforge/internal/option"
	"github.com/optforge/optforge/internal/runner"
	"github.com/optforge/optforge/internal/tui"
	"github.com/optforge/optforge/internal/widget"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration at one of the three levels",
}

var editGameCmd = &cobra.Command{
	Use:   "game <slug>",
	Short: "Edit a game's configuration (game, runner and system overrides)",
	Args:  cobra.ExactArgs(1),
	RunE:  runEditGame,
}

var editRunnerCmd = &cobra.Command{
	Use:   "runner <slug>",
	Short: "Edit a runner's base configuration",
	Args:  cobra.ExactArgs(1),
	RunE:  runEditRunner,
}

var editPrefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Edit the global preferences",
	Args:  cobra.NoArgs,
	RunE:  runEditPrefs,
}

func init() {
	editCmd.AddCommand(editGameCmd, editRunnerCmd, editPrefsCmd)
	rootCmd.AddCommand(editCmd)
}

func runEditGame(_ *cobra.Command, args []string) error {
	lib, err := library.Open(libraryPath())
	if err != nil {
		return fmt.Errorf("opening game library: %w", err)
	}
	defer lib.Close()

	game, err := lib.Get(args[0])
	if err != nil {
		if errors.Is(err, library.ErrNotFound) {
			return fmt.Errorf("no game %q in the library; add it with 'optforge games add'", args[0])
		}
		return err
	}

	cfg, err := config.Load(option.LevelGame, game.Runner, game.ConfigID, appPaths)
	if err != nil {
		return err
	}

	params := form.Params{
		Config: cfg,
		Logger: appLog.WithGame(game.Slug),
		Game: &form.GameContext{
			Slug:      game.Slug,
			Name:      game.Name,
			Runner:    game.Runner,
			Directory: game.Directory,
		},
		ShowAdvanced: appSettings.ShowAdvanced(),
		GamePath:     appSettings.GamePath(),
	}

	tabs := []tui.Tab{
		{Title: "Game options", Cfg: cfg, Box: form.NewGameBox(withGenerator(params, cfg))},
		{Title: "Runner options", Cfg: cfg, Box: form.NewRunnerBox(withGenerator(params, cfg))},
		{Title: "System options", Cfg: cfg, Box: form.NewSystemBox(withGenerator(params, cfg))},
	}
	return runTUI(tabs)
}

func runEditRunner(_ *cobra.Command, args []string) error {
	slug := args[0]
	if _, err := runner.Get(slug); err != nil {
		return err
	}

	cfg, err := config.Load(option.LevelRunner, slug, "", appPaths)
	if err != nil {
		return err
	}

	params := form.Params{
		Config:       cfg,
		Logger:       appLog.WithRunner(slug),
		ShowAdvanced: appSettings.ShowAdvanced(),
		GamePath:     appSettings.GamePath(),
	}

	tabs := []tui.Tab{
		{Title: "Runner options", Cfg: cfg, Box: form.NewRunnerBox(withGenerator(params, cfg))},
		{Title: "System options", Cfg: cfg, Box: form.NewSystemBox(withGenerator(params, cfg))},
	}
	return runTUI(tabs)
}

func runEditPrefs(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(option.LevelSystem, "", "", appPaths)
	if err != nil {
		return err
	}

	params := form.Params{
		Config:       cfg,
		Logger:       appLog,
		ShowAdvanced: appSettings.ShowAdvanced(),
		GamePath:     appSettings.GamePath(),
	}

	tabs := []tui.Tab{
		{Title: "Global preferences", Cfg: cfg, Box: form.NewSystemBox(withGenerator(params, cfg))},
	}
	return runTUI(tabs)
}

// withGenerator gives each box its own generator; generators carry
// per-render state that must not be shared across forms.
func withGenerator(p form.Params, cfg *config.LayeredConfig) form.Params {
	p.Generator = widget.New(cfg)
	return p
}

func runTUI(tabs []tui.Tab) error {
	p := tea.NewProgram(tui.New(tabs, appSettings, appLog), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
