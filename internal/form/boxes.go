package form

import (
	"os"

	"github.com/optforge/optforge/internal/config"
	"github.com/optforge/optforge/internal/logging"
	"github.com/optforge/optforge/internal/option"
	"github.com/optforge/optforge/internal/runner"
)

// GameContext carries the library facts a form needs about the game
// being configured.
type GameContext struct {
	Slug      string
	Name      string
	Runner    string
	Directory string
}

// Params bundles the collaborators the box constructors share.
type Params struct {
	Config    *config.LayeredConfig
	Generator Generator
	Logger    *logging.Logger

	// Game is set when a game-scoped dialog is open.
	Game *GameContext

	// ShowAdvanced seeds the advanced toggle, read once from application
	// settings.
	ShowAdvanced bool

	// GamePath is the settings-level fallback install folder used when
	// neither the game nor the store supplies a default directory.
	GamePath string
}

func newConfigBox(p Params, sectionKey string) *ConfigBox {
	log := p.Logger
	if log == nil {
		log = logging.NewNop()
	}
	return &ConfigBox{
		level:           p.Config.Level(),
		sectionKey:      sectionKey,
		cfg:             p.Config,
		gen:             p.Generator,
		log:             log,
		advancedVisible: p.ShowAdvanced,
		defaultDir:      resolveDefaultDir(p),
	}
}

// resolveDefaultDir seeds the file choosers: the game's own directory,
// then the game's runner working directory, then the configured global
// game path, then home.
func resolveDefaultDir(p Params) string {
	if p.Game != nil && p.Game.Directory != "" {
		return p.Game.Directory
	}
	if p.Game != nil && p.Game.Runner != "" {
		if r, err := runner.Get(p.Game.Runner); err == nil {
			return r.WorkingDir()
		}
	}
	if gp, ok := p.Config.SystemConfig()["game_path"].(string); ok && gp != "" {
		return gp
	}
	if p.GamePath != "" {
		return p.GamePath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// NewGameBox builds the form over the active runner's game-level
// options. A game without a resolvable runner yields an empty schema.
func NewGameBox(p Params) *ConfigBox {
	b := newConfigBox(p, config.SectionGame)

	slug := p.Config.RunnerSlug()
	if p.Game != nil && p.Game.Runner != "" {
		slug = p.Game.Runner
	}
	r, err := runner.Get(slug)
	if err != nil {
		b.log.Warn("no runner for game config box", "runner", slug, "error", err)
		return b
	}
	b.options = r.GameOptions()
	return b
}

// NewRunnerBox builds the form over the runner's own options. The compat
// version cache is invalidated before every render: it scans directories
// outside our control. When editing a per-game override of the runner
// config, a banner says so.
func NewRunnerBox(p Params) *ConfigBox {
	b := newConfigBox(p, p.Config.RunnerSlug())

	r, err := runner.Get(p.Config.RunnerSlug())
	if err != nil {
		b.log.Warn("cannot resolve runner for config box", "runner", p.Config.RunnerSlug(), "error", err)
	} else {
		b.options = r.RunnerOptions()
	}

	b.preRender = runner.InvalidateCompatVersions

	if p.Config.Level() == option.LevelGame {
		b.banner = "If modified, these options supersede the same options from the base runner configuration."
	}
	return b
}

// NewSystemBox builds the form over the global system options, narrowed
// by runner overrides when a runner is in context. The banner wording
// tracks which tier is being overridden.
func NewSystemBox(p Params) *ConfigBox {
	b := newConfigBox(p, config.SectionSystem)

	slug := p.Config.RunnerSlug()
	if slug != "" {
		b.options = runner.WithRunnerOverrides(slug)
	} else {
		b.options = runner.SystemOptions()
	}

	switch {
	case p.Config.GameConfigID() != "" && slug != "":
		b.banner = "If modified, these options supersede the same options from " +
			"the base runner configuration, which themselves supersede the global preferences."
	case slug != "":
		b.banner = "If modified, these options supersede the same options from the global preferences."
	}
	return b
}
