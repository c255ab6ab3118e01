package runner

import (
	"github.com/optforge/optforge/internal/option"
)

// SystemOptions returns the global system option schema shared by every
// game. The list is rebuilt per call so forms can safely resolve the
// producer fields without aliasing.
func SystemOptions() []option.Descriptor {
	return []option.Descriptor{
		{
			Key:     "game_path",
			Type:    option.TypeDirectory,
			Label:   "Default installation folder",
			Help:    "The default folder where you install your games.",
			Section: "Folders",
		},
		{
			Key:     "bios_path",
			Type:    option.TypeDirectory,
			Label:   "Emulator BIOS folder",
			Help:    "Folder scanned for BIOS and firmware files required by emulators.",
			Section: "Folders",
			Scope:   []option.Level{option.LevelSystem},
		},
		{
			Key:     "disable_compositor",
			Type:    option.TypeBool,
			Label:   "Disable desktop effects",
			Help:    "Disable the desktop compositor while the game runs, to reduce stuttering.",
			Section: "Display",
			Default: false,
		},
		{
			Key:      "restore_gamma",
			Type:     option.TypeBool,
			Label:    "Restore gamma on game exit",
			Help:     "Restores the default screen gamma in case the game changed it.",
			Section:  "Display",
			Advanced: true,
			Default:  false,
		},
		{
			Key:     "resolution",
			Type:    option.TypeChoiceWithEntry,
			Label:   "Display resolution",
			Help:    "Switch the desktop to this resolution before launching.",
			Section: "Display",
			Choices: option.Produce(displayResolutions),
		},
		{
			Key:     "gamemode",
			Type:    option.TypeBool,
			Label:   "Enable Feral GameMode",
			Help:    "Request GameMode CPU governor optimizations while the game runs.",
			Section: "Performance",
			Default: true,
		},
		{
			Key:      "single_cpu",
			Type:     option.TypeBool,
			Label:    "Restrict to a single CPU core",
			Help:     "Pin the game to one core, for old games with broken multicore support.",
			Section:  "Performance",
			Advanced: true,
			Default:  false,
		},
		{
			Key:      "env",
			Type:     option.TypeMapping,
			Label:    "Environment variables",
			Help:     "Extra environment variables set for the game process.",
			Section:  "Gaming",
			Advanced: true,
		},
		{
			Key:      "prefix_command",
			Type:     option.TypeCommandLine,
			Label:    "Command prefix",
			Help:     "Command inserted before the game command line, such as a profiler wrapper.",
			Section:  "Gaming",
			Advanced: true,
		},
		{
			Key:      "reset_desktop",
			Type:     option.TypeBool,
			Label:    "Reset desktop resolution on exit",
			Help:     "Switch the desktop back to its original resolution when the game exits.",
			Section:  "Display",
			Advanced: true,
			Default:  true,
			Warning: option.Check(func(cfg option.Store, _ string) string {
				if on, _ := cfg.SystemConfig()["single_cpu"].(bool); on {
					return "Resetting the desktop with a single-core restriction can be slow."
				}
				return ""
			}),
		},
	}
}

func displayResolutions() []option.Choice {
	modes := []string{"3840x2160", "2560x1440", "1920x1080", "1280x720"}
	choices := make([]option.Choice, 0, len(modes))
	for _, m := range modes {
		choices = append(choices, option.Choice{Label: m, Value: m})
	}
	return choices
}

// WithRunnerOverrides returns the system options with the runner's
// declared default overrides applied. Unknown slugs return the plain
// system options.
func WithRunnerOverrides(slug string) []option.Descriptor {
	opts := SystemOptions()
	r, err := Get(slug)
	if err != nil {
		return opts
	}
	overrider, ok := r.(SystemOverrider)
	if !ok {
		return opts
	}
	overrides := overrider.SystemOverrides()
	for i := range opts {
		if def, ok := overrides[opts[i].Key]; ok {
			opts[i].Default = def
		}
	}
	return opts
}
