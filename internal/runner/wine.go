package runner

import (
	"os"
	"path/filepath"

	"github.com/optforge/optforge/internal/option"
)

// wine runs Windows games through a compatibility layer. Its version
// option searches the installed compat versions, which the runner-level
// form rescans before every render.
type wine struct{}

func init() { Register(wine{}) }

func (wine) Slug() string      { return "wine" }
func (wine) HumanName() string { return "Wine" }

func (wine) WorkingDir() string {
	return filepath.Join(dataDir(), "wine")
}

func (w wine) GameOptions() []option.Descriptor {
	return []option.Descriptor{
		{
			Key:   "exe",
			Type:  option.TypeFile,
			Label: "Executable",
			Help:  "The Windows executable to launch.",
		},
		{
			Key:   "args",
			Type:  option.TypeString,
			Label: "Arguments",
			Help:  "Command line arguments passed to the executable.",
		},
		{
			Key:   "working_dir",
			Type:  option.TypeDirectory,
			Label: "Working directory",
			Help:  "Directory the executable starts in. Defaults to the folder containing it.",
		},
		{
			Key:      "prefix",
			Type:     option.TypeDirectory,
			Label:    "Wine prefix",
			Help:     "The prefix (bottle) this game runs in.",
			Advanced: true,
		},
	}
}

func (w wine) RunnerOptions() []option.Descriptor {
	return []option.Descriptor{
		{
			Key:     "version",
			Type:    option.TypeChoiceWithSearch,
			Label:   "Wine version",
			Help:    "The compatibility layer version used to run games.",
			Choices: option.Produce(compatVersionChoices),
			Error: option.Check(func(cfg option.Store, key string) string {
				v, _ := cfg.RunnerConfig()[key].(string)
				if v == "" {
					return ""
				}
				for _, installed := range CompatVersions() {
					if installed == v {
						return ""
					}
				}
				return "The selected Wine version is not installed."
			}),
		},
		{
			Key:       "dxvk",
			Type:      option.TypeBool,
			Label:     "Enable DXVK",
			Help:      "Translate Direct3D calls to Vulkan. Greyed out when no Vulkan loader is present.",
			Section:   "Graphics",
			Default:   true,
			Condition: option.Produce(vulkanSupported),
		},
		{
			Key:     "virtual_desktop",
			Type:    option.TypeBool,
			Label:   "Windowed (virtual desktop)",
			Help:    "Run the game inside a Wine virtual desktop window.",
			Section: "Graphics",
			Default: false,
		},
		{
			Key:     "desktop_resolution",
			Type:    option.TypeChoiceWithEntry,
			Label:   "Virtual desktop resolution",
			Help:    "Size of the virtual desktop window.",
			Section: "Graphics",
			Choices: option.Produce(displayResolutions),
		},
		{
			Key:      "esync",
			Type:     option.TypeBool,
			Label:    "Enable Esync",
			Help:     "Eventfd-based synchronization. Needs a raised file descriptor limit.",
			Section:  "Performance",
			Advanced: true,
			Default:  true,
			Warning: option.Check(func(cfg option.Store, key string) string {
				esync, _ := cfg.RunnerConfig()["esync"].(bool)
				fsync, _ := cfg.RunnerConfig()["fsync"].(bool)
				if esync && fsync {
					return "Esync and Fsync are both enabled; Fsync takes precedence."
				}
				return ""
			}),
		},
		{
			Key:      "fsync",
			Type:     option.TypeBool,
			Label:    "Enable Fsync",
			Help:     "Futex-based synchronization. Requires a kernel with futex2 support.",
			Section:  "Performance",
			Advanced: true,
			Default:  false,
		},
	}
}

// SystemOverrides raises system defaults that make sense for Windows
// games in particular.
func (wine) SystemOverrides() map[string]any {
	return map[string]any{
		"disable_compositor": true,
	}
}

func vulkanSupported() bool {
	for _, path := range []string{
		"/usr/lib/libvulkan.so.1",
		"/usr/lib64/libvulkan.so.1",
		"/usr/lib/x86_64-linux-gnu/libvulkan.so.1",
	} {
		if _, err := os.Stat(path); err == nil {
			return true
		}
	}
	return false
}

func compatVersionChoices() []option.Choice {
	versions := CompatVersions()
	choices := make([]option.Choice, 0, len(versions))
	for _, v := range versions {
		choices = append(choices, option.Choice{Label: v, Value: v})
	}
	return choices
}
