package runner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/optforge/optforge/internal/option"
)

// retroarch runs libretro cores. Core choices are produced by scanning
// the cores directory at render time, since users install cores behind
// our back.
type retroarch struct{}

func init() { Register(retroarch{}) }

func (retroarch) Slug() string      { return "retroarch" }
func (retroarch) HumanName() string { return "RetroArch" }

func (retroarch) WorkingDir() string {
	return filepath.Join(dataDir(), "retroarch")
}

func (r retroarch) GameOptions() []option.Descriptor {
	return []option.Descriptor{
		{
			Key:   "main_file",
			Type:  option.TypeFile,
			Label: "ROM file",
			Help:  "The game image or ROM to load.",
		},
		{
			Key:     "core",
			Type:    option.TypeChoice,
			Label:   "Core",
			Help:    "The libretro core used to run this game.",
			Choices: option.Produce(coreChoices),
			Error: option.Check(func(cfg option.Store, key string) string {
				if cfg.GameConfig()[key] == nil {
					return "No core has been selected for this game."
				}
				return ""
			}),
		},
	}
}

func (r retroarch) RunnerOptions() []option.Descriptor {
	return []option.Descriptor{
		{
			Key:     "config_file",
			Type:    option.TypeFile,
			Label:   "Config file",
			Help:    "RetroArch configuration file.",
			Default: func() any { return filepath.Join(dataDir(), "retroarch", "retroarch.cfg") },
		},
		{
			Key:     "fullscreen",
			Type:    option.TypeBool,
			Label:   "Fullscreen",
			Default: true,
		},
		{
			Key:      "verbose",
			Type:     option.TypeBool,
			Label:    "Verbose logging",
			Advanced: true,
			Default:  false,
		},
	}
}

func coreChoices() []option.Choice {
	coresDir := filepath.Join(dataDir(), "retroarch", "cores")
	entries, err := os.ReadDir(coresDir)
	if err != nil {
		if !os.IsNotExist(err) {
			envLogger().Warn("scanning libretro cores", "dir", coresDir, "error", err)
		}
		return nil
	}
	var choices []option.Choice
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, "_libretro.so") {
			continue
		}
		core := strings.TrimSuffix(name, "_libretro.so")
		choices = append(choices, option.Choice{Label: coreLabel(core), Value: core})
	}
	sort.Slice(choices, func(i, j int) bool { return choices[i].Label < choices[j].Label })
	return choices
}

func coreLabel(core string) string {
	words := strings.Split(core, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
