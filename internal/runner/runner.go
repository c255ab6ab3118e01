// Package runner declares the option schemas the configuration form is
// built from: per-runner game and runner options, plus the global system
// options. Runners register themselves in a package registry and are
// resolved by slug.
package runner

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/optforge/optforge/internal/option"
)

// ErrInvalidRunner is returned when a slug resolves to no registered runner.
var ErrInvalidRunner = errors.New("invalid runner")

// Runner supplies the option schemas and environment for one game runner.
type Runner interface {
	Slug() string
	HumanName() string

	// GameOptions are the game-level descriptors (main file, core, ...).
	GameOptions() []option.Descriptor

	// RunnerOptions are the runner-level descriptors.
	RunnerOptions() []option.Descriptor

	// WorkingDir is the runner's default working directory, used to seed
	// file choosers when a game has no directory of its own.
	WorkingDir() string
}

// SystemOverrider is implemented by runners that override defaults of
// global system options.
type SystemOverrider interface {
	// SystemOverrides maps system option keys to replacement defaults.
	SystemOverrides() map[string]any
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Runner{}
)

// Register adds a runner to the registry. Registering the same slug twice
// panics; runners register once from init.
func Register(r Runner) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[r.Slug()]; dup {
		panic(fmt.Sprintf("runner: duplicate registration of %q", r.Slug()))
	}
	registry[r.Slug()] = r
}

// Get resolves a runner by slug.
func Get(slug string) (Runner, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	r, ok := registry[slug]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRunner, slug)
	}
	return r, nil
}

// Slugs returns the registered runner slugs, sorted.
func Slugs() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	slugs := make([]string, 0, len(registry))
	for slug := range registry {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

// All returns the registered runners in slug order.
func All() []Runner {
	runners := make([]Runner, 0)
	for _, slug := range Slugs() {
		r, _ := Get(slug)
		runners = append(runners, r)
	}
	return runners
}
