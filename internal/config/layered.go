// Package config implements the three-tier cascading configuration store.
//
// Three files participate in the cascade: the global system config, one
// file per runner, and one file per game. Each file holds up to three
// sections (game options, runner options keyed by the runner slug, and
// system options). The effective value of a key is the topmost section
// value walking system -> runner -> game.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"

	"github.com/optforge/optforge/internal/option"
)

// SectionGame and SectionSystem name the fixed sections of a config file.
// Runner options live under a section named after the runner slug.
const (
	SectionGame   = "game"
	SectionSystem = "system"
)

// document is the parsed form of one config file: section -> key -> value.
type document map[string]map[string]any

// LayeredConfig is the cascading store one form instance edits. The
// effective maps are mutated in place by UpdateCascade so references
// handed out earlier stay valid across recomputes.
type LayeredConfig struct {
	level        option.Level
	runnerSlug   string
	gameConfigID string
	paths        Paths

	systemDoc document
	runnerDoc document
	gameDoc   document

	gameConfig   map[string]any
	runnerConfig map[string]any
	systemConfig map[string]any
}

// New builds an empty store editing the given level. runnerSlug and
// gameConfigID select which ancestor files participate in the cascade;
// either may be empty for stores higher up the hierarchy.
func New(level option.Level, runnerSlug, gameConfigID string, paths Paths) *LayeredConfig {
	c := &LayeredConfig{
		level:        level,
		runnerSlug:   runnerSlug,
		gameConfigID: gameConfigID,
		paths:        paths,
		systemDoc:    document{},
		runnerDoc:    document{},
		gameDoc:      document{},
		gameConfig:   map[string]any{},
		runnerConfig: map[string]any{},
		systemConfig: map[string]any{},
	}
	// The current level's sections are materialized up front so the raw
	// maps handed to the form are the live document sections.
	doc := c.levelDoc()
	for _, s := range []string{SectionGame, c.runnerSection(), SectionSystem} {
		if doc[s] == nil {
			doc[s] = map[string]any{}
		}
	}
	c.UpdateCascade()
	return c
}

// Load builds a store and reads every participating config file that
// exists on disk.
func Load(level option.Level, runnerSlug, gameConfigID string, paths Paths) (*LayeredConfig, error) {
	c := New(level, runnerSlug, gameConfigID, paths)

	if err := readDocument(paths.System(), &c.systemDoc); err != nil {
		return nil, fmt.Errorf("loading system config: %w", err)
	}
	if runnerSlug != "" {
		if err := readDocument(paths.Runner(runnerSlug), &c.runnerDoc); err != nil {
			return nil, fmt.Errorf("loading runner config %q: %w", runnerSlug, err)
		}
	}
	if gameConfigID != "" {
		if err := readDocument(paths.Game(gameConfigID), &c.gameDoc); err != nil {
			return nil, fmt.Errorf("loading game config %q: %w", gameConfigID, err)
		}
	}

	doc := c.levelDoc()
	for _, s := range []string{SectionGame, c.runnerSection(), SectionSystem} {
		if doc[s] == nil {
			doc[s] = map[string]any{}
		}
	}
	c.UpdateCascade()
	return c, nil
}

func readDocument(path string, into *document) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, into)
}

// Level returns the tier this store edits.
func (c *LayeredConfig) Level() option.Level { return c.level }

// RunnerSlug returns the runner participating in the cascade, if any.
func (c *LayeredConfig) RunnerSlug() string { return c.runnerSlug }

// GameConfigID returns the game config participating in the cascade, if any.
func (c *LayeredConfig) GameConfigID() string { return c.gameConfigID }

// GameConfig returns the effective game-option map. The same map is
// reused across UpdateCascade calls.
func (c *LayeredConfig) GameConfig() map[string]any { return c.gameConfig }

// RunnerConfig returns the effective runner-option map.
func (c *LayeredConfig) RunnerConfig() map[string]any { return c.runnerConfig }

// SystemConfig returns the effective system-option map.
func (c *LayeredConfig) SystemConfig() map[string]any { return c.systemConfig }

// RawGameConfig returns the game section of the current level's file.
// Writes to the returned map are persisted by Save.
func (c *LayeredConfig) RawGameConfig() map[string]any {
	return c.rawSection(SectionGame)
}

// RawRunnerConfig returns the runner section of the current level's file.
func (c *LayeredConfig) RawRunnerConfig() map[string]any {
	return c.rawSection(c.runnerSection())
}

// RawSystemConfig returns the system section of the current level's file.
func (c *LayeredConfig) RawSystemConfig() map[string]any {
	return c.rawSection(SectionSystem)
}

func (c *LayeredConfig) rawSection(section string) map[string]any {
	doc := c.levelDoc()
	if doc[section] == nil {
		doc[section] = map[string]any{}
	}
	return doc[section]
}

func (c *LayeredConfig) levelDoc() document {
	switch c.level {
	case option.LevelGame:
		return c.gameDoc
	case option.LevelRunner:
		return c.runnerDoc
	default:
		return c.systemDoc
	}
}

func (c *LayeredConfig) runnerSection() string {
	if c.runnerSlug == "" {
		return "runner"
	}
	return c.runnerSlug
}

// UpdateCascade recomputes every effective map from the participating
// documents. The maps are cleared and refilled rather than replaced so
// callers holding them observe the recompute. Call after removing a key
// from a raw map to pull the ancestor value back in.
func (c *LayeredConfig) UpdateCascade() {
	c.mergeInto(c.gameConfig, SectionGame)
	c.mergeInto(c.runnerConfig, c.runnerSection())
	c.mergeInto(c.systemConfig, SectionSystem)
}

func (c *LayeredConfig) mergeInto(dst map[string]any, section string) {
	for k := range dst {
		delete(dst, k)
	}
	docs := []document{c.systemDoc}
	if c.runnerSlug != "" {
		docs = append(docs, c.runnerDoc)
	}
	if c.gameConfigID != "" {
		docs = append(docs, c.gameDoc)
	}
	for _, doc := range docs {
		for k, v := range doc[section] {
			dst[k] = v
		}
	}
}

// Save writes the current level's document to its file atomically.
func (c *LayeredConfig) Save() error {
	var path string
	switch c.level {
	case option.LevelGame:
		if c.gameConfigID == "" {
			return fmt.Errorf("game-level config has no game config ID")
		}
		path = c.paths.Game(c.gameConfigID)
	case option.LevelRunner:
		if c.runnerSlug == "" {
			return fmt.Errorf("runner-level config has no runner slug")
		}
		path = c.paths.Runner(c.runnerSlug)
	default:
		path = c.paths.System()
	}

	doc := pruneEmptySections(c.levelDoc())
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func pruneEmptySections(doc document) document {
	out := document{}
	for section, values := range doc {
		if len(values) > 0 {
			out[section] = values
		}
	}
	return out
}
