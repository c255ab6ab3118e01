package form

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optforge/optforge/internal/config"
	"github.com/optforge/optforge/internal/logging"
	"github.com/optforge/optforge/internal/option"
)

// fakeControl records the capability calls the form makes.
type fakeControl struct {
	visible  bool
	enabled  bool
	weight   option.Weight
	value    any
	onChange func(any)
}

func newFakeControl() *fakeControl { return &fakeControl{visible: true, enabled: true} }

func (c *fakeControl) SetVisible(v bool)         { c.visible = v }
func (c *fakeControl) Visible() bool             { return c.visible }
func (c *fakeControl) SetEnabled(v bool)         { c.enabled = v }
func (c *fakeControl) Enabled() bool             { return c.enabled }
func (c *fakeControl) SetWeight(w option.Weight) { c.weight = w }
func (c *fakeControl) Weight() option.Weight     { return c.weight }
func (c *fakeControl) View() string              { return fmt.Sprintf("%v", c.value) }

func (c *fakeControl) Bind(value any, onChange func(any)) {
	c.value = value
	c.onChange = onChange
}

// edit simulates the user changing the control.
func (c *fakeControl) edit(v any) {
	c.value = v
	if c.onChange != nil {
		c.onChange(v)
	}
}

type fakePresenter struct {
	msg     *option.Message
	key     string
	visible bool
	message string
	evals   int
}

func (p *fakePresenter) Reevaluate(cfg option.Store) {
	p.evals++
	p.message = p.msg.Evaluate(cfg, p.key)
	p.visible = p.message != ""
}
func (p *fakePresenter) Visible() bool   { return p.visible }
func (p *fakePresenter) Message() string { return p.message }

type fakeGen struct {
	defaultDir string
	rebinds    int
	panicKeys  map[string]bool
	errorKeys  map[string]bool
}

func (g *fakeGen) SetDefaultDirectory(dir string) { g.defaultDir = dir }

func (g *fakeGen) Generate(desc option.Resolved, value any) (Widget, error) {
	if g.panicKeys[desc.Key] {
		panic("broken widget for " + desc.Key)
	}
	if g.errorKeys[desc.Key] {
		return Widget{}, fmt.Errorf("unknown widget type %q", desc.Type)
	}
	ctrl := newFakeControl()
	if value == nil {
		value = desc.Default
	}
	ctrl.value = value

	tooltip := ""
	switch d := desc.Default.(type) {
	case string:
		tooltip = d
	case bool:
		if d {
			tooltip = "Enabled"
		} else {
			tooltip = "Disabled"
		}
	}
	return Widget{Control: ctrl, Default: desc.Default, DefaultTooltip: tooltip}, nil
}

func (g *fakeGen) Rebind(ctrl Control, desc option.Resolved, value any) error {
	g.rebinds++
	ctrl.(*fakeControl).value = value
	return nil
}

func (g *fakeGen) TakeErrorPresenters() []Presenter { return nil }

func (g *fakeGen) NewWarning(msg *option.Message, key string) Presenter {
	return &fakePresenter{msg: msg, key: key}
}

func (g *fakeGen) NewError(msg *option.Message, key string, _ Control) Presenter {
	return &fakePresenter{msg: msg, key: key}
}

// testBox builds a game-level box over custom descriptors and a fresh
// in-memory cascade.
func testBox(t *testing.T, descs []option.Descriptor, opts ...func(*ConfigBox)) (*ConfigBox, *fakeGen, *config.LayeredConfig) {
	t.Helper()
	cfg := config.New(option.LevelGame, "wine", "game-1", config.Paths{Base: t.TempDir()})
	gen := &fakeGen{}
	b := newConfigBox(Params{
		Config:       cfg,
		Generator:    gen,
		Logger:       logging.NewNop(),
		ShowAdvanced: true,
	}, config.SectionGame)
	b.options = descs
	for _, o := range opts {
		o(b)
	}
	return b, gen, cfg
}

func rowControl(t *testing.T, b *ConfigBox, key string) *fakeControl {
	t.Helper()
	row := b.rows[key]
	require.NotNil(t, row, "no row for %q", key)
	return row.Control.(*fakeControl)
}

func TestScopeExcludesRows(t *testing.T) {
	t.Parallel()

	b, _, _ := testBox(t, []option.Descriptor{
		{Key: "everywhere", Type: option.TypeString, Label: "Everywhere"},
		{Key: "system_only", Type: option.TypeString, Label: "System only", Scope: []option.Level{option.LevelSystem}},
	})
	tree := b.Render()

	require.Len(t, tree.Rows(), 1)
	assert.Equal(t, "everywhere", tree.Rows()[0].Key)
}

func TestWeightClassification(t *testing.T) {
	t.Parallel()

	descs := []option.Descriptor{
		{Key: "overridden", Type: option.TypeString, Label: "Overridden", Default: "x"},
		{Key: "inherited", Type: option.TypeBool, Label: "Inherited", Default: false},
		{Key: "matching", Type: option.TypeBool, Label: "Matching", Default: true},
		{Key: "unset", Type: option.TypeString, Label: "Unset"},
	}
	b, _, cfg := testBox(t, descs)
	// Overridden at this level.
	cfg.RawGameConfig()["overridden"] = "y"
	cfg.UpdateCascade()
	// Set by an ancestor level: present in effective, absent from raw.
	cfg.GameConfig()["inherited"] = true
	cfg.GameConfig()["matching"] = true
	b.Render()

	assert.Equal(t, option.WeightBold, rowControl(t, b, "overridden").Weight())
	assert.Equal(t, option.WeightItalic, rowControl(t, b, "inherited").Weight())
	assert.Equal(t, option.WeightPlain, rowControl(t, b, "matching").Weight(),
		"value equal to the default is plain")
	assert.Equal(t, option.WeightPlain, rowControl(t, b, "unset").Weight(),
		"nil value with nil default is plain")

	// The reset affordance mirrors raw membership.
	assert.True(t, b.rows["overridden"].ResetVisible)
	assert.False(t, b.rows["inherited"].ResetVisible)
	assert.False(t, b.rows["unset"].ResetVisible)
}

func TestUnsetKeyWithDefaultIsItalic(t *testing.T) {
	t.Parallel()

	// Nothing set at any level: the control shows the default, and the
	// mismatch between the absent value and the non-nil default renders
	// the row italic, like any other inherited value.
	b, _, _ := testBox(t, []option.Descriptor{
		{Key: "gamemode", Type: option.TypeBool, Label: "Gamemode", Default: true},
	})
	b.Render()

	assert.Equal(t, option.WeightItalic, rowControl(t, b, "gamemode").Weight())
	assert.False(t, b.rows["gamemode"].ResetVisible)
	assert.Contains(t, b.rows["gamemode"].Tooltip, "lower configuration level")
}

func TestRenderIdempotent(t *testing.T) {
	t.Parallel()

	descs := []option.Descriptor{
		{Key: "a", Type: option.TypeString, Label: "Alpha", Advanced: true},
		{Key: "b", Type: option.TypeBool, Label: "Beta", Default: true},
	}
	b, _, cfg := testBox(t, descs)
	cfg.RawGameConfig()["b"] = false
	cfg.UpdateCascade()

	snapshot := func(tree *Tree) []string {
		var out []string
		for _, row := range tree.VisibleRows() {
			out = append(out, row.Key+"/"+row.Control.Weight().String())
		}
		return out
	}

	first := snapshot(b.Render())
	second := snapshot(b.Render())
	assert.Equal(t, first, second)
}

func TestEditResetRoundTrip(t *testing.T) {
	t.Parallel()

	// The runner-level file supplies the ancestor value the reset falls
	// back to.
	paths := config.Paths{Base: t.TempDir()}
	writeConfigFile(t, paths.Runner("wine"), "game:\n  version: wine-9.0\n")
	cfg, err := config.Load(option.LevelGame, "wine", "game-1", paths)
	require.NoError(t, err)

	gen := &fakeGen{}
	b := newConfigBox(Params{
		Config:       cfg,
		Generator:    gen,
		Logger:       logging.NewNop(),
		ShowAdvanced: true,
	}, config.SectionGame)
	b.options = []option.Descriptor{
		{Key: "version", Type: option.TypeString, Label: "Version"},
	}
	b.Render()

	ctrl := rowControl(t, b, "version")
	ctrl.edit("wine-ge-8")

	assert.Equal(t, "wine-ge-8", cfg.RawGameConfig()["version"])
	assert.Equal(t, "wine-ge-8", cfg.GameConfig()["version"])
	assert.Equal(t, option.WeightBold, ctrl.Weight())
	assert.True(t, b.rows["version"].ResetVisible)

	b.OnReset("version")

	_, stillRaw := cfg.RawGameConfig()["version"]
	assert.False(t, stillRaw)
	assert.Equal(t, "wine-9.0", cfg.GameConfig()["version"])
	assert.Equal(t, "wine-9.0", ctrl.value)
	assert.Equal(t, option.WeightPlain, ctrl.Weight())
	assert.False(t, b.rows["version"].ResetVisible)
}

func writeConfigFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func TestResetNoopDoesNotRebuild(t *testing.T) {
	t.Parallel()

	b, gen, cfg := testBox(t, []option.Descriptor{
		{Key: "fullscreen", Type: option.TypeBool, Label: "Fullscreen", Default: true},
	})
	b.Render()

	// Edit then reset: no ancestor supplies the key, so the recomputed
	// value (absent) differs from the edited one and the control is
	// rebuilt exactly once.
	rowControl(t, b, "fullscreen").edit(false)
	b.OnReset("fullscreen")
	assert.Equal(t, 1, gen.rebinds)

	// Resetting an already-reset key is a no-op: nothing to rebuild.
	b.OnReset("fullscreen")
	assert.Equal(t, 1, gen.rebinds)

	_, inRaw := cfg.RawGameConfig()["fullscreen"]
	assert.False(t, inRaw)
}

func TestAdvancedVisibility(t *testing.T) {
	t.Parallel()

	b, _, _ := testBox(t, []option.Descriptor{
		{Key: "plain", Type: option.TypeString, Label: "Plain"},
		{Key: "hidden", Type: option.TypeString, Label: "Hidden", Advanced: true},
	})
	b.advancedVisible = false
	tree := b.Render()

	visible := keysOf(tree.VisibleRows())
	assert.Equal(t, []string{"plain"}, visible)

	// Advanced rows stay hidden even when the filter matches them.
	b.SetFilter("hidden")
	assert.Empty(t, keysOf(tree.VisibleRows()))

	b.SetFilter("")
	b.SetAdvancedVisible(true)
	assert.Equal(t, []string{"plain", "hidden"}, keysOf(tree.VisibleRows()))
}

func TestFilterMatchesLabelOrHelp(t *testing.T) {
	t.Parallel()

	b, _, _ := testBox(t, []option.Descriptor{
		{Key: "version", Type: option.TypeString, Label: "Wine version"},
		{Key: "dxvk", Type: option.TypeBool, Label: "DXVK", Help: "Translate Direct3D to Vulkan"},
		{Key: "other", Type: option.TypeBool, Label: "Unrelated"},
	})
	tree := b.Render()

	b.SetFilter("wine")
	assert.Equal(t, []string{"version"}, keysOf(tree.VisibleRows()))

	// Help text matches too, case-insensitively.
	b.SetFilter("VULKAN")
	assert.Equal(t, []string{"dxvk"}, keysOf(tree.VisibleRows()))

	b.SetFilter("zz-nomatch")
	assert.Empty(t, keysOf(tree.VisibleRows()))
}

func TestSectionGrouping(t *testing.T) {
	t.Parallel()

	b, _, _ := testBox(t, []option.Descriptor{
		{Key: "a", Type: option.TypeString, Label: "A", Section: "General"},
		{Key: "b", Type: option.TypeString, Label: "B", Section: "General"},
		{Key: "c", Type: option.TypeString, Label: "C"},
	})
	tree := b.Render()

	require.Len(t, tree.Items, 2)
	require.NotNil(t, tree.Items[0].Section)
	assert.Equal(t, "General", tree.Items[0].Section.Name)
	assert.Equal(t, []string{"a", "b"}, keysOf(tree.Items[0].Section.Rows))
	require.NotNil(t, tree.Items[1].Row)
	assert.Equal(t, "c", tree.Items[1].Row.Key)
}

func TestSectionHiddenWhenAllRowsHidden(t *testing.T) {
	t.Parallel()

	b, _, _ := testBox(t, []option.Descriptor{
		{Key: "a", Type: option.TypeString, Label: "Esync", Section: "Performance", Advanced: true},
		{Key: "b", Type: option.TypeString, Label: "Fsync", Section: "Performance", Advanced: true},
		{Key: "c", Type: option.TypeString, Label: "Core"},
	})
	b.advancedVisible = false
	tree := b.Render()

	require.NotNil(t, tree.Items[0].Section)
	assert.False(t, tree.Items[0].Section.Visible())

	// A section with zero visible leaves stays hidden even if the
	// filter text matches its name.
	b.SetAdvancedVisible(true)
	assert.True(t, tree.Items[0].Section.Visible())
	b.SetFilter("performance")
	assert.False(t, tree.Items[0].Section.Visible())
}

func TestBrokenRowIsolated(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logging.New(logging.Config{Level: "debug", Format: "json", Output: &buf})

	cfg := config.New(option.LevelGame, "wine", "game-1", config.Paths{Base: t.TempDir()})
	gen := &fakeGen{panicKeys: map[string]bool{"broken": true}}
	b := newConfigBox(Params{Config: cfg, Generator: gen, Logger: log, ShowAdvanced: true}, config.SectionGame)
	b.options = []option.Descriptor{
		{Key: "before", Type: option.TypeString, Label: "Before"},
		{Key: "broken", Type: option.TypeString, Label: "Broken"},
		{Key: "after", Type: option.TypeString, Label: "After"},
	}
	tree := b.Render()

	assert.Equal(t, []string{"before", "after"}, keysOf(tree.Rows()))
	assert.Contains(t, buf.String(), "broken")
}

func TestGenerateErrorIsolated(t *testing.T) {
	t.Parallel()

	b, gen, _ := testBox(t, []option.Descriptor{
		{Key: "ok", Type: option.TypeString, Label: "OK"},
		{Key: "bad", Type: option.TypeString, Label: "Bad"},
	})
	gen.errorKeys = map[string]bool{"bad": true}
	tree := b.Render()

	assert.Equal(t, []string{"ok"}, keysOf(tree.Rows()))
}

func TestEmptySchemaPlaceholder(t *testing.T) {
	t.Parallel()

	b, _, _ := testBox(t, nil)
	tree := b.Render()
	assert.Empty(t, tree.Items)
	assert.Equal(t, "No options available", tree.Placeholder)
}

func TestInvisibleDescriptorSkipped(t *testing.T) {
	t.Parallel()

	b, _, _ := testBox(t, []option.Descriptor{
		{Key: "shown", Type: option.TypeString, Label: "Shown", Visible: option.Lit(true)},
		{Key: "gone", Type: option.TypeString, Label: "Gone", Visible: option.Produce(func() bool { return false })},
	})
	tree := b.Render()
	assert.Equal(t, []string{"shown"}, keysOf(tree.Rows()))
}

func TestConditionDisablesControl(t *testing.T) {
	t.Parallel()

	b, _, _ := testBox(t, []option.Descriptor{
		{Key: "dxvk", Type: option.TypeBool, Label: "DXVK", Condition: option.Lit(false)},
		{Key: "esync", Type: option.TypeBool, Label: "Esync", Condition: option.Lit(true)},
		{Key: "free", Type: option.TypeBool, Label: "Free"},
	})
	b.Render()

	assert.False(t, rowControl(t, b, "dxvk").Enabled())
	assert.True(t, rowControl(t, b, "esync").Enabled())
	assert.True(t, rowControl(t, b, "free").Enabled())
	// Disabled is not hidden.
	assert.True(t, b.rows["dxvk"].Visible())
}

func TestTooltipComposition(t *testing.T) {
	t.Parallel()

	b, _, cfg := testBox(t, []option.Descriptor{
		{Key: "fullscreen", Type: option.TypeBool, Label: "Fullscreen", Help: "Use the whole screen.", Default: true},
	})
	// Ancestor override: effective differs from default, not in raw.
	cfg.GameConfig()["fullscreen"] = false
	b.Render()

	tooltip := b.rows["fullscreen"].Tooltip
	assert.Contains(t, tooltip, "Use the whole screen.")
	assert.Contains(t, tooltip, "Default: Enabled")
	assert.Contains(t, tooltip, "lower configuration level")
}

func TestValidationRunsOnEveryEdit(t *testing.T) {
	t.Parallel()

	warning := option.Check(func(cfg option.Store, _ string) string {
		if v, _ := cfg.GameConfig()["esync"].(bool); v {
			return "raise your fd limit"
		}
		return ""
	})
	b, _, _ := testBox(t, []option.Descriptor{
		{Key: "esync", Type: option.TypeBool, Label: "Esync", Default: false, Warning: warning},
		{Key: "other", Type: option.TypeString, Label: "Other"},
	})
	b.Render()

	row := b.rows["esync"]
	require.Len(t, row.Presenters, 1)
	p := row.Presenters[0].(*fakePresenter)
	assert.Equal(t, 1, p.evals, "presenter evaluated at attach time")
	assert.False(t, p.Visible())

	rowControl(t, b, "esync").edit(true)
	assert.True(t, p.Visible())
	assert.Equal(t, "raise your fd limit", p.Message())

	// Edits to unrelated options re-run every presenter.
	rowControl(t, b, "other").edit("x")
	assert.Equal(t, 3, p.evals)
}

func TestDefaultDirectorySeedsGenerator(t *testing.T) {
	t.Parallel()

	b, gen, _ := testBox(t, []option.Descriptor{
		{Key: "exe", Type: option.TypeFile, Label: "Executable"},
	}, func(b *ConfigBox) { b.defaultDir = "/srv/games/celeste" })
	b.Render()
	assert.Equal(t, "/srv/games/celeste", gen.defaultDir)
}

func keysOf(rows []*Row) []string {
	var keys []string
	for _, r := range rows {
		keys = append(keys, r.Key)
	}
	return keys
}
