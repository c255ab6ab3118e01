package form

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/optforge/optforge/internal/config"
	"github.com/optforge/optforge/internal/logging"
	"github.com/optforge/optforge/internal/option"
)

// ancestorNote is appended to a tooltip when the shown value comes from a
// lower configuration level rather than this one.
const ancestorNote = "(Italic indicates that this option is modified in a lower configuration level.)"

// ConfigBox renders one option schema against one section of the layered
// store. Game, runner and system boxes are thin specializations built by
// the New*Box constructors.
type ConfigBox struct {
	level      option.Level
	sectionKey string
	cfg        *config.LayeredConfig
	gen        Generator
	log        *logging.Logger

	options    []option.Descriptor
	banner     string
	preRender  func()
	defaultDir string

	effective map[string]any
	raw       map[string]any

	tree       *Tree
	rows       map[string]*Row
	presenters map[string][]Presenter

	advancedVisible bool
	filter          string

	// section tracking for the current render pass
	currentSection     *Section
	currentSectionName string
}

// Banner returns the explanatory text shown above the form, if any.
func (b *ConfigBox) Banner() string { return b.banner }

// Level returns the configuration tier this box edits.
func (b *ConfigBox) Level() option.Level { return b.level }

// Tree returns the result of the last render pass.
func (b *ConfigBox) Tree() *Tree { return b.tree }

// AdvancedVisible reports whether advanced options are shown.
func (b *ConfigBox) AdvancedVisible() bool { return b.advancedVisible }

// Filter returns the current filter text.
func (b *ConfigBox) Filter() string { return b.filter }

// Render walks the schema and rebuilds the row tree. Rows that fail to
// build are logged and omitted; the pass always completes. The returned
// tree has visibility already computed from the current advanced/filter
// settings.
func (b *ConfigBox) Render() *Tree {
	if b.preRender != nil {
		b.preRender()
	}

	b.tree = &Tree{}
	b.rows = map[string]*Row{}
	b.presenters = map[string][]Presenter{}
	b.currentSection = nil
	b.currentSectionName = ""

	if len(b.options) == 0 {
		b.tree.Placeholder = "No options available"
		return b.tree
	}

	b.selectConfig()
	b.gen.SetDefaultDirectory(b.defaultDir)

	for _, desc := range b.options {
		if !desc.InScope(b.level) {
			continue
		}
		if err := b.renderOption(desc); err != nil {
			b.log.Error("failed to generate option widget", "option", desc.Key, "error", err)
		}
	}

	b.UpdateOptionVisibility()
	return b.tree
}

// selectConfig picks the effective and raw maps for this box's section.
func (b *ConfigBox) selectConfig() {
	switch b.sectionKey {
	case config.SectionGame:
		b.effective = b.cfg.GameConfig()
		b.raw = b.cfg.RawGameConfig()
	case config.SectionSystem:
		b.effective = b.cfg.SystemConfig()
		b.raw = b.cfg.RawSystemConfig()
	default:
		b.effective = b.cfg.RunnerConfig()
		b.raw = b.cfg.RawRunnerConfig()
	}
}

// renderOption builds one row. A panic while building is converted into
// an error so a single broken descriptor cannot abort the pass.
func (b *ConfigBox) renderOption(desc option.Descriptor) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	resolved := desc.Resolve()
	if !resolved.Visible {
		return nil
	}

	// Section boundary: a change of section value closes the previous
	// group. Invisible and out-of-scope descriptors never open one.
	if desc.Section != b.currentSectionName {
		b.currentSectionName = desc.Section
		if desc.Section != "" {
			b.currentSection = &Section{Name: desc.Section}
			b.tree.Items = append(b.tree.Items, Item{Section: b.currentSection})
		} else {
			b.currentSection = nil
		}
	}

	value := b.effective[desc.Key]

	w, err := b.gen.Generate(resolved, value)
	if err != nil {
		return err
	}

	row := &Row{
		Key:      desc.Key,
		Label:    desc.Label,
		Help:     desc.Help,
		Advanced: desc.Advanced,
		Control:  w.Control,
		desc:     resolved,
	}

	// An unset option displays its default; only an edit writes it back.
	display := value
	if display == nil {
		display = resolved.Default
	}
	key := desc.Key
	w.Control.Bind(display, func(v any) { b.OnOptionChanged(key, v) })

	// Override classification drives the visual weight and the reset
	// affordance. A key absent from effective compares as nil, so any
	// option with a non-nil default that nothing has set counts as
	// inherited too.
	_, overridden := b.raw[desc.Key]
	ancestor := !overridden && !valuesEqual(value, w.Default)
	switch {
	case overridden:
		w.Control.SetWeight(option.WeightBold)
		row.ResetVisible = true
	case ancestor:
		w.Control.SetWeight(option.WeightItalic)
	}

	row.Tooltip = composeTooltip(desc.Help, w.DefaultTooltip, ancestor)

	if resolved.HasCondition && !resolved.Condition {
		w.Control.SetEnabled(false)
	}

	if desc.Warning != nil {
		b.attachPresenter(row, b.gen.NewWarning(desc.Warning, desc.Key))
	}
	if desc.Error != nil {
		b.attachPresenter(row, b.gen.NewError(desc.Error, desc.Key, w.Control))
	}
	for _, p := range b.gen.TakeErrorPresenters() {
		b.attachPresenter(row, p)
	}

	if b.currentSection != nil {
		b.currentSection.Rows = append(b.currentSection.Rows, row)
	} else {
		b.tree.Items = append(b.tree.Items, Item{Row: row})
	}
	b.rows[desc.Key] = row
	return nil
}

func (b *ConfigBox) attachPresenter(row *Row, p Presenter) {
	p.Reevaluate(b.cfg)
	row.Presenters = append(row.Presenters, p)
	b.presenters[row.Key] = append(b.presenters[row.Key], p)
}

func composeTooltip(help, defaultTooltip string, ancestor bool) string {
	tooltip := help
	add := func(s string) {
		if tooltip != "" {
			tooltip += "\n\n"
		}
		tooltip += s
	}
	if defaultTooltip != "" {
		add("Default: " + defaultTooltip)
	}
	if ancestor {
		add(ancestorNote)
	}
	return tooltip
}

// OnOptionChanged records an edit: the key becomes an override at this
// level, the row goes bold with its reset affordance shown, and every
// validation presenter re-runs. The global re-run is deliberate: an
// option's validity may depend on any other option's value.
func (b *ConfigBox) OnOptionChanged(key string, value any) {
	b.raw[key] = value
	b.effective[key] = value

	if row := b.rows[key]; row != nil {
		row.ResetVisible = true
		row.Control.SetWeight(option.WeightBold)
	}
	b.UpdateWarnings()
}

// OnReset removes the override for key and pulls the ancestor value back
// in. When the recomputed value is unchanged the control is left alone;
// resets are common and must not re-flow the form.
func (b *ConfigBox) OnReset(key string) {
	row := b.rows[key]
	if row == nil {
		return
	}
	current := b.effective[key]

	row.ResetVisible = false
	row.Control.SetWeight(option.WeightPlain)
	delete(b.raw, key)
	b.cfg.UpdateCascade()

	reset := b.effective[key]
	if valuesEqual(current, reset) {
		return
	}
	if err := b.gen.Rebind(row.Control, row.desc, reset); err != nil {
		b.log.Error("failed to rebind option widget", "option", key, "error", err)
		return
	}
	b.UpdateWarnings()
}

// UpdateWarnings re-evaluates every attached warning and error presenter
// against the current store state.
func (b *ConfigBox) UpdateWarnings() {
	for _, list := range b.presenters {
		for _, p := range list {
			p.Reevaluate(b.cfg)
		}
	}
}

// RefreshValidation is the host-facing alias for a global validation
// re-run.
func (b *ConfigBox) RefreshValidation() { b.UpdateWarnings() }

// SetAdvancedVisible toggles advanced options and recomputes visibility
// over the existing tree.
func (b *ConfigBox) SetAdvancedVisible(v bool) {
	b.advancedVisible = v
	b.UpdateOptionVisibility()
}

// SetFilter installs a case-insensitive substring filter over row labels
// and help text, and recomputes visibility.
func (b *ConfigBox) SetFilter(text string) {
	b.filter = text
	b.UpdateOptionVisibility()
}

// UpdateOptionVisibility recomputes the visible set: a leaf is shown when
// it passes the advanced gate and the filter; a section is shown when at
// least one of its rows is.
func (b *ConfigBox) UpdateOptionVisibility() {
	if b.tree == nil {
		return
	}
	filter := strings.ToLower(b.filter)
	for _, item := range b.tree.Items {
		if item.Section != nil {
			visibleCount := 0
			for _, row := range item.Section.Rows {
				if b.updateRowVisibility(row, filter) {
					visibleCount++
				}
			}
			item.Section.visible = visibleCount > 0
		} else {
			b.updateRowVisibility(item.Row, filter)
		}
	}
}

func (b *ConfigBox) updateRowVisibility(row *Row, filter string) bool {
	visible := b.advancedVisible || !row.Advanced
	if visible && filter != "" {
		label := strings.ToLower(row.Label)
		help := strings.ToLower(row.Help)
		if !strings.Contains(label, filter) && !strings.Contains(help, filter) {
			visible = false
		}
	}
	row.visible = visible
	row.Control.SetVisible(visible)
	return visible
}

func valuesEqual(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	return reflect.DeepEqual(a, b)
}
