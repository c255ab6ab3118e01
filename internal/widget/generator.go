package widget

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/optforge/optforge/internal/form"
	"github.com/optforge/optforge/internal/option"
)

// Generator builds terminal controls from resolved descriptors. One
// generator serves one form render session; the form seeds it with the
// session's default directory before generating any file choosers.
type Generator struct {
	store      option.Store
	defaultDir string
	pending    []form.Presenter
}

var _ form.Generator = (*Generator)(nil)

// New builds a generator. store supplies system-config values for
// descriptors that name a DefaultPathKey; it may be nil.
func New(store option.Store) *Generator {
	return &Generator{store: store}
}

// SetDefaultDirectory seeds file and directory choosers.
func (g *Generator) SetDefaultDirectory(dir string) { g.defaultDir = dir }

// Generate builds the control for one descriptor showing value, or the
// resolved default when value is nil.
func (g *Generator) Generate(desc option.Resolved, value any) (form.Widget, error) {
	if value == nil {
		value = desc.Default
	}

	var ctrl form.Control
	switch desc.Type {
	case option.TypeLabel:
		ctrl = NewLabel(desc.Label)
	case option.TypeString, option.TypeCommandLine:
		ctrl = NewEntry()
	case option.TypeBool:
		ctrl = NewToggle()
	case option.TypeRange:
		ctrl = NewSpinner(desc.Min, desc.Max)
	case option.TypeChoice:
		sel := NewSelect(g.annotateDefault(desc), false)
		g.checkChoiceValue(desc, value, sel)
		ctrl = sel
	case option.TypeChoiceWithEntry:
		ctrl = NewSelect(g.annotateDefault(desc), true)
	case option.TypeChoiceWithSearch:
		ctrl = NewSearchSelect(func() []option.Choice {
			choices, _ := desc.Descriptor.Choices.Resolve()
			return choices
		})
	case option.TypeFile, option.TypeDirectory:
		ctrl = NewEntryWithExpansion(g.chooserDir(desc))
	case option.TypeMultipleFile:
		dir := g.chooserDir(desc)
		ctrl = NewFileList(func(path string) string { return expandPath(path, dir) })
	case option.TypeMapping:
		ctrl = NewMappingGrid()
	default:
		return form.Widget{}, fmt.Errorf("unknown option type %q", desc.Type)
	}

	return form.Widget{
		Control:        ctrl,
		Default:        desc.Default,
		DefaultTooltip: defaultTooltip(desc),
	}, nil
}

// Rebind points an existing control at a new value without replacing its
// edit callback. Called on reset when the recomputed value changed.
func (g *Generator) Rebind(ctrl form.Control, desc option.Resolved, value any) error {
	if value == nil {
		value = desc.Default
	}
	switch c := ctrl.(type) {
	case *Label:
	case *Entry:
		c.SetValue(value)
	case *Toggle:
		c.SetValue(value)
	case *Spinner:
		c.SetValue(value)
	case *Select:
		c.SetValue(value)
	case *SearchSelect:
		c.SetValue(value)
	case *FileList:
		c.SetValue(value)
	case *MappingGrid:
		c.SetValue(value)
	default:
		return fmt.Errorf("cannot rebind control %T", ctrl)
	}
	return nil
}

// TakeErrorPresenters drains presenters produced while generating the
// last control.
func (g *Generator) TakeErrorPresenters() []form.Presenter {
	out := g.pending
	g.pending = nil
	return out
}

// NewWarning builds a warning presenter for a descriptor-declared message.
func (g *Generator) NewWarning(msg *option.Message, key string) form.Presenter {
	return &WarningBox{msg: msg, key: key}
}

// NewError builds an error presenter. ctrl is disabled while the message
// is visible.
func (g *Generator) NewError(msg *option.Message, key string, ctrl form.Control) form.Presenter {
	return &ErrorBox{msg: msg, key: key, ctrl: ctrl}
}

// annotateDefault marks the default choice in its label, mirroring how
// the rest of the form surfaces defaults in tooltips.
func (g *Generator) annotateDefault(desc option.Resolved) []option.Choice {
	def := asString(desc.Default)
	if def == "" {
		return desc.Choices
	}
	out := make([]option.Choice, len(desc.Choices))
	copy(out, desc.Choices)
	for i := range out {
		if out[i].Value == def {
			out[i].Label += " (default)"
		}
	}
	return out
}

// checkChoiceValue queues an error presenter when the effective value of
// a fixed-choice option is not in the choice list. The stale value stays
// visible so the user can see what to fix, but the control is disabled
// while the error shows.
func (g *Generator) checkChoiceValue(desc option.Resolved, value any, ctrl form.Control) {
	text := asString(value)
	if text == "" {
		return
	}
	for _, c := range desc.Choices {
		if c.Value == text {
			return
		}
	}
	g.pending = append(g.pending, &ErrorBox{
		msg:  option.Text(fmt.Sprintf("Invalid value for this option: %q", text)),
		key:  desc.Key,
		ctrl: ctrl,
	})
}

// chooserDir resolves the starting directory for a file chooser: the
// descriptor's DefaultPathKey wins over the session default.
func (g *Generator) chooserDir(desc option.Resolved) string {
	if desc.DefaultPathKey != "" && g.store != nil {
		if dir, ok := g.store.SystemConfig()[desc.DefaultPathKey].(string); ok && dir != "" {
			return dir
		}
	}
	return g.defaultDir
}

// NewEntryWithExpansion builds an entry that expands the committed path
// against dir: "~" to the home directory, relative paths to absolute.
func NewEntryWithExpansion(dir string) *Entry {
	e := NewEntry()
	e.expand = func(path string) string { return expandPath(path, dir) }
	return e
}

func expandPath(path, dir string) string {
	if path == "" {
		return path
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	if !filepath.IsAbs(path) && dir != "" {
		return filepath.Join(dir, path)
	}
	return path
}

func defaultTooltip(desc option.Resolved) string {
	switch desc.Type {
	case option.TypeBool:
		if b, ok := desc.Default.(bool); ok {
			if b {
				return "Enabled"
			}
			return "Disabled"
		}
		return ""
	case option.TypeChoice, option.TypeChoiceWithEntry, option.TypeChoiceWithSearch:
		def := asString(desc.Default)
		if def == "" {
			return ""
		}
		for _, c := range desc.Choices {
			if c.Value == def {
				return c.Label
			}
		}
		return def
	case option.TypeLabel:
		return ""
	default:
		return asString(desc.Default)
	}
}
