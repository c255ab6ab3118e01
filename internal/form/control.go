// Package form renders a user-editable settings form from a declarative
// option schema against the layered configuration store. It owns the
// cascade bookkeeping (bold for overridden-here, italic for
// overridden-by-ancestor), the reset protocol, the visibility engine
// (advanced toggle plus live text filter) and the validation hook. The
// concrete controls behind each option type are supplied by a Generator,
// so the form never touches toolkit internals.
package form

import "github.com/optforge/optforge/internal/option"

// Control is the capability surface of one rendered option widget.
type Control interface {
	SetVisible(bool)
	Visible() bool

	SetEnabled(bool)
	Enabled() bool

	SetWeight(option.Weight)
	Weight() option.Weight

	// Bind sets the displayed value and the edit callback. The callback
	// fires with the new value whenever the user changes the control.
	Bind(value any, onChange func(any))

	// View renders the control for display.
	View() string
}

// Presenter shows a warning or error message under an option and can be
// re-evaluated against the store after any edit. Presenters only toggle
// their own visibility and text; they never alter form layout.
type Presenter interface {
	Reevaluate(cfg option.Store)
	Visible() bool
	Message() string
}

// Widget is the output of generating one control.
type Widget struct {
	Control Control

	// Default is the descriptor's default as the generator resolved it.
	Default any

	// DefaultTooltip is a human-readable rendering of the default, empty
	// when the default has no useful text form.
	DefaultTooltip string
}

// Generator builds controls and presenters for descriptors. Implemented
// by the widget package; tests substitute fakes.
type Generator interface {
	// SetDefaultDirectory seeds file and directory choosers for the
	// current render session.
	SetDefaultDirectory(dir string)

	// Generate builds a control showing value (or the default when value
	// is nil).
	Generate(desc option.Resolved, value any) (Widget, error)

	// Rebind points an existing control at a new value in place,
	// keeping its edit callback.
	Rebind(ctrl Control, desc option.Resolved, value any) error

	// TakeErrorPresenters drains the error presenters produced while
	// generating the last control (for example an effective value not
	// present in a choice list). Consumed once per row.
	TakeErrorPresenters() []Presenter

	// NewWarning and NewError build presenters for descriptor-declared
	// validation messages. Error presenters disable ctrl while visible.
	NewWarning(msg *option.Message, key string) Presenter
	NewError(msg *option.Message, key string, ctrl Control) Presenter
}
