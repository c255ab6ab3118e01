package widget

import (
	"github.com/optforge/optforge/internal/form"
	"github.com/optforge/optforge/internal/option"
)

// WarningBox shows an advisory message under an option. It toggles its
// own visibility on re-evaluation and never touches the control.
type WarningBox struct {
	msg     *option.Message
	key     string
	message string
}

var _ form.Presenter = (*WarningBox)(nil)

func (w *WarningBox) Reevaluate(cfg option.Store) {
	w.message = w.msg.Evaluate(cfg, w.key)
}

func (w *WarningBox) Visible() bool   { return w.message != "" }
func (w *WarningBox) Message() string { return w.message }

func (w *WarningBox) View() string {
	if w.message == "" {
		return ""
	}
	return warningStyle.Render("⚠ " + w.message)
}

// ErrorBox shows a blocking message under an option and disables its
// control while visible. ctrl may be nil for errors not tied to a
// control, such as an effective value missing from a choice list.
type ErrorBox struct {
	msg      *option.Message
	key      string
	ctrl     form.Control
	message  string
	disabled bool
}

var _ form.Presenter = (*ErrorBox)(nil)

func (e *ErrorBox) Reevaluate(cfg option.Store) {
	e.message = e.msg.Evaluate(cfg, e.key)
	if e.ctrl == nil {
		return
	}
	// Only undo a disable this box itself applied, so a clearing error
	// does not re-enable a condition-disabled control.
	if e.message != "" {
		e.ctrl.SetEnabled(false)
		e.disabled = true
	} else if e.disabled {
		e.ctrl.SetEnabled(true)
		e.disabled = false
	}
}

func (e *ErrorBox) Visible() bool   { return e.message != "" }
func (e *ErrorBox) Message() string { return e.message }

func (e *ErrorBox) View() string {
	if e.message == "" {
		return ""
	}
	return errorStyle.Render("✗ " + e.message)
}
