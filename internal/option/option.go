// Package option defines the declarative schema entries the configuration
// form is rendered from. A Descriptor describes one configurable option:
// its widget type, which configuration levels it applies to, how it is
// grouped and filtered, and any validation messages attached to it.
package option

// Level is one tier of the configuration cascade. Each level overrides
// the one below it: game > runner > system.
type Level string

const (
	LevelGame   Level = "game"
	LevelRunner Level = "runner"
	LevelSystem Level = "system"
)

// Type selects the control a descriptor is rendered as.
type Type string

const (
	TypeLabel            Type = "label"
	TypeString           Type = "string"
	TypeBool             Type = "bool"
	TypeRange            Type = "range"
	TypeChoice           Type = "choice"
	TypeChoiceWithEntry  Type = "choice_with_entry"
	TypeChoiceWithSearch Type = "choice_with_search"
	TypeFile             Type = "file"
	TypeCommandLine      Type = "command_line"
	TypeMultipleFile     Type = "multiple_file"
	TypeDirectory        Type = "directory"
	TypeMapping          Type = "mapping"
)

// Weight is the visual weight a rendered option carries. Bold marks an
// option overridden at the current level, italic one supplied by an
// ancestor level, plain one that is unset everywhere.
type Weight int

const (
	WeightPlain Weight = iota
	WeightBold
	WeightItalic
)

func (w Weight) String() string {
	switch w {
	case WeightBold:
		return "bold"
	case WeightItalic:
		return "italic"
	default:
		return "plain"
	}
}

// Choice is one selectable entry of a choice-typed option.
type Choice struct {
	Label string
	Value string
}

// Dyn holds a descriptor field that is either a literal or a zero-argument
// producer. Producers are evaluated exactly once per render pass, by
// Descriptor.Resolve, before any consumer reads the value.
type Dyn[T any] struct {
	lit     T
	produce func() T
	set     bool
}

// Lit wraps a literal value.
func Lit[T any](v T) Dyn[T] {
	return Dyn[T]{lit: v, set: true}
}

// Produce wraps a producer evaluated at render time.
func Produce[T any](fn func() T) Dyn[T] {
	return Dyn[T]{produce: fn, set: true}
}

// Resolve evaluates the field. The second return is false when the field
// was never set on the descriptor.
func (d Dyn[T]) Resolve() (T, bool) {
	if !d.set {
		var zero T
		return zero, false
	}
	if d.produce != nil {
		return d.produce(), true
	}
	return d.lit, true
}

// IsSet reports whether the field carries a value or producer.
func (d Dyn[T]) IsSet() bool { return d.set }

// Descriptor is one schema entry. Key must be unique within a schema.
// A zero Scope means the option applies at every level.
type Descriptor struct {
	Key      string
	Type     Type
	Label    string
	Help     string
	Section  string
	Advanced bool
	Scope    []Level

	// Default is a literal value or a func() any evaluated at render time.
	Default any

	// Min and Max bound TypeRange options.
	Min, Max int

	// DefaultPathKey names a system-config key whose value seeds the
	// file chooser's starting directory instead of the session default.
	DefaultPathKey string

	Visible   Dyn[bool]
	Choices   Dyn[[]Choice]
	Condition Dyn[bool]

	Warning *Message
	Error   *Message
}

// InScope reports whether the descriptor applies at the given level.
func (d Descriptor) InScope(level Level) bool {
	if len(d.Scope) == 0 {
		return true
	}
	for _, l := range d.Scope {
		if l == level {
			return true
		}
	}
	return false
}

// Resolved is a Descriptor with every producer-valued field evaluated.
// The form builds one per descriptor per render pass and hands it to the
// widget generator, so producers run once no matter how many consumers
// read them.
type Resolved struct {
	Descriptor

	Visible      bool
	Choices      []Choice
	Condition    bool
	HasCondition bool
	Default      any
}

// Resolve evaluates Visible, Choices, Condition and Default.
// An unset Visible resolves to true; an unset Condition is recorded in
// HasCondition so the form can tell "no condition" from "condition false".
func (d Descriptor) Resolve() Resolved {
	r := Resolved{Descriptor: d, Visible: true}

	if v, ok := d.Visible.Resolve(); ok {
		r.Visible = v
	}
	// choice_with_search keeps its producer: the control queries it lazily.
	if d.Type != TypeChoiceWithSearch {
		if c, ok := d.Choices.Resolve(); ok {
			r.Choices = c
		}
	}
	if c, ok := d.Condition.Resolve(); ok {
		r.Condition = c
		r.HasCondition = true
	}

	r.Default = d.Default
	if fn, ok := d.Default.(func() any); ok {
		r.Default = fn()
	}
	return r
}
