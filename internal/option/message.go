package option

// Store is the view of the layered configuration that validation messages
// receive. It is implemented by config.LayeredConfig.
type Store interface {
	// Level is the tier this store edits.
	Level() Level

	// Effective maps, merged across the cascade.
	GameConfig() map[string]any
	RunnerConfig() map[string]any
	SystemConfig() map[string]any

	// Raw maps, holding only keys overridden at the current level.
	RawGameConfig() map[string]any
	RawRunnerConfig() map[string]any
	RawSystemConfig() map[string]any
}

// MessageFunc computes a validation message for an option against the
// current store state. An empty return means nothing to report.
type MessageFunc func(cfg Store, key string) string

// Message is a warning or error attached to a descriptor: either fixed
// text or a function re-evaluated against the store after every edit.
type Message struct {
	text string
	fn   MessageFunc
}

// Text builds a fixed message.
func Text(s string) *Message { return &Message{text: s} }

// Check builds a message computed from the store.
func Check(fn MessageFunc) *Message { return &Message{fn: fn} }

// Evaluate returns the message for the given store state.
func (m *Message) Evaluate(cfg Store, key string) string {
	if m == nil {
		return ""
	}
	if m.fn != nil {
		return m.fn(cfg, key)
	}
	return m.text
}

// Static reports whether the message never changes.
func (m *Message) Static() bool { return m != nil && m.fn == nil }
