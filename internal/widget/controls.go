// Package widget provides the terminal controls behind each option type
// and the Generator that builds them from resolved descriptors. Controls
// render with lipgloss and accept key input bubbletea-style; the form
// package drives them only through the capability interfaces it defines.
package widget

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/optforge/optforge/internal/option"
)

// Interactive is implemented by controls that consume key input. The TUI
// host type-asserts for it when a row gains focus.
type Interactive interface {
	Focus()
	Blur()
	Update(msg tea.Msg) tea.Cmd
}

// base carries the capability state every control shares.
type base struct {
	visible  bool
	enabled  bool
	weight   option.Weight
	onChange func(any)
}

func newBase() base { return base{visible: true, enabled: true} }

func (b *base) SetVisible(v bool)         { b.visible = v }
func (b *base) Visible() bool             { return b.visible }
func (b *base) SetEnabled(v bool)         { b.enabled = v }
func (b *base) Enabled() bool             { return b.enabled }
func (b *base) SetWeight(w option.Weight) { b.weight = w }
func (b *base) Weight() option.Weight     { return b.weight }

func (b *base) fire(v any) {
	if b.onChange != nil {
		b.onChange(v)
	}
}

// styled applies the weight and enabled state to rendered text.
func (b *base) styled(s string) string {
	st := weightStyle(b.weight)
	if !b.enabled {
		st = st.Faint(true)
	}
	return st.Render(s)
}

// Label is the control for label-typed options: static text, no value.
type Label struct {
	base
	Text string
}

func NewLabel(text string) *Label { return &Label{base: newBase(), Text: text} }

func (l *Label) Bind(_ any, _ func(any)) {}
func (l *Label) View() string            { return l.styled(l.Text) }

// Entry is a single-line text control.
type Entry struct {
	base
	input   textinput.Model
	focused bool

	// expand, when set, rewrites the committed text (path expansion).
	expand func(string) string

	// last is the most recently committed value; commits that do not
	// change it fire no edit event.
	last string
}

func NewEntry() *Entry {
	ti := textinput.New()
	ti.Prompt = ""
	return &Entry{base: newBase(), input: ti}
}

func (e *Entry) Bind(value any, onChange func(any)) {
	e.onChange = onChange
	e.SetValue(value)
}

// SetValue repoints the entry without firing the edit callback.
func (e *Entry) SetValue(value any) {
	text := asString(value)
	e.input.SetValue(text)
	e.last = text
}

func (e *Entry) Value() string { return e.input.Value() }

func (e *Entry) Focus() { e.focused = true; e.input.Focus() }

func (e *Entry) Blur() {
	e.focused = false
	e.input.Blur()
	e.commit()
}

func (e *Entry) commit() {
	value := e.input.Value()
	if e.expand != nil && value != "" {
		value = e.expand(value)
		e.input.SetValue(value)
	}
	if value == e.last {
		return
	}
	e.last = value
	e.fire(value)
}

func (e *Entry) Update(msg tea.Msg) tea.Cmd {
	if !e.enabled {
		return nil
	}
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEnter {
		e.commit()
		return nil
	}
	var cmd tea.Cmd
	e.input, cmd = e.input.Update(msg)
	return cmd
}

func (e *Entry) View() string {
	if e.focused {
		return e.input.View()
	}
	return e.styled(e.input.Value())
}

// Toggle is a boolean control.
type Toggle struct {
	base
	value bool
}

func NewToggle() *Toggle { return &Toggle{base: newBase()} }

func (t *Toggle) Bind(value any, onChange func(any)) {
	t.onChange = onChange
	t.SetValue(value)
}

func (t *Toggle) SetValue(value any) { t.value, _ = value.(bool) }
func (t *Toggle) Value() bool        { return t.value }

func (t *Toggle) Focus() {}
func (t *Toggle) Blur()  {}

func (t *Toggle) Update(msg tea.Msg) tea.Cmd {
	if !t.enabled {
		return nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter", " ":
			t.value = !t.value
			t.fire(t.value)
		}
	}
	return nil
}

func (t *Toggle) View() string {
	if t.value {
		return t.styled("[x]")
	}
	return t.styled("[ ]")
}

// Spinner is a bounded integer control.
type Spinner struct {
	base
	value    int
	min, max int
}

func NewSpinner(min, max int) *Spinner {
	return &Spinner{base: newBase(), min: min, max: max}
}

func (s *Spinner) Bind(value any, onChange func(any)) {
	s.onChange = onChange
	s.SetValue(value)
}

func (s *Spinner) SetValue(value any) {
	s.value = clamp(asInt(value), s.min, s.max)
}

func (s *Spinner) Value() int { return s.value }

func (s *Spinner) Focus() {}
func (s *Spinner) Blur()  {}

func (s *Spinner) Update(msg tea.Msg) tea.Cmd {
	if !s.enabled {
		return nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "up", "right", "+":
			s.step(1)
		case "down", "left", "-":
			s.step(-1)
		}
	}
	return nil
}

func (s *Spinner) step(delta int) {
	next := clamp(s.value+delta, s.min, s.max)
	if next == s.value {
		return
	}
	s.value = next
	s.fire(s.value)
}

func (s *Spinner) View() string {
	return s.styled(fmt.Sprintf("%d  (%d-%d)", s.value, s.min, s.max))
}

// Select is a fixed-choice control. With editable set it also accepts
// free text, covering choice_with_entry.
type Select struct {
	base
	choices  []option.Choice
	index    int
	custom   string
	editable bool
	editing  bool
	input    textinput.Model
}

func NewSelect(choices []option.Choice, editable bool) *Select {
	ti := textinput.New()
	ti.Prompt = ""
	return &Select{base: newBase(), choices: choices, index: -1, editable: editable, input: ti}
}

func (s *Select) Bind(value any, onChange func(any)) {
	s.onChange = onChange
	s.SetValue(value)
}

func (s *Select) SetValue(value any) {
	text := asString(value)
	s.index = -1
	s.custom = ""
	for i, c := range s.choices {
		if c.Value == text {
			s.index = i
			return
		}
	}
	if text != "" {
		s.custom = text
	}
}

// Value returns the selected choice value, or the custom text when the
// control is editable and no choice matches.
func (s *Select) Value() string {
	if s.index >= 0 && s.index < len(s.choices) {
		return s.choices[s.index].Value
	}
	return s.custom
}

func (s *Select) Focus() {}

func (s *Select) Blur() {
	if s.editing {
		s.commitCustom()
	}
}

func (s *Select) Update(msg tea.Msg) tea.Cmd {
	if !s.enabled {
		return nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if s.editing {
		if key.Type == tea.KeyEnter {
			s.commitCustom()
			return nil
		}
		if key.Type == tea.KeyEsc {
			s.editing = false
			return nil
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return cmd
	}
	switch key.String() {
	case "up", "left":
		s.move(-1)
	case "down", "right":
		s.move(1)
	case "e":
		if s.editable {
			s.editing = true
			s.input.SetValue(s.custom)
			s.input.Focus()
		}
	}
	return nil
}

func (s *Select) move(delta int) {
	if len(s.choices) == 0 {
		return
	}
	next := s.index + delta
	if next < 0 {
		next = 0
	}
	if next >= len(s.choices) {
		next = len(s.choices) - 1
	}
	if next == s.index {
		return
	}
	s.index = next
	s.custom = ""
	s.fire(s.choices[s.index].Value)
}

func (s *Select) commitCustom() {
	s.editing = false
	s.input.Blur()
	s.custom = s.input.Value()
	s.index = -1
	s.fire(s.custom)
}

func (s *Select) View() string {
	if s.editing {
		return s.input.View()
	}
	if s.index >= 0 && s.index < len(s.choices) {
		return s.styled(s.choices[s.index].Label)
	}
	if s.custom != "" {
		return s.styled(s.custom)
	}
	return s.styled("(not set)")
}

// SearchSelect is a choice control over a lazily produced list, filtered
// by fuzzy matching as the user types. Used for long lists such as
// compatibility runtime versions.
type SearchSelect struct {
	base
	produce func() []option.Choice

	input    textinput.Model
	choices  []option.Choice
	matches  []option.Choice
	cursor   int
	selected string
	open     bool
}

func NewSearchSelect(produce func() []option.Choice) *SearchSelect {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "type to search"
	return &SearchSelect{base: newBase(), produce: produce, input: ti}
}

func (s *SearchSelect) Bind(value any, onChange func(any)) {
	s.onChange = onChange
	s.SetValue(value)
}

func (s *SearchSelect) SetValue(value any) { s.selected = asString(value) }

func (s *SearchSelect) Value() string { return s.selected }

// Focus materializes the choice list. The producer runs here, not at
// generate time, so a large scan only happens when the user opens the
// control.
func (s *SearchSelect) Focus() {
	s.open = true
	if s.produce != nil {
		s.choices = s.produce()
	}
	s.refilter()
	s.input.Focus()
}

func (s *SearchSelect) Blur() {
	s.open = false
	s.input.Blur()
	s.input.SetValue("")
}

func (s *SearchSelect) Update(msg tea.Msg) tea.Cmd {
	if !s.enabled || !s.open {
		return nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "up":
			if s.cursor > 0 {
				s.cursor--
			}
			return nil
		case "down":
			if s.cursor < len(s.matches)-1 {
				s.cursor++
			}
			return nil
		case "enter":
			if s.cursor < len(s.matches) {
				s.selected = s.matches[s.cursor].Value
				s.fire(s.selected)
			}
			return nil
		}
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	s.refilter()
	return cmd
}

func (s *SearchSelect) refilter() {
	query := s.input.Value()
	if query == "" {
		s.matches = s.choices
	} else {
		labels := make([]string, len(s.choices))
		for i, c := range s.choices {
			labels[i] = c.Label
		}
		found := fuzzy.Find(query, labels)
		s.matches = make([]option.Choice, len(found))
		for i, m := range found {
			s.matches[i] = s.choices[m.Index]
		}
	}
	if s.cursor >= len(s.matches) {
		s.cursor = 0
	}
}

func (s *SearchSelect) View() string {
	if !s.open {
		if s.selected == "" {
			return s.styled("(not set)")
		}
		return s.styled(s.selected)
	}
	var sb strings.Builder
	sb.WriteString(s.input.View())
	limit := len(s.matches)
	if limit > 8 {
		limit = 8
	}
	for i := 0; i < limit; i++ {
		sb.WriteString("\n")
		line := "  " + s.matches[i].Label
		if i == s.cursor {
			line = selectedStyle.Render("> " + s.matches[i].Label)
		}
		sb.WriteString(line)
	}
	return sb.String()
}

// FileList is the control for multiple_file options: an ordered list of
// paths with append and remove.
type FileList struct {
	base
	entry  textinput.Model
	files  []string
	cursor int
	adding bool
	expand func(string) string
}

func NewFileList(expand func(string) string) *FileList {
	ti := textinput.New()
	ti.Prompt = "+ "
	return &FileList{base: newBase(), entry: ti, expand: expand}
}

func (f *FileList) Bind(value any, onChange func(any)) {
	f.onChange = onChange
	f.SetValue(value)
}

func (f *FileList) SetValue(value any) { f.files = asStringSlice(value) }

func (f *FileList) Value() []string { return f.files }

func (f *FileList) Focus() {}
func (f *FileList) Blur()  { f.adding = false; f.entry.Blur() }

func (f *FileList) Update(msg tea.Msg) tea.Cmd {
	if !f.enabled {
		return nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if f.adding {
		switch key.Type {
		case tea.KeyEnter:
			if path := f.entry.Value(); path != "" {
				if f.expand != nil {
					path = f.expand(path)
				}
				f.files = append(f.files, path)
				f.fire(append([]string(nil), f.files...))
			}
			f.adding = false
			f.entry.SetValue("")
			f.entry.Blur()
			return nil
		case tea.KeyEsc:
			f.adding = false
			f.entry.Blur()
			return nil
		}
		var cmd tea.Cmd
		f.entry, cmd = f.entry.Update(msg)
		return cmd
	}
	switch key.String() {
	case "up":
		if f.cursor > 0 {
			f.cursor--
		}
	case "down":
		if f.cursor < len(f.files)-1 {
			f.cursor++
		}
	case "a":
		f.adding = true
		f.entry.Focus()
	case "d", "delete":
		if f.cursor < len(f.files) {
			f.files = append(f.files[:f.cursor], f.files[f.cursor+1:]...)
			if f.cursor >= len(f.files) && f.cursor > 0 {
				f.cursor--
			}
			f.fire(append([]string(nil), f.files...))
		}
	}
	return nil
}

func (f *FileList) View() string {
	if len(f.files) == 0 && !f.adding {
		return f.styled("(no files)")
	}
	var sb strings.Builder
	for i, file := range f.files {
		if i > 0 {
			sb.WriteString("\n")
		}
		line := "  " + file
		if i == f.cursor {
			line = selectedStyle.Render("> " + file)
		}
		sb.WriteString(f.styled(line))
	}
	if f.adding {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(f.entry.View())
	}
	return sb.String()
}

// MappingGrid is the control for mapping options such as environment
// variables: unordered key/value pairs, rendered sorted by key.
type MappingGrid struct {
	base
	entry  textinput.Model
	pairs  map[string]string
	cursor int
	adding bool
}

func NewMappingGrid() *MappingGrid {
	ti := textinput.New()
	ti.Prompt = "+ "
	ti.Placeholder = "KEY=value"
	return &MappingGrid{base: newBase(), entry: ti, pairs: map[string]string{}}
}

func (m *MappingGrid) Bind(value any, onChange func(any)) {
	m.onChange = onChange
	m.SetValue(value)
}

func (m *MappingGrid) SetValue(value any) { m.pairs = asStringMap(value) }

func (m *MappingGrid) Value() map[string]string { return m.pairs }

func (m *MappingGrid) keys() []string {
	keys := make([]string, 0, len(m.pairs))
	for k := range m.pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *MappingGrid) Focus() {}
func (m *MappingGrid) Blur()  { m.adding = false; m.entry.Blur() }

func (m *MappingGrid) Update(msg tea.Msg) tea.Cmd {
	if !m.enabled {
		return nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if m.adding {
		switch key.Type {
		case tea.KeyEnter:
			if k, v, ok := strings.Cut(m.entry.Value(), "="); ok && k != "" {
				m.pairs[k] = v
				m.fire(m.valueCopy())
			}
			m.adding = false
			m.entry.SetValue("")
			m.entry.Blur()
			return nil
		case tea.KeyEsc:
			m.adding = false
			m.entry.Blur()
			return nil
		}
		var cmd tea.Cmd
		m.entry, cmd = m.entry.Update(msg)
		return cmd
	}
	keys := m.keys()
	switch key.String() {
	case "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down":
		if m.cursor < len(keys)-1 {
			m.cursor++
		}
	case "a":
		m.adding = true
		m.entry.Focus()
	case "d", "delete":
		if m.cursor < len(keys) {
			delete(m.pairs, keys[m.cursor])
			if m.cursor > 0 {
				m.cursor--
			}
			m.fire(m.valueCopy())
		}
	}
	return nil
}

func (m *MappingGrid) valueCopy() map[string]any {
	out := make(map[string]any, len(m.pairs))
	for k, v := range m.pairs {
		out[k] = v
	}
	return out
}

func (m *MappingGrid) View() string {
	keys := m.keys()
	if len(keys) == 0 && !m.adding {
		return m.styled("(empty)")
	}
	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteString("\n")
		}
		line := fmt.Sprintf("  %s=%s", k, m.pairs[k])
		if i == m.cursor {
			line = selectedStyle.Render("> " + strings.TrimPrefix(line, "  "))
		}
		sb.WriteString(m.styled(line))
	}
	if m.adding {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(m.entry.View())
	}
	return sb.String()
}

func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprintf("%v", s)
	}
}

func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		i, _ := strconv.Atoi(n)
		return i
	default:
		return 0
	}
}

func asStringSlice(v any) []string {
	switch list := v.(type) {
	case nil:
		return nil
	case []string:
		return append([]string(nil), list...)
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			out = append(out, asString(item))
		}
		return out
	default:
		return nil
	}
}

func asStringMap(v any) map[string]string {
	out := map[string]string{}
	switch m := v.(type) {
	case map[string]string:
		for k, val := range m {
			out[k] = val
		}
	case map[string]any:
		for k, val := range m {
			out[k] = asString(val)
		}
	}
	return out
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if max > min && v > max {
		return max
	}
	return v
}
