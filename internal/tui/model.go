// Package tui hosts the configuration forms in a terminal UI: one tab
// per config box, cursor navigation over visible rows, inline editing,
// the advanced toggle and the live filter.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/optforge/optforge/internal/config"
	"github.com/optforge/optforge/internal/form"
	"github.com/optforge/optforge/internal/logging"
	"github.com/optforge/optforge/internal/settings"
	"github.com/optforge/optforge/internal/widget"
)

// Tab is one configuration form with its backing store.
type Tab struct {
	Title string
	Box   *form.ConfigBox
	Cfg   *config.LayeredConfig
}

// Model is the main TUI model.
type Model struct {
	tabs     []Tab
	active   int
	cursor   int
	editing  bool
	settings *settings.Settings
	log      *logging.Logger

	filtering   bool
	filterInput textinput.Model

	viewport viewport.Model
	width    int
	height   int
	ready    bool

	status string
	err    error
}

// New builds the model and renders every tab's form once.
func New(tabs []Tab, st *settings.Settings, log *logging.Logger) Model {
	if log == nil {
		log = logging.NewNop()
	}
	fi := textinput.New()
	fi.Prompt = "/ "
	fi.Placeholder = "filter options"

	m := Model{tabs: tabs, settings: st, log: log, filterInput: fi}
	for _, t := range m.tabs {
		t.Box.Render()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

func (m Model) box() *form.ConfigBox { return m.tabs[m.active].Box }

func (m Model) visibleRows() []*form.Row {
	tree := m.box().Tree()
	if tree == nil {
		return nil
	}
	return tree.VisibleRows()
}

func (m Model) currentRow() *form.Row {
	rows := m.visibleRows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return nil
	}
	return rows[m.cursor]
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-4)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 4
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editing {
		return m.handleEditingKey(msg)
	}
	if m.filtering {
		return m.handleFilterKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "tab":
		m.active = (m.active + 1) % len(m.tabs)
		m.cursor = 0
	case "shift+tab":
		m.active = (m.active - 1 + len(m.tabs)) % len(m.tabs)
		m.cursor = 0

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.visibleRows())-1 {
			m.cursor++
		}

	case "enter", " ":
		if row := m.currentRow(); row != nil {
			if ctl, ok := row.Control.(widget.Interactive); ok {
				ctl.Focus()
				m.editing = true
			}
		}

	case "r":
		if row := m.currentRow(); row != nil && row.ResetVisible {
			m.box().OnReset(row.Key)
			m.status = fmt.Sprintf("Reset %q to its inherited value", row.Label)
		}

	case "a":
		show := !m.box().AdvancedVisible()
		for _, t := range m.tabs {
			t.Box.SetAdvancedVisible(show)
		}
		if m.settings != nil {
			if err := m.settings.SetShowAdvanced(show); err != nil {
				m.log.Warn("failed to persist advanced toggle", "error", err)
			}
		}
		m.clampCursor()

	case "/":
		m.filtering = true
		m.filterInput.SetValue(m.box().Filter())
		m.filterInput.Focus()

	case "s":
		if err := m.tabs[m.active].Cfg.Save(); err != nil {
			m.err = err
			m.status = ""
		} else {
			m.err = nil
			m.status = "Configuration saved"
		}
	}
	return m, nil
}

func (m Model) handleEditingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	row := m.currentRow()
	if row == nil {
		m.editing = false
		return m, nil
	}
	ctl, ok := row.Control.(widget.Interactive)
	if !ok {
		m.editing = false
		return m, nil
	}
	if msg.Type == tea.KeyEsc {
		ctl.Blur()
		m.editing = false
		return m, nil
	}
	return m, ctl.Update(msg)
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.filtering = false
		m.filterInput.Blur()
		return m, nil
	case tea.KeyEsc:
		m.filtering = false
		m.filterInput.Blur()
		m.filterInput.SetValue("")
		m.applyFilter("")
		return m, nil
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.applyFilter(m.filterInput.Value())
	return m, cmd
}

func (m *Model) applyFilter(text string) {
	for _, t := range m.tabs {
		t.Box.SetFilter(text)
	}
	m.clampCursor()
}

func (m *Model) clampCursor() {
	if n := len(m.visibleRows()); m.cursor >= n {
		m.cursor = 0
	}
}

// View renders the UI.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.renderTabs())
	sb.WriteString("\n")

	box := m.box()
	if banner := box.Banner(); banner != "" {
		sb.WriteString(BannerStyle.Render(banner))
		sb.WriteString("\n")
	}

	tree, cursorLine := m.renderTree()
	if m.ready {
		m.viewport.SetContent(tree)
		m.scrollTo(cursorLine)
		sb.WriteString(m.viewport.View())
	} else {
		sb.WriteString(tree)
	}
	sb.WriteString(m.renderFooter())
	return sb.String()
}

// scrollTo keeps the cursor row inside the viewport.
func (m *Model) scrollTo(line int) {
	top := m.viewport.YOffset
	bottom := top + m.viewport.Height - 1
	if line < top {
		m.viewport.SetYOffset(line)
	} else if line > bottom {
		m.viewport.SetYOffset(line - m.viewport.Height + 1)
	}
}

func (m Model) renderTabs() string {
	var parts []string
	for i, t := range m.tabs {
		if i == m.active {
			parts = append(parts, ActiveTabStyle.Render(t.Title))
		} else {
			parts = append(parts, TabStyle.Render(t.Title))
		}
	}
	return HeaderStyle.Render(strings.Join(parts, " "))
}

// renderTree renders the active form and reports the output line the
// cursor row starts on, for viewport scrolling.
func (m Model) renderTree() (string, int) {
	tree := m.box().Tree()
	if tree == nil {
		return "", 0
	}
	if tree.Placeholder != "" {
		return PlaceholderStyle.Render(tree.Placeholder) + "\n", 0
	}

	var sb strings.Builder
	index := 0
	line := 0
	cursorLine := 0

	emit := func(row *form.Row) {
		if index == m.cursor {
			cursorLine = line
		}
		rendered := m.renderRow(row, index == m.cursor)
		sb.WriteString(rendered)
		line += strings.Count(rendered, "\n")
		index++
	}

	for _, item := range tree.Items {
		if item.Section != nil {
			// An invisible section has no visible rows, so skipping it
			// keeps index aligned with VisibleRows.
			if !item.Section.Visible() {
				continue
			}
			sb.WriteString(SectionStyle.Render(item.Section.Name))
			sb.WriteString("\n")
			line++
			for _, row := range item.Section.Rows {
				if !row.Visible() {
					continue
				}
				emit(row)
			}
			continue
		}
		if !item.Row.Visible() {
			continue
		}
		emit(item.Row)
	}
	return sb.String(), cursorLine
}

func (m Model) renderRow(row *form.Row, selected bool) string {
	label := row.Label
	if row.ResetVisible {
		label += " ↺"
	}
	line := fmt.Sprintf("%s: %s", label, row.Control.View())
	if selected {
		line = SelectedRowStyle.Render("> " + line)
	} else {
		line = RowStyle.Render(line)
	}

	var sb strings.Builder
	sb.WriteString(line)
	sb.WriteString("\n")
	for _, p := range row.Presenters {
		if !p.Visible() {
			continue
		}
		if v, ok := p.(interface{ View() string }); ok {
			sb.WriteString(v.View())
		} else {
			sb.WriteString("  " + p.Message())
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m Model) renderFooter() string {
	var sb strings.Builder

	if m.filtering {
		sb.WriteString("\n")
		sb.WriteString(m.filterInput.View())
	} else if f := m.box().Filter(); f != "" {
		sb.WriteString("\n")
		sb.WriteString(TooltipStyle.Render("filter: " + f))
	}

	if row := m.currentRow(); row != nil && row.Tooltip != "" {
		sb.WriteString("\n")
		sb.WriteString(TooltipStyle.Render(row.Tooltip))
	}

	if m.err != nil {
		sb.WriteString("\n")
		sb.WriteString(StatusStyle.Foreground(errColor).Render(m.err.Error()))
	} else if m.status != "" {
		sb.WriteString("\n")
		sb.WriteString(StatusStyle.Render(m.status))
	}

	advanced := "show"
	if m.box().AdvancedVisible() {
		advanced = "hide"
	}
	help := fmt.Sprintf(
		"tab: switch  ↑/↓: move  enter: edit  r: reset  a: %s advanced  /: filter  s: save  q: quit",
		advanced,
	)
	sb.WriteString("\n")
	sb.WriteString(FooterStyle.Render(help))
	return sb.String()
}
