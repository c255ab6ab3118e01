package tui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optforge/optforge/internal/config"
	"github.com/optforge/optforge/internal/form"
	"github.com/optforge/optforge/internal/logging"
	"github.com/optforge/optforge/internal/option"
	"github.com/optforge/optforge/internal/settings"
	"github.com/optforge/optforge/internal/widget"
)

func testModel(t *testing.T) (Model, *settings.Settings) {
	t.Helper()

	base := t.TempDir()
	st, err := settings.Load(filepath.Join(base, "optforge.yml"))
	require.NoError(t, err)

	paths := config.Paths{Base: base}
	runnerCfg := config.New(option.LevelRunner, "wine", "", paths)
	systemCfg := config.New(option.LevelSystem, "", "", paths)
	log := logging.NewNop()

	tabs := []Tab{
		{Title: "Runner options", Cfg: runnerCfg, Box: form.NewRunnerBox(form.Params{
			Config:    runnerCfg,
			Generator: widget.New(runnerCfg),
			Logger:    log,
		})},
		{Title: "System options", Cfg: systemCfg, Box: form.NewSystemBox(form.Params{
			Config:    systemCfg,
			Generator: widget.New(systemCfg),
			Logger:    log,
		})},
	}
	return New(tabs, st, log), st
}

func press(t *testing.T, m Model, msg tea.KeyMsg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestViewShowsActiveForm(t *testing.T) {
	m, _ := testModel(t)

	view := m.View()
	assert.Contains(t, view, "Runner options")
	assert.Contains(t, view, "System options")
	assert.Contains(t, view, "Wine version")
}

func TestTabSwitchesBox(t *testing.T) {
	m, _ := testModel(t)
	require.Equal(t, 0, m.active)

	m = press(t, m, key("tab"))
	assert.Equal(t, 1, m.active)
	assert.Contains(t, m.View(), "Default installation folder")

	m = press(t, m, key("tab"))
	assert.Equal(t, 0, m.active)
}

func TestCursorMovesOverVisibleRows(t *testing.T) {
	m, _ := testModel(t)

	m = press(t, m, key("up"))
	assert.Equal(t, 0, m.cursor, "cursor stops at the top")

	m = press(t, m, key("down"))
	assert.Equal(t, 1, m.cursor)

	rows := m.visibleRows()
	for range rows {
		m = press(t, m, key("down"))
	}
	assert.Equal(t, len(rows)-1, m.cursor, "cursor stops at the bottom")
}

func TestAdvancedTogglePersists(t *testing.T) {
	m, st := testModel(t)
	require.False(t, m.box().AdvancedVisible())
	before := len(m.visibleRows())

	m = press(t, m, key("a"))
	assert.True(t, m.box().AdvancedVisible())
	assert.True(t, st.ShowAdvanced(), "toggle persisted to settings")
	assert.Greater(t, len(m.visibleRows()), before)

	m = press(t, m, key("a"))
	assert.False(t, st.ShowAdvanced())
}

func TestFilterNarrowsRows(t *testing.T) {
	m, _ := testModel(t)
	all := len(m.visibleRows())

	m = press(t, m, key("/"))
	require.True(t, m.filtering)
	for _, r := range "dxvk" {
		m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	m = press(t, m, key("enter"))

	assert.False(t, m.filtering)
	narrowed := m.visibleRows()
	require.NotEmpty(t, narrowed)
	assert.Less(t, len(narrowed), all)
	assert.Equal(t, "dxvk", narrowed[0].Key)

	// Esc from filter mode clears it entirely.
	m = press(t, m, key("/"))
	m = press(t, m, key("esc"))
	assert.Len(t, m.visibleRows(), all)
}

func TestEditFocusAndBlur(t *testing.T) {
	m, _ := testModel(t)

	m = press(t, m, key("enter"))
	assert.True(t, m.editing)

	m = press(t, m, key("esc"))
	assert.False(t, m.editing)
}

func TestQuitKey(t *testing.T) {
	m, _ := testModel(t)
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestSaveReportsStatus(t *testing.T) {
	m, _ := testModel(t)
	m = press(t, m, key("s"))
	assert.Contains(t, m.View(), "Configuration saved")
}
