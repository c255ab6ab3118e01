package tui

import "github.com/charmbracelet/lipgloss"

// errColor highlights failures in the status line.
var errColor = lipgloss.Color("196")

// Base styles
var (
	// HeaderStyle is the style for the tab bar.
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	// ActiveTabStyle marks the focused configuration tab.
	ActiveTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			Underline(true).
			Padding(0, 1)

	// TabStyle is the style for inactive tabs.
	TabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Padding(0, 1)

	// BannerStyle frames the supersede notice above a form.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true).
			MarginBottom(1)

	// SectionStyle is the style for section headings.
	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("75")).
			MarginTop(1)

	// RowStyle is the style for option rows.
	RowStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	// SelectedRowStyle is the style for the focused option row.
	SelectedRowStyle = lipgloss.NewStyle().
				PaddingLeft(0).
				Foreground(lipgloss.Color("212"))

	// TooltipStyle renders the focused row's help in the footer.
	TooltipStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			MarginTop(1)

	// FooterStyle is the style for the key help line.
	FooterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	// StatusStyle is the style for transient status notices.
	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("78"))

	// PlaceholderStyle is shown when a schema has no options.
	PlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				Italic(true).
				Padding(1, 2)
)
