package widget

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/optforge/optforge/internal/option"
)

var (
	plainStyle  = lipgloss.NewStyle()
	boldStyle   = lipgloss.NewStyle().Bold(true)
	italicStyle = lipgloss.NewStyle().Italic(true)

	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			PaddingLeft(2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			PaddingLeft(2)
)

func weightStyle(w option.Weight) lipgloss.Style {
	switch w {
	case option.WeightBold:
		return boldStyle
	case option.WeightItalic:
		return italicStyle
	default:
		return plainStyle
	}
}
