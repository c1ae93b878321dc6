package ui

import "github.com/charmbracelet/lipgloss"

// 16-color ANSI Dracula palette. Light variants are used when dark mode is
// switched off.
var (
	DraculaBackground = lipgloss.AdaptiveColor{Light: "15", Dark: "0"}
	DraculaForeground = lipgloss.AdaptiveColor{Light: "0", Dark: "255"}
	DraculaPurple     = lipgloss.AdaptiveColor{Light: "5", Dark: "5"}
	DraculaPink       = lipgloss.AdaptiveColor{Light: "5", Dark: "13"}
	DraculaCyan       = lipgloss.AdaptiveColor{Light: "4", Dark: "14"}
	DraculaGreen      = lipgloss.AdaptiveColor{Light: "2", Dark: "10"}
	DraculaComment    = lipgloss.AdaptiveColor{Light: "8", Dark: "7"}
	DraculaOrange     = lipgloss.AdaptiveColor{Light: "3", Dark: "3"}
	DraculaRed        = lipgloss.AdaptiveColor{Light: "1", Dark: "1"}

	// Tab bar styles
	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(DraculaPink).
			Bold(true).
			Padding(0, 1)
	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(DraculaComment).
				Padding(0, 1)

	// List styles
	TitleStyle = lipgloss.NewStyle().
			Foreground(DraculaPink).
			Bold(true).
			Padding(0, 1)

	// Detail view styles
	DetailTitleStyle = lipgloss.NewStyle().
				Foreground(DraculaPink).
				Bold(true)
	DetailTaglineStyle = lipgloss.NewStyle().
				Foreground(DraculaCyan).
				Italic(true)
	DetailLabelStyle = lipgloss.NewStyle().
				Foreground(DraculaComment)

	// Prices
	PriceStyle = lipgloss.NewStyle().
			Foreground(DraculaGreen).
			Bold(true)
	OriginalPriceStyle = lipgloss.NewStyle().
				Foreground(DraculaComment).
				Strikethrough(true)

	// Search match highlight
	HighlightStyle = lipgloss.NewStyle().
			Foreground(DraculaBackground).
			Background(DraculaOrange)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(DraculaComment)
	ErrorStyle = lipgloss.NewStyle().
			Foreground(DraculaRed)
	SuccessStyle = lipgloss.NewStyle().
			Foreground(DraculaGreen)

	// Help
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(DraculaPink).
			Bold(true)
	HelpDescStyle = lipgloss.NewStyle().
			Foreground(DraculaForeground)

	SelectedItemStyle = lipgloss.NewStyle().
				BorderLeft(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(DraculaPink).
				PaddingLeft(1)

	// Forms
	FormBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DraculaPurple).
			Padding(1, 2)
	FormLabelStyle = lipgloss.NewStyle().
			Foreground(DraculaCyan).
			Width(16)
	FormFocusedLabelStyle = lipgloss.NewStyle().
				Foreground(DraculaPink).
				Bold(true).
				Width(16)

	// Pagination dots
	ActiveDotStyle = lipgloss.NewStyle().
			Foreground(DraculaPink)
	InactiveDotStyle = lipgloss.NewStyle().
				Foreground(DraculaComment)
)

// applyTheme switches every adaptive color above between its light and
// dark variant.
func applyTheme(dark bool) {
	lipgloss.SetHasDarkBackground(dark)
}
