package tui

import "github.com/charmbracelet/lipgloss"

// Theme holds the review UI color scheme
type Theme struct {
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Muted   lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
	Warning lipgloss.Color
	Border  lipgloss.Color
}

// DefaultTheme returns the default dark-terminal theme
func DefaultTheme() Theme {
	return Theme{
		Primary: lipgloss.Color("62"),
		Accent:  lipgloss.Color("205"),
		Muted:   lipgloss.Color("241"),
		Success: lipgloss.Color("42"),
		Error:   lipgloss.Color("196"),
		Warning: lipgloss.Color("214"),
		Border:  lipgloss.Color("240"),
	}
}

// Styles holds all the styled components
type Styles struct {
	Theme Theme

	Header  lipgloss.Style
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Content lipgloss.Style
	Footer  lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Success: lipgloss.NewStyle().
			Foreground(theme.Success),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning),

		Content: lipgloss.NewStyle().
			Padding(1, 2),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 2),
	}
}

// DefaultStyles returns styles with the default theme
func DefaultStyles() Styles {
	return NewStyles(DefaultTheme())
}
