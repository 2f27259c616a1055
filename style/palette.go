package style

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha, used by the full-screen menu.
var (
	Base    = lipgloss.Color("#1e1e2e")
	Text    = lipgloss.Color("#cdd6f4")
	Subtext = lipgloss.Color("#a6adc8")
	Overlay = lipgloss.Color("#6c7086")

	Mauve = lipgloss.Color("#cba6f7")
	Red   = lipgloss.Color("#f38ba8")

	AccentColor = Mauve
	ErrorColor  = Red
	HiRed       = Red
)
