package theme

import "github.com/charmbracelet/lipgloss"

var (
	Base    = lipgloss.Color("#1a1b26")
	Mantle  = lipgloss.Color("#16161e")
	Surface = lipgloss.Color("#292e42")
	Border  = lipgloss.Color("#3b4261")
	Text    = lipgloss.Color("#c0caf5")
	Subtext = lipgloss.Color("#565f89")
	Blue    = lipgloss.Color("#7aa2f7")
	Green   = lipgloss.Color("#9ece6a")
	Yellow  = lipgloss.Color("#e0af68")
	Red     = lipgloss.Color("#f7768e")

	App = lipgloss.NewStyle().
		Background(Base).
		Foreground(Text).
		Padding(1, 2)

	Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Background(Mantle).
		Foreground(Text).
		Padding(1)

	PaneActive = Pane.BorderForeground(Blue)

	Title = lipgloss.NewStyle().Foreground(Blue).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext)
	Hot   = lipgloss.NewStyle().Foreground(Yellow).Bold(true)

	Good = lipgloss.NewStyle().Foreground(Green).Bold(true)
	Warn = lipgloss.NewStyle().Foreground(Yellow).Bold(true)
	Bad  = lipgloss.NewStyle().Foreground(Red).Bold(true)
)

// Gauge maps a live-metric status string to its display style.
func Gauge(status string) lipgloss.Style {
	switch status {
	case "good":
		return Good
	case "warn":
		return Warn
	case "bad":
		return Bad
	default:
		return Muted
	}
}
