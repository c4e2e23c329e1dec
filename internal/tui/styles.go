package tui

import "github.com/charmbracelet/lipgloss"

var (
	Accent      = lipgloss.Color("#8BC34A")
	Destructive = lipgloss.Color("#e53935")
	Muted       = lipgloss.Color("#7a8699")
	Info        = lipgloss.Color("#2196F3")
)

type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Focused lipgloss.Style
	Help    lipgloss.Style
	OK      lipgloss.Style
	Error   lipgloss.Style
	Popup   lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).MarginBottom(1),
		Label:   lipgloss.NewStyle().Width(18).Align(lipgloss.Right).MarginRight(1),
		Focused: lipgloss.NewStyle().Width(18).Align(lipgloss.Right).MarginRight(1).Foreground(Accent).Bold(true),
		Help:    lipgloss.NewStyle().Foreground(Muted).MarginTop(1),
		OK:      lipgloss.NewStyle().Foreground(Accent),
		Error:   lipgloss.NewStyle().Foreground(Destructive),
		Popup: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Info).
			Padding(0, 1).
			MarginTop(1),
	}
}
