// ABOUTME: Shared lipgloss styles for consistent TUI appearance
// ABOUTME: Defines colors, borders, and text styles used across components

package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors - Core palette
	Primary   = lipgloss.Color("#EA580C") // Orange
	Secondary = lipgloss.Color("#16A34A") // Green
	Danger    = lipgloss.Color("#EF4444") // Red
	Muted     = lipgloss.Color("#6B7280") // Gray

	Accent = lipgloss.Color("#FB923C") // Lighter orange for highlights

	// Base styles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			MarginBottom(1)

	StatusCritical = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)

	// Modal is the floating editor box
	Modal = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder()).
		BorderForeground(Accent).
		Padding(1, 2)

	// Toast is a single notification box
	Toast = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Danger).
		Padding(0, 1)

	// List rows
	Selected = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	Normal = lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	// Help text
	Help = lipgloss.NewStyle().
		Foreground(Muted).
		MarginTop(1)
)

// Row renders a list row with a cursor marker when selected
func Row(label string, selected bool) string {
	if selected {
		return Selected.Render("> " + label)
	}
	return Normal.Render("  " + label)
}
