// ABOUTME: Badge widgets for tags and inline status
// ABOUTME: Provides colored inline badges and status indicators

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/cooking-codex/internal/tui/icons"
)

// StatusLevel represents the severity of a status
type StatusLevel int

const (
	StatusOK StatusLevel = iota
	StatusWarning
	StatusCritical
	StatusInfo
	StatusNeutral
)

// Badge colors
var (
	BadgeOKBg      = lipgloss.Color("#16A34A")
	BadgeWarnBg    = lipgloss.Color("#F59E0B")
	BadgeCritBg    = lipgloss.Color("#EF4444")
	BadgeInfoBg    = lipgloss.Color("#3B82F6")
	BadgeNeutralBg = lipgloss.Color("#6B7280")
	BadgeFg        = lipgloss.Color("#FFFFFF")
)

func levelColor(level StatusLevel) lipgloss.Color {
	switch level {
	case StatusOK:
		return BadgeOKBg
	case StatusWarning:
		return BadgeWarnBg
	case StatusCritical:
		return BadgeCritBg
	case StatusInfo:
		return BadgeInfoBg
	default:
		return BadgeNeutralBg
	}
}

// Badge renders a colored badge
func Badge(text string, level StatusLevel) string {
	return lipgloss.NewStyle().
		Background(levelColor(level)).
		Foreground(BadgeFg).
		Padding(0, 1).
		Bold(true).
		Render(text)
}

// TagBadges renders tags as a row of neutral badges
func TagBadges(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	parts := make([]string, len(tags))
	for i, tag := range tags {
		parts[i] = Badge(icons.Tag.String()+tag, StatusNeutral)
	}
	return strings.Join(parts, " ")
}

// StatusIcon returns the appropriate icon for a status level
func StatusIcon(level StatusLevel) string {
	style := lipgloss.NewStyle().Foreground(levelColor(level))
	switch level {
	case StatusOK:
		return style.Render(icons.CheckOK.String())
	case StatusWarning:
		return style.Render(icons.Warning.String())
	case StatusCritical:
		return style.Render(icons.Critical.String())
	default:
		return style.Render("•")
	}
}

// StatusText returns styled status text with icon
func StatusText(text string, level StatusLevel) string {
	textStyle := lipgloss.NewStyle().Foreground(levelColor(level))
	return fmt.Sprintf("%s %s", StatusIcon(level), textStyle.Render(text))
}
