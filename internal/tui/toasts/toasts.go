// ABOUTME: Renders queued notifications
// ABOUTME: Newest first, stacked in the bottom right of the frame

package toasts

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/cooking-codex/internal/toast"
	"github.com/markalston/cooking-codex/internal/tui/styles"
	"github.com/markalston/cooking-codex/internal/tui/widgets"
)

// MaxVisible caps how many notifications are drawn at once
const MaxVisible = 3

// Render stacks notifications, newest first, no wider than width. It
// returns an empty string when there is nothing to show.
func Render(items []toast.Notification, width int) string {
	if len(items) == 0 {
		return ""
	}
	lines := make([]string, 0, MaxVisible+1)
	for i := len(items) - 1; i >= 0 && len(lines) < MaxVisible; i-- {
		// every queued notification reports a failed action
		text := widgets.StatusText(items[i].Message, widgets.StatusCritical)
		lines = append(lines, styles.Toast.MaxWidth(width).Render(text))
	}
	if hidden := len(items) - MaxVisible; hidden > 0 {
		lines = append(lines, styles.Subtitle.UnsetMarginBottom().Render(fmt.Sprintf("+%d more", hidden)))
	}
	return lipgloss.JoinVertical(lipgloss.Right, lines...)
}
