// ABOUTME: Test to verify header/footer width alignment
// ABOUTME: Ensures frame renders at correct terminal width

package tui

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/cooking-codex/internal/app/apptest"
)

func TestFrameAlignment(t *testing.T) {
	widths := []int{60, 80, 100, 120}

	for _, targetWidth := range widths {
		t.Run(fmt.Sprintf("width_%d", targetWidth), func(t *testing.T) {
			a, _ := apptest.LoggedIn(t)
			app := New(a)
			defer app.Close()

			model, _ := app.Update(tea.WindowSizeMsg{Width: targetWidth, Height: 30})
			app = model.(*App)

			lines := strings.Split(app.View(), "\n")

			// Frame uses width-1 to prevent wrapping on some terminals,
			// but clamps to minimum of 80 for usability
			expectedWidth := targetWidth - 1
			if expectedWidth < 80 {
				expectedWidth = 80
			}

			header := lines[0]
			if !strings.HasPrefix(header, "╭") {
				t.Fatalf("header not found, first line %q", header)
			}
			if w := lipgloss.Width(header); w != expectedWidth {
				t.Errorf("header width mismatch: expected %d, got %d", expectedWidth, w)
			}

			footer := lines[len(lines)-1]
			if !strings.HasPrefix(footer, "╰") {
				t.Fatalf("footer not found, last line %q", footer)
			}
			if w := lipgloss.Width(footer); w != expectedWidth {
				t.Errorf("footer width mismatch: expected %d, got %d", expectedWidth, w)
			}
		})
	}
}
