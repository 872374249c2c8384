// ABOUTME: Tests for badge and metric block widgets
// ABOUTME: Checks content and layout width rather than colors

package widgets

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/cooking-codex/internal/tui/icons"
)

func TestTagBadges(t *testing.T) {
	if TagBadges(nil) != "" {
		t.Error("expected no output for no tags")
	}
	out := TagBadges([]string{"soup", "vegan"})
	if !strings.Contains(out, "soup") || !strings.Contains(out, "vegan") {
		t.Errorf("expected both tags, got %q", out)
	}
}

func TestCountBlock(t *testing.T) {
	cfg := DefaultMetricBlockConfig()
	out := CountBlock(icons.Recipe, "Recipes", 42, "in your codex", cfg)

	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	if !strings.Contains(out, "42") || !strings.Contains(out, "in your codex") {
		t.Errorf("unexpected block %q", out)
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != cfg.Width {
			t.Errorf("line %d width %d, want %d", i, w, cfg.Width)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"a much longer subtitle", 10, "a much ..."},
		{"abcdef", 3, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestStatusText(t *testing.T) {
	tests := []struct {
		level StatusLevel
		icon  string
	}{
		{StatusOK, icons.CheckOK.String()},
		{StatusWarning, icons.Warning.String()},
		{StatusCritical, icons.Critical.String()},
		{StatusInfo, "•"},
	}
	for _, tt := range tests {
		out := StatusText("saved", tt.level)
		if !strings.Contains(out, tt.icon) || !strings.Contains(out, "saved") {
			t.Errorf("level %d: expected %q and text, got %q", tt.level, tt.icon, out)
		}
	}
}
