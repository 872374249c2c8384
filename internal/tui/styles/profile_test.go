// ABOUTME: Tests for color profile selection
// ABOUTME: Covers NO_COLOR and the TERM/COLORTERM upgrades

package styles

import (
	"testing"

	"github.com/muesli/termenv"
)

func TestColorProfile(t *testing.T) {
	tests := []struct {
		name      string
		noColor   string
		term      string
		colorterm string
		detected  termenv.Profile
		want      termenv.Profile
	}{
		{"no color wins", "1", "xterm-256color", "truecolor", termenv.TrueColor, termenv.Ascii},
		{"truecolor upgrades", "", "xterm", "truecolor", termenv.ANSI, termenv.TrueColor},
		{"truecolor keeps ascii", "", "xterm", "24bit", termenv.Ascii, termenv.Ascii},
		{"256color upgrades ansi", "", "xterm-256color", "", termenv.ANSI, termenv.ANSI256},
		{"256color upgrades ascii", "", "screen-256color", "", termenv.Ascii, termenv.ANSI256},
		{"detected kept", "", "xterm", "", termenv.ANSI, termenv.ANSI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", tt.noColor)
			t.Setenv("TERM", tt.term)
			t.Setenv("COLORTERM", tt.colorterm)

			if got := colorProfile(tt.detected); got != tt.want {
				t.Errorf("colorProfile(%v) = %v, want %v", tt.detected, got, tt.want)
			}
		})
	}
}
