// ABOUTME: Color profile selection for the interactive interface
// ABOUTME: Honors NO_COLOR and trusts COLORTERM/TERM when probing under-reports

package styles

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ApplyColorProfile sets the lipgloss color profile before the program starts.
// CLICOLOR is ignored here; only NO_COLOR turns colors off.
func ApplyColorProfile() {
	lipgloss.SetColorProfile(colorProfile(termenv.ColorProfile()))
}

func colorProfile(detected termenv.Profile) termenv.Profile {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		return termenv.Ascii
	}
	term := strings.ToLower(os.Getenv("TERM"))
	colorterm := strings.ToLower(os.Getenv("COLORTERM"))
	switch {
	case strings.Contains(colorterm, "truecolor"), strings.Contains(colorterm, "24bit"):
		if detected != termenv.Ascii {
			return termenv.TrueColor
		}
	case strings.Contains(term, "256color"):
		if detected == termenv.Ascii || detected == termenv.ANSI {
			return termenv.ANSI256
		}
	}
	return detected
}
