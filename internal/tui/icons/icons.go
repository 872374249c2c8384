// ABOUTME: Icon system with Nerd Font detection and Unicode fallback
// ABOUTME: Provides consistent iconography across different terminal capabilities

package icons

import (
	"os"
	"strings"
	"sync"
)

var (
	useNerdFonts     bool
	nerdFontDetected sync.Once
)

// detectNerdFonts checks if Nerd Fonts should be used
func detectNerdFonts() bool {
	if env := os.Getenv("COOKING_CODEX_NERD_FONTS"); env != "" {
		return env == "1" || strings.ToLower(env) == "true"
	}

	term := os.Getenv("TERM")
	termProgram := os.Getenv("TERM_PROGRAM")

	nerdFontTerminals := []string{
		"iTerm.app",
		"alacritty",
		"WezTerm",
		"kitty",
		"ghostty",
	}

	for _, t := range nerdFontTerminals {
		if strings.Contains(termProgram, t) || strings.Contains(term, strings.ToLower(t)) {
			return true
		}
	}

	if os.Getenv("NERD_FONTS") == "1" {
		return true
	}

	// Default to Unicode fallback for maximum compatibility
	return false
}

// HasNerdFonts returns true if Nerd Fonts are available
func HasNerdFonts() bool {
	nerdFontDetected.Do(func() {
		useNerdFonts = detectNerdFonts()
	})
	return useNerdFonts
}

// Icon represents an icon with Nerd Font and Unicode fallback variants
type Icon struct {
	NerdFont string
	Fallback string
}

// String returns the appropriate icon based on font availability
func (i Icon) String() string {
	if HasNerdFonts() {
		return i.NerdFont
	}
	return i.Fallback
}

// Icon definitions - Nerd Font codepoints with Unicode fallbacks
var (
	// Content
	Recipe     = Icon{"󰉋", "▤"} // nf-md-book_open_variant
	Tag        = Icon{"󰓹", "#"} // nf-md-tag
	Ingredient = Icon{"󰩰", "•"} // nf-md-shaker
	Step       = Icon{"󰲠", "›"} // nf-md-numeric
	Image      = Icon{"󰋩", "▣"} // nf-md-image
	Users      = Icon{"󰀎", "☺"} // nf-md-account_multiple

	// Status indicators
	CheckOK  = Icon{"", "✓"} // nf-oct-check_circle
	Warning  = Icon{"", "⚠"} // nf-oct-alert
	Critical = Icon{"", "✗"} // nf-oct-x_circle

	// Actions
	Add     = Icon{"󰐕", "+"} // nf-md-plus
	Edit    = Icon{"󰏫", "✎"} // nf-md-pencil
	Delete  = Icon{"󰆴", "×"} // nf-md-delete
	Refresh = Icon{"󰑓", "↻"} // nf-md-refresh
	Logout  = Icon{"󰍃", "⏏"} // nf-md-logout
	Quit    = Icon{"󰗼", "⊗"} // nf-md-exit_to_app

	// Application
	App = Icon{"󰩰", "◈"} // nf-md-chef_hat
)
