// ABOUTME: Renders recipes as markdown and markdown as styled terminal text
// ABOUTME: Shared by the CLI show command and the TUI recipe screen

package render

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/cooking-codex/internal/client"
	"github.com/markalston/cooking-codex/internal/fraction"
)

// Markdown styles accepted by Terminal
const (
	StyleDark  = "dark"
	StyleLight = "light"
	StylePlain = "notty"
)

var (
	mu sync.Mutex
	// keyed by style and wrap width; constructing a renderer is not free
	renderers = map[string]*glamour.TermRenderer{}
)

// Ingredient renders one ingredient line, e.g. "1 1/2 cup flour (sifted)"
func Ingredient(ing client.Ingredient) string {
	s := fraction.Format(ing.Amount) + " " + ing.UnitType + " " + ing.Name
	if ing.Description != nil && strings.TrimSpace(*ing.Description) != "" {
		s += " (" + strings.TrimSpace(*ing.Description) + ")"
	}
	return s
}

// Yields renders serving information, or "" when unset
func Yields(info client.Info) string {
	if info.Yields == nil {
		return ""
	}
	return fraction.Format(info.Yields.Value) + " " + info.Yields.UnitType
}

// Markdown lays out a full recipe. imageURL may be empty.
func Markdown(r client.Recipe, imageURL string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", r.Title)
	if r.ShortDescription != nil && *r.ShortDescription != "" {
		fmt.Fprintf(&sb, "*%s*\n\n", *r.ShortDescription)
	}
	if len(r.Tags) > 0 {
		fmt.Fprintf(&sb, "**Tags:** %s\n\n", strings.Join(r.Tags, ", "))
	}
	if y := Yields(r.Info); y != "" {
		fmt.Fprintf(&sb, "**Yields:** %s\n\n", y)
	}
	if imageURL != "" {
		fmt.Fprintf(&sb, "**Image:** %s\n\n", imageURL)
	}
	if r.LongDescription != nil && strings.TrimSpace(*r.LongDescription) != "" {
		sb.WriteString(strings.TrimSpace(*r.LongDescription))
		sb.WriteString("\n\n")
	}

	sb.WriteString("## Ingredients\n\n")
	if len(r.Ingredients) == 0 {
		sb.WriteString("*None yet*\n\n")
	}
	for _, ing := range r.Ingredients {
		fmt.Fprintf(&sb, "- %s\n", Ingredient(ing))
	}
	if len(r.Ingredients) > 0 {
		sb.WriteString("\n")
	}

	sb.WriteString("## Method\n\n")
	if len(r.Steps) == 0 {
		sb.WriteString("*None yet*\n")
	}
	for i, step := range r.Steps {
		if step.Title != nil && *step.Title != "" {
			fmt.Fprintf(&sb, "%d. **%s** %s\n", i+1, *step.Title, step.Description)
		} else {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, step.Description)
		}
	}

	return sb.String()
}

// Terminal renders markdown for the terminal. On any renderer error the
// markdown is returned unchanged.
func Terminal(md string, width int, style string) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 20 {
		width = 20
	}
	if style == "" {
		style = DetectStyle()
	}

	key := style + ":" + strconv.Itoa(width)
	mu.Lock()
	r := renderers[key]
	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			mu.Unlock()
			return md
		}
		renderers[key] = rr
		r = rr
	}
	mu.Unlock()

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// DetectStyle picks a markdown style without querying the terminal.
// COOKING_CODEX_MD_STYLE overrides detection.
func DetectStyle() string {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("COOKING_CODEX_MD_STYLE"))) {
	case StyleLight:
		return StyleLight
	case StyleDark:
		return StyleDark
	case StylePlain, "plain":
		return StylePlain
	}
	// COLORFGBG is "fg;bg"; xterm palette entries 7-15 are light
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			if bg >= 7 {
				return StyleLight
			}
			return StyleDark
		}
	}
	if lipgloss.HasDarkBackground() {
		return StyleDark
	}
	return StyleLight
}
