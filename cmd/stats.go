// ABOUTME: Stats command for cooking-codex CLI
// ABOUTME: Shows account statistics and the newest recipes

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/markalston/cooking-codex/internal/app"
	"github.com/markalston/cooking-codex/internal/catalog"
)

const recentCount = 5

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show account statistics",
	Long:  `Display how many recipes you have, how many users the server has, and your newest recipes.`,
	Run: withApp(func(a *app.App) int {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		return runStats(ctx, a, os.Stdout)
	}),
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

// runStats fetches the overview and returns exit code
func runStats(ctx context.Context, a *app.App, w io.Writer) int {
	c, err := a.Client()
	if err != nil {
		return fail(a, w, err, "loading account stats")
	}

	ov, err := catalog.LoadOverview(ctx, c, recentCount)
	if err != nil {
		return fail(a, w, err, "loading account stats")
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatStatsJSON(ov))
	} else {
		fmt.Fprintln(w, formatStatsHuman(ov))
	}
	return 0
}

// formatStatsHuman formats the overview for human readability
func formatStatsHuman(ov *catalog.Overview) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Recipes: %d\nUsers:   %d", ov.Stats.RecipeCount, ov.Stats.UserCount)
	if len(ov.Recipes) > 0 {
		sb.WriteString("\n\nRecent:")
		for _, r := range ov.Recipes {
			fmt.Fprintf(&sb, "\n  %s  %s", r.ID, r.Title)
		}
	}
	return sb.String()
}

// formatStatsJSON formats the overview as JSON
func formatStatsJSON(ov *catalog.Overview) string {
	output := map[string]interface{}{
		"recipe_count": ov.Stats.RecipeCount,
		"user_count":   ov.Stats.UserCount,
		"recent":       ov.Recipes,
	}
	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data)
}
