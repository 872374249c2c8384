// ABOUTME: Root command for cooking-codex CLI
// ABOUTME: Handles global flags, configuration, and the shared application container

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/markalston/cooking-codex/internal/app"
	"github.com/markalston/cooking-codex/internal/config"
	"github.com/markalston/cooking-codex/internal/logger"
)

var (
	apiURL     string
	jsonOutput bool
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "cooking-codex",
	Short: "Terminal client for the Cooking Codex recipe manager",
	Long: `cooking-codex manages your recipes from the terminal.

Log in once and the session is remembered between runs. Run 'cooking-codex tui'
for the full screen interface.

Environment Variables:
  COOKING_CODEX_API_URL          API URL (default: http://localhost:8000/api)
  COOKING_CODEX_MEDIA_URL        Media URL (default: <api>/media)
  COOKING_CODEX_CONFIG_DIR       Where the session is stored (default: ~/.config/cooking-codex)
  COOKING_CODEX_STORAGE          Session storage backend: file or sqlite (default: file)
  COOKING_CODEX_REQUEST_TIMEOUT  Per request timeout (default: 30s, 0 disables)
  COOKING_CODEX_ALL_PROXY        ssh+socks5://user@host:port?private-key=/path
  COOKING_CODEX_PER_PAGE         Recipes per page (default: 20)
  LOG_LEVEL, LOG_FORMAT          Logging (info/text by default)`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "API URL (overrides COOKING_CODEX_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// GetAPIURL returns the API URL from flag, env, or default (in priority order)
func GetAPIURL() string {
	if apiURL != "" {
		return apiURL
	}
	if envURL := os.Getenv("COOKING_CODEX_API_URL"); envURL != "" {
		return envURL
	}
	return config.DefaultAPIURL
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// loadConfig reads the environment and applies command line overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.SetAPIURL(apiURL)
	}
	return cfg, nil
}

// newApp builds the application container for a one-shot command.
// Logs go to stderr.
func newApp() (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger.Init(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	return app.New(cfg)
}

// withApp wraps a command body that needs the application container
func withApp(run func(a *app.App) int) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		a, err := newApp()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		if code := run(a); code != 0 {
			os.Exit(code)
		}
	}
}

// fail reports err for the action when and prints the pending
// notifications. It returns the exit code for a failed action.
func fail(a *app.App, w io.Writer, err error, when string) int {
	if errors.Is(err, app.ErrNotLoggedIn) {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	}
	a.Fail(err, when)
	flushToasts(a, w)
	return 1
}

// flushToasts prints and dismisses every pending notification
func flushToasts(a *app.App, w io.Writer) {
	for _, n := range a.Toasts.List() {
		fmt.Fprintf(w, "Error: %s\n", n.Message)
		a.Toasts.Remove(n)
	}
}
