// ABOUTME: TUI command for cooking-codex CLI
// ABOUTME: Launches the full screen interface with logs redirected to a file

package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/markalston/cooking-codex/internal/app"
	"github.com/markalston/cooking-codex/internal/logger"
	"github.com/markalston/cooking-codex/internal/tui"
	"github.com/markalston/cooking-codex/internal/tui/styles"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive interface",
	Long:  `Open the full screen interface. Logs are written to debug.log in the config directory.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runTUI(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	closeLog, err := logger.InitFile(cfg.ConfigDir, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("opening debug log: %w", err)
	}
	defer closeLog()

	a, err := app.New(cfg)
	if err != nil {
		return err
	}

	styles.ApplyColorProfile()
	model := tui.New(a)
	defer model.Close()

	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
