// ABOUTME: CLI command for viewing and saving daybook settings.
// ABOUTME: Writes data_dir and log_mode to the JSON config file.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/daybook/internal/config"
)

var (
	settingsDataDir string
	settingsLogMode string
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change daybook settings",
	Long: `Show or change the settings stored in ~/.config/daybook/config.json.

With no flags the current settings are shown. DAYBOOK_DATA_DIR and
DAYBOOK_LOG_MODE in the environment (or a .env file) still take precedence.

EXAMPLES:

  daybook settings
  daybook settings --data-dir ~/Documents/daybook
  daybook settings --log-mode prod
  daybook settings --data-dir ""              # back to the default`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadEnv(); err != nil {
			return err
		}
		cfg, err := config.LoadFile()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		changed := false
		if cmd.Flags().Changed("data-dir") {
			cfg.DataDir = strings.TrimSpace(settingsDataDir)
			changed = true
		}
		if cmd.Flags().Changed("log-mode") {
			mode := strings.ToLower(strings.TrimSpace(settingsLogMode))
			switch mode {
			case "", "dev", "debug", "prod":
			default:
				return fmt.Errorf("invalid --log-mode %q: use dev, debug or prod", settingsLogMode)
			}
			cfg.LogMode = mode
			changed = true
		}

		if changed {
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			color.Green("✓ Settings saved to %s", config.GetConfigPath())
		}

		fmt.Printf("  Config:   %s\n", faint(config.GetConfigPath()))
		fmt.Printf("  Database: %s\n", cfg.DBPath())
		fmt.Printf("  Log mode: %s\n", cfg.GetLogMode())
		for _, env := range []string{config.EnvDataDir, config.EnvLogMode} {
			if v := os.Getenv(env); v != "" {
				color.Yellow("  %s=%s overrides the file", env, v)
			}
		}
		return nil
	},
}

func init() {
	settingsCmd.Flags().StringVar(&settingsDataDir, "data-dir", "", "directory holding daybook.db")
	settingsCmd.Flags().StringVar(&settingsLogMode, "log-mode", "", "logger mode: dev, debug or prod")
	rootCmd.AddCommand(settingsCmd)
}
