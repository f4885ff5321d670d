package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change pagespin settings.

Settings are stored in a TOML file. Keys:
  view.scale             Initial zoom of the page view (0.5 - 2.0)
  view.scale_step        Zoom change per keypress
  export.prefix          Prefix of exported file names
  export.dir             Output directory (empty: next to the source file)
  watch.enabled          Reload the open file when it changes on disk
  watch.min_interval_ms  Minimum time between two reloads`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

var settingsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file location",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if settingsService == nil {
			return errors.New("settings service not configured")
		}
		cmd.Println(settingsService.Path())
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsPathCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[View]")
	cmd.Printf("  Scale: %.2f\n", settings.View.Scale)
	cmd.Printf("  Scale step: %.2f\n", settings.View.ScaleStep)
	cmd.Println()

	cmd.Println("[Export]")
	cmd.Printf("  Prefix: %s\n", settings.Export.Prefix)
	if settings.Export.Dir != "" {
		cmd.Printf("  Directory: %s\n", settings.Export.Dir)
	} else {
		cmd.Printf("  Directory: (next to the source file)\n")
	}
	cmd.Println()

	cmd.Println("[Watch]")
	if settings.Watch.Enabled {
		cmd.Printf("  Enabled: yes\n")
		cmd.Printf("  Minimum interval: %s\n", settings.Watch.MinInterval)
	} else {
		cmd.Printf("  Enabled: no\n")
	}
	cmd.Println()

	cmd.Printf("Stored in %s\n", settingsService.Path())
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w (valid keys: %v)", key, err, settingsService.Keys())
	}

	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}
