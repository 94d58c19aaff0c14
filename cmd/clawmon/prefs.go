package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openclaw/clawmon/internal/config"
)

var (
	prefsLanguageFlag string
	prefsAdvancedFlag bool
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show the persisted monitor preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		prefs, res := config.LoadPrefs(paths.PrefsFile)
		if res.Source == config.SourceCorrupt {
			fmt.Printf("Warning: %s unreadable (%v), showing defaults.\n", paths.PrefsFile, res.Err)
		}
		fmt.Printf("Language:          %s\n", prefs.Language)
		fmt.Printf("Advanced expanded: %v\n", prefs.AdvancedExpanded)
		return nil
	},
}

var prefsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change persisted monitor preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		prefs, _ := config.LoadPrefs(paths.PrefsFile)
		if cmd.Flags().Changed("language") {
			prefs.Language = prefsLanguageFlag
		}
		if cmd.Flags().Changed("advanced") {
			prefs.AdvancedExpanded = prefsAdvancedFlag
		}
		if err := config.SavePrefs(paths.PrefsFile, prefs); err != nil {
			return err
		}
		fmt.Println("Preferences saved.")
		return nil
	},
}

func init() {
	prefsSetCmd.Flags().StringVar(&prefsLanguageFlag, "language", "en", "UI language code (en, de, fr, it, es)")
	prefsSetCmd.Flags().BoolVar(&prefsAdvancedFlag, "advanced", false, "keep the advanced section expanded")
	prefsCmd.AddCommand(prefsSetCmd)
	rootCmd.AddCommand(prefsCmd)
}
