package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cmdtrainer/cmdtrainer/internal/config"
	"github.com/cmdtrainer/cmdtrainer/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "cmdtrainer",
	Short: "Learn shell commands by typing them",
	Long: "cmdtrainer teaches command-line tools through short typed drills. Modules unlock as " +
		"their prerequisites are completed and finished cards come back for review on a " +
		"spaced-repetition schedule.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides CMDTRAINER_DB env var)")
	rootCmd.PersistentFlags().String("content", "", "Directory of module files to use instead of the bundled modules (overrides CMDTRAINER_CONTENT_DIR)")
	rootCmd.PersistentFlags().String("profile", "", "Profile to learn as (overrides CMDTRAINER_PROFILE)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(modulesCmd)
	rootCmd.AddCommand(learnCmd)
	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(unlockCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(contentCmd)
}

// loadConfig resolves settings in priority order: command-line flags, then
// environment variables (a .env file in the working directory is loaded
// first), then defaults.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.FromEnv()
	if err != nil {
		return config.Config{}, err
	}

	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if d, _ := cmd.Flags().GetString("content"); d != "" {
		cfg.ContentDir = d
	}
	if p, _ := cmd.Flags().GetString("profile"); p != "" {
		cfg.Profile = p
	}
	return cfg, nil
}

// resolveDBPath returns the configured database path, falling back to the
// default XDG path.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}
