// Package cli provides the starsearch command line.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/starsearch/internal/adapters/driven/config/file"
	"github.com/custodia-labs/starsearch/internal/core/domain"
	"github.com/custodia-labs/starsearch/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

var (
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "starsearch",
	Short: "Search the readmes of your starred GitHub repositories",
	Long: `starsearch signs a user in with GitHub, downloads the readme of every
repository they starred and lets them search across all of them.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "settings file (default ~/.starsearch/config.toml)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadSettings opens the settings store named by --config and loads it.
func loadSettings() (*file.SettingsStore, domain.AppSettings, error) {
	store, err := file.NewSettingsStore(configPath)
	if err != nil {
		return nil, domain.AppSettings{}, fmt.Errorf("locating settings: %w", err)
	}
	settings, err := store.Load()
	if err != nil {
		return nil, domain.AppSettings{}, err
	}
	return store, settings, nil
}
