package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/starsearch/internal/adapters/driven/config/file"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective settings",
	Long: `Print the settings the server would run with, after applying the
settings file and STARSEARCH_* environment variables. Secrets are masked.`,
	RunE: runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file path",
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := file.NewSettingsStore(configPath)
		if err != nil {
			return err
		}
		cmd.Println(store.Path())
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective settings to the settings file",
	RunE:  runConfigInit,
}

var configEnvCmd = &cobra.Command{
	Use:   "env",
	Short: "List the environment variables that override settings",
	Run: func(cmd *cobra.Command, _ []string) {
		for _, name := range file.EnvNames() {
			cmd.Println(name)
		}
	},
}

func init() {
	configInitCmd.Flags().Bool("force", false, "overwrite an existing settings file")
	configCmd.AddCommand(configPathCmd, configInitCmd, configEnvCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	_, settings, err := loadSettings()
	if err != nil {
		return err
	}

	if settings.GitHub.ClientSecret != "" {
		settings.GitHub.ClientSecret = maskSecret(settings.GitHub.ClientSecret)
	}
	if settings.Server.AdminPassword != "" {
		settings.Server.AdminPassword = maskSecret(settings.Server.AdminPassword)
	}

	data, err := file.Marshal(settings)
	if err != nil {
		return fmt.Errorf("rendering settings: %w", err)
	}
	cmd.Print(string(data))
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return fmt.Errorf("getting force flag: %w", err)
	}

	store, settings, err := loadSettings()
	if err != nil {
		return err
	}

	if _, err := os.Stat(store.Path()); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", store.Path())
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := store.Save(settings); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	cmd.Printf("Wrote %s\n", store.Path())
	return nil
}

func maskSecret(secret string) string {
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}
