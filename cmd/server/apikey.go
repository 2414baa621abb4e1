package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rpggio/dossier/internal/config"
	"github.com/rpggio/dossier/internal/sqlite"
)

var apikeyCmd = &cobra.Command{
	Use:   "apikey",
	Short: "Manage API keys for bearer authentication",
}

var apikeyDescription string

var apikeyCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an API key and print it once",
	Long: `Create an API key. Only its SHA-256 hash is stored, so the printed key cannot be
recovered later. Keys are checked when auth is enabled (DOSSIER_AUTH_ENABLED=true).`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}
		db, err := openDB(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		token, err := sqlite.NewAPIKeyRepository(db).Create(cmd.Context(), apikeyDescription)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	apikeyCreateCmd.Flags().StringVarP(&apikeyDescription, "description", "d", "", "note stored with the key")
}
