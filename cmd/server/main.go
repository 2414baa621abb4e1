package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "dossier",
	Short: "Design projects with persona conversations and a shared case file",
	Long: `dossier serves design projects over REST and MCP. Each project holds four persona
conversations (strategy, research, concept, present) and a case file of per-persona summaries.

Configuration comes from the YAML file at DOSSIER_CONFIG_PATH and DOSSIER_* environment variables.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.Version = version

	apikeyCmd.AddCommand(apikeyCreateCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(apikeyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
