// Package commands implements the inventory schema migration CLI.
package commands

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var dbURL string

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the inventory database schema",
	Long: `Apply, revert and inspect the SQL migrations embedded in the binary.

The database URL is taken from --db, falling back to DATABASE_URL.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if dbURL == "" {
			dbURL = os.Getenv("DATABASE_URL")
		}
		if dbURL == "" {
			return fmt.Errorf("--db flag or DATABASE_URL is required")
		}
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Database connection URL")
}
