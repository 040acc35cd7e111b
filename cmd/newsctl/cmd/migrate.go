package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wonny/tickernews/internal/app"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the schema",
	Long:  `Creates the articles and fetch_logs tables and their indexes in the configured store (DB_DRIVER). Safe to run repeatedly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app.App) error {
			fmt.Printf("✅ Schema ready (%s)\n", a.Store.Driver)
			return nil
		})
	},
}
