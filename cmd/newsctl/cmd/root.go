// Package cmd - newsctl commands
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wonny/tickernews/internal/app"
	"github.com/wonny/tickernews/internal/pkg/config"
)

const (
	serviceName    = "tickernews-cli"
	serviceVersion = "1.0.0"
)

var (
	verbose bool

	cfg *config.Config
)

// rootCmd root command
var rootCmd = &cobra.Command{
	Use:   "newsctl",
	Short: "Ticker News - operations CLI",
	Long: `Ticker News - operations CLI

Usage:
    go run ./cmd/newsctl [command]

Commands:
    migrate     create the articles and fetch_logs tables
    refresh     run one refresher tick now
    tickers     list recognized ticker symbols
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(tickersCmd)
}

// initConfig loads .env and the environment, then the logger
func initConfig() error {
	loaded, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if verbose {
		loaded.Logging.Level = "debug"
	}
	if err := app.InitLogger(loaded, serviceName, serviceVersion); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	cfg = loaded
	return nil
}

// withApp opens the application for the duration of fn
func withApp(ctx context.Context, fn func(a *app.App) error) error {
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(a)
}
