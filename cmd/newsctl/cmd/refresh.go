package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wonny/tickernews/internal/app"
)

var refreshTickers string

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Run one refresher tick now",
	Long: `Fetches the last day of news for every watchlist ticker and stores new articles,
exactly like one scheduled tick. Each ticker is recorded in fetch_logs.

Examples:
  go run ./cmd/newsctl refresh
  go run ./cmd/newsctl refresh --tickers AAPL,NVDA`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app.App) error {
			rcfg := a.RefresherConfig()
			if refreshTickers != "" {
				rcfg.Tickers = splitTickers(refreshTickers)
			}

			summary := a.NewRefresher(cmd.Context(), rcfg).RunOnce(cmd.Context())
			if summary.Skipped {
				fmt.Println("⏭️  Another worker holds the tick lock, nothing done")
				return nil
			}

			fmt.Printf("Tickers: %d  Succeeded: %d  Failed: %d  Inserted: %d  (%dms)\n",
				summary.Tickers, summary.Succeeded, summary.Failed, summary.Inserted, summary.DurationMs)
			if summary.Failed > 0 {
				return fmt.Errorf("%d ticker(s) failed, see fetch logs", summary.Failed)
			}
			return nil
		})
	},
}

func init() {
	refreshCmd.Flags().StringVar(&refreshTickers, "tickers", "", "comma separated tickers (default: configured watchlist)")
}

func splitTickers(raw string) []string {
	var out []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.ToUpper(strings.TrimSpace(t)); t != "" {
			out = append(out, t)
		}
	}
	return out
}
