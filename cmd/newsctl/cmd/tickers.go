package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wonny/tickernews/internal/app"
)

var tickersSearch string

var tickersCmd = &cobra.Command{
	Use:   "tickers",
	Short: "List recognized ticker symbols",
	Long:  `Loads the US common-stock symbol list from Finnhub and prints the count, or the matches for --search.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app.App) error {
			symbols, err := a.News.ListTickers(cmd.Context())
			if err != nil {
				return err
			}

			if tickersSearch == "" {
				fmt.Printf("%d symbols\n", len(symbols))
				return nil
			}

			needle := strings.ToUpper(tickersSearch)
			matches := 0
			for _, s := range symbols {
				if strings.Contains(s.Symbol, needle) || strings.Contains(strings.ToUpper(s.Description), needle) {
					fmt.Printf("%-8s %s\n", s.Symbol, s.Description)
					matches++
				}
			}
			fmt.Printf("%d of %d symbols match %q\n", matches, len(symbols), tickersSearch)
			return nil
		})
	},
}

func init() {
	tickersCmd.Flags().StringVar(&tickersSearch, "search", "", "filter by symbol or description")
}
