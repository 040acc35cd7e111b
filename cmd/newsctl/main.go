// Package main - newsctl CLI
//
// Usage:
//
//	go run ./cmd/newsctl migrate
//	go run ./cmd/newsctl refresh --tickers AAPL,MSFT
//	go run ./cmd/newsctl tickers --search apple
package main

import (
	"os"

	"github.com/wonny/tickernews/cmd/newsctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
