package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "screener",
	Short: "Fundamental stock screener over Yahoo Finance data",
	Long: `Stock screener CLI

Fetches financial statements for a list of tickers, computes quality and
valuation factors (ROIC, R&D/Sales, Net Debt/EBITDA, EV/FCF, 3Y revenue
CAGR) and ranks the tickers by a weighted composite of per-factor ranks.

Usage:
  go run ./cmd/screener [command]

Examples:
  go run ./cmd/screener api
  go run ./cmd/screener screen --tickers AAPL,MSFT --weight roic=1:higher`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
