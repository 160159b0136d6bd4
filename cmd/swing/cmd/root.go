package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "swing",
	Short: "Swing-trading workflow tool: capital ledger, stop manager, backtester",
	Long: `Swing is a retail swing-trading workflow tool written in Go.

It provides tools for:
  - Deriving capital state from positions and pending entry orders
  - Checking whether a proposed entry order fits the free capital
  - Suggesting breakeven/trailing stop adjustments for open positions
  - Backtesting the entry and stop rules bar-by-bar over daily OHLC data
  - Journaling backtest runs to SQLite or CSV`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
