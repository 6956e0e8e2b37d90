package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rustyeddy/cryptobot/config"
)

var rootCmd = &cobra.Command{
	Use:   "cryptobot",
	Short: "A crypto trading bot with deterministic backtesting",
	Long: `Cryptobot automates buy/hold/sell decisions over streaming or
historical price data.

It provides tools for:
  - Backtesting the decision chain over historical OHLCV data
  - Paper trading with the same signal, risk and position logic
  - Grid-searching strategy parameters
  - Recording trade ledgers and equity curves to CSV or SQLite

The backtest and the live loop drive the identical decision chain, so a
strategy validated in backtest is the strategy that runs live.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(config.LoadEnv)
}
