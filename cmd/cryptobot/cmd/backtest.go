package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/cryptobot/backtest"
	"github.com/rustyeddy/cryptobot/config"
	"github.com/rustyeddy/cryptobot/market"
	"github.com/rustyeddy/cryptobot/strategy"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Replay the decision chain over historical bars",
	Long: `Run a deterministic backtest over a CSV of OHLCV bars.

The dataset may be plain CSV or xz-compressed (.csv.xz). Results are printed
to stdout; trades and the equity curve go to the configured journal.

Example:
  cryptobot backtest -f bot.yaml --data data/BTCUSDT-1h.csv.xz`,
	RunE: runBacktest,
}

var (
	backtestConfigPath string
	backtestDataPath   string
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&backtestConfigPath, "config", "f", "", "path to config file (YAML or JSON)")
	backtestCmd.Flags().StringVar(&backtestDataPath, "data", "", "path to OHLCV CSV dataset (overrides config)")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(backtestConfigPath)
	if err != nil {
		return err
	}

	dataPath := cfg.Backtest.DataFile
	if backtestDataPath != "" {
		dataPath = backtestDataPath
	}
	if dataPath == "" {
		return fmt.Errorf("no dataset: set backtest.data_file or pass --data")
	}

	bars, err := market.LoadCSV(dataPath)
	if err != nil {
		return fmt.Errorf("load bars: %w", err)
	}

	jrnl, err := cfg.Journal.Open()
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer jrnl.Close()

	sim := backtest.New(backtest.Config{
		Symbol:         cfg.Trading.Symbol,
		InitialBalance: cfg.Account.Balance,
		PeriodsPerYear: cfg.Backtest.PeriodsPerYear,
		Indicators:     cfg.Indicators,
		Strategy:       cfg.Strategy,
		Risk:           cfg.Risk,
		Extra:          jrnl,
	}, strategy.StaticSentiment(cfg.Sentiment.Score), strategy.DriftPredictor{Window: cfg.Prediction.Window})

	res, err := sim.Run(bars)
	if err != nil {
		return fmt.Errorf("backtest: %w", err)
	}

	backtest.PrintResult(os.Stdout, res)
	return nil
}

// loadConfig reads the config file or falls back to defaults plus
// environment overrides.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		cfg := config.Default()
		cfg.ApplyEnv()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
		return cfg, nil
	}
	return config.LoadFromFile(path)
}
