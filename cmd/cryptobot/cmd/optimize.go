package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/cryptobot/backtest"
	"github.com/rustyeddy/cryptobot/market"
	"github.com/rustyeddy/cryptobot/optimize"
	"github.com/rustyeddy/cryptobot/strategy"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Grid-search strategy parameters over historical bars",
	Long: `Replay every combination of the candidate stop-loss and take-profit
values through the backtest and rank them by Sharpe ratio.

Example:
  cryptobot optimize -f bot.yaml --data data/BTCUSDT-1h.csv.xz \
    --stops 0.01,0.02,0.03 --takes 0.04,0.06,0.09`,
	RunE: runOptimize,
}

var (
	optConfigPath string
	optDataPath   string
	optStops      []float64
	optTakes      []float64
	optOversold   []float64
	optOverbought []float64
)

func init() {
	rootCmd.AddCommand(optimizeCmd)

	optimizeCmd.Flags().StringVarP(&optConfigPath, "config", "f", "", "path to config file (YAML or JSON)")
	optimizeCmd.Flags().StringVar(&optDataPath, "data", "", "path to OHLCV CSV dataset (overrides config)")
	optimizeCmd.Flags().Float64SliceVar(&optStops, "stops", nil, "candidate stop_loss_pct values")
	optimizeCmd.Flags().Float64SliceVar(&optTakes, "takes", nil, "candidate take_profit_pct values")
	optimizeCmd.Flags().Float64SliceVar(&optOversold, "oversold", nil, "candidate rsi_oversold values")
	optimizeCmd.Flags().Float64SliceVar(&optOverbought, "overbought", nil, "candidate rsi_overbought values")
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(optConfigPath)
	if err != nil {
		return err
	}

	dataPath := cfg.Backtest.DataFile
	if optDataPath != "" {
		dataPath = optDataPath
	}
	if dataPath == "" {
		return fmt.Errorf("no dataset: set backtest.data_file or pass --data")
	}

	bars, err := market.LoadCSV(dataPath)
	if err != nil {
		return fmt.Errorf("load bars: %w", err)
	}

	best, all, err := optimize.GridSearch(bars, backtest.Config{
		Symbol:         cfg.Trading.Symbol,
		InitialBalance: cfg.Account.Balance,
		PeriodsPerYear: cfg.Backtest.PeriodsPerYear,
		Indicators:     cfg.Indicators,
		Strategy:       cfg.Strategy,
		Risk:           cfg.Risk,
	}, optimize.Grid{
		StopLossPct:   optStops,
		TakeProfitPct: optTakes,
		RSIOversold:   optOversold,
		RSIOverbought: optOverbought,
	}, strategy.StaticSentiment(cfg.Sentiment.Score),
		strategy.DriftPredictor{Window: cfg.Prediction.Window})
	if err != nil {
		return err
	}

	fmt.Printf("Evaluated %d combinations over %d bars\n\n", len(all), len(bars))
	for _, c := range all {
		fmt.Printf("  stop=%.3f take=%.3f rsi=%.0f/%.0f  sharpe=%6.2f return=%7.2f%% trades=%d\n",
			c.Params.StopLossPct, c.Params.TakeProfitPct,
			c.Params.RSIOversold, c.Params.RSIOverbought,
			c.Report.SharpeRatio, c.Report.TotalReturn*100, c.Report.TradeCount)
	}

	fmt.Printf("\nBest: stop=%.3f take=%.3f rsi=%.0f/%.0f (sharpe %.2f)\n",
		best.Params.StopLossPct, best.Params.TakeProfitPct,
		best.Params.RSIOversold, best.Params.RSIOverbought, best.Report.SharpeRatio)
	return nil
}
