package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/cryptobot/broker"
	"github.com/rustyeddy/cryptobot/market"
	"github.com/rustyeddy/cryptobot/strategy"
	"github.com/rustyeddy/cryptobot/trader"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the live trading loop against a paper gateway",
	Long: `Run the decision loop once per interval: fetch the latest price,
apply stop-loss/take-profit brackets, compute indicators, generate and size
a signal, and execute it through the gateway.

Orders fill against an in-memory paper gateway seeded with the account
balance. The loop stops cleanly on SIGINT/SIGTERM, always between cycles.

Example:
  cryptobot run -f bot.yaml --data data/BTCUSDT-1h.csv.xz`,
	RunE: runRun,
}

var (
	runConfigPath string
	runDataPath   string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON)")
	runCmd.Flags().StringVar(&runDataPath, "data", "", "CSV dataset used to seed gateway history")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(runConfigPath)
	if err != nil {
		return err
	}

	interval, err := cfg.Trading.ParseInterval()
	if err != nil {
		return err
	}
	cooldown, err := cfg.Trading.ParseErrorCooldown()
	if err != nil {
		return err
	}
	retryDelay, err := cfg.Retry.ParseDelay()
	if err != nil {
		return err
	}

	gw := broker.NewPaper(cfg.Account.QuoteAsset, cfg.Account.Balance)
	if runDataPath != "" {
		bars, err := market.LoadCSV(runDataPath)
		if err != nil {
			return fmt.Errorf("load bars: %w", err)
		}
		gw.LoadBars(cfg.Trading.Symbol, bars)
		if len(bars) > 0 {
			last := bars[len(bars)-1]
			gw.SetPrice(cfg.Trading.Symbol, last.Close, last.Time)
		}
	} else {
		gw.LoadBars(cfg.Trading.Symbol, nil)
	}

	jrnl, err := cfg.Journal.Open()
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer jrnl.Close()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	t, err := trader.New(trader.Config{
		Symbol:         cfg.Trading.Symbol,
		Timeframe:      cfg.Trading.Timeframe,
		Interval:       interval,
		ErrorCooldown:  cooldown,
		HistoryBars:    cfg.Trading.HistoryBars,
		InitialBalance: cfg.Account.Balance,
		Indicators:     cfg.Indicators,
		Strategy:       cfg.Strategy,
		Risk:           cfg.Risk,
	}, gw, broker.RetryPolicy{
		MaxAttempts: cfg.Retry.MaxAttempts,
		Delay:       retryDelay,
		Backoff:     cfg.Retry.Backoff,
	}, strategy.StaticSentiment(cfg.Sentiment.Score),
		strategy.DriftPredictor{Window: cfg.Prediction.Window}, jrnl, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := t.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
