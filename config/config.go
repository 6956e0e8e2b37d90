// Package config loads the complete bot configuration from YAML or JSON,
// with environment overrides for deployment-specific values.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/cryptobot/indicators"
	"github.com/rustyeddy/cryptobot/journal"
	"github.com/rustyeddy/cryptobot/risk"
	"github.com/rustyeddy/cryptobot/strategy"
)

// Config represents the complete bot configuration.
type Config struct {
	Account    AccountConfig     `json:"account" yaml:"account"`
	Trading    TradingConfig     `json:"trading" yaml:"trading"`
	Indicators indicators.Config `json:"indicators" yaml:"indicators"`
	Strategy   strategy.Params   `json:"strategy" yaml:"strategy"`
	Risk       risk.Params       `json:"risk" yaml:"risk"`
	Retry      RetryConfig       `json:"retry" yaml:"retry"`
	Backtest   BacktestConfig    `json:"backtest" yaml:"backtest"`
	Journal    JournalConfig     `json:"journal" yaml:"journal"`
	Sentiment  SentimentConfig   `json:"sentiment" yaml:"sentiment"`
	Prediction PredictionConfig  `json:"prediction" yaml:"prediction"`
}

// AccountConfig contains account initialization parameters.
type AccountConfig struct {
	QuoteAsset string  `json:"quote_asset" yaml:"quote_asset"`
	Balance    float64 `json:"balance" yaml:"balance"`
}

// TradingConfig drives the live loop.
type TradingConfig struct {
	Symbol        string `json:"symbol" yaml:"symbol"`
	Timeframe     string `json:"timeframe" yaml:"timeframe"`
	Interval      string `json:"interval" yaml:"interval"`             // e.g. "1m", "1h"
	ErrorCooldown string `json:"error_cooldown" yaml:"error_cooldown"` // pause after a failed cycle
	HistoryBars   int    `json:"history_bars" yaml:"history_bars"`
}

// ParseInterval converts the interval string to a duration.
func (t TradingConfig) ParseInterval() (time.Duration, error) {
	return time.ParseDuration(t.Interval)
}

// ParseErrorCooldown converts the cooldown string; empty means "use the
// interval".
func (t TradingConfig) ParseErrorCooldown() (time.Duration, error) {
	if t.ErrorCooldown == "" {
		return 0, nil
	}
	return time.ParseDuration(t.ErrorCooldown)
}

// RetryConfig bounds gateway retries.
type RetryConfig struct {
	MaxAttempts int     `json:"max_attempts" yaml:"max_attempts"`
	Delay       string  `json:"delay" yaml:"delay"`
	Backoff     float64 `json:"backoff" yaml:"backoff"`
}

// ParseDelay converts the delay string; empty means one second.
func (r RetryConfig) ParseDelay() (time.Duration, error) {
	if r.Delay == "" {
		return time.Second, nil
	}
	return time.ParseDuration(r.Delay)
}

// BacktestConfig points at the historical dataset.
type BacktestConfig struct {
	DataFile       string  `json:"data_file" yaml:"data_file"`
	PeriodsPerYear float64 `json:"periods_per_year" yaml:"periods_per_year"`
}

// JournalConfig contains journaling parameters.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv", "sqlite" or "memory"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// Open builds the configured journal.
func (j JournalConfig) Open() (journal.Journal, error) {
	switch j.Type {
	case "csv":
		return journal.NewCSV(j.TradesFile, j.EquityFile)
	case "sqlite":
		return journal.NewSQLite(j.DBPath)
	case "memory", "":
		return journal.NewMemory(), nil
	default:
		return nil, fmt.Errorf("journal.type %q must be csv, sqlite or memory", j.Type)
	}
}

// SentimentConfig selects the sentiment source. Only the static source is
// built in; the score is a fixed value in [-1,1].
type SentimentConfig struct {
	Score float64 `json:"score" yaml:"score"`
}

// PredictionConfig tunes the drift forecaster.
type PredictionConfig struct {
	Window int `json:"window" yaml:"window"`
}

// Default returns a runnable baseline configuration.
func Default() *Config {
	return &Config{
		Account: AccountConfig{QuoteAsset: "USDT", Balance: 10000},
		Trading: TradingConfig{
			Symbol:    "BTC/USDT",
			Timeframe: "1h",
			Interval:  "1h",
		},
		Indicators: indicators.DefaultConfig(),
		Strategy:   strategy.DefaultParams(),
		Risk:       risk.DefaultParams(),
		Retry:      RetryConfig{MaxAttempts: 3, Delay: "1s", Backoff: 1},
		Backtest:   BacktestConfig{PeriodsPerYear: 365 * 24},
		Journal:    JournalConfig{Type: "memory"},
		Sentiment:  SentimentConfig{Score: 0},
		Prediction: PredictionConfig{Window: 5},
	}
}

// LoadFromFile loads configuration from a file (YAML or JSON by content),
// applies environment overrides and validates the result.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadEnv reads a .env file into the process environment when one exists.
// Call once at startup, before LoadFromFile.
func LoadEnv() {
	_ = godotenv.Load()
}

// ApplyEnv overrides deployment-specific fields from the environment:
// CRYPTOBOT_SYMBOL, CRYPTOBOT_BALANCE, CRYPTOBOT_JOURNAL_TYPE and
// CRYPTOBOT_JOURNAL_DB.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("CRYPTOBOT_SYMBOL"); v != "" {
		c.Trading.Symbol = v
	}
	if v := os.Getenv("CRYPTOBOT_BALANCE"); v != "" {
		if b, err := strconv.ParseFloat(v, 64); err == nil {
			c.Account.Balance = b
		}
	}
	if v := os.Getenv("CRYPTOBOT_JOURNAL_TYPE"); v != "" {
		c.Journal.Type = v
	}
	if v := os.Getenv("CRYPTOBOT_JOURNAL_DB"); v != "" {
		c.Journal.DBPath = v
	}
}

// SaveToFile writes the configuration as YAML (or JSON for .json paths).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error
	if strings.HasSuffix(path, ".json") {
		data, err = json.MarshalIndent(c, "", "  ")
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration is coherent.
func (c *Config) Validate() error {
	if c.Account.QuoteAsset == "" {
		return fmt.Errorf("account.quote_asset is required")
	}
	if c.Account.Balance <= 0 {
		return fmt.Errorf("account.balance must be positive")
	}
	if c.Trading.Symbol == "" {
		return fmt.Errorf("trading.symbol is required")
	}
	if !strings.Contains(c.Trading.Symbol, "/") {
		return fmt.Errorf("trading.symbol %q must look like BASE/QUOTE", c.Trading.Symbol)
	}
	if _, err := c.Trading.ParseInterval(); err != nil {
		return fmt.Errorf("trading.interval: %w", err)
	}
	if _, err := c.Trading.ParseErrorCooldown(); err != nil {
		return fmt.Errorf("trading.error_cooldown: %w", err)
	}
	if err := c.Strategy.Validate(); err != nil {
		return fmt.Errorf("strategy: %w", err)
	}
	if err := c.Risk.Validate(); err != nil {
		return fmt.Errorf("risk: %w", err)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1")
	}
	if _, err := c.Retry.ParseDelay(); err != nil {
		return fmt.Errorf("retry.delay: %w", err)
	}
	if c.Sentiment.Score < -1 || c.Sentiment.Score > 1 {
		return fmt.Errorf("sentiment.score must be in [-1,1]")
	}
	if c.Journal.Type == "csv" && (c.Journal.TradesFile == "" || c.Journal.EquityFile == "") {
		return fmt.Errorf("journal trades_file and equity_file required for csv type")
	}
	if c.Journal.Type == "sqlite" && c.Journal.DBPath == "" {
		return fmt.Errorf("journal db_path required for sqlite type")
	}
	return nil
}
