package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.yaml")
	body := `
account:
  quote_asset: USDT
  balance: 25000
trading:
  symbol: ETH/USDT
  interval: 15m
strategy:
  stop_loss_pct: 0.03
  take_profit_pct: 0.09
journal:
  type: sqlite
  db_path: bot.db
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "ETH/USDT", cfg.Trading.Symbol)
	assert.Equal(t, 25000.0, cfg.Account.Balance)
	assert.Equal(t, 0.03, cfg.Strategy.StopLossPct)
	assert.Equal(t, "sqlite", cfg.Journal.Type)
	// Untouched sections keep defaults.
	assert.Equal(t, 14, cfg.Indicators.RSIPeriod)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
}

func TestLoadFromJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.json")
	body := `{"trading": {"symbol": "SOL/USDT", "interval": "5m"}}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "SOL/USDT", cfg.Trading.Symbol)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("account:\n  balance: -5\n"), 0644))

	_, err := LoadFromFile(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CRYPTOBOT_SYMBOL", "DOGE/USDT")
	t.Setenv("CRYPTOBOT_BALANCE", "500")
	t.Setenv("CRYPTOBOT_JOURNAL_TYPE", "sqlite")
	t.Setenv("CRYPTOBOT_JOURNAL_DB", "override.db")

	cfg := Default()
	cfg.ApplyEnv()

	assert.Equal(t, "DOGE/USDT", cfg.Trading.Symbol)
	assert.Equal(t, 500.0, cfg.Account.Balance)
	assert.Equal(t, "sqlite", cfg.Journal.Type)
	assert.Equal(t, "override.db", cfg.Journal.DBPath)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := Default()
	cfg.Trading.Symbol = "LTC/USDT"
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "LTC/USDT", loaded.Trading.Symbol)
}

func TestJournalOpen(t *testing.T) {
	j, err := JournalConfig{Type: "memory"}.Open()
	require.NoError(t, err)
	assert.NoError(t, j.Close())

	_, err = JournalConfig{Type: "parquet"}.Open()
	assert.Error(t, err)
}
