package trader

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/cryptobot/broker"
	"github.com/rustyeddy/cryptobot/indicators"
	"github.com/rustyeddy/cryptobot/journal"
	"github.com/rustyeddy/cryptobot/risk"
	"github.com/rustyeddy/cryptobot/strategy"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testConfig() Config {
	return Config{
		Symbol:         "BTC/USDT",
		Timeframe:      "1h",
		Interval:       10 * time.Millisecond,
		ErrorCooldown:  10 * time.Millisecond,
		InitialBalance: 10000,
		Indicators:     indicators.DefaultConfig(),
		Strategy:       strategy.DefaultParams(),
		Risk:           risk.DefaultParams(),
	}
}

func newTestTrader(t *testing.T, cfg Config, g *broker.Paper, mem *journal.Memory) *Trader {
	t.Helper()
	tr, err := New(cfg, g, broker.RetryPolicy{MaxAttempts: 1, Delay: time.Millisecond},
		strategy.StaticSentiment(0.5), strategy.DriftPredictor{Window: 5}, mem, quietLogger())
	require.NoError(t, err)
	return tr
}

func TestNewValidatesConfig(t *testing.T) {
	g := broker.NewPaper("USDT", 10000)
	log := quietLogger()

	cfg := testConfig()
	cfg.Symbol = ""
	_, err := New(cfg, g, broker.DefaultRetryPolicy(), strategy.StaticSentiment(0), strategy.DriftPredictor{}, journal.NewMemory(), log)
	assert.Error(t, err)

	cfg = testConfig()
	cfg.Interval = 0
	_, err = New(cfg, g, broker.DefaultRetryPolicy(), strategy.StaticSentiment(0), strategy.DriftPredictor{}, journal.NewMemory(), log)
	assert.Error(t, err)

	cfg = testConfig()
	cfg.InitialBalance = -1
	_, err = New(cfg, g, broker.DefaultRetryPolicy(), strategy.StaticSentiment(0), strategy.DriftPredictor{}, journal.NewMemory(), log)
	assert.Error(t, err)
}

func TestCycleRecordsEquity(t *testing.T) {
	g := broker.NewPaper("USDT", 10000)
	g.SetPrice("BTC/USDT", 50000, time.Now().UTC())
	mem := journal.NewMemory()

	tr := newTestTrader(t, testConfig(), g, mem)

	require.NoError(t, tr.Cycle(context.Background()))
	require.Len(t, mem.Equity(), 1)
	assert.InDelta(t, 10000.0, mem.Equity()[0].Equity, 1e-9)
	assert.Empty(t, mem.Trades())
}

func TestCycleFailsWithoutPrice(t *testing.T) {
	g := broker.NewPaper("USDT", 10000)
	mem := journal.NewMemory()

	tr := newTestTrader(t, testConfig(), g, mem)

	err := tr.Cycle(context.Background())
	require.Error(t, err)
	assert.True(t, broker.Retryable(err))
	assert.Empty(t, mem.Equity())
}

func TestCycleStopLossCloses(t *testing.T) {
	g := broker.NewPaper("USDT", 100000)
	now := time.Now().UTC()
	g.SetPrice("BTC/USDT", 100, now)
	mem := journal.NewMemory()

	tr := newTestTrader(t, testConfig(), g, mem)

	// Open a position at 100 with a 98 stop, mirrored at the gateway.
	_, err := g.PlaceOrder(context.Background(), broker.OrderRequest{
		Symbol: "BTC/USDT", Side: broker.SideBuy, Type: broker.OrderMarket, Quantity: 10,
	})
	require.NoError(t, err)
	opened, err := tr.Book().Buy(now, 100, risk.OrderIntent{
		Action: strategy.Buy, Quantity: 10, StopLoss: 98, TakeProfit: 120,
	})
	require.NoError(t, err)
	require.True(t, opened)

	g.SetPrice("BTC/USDT", 95, now.Add(time.Minute))
	require.NoError(t, tr.Cycle(context.Background()))

	assert.Equal(t, 0.0, tr.Book().OpenQuantity())
	trades := mem.Trades()
	require.NotEmpty(t, trades)
	last := trades[len(trades)-1]
	assert.Equal(t, "SELL", last.Action)
	assert.Equal(t, journal.ReasonStopLoss, last.Reason)
	assert.InDelta(t, 10*(95.0-100.0), last.RealizedPL, 1e-9)
}

func TestCycleTakeProfitCloses(t *testing.T) {
	g := broker.NewPaper("USDT", 100000)
	now := time.Now().UTC()
	g.SetPrice("BTC/USDT", 100, now)
	mem := journal.NewMemory()

	tr := newTestTrader(t, testConfig(), g, mem)

	_, err := g.PlaceOrder(context.Background(), broker.OrderRequest{
		Symbol: "BTC/USDT", Side: broker.SideBuy, Type: broker.OrderMarket, Quantity: 10,
	})
	require.NoError(t, err)
	opened, err := tr.Book().Buy(now, 100, risk.OrderIntent{
		Action: strategy.Buy, Quantity: 10, StopLoss: 98, TakeProfit: 105,
	})
	require.NoError(t, err)
	require.True(t, opened)

	g.SetPrice("BTC/USDT", 106, now.Add(time.Minute))
	require.NoError(t, tr.Cycle(context.Background()))

	trades := mem.Trades()
	require.NotEmpty(t, trades)
	assert.Equal(t, journal.ReasonTakeProfit, trades[len(trades)-1].Reason)
}

func TestRunStopsBetweenCycles(t *testing.T) {
	g := broker.NewPaper("USDT", 10000)
	g.SetPrice("BTC/USDT", 100, time.Now().UTC())
	g.LoadBars("BTC/USDT", nil)

	tr := newTestTrader(t, testConfig(), g, journal.NewMemory())

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	err := tr.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
