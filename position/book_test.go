package position

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/cryptobot/journal"
	"github.com/rustyeddy/cryptobot/risk"
	"github.com/rustyeddy/cryptobot/strategy"
)

func ts(min int) time.Time {
	return time.Date(2024, 1, 1, 0, min, 0, 0, time.UTC)
}

func buyIntent(qty, stop, take float64) risk.OrderIntent {
	return risk.OrderIntent{
		Action:     strategy.Buy,
		Quantity:   qty,
		StopLoss:   stop,
		TakeProfit: take,
	}
}

func TestBuyOpensPosition(t *testing.T) {
	j := journal.NewMemory()
	b := NewBook("BTC/USDT", 10_000, j)

	require.Equal(t, Flat, b.State())

	filled, err := b.Buy(ts(0), 100, buyIntent(10, 98, 105))
	require.NoError(t, err)
	require.True(t, filled)

	assert.Equal(t, Open, b.State())
	assert.InDelta(t, 9_000, b.Cash(), 1e-9)
	assert.InDelta(t, 10_000, b.Equity(100), 1e-9)

	pos, ok := b.Position()
	require.True(t, ok)
	assert.Equal(t, 100.0, pos.EntryPrice)
	assert.Equal(t, 98.0, pos.StopLoss)

	require.Len(t, j.Trades(), 1)
	assert.Equal(t, "BUY", j.Trades()[0].Action)
	assert.Equal(t, journal.ReasonSignal, j.Trades()[0].Reason)
}

// A BUY while a position is already open is ignored, not queued.
func TestBuyWhileOpenIsNoOp(t *testing.T) {
	j := journal.NewMemory()
	b := NewBook("BTC/USDT", 10_000, j)

	filled, err := b.Buy(ts(0), 100, buyIntent(10, 98, 105))
	require.NoError(t, err)
	require.True(t, filled)

	filled, err = b.Buy(ts(1), 101, buyIntent(5, 99, 106))
	require.NoError(t, err)
	assert.False(t, filled)
	assert.Len(t, j.Trades(), 1)
}

func TestBuyRejectedWhenUnaffordable(t *testing.T) {
	b := NewBook("BTC/USDT", 100, journal.NewMemory())
	filled, err := b.Buy(ts(0), 100, buyIntent(10, 98, 105))
	require.NoError(t, err)
	assert.False(t, filled)
	assert.Equal(t, Flat, b.State())
}

func TestSellRealizesProfit(t *testing.T) {
	j := journal.NewMemory()
	b := NewBook("BTC/USDT", 10_000, j)

	_, err := b.Buy(ts(0), 100, buyIntent(10, 98, 120))
	require.NoError(t, err)

	realized, err := b.Sell(ts(5), 110, journal.ReasonSignal)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, realized, 1e-9) // 10 * (110-100)

	assert.Equal(t, Flat, b.State())
	assert.InDelta(t, 10_100, b.Cash(), 1e-9)

	require.Len(t, j.Trades(), 2)
	sell := j.Trades()[1]
	assert.Equal(t, "SELL", sell.Action)
	assert.InDelta(t, 100.0, sell.RealizedPL, 1e-9)
}

func TestSellWhileFlatIsNoOp(t *testing.T) {
	j := journal.NewMemory()
	b := NewBook("BTC/USDT", 10_000, j)
	realized, err := b.Sell(ts(0), 100, journal.ReasonSignal)
	require.NoError(t, err)
	assert.Zero(t, realized)
	assert.Empty(t, j.Trades())
}

// Scenario: entry at 100 with a 2% stop. Price path 100,101,99,95,94 must
// auto-close by STOP_LOSS at the first close at or below 98.
func TestStopLossAutoClose(t *testing.T) {
	j := journal.NewMemory()
	b := NewBook("BTC/USDT", 10_000, j)

	_, err := b.Buy(ts(0), 100, buyIntent(10, 98, 120))
	require.NoError(t, err)

	closes := []float64{101, 99, 95, 94}
	var closedAt float64
	for i, c := range closes {
		closed, reason, err := b.CheckBrackets(ts(i+1), c)
		require.NoError(t, err)
		if closed {
			assert.Equal(t, journal.ReasonStopLoss, reason)
			closedAt = c
			break
		}
	}

	require.Equal(t, 95.0, closedAt, "must close at the first close <= 98")
	assert.Equal(t, Flat, b.State())

	sell := j.Trades()[1]
	assert.Equal(t, journal.ReasonStopLoss, sell.Reason)
	assert.InDelta(t, 10*(95.0-100.0), sell.RealizedPL, 1e-9)
}

func TestTakeProfitAutoClose(t *testing.T) {
	j := journal.NewMemory()
	b := NewBook("BTC/USDT", 10_000, j)

	_, err := b.Buy(ts(0), 100, buyIntent(10, 90, 105))
	require.NoError(t, err)

	closed, reason, err := b.CheckBrackets(ts(1), 106)
	require.NoError(t, err)
	require.True(t, closed)
	assert.Equal(t, journal.ReasonTakeProfit, reason)
	assert.InDelta(t, 10_060, b.Cash(), 1e-9)
}

// When a single price satisfies both boundaries, the stop wins.
func TestStopCheckedBeforeTakeProfit(t *testing.T) {
	j := journal.NewMemory()
	b := NewBook("BTC/USDT", 10_000, j)

	// Degenerate brackets that a single price can satisfy both of.
	_, err := b.Buy(ts(0), 100, buyIntent(10, 98, 98))
	require.NoError(t, err)

	closed, reason, err := b.CheckBrackets(ts(1), 98)
	require.NoError(t, err)
	require.True(t, closed)
	assert.Equal(t, journal.ReasonStopLoss, reason)
}

// At any point in the ledger at most one position is open, and cumulative
// realized profit equals the sum of SELL trade profits.
func TestLedgerInvariants(t *testing.T) {
	j := journal.NewMemory()
	b := NewBook("BTC/USDT", 10_000, j)

	prices := []float64{100, 103, 101, 104, 99}
	var totalRealized float64
	for i, p := range prices {
		if b.State() == Flat {
			_, err := b.Buy(ts(2*i), p, buyIntent(5, p*0.98, p*1.02))
			require.NoError(t, err)
		} else {
			r, err := b.Sell(ts(2*i), p, journal.ReasonSignal)
			require.NoError(t, err)
			totalRealized += r
		}
	}

	openCount := 0
	var sellPL float64
	for _, tr := range j.Trades() {
		switch tr.Action {
		case "BUY":
			openCount++
			require.LessOrEqual(t, openCount, 1)
		case "SELL":
			openCount--
			require.GreaterOrEqual(t, openCount, 0)
			sellPL += tr.RealizedPL
		}
	}
	assert.InDelta(t, totalRealized, sellPL, 1e-9)
}

func TestRecordEquity(t *testing.T) {
	j := journal.NewMemory()
	b := NewBook("BTC/USDT", 10_000, j)

	require.NoError(t, b.RecordEquity(ts(0), 100))
	_, err := b.Buy(ts(1), 100, buyIntent(10, 98, 110))
	require.NoError(t, err)
	require.NoError(t, b.RecordEquity(ts(1), 102))

	eq := j.Equity()
	require.Len(t, eq, 2)
	assert.InDelta(t, 10_000, eq[0].Equity, 1e-9)
	assert.InDelta(t, 9_000+10*102, eq[1].Equity, 1e-9)
	assert.InDelta(t, 9_000, eq[1].Balance, 1e-9)
}
