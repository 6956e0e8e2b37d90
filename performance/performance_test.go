package performance

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/cryptobot/journal"
)

func equityAt(i int, eq float64) journal.EquitySnapshot {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return journal.EquitySnapshot{Time: t0.Add(time.Duration(i) * time.Hour), Balance: eq, Equity: eq}
}

func TestSinglePointReport(t *testing.T) {
	rep := Compute(nil, []journal.EquitySnapshot{equityAt(0, 10000)}, 365*24, 0)

	assert.Equal(t, 0.0, rep.SharpeRatio)
	assert.Equal(t, 0.0, rep.MaxDrawdown)
	assert.Equal(t, 0.0, rep.TotalReturn)
	assert.Equal(t, 0, rep.TradeCount)
}

func TestTotalReturn(t *testing.T) {
	eq := []journal.EquitySnapshot{equityAt(0, 10000), equityAt(1, 10500), equityAt(2, 11000)}
	rep := Compute(nil, eq, 365*24, 0)
	assert.InDelta(t, 0.10, rep.TotalReturn, 1e-9)
}

func TestMaxDrawdown(t *testing.T) {
	eq := []journal.EquitySnapshot{
		equityAt(0, 10000),
		equityAt(1, 12000),
		equityAt(2, 9000),
		equityAt(3, 11000),
	}
	rep := Compute(nil, eq, 365*24, 0)
	assert.InDelta(t, 0.25, rep.MaxDrawdown, 1e-9)
}

func TestSharpeZeroOnFlatCurve(t *testing.T) {
	eq := []journal.EquitySnapshot{equityAt(0, 10000), equityAt(1, 10000), equityAt(2, 10000)}
	rep := Compute(nil, eq, 365*24, 0)
	assert.Equal(t, 0.0, rep.SharpeRatio)
}

func TestSharpeAnnualization(t *testing.T) {
	// Returns of +1% and +3% per period: mean 2%, sample stdev sqrt(2)%.
	eq := []journal.EquitySnapshot{
		equityAt(0, 10000),
		equityAt(1, 10100),
		equityAt(2, 10403),
	}
	rep := Compute(nil, eq, 252, 0)

	r1 := 10100.0/10000.0 - 1
	r2 := 10403.0/10100.0 - 1
	mean := (r1 + r2) / 2
	sd := math.Sqrt(math.Pow(r1-mean, 2) + math.Pow(r2-mean, 2))
	want := mean / sd * math.Sqrt(252)

	assert.InDelta(t, want, rep.SharpeRatio, 1e-9)
}

func TestTradeStats(t *testing.T) {
	trades := []journal.TradeRecord{
		{Action: "BUY", Price: 100, Quantity: 1},
		{Action: "SELL", Price: 110, Quantity: 1, RealizedPL: 10},
		{Action: "BUY", Price: 105, Quantity: 1},
		{Action: "SELL", Price: 100, Quantity: 1, RealizedPL: -5},
		{Action: "BUY", Price: 100, Quantity: 1},
		{Action: "SELL", Price: 120, Quantity: 1, RealizedPL: 20},
	}
	rep := Compute(trades, nil, 365*24, 0)

	assert.Equal(t, 3, rep.TradeCount)
	assert.Equal(t, 2, rep.Wins)
	assert.Equal(t, 1, rep.Losses)
	assert.InDelta(t, 2.0/3.0, rep.WinRate, 1e-9)
	assert.InDelta(t, 30.0/5.0, rep.ProfitFactor, 1e-9)
}
