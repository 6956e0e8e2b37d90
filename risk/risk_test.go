package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/cryptobot/strategy"
)

func buySignal(price, stopPct float64) strategy.Signal {
	return strategy.Signal{
		Action:     strategy.Buy,
		StopLoss:   price * (1 - stopPct),
		TakeProfit: price * (1 + 2*stopPct),
	}
}

func TestEvaluateBuySizing(t *testing.T) {
	e := NewEvaluator(Params{MaxPositionSize: 0.1, MaxRiskPerTrade: 0.01, MaxDrawdown: 0.25})

	// price 100, stop 98 => risk/unit 2; pv 10000
	// byRisk = 10000*0.01/2 = 50, byCap = 10000*0.1/100 = 10 => qty 10
	intent, ok := e.Evaluate(buySignal(100, 0.02), 10_000, 100, 0, 0)
	require.True(t, ok)
	assert.Equal(t, strategy.Buy, intent.Action)
	assert.InDelta(t, 10.0, intent.Quantity, 1e-9)
	assert.InDelta(t, 98.0, intent.StopLoss, 1e-9)
}

func TestEvaluateBuyRiskBound(t *testing.T) {
	e := NewEvaluator(Params{MaxPositionSize: 0.5, MaxRiskPerTrade: 0.01, MaxDrawdown: 0.25})

	// Wide cap: the risk bound dominates. risk/unit = 10 at price 100.
	sig := strategy.Signal{Action: strategy.Buy, StopLoss: 90, TakeProfit: 120}
	intent, ok := e.Evaluate(sig, 10_000, 100, 0, 0)
	require.True(t, ok)
	assert.InDelta(t, 10.0, intent.Quantity, 1e-9) // 10000*0.01/10
}

// The sizing invariant 0 <= qty*price <= pv*maxPositionSize must hold for
// any stop distance and any open quantity.
func TestEvaluateBuyInvariant(t *testing.T) {
	p := Params{MaxPositionSize: 0.2, MaxRiskPerTrade: 0.02, MaxDrawdown: 0.25}

	stops := []float64{0.001, 0.01, 0.05, 0.2, 0.9}
	openQtys := []float64{0, 1, 5, 19, 20, 25}
	for _, stopPct := range stops {
		for _, open := range openQtys {
			e := NewEvaluator(p)
			intent, ok := e.Evaluate(buySignal(100, stopPct), 10_000, 100, open, 0)
			if !ok {
				continue
			}
			total := (open + intent.Quantity) * 100
			assert.GreaterOrEqual(t, intent.Quantity, 0.0)
			assert.LessOrEqual(t, total, 10_000*p.MaxPositionSize+1e-9,
				"stopPct=%v open=%v", stopPct, open)
		}
	}
}

// A stop exactly at the entry price has zero risk-per-unit; sizing must
// return no intent instead of dividing by zero.
func TestEvaluateBuyStopAtPrice(t *testing.T) {
	e := NewEvaluator(DefaultParams())
	sig := strategy.Signal{Action: strategy.Buy, StopLoss: 100, TakeProfit: 105}

	_, ok := e.Evaluate(sig, 10_000, 100, 0, 0)
	assert.False(t, ok)
}

func TestEvaluateSellClosesFullPosition(t *testing.T) {
	e := NewEvaluator(DefaultParams())
	sig := strategy.Signal{Action: strategy.Sell, StopLoss: 102, TakeProfit: 95}

	intent, ok := e.Evaluate(sig, 10_000, 100, 7.5, 0)
	require.True(t, ok)
	assert.Equal(t, strategy.Sell, intent.Action)
	assert.Equal(t, 7.5, intent.Quantity)

	// Nothing open, nothing to sell.
	_, ok = e.Evaluate(sig, 10_000, 100, 0, 0)
	assert.False(t, ok)
}

func TestEvaluateHoldProducesNoIntent(t *testing.T) {
	e := NewEvaluator(DefaultParams())
	_, ok := e.Evaluate(strategy.Signal{Action: strategy.Hold}, 10_000, 100, 0, 0)
	assert.False(t, ok)
}

func TestAdaptiveDeRisking(t *testing.T) {
	p := Params{MaxPositionSize: 0.5, MaxRiskPerTrade: 0.01, MaxDrawdown: 0.25}
	e := NewEvaluator(p)
	sig := buySignal(100, 0.02)

	// First observation sets the baseline.
	first, ok := e.Evaluate(sig, 10_000, 100, 0, 0.01)
	require.True(t, ok)

	// Doubled volatility halves the risk budget.
	second, ok := e.Evaluate(sig, 10_000, 100, 0, 0.02)
	require.True(t, ok)
	assert.InDelta(t, first.Quantity/2, second.Quantity, 1e-9)

	// Volatility at or below baseline restores full sizing.
	third, ok := e.Evaluate(sig, 10_000, 100, 0, 0.005)
	require.True(t, ok)
	assert.InDelta(t, first.Quantity, third.Quantity, 1e-9)
}

func TestParamsValidate(t *testing.T) {
	assert.NoError(t, DefaultParams().Validate())

	bad := DefaultParams()
	bad.MaxPositionSize = 1.5
	assert.Error(t, bad.Validate())

	bad = DefaultParams()
	bad.MaxRiskPerTrade = 0
	assert.Error(t, bad.Validate())
}
