// Package strategy turns indicator snapshots, a sentiment score and a price
// forecast into discrete BUY/SELL/HOLD signals with bracket levels.
package strategy

import (
	"fmt"

	"github.com/rustyeddy/cryptobot/indicators"
)

// Params is an immutable strategy parameter set. Components never mutate a
// Params in place; adjustments and optimizers derive a new value instead, so
// there is no hidden coupling between the live loop and whoever tunes it.
type Params struct {
	StopLossPct   float64 `json:"stop_loss_pct" yaml:"stop_loss_pct"`
	TakeProfitPct float64 `json:"take_profit_pct" yaml:"take_profit_pct"`

	RSIOversold   float64 `json:"rsi_oversold" yaml:"rsi_oversold"`
	RSIOverbought float64 `json:"rsi_overbought" yaml:"rsi_overbought"`

	// SentimentThreshold gates BUY on sentiment above it and SELL on
	// sentiment below its negation.
	SentimentThreshold float64 `json:"sentiment_threshold" yaml:"sentiment_threshold"`

	// MLThreshold is the fractional margin the forecast must clear beyond
	// the current price.
	MLThreshold float64 `json:"ml_threshold" yaml:"ml_threshold"`
}

// DefaultParams returns the baseline parameter set tuned for 1m crypto bars.
func DefaultParams() Params {
	return Params{
		StopLossPct:        0.02,
		TakeProfitPct:      0.05,
		RSIOversold:        30,
		RSIOverbought:      70,
		SentimentThreshold: 0.2,
		MLThreshold:        0.01,
	}
}

// Validate checks parameter ranges.
func (p Params) Validate() error {
	if p.StopLossPct <= 0 || p.StopLossPct >= 1 {
		return fmt.Errorf("stop_loss_pct must be in (0,1), got %v", p.StopLossPct)
	}
	if p.TakeProfitPct <= 0 || p.TakeProfitPct >= 1 {
		return fmt.Errorf("take_profit_pct must be in (0,1), got %v", p.TakeProfitPct)
	}
	if p.TakeProfitPct <= p.StopLossPct {
		return fmt.Errorf("take_profit_pct %v must exceed stop_loss_pct %v", p.TakeProfitPct, p.StopLossPct)
	}
	if p.RSIOversold < 0 || p.RSIOverbought > 100 || p.RSIOversold >= p.RSIOverbought {
		return fmt.Errorf("rsi thresholds out of range: oversold=%v overbought=%v", p.RSIOversold, p.RSIOverbought)
	}
	if p.SentimentThreshold < 0 || p.SentimentThreshold > 1 {
		return fmt.Errorf("sentiment_threshold must be in [0,1], got %v", p.SentimentThreshold)
	}
	if p.MLThreshold < 0 || p.MLThreshold >= 1 {
		return fmt.Errorf("ml_threshold must be in [0,1), got %v", p.MLThreshold)
	}
	return nil
}

// Adjust derives a parameter set adapted to current market conditions:
// brackets widen under high volatility and tighten under low volatility, and
// RSI thresholds shift with the trend. The input is never modified; the same
// regime/trend inputs always produce the same output. Callers apply this
// before gate evaluation.
func (p Params) Adjust(regime indicators.Regime, trend indicators.Trend) Params {
	out := p

	switch regime {
	case indicators.HighVolatility:
		out.StopLossPct *= 1.5
		out.TakeProfitPct *= 1.5
	case indicators.LowVolatility:
		out.StopLossPct *= 0.75
		out.TakeProfitPct *= 0.75
	}

	switch trend {
	case indicators.Uptrend:
		out.RSIOversold += 5
		out.RSIOverbought += 5
	case indicators.Downtrend:
		out.RSIOversold -= 5
		out.RSIOverbought -= 5
	}

	return out
}
