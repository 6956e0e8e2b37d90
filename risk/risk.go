// Package risk converts raw trading signals into sized, risk-bounded order
// intents under position and per-trade risk limits.
package risk

import (
	"fmt"
	"math"

	"github.com/rustyeddy/cryptobot/strategy"
)

// Params bounds how much of the portfolio a single position and a single
// trade may put at risk. Params are only replaced between decision cycles,
// never mutated mid-cycle.
type Params struct {
	// MaxPositionSize caps position value as a fraction of portfolio value.
	MaxPositionSize float64 `json:"max_position_size" yaml:"max_position_size"`

	// MaxRiskPerTrade caps the value lost if the stop is hit, as a fraction
	// of portfolio value.
	MaxRiskPerTrade float64 `json:"max_risk_per_trade" yaml:"max_risk_per_trade"`

	// MaxDrawdown is the equity drawdown fraction beyond which the driver
	// should stop opening new positions.
	MaxDrawdown float64 `json:"max_drawdown" yaml:"max_drawdown"`
}

// DefaultParams returns conservative limits.
func DefaultParams() Params {
	return Params{
		MaxPositionSize: 0.1,
		MaxRiskPerTrade: 0.01,
		MaxDrawdown:     0.25,
	}
}

// Validate checks parameter ranges.
func (p Params) Validate() error {
	if p.MaxPositionSize <= 0 || p.MaxPositionSize > 1 {
		return fmt.Errorf("max_position_size must be in (0,1], got %v", p.MaxPositionSize)
	}
	if p.MaxRiskPerTrade <= 0 || p.MaxRiskPerTrade > 1 {
		return fmt.Errorf("max_risk_per_trade must be in (0,1], got %v", p.MaxRiskPerTrade)
	}
	if p.MaxDrawdown <= 0 || p.MaxDrawdown > 1 {
		return fmt.Errorf("max_drawdown must be in (0,1], got %v", p.MaxDrawdown)
	}
	return nil
}

// OrderIntent is a sized, risk-bounded order derived from a signal.
// Invariant: Quantity >= 0 and Quantity*price <= portfolio*MaxPositionSize.
type OrderIntent struct {
	Action     strategy.Action
	Quantity   float64
	StopLoss   float64
	TakeProfit float64
}

// Evaluator sizes positions under the configured limits. It keeps one piece
// of state: a volatility baseline captured on first observation, against
// which later readings are compared for adaptive de-risking.
type Evaluator struct {
	params      Params
	baselineVol float64
	haveBase    bool
}

// NewEvaluator returns an evaluator with the given limits.
func NewEvaluator(p Params) *Evaluator {
	return &Evaluator{params: p}
}

// Params returns the configured limits.
func (e *Evaluator) Params() Params { return e.params }

// Evaluate sizes sig into an order intent.
//
// BUY: quantity = min(maxRiskValue/|price-stop|, remaining position headroom
// divided by price), floored at zero. A stop at the entry price means zero
// risk-per-unit, which sizes to zero rather than dividing by zero.
// SELL: the full open quantity (complete close).
// HOLD: no intent.
//
// volatility <= 0 means "unknown" and skips de-risking. When volatility
// exceeds the stored baseline, both risk fractions scale down
// proportionally.
func (e *Evaluator) Evaluate(sig strategy.Signal, portfolioValue, price, openQty, volatility float64) (OrderIntent, bool) {
	switch sig.Action {
	case strategy.Buy:
		qty := e.buySize(sig, portfolioValue, price, openQty, volatility)
		if qty <= 0 {
			return OrderIntent{}, false
		}
		return OrderIntent{
			Action:     strategy.Buy,
			Quantity:   qty,
			StopLoss:   sig.StopLoss,
			TakeProfit: sig.TakeProfit,
		}, true

	case strategy.Sell:
		if openQty <= 0 {
			return OrderIntent{}, false
		}
		return OrderIntent{
			Action:     strategy.Sell,
			Quantity:   openQty,
			StopLoss:   sig.StopLoss,
			TakeProfit: sig.TakeProfit,
		}, true

	default:
		return OrderIntent{}, false
	}
}

func (e *Evaluator) buySize(sig strategy.Signal, portfolioValue, price, openQty, volatility float64) float64 {
	if price <= 0 || portfolioValue <= 0 {
		return 0
	}

	maxRisk := e.params.MaxRiskPerTrade
	maxPos := e.params.MaxPositionSize

	if volatility > 0 {
		if !e.haveBase {
			e.baselineVol = volatility
			e.haveBase = true
		} else if volatility > e.baselineVol {
			scale := e.baselineVol / volatility
			maxRisk *= scale
			maxPos *= scale
		}
	}

	riskPerUnit := math.Abs(price - sig.StopLoss)
	if riskPerUnit == 0 {
		return 0
	}

	byRisk := portfolioValue * maxRisk / riskPerUnit

	headroom := portfolioValue*maxPos - openQty*price
	if headroom <= 0 {
		return 0
	}
	byCap := headroom / price

	qty := math.Min(byRisk, byCap)
	if qty < 0 {
		return 0
	}
	return qty
}
