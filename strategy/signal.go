package strategy

import (
	"math"

	"github.com/rustyeddy/cryptobot/indicators"
)

// Action is the discrete trading decision produced once per cycle.
type Action string

const (
	Buy  Action = "BUY"
	Sell Action = "SELL"
	Hold Action = "HOLD"
)

// Signal is the output of one decision cycle. StopLoss and TakeProfit are
// only meaningful for BUY and SELL.
type Signal struct {
	Action     Action
	StopLoss   float64
	TakeProfit float64
}

// Generate evaluates the all-or-nothing multi-condition gate and produces
// exactly one signal.
//
// BUY requires all of: price below the lower Bollinger band, RSI below the
// oversold threshold, MACD above its signal line, sentiment above the
// configured threshold, forecast above price by the configured margin, and
// an uptrend. SELL is the mirrored set. Anything else is HOLD; there is no
// partial or weighted scoring.
//
// Bracket levels clamp to detected support/resistance: a BUY stop never sits
// below support and its target never sits above resistance.
func Generate(snap indicators.Snapshot, sentiment, prediction float64, p Params) Signal {
	price := snap.Price
	if price <= 0 || math.IsNaN(price) {
		return Signal{Action: Hold}
	}

	buy := price < snap.BollingerLower &&
		snap.RSI < p.RSIOversold &&
		snap.MACD > snap.MACDSignal &&
		sentiment > p.SentimentThreshold &&
		prediction > price*(1+p.MLThreshold) &&
		snap.Trend == indicators.Uptrend

	if buy {
		return Signal{
			Action:     Buy,
			StopLoss:   math.Max(snap.Support, price*(1-p.StopLossPct)),
			TakeProfit: math.Min(snap.Resistance, price*(1+p.TakeProfitPct)),
		}
	}

	sell := price > snap.BollingerUpper &&
		snap.RSI > p.RSIOverbought &&
		snap.MACD < snap.MACDSignal &&
		sentiment < -p.SentimentThreshold &&
		prediction < price*(1-p.MLThreshold) &&
		snap.Trend == indicators.Downtrend

	if sell {
		return Signal{
			Action:     Sell,
			StopLoss:   math.Min(snap.Resistance, price*(1+p.StopLossPct)),
			TakeProfit: math.Max(snap.Support, price*(1-p.TakeProfitPct)),
		}
	}

	return Signal{Action: Hold}
}
