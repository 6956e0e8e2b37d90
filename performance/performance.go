// Package performance computes summary statistics over a trade ledger and
// equity curve.
package performance

import (
	"math"

	"github.com/rustyeddy/cryptobot/journal"
)

// Report summarises a run.
type Report struct {
	TotalReturn  float64 // fractional, 0.05 == +5%
	SharpeRatio  float64 // annualized
	MaxDrawdown  float64 // fractional peak-to-trough decline, >= 0
	WinRate      float64 // fraction of closing trades with positive P/L
	ProfitFactor float64 // gross profit / gross loss, 0 when no losses
	TradeCount   int     // closing trades only
	Wins         int
	Losses       int
}

// Compute builds a Report from closed trades and the equity curve.
// periodsPerYear annualizes the Sharpe ratio (365*24 for hourly bars, 365 for
// daily). riskFree is the per-period risk-free rate, usually zero.
func Compute(trades []journal.TradeRecord, equity []journal.EquitySnapshot, periodsPerYear float64, riskFree float64) Report {
	var rep Report

	var grossProfit, grossLoss float64
	for _, tr := range trades {
		if tr.Action != "SELL" {
			continue
		}
		rep.TradeCount++
		switch {
		case tr.RealizedPL > 0:
			rep.Wins++
			grossProfit += tr.RealizedPL
		case tr.RealizedPL < 0:
			rep.Losses++
			grossLoss += -tr.RealizedPL
		}
	}
	if rep.TradeCount > 0 {
		rep.WinRate = float64(rep.Wins) / float64(rep.TradeCount)
	}
	if grossLoss > 0 {
		rep.ProfitFactor = grossProfit / grossLoss
	}

	if len(equity) >= 2 && equity[0].Equity != 0 {
		rep.TotalReturn = equity[len(equity)-1].Equity/equity[0].Equity - 1
	}
	rep.MaxDrawdown = maxDrawdown(equity)
	rep.SharpeRatio = sharpe(equity, periodsPerYear, riskFree)

	return rep
}

// sharpe computes the annualized Sharpe ratio over per-period equity returns.
// Fewer than two points, or zero return variance, yields 0.
func sharpe(equity []journal.EquitySnapshot, periodsPerYear, riskFree float64) float64 {
	if len(equity) < 2 {
		return 0
	}

	rets := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		prev := equity[i-1].Equity
		if prev == 0 {
			return 0
		}
		rets = append(rets, equity[i].Equity/prev-1-riskFree)
	}

	var mean float64
	for _, r := range rets {
		mean += r
	}
	mean /= float64(len(rets))

	if len(rets) < 2 {
		return 0
	}
	var ss float64
	for _, r := range rets {
		d := r - mean
		ss += d * d
	}
	sd := math.Sqrt(ss / float64(len(rets)-1))
	if sd == 0 {
		return 0
	}

	return mean / sd * math.Sqrt(periodsPerYear)
}

// maxDrawdown returns the largest fractional peak-to-trough equity decline.
func maxDrawdown(equity []journal.EquitySnapshot) float64 {
	var peak, maxDD float64
	for _, pt := range equity {
		if pt.Equity > peak {
			peak = pt.Equity
		}
		if peak > 0 {
			dd := (peak - pt.Equity) / peak
			if dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}
