// Package optimize searches strategy parameter grids by replaying each
// candidate through the backtest simulator. The search is pure: it returns
// a fresh parameter set and never mutates the inputs.
package optimize

import (
	"fmt"

	"github.com/rustyeddy/cryptobot/backtest"
	"github.com/rustyeddy/cryptobot/market"
	"github.com/rustyeddy/cryptobot/performance"
	"github.com/rustyeddy/cryptobot/strategy"
)

// Grid lists candidate values per tunable. An empty dimension keeps the
// base value.
type Grid struct {
	StopLossPct   []float64
	TakeProfitPct []float64
	RSIOversold   []float64
	RSIOverbought []float64
}

// Candidate pairs a parameter set with its backtest outcome.
type Candidate struct {
	Params strategy.Params
	Report performance.Report
}

// GridSearch replays every grid combination over bars using cfg as the run
// template and returns the best candidate plus all evaluated ones, in
// evaluation order. Candidates are ranked by Sharpe ratio, ties broken by
// total return. Invalid combinations (stop >= take-profit, inverted RSI
// bands) are skipped.
func GridSearch(bars market.Series, cfg backtest.Config, grid Grid,
	sentiment strategy.SentimentSource, predictor strategy.Predictor) (Candidate, []Candidate, error) {

	base := cfg.Strategy
	stops := orBase(grid.StopLossPct, base.StopLossPct)
	takes := orBase(grid.TakeProfitPct, base.TakeProfitPct)
	oversolds := orBase(grid.RSIOversold, base.RSIOversold)
	overboughts := orBase(grid.RSIOverbought, base.RSIOverbought)

	var all []Candidate
	for _, stop := range stops {
		for _, take := range takes {
			for _, sold := range oversolds {
				for _, bought := range overboughts {
					p := base
					p.StopLossPct = stop
					p.TakeProfitPct = take
					p.RSIOversold = sold
					p.RSIOverbought = bought
					if p.Validate() != nil {
						continue
					}

					runCfg := cfg
					runCfg.Strategy = p
					runCfg.Extra = nil
					res, err := backtest.New(runCfg, sentiment, predictor).Run(bars)
					if err != nil {
						return Candidate{}, nil, fmt.Errorf("optimize: %w", err)
					}
					all = append(all, Candidate{Params: p, Report: res.Report})
				}
			}
		}
	}
	if len(all) == 0 {
		return Candidate{}, nil, fmt.Errorf("optimize: no valid parameter combinations")
	}

	best := all[0]
	for _, c := range all[1:] {
		if better(c.Report, best.Report) {
			best = c
		}
	}
	return best, all, nil
}

func better(a, b performance.Report) bool {
	if a.SharpeRatio != b.SharpeRatio {
		return a.SharpeRatio > b.SharpeRatio
	}
	return a.TotalReturn > b.TotalReturn
}

func orBase(vals []float64, base float64) []float64 {
	if len(vals) == 0 {
		return []float64{base}
	}
	return vals
}
