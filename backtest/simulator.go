// Package backtest replays historical bars through the same signal, risk and
// position chain used live, filling orders instantly at the bar close.
package backtest

import (
	"fmt"
	"time"

	"github.com/rustyeddy/cryptobot/indicators"
	"github.com/rustyeddy/cryptobot/journal"
	"github.com/rustyeddy/cryptobot/market"
	"github.com/rustyeddy/cryptobot/performance"
	"github.com/rustyeddy/cryptobot/position"
	"github.com/rustyeddy/cryptobot/risk"
	"github.com/rustyeddy/cryptobot/strategy"
)

// Config fixes everything a run depends on. Identical Config plus identical
// bars must produce an identical ledger.
type Config struct {
	Symbol         string
	InitialBalance float64
	PeriodsPerYear float64

	Indicators indicators.Config
	Strategy   strategy.Params
	Risk       risk.Params

	// Extra, if set, receives every trade and equity record in addition to
	// the in-memory ledger the report is computed from.
	Extra journal.Journal
}

// Result of one simulator run.
type Result struct {
	Symbol       string
	Start        time.Time
	End          time.Time
	Bars         int
	StartBalance float64
	EndBalance   float64
	EndEquity    float64

	Report performance.Report
	Trades []journal.TradeRecord
	Equity []journal.EquitySnapshot
}

// Simulator drives the decision chain bar by bar.
type Simulator struct {
	cfg       Config
	sentiment strategy.SentimentSource
	predictor strategy.Predictor
}

// New wires a simulator. sentiment and predictor must be deterministic for
// the replay to be reproducible.
func New(cfg Config, sentiment strategy.SentimentSource, predictor strategy.Predictor) *Simulator {
	return &Simulator{cfg: cfg, sentiment: sentiment, predictor: predictor}
}

// Run replays bars in order. Each bar: check brackets at the close first,
// then compute indicators over all bars seen so far, generate a signal,
// size it, fill instantly at the close, and append an equity point.
func (s *Simulator) Run(bars market.Series) (Result, error) {
	if len(bars) == 0 {
		return Result{}, fmt.Errorf("backtest: no bars")
	}
	if err := bars.Validate(); err != nil {
		return Result{}, fmt.Errorf("backtest: %w", err)
	}
	if s.cfg.InitialBalance <= 0 {
		return Result{}, fmt.Errorf("backtest: initial balance %v must be positive", s.cfg.InitialBalance)
	}
	if err := s.cfg.Strategy.Validate(); err != nil {
		return Result{}, fmt.Errorf("backtest: %w", err)
	}
	if err := s.cfg.Risk.Validate(); err != nil {
		return Result{}, fmt.Errorf("backtest: %w", err)
	}

	mem := journal.NewMemory()
	var jrnl journal.Journal = mem
	if s.cfg.Extra != nil {
		jrnl = journal.Multi{mem, s.cfg.Extra}
	}

	book := position.NewBook(s.cfg.Symbol, s.cfg.InitialBalance, jrnl)
	eval := risk.NewEvaluator(s.cfg.Risk)
	minBars := s.cfg.Indicators.MinBars()

	for i, bar := range bars {
		if _, _, err := book.CheckBrackets(bar.Time, bar.Close); err != nil {
			return Result{}, err
		}

		if i+1 >= minBars {
			if err := s.step(book, eval, bars[:i+1], bar); err != nil {
				return Result{}, err
			}
		}

		if err := book.RecordEquity(bar.Time, bar.Close); err != nil {
			return Result{}, err
		}
	}

	last := bars[len(bars)-1]
	periods := s.cfg.PeriodsPerYear
	if periods <= 0 {
		periods = 365 * 24
	}

	return Result{
		Symbol:       s.cfg.Symbol,
		Start:        bars[0].Time,
		End:          last.Time,
		Bars:         len(bars),
		StartBalance: s.cfg.InitialBalance,
		EndBalance:   book.Cash(),
		EndEquity:    book.Equity(last.Close),
		Report:       performance.Compute(mem.Trades(), mem.Equity(), periods, 0),
		Trades:       mem.Trades(),
		Equity:       mem.Equity(),
	}, nil
}

// step runs one full decision cycle against the window ending at bar.
func (s *Simulator) step(book *position.Book, eval *risk.Evaluator, window market.Series, bar market.Bar) error {
	snap, err := indicators.Compute(window, s.cfg.Indicators)
	if err != nil {
		return err
	}

	sentiment, err := s.sentiment.Score(s.cfg.Symbol)
	if err != nil {
		return err
	}
	prediction, err := s.predictor.Predict(window)
	if err != nil {
		return err
	}

	params := s.cfg.Strategy.Adjust(snap.Regime, snap.Trend)
	sig := strategy.Generate(snap, sentiment, prediction, params)

	intent, ok := eval.Evaluate(sig, book.Equity(bar.Close), bar.Close, book.OpenQuantity(), snap.Volatility)
	if !ok {
		return nil
	}

	switch intent.Action {
	case strategy.Buy:
		_, err = book.Buy(bar.Time, bar.Close, intent)
	case strategy.Sell:
		_, err = book.Sell(bar.Time, bar.Close, journal.ReasonSignal)
	}
	return err
}
