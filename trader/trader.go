// Package trader runs the live decision loop: one decision cycle per
// interval over the same signal, risk and position chain the backtest uses,
// with orders routed through a market gateway.
package trader

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rustyeddy/cryptobot/broker"
	"github.com/rustyeddy/cryptobot/indicators"
	"github.com/rustyeddy/cryptobot/journal"
	"github.com/rustyeddy/cryptobot/market"
	"github.com/rustyeddy/cryptobot/position"
	"github.com/rustyeddy/cryptobot/risk"
	"github.com/rustyeddy/cryptobot/strategy"
)

// Config for the live loop.
type Config struct {
	Symbol         string
	Timeframe      string
	Interval       time.Duration
	ErrorCooldown  time.Duration
	HistoryBars    int
	InitialBalance float64

	Indicators indicators.Config
	Strategy   strategy.Params
	Risk       risk.Params
}

// Trader drives one symbol. It is strictly sequential: a cycle runs to
// completion before the next starts, and cancellation is only observed
// between cycles, so the ledger is consistent at any observation point.
type Trader struct {
	cfg       Config
	gw        broker.MarketGateway
	retry     broker.RetryPolicy
	sentiment strategy.SentimentSource
	predictor strategy.Predictor
	book      *position.Book
	eval      *risk.Evaluator
	log       *logrus.Entry
	bars      market.Series
}

// New wires a trader. jrnl receives every fill and equity point.
func New(cfg Config, gw broker.MarketGateway, pol broker.RetryPolicy,
	sentiment strategy.SentimentSource, predictor strategy.Predictor,
	jrnl journal.Journal, log *logrus.Logger) (*Trader, error) {

	if cfg.Symbol == "" {
		return nil, fmt.Errorf("trader: symbol is required")
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("trader: interval %v must be positive", cfg.Interval)
	}
	if cfg.InitialBalance <= 0 {
		return nil, fmt.Errorf("trader: initial balance %v must be positive", cfg.InitialBalance)
	}
	if err := cfg.Strategy.Validate(); err != nil {
		return nil, fmt.Errorf("trader: %w", err)
	}
	if err := cfg.Risk.Validate(); err != nil {
		return nil, fmt.Errorf("trader: %w", err)
	}
	if cfg.HistoryBars < cfg.Indicators.MinBars() {
		cfg.HistoryBars = 4 * cfg.Indicators.MinBars()
	}
	if cfg.ErrorCooldown <= 0 {
		cfg.ErrorCooldown = cfg.Interval
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Trader{
		cfg:       cfg,
		gw:        gw,
		retry:     pol,
		sentiment: sentiment,
		predictor: predictor,
		book:      position.NewBook(cfg.Symbol, cfg.InitialBalance, jrnl),
		eval:      risk.NewEvaluator(cfg.Risk),
		log:       log.WithField("symbol", cfg.Symbol),
	}, nil
}

// Book exposes the position state machine, mainly for inspection.
func (t *Trader) Book() *position.Book { return t.book }

// Run warms up the bar history, then executes one cycle per interval until
// ctx is cancelled. A failed cycle is logged and the loop pauses for the
// error cooldown instead of the regular interval.
func (t *Trader) Run(ctx context.Context) error {
	if err := t.warmup(ctx); err != nil {
		return err
	}
	t.log.WithFields(logrus.Fields{
		"interval": t.cfg.Interval,
		"bars":     len(t.bars),
	}).Info("live loop started")

	for {
		pause := t.cfg.Interval
		if err := t.Cycle(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			t.log.WithError(err).Warn("cycle failed, backing off")
			pause = t.cfg.ErrorCooldown
		}

		select {
		case <-ctx.Done():
			t.log.Info("live loop stopped")
			return ctx.Err()
		case <-time.After(pause):
		}
	}
}

// warmup seeds the rolling bar window from gateway history.
func (t *Trader) warmup(ctx context.Context) error {
	since := time.Now().UTC().Add(-time.Duration(t.cfg.HistoryBars) * t.cfg.Interval)

	var bars market.Series
	err := t.retry.Do(ctx, func() error {
		var herr error
		bars, herr = t.gw.HistoricalBars(ctx, t.cfg.Symbol, t.cfg.Timeframe, since, time.Time{})
		return herr
	})
	if err != nil {
		return fmt.Errorf("trader: warmup: %w", err)
	}

	t.bars = bars
	t.trimBars()
	return nil
}

// Cycle runs one full decision cycle: observe a price, apply brackets,
// compute indicators over the rolling window, generate and size a signal,
// execute it, and append an equity point.
func (t *Trader) Cycle(ctx context.Context) error {
	var price float64
	err := t.retry.Do(ctx, func() error {
		var perr error
		price, perr = t.gw.LatestPrice(ctx, t.cfg.Symbol)
		return perr
	})
	if err != nil {
		return fmt.Errorf("latest price: %w", err)
	}

	now := time.Now().UTC()
	t.appendTick(now, price)

	if err := t.applyBrackets(ctx, now, price); err != nil {
		return err
	}

	if len(t.bars) >= t.cfg.Indicators.MinBars() {
		if err := t.decide(ctx, now, price); err != nil {
			return err
		}
	}

	return t.book.RecordEquity(now, price)
}

// appendTick folds the observed price into the rolling window as a one-tick
// bar and trims the window to the configured history.
func (t *Trader) appendTick(now time.Time, price float64) {
	if n := len(t.bars); n > 0 && !t.bars[n-1].Time.Before(now) {
		now = t.bars[n-1].Time.Add(time.Millisecond)
	}
	t.bars = append(t.bars, market.Bar{
		Time: now, Open: price, High: price, Low: price, Close: price,
	})
	t.trimBars()
}

func (t *Trader) trimBars() {
	if len(t.bars) > t.cfg.HistoryBars {
		t.bars = append(market.Series(nil), t.bars[len(t.bars)-t.cfg.HistoryBars:]...)
	}
}

// applyBrackets closes an open position whose stop or take-profit the price
// has crossed, mirroring the close at the gateway before updating the book.
// The stop wins when both trigger.
func (t *Trader) applyBrackets(ctx context.Context, now time.Time, price float64) error {
	pos, ok := t.book.Position()
	if !ok {
		return nil
	}

	var reason string
	switch {
	case pos.StopLoss > 0 && price <= pos.StopLoss:
		reason = journal.ReasonStopLoss
	case pos.TakeProfit > 0 && price >= pos.TakeProfit:
		reason = journal.ReasonTakeProfit
	default:
		return nil
	}

	if err := t.placeMarket(ctx, broker.SideSell, pos.Quantity); err != nil {
		return fmt.Errorf("bracket close: %w", err)
	}
	pl, err := t.book.Sell(now, price, reason)
	if err != nil {
		return err
	}
	t.log.WithFields(logrus.Fields{
		"reason":   reason,
		"price":    price,
		"realized": pl,
	}).Info("position closed")
	return nil
}

// decide evaluates the signal chain for the current window and executes any
// resulting intent at the gateway, then in the book.
func (t *Trader) decide(ctx context.Context, now time.Time, price float64) error {
	snap, err := indicators.Compute(t.bars, t.cfg.Indicators)
	if err != nil {
		return err
	}
	score, err := t.sentiment.Score(t.cfg.Symbol)
	if err != nil {
		return fmt.Errorf("sentiment: %w", err)
	}
	prediction, err := t.predictor.Predict(t.bars)
	if err != nil {
		return fmt.Errorf("prediction: %w", err)
	}

	params := t.cfg.Strategy.Adjust(snap.Regime, snap.Trend)
	sig := strategy.Generate(snap, score, prediction, params)

	intent, ok := t.eval.Evaluate(sig, t.book.Equity(price), price, t.book.OpenQuantity(), snap.Volatility)
	if !ok {
		return nil
	}

	switch intent.Action {
	case strategy.Buy:
		if t.book.State() == position.Open {
			return nil
		}
		if err := t.placeMarket(ctx, broker.SideBuy, intent.Quantity); err != nil {
			if broker.IsExchangeCode(err, broker.ErrInsufficientFunds) {
				t.log.WithError(err).Warn("buy rejected")
				return nil
			}
			return err
		}
		opened, err := t.book.Buy(now, price, intent)
		if err != nil {
			return err
		}
		if opened {
			t.log.WithFields(logrus.Fields{
				"qty":         intent.Quantity,
				"price":       price,
				"stop_loss":   intent.StopLoss,
				"take_profit": intent.TakeProfit,
			}).Info("position opened")
		}

	case strategy.Sell:
		if err := t.placeMarket(ctx, broker.SideSell, intent.Quantity); err != nil {
			return err
		}
		pl, err := t.book.Sell(now, price, journal.ReasonSignal)
		if err != nil {
			return err
		}
		t.log.WithFields(logrus.Fields{
			"qty":      intent.Quantity,
			"price":    price,
			"realized": pl,
		}).Info("position closed")
	}
	return nil
}

// placeMarket submits a market order under the retry policy. Semantic
// rejections surface immediately.
func (t *Trader) placeMarket(ctx context.Context, side broker.Side, qty float64) error {
	return t.retry.Do(ctx, func() error {
		_, err := t.gw.PlaceOrder(ctx, broker.OrderRequest{
			Symbol:   t.cfg.Symbol,
			Side:     side,
			Type:     broker.OrderMarket,
			Quantity: qty,
		})
		return err
	})
}
