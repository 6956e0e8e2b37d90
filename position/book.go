// Package position tracks one open position per symbol, applies stop-loss
// and take-profit triggers on each new price, and realizes profit on close.
package position

import (
	"fmt"
	"time"

	"github.com/rustyeddy/cryptobot/journal"
	"github.com/rustyeddy/cryptobot/risk"
)

// State of the book: flat or holding a position.
type State string

const (
	Flat State = "FLAT"
	Open State = "OPEN"
)

// Position is a held long position with its bracket levels. It is owned
// exclusively by the Book.
type Position struct {
	Symbol     string
	Quantity   float64
	EntryPrice float64
	StopLoss   float64
	TakeProfit float64
	OpenedAt   time.Time
}

// Book is the position/order state machine for a single symbol. It owns the
// cash balance and the single open position, and records every fill and
// equity point through the journal. The Book has exactly one writer at a
// time by construction: both the live loop and the backtest are strictly
// sequential drivers.
type Book struct {
	symbol string
	cash   float64
	pos    *Position
	jrnl   journal.Journal
	seq    int
}

// NewBook returns a flat book with the given starting cash.
func NewBook(symbol string, initialCash float64, j journal.Journal) *Book {
	return &Book{symbol: symbol, cash: initialCash, jrnl: j}
}

// State reports FLAT or OPEN.
func (b *Book) State() State {
	if b.pos != nil {
		return Open
	}
	return Flat
}

// Position returns a copy of the open position, if any.
func (b *Book) Position() (Position, bool) {
	if b.pos == nil {
		return Position{}, false
	}
	return *b.pos, true
}

// OpenQuantity returns the held quantity, 0 when flat.
func (b *Book) OpenQuantity() float64 {
	if b.pos == nil {
		return 0
	}
	return b.pos.Quantity
}

// Cash returns the free cash balance.
func (b *Book) Cash() float64 { return b.cash }

// Equity returns cash plus the position marked at price.
func (b *Book) Equity(price float64) float64 {
	if b.pos == nil {
		return b.cash
	}
	return b.cash + b.pos.Quantity*price
}

// nextTradeID issues ledger IDs that are deterministic for a given fill
// sequence, so replaying a backtest reproduces the ledger byte for byte.
func (b *Book) nextTradeID() string {
	b.seq++
	return fmt.Sprintf("%s-%06d", b.symbol, b.seq)
}

// Buy transitions FLAT -> OPEN on a confirmed fill. A BUY while a position
// is already open is ignored, not queued. A fill costing more than the
// available cash is rejected.
func (b *Book) Buy(t time.Time, price float64, intent risk.OrderIntent) (bool, error) {
	if b.pos != nil {
		return false, nil
	}
	if intent.Quantity <= 0 || price <= 0 {
		return false, nil
	}

	cost := intent.Quantity * price
	if cost > b.cash {
		return false, nil
	}

	b.cash -= cost
	b.pos = &Position{
		Symbol:     b.symbol,
		Quantity:   intent.Quantity,
		EntryPrice: price,
		StopLoss:   intent.StopLoss,
		TakeProfit: intent.TakeProfit,
		OpenedAt:   t,
	}

	err := b.jrnl.RecordTrade(journal.TradeRecord{
		TradeID:  b.nextTradeID(),
		Symbol:   b.symbol,
		Time:     t,
		Action:   "BUY",
		Price:    price,
		Quantity: intent.Quantity,
		Reason:   journal.ReasonSignal,
	})
	return true, err
}

// Sell transitions OPEN -> FLAT on a confirmed fill, realizing
// quantity * (exit - entry). Selling while flat is a no-op.
func (b *Book) Sell(t time.Time, price float64, reason string) (float64, error) {
	if b.pos == nil {
		return 0, nil
	}

	p := b.pos
	b.pos = nil

	proceeds := p.Quantity * price
	realized := p.Quantity * (price - p.EntryPrice)
	b.cash += proceeds

	err := b.jrnl.RecordTrade(journal.TradeRecord{
		TradeID:    b.nextTradeID(),
		Symbol:     b.symbol,
		Time:       t,
		Action:     "SELL",
		Price:      price,
		Quantity:   p.Quantity,
		RealizedPL: realized,
		Reason:     reason,
	})
	return realized, err
}

// CheckBrackets closes the open position when price crosses its stop-loss or
// take-profit boundary. The stop is checked first. Drivers call this on
// every bar/tick before evaluating a new signal, so a triggered bracket
// pre-empts the signal generator for that cycle.
func (b *Book) CheckBrackets(t time.Time, price float64) (closed bool, reason string, err error) {
	if b.pos == nil {
		return false, "", nil
	}

	switch {
	case b.pos.StopLoss > 0 && price <= b.pos.StopLoss:
		reason = journal.ReasonStopLoss
	case b.pos.TakeProfit > 0 && price >= b.pos.TakeProfit:
		reason = journal.ReasonTakeProfit
	default:
		return false, "", nil
	}

	_, err = b.Sell(t, price, reason)
	return true, reason, err
}

// RecordEquity appends an equity point for the current cycle.
func (b *Book) RecordEquity(t time.Time, price float64) error {
	return b.jrnl.RecordEquity(journal.EquitySnapshot{
		Time:    t,
		Balance: b.cash,
		Equity:  b.Equity(price),
	})
}
