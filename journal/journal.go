// Package journal records the immutable trade ledger and equity curve
// produced by both the backtest simulator and the live loop.
package journal

import "time"

// Reason explains why a trade was executed.
const (
	ReasonSignal     = "SIGNAL"
	ReasonStopLoss   = "STOP_LOSS"
	ReasonTakeProfit = "TAKE_PROFIT"
)

// TradeRecord is appended to the ledger on every fill. RealizedPL is only
// set on SELL records.
type TradeRecord struct {
	TradeID    string
	Symbol     string
	Time       time.Time
	Action     string // BUY or SELL
	Price      float64
	Quantity   float64
	RealizedPL float64
	Reason     string
}

// EquitySnapshot is appended once per decision cycle.
type EquitySnapshot struct {
	Time    time.Time
	Balance float64 // free cash
	Equity  float64 // cash + marked position value
}

// Journal persists trade records and equity snapshots.
type Journal interface {
	RecordTrade(TradeRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}
