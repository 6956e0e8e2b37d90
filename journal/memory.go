package journal

// Memory keeps the ledger in process memory. The backtest simulator uses it
// so the performance aggregator can read the full series back without I/O.
type Memory struct {
	trades []TradeRecord
	equity []EquitySnapshot
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) RecordTrade(t TradeRecord) error {
	m.trades = append(m.trades, t)
	return nil
}

func (m *Memory) RecordEquity(e EquitySnapshot) error {
	m.equity = append(m.equity, e)
	return nil
}

// Trades returns the ledger in append order.
func (m *Memory) Trades() []TradeRecord {
	return m.trades
}

// Equity returns the equity curve in append order.
func (m *Memory) Equity() []EquitySnapshot {
	return m.equity
}

func (m *Memory) Close() error { return nil }
