package journal

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	symbol TEXT NOT NULL,
	time DATETIME NOT NULL,
	action TEXT NOT NULL,
	price REAL NOT NULL,
	quantity REAL NOT NULL,
	realized_pl REAL NOT NULL,
	reason TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS equity (
	time DATETIME NOT NULL,
	balance REAL NOT NULL,
	equity REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_time ON trades(time);
CREATE INDEX IF NOT EXISTS idx_equity_time ON equity(time);
`

// SQLite persists the ledger in a SQLite database.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades (trade_id, symbol, time, action, price, quantity, realized_pl, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.Symbol, t.Time.UTC(), t.Action, t.Price, t.Quantity, t.RealizedPL, t.Reason,
	)
	return err
}

func (j *SQLite) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity (time, balance, equity) VALUES (?, ?, ?)`,
		e.Time.UTC(), e.Balance, e.Equity,
	)
	return err
}

// ListTrades returns the ledger ordered by time.
func (j *SQLite) ListTrades() ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, symbol, time, action, price, quantity, realized_pl, reason
		FROM trades ORDER BY time ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var rec TradeRecord
		var ts time.Time
		if err := rows.Scan(&rec.TradeID, &rec.Symbol, &ts, &rec.Action,
			&rec.Price, &rec.Quantity, &rec.RealizedPL, &rec.Reason); err != nil {
			return nil, err
		}
		rec.Time = ts.UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListEquity returns the equity curve ordered by time.
func (j *SQLite) ListEquity() ([]EquitySnapshot, error) {
	rows, err := j.db.Query(`SELECT time, balance, equity FROM equity ORDER BY time ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquitySnapshot
	for rows.Next() {
		var e EquitySnapshot
		var ts time.Time
		if err := rows.Scan(&ts, &e.Balance, &e.Equity); err != nil {
			return nil, err
		}
		e.Time = ts.UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
