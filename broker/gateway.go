// Package broker defines the market gateway the trading loop talks to, the
// error taxonomy gateway calls can fail with, and the retry policy applied
// to transient failures.
package broker

import (
	"context"
	"time"

	"github.com/rustyeddy/cryptobot/market"
)

// Side of an order.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// OrderType supported by the gateway.
type OrderType string

const (
	OrderMarket OrderType = "MARKET"
	OrderLimit  OrderType = "LIMIT"
)

// OrderRequest asks the gateway to place an order. Price is only used for
// limit orders.
type OrderRequest struct {
	Symbol   string
	Side     Side
	Type     OrderType
	Quantity float64
	Price    float64
}

// OrderConfirmation reports a placed (and for market orders, filled) order.
type OrderConfirmation struct {
	OrderID  string
	Symbol   string
	Side     Side
	Quantity float64
	Price    float64
	Time     time.Time
}

// Balance describes holdings for one asset.
type Balance struct {
	Free  float64
	Used  float64
	Total float64
}

// MarketGateway is the exchange-facing interface consumed by the trading
// loop. Implementations may fail with *NetworkError (retryable) or
// *ExchangeError (not retryable, except ErrOrderNotFound on cancel which is
// treated as already-cancelled).
type MarketGateway interface {
	LatestPrice(ctx context.Context, symbol string) (float64, error)
	Balances(ctx context.Context) (map[string]Balance, error)
	PlaceOrder(ctx context.Context, req OrderRequest) (OrderConfirmation, error)
	CancelOrder(ctx context.Context, orderID, symbol string) (bool, error)
	HistoricalBars(ctx context.Context, symbol, timeframe string, since, until time.Time) (market.Series, error)
}
