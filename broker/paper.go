package broker

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rustyeddy/cryptobot/internal/id"
	"github.com/rustyeddy/cryptobot/market"
)

// Paper is an in-memory gateway that fills orders instantly at the last
// observed price. It is the default collaborator for paper trading and for
// exercising the live loop without touching an exchange.
type Paper struct {
	mu       sync.Mutex
	prices   map[string]float64
	times    map[string]time.Time
	bars     map[string]market.Series
	balances map[string]Balance
}

// NewPaper returns a paper gateway funded with cash units of quoteAsset.
func NewPaper(quoteAsset string, cash float64) *Paper {
	return &Paper{
		prices: make(map[string]float64),
		times:  make(map[string]time.Time),
		bars:   make(map[string]market.Series),
		balances: map[string]Balance{
			quoteAsset: {Free: cash, Total: cash},
		},
	}
}

// SetPrice records the latest observed price for symbol.
func (g *Paper) SetPrice(symbol string, price float64, t time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prices[symbol] = price
	g.times[symbol] = t
}

// LoadBars seeds historical bars for symbol.
func (g *Paper) LoadBars(symbol string, bars market.Series) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.bars[symbol] = bars
}

func (g *Paper) LatestPrice(ctx context.Context, symbol string) (float64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.prices[symbol]
	if !ok {
		// No tick yet: transient from the caller's point of view.
		return 0, &NetworkError{Op: "latest price " + symbol, Err: fmt.Errorf("no price observed")}
	}
	return p, nil
}

func (g *Paper) Balances(ctx context.Context) (map[string]Balance, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make(map[string]Balance, len(g.balances))
	for k, v := range g.balances {
		out[k] = v
	}
	return out, nil
}

func (g *Paper) PlaceOrder(ctx context.Context, req OrderRequest) (OrderConfirmation, error) {
	if req.Quantity <= 0 {
		return OrderConfirmation{}, &ExchangeError{Code: ErrInvalidOrder, Msg: fmt.Sprintf("quantity %v", req.Quantity)}
	}
	if req.Side != SideBuy && req.Side != SideSell {
		return OrderConfirmation{}, &ExchangeError{Code: ErrInvalidOrder, Msg: "unknown side " + string(req.Side)}
	}

	base, quote, err := splitSymbol(req.Symbol)
	if err != nil {
		return OrderConfirmation{}, &ExchangeError{Code: ErrInvalidOrder, Msg: err.Error()}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	price := req.Price
	if req.Type == OrderMarket {
		p, ok := g.prices[req.Symbol]
		if !ok {
			return OrderConfirmation{}, &NetworkError{Op: "fill " + req.Symbol, Err: fmt.Errorf("no price observed")}
		}
		price = p
	}
	if price <= 0 {
		return OrderConfirmation{}, &ExchangeError{Code: ErrInvalidOrder, Msg: fmt.Sprintf("price %v", price)}
	}

	cost := req.Quantity * price
	if req.Side == SideBuy {
		q := g.balances[quote]
		if q.Free < cost {
			return OrderConfirmation{}, &ExchangeError{
				Code: ErrInsufficientFunds,
				Msg:  fmt.Sprintf("need %.8f %s, have %.8f", cost, quote, q.Free),
			}
		}
		g.credit(quote, -cost)
		g.credit(base, req.Quantity)
	} else {
		b := g.balances[base]
		if b.Free < req.Quantity {
			return OrderConfirmation{}, &ExchangeError{
				Code: ErrInsufficientFunds,
				Msg:  fmt.Sprintf("need %.8f %s, have %.8f", req.Quantity, base, b.Free),
			}
		}
		g.credit(base, -req.Quantity)
		g.credit(quote, cost)
	}

	return OrderConfirmation{
		OrderID:  id.New(),
		Symbol:   req.Symbol,
		Side:     req.Side,
		Quantity: req.Quantity,
		Price:    price,
		Time:     g.times[req.Symbol],
	}, nil
}

func (g *Paper) CancelOrder(ctx context.Context, orderID, symbol string) (bool, error) {
	// Market orders fill instantly, so there is never a resting order.
	return false, &ExchangeError{Code: ErrOrderNotFound, Msg: "order " + orderID}
}

func (g *Paper) HistoricalBars(ctx context.Context, symbol, timeframe string, since, until time.Time) (market.Series, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	all, ok := g.bars[symbol]
	if !ok {
		return nil, &ExchangeError{Code: ErrInvalidOrder, Msg: "no data for " + symbol}
	}

	var out market.Series
	for _, b := range all {
		if b.Time.Before(since) {
			continue
		}
		if !until.IsZero() && !b.Time.Before(until) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (g *Paper) credit(asset string, delta float64) {
	b := g.balances[asset]
	b.Free += delta
	b.Total += delta
	g.balances[asset] = b
}

func splitSymbol(symbol string) (base, quote string, err error) {
	parts := strings.Split(symbol, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("symbol %q must look like BASE/QUOTE", symbol)
	}
	return parts[0], parts[1], nil
}
