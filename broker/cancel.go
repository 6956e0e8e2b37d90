package broker

import "context"

// Cancel cancels an order under the retry policy. An ORDER_NOT_FOUND
// rejection means the order is already gone and is reported as success.
func Cancel(ctx context.Context, gw MarketGateway, pol RetryPolicy, orderID, symbol string) (bool, error) {
	var ok bool
	err := pol.Do(ctx, func() error {
		var cerr error
		ok, cerr = gw.CancelOrder(ctx, orderID, symbol)
		return cerr
	})
	if IsExchangeCode(err, ErrOrderNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return ok, nil
}
