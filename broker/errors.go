package broker

import (
	"errors"
	"fmt"
)

// NetworkError is a transient transport failure (timeout, rate limit,
// connection reset). Callers may retry under a policy.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network: %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ExchangeCode distinguishes semantic rejections from the exchange.
type ExchangeCode string

const (
	ErrInsufficientFunds ExchangeCode = "INSUFFICIENT_FUNDS"
	ErrInvalidOrder      ExchangeCode = "INVALID_ORDER"
	ErrOrderNotFound     ExchangeCode = "ORDER_NOT_FOUND"
)

// ExchangeError is a semantic rejection. It is never retried: the intended
// action simply did not happen.
type ExchangeError struct {
	Code ExchangeCode
	Msg  string
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("exchange: %s: %s", e.Code, e.Msg)
}

// Retryable reports whether err may succeed on retry.
func Retryable(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsExchangeCode reports whether err is an exchange rejection with the
// given code.
func IsExchangeCode(err error, code ExchangeCode) bool {
	var ee *ExchangeError
	return errors.As(err, &ee) && ee.Code == code
}
