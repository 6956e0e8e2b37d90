// Package indicators computes derived time-series (moving averages, RSI,
// MACD, Bollinger Bands, volatility, trend and regime classification) from
// raw price bars. All functions are pure: the same input bars always produce
// the same output, which keeps backtests deterministic.
package indicators

import (
	"fmt"

	talib "github.com/markcheno/go-talib"

	"github.com/rustyeddy/cryptobot/market"
)

// SMA returns the simple moving average of closing price over the trailing
// window bars.
func SMA(bars market.Series, window int) (float64, error) {
	if window <= 0 {
		return 0, fmt.Errorf("window must be positive, got %d", window)
	}
	if len(bars) < window {
		return 0, fmt.Errorf("not enough bars: need %d, got %d", window, len(bars))
	}
	out := talib.Sma(bars.Closes(), window)
	return out[len(out)-1], nil
}

// RSI returns the Relative Strength Index over the trailing period bars,
// scaled to [0,100]. A window with no losses saturates at 100 rather than
// dividing by zero.
func RSI(bars market.Series, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(bars) < period+1 {
		return 0, fmt.Errorf("not enough bars: need %d, got %d", period+1, len(bars))
	}
	out := talib.Rsi(bars.Closes(), period)
	return out[len(out)-1], nil
}

// MACDResult holds the MACD line, its signal line and the histogram
// (macd - signal) for the most recent bar.
type MACDResult struct {
	MACD      float64
	Signal    float64
	Histogram float64
}

// MACD computes the Moving Average Convergence Divergence: the difference of
// fast and slow EMAs plus an EMA of that difference as the signal line.
func MACD(bars market.Series, fast, slow, signal int) (MACDResult, error) {
	if fast <= 0 || slow <= 0 || signal <= 0 {
		return MACDResult{}, fmt.Errorf("periods must be positive (fast=%d slow=%d signal=%d)", fast, slow, signal)
	}
	if fast >= slow {
		return MACDResult{}, fmt.Errorf("fast period %d must be below slow period %d", fast, slow)
	}
	need := slow + signal
	if len(bars) < need {
		return MACDResult{}, fmt.Errorf("not enough bars: need %d, got %d", need, len(bars))
	}
	macd, sig, hist := talib.Macd(bars.Closes(), fast, slow, signal)
	n := len(macd) - 1
	return MACDResult{MACD: macd[n], Signal: sig[n], Histogram: hist[n]}, nil
}

// Bands holds Bollinger Band levels for the most recent bar.
type Bands struct {
	Upper  float64
	Middle float64
	Lower  float64
}

// Bollinger computes rolling mean +/- numStd rolling standard deviations over
// the trailing window bars.
func Bollinger(bars market.Series, window int, numStd float64) (Bands, error) {
	if window <= 0 {
		return Bands{}, fmt.Errorf("window must be positive, got %d", window)
	}
	if len(bars) < window {
		return Bands{}, fmt.Errorf("not enough bars: need %d, got %d", window, len(bars))
	}
	upper, middle, lower := talib.BBands(bars.Closes(), window, numStd, numStd, talib.SMA)
	n := len(upper) - 1
	return Bands{Upper: upper[n], Middle: middle[n], Lower: lower[n]}, nil
}

// Volatility returns the standard deviation of close-to-close returns over
// the trailing window.
func Volatility(bars market.Series, window int) (float64, error) {
	if window <= 1 {
		return 0, fmt.Errorf("window must be at least 2, got %d", window)
	}
	rets := bars.Returns()
	if len(rets) < window {
		return 0, fmt.Errorf("not enough returns: need %d, got %d", window, len(rets))
	}
	out := talib.StdDev(rets, window, 1.0)
	return out[len(out)-1], nil
}

// SupportResistance returns the trailing-window low and high, used as
// bracket clamps by the signal generator.
func SupportResistance(bars market.Series, window int) (support, resistance float64, err error) {
	if window <= 0 {
		return 0, 0, fmt.Errorf("window must be positive, got %d", window)
	}
	if len(bars) < window {
		return 0, 0, fmt.Errorf("not enough bars: need %d, got %d", window, len(bars))
	}
	mins := talib.Min(bars.Lows(), window)
	maxs := talib.Max(bars.Highs(), window)
	return mins[len(mins)-1], maxs[len(maxs)-1], nil
}
