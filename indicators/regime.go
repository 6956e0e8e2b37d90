package indicators

import (
	"fmt"
	"math"

	"github.com/rustyeddy/cryptobot/market"
)

// Regime classifies overall market conditions from the return series.
type Regime string

const (
	HighVolatility Regime = "HIGH_VOLATILITY"
	LowVolatility  Regime = "LOW_VOLATILITY"
	BullMarket     Regime = "BULL_MARKET"
	BearMarket     Regime = "BEAR_MARKET"
)

// adfCritical5Pct is the 5% critical value for the augmented Dickey-Fuller
// test with a constant term (large-sample approximation).
const adfCritical5Pct = -2.86

// minRegimeBars is the smallest series the regression behind DetectRegime
// can be fit on.
const minRegimeBars = 8

// DetectRegime classifies the market from close-to-close returns. Stationary
// returns (augmented Dickey-Fuller test at the 5% level) split on the
// volatility threshold into HIGH_VOLATILITY or LOW_VOLATILITY; non-stationary
// returns split on mean sign into BULL_MARKET or BEAR_MARKET.
func DetectRegime(bars market.Series, volThreshold float64) (Regime, error) {
	if len(bars) < 2 {
		return LowVolatility, fmt.Errorf("not enough bars: need 2, got %d", len(bars))
	}

	rets := bars.Returns()
	sd := stdev(rets)

	// A flat series has zero-variance returns; the unit-root regression
	// degenerates, and the series is trivially stationary.
	if sd == 0 {
		return LowVolatility, nil
	}

	if len(bars) < minRegimeBars {
		return LowVolatility, fmt.Errorf("not enough bars: need %d, got %d", minRegimeBars, len(bars))
	}

	stat, ok := adfStat(rets)
	stationary := ok && stat < adfCritical5Pct

	if stationary {
		if sd > volThreshold {
			return HighVolatility, nil
		}
		return LowVolatility, nil
	}

	if mean(rets) > 0 {
		return BullMarket, nil
	}
	return BearMarket, nil
}

// adfStat fits the augmented Dickey-Fuller regression with one lag,
//
//	dy[t] = a + b*y[t-1] + c*dy[t-1] + e[t]
//
// and returns the t-statistic of b. ok is false when the regression cannot
// be fit (singular design or too few observations).
func adfStat(y []float64) (stat float64, ok bool) {
	n := len(y)
	if n < 5 {
		return 0, false
	}

	dy := make([]float64, n-1)
	for i := 1; i < n; i++ {
		dy[i-1] = y[i] - y[i-1]
	}

	// Rows t = 2..n-1: response dy[t-1], regressors {1, y[t-1], dy[t-2]}.
	m := n - 2
	if m < 4 {
		return 0, false
	}

	var xtx [3][3]float64
	var xty [3]float64
	for t := 2; t < n; t++ {
		row := [3]float64{1, y[t-1], dy[t-2]}
		resp := dy[t-1]
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				xtx[i][j] += row[i] * row[j]
			}
			xty[i] += row[i] * resp
		}
	}

	inv, ok := invert3(xtx)
	if !ok {
		return 0, false
	}

	var beta [3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			beta[i] += inv[i][j] * xty[j]
		}
	}

	// Residual sum of squares.
	rss := 0.0
	for t := 2; t < n; t++ {
		pred := beta[0] + beta[1]*y[t-1] + beta[2]*dy[t-2]
		r := dy[t-1] - pred
		rss += r * r
	}

	df := float64(m - 3)
	if df <= 0 {
		return 0, false
	}
	s2 := rss / df
	seB := math.Sqrt(s2 * inv[1][1])
	if seB == 0 || math.IsNaN(seB) || math.IsInf(seB, 0) {
		return 0, false
	}
	return beta[1] / seB, true
}

// invert3 inverts a symmetric 3x3 matrix via cofactors.
func invert3(a [3][3]float64) (inv [3][3]float64, ok bool) {
	det := a[0][0]*(a[1][1]*a[2][2]-a[1][2]*a[2][1]) -
		a[0][1]*(a[1][0]*a[2][2]-a[1][2]*a[2][0]) +
		a[0][2]*(a[1][0]*a[2][1]-a[1][1]*a[2][0])
	if math.Abs(det) < 1e-18 {
		return inv, false
	}

	inv[0][0] = (a[1][1]*a[2][2] - a[1][2]*a[2][1]) / det
	inv[0][1] = (a[0][2]*a[2][1] - a[0][1]*a[2][2]) / det
	inv[0][2] = (a[0][1]*a[1][2] - a[0][2]*a[1][1]) / det
	inv[1][0] = (a[1][2]*a[2][0] - a[1][0]*a[2][2]) / det
	inv[1][1] = (a[0][0]*a[2][2] - a[0][2]*a[2][0]) / det
	inv[1][2] = (a[0][2]*a[1][0] - a[0][0]*a[1][2]) / det
	inv[2][0] = (a[1][0]*a[2][1] - a[1][1]*a[2][0]) / det
	inv[2][1] = (a[0][1]*a[2][0] - a[0][0]*a[2][1]) / det
	inv[2][2] = (a[0][0]*a[1][1] - a[0][1]*a[1][0]) / det
	return inv, true
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stdev is the sample standard deviation.
func stdev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	mu := mean(xs)
	ss := 0.0
	for _, x := range xs {
		d := x - mu
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}
