// Package market defines the price data model shared by every stage of the
// decision pipeline.
package market

import (
	"fmt"
	"time"
)

// Bar represents OHLCV (Open, High, Low, Close, Volume) candlestick data for
// one time interval. Bars are immutable once produced.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Series is an ordered sequence of bars with strictly increasing timestamps.
type Series []Bar

// Validate checks the series ordering invariant.
func (s Series) Validate() error {
	for i := 1; i < len(s); i++ {
		if !s[i].Time.After(s[i-1].Time) {
			return fmt.Errorf("bar %d: timestamp %s not after previous %s",
				i, s[i].Time.Format(time.RFC3339), s[i-1].Time.Format(time.RFC3339))
		}
	}
	return nil
}

// Closes returns the closing prices as a flat slice, the shape the indicator
// math operates on.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Close
	}
	return out
}

// Highs returns the high prices as a flat slice.
func (s Series) Highs() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.High
	}
	return out
}

// Lows returns the low prices as a flat slice.
func (s Series) Lows() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Low
	}
	return out
}

// LastClose returns the most recent closing price, or 0 for an empty series.
func (s Series) LastClose() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].Close
}

// Returns computes close-to-close fractional returns. The result has
// len(s)-1 entries; an empty or single-bar series yields nil.
func (s Series) Returns() []float64 {
	if len(s) < 2 {
		return nil
	}
	out := make([]float64, 0, len(s)-1)
	for i := 1; i < len(s); i++ {
		prev := s[i-1].Close
		if prev == 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, (s[i].Close-prev)/prev)
	}
	return out
}
