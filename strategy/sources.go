package strategy

import "github.com/rustyeddy/cryptobot/market"

// SentimentSource supplies an external sentiment score in [-1, 1].
type SentimentSource interface {
	Score(symbol string) (float64, error)
}

// Predictor supplies an external price forecast from recent bars.
type Predictor interface {
	Predict(recent market.Series) (float64, error)
}

// StaticSentiment is a fixed-score source, the deterministic stand-in used
// when no scraper is wired up.
type StaticSentiment float64

func (s StaticSentiment) Score(string) (float64, error) {
	return float64(s), nil
}

// DriftPredictor forecasts the next close by extrapolating the mean return
// over a trailing window. With Window 0 or a too-short series it degrades to
// the last close, which neutralizes the forecast gate.
type DriftPredictor struct {
	Window int
}

func (d DriftPredictor) Predict(recent market.Series) (float64, error) {
	last := recent.LastClose()
	if d.Window < 2 || len(recent) < d.Window+1 {
		return last, nil
	}

	rets := recent[len(recent)-d.Window-1:].Returns()
	drift := 0.0
	for _, r := range rets {
		drift += r
	}
	drift /= float64(len(rets))

	return last * (1 + drift), nil
}
