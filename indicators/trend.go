package indicators

import "github.com/rustyeddy/cryptobot/market"

// Trend classifies price action relative to its short and long SMAs.
type Trend string

const (
	Uptrend   Trend = "UPTREND"
	Downtrend Trend = "DOWNTREND"
	Sideways  Trend = "SIDEWAYS"
)

// IdentifyTrend reports UPTREND when price > short SMA > long SMA, DOWNTREND
// when price < short SMA < long SMA, and SIDEWAYS otherwise.
func IdentifyTrend(bars market.Series, short, long int) (Trend, error) {
	smaShort, err := SMA(bars, short)
	if err != nil {
		return Sideways, err
	}
	smaLong, err := SMA(bars, long)
	if err != nil {
		return Sideways, err
	}

	price := bars.LastClose()
	switch {
	case price > smaShort && smaShort > smaLong:
		return Uptrend, nil
	case price < smaShort && smaShort < smaLong:
		return Downtrend, nil
	default:
		return Sideways, nil
	}
}
