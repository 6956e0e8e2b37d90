package indicators

import (
	"fmt"

	"github.com/rustyeddy/cryptobot/market"
)

// Config carries every window the snapshot computation needs. The zero value
// is not usable; start from DefaultConfig.
type Config struct {
	SMAShort int `json:"sma_short" yaml:"sma_short"`
	SMALong  int `json:"sma_long" yaml:"sma_long"`

	RSIPeriod int `json:"rsi_period" yaml:"rsi_period"`

	MACDFast   int `json:"macd_fast" yaml:"macd_fast"`
	MACDSlow   int `json:"macd_slow" yaml:"macd_slow"`
	MACDSignal int `json:"macd_signal" yaml:"macd_signal"`

	BollingerWindow int     `json:"bollinger_window" yaml:"bollinger_window"`
	BollingerStd    float64 `json:"bollinger_std" yaml:"bollinger_std"`

	VolatilityWindow int `json:"volatility_window" yaml:"volatility_window"`
	LevelsWindow     int `json:"levels_window" yaml:"levels_window"`

	// RegimeThreshold splits stationary return series into high and low
	// volatility regimes.
	RegimeThreshold float64 `json:"regime_threshold" yaml:"regime_threshold"`
}

// DefaultConfig returns the standard windows.
func DefaultConfig() Config {
	return Config{
		SMAShort:         10,
		SMALong:          30,
		RSIPeriod:        14,
		MACDFast:         12,
		MACDSlow:         26,
		MACDSignal:       9,
		BollingerWindow:  20,
		BollingerStd:     2.0,
		VolatilityWindow: 20,
		LevelsWindow:     20,
		RegimeThreshold:  0.03,
	}
}

// MinBars returns the longest trailing window any snapshot component needs.
// Series shorter than this cannot produce a valid snapshot and callers must
// treat the cycle as HOLD.
func (c Config) MinBars() int {
	need := c.SMALong
	if v := c.SMAShort; v > need {
		need = v
	}
	if v := c.RSIPeriod + 1; v > need {
		need = v
	}
	if v := c.MACDSlow + c.MACDSignal; v > need {
		need = v
	}
	if v := c.BollingerWindow; v > need {
		need = v
	}
	if v := c.VolatilityWindow + 1; v > need {
		need = v
	}
	if v := c.LevelsWindow; v > need {
		need = v
	}
	if minRegimeBars > need {
		need = minRegimeBars
	}
	return need
}

// Snapshot holds every derived value computed from a trailing window ending
// at the most recent bar. Snapshots are recomputed per bar and never
// persisted.
type Snapshot struct {
	Price float64

	SMAShort float64
	SMALong  float64
	RSI      float64

	MACD       float64
	MACDSignal float64
	MACDHist   float64

	BollingerUpper  float64
	BollingerMiddle float64
	BollingerLower  float64

	Trend  Trend
	Regime Regime

	Support    float64
	Resistance float64
	Volatility float64
}

// Compute assembles the full snapshot over bars. It fails when the series is
// shorter than Config.MinBars; callers must not treat a failed snapshot as a
// valid signal input.
func Compute(bars market.Series, cfg Config) (Snapshot, error) {
	if len(bars) < cfg.MinBars() {
		return Snapshot{}, fmt.Errorf("indicators: need %d bars, got %d", cfg.MinBars(), len(bars))
	}

	var (
		snap Snapshot
		err  error
	)
	snap.Price = bars.LastClose()

	if snap.SMAShort, err = SMA(bars, cfg.SMAShort); err != nil {
		return Snapshot{}, err
	}
	if snap.SMALong, err = SMA(bars, cfg.SMALong); err != nil {
		return Snapshot{}, err
	}
	if snap.RSI, err = RSI(bars, cfg.RSIPeriod); err != nil {
		return Snapshot{}, err
	}

	macd, err := MACD(bars, cfg.MACDFast, cfg.MACDSlow, cfg.MACDSignal)
	if err != nil {
		return Snapshot{}, err
	}
	snap.MACD = macd.MACD
	snap.MACDSignal = macd.Signal
	snap.MACDHist = macd.Histogram

	bands, err := Bollinger(bars, cfg.BollingerWindow, cfg.BollingerStd)
	if err != nil {
		return Snapshot{}, err
	}
	snap.BollingerUpper = bands.Upper
	snap.BollingerMiddle = bands.Middle
	snap.BollingerLower = bands.Lower

	if snap.Trend, err = IdentifyTrend(bars, cfg.SMAShort, cfg.SMALong); err != nil {
		return Snapshot{}, err
	}
	if snap.Regime, err = DetectRegime(bars, cfg.RegimeThreshold); err != nil {
		return Snapshot{}, err
	}
	if snap.Support, snap.Resistance, err = SupportResistance(bars, cfg.LevelsWindow); err != nil {
		return Snapshot{}, err
	}
	if snap.Volatility, err = Volatility(bars, cfg.VolatilityWindow); err != nil {
		return Snapshot{}, err
	}

	return snap, nil
}
