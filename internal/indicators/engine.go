package indicators

import (
	"time"

	"github.com/vqminh/etf-meanrev/pkg/types"
)

// Trend classifies the close against the trend SMA.
type Trend int

const (
	TrendUnknown Trend = iota // trend SMA still warming up
	TrendBearish
	TrendNeutral
	TrendBullish
)

func (t Trend) String() string {
	switch t {
	case TrendBearish:
		return "bearish"
	case TrendNeutral:
		return "neutral"
	case TrendBullish:
		return "bullish"
	default:
		return "unknown"
	}
}

// Snapshot holds the derived values for one bar. Each value carries its own
// readiness flag; a value whose rolling window is not yet full must be
// treated as absent ("warming up") by consumers.
type Snapshot struct {
	Timestamp time.Time
	Close     float64
	VWAP      *float64

	RSI      float64
	RSIReady bool

	SMA      float64
	SMAReady bool
	Trend    Trend

	ATR      float64
	ATRReady bool

	BBUpper float64
	BBLower float64
	BBReady bool

	VolumeRatio float64
	VolumeReady bool
}

// Params configures the indicator engine. Zero-value periods are invalid;
// callers derive Params from a validated StrategyConfig.
type Params struct {
	RSIPeriod       int
	TrendSMAPeriod  int
	ATRPeriod       int
	BBPeriod        int
	BBStdDev        float64
	VolumeAvgPeriod int
}

// Engine turns a bar stream into one Snapshot per bar with O(1) amortized
// work per bar. It is a leaf component: a pure function of the bar history
// it has been fed.
type Engine struct {
	rsi *RSI
	sma *SMA
	atr *ATR
	bb  *Bollinger
	vol *VolumeRatio
}

// NewEngine creates an indicator engine for the given parameters.
func NewEngine(p Params) *Engine {
	return &Engine{
		rsi: NewRSI(p.RSIPeriod),
		sma: NewSMA(p.TrendSMAPeriod),
		atr: NewATR(p.ATRPeriod),
		bb:  NewBollinger(p.BBPeriod, p.BBStdDev),
		vol: NewVolumeRatio(p.VolumeAvgPeriod),
	}
}

// Update ingests the next bar and returns its snapshot.
func (e *Engine) Update(bar types.Bar) Snapshot {
	snap := Snapshot{
		Timestamp: bar.Timestamp,
		Close:     bar.Close,
		VWAP:      bar.VWAP,
	}

	snap.RSI, snap.RSIReady = e.rsi.Update(bar.Close)
	snap.SMA, snap.SMAReady = e.sma.Update(bar.Close)
	snap.ATR, snap.ATRReady = e.atr.Update(bar)
	snap.BBUpper, snap.BBLower, snap.BBReady = e.bb.Update(bar.Close)
	snap.VolumeRatio, snap.VolumeReady = e.vol.Update(bar.Volume)

	snap.Trend = classifyTrend(bar.Close, snap.SMA, snap.SMAReady)
	return snap
}

func classifyTrend(close, sma float64, ready bool) Trend {
	switch {
	case !ready:
		return TrendUnknown
	case close > sma:
		return TrendBullish
	case close < sma:
		return TrendBearish
	default:
		return TrendNeutral
	}
}
