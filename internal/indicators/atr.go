package indicators

import (
	"math"

	"github.com/vqminh/etf-meanrev/pkg/types"
)

// ATR measures volatility as the rolling mean of the true range. The
// windowed mean is used instead of Wilder smoothing for the same reason as
// the windowed RSI: the value depends only on the last N bars.
type ATR struct {
	sma       *SMA
	prevClose float64
	hasPrev   bool
}

// NewATR creates a rolling ATR over the given period.
func NewATR(period int) *ATR {
	return &ATR{sma: NewSMA(period)}
}

// Update feeds the next bar and returns the ATR plus a readiness flag.
func (a *ATR) Update(bar types.Bar) (float64, bool) {
	tr := bar.High - bar.Low
	if a.hasPrev {
		tr = math.Max(tr, math.Max(
			math.Abs(bar.High-a.prevClose),
			math.Abs(bar.Low-a.prevClose),
		))
	}
	a.prevClose = bar.Close
	a.hasPrev = true

	return a.sma.Update(tr)
}
