package indicators

// RSI computes the Relative Strength Index over a fixed window of price
// changes. The windowed (non-recursive) form is used deliberately: the
// value depends only on the last N bars, so two engines agree regardless
// of how far back their series start. This differs from the classical
// Wilder-smoothed RSI.
type RSI struct {
	period  int
	gains   []float64
	losses  []float64
	idx     int
	count   int
	sumGain float64
	sumLoss float64

	prevClose float64
	hasPrev   bool
}

// NewRSI creates a windowed RSI over the given period.
func NewRSI(period int) *RSI {
	return &RSI{
		period: period,
		gains:  make([]float64, period),
		losses: make([]float64, period),
	}
}

// Update feeds the next close and returns the RSI value plus a readiness
// flag. Until the window holds period changes the indicator is warming up
// and the value must not be used.
func (r *RSI) Update(close float64) (float64, bool) {
	if !r.hasPrev {
		r.prevClose = close
		r.hasPrev = true
		return 0, false
	}

	change := close - r.prevClose
	r.prevClose = close

	var gain, loss float64
	if change > 0 {
		gain = change
	} else {
		loss = -change
	}

	if r.count == r.period {
		r.sumGain -= r.gains[r.idx]
		r.sumLoss -= r.losses[r.idx]
	} else {
		r.count++
	}
	r.gains[r.idx] = gain
	r.losses[r.idx] = loss
	r.sumGain += gain
	r.sumLoss += loss
	r.idx = (r.idx + 1) % r.period

	if r.count < r.period {
		return 0, false
	}
	return r.value(), true
}

func (r *RSI) value() float64 {
	avgLoss := r.sumLoss / float64(r.period)
	if avgLoss == 0 {
		return 100
	}
	avgGain := r.sumGain / float64(r.period)

	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}
