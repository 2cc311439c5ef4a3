package indicators

import "math"

// Bollinger computes rolling Bollinger bands (mean ± k·stdev, population
// standard deviation) with O(1) updates via running sum and sum of squares.
type Bollinger struct {
	period int
	stdDev float64

	window []float64
	idx    int
	count  int
	sum    float64
	sumSq  float64
}

// NewBollinger creates rolling bands over the given period and multiplier.
func NewBollinger(period int, stdDev float64) *Bollinger {
	return &Bollinger{
		period: period,
		stdDev: stdDev,
		window: make([]float64, period),
	}
}

// Update feeds the next value and returns (upper, lower, ready).
func (b *Bollinger) Update(value float64) (float64, float64, bool) {
	if b.count == b.period {
		old := b.window[b.idx]
		b.sum -= old
		b.sumSq -= old * old
	} else {
		b.count++
	}
	b.window[b.idx] = value
	b.sum += value
	b.sumSq += value * value
	b.idx = (b.idx + 1) % b.period

	if b.count < b.period {
		return 0, 0, false
	}

	n := float64(b.period)
	mean := b.sum / n
	variance := b.sumSq/n - mean*mean
	if variance < 0 {
		// running-sum rounding can push a flat window slightly negative
		variance = 0
	}
	sd := math.Sqrt(variance)

	return mean + b.stdDev*sd, mean - b.stdDev*sd, true
}
