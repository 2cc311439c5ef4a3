package indicators

// SMA is a rolling simple moving average with O(1) updates.
type SMA struct {
	period int
	window []float64
	idx    int
	count  int
	sum    float64
}

// NewSMA creates a rolling SMA over the given period.
func NewSMA(period int) *SMA {
	return &SMA{
		period: period,
		window: make([]float64, period),
	}
}

// Update feeds the next value and returns the average plus a readiness flag.
func (s *SMA) Update(value float64) (float64, bool) {
	if s.count == s.period {
		s.sum -= s.window[s.idx]
	} else {
		s.count++
	}
	s.window[s.idx] = value
	s.sum += value
	s.idx = (s.idx + 1) % s.period

	if s.count < s.period {
		return 0, false
	}
	return s.sum / float64(s.period), true
}
