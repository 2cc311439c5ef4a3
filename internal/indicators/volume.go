package indicators

// VolumeRatio relates the current bar's volume to its rolling average.
// A ratio above 1 means the bar traded heavier than the recent norm.
type VolumeRatio struct {
	sma *SMA
}

// NewVolumeRatio creates a volume ratio over the given averaging period.
func NewVolumeRatio(period int) *VolumeRatio {
	return &VolumeRatio{sma: NewSMA(period)}
}

// Update feeds the next bar's volume and returns the ratio plus a
// readiness flag. The average includes the current bar. An all-zero window
// yields a ratio of 0 rather than a division by zero.
func (v *VolumeRatio) Update(volume int64) (float64, bool) {
	avg, ready := v.sma.Update(float64(volume))
	if !ready {
		return 0, false
	}
	if avg == 0 {
		return 0, true
	}
	return float64(volume) / avg, true
}
