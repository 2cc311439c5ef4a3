package types

import (
	"errors"
	"fmt"
	"time"
)

// Bar is a single OHLCV bar. Bars are immutable once ingested; the engine
// only ever reads them.
type Bar struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
	VWAP      *float64 // optional volume-weighted average price
}

// ErrEmptyDataset is returned when a run is started with no bars.
var ErrEmptyDataset = errors.New("empty bar dataset")

// ErrInvalidBar wraps all per-bar validation failures so callers can match
// the whole class with errors.Is.
var ErrInvalidBar = errors.New("invalid bar")

// ValidateBars checks the dataset invariants before any simulation step
// runs: timestamps strictly increasing (gaps are fine, duplicates are not),
// positive prices, non-negative volume. Errors carry the offending bar
// index and timestamp.
func ValidateBars(bars []Bar) error {
	if len(bars) == 0 {
		return ErrEmptyDataset
	}

	for i, bar := range bars {
		if bar.Open <= 0 || bar.High <= 0 || bar.Low <= 0 || bar.Close <= 0 {
			return fmt.Errorf("%w: bar %d (%s): non-positive price (o=%.4f h=%.4f l=%.4f c=%.4f)",
				ErrInvalidBar, i, bar.Timestamp.Format("2006-01-02"), bar.Open, bar.High, bar.Low, bar.Close)
		}
		if bar.Volume < 0 {
			return fmt.Errorf("%w: bar %d (%s): negative volume %d",
				ErrInvalidBar, i, bar.Timestamp.Format("2006-01-02"), bar.Volume)
		}
		if bar.VWAP != nil && *bar.VWAP <= 0 {
			return fmt.Errorf("%w: bar %d (%s): non-positive vwap %.4f",
				ErrInvalidBar, i, bar.Timestamp.Format("2006-01-02"), *bar.VWAP)
		}
		if i > 0 && !bar.Timestamp.After(bars[i-1].Timestamp) {
			return fmt.Errorf("%w: bar %d (%s): timestamp not after previous bar (%s)",
				ErrInvalidBar, i, bar.Timestamp.Format("2006-01-02"), bars[i-1].Timestamp.Format("2006-01-02"))
		}
	}

	return nil
}
