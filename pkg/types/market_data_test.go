package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func validBar(n int) Bar {
	return Bar{
		Timestamp: day(n),
		Open:      50.0,
		High:      51.0,
		Low:       49.0,
		Close:     50.5,
		Volume:    1_000_000,
	}
}

func TestValidateBars_Empty(t *testing.T) {
	err := ValidateBars(nil)
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestValidateBars_Valid(t *testing.T) {
	bars := []Bar{validBar(0), validBar(1), validBar(5)} // gap between day 1 and 5 is allowed
	assert.NoError(t, ValidateBars(bars))
}

func TestValidateBars_DuplicateTimestamp(t *testing.T) {
	bars := []Bar{validBar(0), validBar(0)}
	err := ValidateBars(bars)
	assert.ErrorIs(t, err, ErrInvalidBar)
	assert.Contains(t, err.Error(), "bar 1")
}

func TestValidateBars_OutOfOrder(t *testing.T) {
	bars := []Bar{validBar(2), validBar(1)}
	assert.ErrorIs(t, ValidateBars(bars), ErrInvalidBar)
}

func TestValidateBars_NegativePrice(t *testing.T) {
	bad := validBar(0)
	bad.Close = -1.0
	err := ValidateBars([]Bar{bad})
	assert.ErrorIs(t, err, ErrInvalidBar)
	assert.Contains(t, err.Error(), "non-positive price")
}

func TestValidateBars_NegativeVolume(t *testing.T) {
	bad := validBar(0)
	bad.Volume = -5
	err := ValidateBars([]Bar{bad})
	assert.ErrorIs(t, err, ErrInvalidBar)
	assert.Contains(t, err.Error(), "negative volume")
}

func TestValidateBars_MissingVWAPIsTolerated(t *testing.T) {
	bar := validBar(0)
	bar.VWAP = nil
	assert.NoError(t, ValidateBars([]Bar{bar}))
}
