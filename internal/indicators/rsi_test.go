package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRSI_Warmup(t *testing.T) {
	rsi := NewRSI(2)

	_, ready := rsi.Update(100)
	assert.False(t, ready, "first close has no change yet")

	_, ready = rsi.Update(101)
	assert.False(t, ready, "one change of two")

	_, ready = rsi.Update(102)
	assert.True(t, ready, "two changes fill the window")
}

func TestRSI_AllGains(t *testing.T) {
	rsi := NewRSI(2)
	feed(rsi, 100, 101, 102)

	v, ready := rsi.Update(103)
	require.True(t, ready)
	assert.Equal(t, 100.0, v, "zero average loss pins RSI at 100")
}

func TestRSI_AllLosses(t *testing.T) {
	rsi := NewRSI(2)
	feed(rsi, 100, 99, 98)

	v, ready := rsi.Update(97)
	require.True(t, ready)
	assert.Equal(t, 0.0, v)
}

func TestRSI_FlatSeries(t *testing.T) {
	rsi := NewRSI(2)
	feed(rsi, 100, 100, 100)

	v, ready := rsi.Update(100)
	require.True(t, ready)
	assert.Equal(t, 100.0, v, "no losses in window means RSI 100")
}

func TestRSI_MixedWindow(t *testing.T) {
	// Window holds one gain of 2 and one loss of 1:
	// avgGain=1, avgLoss=0.5, RS=2, RSI = 100 - 100/3.
	rsi := NewRSI(2)
	feed(rsi, 100, 102)

	v, ready := rsi.Update(101)
	require.True(t, ready)
	assert.InDelta(t, 100.0-100.0/3.0, v, 1e-12)
}

func TestRSI_WindowSlides(t *testing.T) {
	// Old changes must drop out: after enough flat bars the earlier
	// moves no longer influence the value.
	rsi := NewRSI(2)
	feed(rsi, 100, 90, 80)

	v, ready := rsi.Update(80)
	require.True(t, ready)
	assert.Less(t, v, 50.0, "one loss still in window")

	v, ready = rsi.Update(80)
	require.True(t, ready)
	assert.Equal(t, 100.0, v, "losses aged out, flat window has no losses")
}

func feed(r *RSI, closes ...float64) {
	for _, c := range closes {
		r.Update(c)
	}
}
