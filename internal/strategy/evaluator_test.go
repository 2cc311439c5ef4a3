package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vqminh/etf-meanrev/internal/indicators"
	"github.com/vqminh/etf-meanrev/pkg/config"
)

// baseConfig disables hedge and filters so individual rules can be
// exercised in isolation.
func baseConfig() config.StrategyConfig {
	cfg := config.Default()
	cfg.VWAPFilter = false
	cfg.TrendFilter = false
	cfg.VolumeFilter = false
	cfg.BollingerFilter = false
	cfg.HedgeSizePct = 0
	cfg.HedgeMaxPct = 0
	return cfg
}

func readySnap(rsi, close float64) indicators.Snapshot {
	return indicators.Snapshot{RSI: rsi, RSIReady: true, Close: close}
}

func flatView(equity float64) PortfolioView {
	return PortfolioView{Equity: equity}
}

func TestEvaluate_WarmupEmitsNothing(t *testing.T) {
	ev := NewEvaluator(baseConfig())

	actions := ev.Evaluate(indicators.Snapshot{RSI: 5, Close: 100}, flatView(10000))
	assert.Empty(t, actions, "RSI not ready means no signals")
}

func TestEvaluate_EntryOnOversold(t *testing.T) {
	ev := NewEvaluator(baseConfig())

	actions := ev.Evaluate(readySnap(25, 100), flatView(10000))
	require.Len(t, actions, 1)
	assert.Equal(t, OpenPrimary, actions[0].Type)
	assert.Equal(t, 0.90, actions[0].SizeFraction)
}

func TestEvaluate_NoEntryAboveThreshold(t *testing.T) {
	ev := NewEvaluator(baseConfig())

	actions := ev.Evaluate(readySnap(31, 100), flatView(10000))
	assert.Empty(t, actions)
}

func TestEvaluate_NoEntryWhileHoldingPrimary(t *testing.T) {
	ev := NewEvaluator(baseConfig())
	view := PortfolioView{HasPrimary: true, PrimaryEntry: 100, Equity: 10000}

	actions := ev.Evaluate(readySnap(25, 99), view)
	assert.Empty(t, actions, "a held position at RSI 25 neither exits nor re-enters")
}

func TestEvaluate_ExitOnRSITarget(t *testing.T) {
	ev := NewEvaluator(baseConfig())
	view := PortfolioView{HasPrimary: true, PrimaryEntry: 100, Equity: 10000}

	actions := ev.Evaluate(readySnap(80, 103), view)
	require.Len(t, actions, 1)
	assert.Equal(t, ClosePrimary, actions[0].Type)
	assert.Equal(t, ReasonRSITarget, actions[0].Reason)
}

func TestEvaluate_StopLossBeatsTarget(t *testing.T) {
	// Close at exactly entry*(1-stop) with RSI also above the target:
	// stop-loss must win.
	ev := NewEvaluator(baseConfig())
	view := PortfolioView{HasPrimary: true, PrimaryEntry: 100, Equity: 10000}

	actions := ev.Evaluate(readySnap(80, 95), view)
	require.Len(t, actions, 1)
	assert.Equal(t, ClosePrimary, actions[0].Type)
	assert.Equal(t, ReasonStopLoss, actions[0].Reason)
}

func TestEvaluate_NoReentrySameBarAfterExit(t *testing.T) {
	// Stop-loss fires and the same bar's RSI is oversold: the exit bar
	// must not immediately re-open.
	cfg := baseConfig()
	ev := NewEvaluator(cfg)
	view := PortfolioView{HasPrimary: true, PrimaryEntry: 100, Equity: 10000}

	actions := ev.Evaluate(readySnap(10, 90), view)
	require.Len(t, actions, 1)
	assert.Equal(t, ClosePrimary, actions[0].Type)
}

func TestEvaluate_HedgeOpenSizedByCap(t *testing.T) {
	cfg := baseConfig()
	cfg.HedgeSizePct = 0.40
	cfg.HedgeMaxPct = 0.25
	ev := NewEvaluator(cfg)

	actions := ev.Evaluate(readySnap(95, 100), flatView(10000))
	require.Len(t, actions, 1)
	assert.Equal(t, OpenHedge, actions[0].Type)
	assert.Equal(t, 0.25, actions[0].SizeFraction, "open is capped at hedge_max_pct")
}

func TestEvaluate_HedgeCloseOnRSI(t *testing.T) {
	cfg := baseConfig()
	cfg.HedgeSizePct = 0.30
	cfg.HedgeMaxPct = 0.30
	ev := NewEvaluator(cfg)
	view := PortfolioView{HasHedge: true, HedgeValue: 1000, Equity: 10000}

	actions := ev.Evaluate(readySnap(55, 100), view)
	require.Len(t, actions, 1)
	assert.Equal(t, CloseHedge, actions[0].Type)
	assert.Equal(t, ReasonHedgeClose, actions[0].Reason)
}

func TestEvaluate_HedgeCapRecheckedEveryBar(t *testing.T) {
	cfg := baseConfig()
	cfg.HedgeSizePct = 0.30
	cfg.HedgeMaxPct = 0.30
	ev := NewEvaluator(cfg)

	// RSI stays elevated so the close rule does not fire, but the hedge
	// has grown past 30% of equity.
	view := PortfolioView{HasHedge: true, HedgeValue: 3500, Equity: 10000}

	actions := ev.Evaluate(readySnap(85, 100), view)
	require.Len(t, actions, 1)
	assert.Equal(t, CloseHedge, actions[0].Type)
	assert.Equal(t, ReasonHedgeCap, actions[0].Reason)
}

func TestEvaluate_HedgeWipedForcesClose(t *testing.T) {
	cfg := baseConfig()
	cfg.HedgeSizePct = 0.30
	cfg.HedgeMaxPct = 0.30
	ev := NewEvaluator(cfg)

	// A rally keeps RSI pinned at 100, so neither the close rule nor the
	// cap (the mark shrinks on a rally) would fire. Once the mark reaches
	// zero the position is forced off the books.
	view := PortfolioView{HasHedge: true, HedgeValue: 0, Equity: 7000}

	actions := ev.Evaluate(readySnap(100, 250), view)
	require.Len(t, actions, 1)
	assert.Equal(t, CloseHedge, actions[0].Type)
	assert.Equal(t, ReasonHedgeWiped, actions[0].Reason)
}

func TestEvaluate_HedgeDisabledByZeroSize(t *testing.T) {
	ev := NewEvaluator(baseConfig())

	actions := ev.Evaluate(readySnap(99, 100), flatView(10000))
	assert.Empty(t, actions, "zero hedge size disables the hedge slot entirely")
}

func TestEvaluate_HedgeOpensAlongsidePrimary(t *testing.T) {
	// The hedge slot is independent of the primary slot: an elevated RSI
	// below the exit target opens a hedge without touching the long.
	cfg := baseConfig()
	cfg.RSIOverbought = 95
	cfg.HedgeOpenRSI = 90
	cfg.HedgeSizePct = 0.30
	cfg.HedgeMaxPct = 0.30
	ev := NewEvaluator(cfg)
	view := PortfolioView{HasPrimary: true, PrimaryEntry: 100, Equity: 10000}

	actions := ev.Evaluate(readySnap(92, 104), view)
	require.Len(t, actions, 1)
	assert.Equal(t, OpenHedge, actions[0].Type)
}

func TestEvaluate_HedgeAndEntryCanCoexist(t *testing.T) {
	// A hedge close and a primary entry may land on the same bar.
	cfg := baseConfig()
	cfg.HedgeSizePct = 0.30
	cfg.HedgeMaxPct = 0.30
	ev := NewEvaluator(cfg)
	view := PortfolioView{HasHedge: true, HedgeValue: 1000, Equity: 10000}

	actions := ev.Evaluate(readySnap(20, 100), view)
	require.Len(t, actions, 2)
	assert.Equal(t, CloseHedge, actions[0].Type, "hedge management runs first")
	assert.Equal(t, OpenPrimary, actions[1].Type)
}

func TestEvaluate_VWAPFilter(t *testing.T) {
	cfg := baseConfig()
	cfg.VWAPFilter = true
	ev := NewEvaluator(cfg)

	vwap := 101.0
	snap := readySnap(25, 100)
	snap.VWAP = &vwap
	actions := ev.Evaluate(snap, flatView(10000))
	require.Len(t, actions, 1, "close below VWAP passes")

	vwap = 99.0
	actions = ev.Evaluate(snap, flatView(10000))
	assert.Empty(t, actions, "close at or above VWAP blocks entry")

	snap.VWAP = nil
	actions = ev.Evaluate(snap, flatView(10000))
	assert.Len(t, actions, 1, "bars without VWAP skip the filter")
}

func TestEvaluate_TrendFilter(t *testing.T) {
	cfg := baseConfig()
	cfg.TrendFilter = true
	ev := NewEvaluator(cfg)

	snap := readySnap(25, 100)
	actions := ev.Evaluate(snap, flatView(10000))
	assert.Empty(t, actions, "trend SMA not ready blocks entry")

	snap.SMAReady = true
	snap.Trend = indicators.TrendBearish
	actions = ev.Evaluate(snap, flatView(10000))
	assert.Empty(t, actions)

	snap.Trend = indicators.TrendBullish
	actions = ev.Evaluate(snap, flatView(10000))
	assert.Len(t, actions, 1)
}

func TestEvaluate_VolumeFilter(t *testing.T) {
	cfg := baseConfig()
	cfg.VolumeFilter = true
	cfg.VolumeMinRatio = 1.5
	ev := NewEvaluator(cfg)

	snap := readySnap(25, 100)
	snap.VolumeReady = true
	snap.VolumeRatio = 1.2
	actions := ev.Evaluate(snap, flatView(10000))
	assert.Empty(t, actions, "ratio below minimum blocks entry")

	snap.VolumeRatio = 1.5
	actions = ev.Evaluate(snap, flatView(10000))
	assert.Len(t, actions, 1)
}

func TestEvaluate_BollingerFilter(t *testing.T) {
	cfg := baseConfig()
	cfg.BollingerFilter = true
	ev := NewEvaluator(cfg)

	snap := readySnap(25, 100)
	snap.BBReady = true
	snap.BBLower = 99
	actions := ev.Evaluate(snap, flatView(10000))
	assert.Empty(t, actions, "close above lower band blocks entry")

	snap.BBLower = 100
	actions = ev.Evaluate(snap, flatView(10000))
	assert.Len(t, actions, 1, "close at the lower band passes")
}
