package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vqminh/etf-meanrev/pkg/config"
)

func TestParity_EnginesAgreeExactly(t *testing.T) {
	bars := waveBars(300)

	configs := map[string]config.StrategyConfig{
		"default":   config.Default(),
		"plain":     plainConfig(),
		"next_open": withFill(plainConfig(), config.FillOnNextOpen),
		"hedged": func() config.StrategyConfig {
			cfg := plainConfig()
			cfg.HedgeSizePct = 0.30
			cfg.HedgeMaxPct = 0.30
			return cfg
		}(),
		"all_filters": func() config.StrategyConfig {
			cfg := config.Default()
			cfg.VolumeFilter = true
			cfg.BollingerFilter = true
			cfg.TrendSMAPeriod = 50
			return cfg
		}(),
	}

	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			ref, err := NewEngine(cfg).Run(bars)
			require.NoError(t, err)
			opt, err := NewVectorEngine(cfg).Run(bars)
			require.NoError(t, err)

			// Exact equality, not a tolerance: both engines run the same
			// float operations in the same order.
			assert.Empty(t, CompareResults(ref, opt, 0))
		})
	}
}

func TestParity_VectorEngineTradesMatchByHand(t *testing.T) {
	bars := barsFromCloses(100, 100, 100, 99, 98, 102)

	result, err := NewVectorEngine(plainConfig()).Run(bars)
	require.NoError(t, err)

	require.Len(t, result.Trades, 1)
	assert.InDelta(t, 99.0, result.Trades[0].EntryPrice, 1e-9)
	assert.InDelta(t, 102.0, result.Trades[0].ExitPrice, 1e-9)
	assert.InDelta(t, 10270, result.FinalEquity, 1e-9)
}

func TestCompareResults_ReportsDifferences(t *testing.T) {
	bars := waveBars(200)

	ref, err := NewEngine(plainConfig()).Run(bars)
	require.NoError(t, err)

	// A different stop-loss produces genuinely different trades.
	cfg := plainConfig()
	cfg.StopLossPct = 0.01
	other, err := NewEngine(cfg).Run(bars)
	require.NoError(t, err)

	assert.NotEmpty(t, CompareResults(ref, other, 0))
}

func TestCompareResults_ToleranceAbsorbsNoise(t *testing.T) {
	bars := waveBars(100)

	ref, err := NewEngine(plainConfig()).Run(bars)
	require.NoError(t, err)

	perturbed, err := NewEngine(plainConfig()).Run(bars)
	require.NoError(t, err)
	perturbed.FinalEquity += 1e-9

	assert.NotEmpty(t, CompareResults(ref, perturbed, 0))
	assert.Empty(t, CompareResults(ref, perturbed, 1e-6))
}

func withFill(cfg config.StrategyConfig, fill config.FillPolicy) config.StrategyConfig {
	cfg.Fill = fill
	return cfg
}
