package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
}

func TestParseJSON_OverridesDefaults(t *testing.T) {
	cfg, err := ParseJSON([]byte(`{"rsi_oversold": 25, "stop_loss_pct": 0.03, "trend_filter": false}`))
	require.NoError(t, err)

	assert.Equal(t, 25.0, cfg.RSIOversold)
	assert.Equal(t, 0.03, cfg.StopLossPct)
	assert.False(t, cfg.TrendFilter)
	// Untouched fields keep their defaults
	assert.Equal(t, 2, cfg.RSIPeriod)
	assert.Equal(t, 75.0, cfg.RSIOverbought)
}

func TestParseJSON_RejectsUnknownOptions(t *testing.T) {
	_, err := ParseJSON([]byte(`{"rsi_period": 2, "take_profit_pct": 0.02}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "take_profit_pct")
}

func TestParseJSON_InvalidDocumentNotPartiallyApplied(t *testing.T) {
	cfg, err := ParseJSON([]byte(`{"rsi_oversold": 80, "rsi_overbought": 75}`))
	require.Error(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestValidate_Ranges(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*StrategyConfig)
		errHas string
	}{
		{"zero capital", func(c *StrategyConfig) { c.InitialCapital = 0 }, "initial capital"},
		{"negative commission", func(c *StrategyConfig) { c.Commission = -0.01 }, "commission"},
		{"commission too high", func(c *StrategyConfig) { c.Commission = 0.5 }, "commission"},
		{"rsi period too small", func(c *StrategyConfig) { c.RSIPeriod = 1 }, "RSI period"},
		{"oversold out of range", func(c *StrategyConfig) { c.RSIOversold = 0 }, "oversold"},
		{"overbought out of range", func(c *StrategyConfig) { c.RSIOverbought = 100 }, "overbought"},
		{"inverted rsi thresholds", func(c *StrategyConfig) { c.RSIOversold, c.RSIOverbought = 75, 30 }, "less than overbought"},
		{"stop loss above 1", func(c *StrategyConfig) { c.StopLossPct = 1.5 }, "stop_loss_pct"},
		{"negative position size", func(c *StrategyConfig) { c.PositionSizePct = -0.1 }, "position_size_pct"},
		{"hedge size above 1", func(c *StrategyConfig) { c.HedgeSizePct = 2 }, "hedge_size_pct"},
		{"hedge max above 1", func(c *StrategyConfig) { c.HedgeMaxPct = 1.01 }, "hedge_max_pct"},
		{"inverted hedge thresholds", func(c *StrategyConfig) { c.HedgeOpenRSI, c.HedgeCloseRSI = 60, 90 }, "hedge close RSI"},
		{"zero trend period", func(c *StrategyConfig) { c.TrendSMAPeriod = 0 }, "trend SMA"},
		{"bb period too small", func(c *StrategyConfig) { c.BBPeriod = 1 }, "bollinger period"},
		{"zero bb stddev", func(c *StrategyConfig) { c.BBStdDev = 0 }, "standard deviation"},
		{"zero volume period", func(c *StrategyConfig) { c.VolumeAvgPeriod = 0 }, "volume average"},
		{"negative volume ratio", func(c *StrategyConfig) { c.VolumeMinRatio = -1 }, "volume minimum"},
		{"zero atr period", func(c *StrategyConfig) { c.ATRPeriod = 0 }, "ATR period"},
		{"bad fill policy", func(c *StrategyConfig) { c.Fill = "next_close" }, "fill policy"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errHas)
		})
	}
}

func TestHedgeEnabled(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.HedgeEnabled())

	cfg.HedgeSizePct = 0
	assert.False(t, cfg.HedgeEnabled())
}
