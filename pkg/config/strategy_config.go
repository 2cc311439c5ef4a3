package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// FillPolicy selects when a signal's fill is priced.
type FillPolicy string

const (
	// FillOnClose fills at the signal bar's close (default).
	FillOnClose FillPolicy = "close"
	// FillOnNextOpen queues actions and fills them at the next bar's open.
	FillOnNextOpen FillPolicy = "next_open"
)

// StrategyConfig is the immutable parameter bundle for one run. The JSON
// names below are the full set of recognized options; anything else in a
// config document is rejected, not silently ignored.
type StrategyConfig struct {
	// RSI core
	RSIPeriod     int     `json:"rsi_period"`
	RSIOversold   float64 `json:"rsi_oversold"`
	RSIOverbought float64 `json:"rsi_overbought"`

	// Risk management
	StopLossPct     float64 `json:"stop_loss_pct"`
	PositionSizePct float64 `json:"position_size_pct"`

	// Hedge (inverse-instrument slot)
	HedgeOpenRSI  float64 `json:"hedge_open_rsi"`
	HedgeCloseRSI float64 `json:"hedge_close_rsi"`
	HedgeSizePct  float64 `json:"hedge_size_pct"`
	HedgeMaxPct   float64 `json:"hedge_max_pct"`

	// Entry filters
	VWAPFilter      bool `json:"vwap_filter"`
	TrendFilter     bool `json:"trend_filter"`
	VolumeFilter    bool `json:"volume_filter"`
	BollingerFilter bool `json:"bollinger_filter"`

	// Filter parameters
	TrendSMAPeriod  int     `json:"trend_sma_period"`
	BBPeriod        int     `json:"bb_period"`
	BBStdDev        float64 `json:"bb_std_dev"`
	VolumeAvgPeriod int     `json:"volume_avg_period"`
	VolumeMinRatio  float64 `json:"volume_min_ratio"`
	ATRPeriod       int     `json:"atr_period"`

	// Run settings
	InitialCapital float64    `json:"initial_capital"`
	Commission     float64    `json:"commission"`
	Fill           FillPolicy `json:"fill_policy"`
}

// Default returns the optimized parameter set found via backtesting.
func Default() StrategyConfig {
	return StrategyConfig{
		RSIPeriod:       2,
		RSIOversold:     30.0,
		RSIOverbought:   75.0,
		StopLossPct:     0.05,
		PositionSizePct: 0.90,
		HedgeOpenRSI:    90.0,
		HedgeCloseRSI:   60.0,
		HedgeSizePct:    0.30,
		HedgeMaxPct:     0.30,
		VWAPFilter:      true,
		TrendFilter:     true,
		VolumeFilter:    false,
		BollingerFilter: false,
		TrendSMAPeriod:  200,
		BBPeriod:        20,
		BBStdDev:        2.0,
		VolumeAvgPeriod: 20,
		VolumeMinRatio:  1.0,
		ATRPeriod:       14,
		InitialCapital:  10000.0,
		Commission:      0.0,
		Fill:            FillOnClose,
	}
}

// ParseJSON decodes a config document on top of the defaults. Unknown keys
// are a configuration error; a document that fails validation is never
// partially applied.
func ParseJSON(data []byte) (StrategyConfig, error) {
	cfg := Default()

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Default(), fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// LoadFile reads and parses a JSON config file.
func LoadFile(path string) (StrategyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("config: read %s: %w", path, err)
	}
	return ParseJSON(data)
}

// HedgeEnabled reports whether the hedge slot can ever be funded.
func (cfg *StrategyConfig) HedgeEnabled() bool {
	return cfg.HedgeSizePct > 0 && cfg.HedgeMaxPct > 0
}
