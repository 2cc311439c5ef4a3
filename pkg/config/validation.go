package config

import "fmt"

const (
	// MinRSIPeriod guards against degenerate one-bar RSI windows.
	MinRSIPeriod = 2
	// MaxRSIValue is the RSI scale upper bound.
	MaxRSIValue = 100
	// MaxCommission caps the constant-cost model at 10% per side.
	MaxCommission = 0.10
)

// Validate performs full validation of the parameter bundle. Configuration
// errors are fatal and reported before any simulation step runs.
func (cfg *StrategyConfig) Validate() error {
	if cfg.InitialCapital <= 0 {
		return fmt.Errorf("initial capital must be positive, got: %.2f", cfg.InitialCapital)
	}

	if cfg.Commission < 0 || cfg.Commission > MaxCommission {
		return fmt.Errorf("commission must be between 0 and %.2f, got: %.4f", MaxCommission, cfg.Commission)
	}

	if cfg.RSIPeriod < MinRSIPeriod {
		return fmt.Errorf("RSI period must be at least %d, got: %d", MinRSIPeriod, cfg.RSIPeriod)
	}

	if cfg.RSIOversold <= 0 || cfg.RSIOversold >= MaxRSIValue {
		return fmt.Errorf("RSI oversold must be between 0 and %d, got: %.1f", MaxRSIValue, cfg.RSIOversold)
	}

	if cfg.RSIOverbought <= 0 || cfg.RSIOverbought >= MaxRSIValue {
		return fmt.Errorf("RSI overbought must be between 0 and %d, got: %.1f", MaxRSIValue, cfg.RSIOverbought)
	}

	if cfg.RSIOversold >= cfg.RSIOverbought {
		return fmt.Errorf("RSI oversold (%.1f) must be less than overbought (%.1f)", cfg.RSIOversold, cfg.RSIOverbought)
	}

	for name, pct := range map[string]float64{
		"stop_loss_pct":     cfg.StopLossPct,
		"position_size_pct": cfg.PositionSizePct,
		"hedge_size_pct":    cfg.HedgeSizePct,
		"hedge_max_pct":     cfg.HedgeMaxPct,
	} {
		if pct < 0 || pct > 1 {
			return fmt.Errorf("%s must be between 0 and 1, got: %.4f", name, pct)
		}
	}

	if cfg.HedgeOpenRSI <= 0 || cfg.HedgeOpenRSI >= MaxRSIValue {
		return fmt.Errorf("hedge open RSI must be between 0 and %d, got: %.1f", MaxRSIValue, cfg.HedgeOpenRSI)
	}

	if cfg.HedgeCloseRSI <= 0 || cfg.HedgeCloseRSI >= MaxRSIValue {
		return fmt.Errorf("hedge close RSI must be between 0 and %d, got: %.1f", MaxRSIValue, cfg.HedgeCloseRSI)
	}

	if cfg.HedgeCloseRSI >= cfg.HedgeOpenRSI {
		return fmt.Errorf("hedge close RSI (%.1f) must be less than hedge open RSI (%.1f)", cfg.HedgeCloseRSI, cfg.HedgeOpenRSI)
	}

	if cfg.TrendSMAPeriod < 1 {
		return fmt.Errorf("trend SMA period must be positive, got: %d", cfg.TrendSMAPeriod)
	}

	if cfg.BBPeriod < 2 {
		return fmt.Errorf("bollinger period must be at least 2, got: %d", cfg.BBPeriod)
	}

	if cfg.BBStdDev <= 0 {
		return fmt.Errorf("bollinger standard deviation must be positive, got: %.2f", cfg.BBStdDev)
	}

	if cfg.VolumeAvgPeriod < 1 {
		return fmt.Errorf("volume average period must be positive, got: %d", cfg.VolumeAvgPeriod)
	}

	if cfg.VolumeMinRatio < 0 {
		return fmt.Errorf("volume minimum ratio must be non-negative, got: %.2f", cfg.VolumeMinRatio)
	}

	if cfg.ATRPeriod < 1 {
		return fmt.Errorf("ATR period must be positive, got: %d", cfg.ATRPeriod)
	}

	if cfg.Fill != FillOnClose && cfg.Fill != FillOnNextOpen {
		return fmt.Errorf("fill policy must be %q or %q, got: %q", FillOnClose, FillOnNextOpen, cfg.Fill)
	}

	return nil
}
