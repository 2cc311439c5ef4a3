package backtest

import (
	"encoding/json"
	"math"
)

const tradingDaysPerYear = 252

// ProfitFactor is gross profit over gross loss. A run with no losing
// trades has no denominator; it serializes as the string "undefined"
// rather than an arbitrary large number.
type ProfitFactor struct {
	Value   float64
	Defined bool
}

// MarshalJSON emits a number when defined, "undefined" otherwise.
func (pf ProfitFactor) MarshalJSON() ([]byte, error) {
	if !pf.Defined {
		return json.Marshal("undefined")
	}
	return json.Marshal(pf.Value)
}

// UnmarshalJSON accepts either form.
func (pf *ProfitFactor) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*pf = ProfitFactor{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*pf = ProfitFactor{Value: v, Defined: true}
	return nil
}

// Metrics summarizes one run. Ratios are annualized from daily bars.
type Metrics struct {
	TotalReturnPct      float64      `json:"total_return_pct"`
	AnnualizedReturnPct float64      `json:"annualized_return_pct"`
	SharpeRatio         float64      `json:"sharpe_ratio"`
	SortinoRatio        float64      `json:"sortino_ratio"`
	MaxDrawdownPct      float64      `json:"max_drawdown_pct"`
	WinRate             float64      `json:"win_rate"`
	ProfitFactor        ProfitFactor `json:"profit_factor"`
	AvgWin              float64      `json:"avg_win"`
	AvgLoss             float64      `json:"avg_loss"`
	TotalTrades         int          `json:"total_trades"`
	WinningTrades       int          `json:"winning_trades"`
	LosingTrades        int          `json:"losing_trades"`
	ExecutionTimeMs     float64      `json:"execution_time_ms"`
}

// ComputeMetrics derives the performance summary from a run's trades and
// equity curve. Degenerate inputs produce zeros, never NaN or Inf: a flat
// curve has Sharpe 0, a run with no trades has win rate 0, and a run with
// no losing trades has an undefined profit factor.
func ComputeMetrics(trades []TradeRecord, curve []EquityPoint, initialCapital float64) Metrics {
	var m Metrics

	final := initialCapital
	if len(curve) > 0 {
		final = curve[len(curve)-1].Equity
	}
	if initialCapital > 0 {
		m.TotalReturnPct = (final - initialCapital) / initialCapital * 100
	}

	returns := dailyReturns(curve)
	m.AnnualizedReturnPct = annualizedReturn(initialCapital, final, len(returns))
	m.SharpeRatio = sharpe(returns)
	m.SortinoRatio = sortino(returns)
	m.MaxDrawdownPct = maxDrawdown(curve)

	m.TotalTrades = len(trades)
	var grossWin, grossLoss float64
	for _, tr := range trades {
		if tr.PnL > 0 {
			m.WinningTrades++
			grossWin += tr.PnL
		} else if tr.PnL < 0 {
			m.LosingTrades++
			grossLoss += -tr.PnL
		}
	}
	if m.TotalTrades > 0 {
		m.WinRate = float64(m.WinningTrades) / float64(m.TotalTrades) * 100
	}
	if m.WinningTrades > 0 {
		m.AvgWin = grossWin / float64(m.WinningTrades)
	}
	if m.LosingTrades > 0 {
		m.AvgLoss = -grossLoss / float64(m.LosingTrades)
	}
	if grossLoss > 0 {
		m.ProfitFactor = ProfitFactor{Value: grossWin / grossLoss, Defined: true}
	}

	return m
}

func dailyReturns(curve []EquityPoint) []float64 {
	if len(curve) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].Equity
		if prev == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, curve[i].Equity/prev-1)
	}
	return returns
}

func annualizedReturn(initial, final float64, periods int) float64 {
	if periods == 0 || initial <= 0 {
		return 0
	}
	if final <= 0 {
		return -100
	}
	years := float64(periods) / tradingDaysPerYear
	return (math.Pow(final/initial, 1/years) - 1) * 100
}

// sharpe annualizes mean over population standard deviation. Zero-variance
// series get 0 rather than a division blowup.
func sharpe(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	mean := meanOf(returns)

	var sumSq float64
	for _, r := range returns {
		d := r - mean
		sumSq += d * d
	}
	sd := math.Sqrt(sumSq / float64(len(returns)))
	if sd < 1e-12 {
		return 0
	}
	return mean / sd * math.Sqrt(tradingDaysPerYear)
}

// sortino uses the downside deviation with all periods in the denominator,
// not just the losing ones. No negative returns means 0.
func sortino(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	mean := meanOf(returns)

	var sumSq float64
	for _, r := range returns {
		if r < 0 {
			sumSq += r * r
		}
	}
	dd := math.Sqrt(sumSq / float64(len(returns)))
	if dd < 1e-12 {
		return 0
	}
	return mean / dd * math.Sqrt(tradingDaysPerYear)
}

// maxDrawdown is the most negative peak-to-trough move, as a percentage.
// The result is never positive.
func maxDrawdown(curve []EquityPoint) float64 {
	var maxDD float64
	var peak float64
	for _, pt := range curve {
		if pt.Equity > peak {
			peak = pt.Equity
		}
		if peak <= 0 {
			continue
		}
		dd := (pt.Equity - peak) / peak * 100
		if dd < maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

func meanOf(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
