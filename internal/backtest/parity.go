package backtest

import (
	"fmt"
	"math"
)

// CompareResults checks two runs for parity and returns a human-readable
// mismatch list, empty when the runs agree. Numeric fields compare within
// tol, applied relative to the larger magnitude (absolute below 1); pass
// tol 0 for exact equality. Execution time is excluded, it is the one
// field the two engines are supposed to disagree on.
func CompareResults(ref, opt *Result, tol float64) []string {
	var diffs []string

	eq := func(a, b float64) bool {
		if tol == 0 {
			return a == b
		}
		scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
		return math.Abs(a-b) <= tol*scale
	}

	if len(ref.Trades) != len(opt.Trades) {
		diffs = append(diffs, fmt.Sprintf(
			"trade count: reference=%d optimized=%d", len(ref.Trades), len(opt.Trades)))
	} else {
		for i := range ref.Trades {
			r, o := ref.Trades[i], opt.Trades[i]
			switch {
			case r.Side != o.Side:
				diffs = append(diffs, fmt.Sprintf("trade %d side: %s vs %s", i, r.Side, o.Side))
			case !r.EntryTime.Equal(o.EntryTime) || !r.ExitTime.Equal(o.ExitTime):
				diffs = append(diffs, fmt.Sprintf("trade %d timing: %s..%s vs %s..%s",
					i, r.EntryTime, r.ExitTime, o.EntryTime, o.ExitTime))
			case !eq(r.EntryPrice, o.EntryPrice) || !eq(r.ExitPrice, o.ExitPrice):
				diffs = append(diffs, fmt.Sprintf("trade %d prices: %.6f/%.6f vs %.6f/%.6f",
					i, r.EntryPrice, r.ExitPrice, o.EntryPrice, o.ExitPrice))
			case !eq(r.Quantity, o.Quantity):
				diffs = append(diffs, fmt.Sprintf("trade %d quantity: %v vs %v", i, r.Quantity, o.Quantity))
			case !eq(r.PnL, o.PnL):
				diffs = append(diffs, fmt.Sprintf("trade %d pnl: %.6f vs %.6f", i, r.PnL, o.PnL))
			case r.ExitReason != o.ExitReason:
				diffs = append(diffs, fmt.Sprintf("trade %d exit reason: %q vs %q", i, r.ExitReason, o.ExitReason))
			}
		}
	}

	if len(ref.EquityCurve) != len(opt.EquityCurve) {
		diffs = append(diffs, fmt.Sprintf(
			"equity curve length: reference=%d optimized=%d",
			len(ref.EquityCurve), len(opt.EquityCurve)))
	} else {
		for i := range ref.EquityCurve {
			if !eq(ref.EquityCurve[i].Equity, opt.EquityCurve[i].Equity) {
				diffs = append(diffs, fmt.Sprintf("equity[%d]: %.6f vs %.6f",
					i, ref.EquityCurve[i].Equity, opt.EquityCurve[i].Equity))
				break
			}
		}
	}

	if !eq(ref.FinalEquity, opt.FinalEquity) {
		diffs = append(diffs, fmt.Sprintf("final equity: %.6f vs %.6f",
			ref.FinalEquity, opt.FinalEquity))
	}

	diffs = append(diffs, compareMetrics(ref.Metrics, opt.Metrics, eq)...)
	return diffs
}

func compareMetrics(r, o Metrics, eq func(a, b float64) bool) []string {
	var diffs []string

	fields := []struct {
		name string
		r, o float64
	}{
		{"total_return_pct", r.TotalReturnPct, o.TotalReturnPct},
		{"annualized_return_pct", r.AnnualizedReturnPct, o.AnnualizedReturnPct},
		{"sharpe_ratio", r.SharpeRatio, o.SharpeRatio},
		{"sortino_ratio", r.SortinoRatio, o.SortinoRatio},
		{"max_drawdown_pct", r.MaxDrawdownPct, o.MaxDrawdownPct},
		{"win_rate", r.WinRate, o.WinRate},
		{"avg_win", r.AvgWin, o.AvgWin},
		{"avg_loss", r.AvgLoss, o.AvgLoss},
	}
	for _, f := range fields {
		if !eq(f.r, f.o) {
			diffs = append(diffs, fmt.Sprintf("metric %s: %.6f vs %.6f", f.name, f.r, f.o))
		}
	}

	if r.TotalTrades != o.TotalTrades || r.WinningTrades != o.WinningTrades || r.LosingTrades != o.LosingTrades {
		diffs = append(diffs, fmt.Sprintf("trade tallies: %d/%d/%d vs %d/%d/%d",
			r.TotalTrades, r.WinningTrades, r.LosingTrades,
			o.TotalTrades, o.WinningTrades, o.LosingTrades))
	}
	if r.ProfitFactor.Defined != o.ProfitFactor.Defined ||
		(r.ProfitFactor.Defined && !eq(r.ProfitFactor.Value, o.ProfitFactor.Value)) {
		diffs = append(diffs, fmt.Sprintf("metric profit_factor: %+v vs %+v",
			r.ProfitFactor, o.ProfitFactor))
	}

	return diffs
}
