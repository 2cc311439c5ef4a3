package backtest

import (
	"fmt"
	"time"

	"github.com/vqminh/etf-meanrev/internal/indicators"
	"github.com/vqminh/etf-meanrev/internal/strategy"
	"github.com/vqminh/etf-meanrev/pkg/config"
	"github.com/vqminh/etf-meanrev/pkg/types"
)

// Runner is one backtest engine. Both the reference and the vector engine
// satisfy it, and both must produce identical results for the same input.
type Runner interface {
	Run(bars []types.Bar) (*Result, error)
}

// Engine is the reference implementation: one pass over the bars, feeding
// the indicator engine, the signal evaluator, and the ledger bar by bar.
// It is written for auditability; VectorEngine is written for speed.
type Engine struct {
	cfg config.StrategyConfig
}

// NewEngine creates a reference engine. The config must already be valid.
func NewEngine(cfg config.StrategyConfig) *Engine {
	return &Engine{cfg: cfg}
}

func indicatorParams(cfg config.StrategyConfig) indicators.Params {
	return indicators.Params{
		RSIPeriod:       cfg.RSIPeriod,
		TrendSMAPeriod:  cfg.TrendSMAPeriod,
		ATRPeriod:       cfg.ATRPeriod,
		BBPeriod:        cfg.BBPeriod,
		BBStdDev:        cfg.BBStdDev,
		VolumeAvgPeriod: cfg.VolumeAvgPeriod,
	}
}

// Run executes the backtest over the validated bar series.
func (e *Engine) Run(bars []types.Bar) (*Result, error) {
	start := time.Now()

	if err := types.ValidateBars(bars); err != nil {
		return nil, fmt.Errorf("backtest: %w", err)
	}

	ind := indicators.NewEngine(indicatorParams(e.cfg))
	eval := strategy.NewEvaluator(e.cfg)
	port := NewPortfolio(e.cfg)

	result := &Result{
		EquityCurve: make([]EquityPoint, 0, len(bars)),
	}

	// Actions decided on the previous bar, awaiting this bar's open.
	var pending []strategy.Action

	for _, bar := range bars {
		if len(pending) > 0 {
			trades, events := port.Apply(pending, bar.Open, bar.Timestamp)
			result.Trades = append(result.Trades, trades...)
			result.Events = append(result.Events, events...)
			pending = nil
		}

		snap := ind.Update(bar)
		actions := eval.Evaluate(snap, port.View(bar.Close))

		switch e.cfg.Fill {
		case config.FillOnNextOpen:
			pending = actions
		default:
			trades, events := port.Apply(actions, bar.Close, bar.Timestamp)
			result.Trades = append(result.Trades, trades...)
			result.Events = append(result.Events, events...)
		}

		result.EquityCurve = append(result.EquityCurve, EquityPoint{
			Timestamp: bar.Timestamp,
			Equity:    port.Equity(bar.Close),
		})
	}

	last := bars[len(bars)-1]
	for _, act := range pending {
		result.Events = append(result.Events, Event{
			Type:      EventDroppedAction,
			Timestamp: last.Timestamp,
			Detail:    fmt.Sprintf("%s dropped: no bar left to fill at open", act.Type),
		})
	}

	closing := port.CloseAll(last.Close, last.Timestamp, strategy.ReasonEndOfData)
	if len(closing) > 0 {
		result.Trades = append(result.Trades, closing...)
		result.EquityCurve[len(result.EquityCurve)-1].Equity = port.Equity(last.Close)
	}

	result.FinalEquity = port.Equity(last.Close)
	result.Metrics = ComputeMetrics(result.Trades, result.EquityCurve, e.cfg.InitialCapital)
	result.Metrics.ExecutionTimeMs = float64(time.Since(start).Microseconds()) / 1000.0

	return result, nil
}
