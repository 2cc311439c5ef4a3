package strategy

import (
	"github.com/vqminh/etf-meanrev/internal/indicators"
	"github.com/vqminh/etf-meanrev/pkg/config"
)

// ActionType identifies what the evaluator wants the ledger to do.
type ActionType int

const (
	OpenPrimary ActionType = iota
	ClosePrimary
	OpenHedge
	CloseHedge
)

func (a ActionType) String() string {
	switch a {
	case OpenPrimary:
		return "open_primary"
	case ClosePrimary:
		return "close_primary"
	case OpenHedge:
		return "open_hedge"
	case CloseHedge:
		return "close_hedge"
	default:
		return "unknown"
	}
}

// Action is one instruction emitted for the current bar. SizeFraction is the
// fraction of equity to commit and only meaningful for opens.
type Action struct {
	Type         ActionType
	Reason       string
	SizeFraction float64
}

// PortfolioView is the read-only slice of ledger state the evaluator needs.
// The evaluator never mutates the portfolio; it only emits Actions.
type PortfolioView struct {
	HasPrimary   bool
	PrimaryEntry float64
	HasHedge     bool
	HedgeValue   float64
	Equity       float64
}

// Evaluator applies the RSI(2) mean-reversion rules to one snapshot at a
// time. It is a pure state machine over (snapshot, portfolio view); all
// tunables come from the validated config.
type Evaluator struct {
	cfg config.StrategyConfig
}

// NewEvaluator creates an evaluator for the given configuration.
func NewEvaluator(cfg config.StrategyConfig) *Evaluator {
	return &Evaluator{cfg: cfg}
}

// Exit and hedge reasons recorded on trades and events.
const (
	ReasonStopLoss  = "stop loss"
	ReasonRSITarget = "rsi target"
	ReasonEndOfData = "end of data"

	ReasonHedgeOpen  = "hedge open"
	ReasonHedgeClose = "hedge close"
	ReasonHedgeCap   = "hedge cap"
	ReasonHedgeWiped = "hedge wiped"
)

// Evaluate returns the actions for the current bar in execution order:
// hedge management first, then exits, then entries. At most one action per
// slot is emitted per bar, and an exit bar never re-enters.
func (e *Evaluator) Evaluate(snap indicators.Snapshot, view PortfolioView) []Action {
	var actions []Action

	if !snap.RSIReady {
		return nil
	}

	actions = append(actions, e.evalHedge(snap, view)...)

	exited := false
	if view.HasPrimary {
		if act, ok := e.evalExit(snap, view); ok {
			actions = append(actions, act)
			exited = true
		}
	}

	if !view.HasPrimary && !exited {
		if act, ok := e.evalEntry(snap); ok {
			actions = append(actions, act)
		}
	}

	return actions
}

// evalHedge closes or opens the hedge slot. The cap is re-checked on every
// bar, not only at open: a hedge that grows past hedge_max_pct of equity is
// closed in full.
func (e *Evaluator) evalHedge(snap indicators.Snapshot, view PortfolioView) []Action {
	if !e.cfg.HedgeEnabled() {
		return nil
	}

	if view.HasHedge {
		// The mark bottoms at zero; a rally past twice the entry price has
		// burned through the collateral and the position must come off the
		// books before the RSI rule would ever release it.
		if view.HedgeValue <= 0 {
			return []Action{{Type: CloseHedge, Reason: ReasonHedgeWiped}}
		}
		if snap.RSI <= e.cfg.HedgeCloseRSI {
			return []Action{{Type: CloseHedge, Reason: ReasonHedgeClose}}
		}
		if view.HedgeValue > e.cfg.HedgeMaxPct*view.Equity {
			return []Action{{Type: CloseHedge, Reason: ReasonHedgeCap}}
		}
		return nil
	}

	if snap.RSI >= e.cfg.HedgeOpenRSI {
		size := e.cfg.HedgeSizePct
		if e.cfg.HedgeMaxPct < size {
			size = e.cfg.HedgeMaxPct
		}
		return []Action{{Type: OpenHedge, Reason: ReasonHedgeOpen, SizeFraction: size}}
	}
	return nil
}

// evalExit checks the open primary position. Stop-loss takes precedence
// over the RSI target when both trigger on the same bar.
func (e *Evaluator) evalExit(snap indicators.Snapshot, view PortfolioView) (Action, bool) {
	stop := view.PrimaryEntry * (1 - e.cfg.StopLossPct)
	if snap.Close <= stop {
		return Action{Type: ClosePrimary, Reason: ReasonStopLoss}, true
	}
	if snap.RSI >= e.cfg.RSIOverbought {
		return Action{Type: ClosePrimary, Reason: ReasonRSITarget}, true
	}
	return Action{}, false
}

// evalEntry checks the oversold trigger and the enabled entry filters. A
// filter whose indicator is still warming up blocks the entry; the VWAP
// filter is a no-op on bars that carry no VWAP.
func (e *Evaluator) evalEntry(snap indicators.Snapshot) (Action, bool) {
	if snap.RSI > e.cfg.RSIOversold {
		return Action{}, false
	}

	if e.cfg.VWAPFilter && snap.VWAP != nil && snap.Close >= *snap.VWAP {
		return Action{}, false
	}
	if e.cfg.TrendFilter {
		if !snap.SMAReady || snap.Trend != indicators.TrendBullish {
			return Action{}, false
		}
	}
	if e.cfg.VolumeFilter {
		if !snap.VolumeReady || snap.VolumeRatio < e.cfg.VolumeMinRatio {
			return Action{}, false
		}
	}
	if e.cfg.BollingerFilter {
		if !snap.BBReady || snap.Close > snap.BBLower {
			return Action{}, false
		}
	}

	return Action{
		Type:         OpenPrimary,
		Reason:       "rsi oversold",
		SizeFraction: e.cfg.PositionSizePct,
	}, true
}
