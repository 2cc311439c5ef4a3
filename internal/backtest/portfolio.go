package backtest

import (
	"fmt"
	"math"
	"time"

	"github.com/vqminh/etf-meanrev/internal/strategy"
	"github.com/vqminh/etf-meanrev/pkg/config"
)

// position is one open slot in the ledger.
type position struct {
	Quantity    float64
	EntryPrice  float64
	EntryTime   time.Time
	EntryReason string
	FeesPaid    float64
}

// Portfolio is the cash-and-positions ledger. It holds at most one primary
// long position and one hedge position at a time. The hedge slot models a
// collateralized inverse instrument on the same bar stream: opening debits
// cash by quantity times entry, its mark is quantity times (2*entry - price),
// and its profit moves opposite to the underlying. The mark is floored at
// zero: the position cannot lose more than its collateral, so closing can
// never overdraw cash.
type Portfolio struct {
	cash       float64
	commission float64

	primary *position
	hedge   *position
}

// NewPortfolio creates a ledger funded with the configured initial capital.
func NewPortfolio(cfg config.StrategyConfig) *Portfolio {
	return &Portfolio{
		cash:       cfg.InitialCapital,
		commission: cfg.Commission,
	}
}

// Cash returns the uninvested balance.
func (p *Portfolio) Cash() float64 { return p.cash }

// HasPrimary reports whether the primary slot is open.
func (p *Portfolio) HasPrimary() bool { return p.primary != nil }

// HasHedge reports whether the hedge slot is open.
func (p *Portfolio) HasHedge() bool { return p.hedge != nil }

// HedgeValue returns the hedge slot's mark at the given price, 0 when flat.
// A rally past twice the entry price wipes the position out; the mark
// bottoms at zero rather than going negative.
func (p *Portfolio) HedgeValue(price float64) float64 {
	if p.hedge == nil {
		return 0
	}
	return math.Max(0, p.hedge.Quantity*(2*p.hedge.EntryPrice-price))
}

// Equity marks the whole ledger to the given price.
func (p *Portfolio) Equity(price float64) float64 {
	eq := p.cash
	if p.primary != nil {
		eq += p.primary.Quantity * price
	}
	eq += p.HedgeValue(price)
	return eq
}

// View builds the read-only slice of state the signal evaluator consumes.
func (p *Portfolio) View(price float64) strategy.PortfolioView {
	view := strategy.PortfolioView{
		HasPrimary: p.primary != nil,
		HasHedge:   p.hedge != nil,
		HedgeValue: p.HedgeValue(price),
		Equity:     p.Equity(price),
	}
	if p.primary != nil {
		view.PrimaryEntry = p.primary.EntryPrice
	}
	return view
}

// Apply executes one bar's action set at the given fill price. The whole
// set lands on a shadow copy first, so the live ledger is never left in a
// half-applied state. Unfillable opens (quantity floors to zero, or no
// cash) are recorded as skipped-signal events, not errors.
func (p *Portfolio) Apply(actions []strategy.Action, price float64, ts time.Time) ([]TradeRecord, []Event) {
	if len(actions) == 0 {
		return nil, nil
	}

	shadow := *p
	var trades []TradeRecord
	var events []Event

	for _, act := range actions {
		switch act.Type {
		case strategy.OpenPrimary:
			if ev, ok := shadow.openPrimary(act, price, ts); !ok {
				events = append(events, ev)
			}
		case strategy.ClosePrimary:
			if tr, ok := shadow.closePrimary(act.Reason, price, ts); ok {
				trades = append(trades, tr)
			}
		case strategy.OpenHedge:
			if ev, ok := shadow.openHedge(act, price, ts); !ok {
				events = append(events, ev)
			}
		case strategy.CloseHedge:
			if tr, ok := shadow.closeHedge(act.Reason, price, ts); ok {
				trades = append(trades, tr)
			}
		}
	}

	*p = shadow
	return trades, events
}

// CloseAll force-closes any open slots, used when the data runs out.
func (p *Portfolio) CloseAll(price float64, ts time.Time, reason string) []TradeRecord {
	var trades []TradeRecord
	if tr, ok := p.closeHedge(reason, price, ts); ok {
		trades = append(trades, tr)
	}
	if tr, ok := p.closePrimary(reason, price, ts); ok {
		trades = append(trades, tr)
	}
	return trades
}

func (p *Portfolio) sizeShares(fraction, price float64) (float64, float64) {
	budget := fraction * p.Equity(price)
	if p.cash < budget {
		budget = p.cash
	}
	qty := math.Floor(budget / (price * (1 + p.commission)))
	fee := qty * price * p.commission
	return qty, fee
}

func (p *Portfolio) openPrimary(act strategy.Action, price float64, ts time.Time) (Event, bool) {
	qty, fee := p.sizeShares(act.SizeFraction, price)
	if qty < 1 {
		return Event{
			Type:      EventSkippedSignal,
			Timestamp: ts,
			Detail:    fmt.Sprintf("primary entry skipped: sized to 0 shares at price %.2f", price),
		}, false
	}

	p.cash -= qty*price + fee
	p.primary = &position{
		Quantity:    qty,
		EntryPrice:  price,
		EntryTime:   ts,
		EntryReason: act.Reason,
		FeesPaid:    fee,
	}
	return Event{}, true
}

func (p *Portfolio) closePrimary(reason string, price float64, ts time.Time) (TradeRecord, bool) {
	if p.primary == nil {
		return TradeRecord{}, false
	}
	pos := p.primary
	p.primary = nil

	proceeds := pos.Quantity * price
	exitFee := proceeds * p.commission
	p.cash += proceeds - exitFee

	pnl := (price-pos.EntryPrice)*pos.Quantity - pos.FeesPaid - exitFee
	basis := pos.EntryPrice * pos.Quantity

	return TradeRecord{
		Side:        SidePrimary,
		EntryTime:   pos.EntryTime,
		ExitTime:    ts,
		EntryPrice:  pos.EntryPrice,
		ExitPrice:   price,
		Quantity:    pos.Quantity,
		PnL:         pnl,
		PnLPct:      pnl / basis * 100,
		EntryReason: pos.EntryReason,
		ExitReason:  reason,
	}, true
}

func (p *Portfolio) openHedge(act strategy.Action, price float64, ts time.Time) (Event, bool) {
	qty, fee := p.sizeShares(act.SizeFraction, price)
	if qty < 1 {
		return Event{
			Type:      EventSkippedSignal,
			Timestamp: ts,
			Detail:    fmt.Sprintf("hedge entry skipped: sized to 0 shares at price %.2f", price),
		}, false
	}

	p.cash -= qty*price + fee
	p.hedge = &position{
		Quantity:    qty,
		EntryPrice:  price,
		EntryTime:   ts,
		EntryReason: act.Reason,
		FeesPaid:    fee,
	}
	return Event{}, true
}

func (p *Portfolio) closeHedge(reason string, price float64, ts time.Time) (TradeRecord, bool) {
	if p.hedge == nil {
		return TradeRecord{}, false
	}
	pos := p.hedge
	p.hedge = nil

	// The close proceeds are the floored mark: collateral plus the inverse
	// P&L, never less than zero. A wiped position forfeits exactly its
	// collateral, so cash stays non-negative.
	proceeds := math.Max(0, pos.Quantity*(2*pos.EntryPrice-price))
	exitFee := proceeds * p.commission
	p.cash += proceeds - exitFee

	pnl := proceeds - pos.Quantity*pos.EntryPrice - pos.FeesPaid - exitFee
	basis := pos.EntryPrice * pos.Quantity

	return TradeRecord{
		Side:        SideHedge,
		EntryTime:   pos.EntryTime,
		ExitTime:    ts,
		EntryPrice:  pos.EntryPrice,
		ExitPrice:   price,
		Quantity:    pos.Quantity,
		PnL:         pnl,
		PnLPct:      pnl / basis * 100,
		EntryReason: pos.EntryReason,
		ExitReason:  reason,
	}, true
}
