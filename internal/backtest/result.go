package backtest

import "time"

// Side distinguishes the primary long slot from the inverse hedge slot.
type Side string

const (
	SidePrimary Side = "primary"
	SideHedge   Side = "hedge"
)

// TradeRecord is one completed round trip.
type TradeRecord struct {
	Side        Side      `json:"side"`
	EntryTime   time.Time `json:"entry_time"`
	ExitTime    time.Time `json:"exit_time"`
	EntryPrice  float64   `json:"entry_price"`
	ExitPrice   float64   `json:"exit_price"`
	Quantity    float64   `json:"quantity"`
	PnL         float64   `json:"pnl"`
	PnLPct      float64   `json:"pnl_pct"`
	EntryReason string    `json:"entry_reason"`
	ExitReason  string    `json:"exit_reason"`
}

// EquityPoint is the mark-to-market equity at one bar's close.
type EquityPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Equity    float64   `json:"equity"`
}

// EventType classifies non-trade occurrences worth surfacing in a report.
type EventType string

const (
	// EventSkippedSignal marks a signal that could not be filled, for
	// example when the sized quantity floors to zero shares.
	EventSkippedSignal EventType = "skipped_signal"
	// EventDroppedAction marks a queued next-open action discarded
	// because the data ended before the fill bar arrived.
	EventDroppedAction EventType = "dropped_action"
)

// Event is a structured note attached to a run.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Detail    string    `json:"detail"`
}

// Result is everything one backtest run produced.
type Result struct {
	Trades      []TradeRecord `json:"trades"`
	EquityCurve []EquityPoint `json:"equity_curve"`
	Events      []Event       `json:"events"`
	FinalEquity float64       `json:"final_equity"`
	Metrics     Metrics       `json:"metrics"`
}
