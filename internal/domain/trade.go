package domain

// Trade represents one closed round-trip position.
// Created when a position closes, immutable thereafter, appended to the
// run's ledger in chronological order.
type Trade struct {
	EntryDate    int64   // Unix ms of entry bar
	ExitDate     int64   // Unix ms of exit bar, strictly after EntryDate
	EntryPrice   float64 // close of entry bar
	ExitPrice    float64 // close of exit bar
	ReturnPct    float64 // (exit - entry) / entry * 100
	DurationDays int     // calendar days held
	ExitReason   string  // reason tag of the exit rule that fired
}

// Exit reason tags, in simulator priority order.
const (
	ExitReasonTrailingStop          = "trailing_stop"
	ExitReasonMomentumDeterioration = "momentum_deterioration"
	ExitReasonTrendBreak            = "trend_break"
)

// EquityPoint is one mark-to-market sample of the equity curve.
// One point is emitted per simulated bar.
type EquityPoint struct {
	Date   int64   // Unix ms of the bar
	Equity float64 // account value at bar close
}
