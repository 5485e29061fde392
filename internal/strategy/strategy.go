// Package strategy defines pluggable signal rule-sets. A rule-set
// declares the indicators it needs, an entry predicate, and an ordered
// chain of tagged exit rules. Evaluation is pure: bars inside an
// indicator's warm-up period produce no signal, never a fault.
package strategy

import (
	"walkforward-lab/internal/domain"
	"walkforward-lab/internal/indicator"
)

// Context carries everything a predicate may read for one bar.
// Indicators are aligned index-for-index with Bars.
type Context struct {
	Bars       []domain.PriceBar
	Indicators *indicator.Set
	Index      int
	Params     domain.ParameterSet
}

// Bar returns the bar under evaluation.
func (c *Context) Bar() domain.PriceBar {
	return c.Bars[c.Index]
}

// PositionState is the simulator-owned state of the open position,
// visible to exit predicates.
type PositionState struct {
	EntryDate      int64
	EntryPrice     float64
	HighestPrice   float64 // highest bar high since entry
	BarsBelowTrend int     // consecutive closes below the trend reference
}

// ExitRule is one tagged exit predicate. The simulator evaluates rules
// in declared order and takes the first match, so earlier rules have
// higher priority.
type ExitRule struct {
	Reason    string
	Triggered func(ctx *Context, pos *PositionState) bool

	// Price overrides the fill price of the exit. Nil means fill at the
	// bar close. The trailing stop fills at its stop level, so a gap
	// through the stop realizes the configured loss, not the gap size.
	Price func(ctx *Context, pos *PositionState) float64
}

// RuleSet is one strategy variant.
type RuleSet interface {
	// ID returns the strategy identifier.
	ID() string

	// Requirements declares the indicators the rule-set evaluates.
	Requirements() indicator.Requirements

	// Entry reports whether an entry fires on the current bar.
	// Must return false during indicator warm-up.
	Entry(ctx *Context) bool

	// ExitRules returns the prioritized exit chain. The trailing stop
	// is always first: it is a hard risk limit.
	ExitRules() []ExitRule

	// TrendRef returns the long-term trend reference for the current
	// bar, used to count consecutive closes below trend. ok is false
	// during warm-up; the counter resets on undefined bars.
	TrendRef(ctx *Context) (value float64, ok bool)
}

// trailingStopRule is the unconditional exit component shared by all
// rule-sets: close below highest-since-entry reduced by the configured
// stop distance.
func trailingStopRule() ExitRule {
	stopPrice := func(ctx *Context, pos *PositionState) float64 {
		stopPct := ctx.Params[domain.ParamTrailingStopPct] / 100
		return pos.HighestPrice * (1 - stopPct)
	}
	return ExitRule{
		Reason: domain.ExitReasonTrailingStop,
		Triggered: func(ctx *Context, pos *PositionState) bool {
			return ctx.Bar().Close < stopPrice(ctx, pos)
		},
		Price: stopPrice,
	}
}

// trendBreakRule exits after N consecutive closes below the trend
// reference.
func trendBreakRule() ExitRule {
	return ExitRule{
		Reason: domain.ExitReasonTrendBreak,
		Triggered: func(ctx *Context, pos *PositionState) bool {
			threshold := int(ctx.Params[domain.ParamTrendDaysBelow])
			return threshold > 0 && pos.BarsBelowTrend >= threshold
		},
	}
}
