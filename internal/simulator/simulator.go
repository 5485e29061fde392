// Package simulator walks a bar sequence through a two-state trade
// machine (FLAT, IN_POSITION) and emits a closed-trade ledger plus a
// per-bar equity curve. One invocation owns its ledger and curve
// exclusively; runs are deterministic and independent.
package simulator

import (
	"walkforward-lab/internal/domain"
	"walkforward-lab/internal/indicator"
	"walkforward-lab/internal/strategy"
)

// InitialEquity is the notional starting capital of every simulation.
const InitialEquity = 10000.0

// Result holds one simulation's output. Trades contains only fully
// resolved round-trips; a position still open at the end of the span is
// excluded from the ledger but marked-to-market in Equity through the
// last bar.
type Result struct {
	Trades []domain.Trade
	Equity []domain.EquityPoint

	// OpenPosition is non-nil when the span ended in a trade.
	OpenPosition *strategy.PositionState
}

// Run simulates the rule-set over bars with a fixed parameter set.
// Bars must be pre-validated (series.Validate); indicators must be
// computed from the same bars. At most one position is open at a time.
func Run(
	bars []domain.PriceBar,
	ind *indicator.Set,
	rules strategy.RuleSet,
	params domain.ParameterSet,
) *Result {
	result := &Result{
		Equity: make([]domain.EquityPoint, 0, len(bars)),
	}

	exits := rules.ExitRules()

	var pos *strategy.PositionState
	realized := InitialEquity
	notional := 0.0

	ctx := &strategy.Context{
		Bars:       bars,
		Indicators: ind,
		Params:     params,
	}

	for i := range bars {
		ctx.Index = i
		bar := bars[i]

		if pos == nil {
			if rules.Entry(ctx) {
				pos = &strategy.PositionState{
					EntryDate:    bar.Date,
					EntryPrice:   bar.Close,
					HighestPrice: bar.Close,
				}
				notional = realized
			}
		} else {
			if bar.High > pos.HighestPrice {
				pos.HighestPrice = bar.High
			}

			if ref, ok := rules.TrendRef(ctx); ok && bar.Close < ref {
				pos.BarsBelowTrend++
			} else {
				pos.BarsBelowTrend = 0
			}

			if rule, fired := firstExit(exits, ctx, pos); fired {
				exitPrice := bar.Close
				if rule.Price != nil {
					exitPrice = rule.Price(ctx, pos)
				}
				trade := closeTrade(pos, bar, exitPrice, rule.Reason)
				result.Trades = append(result.Trades, trade)
				realized *= 1 + trade.ReturnPct/100
				pos = nil
			}
		}

		equity := realized
		if pos != nil {
			equity = notional * (bar.Close / pos.EntryPrice)
		}
		result.Equity = append(result.Equity, domain.EquityPoint{Date: bar.Date, Equity: equity})
	}

	result.OpenPosition = pos
	return result
}

// firstExit evaluates the exit chain in declared order and returns the
// first matching rule.
func firstExit(exits []strategy.ExitRule, ctx *strategy.Context, pos *strategy.PositionState) (strategy.ExitRule, bool) {
	for _, rule := range exits {
		if rule.Triggered(ctx, pos) {
			return rule, true
		}
	}
	return strategy.ExitRule{}, false
}

// closeTrade resolves the open position into an immutable Trade.
func closeTrade(pos *strategy.PositionState, bar domain.PriceBar, exitPrice float64, reason string) domain.Trade {
	returnPct := (exitPrice - pos.EntryPrice) / pos.EntryPrice * 100
	return domain.Trade{
		EntryDate:    pos.EntryDate,
		ExitDate:     bar.Date,
		EntryPrice:   pos.EntryPrice,
		ExitPrice:    exitPrice,
		ReturnPct:    returnPct,
		DurationDays: int((bar.Date - pos.EntryDate) / domain.MillisPerDay),
		ExitReason:   reason,
	}
}
