package strategy

import (
	"walkforward-lab/internal/domain"
	"walkforward-lab/internal/indicator"
)

// Momentum lookbacks and trend period in trading days.
const (
	momentum12M = 252
	trendPeriod = 200
)

// MomentumTrendRuleSet is the primary variant: enter on positive
// 12-month momentum while the close holds above its 200-bar average;
// exit on trailing stop, momentum deterioration, or trend break.
type MomentumTrendRuleSet struct{}

// NewMomentumTrend creates the momentum trend rule-set.
func NewMomentumTrend() *MomentumTrendRuleSet {
	return &MomentumTrendRuleSet{}
}

// ID returns the strategy identifier.
func (s *MomentumTrendRuleSet) ID() string {
	return domain.StrategyTypeMomentumTrend
}

// Requirements declares 12-month momentum and the 200-bar average.
func (s *MomentumTrendRuleSet) Requirements() indicator.Requirements {
	return indicator.Requirements{
		MomentumLookbacks: []int{momentum12M},
		SMAPeriods:        []int{trendPeriod},
	}
}

// Entry fires when 12-month momentum exceeds the configured minimum and
// the close is above the 200-bar average. An undefined momentum blocks
// entry; an undefined average does not (momentum warm-up is longer and
// is the binding constraint).
func (s *MomentumTrendRuleSet) Entry(ctx *Context) bool {
	mom := ctx.Indicators.MomentumAt(momentum12M, ctx.Index)
	if !indicator.IsDefined(mom) {
		return false
	}
	if mom <= ctx.Params[domain.ParamMomentumEntryMin] {
		return false
	}

	sma := ctx.Indicators.SMAAt(trendPeriod, ctx.Index)
	if indicator.IsDefined(sma) && ctx.Bar().Close <= sma {
		return false
	}

	return true
}

// ExitRules returns the prioritized chain: trailing stop, momentum
// deterioration, trend break.
func (s *MomentumTrendRuleSet) ExitRules() []ExitRule {
	return []ExitRule{
		trailingStopRule(),
		{
			Reason: domain.ExitReasonMomentumDeterioration,
			Triggered: func(ctx *Context, _ *PositionState) bool {
				mom := ctx.Indicators.MomentumAt(momentum12M, ctx.Index)
				if !indicator.IsDefined(mom) {
					return false
				}
				return mom < ctx.Params[domain.ParamMomentumThreshold]
			},
		},
		trendBreakRule(),
	}
}

// TrendRef returns the 200-bar average for trend-break counting.
func (s *MomentumTrendRuleSet) TrendRef(ctx *Context) (float64, bool) {
	sma := ctx.Indicators.SMAAt(trendPeriod, ctx.Index)
	return sma, indicator.IsDefined(sma)
}

var _ RuleSet = (*MomentumTrendRuleSet)(nil)
