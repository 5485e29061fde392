package strategy

import (
	"walkforward-lab/internal/domain"
	"walkforward-lab/internal/indicator"
)

// Momentum lookbacks excluding the most recent month, to sidestep the
// short-term reversal effect.
const (
	momentum12x1M = 252 - 21
	momentum6x1M  = 126 - 21
)

// CompositeMomentumRuleSet blends 12-1 month and 6-1 month momentum
// (50% each) for entry. The exit chain is shared with the momentum
// trend variant.
type CompositeMomentumRuleSet struct{}

// NewCompositeMomentum creates the composite momentum rule-set.
func NewCompositeMomentum() *CompositeMomentumRuleSet {
	return &CompositeMomentumRuleSet{}
}

// ID returns the strategy identifier.
func (s *CompositeMomentumRuleSet) ID() string {
	return domain.StrategyTypeCompositeMomentum
}

// Requirements declares both skip-month momentum lookbacks plus the
// full 12-month momentum used by the deterioration exit, and the
// 200-bar trend average.
func (s *CompositeMomentumRuleSet) Requirements() indicator.Requirements {
	return indicator.Requirements{
		MomentumLookbacks: []int{momentum12x1M, momentum6x1M, momentum12M},
		SMAPeriods:        []int{trendPeriod},
	}
}

// composite returns the blended momentum, or undefined while either
// component is in warm-up.
func (s *CompositeMomentumRuleSet) composite(ctx *Context) float64 {
	m12 := ctx.Indicators.MomentumAt(momentum12x1M, ctx.Index)
	m6 := ctx.Indicators.MomentumAt(momentum6x1M, ctx.Index)
	if !indicator.IsDefined(m12) || !indicator.IsDefined(m6) {
		return indicator.Undefined
	}
	return 0.5*m12 + 0.5*m6
}

// Entry fires when the composite momentum exceeds the configured
// minimum and the close is above a defined 200-bar average. Unlike the
// baseline variant, an undefined trend average blocks entry.
func (s *CompositeMomentumRuleSet) Entry(ctx *Context) bool {
	sma := ctx.Indicators.SMAAt(trendPeriod, ctx.Index)
	if !indicator.IsDefined(sma) || ctx.Bar().Close <= sma {
		return false
	}

	comp := s.composite(ctx)
	if !indicator.IsDefined(comp) {
		return false
	}
	return comp > ctx.Params[domain.ParamCompositeEntryMin]
}

// ExitRules returns the shared prioritized chain.
func (s *CompositeMomentumRuleSet) ExitRules() []ExitRule {
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
func (s *CompositeMomentumRuleSet) TrendRef(ctx *Context) (float64, bool) {
	sma := ctx.Indicators.SMAAt(trendPeriod, ctx.Index)
	return sma, indicator.IsDefined(sma)
}

var _ RuleSet = (*CompositeMomentumRuleSet)(nil)
