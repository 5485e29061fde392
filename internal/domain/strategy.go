package domain

// Strategy type constants for the built-in rule-sets.
const (
	// StrategyTypeMomentumTrend is the primary rule-set: 12-month
	// momentum entry above a long-term moving average, trailing stop,
	// momentum deterioration and trend break exits.
	StrategyTypeMomentumTrend = "MOMENTUM_TREND"

	// StrategyTypeCompositeMomentum blends 12-1 month and 6-1 month
	// momentum for entry; shares the same exit chain.
	StrategyTypeCompositeMomentum = "COMPOSITE_MOMENTUM"
)
