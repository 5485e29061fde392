package strategy

import (
	"errors"
	"fmt"

	"walkforward-lab/internal/domain"
)

// ErrUnknownStrategyType is returned for an unrecognized strategy type.
var ErrUnknownStrategyType = errors.New("unknown strategy type")

// FromType creates a RuleSet for a strategy type constant.
func FromType(strategyType string) (RuleSet, error) {
	switch strategyType {
	case domain.StrategyTypeMomentumTrend:
		return NewMomentumTrend(), nil
	case domain.StrategyTypeCompositeMomentum:
		return NewCompositeMomentum(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategyType, strategyType)
	}
}
